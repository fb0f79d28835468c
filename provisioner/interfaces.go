package provisioner

import (
	"context"

	awsm "stackforge/awsd/models"
	stackm "stackforge/stack/models"
)

// EC2Client defines the EC2-backed operations the provisioner needs.
// Implemented by awsd.Client.
type EC2Client interface {
	CreateVPC(ctx context.Context, spec stackm.VPC) (*awsm.VPC, error)
	DescribeVPC(ctx context.Context, vpcID string) (*awsm.VPC, error)
	DeleteVPC(ctx context.Context, vpcID string) error

	CreateInternetGateway(ctx context.Context, name, vpcID string) (*awsm.InternetGateway, error)
	DescribeInternetGateway(ctx context.Context, igwID string) (*awsm.InternetGateway, error)
	DeleteInternetGateway(ctx context.Context, igwID, vpcID string) error

	CreateSubnet(ctx context.Context, spec stackm.Subnet, vpcID string) (*awsm.Subnet, error)
	DescribeSubnet(ctx context.Context, subnetID string) (*awsm.Subnet, error)
	DeleteSubnet(ctx context.Context, subnetID string) error

	CreateRouteTable(ctx context.Context, name, vpcID, igwID, destinationCIDR string, subnetIDs []string) (*awsm.RouteTable, error)
	DescribeRouteTable(ctx context.Context, rtID string) (*awsm.RouteTable, error)
	DeleteRouteTable(ctx context.Context, rtID string, associationIDs []string) error

	CreateSecurityGroup(ctx context.Context, spec stackm.SecurityGroup, vpcID string) (*awsm.SecurityGroup, error)
	DescribeSecurityGroup(ctx context.Context, groupID string) (*awsm.SecurityGroup, error)
	DeleteSecurityGroup(ctx context.Context, groupID string) error

	CreateLaunchTemplate(ctx context.Context, spec stackm.LaunchTemplate, securityGroupIDs []string, userData string) (*awsm.LaunchTemplate, error)
	DescribeLaunchTemplate(ctx context.Context, templateID string) (*awsm.LaunchTemplate, error)
	DeleteLaunchTemplate(ctx context.Context, templateID string) error

	RunInstance(ctx context.Context, spec stackm.Instance, subnetID string, securityGroupIDs []string) (*awsm.Instance, error)
	DescribeInstance(ctx context.Context, instanceID string) (*awsm.Instance, error)
	TerminateInstance(ctx context.Context, instanceID string) error
}

// AutoScalingClient defines the Auto Scaling operations the provisioner
// needs. Implemented by awsd.Client.
type AutoScalingClient interface {
	CreateAutoScalingGroup(ctx context.Context, spec stackm.AutoScalingGroup, launchTemplateID string, subnetIDs []string) error
	DescribeAutoScalingGroup(ctx context.Context, name string) (*awsm.AutoScalingGroup, error)
	ScaleToZero(ctx context.Context, name string) error
	DeleteAutoScalingGroup(ctx context.Context, name string) error

	PutScalingPolicy(ctx context.Context, spec stackm.ScalingPolicy) (*awsm.ScalingPolicy, error)
	DescribeScalingPolicy(ctx context.Context, asgName, policyName string) (*awsm.ScalingPolicy, error)
	DeleteScalingPolicy(ctx context.Context, asgName, policyName string) error
}
