package provisioner

import (
	"context"

	"github.com/stretchr/testify/mock"

	awsm "stackforge/awsd/models"
	stackm "stackforge/stack/models"
)

// MockEC2Client is a testify mock for EC2Client.
type MockEC2Client struct {
	mock.Mock
}

func (m *MockEC2Client) CreateVPC(ctx context.Context, spec stackm.VPC) (*awsm.VPC, error) {
	args := m.Called(ctx, spec)
	if v := args.Get(0); v != nil {
		return v.(*awsm.VPC), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockEC2Client) DescribeVPC(ctx context.Context, vpcID string) (*awsm.VPC, error) {
	args := m.Called(ctx, vpcID)
	if v := args.Get(0); v != nil {
		return v.(*awsm.VPC), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockEC2Client) DeleteVPC(ctx context.Context, vpcID string) error {
	args := m.Called(ctx, vpcID)
	return args.Error(0)
}

func (m *MockEC2Client) CreateInternetGateway(ctx context.Context, name, vpcID string) (*awsm.InternetGateway, error) {
	args := m.Called(ctx, name, vpcID)
	if v := args.Get(0); v != nil {
		return v.(*awsm.InternetGateway), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockEC2Client) DescribeInternetGateway(ctx context.Context, igwID string) (*awsm.InternetGateway, error) {
	args := m.Called(ctx, igwID)
	if v := args.Get(0); v != nil {
		return v.(*awsm.InternetGateway), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockEC2Client) DeleteInternetGateway(ctx context.Context, igwID, vpcID string) error {
	args := m.Called(ctx, igwID, vpcID)
	return args.Error(0)
}

func (m *MockEC2Client) CreateSubnet(ctx context.Context, spec stackm.Subnet, vpcID string) (*awsm.Subnet, error) {
	args := m.Called(ctx, spec, vpcID)
	if v := args.Get(0); v != nil {
		return v.(*awsm.Subnet), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockEC2Client) DescribeSubnet(ctx context.Context, subnetID string) (*awsm.Subnet, error) {
	args := m.Called(ctx, subnetID)
	if v := args.Get(0); v != nil {
		return v.(*awsm.Subnet), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockEC2Client) DeleteSubnet(ctx context.Context, subnetID string) error {
	args := m.Called(ctx, subnetID)
	return args.Error(0)
}

func (m *MockEC2Client) CreateRouteTable(ctx context.Context, name, vpcID, igwID, destinationCIDR string, subnetIDs []string) (*awsm.RouteTable, error) {
	args := m.Called(ctx, name, vpcID, igwID, destinationCIDR, subnetIDs)
	if v := args.Get(0); v != nil {
		return v.(*awsm.RouteTable), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockEC2Client) DescribeRouteTable(ctx context.Context, rtID string) (*awsm.RouteTable, error) {
	args := m.Called(ctx, rtID)
	if v := args.Get(0); v != nil {
		return v.(*awsm.RouteTable), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockEC2Client) DeleteRouteTable(ctx context.Context, rtID string, associationIDs []string) error {
	args := m.Called(ctx, rtID, associationIDs)
	return args.Error(0)
}

func (m *MockEC2Client) CreateSecurityGroup(ctx context.Context, spec stackm.SecurityGroup, vpcID string) (*awsm.SecurityGroup, error) {
	args := m.Called(ctx, spec, vpcID)
	if v := args.Get(0); v != nil {
		return v.(*awsm.SecurityGroup), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockEC2Client) DescribeSecurityGroup(ctx context.Context, groupID string) (*awsm.SecurityGroup, error) {
	args := m.Called(ctx, groupID)
	if v := args.Get(0); v != nil {
		return v.(*awsm.SecurityGroup), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockEC2Client) DeleteSecurityGroup(ctx context.Context, groupID string) error {
	args := m.Called(ctx, groupID)
	return args.Error(0)
}

func (m *MockEC2Client) CreateLaunchTemplate(ctx context.Context, spec stackm.LaunchTemplate, securityGroupIDs []string, userData string) (*awsm.LaunchTemplate, error) {
	args := m.Called(ctx, spec, securityGroupIDs, userData)
	if v := args.Get(0); v != nil {
		return v.(*awsm.LaunchTemplate), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockEC2Client) DescribeLaunchTemplate(ctx context.Context, templateID string) (*awsm.LaunchTemplate, error) {
	args := m.Called(ctx, templateID)
	if v := args.Get(0); v != nil {
		return v.(*awsm.LaunchTemplate), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockEC2Client) DeleteLaunchTemplate(ctx context.Context, templateID string) error {
	args := m.Called(ctx, templateID)
	return args.Error(0)
}

func (m *MockEC2Client) RunInstance(ctx context.Context, spec stackm.Instance, subnetID string, securityGroupIDs []string) (*awsm.Instance, error) {
	args := m.Called(ctx, spec, subnetID, securityGroupIDs)
	if v := args.Get(0); v != nil {
		return v.(*awsm.Instance), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockEC2Client) DescribeInstance(ctx context.Context, instanceID string) (*awsm.Instance, error) {
	args := m.Called(ctx, instanceID)
	if v := args.Get(0); v != nil {
		return v.(*awsm.Instance), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockEC2Client) TerminateInstance(ctx context.Context, instanceID string) error {
	args := m.Called(ctx, instanceID)
	return args.Error(0)
}

// MockAutoScalingClient is a testify mock for AutoScalingClient.
type MockAutoScalingClient struct {
	mock.Mock
}

func (m *MockAutoScalingClient) CreateAutoScalingGroup(ctx context.Context, spec stackm.AutoScalingGroup, launchTemplateID string, subnetIDs []string) error {
	args := m.Called(ctx, spec, launchTemplateID, subnetIDs)
	return args.Error(0)
}

func (m *MockAutoScalingClient) DescribeAutoScalingGroup(ctx context.Context, name string) (*awsm.AutoScalingGroup, error) {
	args := m.Called(ctx, name)
	if v := args.Get(0); v != nil {
		return v.(*awsm.AutoScalingGroup), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockAutoScalingClient) ScaleToZero(ctx context.Context, name string) error {
	args := m.Called(ctx, name)
	return args.Error(0)
}

func (m *MockAutoScalingClient) DeleteAutoScalingGroup(ctx context.Context, name string) error {
	args := m.Called(ctx, name)
	return args.Error(0)
}

func (m *MockAutoScalingClient) PutScalingPolicy(ctx context.Context, spec stackm.ScalingPolicy) (*awsm.ScalingPolicy, error) {
	args := m.Called(ctx, spec)
	if v := args.Get(0); v != nil {
		return v.(*awsm.ScalingPolicy), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockAutoScalingClient) DescribeScalingPolicy(ctx context.Context, asgName, policyName string) (*awsm.ScalingPolicy, error) {
	args := m.Called(ctx, asgName, policyName)
	if v := args.Get(0); v != nil {
		return v.(*awsm.ScalingPolicy), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockAutoScalingClient) DeleteScalingPolicy(ctx context.Context, asgName, policyName string) error {
	args := m.Called(ctx, asgName, policyName)
	return args.Error(0)
}
