package awsd

import (
	"context"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ec2"
	"github.com/aws/aws-sdk-go-v2/service/ec2/types"
	"github.com/aws/smithy-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	stackm "stackforge/stack/models"
)

func testClient(ec2Mock *MockEC2Client, asgMock *MockAutoScalingClient) *Client {
	return NewClientWithAPIs(ec2Mock, asgMock, 2, time.Millisecond)
}

func TestCreateVPC(t *testing.T) {
	var modifyCalls int
	mockEC2 := &MockEC2Client{
		CreateVpcFunc: func(ctx context.Context, params *ec2.CreateVpcInput, optFns ...func(*ec2.Options)) (*ec2.CreateVpcOutput, error) {
			assert.Equal(t, "10.0.0.0/16", aws.ToString(params.CidrBlock))
			require.Len(t, params.TagSpecifications, 1)
			assert.Equal(t, types.ResourceTypeVpc, params.TagSpecifications[0].ResourceType)
			return &ec2.CreateVpcOutput{
				Vpc: &types.Vpc{
					VpcId:     aws.String("vpc-0123"),
					CidrBlock: aws.String("10.0.0.0/16"),
					State:     types.VpcStateAvailable,
				},
			}, nil
		},
		ModifyVpcAttributeFunc: func(ctx context.Context, params *ec2.ModifyVpcAttributeInput, optFns ...func(*ec2.Options)) (*ec2.ModifyVpcAttributeOutput, error) {
			modifyCalls++
			assert.Equal(t, "vpc-0123", aws.ToString(params.VpcId))
			return &ec2.ModifyVpcAttributeOutput{}, nil
		},
	}

	client := testClient(mockEC2, &MockAutoScalingClient{})
	vpc, err := client.CreateVPC(context.Background(), stackm.VPC{
		Name:               "main",
		CIDRBlock:          "10.0.0.0/16",
		EnableDNSHostnames: true,
		EnableDNSSupport:   true,
	})
	require.NoError(t, err)

	assert.Equal(t, "vpc-0123", vpc.ID)
	assert.Equal(t, "10.0.0.0/16", vpc.CIDRBlock)
	assert.Equal(t, "available", vpc.State)
	assert.Equal(t, 2, modifyCalls, "one attribute call per DNS flag")
}

func TestDescribeVPC_NotFound(t *testing.T) {
	mockEC2 := &MockEC2Client{
		DescribeVpcsFunc: func(ctx context.Context, params *ec2.DescribeVpcsInput, optFns ...func(*ec2.Options)) (*ec2.DescribeVpcsOutput, error) {
			return &ec2.DescribeVpcsOutput{}, nil
		},
	}

	client := testClient(mockEC2, &MockAutoScalingClient{})
	_, err := client.DescribeVPC(context.Background(), "vpc-gone")
	require.Error(t, err)
	assert.True(t, IsNotFound(err))
}

func TestCreateInternetGateway_AttachesToVPC(t *testing.T) {
	mockEC2 := &MockEC2Client{
		CreateInternetGatewayFunc: func(ctx context.Context, params *ec2.CreateInternetGatewayInput, optFns ...func(*ec2.Options)) (*ec2.CreateInternetGatewayOutput, error) {
			return &ec2.CreateInternetGatewayOutput{
				InternetGateway: &types.InternetGateway{
					InternetGatewayId: aws.String("igw-0123"),
				},
			}, nil
		},
		AttachInternetGatewayFunc: func(ctx context.Context, params *ec2.AttachInternetGatewayInput, optFns ...func(*ec2.Options)) (*ec2.AttachInternetGatewayOutput, error) {
			assert.Equal(t, "igw-0123", aws.ToString(params.InternetGatewayId))
			assert.Equal(t, "vpc-0123", aws.ToString(params.VpcId))
			return &ec2.AttachInternetGatewayOutput{}, nil
		},
	}

	client := testClient(mockEC2, &MockAutoScalingClient{})
	igw, err := client.CreateInternetGateway(context.Background(), "main", "vpc-0123")
	require.NoError(t, err)

	assert.Equal(t, "igw-0123", igw.ID)
	assert.Equal(t, "vpc-0123", igw.AttachedVPC)
}

func TestDeleteInternetGateway_ToleratesMissingAttachment(t *testing.T) {
	var deleted bool
	mockEC2 := &MockEC2Client{
		DetachInternetGatewayFunc: func(ctx context.Context, params *ec2.DetachInternetGatewayInput, optFns ...func(*ec2.Options)) (*ec2.DetachInternetGatewayOutput, error) {
			return nil, &smithy.GenericAPIError{Code: "InvalidInternetGatewayID.NotFound", Message: "gone"}
		},
		DeleteInternetGatewayFunc: func(ctx context.Context, params *ec2.DeleteInternetGatewayInput, optFns ...func(*ec2.Options)) (*ec2.DeleteInternetGatewayOutput, error) {
			deleted = true
			return &ec2.DeleteInternetGatewayOutput{}, nil
		},
	}

	client := testClient(mockEC2, &MockAutoScalingClient{})
	err := client.DeleteInternetGateway(context.Background(), "igw-0123", "vpc-0123")
	require.NoError(t, err)
	assert.True(t, deleted, "a missing attachment must not stop the delete")
}

func TestCreateSubnet_MapsPublicIP(t *testing.T) {
	var attributeModified bool
	mockEC2 := &MockEC2Client{
		CreateSubnetFunc: func(ctx context.Context, params *ec2.CreateSubnetInput, optFns ...func(*ec2.Options)) (*ec2.CreateSubnetOutput, error) {
			assert.Equal(t, "vpc-0123", aws.ToString(params.VpcId))
			assert.Equal(t, "us-east-1a", aws.ToString(params.AvailabilityZone))
			return &ec2.CreateSubnetOutput{
				Subnet: &types.Subnet{
					SubnetId:         aws.String("subnet-0123"),
					CidrBlock:        aws.String("10.0.1.0/24"),
					AvailabilityZone: aws.String("us-east-1a"),
					State:            types.SubnetStateAvailable,
				},
			}, nil
		},
		ModifySubnetAttributeFunc: func(ctx context.Context, params *ec2.ModifySubnetAttributeInput, optFns ...func(*ec2.Options)) (*ec2.ModifySubnetAttributeOutput, error) {
			attributeModified = true
			assert.True(t, aws.ToBool(params.MapPublicIpOnLaunch.Value))
			return &ec2.ModifySubnetAttributeOutput{}, nil
		},
	}

	client := testClient(mockEC2, &MockAutoScalingClient{})
	subnet, err := client.CreateSubnet(context.Background(), stackm.Subnet{
		Name:             "public_a",
		CIDRBlock:        "10.0.1.0/24",
		AvailabilityZone: "us-east-1a",
		MapPublicIP:      true,
	}, "vpc-0123")
	require.NoError(t, err)

	assert.Equal(t, "subnet-0123", subnet.ID)
	assert.True(t, attributeModified)
}

func TestCreateRouteTable_AssociatesAllSubnets(t *testing.T) {
	var associated []string
	mockEC2 := &MockEC2Client{
		CreateRouteTableFunc: func(ctx context.Context, params *ec2.CreateRouteTableInput, optFns ...func(*ec2.Options)) (*ec2.CreateRouteTableOutput, error) {
			return &ec2.CreateRouteTableOutput{
				RouteTable: &types.RouteTable{RouteTableId: aws.String("rtb-0123")},
			}, nil
		},
		CreateRouteFunc: func(ctx context.Context, params *ec2.CreateRouteInput, optFns ...func(*ec2.Options)) (*ec2.CreateRouteOutput, error) {
			assert.Equal(t, "0.0.0.0/0", aws.ToString(params.DestinationCidrBlock))
			assert.Equal(t, "igw-0123", aws.ToString(params.GatewayId))
			return &ec2.CreateRouteOutput{}, nil
		},
		AssociateRouteTableFunc: func(ctx context.Context, params *ec2.AssociateRouteTableInput, optFns ...func(*ec2.Options)) (*ec2.AssociateRouteTableOutput, error) {
			subnetID := aws.ToString(params.SubnetId)
			associated = append(associated, subnetID)
			return &ec2.AssociateRouteTableOutput{
				AssociationId: aws.String("rtbassoc-" + subnetID),
			}, nil
		},
	}

	client := testClient(mockEC2, &MockAutoScalingClient{})
	rt, err := client.CreateRouteTable(context.Background(), "public", "vpc-0123", "igw-0123", "0.0.0.0/0",
		[]string{"subnet-a", "subnet-b"})
	require.NoError(t, err)

	assert.Equal(t, "rtb-0123", rt.ID)
	assert.Equal(t, []string{"subnet-a", "subnet-b"}, associated)
	assert.Equal(t, []string{"rtbassoc-subnet-a", "rtbassoc-subnet-b"}, rt.AssociationIDs)
}

func TestCreateSecurityGroup_AuthorizesIngress(t *testing.T) {
	mockEC2 := &MockEC2Client{
		CreateSecurityGroupFunc: func(ctx context.Context, params *ec2.CreateSecurityGroupInput, optFns ...func(*ec2.Options)) (*ec2.CreateSecurityGroupOutput, error) {
			return &ec2.CreateSecurityGroupOutput{GroupId: aws.String("sg-0123")}, nil
		},
		AuthorizeSecurityGroupIngressFunc: func(ctx context.Context, params *ec2.AuthorizeSecurityGroupIngressInput, optFns ...func(*ec2.Options)) (*ec2.AuthorizeSecurityGroupIngressOutput, error) {
			require.Len(t, params.IpPermissions, 2)
			assert.Equal(t, int32(22), aws.ToInt32(params.IpPermissions[0].FromPort))
			assert.Equal(t, int32(80), aws.ToInt32(params.IpPermissions[1].FromPort))
			return &ec2.AuthorizeSecurityGroupIngressOutput{}, nil
		},
	}

	client := testClient(mockEC2, &MockAutoScalingClient{})
	sg, err := client.CreateSecurityGroup(context.Background(), stackm.SecurityGroup{
		Name:        "web",
		Description: "web traffic",
		Ingress: []stackm.IngressRule{
			{Protocol: "tcp", FromPort: 22, ToPort: 22, CIDRBlock: "0.0.0.0/0"},
			{Protocol: "tcp", FromPort: 80, ToPort: 80, CIDRBlock: "0.0.0.0/0"},
		},
	}, "vpc-0123")
	require.NoError(t, err)

	assert.Equal(t, "sg-0123", sg.ID)
	assert.Equal(t, "vpc-0123", sg.VPCID)
}

func TestDeleteSecurityGroup_RetriesOnDependencyViolation(t *testing.T) {
	var calls int
	mockEC2 := &MockEC2Client{
		DeleteSecurityGroupFunc: func(ctx context.Context, params *ec2.DeleteSecurityGroupInput, optFns ...func(*ec2.Options)) (*ec2.DeleteSecurityGroupOutput, error) {
			calls++
			if calls < 3 {
				return nil, &smithy.GenericAPIError{Code: "DependencyViolation", Message: "in use"}
			}
			return &ec2.DeleteSecurityGroupOutput{}, nil
		},
	}

	client := testClient(mockEC2, &MockAutoScalingClient{})
	err := client.DeleteSecurityGroup(context.Background(), "sg-0123")
	require.NoError(t, err)
	assert.Equal(t, 3, calls)
}
