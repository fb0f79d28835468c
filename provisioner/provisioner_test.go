package provisioner

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/aws/smithy-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	awsm "stackforge/awsd/models"
	"stackforge/errors"
	stackm "stackforge/stack/models"
	"stackforge/state"
)

func testService(t *testing.T, ec2Mock *MockEC2Client, asgMock *MockAutoScalingClient) (*Service, string) {
	t.Helper()
	statePath := filepath.Join(t.TempDir(), "test.state.json")
	svc := NewService(ec2Mock, asgMock, statePath, "us-east-1",
		time.Second, time.Millisecond, zap.NewNop())
	return svc, statePath
}

func fullStack() *stackm.Stack {
	return &stackm.Stack{
		Name: "webapp",
		VPCs: []stackm.VPC{{Name: "main", CIDRBlock: "10.0.0.0/16"}},
		InternetGateways: []stackm.InternetGateway{
			{Name: "main", VPC: "main"},
		},
		Subnets: []stackm.Subnet{
			{Name: "public_a", VPC: "main", CIDRBlock: "10.0.1.0/24", AvailabilityZone: "us-east-1a"},
			{Name: "public_b", VPC: "main", CIDRBlock: "10.0.2.0/24", AvailabilityZone: "us-east-1b"},
		},
		RouteTables: []stackm.RouteTable{
			{Name: "public", VPC: "main", Gateway: "main", Subnets: []string{"public_a", "public_b"}},
		},
		SecurityGroups: []stackm.SecurityGroup{
			{Name: "web", VPC: "main", Description: "web"},
		},
		LaunchTemplates: []stackm.LaunchTemplate{
			{Name: "web", AMI: "ami-1", InstanceType: "t3.micro", SecurityGroups: []string{"web"}},
		},
		AutoScalingGroups: []stackm.AutoScalingGroup{
			{Name: "web", LaunchTemplate: "web", Subnets: []string{"public_a", "public_b"}, MinSize: 1, MaxSize: 3, DesiredCapacity: 2},
		},
		ScalingPolicies: []stackm.ScalingPolicy{
			{Name: "cpu", AutoScalingGroup: "web", TargetCPU: 50},
		},
		Instances: []stackm.Instance{
			{Name: "bastion", AMI: "ami-1", InstanceType: "t3.micro", Subnet: "public_a", SecurityGroups: []string{"web"}},
		},
	}
}

func subnetNamed(name string) interface{} {
	return mock.MatchedBy(func(s stackm.Subnet) bool { return s.Name == name })
}

func TestApply_FullStack(t *testing.T) {
	ec2Mock := new(MockEC2Client)
	asgMock := new(MockAutoScalingClient)

	ec2Mock.On("CreateVPC", mock.Anything, mock.Anything).
		Return(&awsm.VPC{ID: "vpc-1", CIDRBlock: "10.0.0.0/16"}, nil)
	ec2Mock.On("CreateInternetGateway", mock.Anything, "main", "vpc-1").
		Return(&awsm.InternetGateway{ID: "igw-1", AttachedVPC: "vpc-1"}, nil)
	ec2Mock.On("CreateSubnet", mock.Anything, subnetNamed("public_a"), "vpc-1").
		Return(&awsm.Subnet{ID: "subnet-a", CIDRBlock: "10.0.1.0/24", AvailabilityZone: "us-east-1a"}, nil)
	ec2Mock.On("CreateSubnet", mock.Anything, subnetNamed("public_b"), "vpc-1").
		Return(&awsm.Subnet{ID: "subnet-b", CIDRBlock: "10.0.2.0/24", AvailabilityZone: "us-east-1b"}, nil)
	ec2Mock.On("CreateRouteTable", mock.Anything, "public", "vpc-1", "igw-1", "0.0.0.0/0", []string{"subnet-a", "subnet-b"}).
		Return(&awsm.RouteTable{ID: "rtb-1", VPCID: "vpc-1", AssociationIDs: []string{"assoc-a", "assoc-b"}}, nil)
	ec2Mock.On("CreateSecurityGroup", mock.Anything, mock.Anything, "vpc-1").
		Return(&awsm.SecurityGroup{ID: "sg-1", Name: "web", VPCID: "vpc-1"}, nil)
	ec2Mock.On("CreateLaunchTemplate", mock.Anything, mock.Anything, []string{"sg-1"}, "").
		Return(&awsm.LaunchTemplate{ID: "lt-1", Name: "web"}, nil)
	ec2Mock.On("RunInstance", mock.Anything, mock.Anything, "subnet-a", []string{"sg-1"}).
		Return(&awsm.Instance{ID: "i-1", State: "pending"}, nil)

	asgMock.On("CreateAutoScalingGroup", mock.Anything, mock.Anything, "lt-1", []string{"subnet-a", "subnet-b"}).
		Return(nil)
	asgMock.On("PutScalingPolicy", mock.Anything, mock.MatchedBy(func(p stackm.ScalingPolicy) bool {
		return p.Name == "cpu" && p.AutoScalingGroup == "web"
	})).Return(&awsm.ScalingPolicy{ARN: "arn:policy/cpu", Name: "cpu", TargetValue: 50}, nil)

	svc, statePath := testService(t, ec2Mock, asgMock)
	require.NoError(t, svc.Apply(context.Background(), fullStack()))

	ec2Mock.AssertExpectations(t)
	asgMock.AssertExpectations(t)

	ledger, err := state.Load(statePath, "webapp", "us-east-1")
	require.NoError(t, err)
	require.Len(t, ledger.Resources, 10)

	vpc, ok := ledger.Lookup("aws_vpc", "main")
	require.True(t, ok)
	assert.Equal(t, "vpc-1", vpc.ID)
	assert.Equal(t, "10.0.0.0/16", vpc.Attributes["cidr_block"])

	rt, ok := ledger.Lookup("aws_route_table", "public")
	require.True(t, ok)
	assert.Equal(t, "assoc-a,assoc-b", rt.Attributes["association_ids"])

	asg, ok := ledger.Lookup("aws_autoscaling_group", "web")
	require.True(t, ok)
	assert.Equal(t, "web", asg.ID)
	assert.Equal(t, "lt-1", asg.Attributes["launch_template_id"])

	policy, ok := ledger.Lookup("aws_autoscaling_policy", "cpu")
	require.True(t, ok)
	assert.Equal(t, "arn:policy/cpu", policy.ID)
	assert.Equal(t, "web", policy.Attributes["asg_name"])
}

func TestApply_SkipsRecordedResources(t *testing.T) {
	ec2Mock := new(MockEC2Client)
	asgMock := new(MockAutoScalingClient)

	svc, statePath := testService(t, ec2Mock, asgMock)

	seed := state.New("webapp", "us-east-1")
	seed.Put(state.Record{Type: "aws_vpc", Name: "main", ID: "vpc-seeded"})
	require.NoError(t, seed.Save(statePath))

	stack := &stackm.Stack{
		Name: "webapp",
		VPCs: []stackm.VPC{{Name: "main", CIDRBlock: "10.0.0.0/16"}},
		Subnets: []stackm.Subnet{
			{Name: "public_a", VPC: "main", CIDRBlock: "10.0.1.0/24", AvailabilityZone: "us-east-1a"},
		},
	}

	// Only the subnet should be created, wired to the seeded VPC ID
	ec2Mock.On("CreateSubnet", mock.Anything, subnetNamed("public_a"), "vpc-seeded").
		Return(&awsm.Subnet{ID: "subnet-a"}, nil)

	require.NoError(t, svc.Apply(context.Background(), stack))

	ec2Mock.AssertExpectations(t)
	ec2Mock.AssertNotCalled(t, "CreateVPC", mock.Anything, mock.Anything)
}

func TestApply_StopsOnStepFailure(t *testing.T) {
	ec2Mock := new(MockEC2Client)
	asgMock := new(MockAutoScalingClient)

	ec2Mock.On("CreateVPC", mock.Anything, mock.Anything).
		Return(nil, errors.New(errors.ErrAWSClient, "CreateVpc failed", nil, nil))

	svc, statePath := testService(t, ec2Mock, asgMock)

	stack := &stackm.Stack{
		Name: "webapp",
		VPCs: []stackm.VPC{{Name: "main", CIDRBlock: "10.0.0.0/16"}},
		Subnets: []stackm.Subnet{
			{Name: "public_a", VPC: "main", CIDRBlock: "10.0.1.0/24", AvailabilityZone: "us-east-1a"},
		},
	}

	err := svc.Apply(context.Background(), stack)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrApply))
	ec2Mock.AssertNotCalled(t, "CreateSubnet", mock.Anything, mock.Anything, mock.Anything)

	ledger, loadErr := state.Load(statePath, "webapp", "us-east-1")
	require.NoError(t, loadErr)
	assert.True(t, ledger.Empty(), "nothing may be recorded for a failed step")
}

func TestApply_ResumesAfterPartialRun(t *testing.T) {
	ec2Mock := new(MockEC2Client)
	asgMock := new(MockAutoScalingClient)

	svc, statePath := testService(t, ec2Mock, asgMock)

	stack := &stackm.Stack{
		Name: "webapp",
		VPCs: []stackm.VPC{{Name: "main", CIDRBlock: "10.0.0.0/16"}},
		Subnets: []stackm.Subnet{
			{Name: "public_a", VPC: "main", CIDRBlock: "10.0.1.0/24", AvailabilityZone: "us-east-1a"},
		},
	}

	// First run fails at the subnet
	ec2Mock.On("CreateVPC", mock.Anything, mock.Anything).
		Return(&awsm.VPC{ID: "vpc-1", CIDRBlock: "10.0.0.0/16"}, nil).Once()
	ec2Mock.On("CreateSubnet", mock.Anything, mock.Anything, "vpc-1").
		Return(nil, errors.New(errors.ErrAWSClient, "CreateSubnet failed", nil, nil)).Once()

	require.Error(t, svc.Apply(context.Background(), stack))

	ledger, err := state.Load(statePath, "webapp", "us-east-1")
	require.NoError(t, err)
	require.Len(t, ledger.Resources, 1, "the VPC survived the failed run")

	// Second run creates only the subnet
	ec2Mock.On("CreateSubnet", mock.Anything, mock.Anything, "vpc-1").
		Return(&awsm.Subnet{ID: "subnet-a"}, nil).Once()

	require.NoError(t, svc.Apply(context.Background(), stack))

	ledger, err = state.Load(statePath, "webapp", "us-east-1")
	require.NoError(t, err)
	assert.Len(t, ledger.Resources, 2)
	ec2Mock.AssertNumberOfCalls(t, "CreateVPC", 1)
}

func notFoundErr(msg string) error {
	return errors.New(errors.ErrAWSNotFound, msg, nil, nil)
}

func seedFullLedger(t *testing.T, statePath string) {
	t.Helper()
	seed := state.New("webapp", "us-east-1")
	seed.Put(state.Record{Type: "aws_vpc", Name: "main", ID: "vpc-1", Attributes: map[string]string{"cidr_block": "10.0.0.0/16"}})
	seed.Put(state.Record{Type: "aws_internet_gateway", Name: "main", ID: "igw-1", Attributes: map[string]string{"vpc_id": "vpc-1"}})
	seed.Put(state.Record{Type: "aws_subnet", Name: "public_a", ID: "subnet-a"})
	seed.Put(state.Record{Type: "aws_subnet", Name: "public_b", ID: "subnet-b"})
	seed.Put(state.Record{Type: "aws_route_table", Name: "public", ID: "rtb-1", Attributes: map[string]string{"association_ids": "assoc-a,assoc-b"}})
	seed.Put(state.Record{Type: "aws_security_group", Name: "web", ID: "sg-1"})
	seed.Put(state.Record{Type: "aws_launch_template", Name: "web", ID: "lt-1"})
	seed.Put(state.Record{Type: "aws_autoscaling_group", Name: "web", ID: "web", Attributes: map[string]string{"launch_template_id": "lt-1"}})
	seed.Put(state.Record{Type: "aws_autoscaling_policy", Name: "cpu", ID: "arn:policy/cpu", Attributes: map[string]string{"asg_name": "web"}})
	seed.Put(state.Record{Type: "aws_instance", Name: "bastion", ID: "i-1"})
	require.NoError(t, seed.Save(statePath))
}

func TestDestroy_FullStack(t *testing.T) {
	ec2Mock := new(MockEC2Client)
	asgMock := new(MockAutoScalingClient)

	var order []string
	step := func(name string) func(mock.Arguments) {
		return func(mock.Arguments) { order = append(order, name) }
	}

	asgMock.On("DeleteScalingPolicy", mock.Anything, "web", "cpu").Run(step("policy")).Return(nil)
	asgMock.On("ScaleToZero", mock.Anything, "web").Run(step("scale_to_zero")).Return(nil)
	asgMock.On("DeleteAutoScalingGroup", mock.Anything, "web").Run(step("asg")).Return(nil)
	asgMock.On("DescribeAutoScalingGroup", mock.Anything, "web").Return(nil, notFoundErr("gone"))

	ec2Mock.On("DeleteLaunchTemplate", mock.Anything, "lt-1").Run(step("launch_template")).Return(nil)
	ec2Mock.On("TerminateInstance", mock.Anything, "i-1").Run(step("instance")).Return(nil)
	ec2Mock.On("DescribeInstance", mock.Anything, "i-1").Return(nil, notFoundErr("gone"))
	ec2Mock.On("DeleteSecurityGroup", mock.Anything, "sg-1").Run(step("security_group")).Return(nil)
	ec2Mock.On("DeleteRouteTable", mock.Anything, "rtb-1", []string{"assoc-a", "assoc-b"}).Run(step("route_table")).Return(nil)
	ec2Mock.On("DeleteInternetGateway", mock.Anything, "igw-1", "vpc-1").Run(step("internet_gateway")).Return(nil)
	ec2Mock.On("DeleteSubnet", mock.Anything, "subnet-a").Run(step("subnet_a")).Return(nil)
	ec2Mock.On("DeleteSubnet", mock.Anything, "subnet-b").Run(step("subnet_b")).Return(nil)
	ec2Mock.On("DeleteVPC", mock.Anything, "vpc-1").Run(step("vpc")).Return(nil)

	svc, statePath := testService(t, ec2Mock, asgMock)
	seedFullLedger(t, statePath)

	require.NoError(t, svc.Destroy(context.Background(), fullStack()))

	ec2Mock.AssertExpectations(t)
	asgMock.AssertExpectations(t)

	pos := func(name string) int {
		for i, n := range order {
			if n == name {
				return i
			}
		}
		t.Fatalf("step %s never ran", name)
		return -1
	}

	assert.Less(t, pos("policy"), pos("scale_to_zero"))
	assert.Less(t, pos("scale_to_zero"), pos("asg"))
	assert.Less(t, pos("asg"), pos("launch_template"))
	assert.Less(t, pos("launch_template"), pos("security_group"))
	assert.Less(t, pos("instance"), pos("security_group"))
	assert.Less(t, pos("route_table"), pos("internet_gateway"))
	assert.Less(t, pos("subnet_a"), pos("vpc"))
	assert.Less(t, pos("subnet_b"), pos("vpc"))
	assert.Equal(t, "vpc", order[len(order)-1])

	ledger, err := state.Load(statePath, "webapp", "us-east-1")
	require.NoError(t, err)
	assert.True(t, ledger.Empty())
}

func TestDestroy_RemovesAlreadyGoneResources(t *testing.T) {
	ec2Mock := new(MockEC2Client)
	asgMock := new(MockAutoScalingClient)

	ec2Mock.On("DeleteVPC", mock.Anything, "vpc-1").Return(notFoundErr("already gone"))

	svc, statePath := testService(t, ec2Mock, asgMock)
	seed := state.New("webapp", "us-east-1")
	seed.Put(state.Record{Type: "aws_vpc", Name: "main", ID: "vpc-1"})
	require.NoError(t, seed.Save(statePath))

	stack := &stackm.Stack{
		Name: "webapp",
		VPCs: []stackm.VPC{{Name: "main", CIDRBlock: "10.0.0.0/16"}},
	}
	require.NoError(t, svc.Destroy(context.Background(), stack))

	ledger, err := state.Load(statePath, "webapp", "us-east-1")
	require.NoError(t, err)
	assert.True(t, ledger.Empty())
}

func TestDestroy_ASGAndPolicyDeletedOutOfBand(t *testing.T) {
	ec2Mock := new(MockEC2Client)
	asgMock := new(MockAutoScalingClient)

	asgMock.On("DeleteScalingPolicy", mock.Anything, "web", "cpu").
		Return(&smithy.GenericAPIError{Code: "ValidationError", Message: "ScalingPolicy name not found - null"})
	asgMock.On("ScaleToZero", mock.Anything, "web").
		Return(&smithy.GenericAPIError{Code: "ValidationError", Message: "AutoScalingGroup name not found - null"})

	svc, statePath := testService(t, ec2Mock, asgMock)
	seed := state.New("webapp", "us-east-1")
	seed.Put(state.Record{Type: "aws_autoscaling_group", Name: "web", ID: "web", Attributes: map[string]string{"launch_template_id": "lt-1"}})
	seed.Put(state.Record{Type: "aws_autoscaling_policy", Name: "cpu", ID: "arn:policy/cpu", Attributes: map[string]string{"asg_name": "web"}})
	require.NoError(t, seed.Save(statePath))

	require.NoError(t, svc.Destroy(context.Background(), fullStack()))

	ledger, err := state.Load(statePath, "webapp", "us-east-1")
	require.NoError(t, err)
	assert.True(t, ledger.Empty())
	asgMock.AssertNotCalled(t, "DeleteAutoScalingGroup", mock.Anything, mock.Anything)
}

func TestDestroy_EmptyStateIsNoop(t *testing.T) {
	ec2Mock := new(MockEC2Client)
	asgMock := new(MockAutoScalingClient)

	svc, _ := testService(t, ec2Mock, asgMock)
	require.NoError(t, svc.Destroy(context.Background(), fullStack()))

	ec2Mock.AssertNotCalled(t, "DeleteVPC", mock.Anything, mock.Anything)
}

func TestDestroy_StopsOnHardFailure(t *testing.T) {
	ec2Mock := new(MockEC2Client)
	asgMock := new(MockAutoScalingClient)

	ec2Mock.On("DeleteVPC", mock.Anything, "vpc-1").
		Return(errors.New(errors.ErrAWSClient, "DependencyViolation", nil, nil))

	svc, statePath := testService(t, ec2Mock, asgMock)
	seed := state.New("webapp", "us-east-1")
	seed.Put(state.Record{Type: "aws_vpc", Name: "main", ID: "vpc-1"})
	require.NoError(t, seed.Save(statePath))

	stack := &stackm.Stack{
		Name: "webapp",
		VPCs: []stackm.VPC{{Name: "main", CIDRBlock: "10.0.0.0/16"}},
	}
	err := svc.Destroy(context.Background(), stack)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrTeardown))

	ledger, loadErr := state.Load(statePath, "webapp", "us-east-1")
	require.NoError(t, loadErr)
	assert.False(t, ledger.Empty(), "a failed delete keeps the record")
}
