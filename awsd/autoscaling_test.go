package awsd

import (
	"context"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/autoscaling"
	astypes "github.com/aws/aws-sdk-go-v2/service/autoscaling/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	stackm "stackforge/stack/models"
)

func TestCreateAutoScalingGroup(t *testing.T) {
	mockASG := &MockAutoScalingClient{
		CreateAutoScalingGroupFunc: func(ctx context.Context, params *autoscaling.CreateAutoScalingGroupInput, optFns ...func(*autoscaling.Options)) (*autoscaling.CreateAutoScalingGroupOutput, error) {
			assert.Equal(t, "web", aws.ToString(params.AutoScalingGroupName))
			assert.Equal(t, "lt-0123", aws.ToString(params.LaunchTemplate.LaunchTemplateId))
			assert.Equal(t, "$Latest", aws.ToString(params.LaunchTemplate.Version))
			assert.Equal(t, int32(1), aws.ToInt32(params.MinSize))
			assert.Equal(t, int32(3), aws.ToInt32(params.MaxSize))
			assert.Equal(t, int32(2), aws.ToInt32(params.DesiredCapacity))
			assert.Equal(t, "subnet-a,subnet-b", aws.ToString(params.VPCZoneIdentifier))
			assert.Equal(t, "EC2", aws.ToString(params.HealthCheckType))
			return &autoscaling.CreateAutoScalingGroupOutput{}, nil
		},
	}

	client := testClient(&MockEC2Client{}, mockASG)
	err := client.CreateAutoScalingGroup(context.Background(), stackm.AutoScalingGroup{
		Name:            "web",
		MinSize:         1,
		MaxSize:         3,
		DesiredCapacity: 2,
	}, "lt-0123", []string{"subnet-a", "subnet-b"})
	require.NoError(t, err)
}

func TestDescribeAutoScalingGroup(t *testing.T) {
	mockASG := &MockAutoScalingClient{
		DescribeAutoScalingGroupsFunc: func(ctx context.Context, params *autoscaling.DescribeAutoScalingGroupsInput, optFns ...func(*autoscaling.Options)) (*autoscaling.DescribeAutoScalingGroupsOutput, error) {
			return &autoscaling.DescribeAutoScalingGroupsOutput{
				AutoScalingGroups: []astypes.AutoScalingGroup{
					{
						AutoScalingGroupName: aws.String("web"),
						MinSize:              aws.Int32(1),
						MaxSize:              aws.Int32(3),
						DesiredCapacity:      aws.Int32(2),
						HealthCheckType:      aws.String("EC2"),
						VPCZoneIdentifier:    aws.String("subnet-a,subnet-b"),
						LaunchTemplate: &astypes.LaunchTemplateSpecification{
							LaunchTemplateName: aws.String("web"),
						},
						Instances: []astypes.Instance{
							{InstanceId: aws.String("i-01")},
							{InstanceId: aws.String("i-02")},
						},
					},
				},
			}, nil
		},
	}

	client := testClient(&MockEC2Client{}, mockASG)
	group, err := client.DescribeAutoScalingGroup(context.Background(), "web")
	require.NoError(t, err)

	assert.Equal(t, "web", group.Name)
	assert.Equal(t, int32(2), group.DesiredCapacity)
	assert.Equal(t, []string{"subnet-a", "subnet-b"}, group.SubnetIDs)
	assert.Equal(t, []string{"i-01", "i-02"}, group.InstanceIDs)
	assert.Equal(t, "web", group.LaunchTemplateName)
}

func TestDescribeAutoScalingGroup_NotFound(t *testing.T) {
	mockASG := &MockAutoScalingClient{
		DescribeAutoScalingGroupsFunc: func(ctx context.Context, params *autoscaling.DescribeAutoScalingGroupsInput, optFns ...func(*autoscaling.Options)) (*autoscaling.DescribeAutoScalingGroupsOutput, error) {
			return &autoscaling.DescribeAutoScalingGroupsOutput{}, nil
		},
	}

	client := testClient(&MockEC2Client{}, mockASG)
	_, err := client.DescribeAutoScalingGroup(context.Background(), "gone")
	require.Error(t, err)
	assert.True(t, IsNotFound(err))
}

func TestScaleToZero(t *testing.T) {
	mockASG := &MockAutoScalingClient{
		UpdateAutoScalingGroupFunc: func(ctx context.Context, params *autoscaling.UpdateAutoScalingGroupInput, optFns ...func(*autoscaling.Options)) (*autoscaling.UpdateAutoScalingGroupOutput, error) {
			assert.Equal(t, "web", aws.ToString(params.AutoScalingGroupName))
			assert.Equal(t, int32(0), aws.ToInt32(params.MinSize))
			assert.Equal(t, int32(0), aws.ToInt32(params.DesiredCapacity))
			return &autoscaling.UpdateAutoScalingGroupOutput{}, nil
		},
	}

	client := testClient(&MockEC2Client{}, mockASG)
	require.NoError(t, client.ScaleToZero(context.Background(), "web"))
}

func TestDeleteAutoScalingGroup_Forces(t *testing.T) {
	mockASG := &MockAutoScalingClient{
		DeleteAutoScalingGroupFunc: func(ctx context.Context, params *autoscaling.DeleteAutoScalingGroupInput, optFns ...func(*autoscaling.Options)) (*autoscaling.DeleteAutoScalingGroupOutput, error) {
			assert.True(t, aws.ToBool(params.ForceDelete))
			return &autoscaling.DeleteAutoScalingGroupOutput{}, nil
		},
	}

	client := testClient(&MockEC2Client{}, mockASG)
	require.NoError(t, client.DeleteAutoScalingGroup(context.Background(), "web"))
}

func TestPutScalingPolicy(t *testing.T) {
	mockASG := &MockAutoScalingClient{
		PutScalingPolicyFunc: func(ctx context.Context, params *autoscaling.PutScalingPolicyInput, optFns ...func(*autoscaling.Options)) (*autoscaling.PutScalingPolicyOutput, error) {
			assert.Equal(t, "TargetTrackingScaling", aws.ToString(params.PolicyType))
			require.NotNil(t, params.TargetTrackingConfiguration)
			assert.Equal(t, astypes.MetricTypeASGAverageCPUUtilization,
				params.TargetTrackingConfiguration.PredefinedMetricSpecification.PredefinedMetricType)
			assert.Equal(t, 50.0, aws.ToFloat64(params.TargetTrackingConfiguration.TargetValue))
			return &autoscaling.PutScalingPolicyOutput{
				PolicyARN: aws.String("arn:aws:autoscaling:us-east-1:123:policy/cpu"),
			}, nil
		},
	}

	client := testClient(&MockEC2Client{}, mockASG)
	policy, err := client.PutScalingPolicy(context.Background(), stackm.ScalingPolicy{
		Name:             "cpu",
		AutoScalingGroup: "web",
		TargetCPU:        50,
	})
	require.NoError(t, err)

	assert.Equal(t, "arn:aws:autoscaling:us-east-1:123:policy/cpu", policy.ARN)
	assert.Equal(t, 50.0, policy.TargetValue)
}

func TestDescribeScalingPolicy(t *testing.T) {
	mockASG := &MockAutoScalingClient{
		DescribePoliciesFunc: func(ctx context.Context, params *autoscaling.DescribePoliciesInput, optFns ...func(*autoscaling.Options)) (*autoscaling.DescribePoliciesOutput, error) {
			assert.Equal(t, "web", aws.ToString(params.AutoScalingGroupName))
			assert.Equal(t, []string{"cpu"}, params.PolicyNames)
			return &autoscaling.DescribePoliciesOutput{
				ScalingPolicies: []astypes.ScalingPolicy{
					{
						PolicyARN:  aws.String("arn:aws:autoscaling:us-east-1:123:policy/cpu"),
						PolicyName: aws.String("cpu"),
						PolicyType: aws.String("TargetTrackingScaling"),
						TargetTrackingConfiguration: &astypes.TargetTrackingConfiguration{
							TargetValue: aws.Float64(50),
						},
					},
				},
			}, nil
		},
	}

	client := testClient(&MockEC2Client{}, mockASG)
	policy, err := client.DescribeScalingPolicy(context.Background(), "web", "cpu")
	require.NoError(t, err)
	assert.Equal(t, 50.0, policy.TargetValue)
}
