package awsd

import (
	"context"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/autoscaling"
	astypes "github.com/aws/aws-sdk-go-v2/service/autoscaling/types"
	"go.uber.org/zap"

	awsm "stackforge/awsd/models"
	"stackforge/errors"
	stackm "stackforge/stack/models"
)

const defaultHealthCheckType = "EC2"

// CreateAutoScalingGroup creates the ASG over the given subnets using the
// launch template's latest version
func (c *Client) CreateAutoScalingGroup(ctx context.Context, spec stackm.AutoScalingGroup, launchTemplateID string, subnetIDs []string) error {
	healthCheck := spec.HealthCheckType
	if healthCheck == "" {
		healthCheck = defaultHealthCheckType
	}

	input := &autoscaling.CreateAutoScalingGroupInput{
		AutoScalingGroupName: aws.String(spec.Name),
		LaunchTemplate: &astypes.LaunchTemplateSpecification{
			LaunchTemplateId: aws.String(launchTemplateID),
			Version:          aws.String("$Latest"),
		},
		MinSize:           aws.Int32(int32(spec.MinSize)),
		MaxSize:           aws.Int32(int32(spec.MaxSize)),
		DesiredCapacity:   aws.Int32(int32(spec.DesiredCapacity)),
		VPCZoneIdentifier: aws.String(strings.Join(subnetIDs, ",")),
		HealthCheckType:   aws.String(healthCheck),
	}
	if spec.HealthCheckGracePeriod > 0 {
		input.HealthCheckGracePeriod = aws.Int32(int32(spec.HealthCheckGracePeriod))
	}

	err := c.withRetry(ctx, "create_auto_scaling_group", func(ctx context.Context) error {
		_, callErr := c.asg.CreateAutoScalingGroup(ctx, input)
		return callErr
	})
	if err != nil {
		return errors.New(errors.ErrAWSClient, "CreateAutoScalingGroup failed",
			map[string]interface{}{
				"name":            spec.Name,
				"launch_template": launchTemplateID,
			}, err)
	}

	c.logger.Info("Auto Scaling Group created",
		zap.String("operation", "create_auto_scaling_group"),
		zap.String("asg_name", spec.Name),
		zap.Int("min_size", spec.MinSize),
		zap.Int("max_size", spec.MaxSize),
		zap.Int("desired_capacity", spec.DesiredCapacity),
	)
	return nil
}

// DescribeAutoScalingGroup fetches a single ASG by name. Returns a
// not-found error when the group no longer exists.
func (c *Client) DescribeAutoScalingGroup(ctx context.Context, name string) (*awsm.AutoScalingGroup, error) {
	out, err := c.asg.DescribeAutoScalingGroups(ctx, &autoscaling.DescribeAutoScalingGroupsInput{
		AutoScalingGroupNames: []string{name},
	})
	if err != nil {
		return nil, err
	}
	if len(out.AutoScalingGroups) == 0 {
		return nil, errors.New(errors.ErrAWSNotFound, "auto scaling group not found",
			map[string]interface{}{"asg_name": name}, nil)
	}

	group := out.AutoScalingGroups[0]
	result := &awsm.AutoScalingGroup{
		Name:            aws.ToString(group.AutoScalingGroupName),
		MinSize:         aws.ToInt32(group.MinSize),
		MaxSize:         aws.ToInt32(group.MaxSize),
		DesiredCapacity: aws.ToInt32(group.DesiredCapacity),
		HealthCheckType: aws.ToString(group.HealthCheckType),
	}
	if group.LaunchTemplate != nil {
		result.LaunchTemplateName = aws.ToString(group.LaunchTemplate.LaunchTemplateName)
	}
	if zone := aws.ToString(group.VPCZoneIdentifier); zone != "" {
		result.SubnetIDs = strings.Split(zone, ",")
	}
	for _, inst := range group.Instances {
		result.InstanceIDs = append(result.InstanceIDs, aws.ToString(inst.InstanceId))
	}
	return result, nil
}

// ScaleToZero sets the group's minimum and desired capacity to zero so
// instances drain before deletion
func (c *Client) ScaleToZero(ctx context.Context, name string) error {
	return c.withRetry(ctx, "update_auto_scaling_group", func(ctx context.Context) error {
		_, err := c.asg.UpdateAutoScalingGroup(ctx, &autoscaling.UpdateAutoScalingGroupInput{
			AutoScalingGroupName: aws.String(name),
			MinSize:              aws.Int32(0),
			DesiredCapacity:      aws.Int32(0),
		})
		return err
	})
}

// DeleteAutoScalingGroup deletes the group, forcing termination of any
// remaining instances
func (c *Client) DeleteAutoScalingGroup(ctx context.Context, name string) error {
	return c.withRetry(ctx, "delete_auto_scaling_group", func(ctx context.Context) error {
		_, err := c.asg.DeleteAutoScalingGroup(ctx, &autoscaling.DeleteAutoScalingGroupInput{
			AutoScalingGroupName: aws.String(name),
			ForceDelete:          aws.Bool(true),
		})
		return err
	})
}

// PutScalingPolicy attaches a target tracking policy on average CPU to
// the group and returns the policy ARN
func (c *Client) PutScalingPolicy(ctx context.Context, spec stackm.ScalingPolicy) (*awsm.ScalingPolicy, error) {
	var out *autoscaling.PutScalingPolicyOutput
	err := c.withRetry(ctx, "put_scaling_policy", func(ctx context.Context) error {
		var callErr error
		out, callErr = c.asg.PutScalingPolicy(ctx, &autoscaling.PutScalingPolicyInput{
			AutoScalingGroupName: aws.String(spec.AutoScalingGroup),
			PolicyName:           aws.String(spec.Name),
			PolicyType:           aws.String("TargetTrackingScaling"),
			TargetTrackingConfiguration: &astypes.TargetTrackingConfiguration{
				PredefinedMetricSpecification: &astypes.PredefinedMetricSpecification{
					PredefinedMetricType: astypes.MetricTypeASGAverageCPUUtilization,
				},
				TargetValue: aws.Float64(spec.TargetCPU),
			},
		})
		return callErr
	})
	if err != nil {
		return nil, errors.New(errors.ErrAWSClient, "PutScalingPolicy failed",
			map[string]interface{}{
				"policy_name": spec.Name,
				"asg_name":    spec.AutoScalingGroup,
			}, err)
	}

	c.logger.Info("Scaling policy attached",
		zap.String("operation", "put_scaling_policy"),
		zap.String("policy_name", spec.Name),
		zap.Float64("target_cpu", spec.TargetCPU),
	)
	return &awsm.ScalingPolicy{
		ARN:         aws.ToString(out.PolicyARN),
		Name:        spec.Name,
		Type:        "TargetTrackingScaling",
		TargetValue: spec.TargetCPU,
	}, nil
}

// DescribeScalingPolicy fetches a single policy on a group by name
func (c *Client) DescribeScalingPolicy(ctx context.Context, asgName, policyName string) (*awsm.ScalingPolicy, error) {
	out, err := c.asg.DescribePolicies(ctx, &autoscaling.DescribePoliciesInput{
		AutoScalingGroupName: aws.String(asgName),
		PolicyNames:          []string{policyName},
	})
	if err != nil {
		return nil, err
	}
	if len(out.ScalingPolicies) == 0 {
		return nil, errors.New(errors.ErrAWSNotFound, "scaling policy not found",
			map[string]interface{}{
				"asg_name":    asgName,
				"policy_name": policyName,
			}, nil)
	}

	policy := out.ScalingPolicies[0]
	result := &awsm.ScalingPolicy{
		ARN:  aws.ToString(policy.PolicyARN),
		Name: aws.ToString(policy.PolicyName),
		Type: aws.ToString(policy.PolicyType),
	}
	if policy.TargetTrackingConfiguration != nil {
		result.TargetValue = aws.ToFloat64(policy.TargetTrackingConfiguration.TargetValue)
	}
	return result, nil
}

// DeleteScalingPolicy removes a policy from the group
func (c *Client) DeleteScalingPolicy(ctx context.Context, asgName, policyName string) error {
	return c.withRetry(ctx, "delete_policy", func(ctx context.Context) error {
		_, err := c.asg.DeletePolicy(ctx, &autoscaling.DeletePolicyInput{
			AutoScalingGroupName: aws.String(asgName),
			PolicyName:           aws.String(policyName),
		})
		return err
	})
}
