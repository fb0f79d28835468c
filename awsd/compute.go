package awsd

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ec2"
	"github.com/aws/aws-sdk-go-v2/service/ec2/types"
	"go.uber.org/zap"

	awsm "stackforge/awsd/models"
	"stackforge/errors"
	stackm "stackforge/stack/models"
)

// CreateLaunchTemplate creates a launch template. userData must already be
// base64 encoded, as the EC2 API requires.
func (c *Client) CreateLaunchTemplate(ctx context.Context, spec stackm.LaunchTemplate, securityGroupIDs []string, userData string) (*awsm.LaunchTemplate, error) {
	data := &types.RequestLaunchTemplateData{
		ImageId:          aws.String(spec.AMI),
		InstanceType:     types.InstanceType(spec.InstanceType),
		SecurityGroupIds: securityGroupIDs,
	}
	if spec.KeyName != "" {
		data.KeyName = aws.String(spec.KeyName)
	}
	if userData != "" {
		data.UserData = aws.String(userData)
	}

	var out *ec2.CreateLaunchTemplateOutput
	err := c.withRetry(ctx, "create_launch_template", func(ctx context.Context) error {
		var callErr error
		out, callErr = c.ec2.CreateLaunchTemplate(ctx, &ec2.CreateLaunchTemplateInput{
			LaunchTemplateName: aws.String(spec.Name),
			LaunchTemplateData: data,
			TagSpecifications:  tagSpec(types.ResourceTypeLaunchTemplate, spec.Name, nil),
		})
		return callErr
	})
	if err != nil {
		return nil, errors.New(errors.ErrAWSClient, "CreateLaunchTemplate failed",
			map[string]interface{}{
				"name": spec.Name,
				"ami":  spec.AMI,
			}, err)
	}

	lt := out.LaunchTemplate
	c.logger.Info("Launch template created",
		zap.String("operation", "create_launch_template"),
		zap.String("launch_template_id", aws.ToString(lt.LaunchTemplateId)),
		zap.String("name", aws.ToString(lt.LaunchTemplateName)),
	)
	return &awsm.LaunchTemplate{
		ID:             aws.ToString(lt.LaunchTemplateId),
		Name:           aws.ToString(lt.LaunchTemplateName),
		LatestVersion:  aws.ToInt64(lt.LatestVersionNumber),
		DefaultVersion: aws.ToInt64(lt.DefaultVersionNumber),
	}, nil
}

// DescribeLaunchTemplate fetches a single launch template by identifier
func (c *Client) DescribeLaunchTemplate(ctx context.Context, templateID string) (*awsm.LaunchTemplate, error) {
	out, err := c.ec2.DescribeLaunchTemplates(ctx, &ec2.DescribeLaunchTemplatesInput{
		LaunchTemplateIds: []string{templateID},
	})
	if err != nil {
		return nil, err
	}
	if len(out.LaunchTemplates) == 0 {
		return nil, errors.New(errors.ErrAWSNotFound, "launch template not found",
			map[string]interface{}{"launch_template_id": templateID}, nil)
	}

	lt := out.LaunchTemplates[0]
	return &awsm.LaunchTemplate{
		ID:             aws.ToString(lt.LaunchTemplateId),
		Name:           aws.ToString(lt.LaunchTemplateName),
		LatestVersion:  aws.ToInt64(lt.LatestVersionNumber),
		DefaultVersion: aws.ToInt64(lt.DefaultVersionNumber),
	}, nil
}

// DeleteLaunchTemplate deletes a launch template
func (c *Client) DeleteLaunchTemplate(ctx context.Context, templateID string) error {
	return c.withRetry(ctx, "delete_launch_template", func(ctx context.Context) error {
		_, err := c.ec2.DeleteLaunchTemplate(ctx, &ec2.DeleteLaunchTemplateInput{
			LaunchTemplateId: aws.String(templateID),
		})
		return err
	})
}

// RunInstance launches a single standalone instance
func (c *Client) RunInstance(ctx context.Context, spec stackm.Instance, subnetID string, securityGroupIDs []string) (*awsm.Instance, error) {
	input := &ec2.RunInstancesInput{
		ImageId:           aws.String(spec.AMI),
		InstanceType:      types.InstanceType(spec.InstanceType),
		MinCount:          aws.Int32(1),
		MaxCount:          aws.Int32(1),
		SecurityGroupIds:  securityGroupIDs,
		TagSpecifications: tagSpec(types.ResourceTypeInstance, spec.Name, spec.Tags),
	}
	if spec.KeyName != "" {
		input.KeyName = aws.String(spec.KeyName)
	}
	if subnetID != "" {
		input.SubnetId = aws.String(subnetID)
	}

	var out *ec2.RunInstancesOutput
	err := c.withRetry(ctx, "run_instances", func(ctx context.Context) error {
		var callErr error
		out, callErr = c.ec2.RunInstances(ctx, input)
		return callErr
	})
	if err != nil {
		return nil, errors.New(errors.ErrAWSClient, "RunInstances failed",
			map[string]interface{}{
				"name": spec.Name,
				"ami":  spec.AMI,
			}, err)
	}
	if len(out.Instances) == 0 {
		return nil, errors.New(errors.ErrAWSClient, "RunInstances returned no instances",
			map[string]interface{}{"name": spec.Name}, nil)
	}

	inst := out.Instances[0]
	c.logger.Info("Instance launched",
		zap.String("operation", "run_instances"),
		zap.String("instance_id", aws.ToString(inst.InstanceId)),
		zap.String("instance_type", string(inst.InstanceType)),
	)
	return parseInstance(inst), nil
}

// DescribeInstance fetches a single instance by identifier
func (c *Client) DescribeInstance(ctx context.Context, instanceID string) (*awsm.Instance, error) {
	out, err := c.ec2.DescribeInstances(ctx, &ec2.DescribeInstancesInput{
		InstanceIds: []string{instanceID},
	})
	if err != nil {
		return nil, err
	}
	if len(out.Reservations) == 0 || len(out.Reservations[0].Instances) == 0 {
		return nil, errors.New(errors.ErrAWSNotFound, "instance not found",
			map[string]interface{}{"instance_id": instanceID}, nil)
	}
	return parseInstance(out.Reservations[0].Instances[0]), nil
}

// TerminateInstance requests termination of a single instance
func (c *Client) TerminateInstance(ctx context.Context, instanceID string) error {
	return c.withRetry(ctx, "terminate_instances", func(ctx context.Context) error {
		_, err := c.ec2.TerminateInstances(ctx, &ec2.TerminateInstancesInput{
			InstanceIds: []string{instanceID},
		})
		return err
	})
}

func parseInstance(i types.Instance) *awsm.Instance {
	instance := &awsm.Instance{
		ID:        aws.ToString(i.InstanceId),
		Type:      string(i.InstanceType),
		AMI:       aws.ToString(i.ImageId),
		KeyName:   aws.ToString(i.KeyName),
		PrivateIP: aws.ToString(i.PrivateIpAddress),
		PublicIP:  aws.ToString(i.PublicIpAddress),
		SubnetID:  aws.ToString(i.SubnetId),
		Tags:      tagMap(i.Tags),
	}
	if i.State != nil {
		instance.State = string(i.State.Name)
	}
	for _, group := range i.SecurityGroups {
		instance.SecurityGroupIDs = append(instance.SecurityGroupIDs, aws.ToString(group.GroupId))
	}
	return instance
}
