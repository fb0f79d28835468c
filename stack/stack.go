package stack

import (
	"fmt"
	"net"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"stackforge/errors"
	"stackforge/stack/models"
)

const (
	packageName = "stack"

	// DefaultDestinationCIDR is the default route destination when a
	// route_table block does not override it
	DefaultDestinationCIDR = "0.0.0.0/0"
)

// Parse loads a stack manifest, choosing the decoder by file extension,
// and validates it
func Parse(path string) (*models.Stack, error) {
	logger := zap.L().With(
		zap.String("package", packageName),
		zap.String("function", "Parse"),
	)

	var (
		stack *models.Stack
		err   error
	)

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".hcl", ".tf":
		stack, err = ParseHCL(path)
	case ".yaml", ".yml":
		stack, err = ParseYAML(path)
	default:
		return nil, errors.New(errors.ErrStackParse, "unsupported manifest extension",
			map[string]interface{}{
				"path":      path,
				"extension": ext,
			}, nil)
	}
	if err != nil {
		return nil, err
	}

	if err := Validate(stack); err != nil {
		return nil, err
	}

	logger.Info("Stack manifest parsed successfully",
		zap.String("operation", "manifest_parse"),
		zap.String("path", path),
		zap.String("stack", stack.Name),
	)
	return stack, nil
}

// Validate checks the manifest for malformed values and dangling
// logical references before any AWS call is made
func Validate(s *models.Stack) error {
	if s.Name == "" {
		return invalid("stack name is empty", "name", "")
	}

	vpcs := make(map[string]bool)
	for _, v := range s.VPCs {
		if err := checkCIDR(v.CIDRBlock, "vpc", v.Name); err != nil {
			return err
		}
		vpcs[v.Name] = true
	}

	gateways := make(map[string]bool)
	for _, g := range s.InternetGateways {
		if !vpcs[g.VPC] {
			return dangling("internet_gateway", g.Name, "vpc", g.VPC)
		}
		gateways[g.Name] = true
	}

	subnets := make(map[string]bool)
	for _, sn := range s.Subnets {
		if !vpcs[sn.VPC] {
			return dangling("subnet", sn.Name, "vpc", sn.VPC)
		}
		if err := checkCIDR(sn.CIDRBlock, "subnet", sn.Name); err != nil {
			return err
		}
		if sn.AvailabilityZone == "" {
			return invalid("subnet availability_zone is empty", "subnet", sn.Name)
		}
		subnets[sn.Name] = true
	}

	for _, rt := range s.RouteTables {
		if !vpcs[rt.VPC] {
			return dangling("route_table", rt.Name, "vpc", rt.VPC)
		}
		if !gateways[rt.Gateway] {
			return dangling("route_table", rt.Name, "internet_gateway", rt.Gateway)
		}
		if rt.DestinationCIDR != "" {
			if err := checkCIDR(rt.DestinationCIDR, "route_table", rt.Name); err != nil {
				return err
			}
		}
		for _, sn := range rt.Subnets {
			if !subnets[sn] {
				return dangling("route_table", rt.Name, "subnet", sn)
			}
		}
	}

	groups := make(map[string]bool)
	for _, sg := range s.SecurityGroups {
		if !vpcs[sg.VPC] {
			return dangling("security_group", sg.Name, "vpc", sg.VPC)
		}
		for _, rule := range sg.Ingress {
			if rule.FromPort < 0 || rule.ToPort > 65535 || rule.FromPort > rule.ToPort {
				return invalid(fmt.Sprintf("invalid port range %d-%d", rule.FromPort, rule.ToPort), "security_group", sg.Name)
			}
			if err := checkCIDR(rule.CIDRBlock, "security_group", sg.Name); err != nil {
				return err
			}
		}
		groups[sg.Name] = true
	}

	templates := make(map[string]bool)
	for _, lt := range s.LaunchTemplates {
		if lt.AMI == "" || lt.InstanceType == "" {
			return invalid("launch_template requires ami and instance_type", "launch_template", lt.Name)
		}
		for _, sg := range lt.SecurityGroups {
			if !groups[sg] {
				return dangling("launch_template", lt.Name, "security_group", sg)
			}
		}
		templates[lt.Name] = true
	}

	asgs := make(map[string]bool)
	for _, asg := range s.AutoScalingGroups {
		if !templates[asg.LaunchTemplate] {
			return dangling("autoscaling_group", asg.Name, "launch_template", asg.LaunchTemplate)
		}
		if len(asg.Subnets) == 0 {
			return invalid("autoscaling_group requires at least one subnet", "autoscaling_group", asg.Name)
		}
		for _, sn := range asg.Subnets {
			if !subnets[sn] {
				return dangling("autoscaling_group", asg.Name, "subnet", sn)
			}
		}
		if asg.MinSize < 0 || asg.MaxSize < asg.MinSize {
			return invalid(fmt.Sprintf("invalid size bounds min=%d max=%d", asg.MinSize, asg.MaxSize), "autoscaling_group", asg.Name)
		}
		if asg.DesiredCapacity < asg.MinSize || asg.DesiredCapacity > asg.MaxSize {
			return invalid(fmt.Sprintf("desired_capacity %d outside [%d,%d]", asg.DesiredCapacity, asg.MinSize, asg.MaxSize), "autoscaling_group", asg.Name)
		}
		asgs[asg.Name] = true
	}

	for _, sp := range s.ScalingPolicies {
		if !asgs[sp.AutoScalingGroup] {
			return dangling("scaling_policy", sp.Name, "autoscaling_group", sp.AutoScalingGroup)
		}
		if sp.TargetCPU <= 0 || sp.TargetCPU > 100 {
			return invalid(fmt.Sprintf("target_cpu %v outside (0,100]", sp.TargetCPU), "scaling_policy", sp.Name)
		}
	}

	for _, inst := range s.Instances {
		if inst.AMI == "" || inst.InstanceType == "" {
			return invalid("instance requires ami and instance_type", "instance", inst.Name)
		}
		if inst.Subnet != "" && !subnets[inst.Subnet] {
			return dangling("instance", inst.Name, "subnet", inst.Subnet)
		}
		for _, sg := range inst.SecurityGroups {
			if !groups[sg] {
				return dangling("instance", inst.Name, "security_group", sg)
			}
		}
	}

	return nil
}

func checkCIDR(cidr, blockType, name string) error {
	if _, _, err := net.ParseCIDR(cidr); err != nil {
		return errors.New(errors.ErrStackInvalid, "invalid CIDR block",
			map[string]interface{}{
				"block": blockType,
				"name":  name,
				"cidr":  cidr,
			}, err)
	}
	return nil
}

func invalid(msg, blockType, name string) error {
	return errors.New(errors.ErrStackInvalid, msg,
		map[string]interface{}{
			"block": blockType,
			"name":  name,
		}, nil)
}

func dangling(blockType, name, refType, ref string) error {
	return errors.New(errors.ErrStackInvalid, fmt.Sprintf("reference to undeclared %s %q", refType, ref),
		map[string]interface{}{
			"block": blockType,
			"name":  name,
		}, nil)
}
