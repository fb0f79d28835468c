package models

import "fmt"

// Kind identifies a stack resource type
type Kind string

const (
	KindVPC              Kind = "aws_vpc"
	KindInternetGateway  Kind = "aws_internet_gateway"
	KindSubnet           Kind = "aws_subnet"
	KindRouteTable       Kind = "aws_route_table"
	KindSecurityGroup    Kind = "aws_security_group"
	KindLaunchTemplate   Kind = "aws_launch_template"
	KindAutoScalingGroup Kind = "aws_autoscaling_group"
	KindScalingPolicy    Kind = "aws_autoscaling_policy"
	KindInstance         Kind = "aws_instance"
)

// Key returns the planner key for a resource, e.g. "aws_vpc.main"
func Key(kind Kind, name string) string {
	return fmt.Sprintf("%s.%s", kind, name)
}

// Stack is the parsed manifest describing the desired resources
type Stack struct {
	Name              string             `hcl:"name" yaml:"name"`
	VPCs              []VPC              `hcl:"vpc,block" yaml:"vpcs"`
	InternetGateways  []InternetGateway  `hcl:"internet_gateway,block" yaml:"internet_gateways"`
	Subnets           []Subnet           `hcl:"subnet,block" yaml:"subnets"`
	RouteTables       []RouteTable       `hcl:"route_table,block" yaml:"route_tables"`
	SecurityGroups    []SecurityGroup    `hcl:"security_group,block" yaml:"security_groups"`
	LaunchTemplates   []LaunchTemplate   `hcl:"launch_template,block" yaml:"launch_templates"`
	AutoScalingGroups []AutoScalingGroup `hcl:"autoscaling_group,block" yaml:"autoscaling_groups"`
	ScalingPolicies   []ScalingPolicy    `hcl:"scaling_policy,block" yaml:"scaling_policies"`
	Instances         []Instance         `hcl:"instance,block" yaml:"instances"`
}

// VPC declares an isolated network
type VPC struct {
	Name               string            `hcl:"name,label" yaml:"name"`
	CIDRBlock          string            `hcl:"cidr_block" yaml:"cidr_block"`
	EnableDNSHostnames bool              `hcl:"enable_dns_hostnames,optional" yaml:"enable_dns_hostnames"`
	EnableDNSSupport   bool              `hcl:"enable_dns_support,optional" yaml:"enable_dns_support"`
	Tags               map[string]string `hcl:"tags,optional" yaml:"tags"`
}

// InternetGateway declares a gateway attached to a VPC
type InternetGateway struct {
	Name string `hcl:"name,label" yaml:"name"`
	VPC  string `hcl:"vpc" yaml:"vpc"`
}

// Subnet declares a subnet inside a VPC
type Subnet struct {
	Name             string `hcl:"name,label" yaml:"name"`
	VPC              string `hcl:"vpc" yaml:"vpc"`
	CIDRBlock        string `hcl:"cidr_block" yaml:"cidr_block"`
	AvailabilityZone string `hcl:"availability_zone" yaml:"availability_zone"`
	MapPublicIP      bool   `hcl:"map_public_ip,optional" yaml:"map_public_ip"`
}

// RouteTable declares a route table with a default route through a gateway
// and associations to subnets
type RouteTable struct {
	Name            string   `hcl:"name,label" yaml:"name"`
	VPC             string   `hcl:"vpc" yaml:"vpc"`
	Gateway         string   `hcl:"gateway" yaml:"gateway"`
	DestinationCIDR string   `hcl:"destination_cidr,optional" yaml:"destination_cidr"`
	Subnets         []string `hcl:"subnets" yaml:"subnets"`
}

// IngressRule is a single inbound security group rule
type IngressRule struct {
	Protocol    string `hcl:"protocol" yaml:"protocol"`
	FromPort    int    `hcl:"from_port" yaml:"from_port"`
	ToPort      int    `hcl:"to_port" yaml:"to_port"`
	CIDRBlock   string `hcl:"cidr_block" yaml:"cidr_block"`
	Description string `hcl:"description,optional" yaml:"description"`
}

// SecurityGroup declares a stateful virtual firewall
type SecurityGroup struct {
	Name        string            `hcl:"name,label" yaml:"name"`
	VPC         string            `hcl:"vpc" yaml:"vpc"`
	Description string            `hcl:"description" yaml:"description"`
	Ingress     []IngressRule     `hcl:"ingress,block" yaml:"ingress"`
	Tags        map[string]string `hcl:"tags,optional" yaml:"tags"`
}

// LaunchTemplate declares how new instances are booted
type LaunchTemplate struct {
	Name           string   `hcl:"name,label" yaml:"name"`
	AMI            string   `hcl:"ami" yaml:"ami"`
	InstanceType   string   `hcl:"instance_type" yaml:"instance_type"`
	KeyName        string   `hcl:"key_name,optional" yaml:"key_name"`
	SecurityGroups []string `hcl:"security_groups" yaml:"security_groups"`
	UserDataFile   string   `hcl:"user_data_file,optional" yaml:"user_data_file"`
}

// AutoScalingGroup declares the managed fleet
type AutoScalingGroup struct {
	Name                   string   `hcl:"name,label" yaml:"name"`
	LaunchTemplate         string   `hcl:"launch_template" yaml:"launch_template"`
	Subnets                []string `hcl:"subnets" yaml:"subnets"`
	MinSize                int      `hcl:"min_size" yaml:"min_size"`
	MaxSize                int      `hcl:"max_size" yaml:"max_size"`
	DesiredCapacity        int      `hcl:"desired_capacity" yaml:"desired_capacity"`
	HealthCheckType        string   `hcl:"health_check_type,optional" yaml:"health_check_type"`
	HealthCheckGracePeriod int      `hcl:"health_check_grace_period,optional" yaml:"health_check_grace_period"`
}

// ScalingPolicy declares a target tracking policy on an ASG
type ScalingPolicy struct {
	Name             string  `hcl:"name,label" yaml:"name"`
	AutoScalingGroup string  `hcl:"autoscaling_group" yaml:"autoscaling_group"`
	TargetCPU        float64 `hcl:"target_cpu" yaml:"target_cpu"`
}

// Instance declares a standalone EC2 instance outside the ASG
type Instance struct {
	Name           string            `hcl:"name,label" yaml:"name"`
	AMI            string            `hcl:"ami" yaml:"ami"`
	InstanceType   string            `hcl:"instance_type" yaml:"instance_type"`
	KeyName        string            `hcl:"key_name,optional" yaml:"key_name"`
	Subnet         string            `hcl:"subnet,optional" yaml:"subnet"`
	SecurityGroups []string          `hcl:"security_groups" yaml:"security_groups"`
	Tags           map[string]string `hcl:"tags,optional" yaml:"tags"`
}
