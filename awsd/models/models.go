package models

// VPC represents a live VPC as described from the EC2 API
type VPC struct {
	ID        string
	CIDRBlock string
	State     string
	Tags      map[string]string
}

// InternetGateway represents a live internet gateway
type InternetGateway struct {
	ID          string
	AttachedVPC string
}

// Subnet represents a live subnet
type Subnet struct {
	ID               string
	VPCID            string
	CIDRBlock        string
	AvailabilityZone string
	State            string
	MapPublicIP      bool
}

// RouteTable represents a live route table
type RouteTable struct {
	ID             string
	VPCID          string
	AssociationIDs []string
}

// SecurityGroup represents a live security group
type SecurityGroup struct {
	ID          string
	Name        string
	Description string
	VPCID       string
	Ingress     []IngressRule
}

// IngressRule is one inbound permission on a security group
type IngressRule struct {
	Protocol   string
	FromPort   int32
	ToPort     int32
	CIDRBlocks []string
}

// LaunchTemplate represents a live launch template
type LaunchTemplate struct {
	ID             string
	Name           string
	LatestVersion  int64
	DefaultVersion int64
}

// Instance represents a live EC2 instance
type Instance struct {
	ID               string
	Type             string
	AMI              string
	State            string
	KeyName          string
	PrivateIP        string
	PublicIP         string
	SubnetID         string
	SecurityGroupIDs []string
	Tags             map[string]string
}

// AutoScalingGroup represents a live ASG
type AutoScalingGroup struct {
	Name               string
	MinSize            int32
	MaxSize            int32
	DesiredCapacity    int32
	LaunchTemplateName string
	SubnetIDs          []string
	InstanceIDs        []string
	HealthCheckType    string
}

// ScalingPolicy represents a live scaling policy
type ScalingPolicy struct {
	ARN         string
	Name        string
	Type        string
	TargetValue float64
}
