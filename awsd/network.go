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

// CreateVPC creates a VPC and applies its DNS attributes
func (c *Client) CreateVPC(ctx context.Context, spec stackm.VPC) (*awsm.VPC, error) {
	var out *ec2.CreateVpcOutput
	err := c.withRetry(ctx, "create_vpc", func(ctx context.Context) error {
		var callErr error
		out, callErr = c.ec2.CreateVpc(ctx, &ec2.CreateVpcInput{
			CidrBlock:         aws.String(spec.CIDRBlock),
			TagSpecifications: tagSpec(types.ResourceTypeVpc, spec.Name, spec.Tags),
		})
		return callErr
	})
	if err != nil {
		return nil, errors.New(errors.ErrAWSClient, "CreateVpc failed",
			map[string]interface{}{
				"name": spec.Name,
				"cidr": spec.CIDRBlock,
			}, err)
	}

	vpcID := aws.ToString(out.Vpc.VpcId)
	c.logger.Info("VPC created",
		zap.String("operation", "create_vpc"),
		zap.String("vpc_id", vpcID),
		zap.String("cidr", spec.CIDRBlock),
	)

	if spec.EnableDNSSupport {
		err = c.withRetry(ctx, "modify_vpc_dns_support", func(ctx context.Context) error {
			_, callErr := c.ec2.ModifyVpcAttribute(ctx, &ec2.ModifyVpcAttributeInput{
				VpcId:            aws.String(vpcID),
				EnableDnsSupport: &types.AttributeBooleanValue{Value: aws.Bool(true)},
			})
			return callErr
		})
		if err != nil {
			return nil, errors.New(errors.ErrAWSClient, "ModifyVpcAttribute (dns support) failed",
				map[string]interface{}{"vpc_id": vpcID}, err)
		}
	}
	if spec.EnableDNSHostnames {
		err = c.withRetry(ctx, "modify_vpc_dns_hostnames", func(ctx context.Context) error {
			_, callErr := c.ec2.ModifyVpcAttribute(ctx, &ec2.ModifyVpcAttributeInput{
				VpcId:              aws.String(vpcID),
				EnableDnsHostnames: &types.AttributeBooleanValue{Value: aws.Bool(true)},
			})
			return callErr
		})
		if err != nil {
			return nil, errors.New(errors.ErrAWSClient, "ModifyVpcAttribute (dns hostnames) failed",
				map[string]interface{}{"vpc_id": vpcID}, err)
		}
	}

	return &awsm.VPC{
		ID:        vpcID,
		CIDRBlock: aws.ToString(out.Vpc.CidrBlock),
		State:     string(out.Vpc.State),
	}, nil
}

// DescribeVPC fetches a single VPC by identifier
func (c *Client) DescribeVPC(ctx context.Context, vpcID string) (*awsm.VPC, error) {
	out, err := c.ec2.DescribeVpcs(ctx, &ec2.DescribeVpcsInput{VpcIds: []string{vpcID}})
	if err != nil {
		return nil, err
	}
	if len(out.Vpcs) == 0 {
		return nil, errors.New(errors.ErrAWSNotFound, "VPC not found",
			map[string]interface{}{"vpc_id": vpcID}, nil)
	}

	v := out.Vpcs[0]
	return &awsm.VPC{
		ID:        aws.ToString(v.VpcId),
		CIDRBlock: aws.ToString(v.CidrBlock),
		State:     string(v.State),
		Tags:      tagMap(v.Tags),
	}, nil
}

// DeleteVPC deletes a VPC, retrying while dependents drain
func (c *Client) DeleteVPC(ctx context.Context, vpcID string) error {
	return c.withRetry(ctx, "delete_vpc", func(ctx context.Context) error {
		_, err := c.ec2.DeleteVpc(ctx, &ec2.DeleteVpcInput{VpcId: aws.String(vpcID)})
		return err
	})
}

// CreateInternetGateway creates a gateway and attaches it to the VPC
func (c *Client) CreateInternetGateway(ctx context.Context, name, vpcID string) (*awsm.InternetGateway, error) {
	var out *ec2.CreateInternetGatewayOutput
	err := c.withRetry(ctx, "create_internet_gateway", func(ctx context.Context) error {
		var callErr error
		out, callErr = c.ec2.CreateInternetGateway(ctx, &ec2.CreateInternetGatewayInput{
			TagSpecifications: tagSpec(types.ResourceTypeInternetGateway, name, nil),
		})
		return callErr
	})
	if err != nil {
		return nil, errors.New(errors.ErrAWSClient, "CreateInternetGateway failed",
			map[string]interface{}{"name": name}, err)
	}

	igwID := aws.ToString(out.InternetGateway.InternetGatewayId)
	err = c.withRetry(ctx, "attach_internet_gateway", func(ctx context.Context) error {
		_, callErr := c.ec2.AttachInternetGateway(ctx, &ec2.AttachInternetGatewayInput{
			InternetGatewayId: aws.String(igwID),
			VpcId:             aws.String(vpcID),
		})
		return callErr
	})
	if err != nil {
		return nil, errors.New(errors.ErrAWSClient, "AttachInternetGateway failed",
			map[string]interface{}{
				"igw_id": igwID,
				"vpc_id": vpcID,
			}, err)
	}

	c.logger.Info("Internet gateway created and attached",
		zap.String("operation", "create_internet_gateway"),
		zap.String("igw_id", igwID),
		zap.String("vpc_id", vpcID),
	)
	return &awsm.InternetGateway{ID: igwID, AttachedVPC: vpcID}, nil
}

// DescribeInternetGateway fetches a single gateway by identifier
func (c *Client) DescribeInternetGateway(ctx context.Context, igwID string) (*awsm.InternetGateway, error) {
	out, err := c.ec2.DescribeInternetGateways(ctx, &ec2.DescribeInternetGatewaysInput{
		InternetGatewayIds: []string{igwID},
	})
	if err != nil {
		return nil, err
	}
	if len(out.InternetGateways) == 0 {
		return nil, errors.New(errors.ErrAWSNotFound, "internet gateway not found",
			map[string]interface{}{"igw_id": igwID}, nil)
	}

	igw := out.InternetGateways[0]
	result := &awsm.InternetGateway{ID: aws.ToString(igw.InternetGatewayId)}
	if len(igw.Attachments) > 0 {
		result.AttachedVPC = aws.ToString(igw.Attachments[0].VpcId)
	}
	return result, nil
}

// DeleteInternetGateway detaches the gateway from its VPC and deletes it
func (c *Client) DeleteInternetGateway(ctx context.Context, igwID, vpcID string) error {
	if vpcID != "" {
		err := c.withRetry(ctx, "detach_internet_gateway", func(ctx context.Context) error {
			_, callErr := c.ec2.DetachInternetGateway(ctx, &ec2.DetachInternetGatewayInput{
				InternetGatewayId: aws.String(igwID),
				VpcId:             aws.String(vpcID),
			})
			return callErr
		})
		if err != nil && !IsNotFound(err) {
			return err
		}
	}
	return c.withRetry(ctx, "delete_internet_gateway", func(ctx context.Context) error {
		_, err := c.ec2.DeleteInternetGateway(ctx, &ec2.DeleteInternetGatewayInput{
			InternetGatewayId: aws.String(igwID),
		})
		return err
	})
}

// CreateSubnet creates a subnet and applies the public IP mapping attribute
func (c *Client) CreateSubnet(ctx context.Context, spec stackm.Subnet, vpcID string) (*awsm.Subnet, error) {
	var out *ec2.CreateSubnetOutput
	err := c.withRetry(ctx, "create_subnet", func(ctx context.Context) error {
		var callErr error
		out, callErr = c.ec2.CreateSubnet(ctx, &ec2.CreateSubnetInput{
			VpcId:             aws.String(vpcID),
			CidrBlock:         aws.String(spec.CIDRBlock),
			AvailabilityZone:  aws.String(spec.AvailabilityZone),
			TagSpecifications: tagSpec(types.ResourceTypeSubnet, spec.Name, nil),
		})
		return callErr
	})
	if err != nil {
		return nil, errors.New(errors.ErrAWSClient, "CreateSubnet failed",
			map[string]interface{}{
				"name":   spec.Name,
				"vpc_id": vpcID,
				"cidr":   spec.CIDRBlock,
			}, err)
	}

	subnetID := aws.ToString(out.Subnet.SubnetId)
	if spec.MapPublicIP {
		err = c.withRetry(ctx, "modify_subnet_attribute", func(ctx context.Context) error {
			_, callErr := c.ec2.ModifySubnetAttribute(ctx, &ec2.ModifySubnetAttributeInput{
				SubnetId:            aws.String(subnetID),
				MapPublicIpOnLaunch: &types.AttributeBooleanValue{Value: aws.Bool(true)},
			})
			return callErr
		})
		if err != nil {
			return nil, errors.New(errors.ErrAWSClient, "ModifySubnetAttribute failed",
				map[string]interface{}{"subnet_id": subnetID}, err)
		}
	}

	c.logger.Info("Subnet created",
		zap.String("operation", "create_subnet"),
		zap.String("subnet_id", subnetID),
		zap.String("az", spec.AvailabilityZone),
	)
	return &awsm.Subnet{
		ID:               subnetID,
		VPCID:            vpcID,
		CIDRBlock:        aws.ToString(out.Subnet.CidrBlock),
		AvailabilityZone: aws.ToString(out.Subnet.AvailabilityZone),
		State:            string(out.Subnet.State),
		MapPublicIP:      spec.MapPublicIP,
	}, nil
}

// DescribeSubnet fetches a single subnet by identifier
func (c *Client) DescribeSubnet(ctx context.Context, subnetID string) (*awsm.Subnet, error) {
	out, err := c.ec2.DescribeSubnets(ctx, &ec2.DescribeSubnetsInput{SubnetIds: []string{subnetID}})
	if err != nil {
		return nil, err
	}
	if len(out.Subnets) == 0 {
		return nil, errors.New(errors.ErrAWSNotFound, "subnet not found",
			map[string]interface{}{"subnet_id": subnetID}, nil)
	}

	s := out.Subnets[0]
	return &awsm.Subnet{
		ID:               aws.ToString(s.SubnetId),
		VPCID:            aws.ToString(s.VpcId),
		CIDRBlock:        aws.ToString(s.CidrBlock),
		AvailabilityZone: aws.ToString(s.AvailabilityZone),
		State:            string(s.State),
		MapPublicIP:      aws.ToBool(s.MapPublicIpOnLaunch),
	}, nil
}

// DeleteSubnet deletes a subnet, retrying while instances drain
func (c *Client) DeleteSubnet(ctx context.Context, subnetID string) error {
	return c.withRetry(ctx, "delete_subnet", func(ctx context.Context) error {
		_, err := c.ec2.DeleteSubnet(ctx, &ec2.DeleteSubnetInput{SubnetId: aws.String(subnetID)})
		return err
	})
}

// CreateRouteTable creates a route table with a default route through the
// gateway and associates it with the given subnets. Association IDs are
// returned in subnet order.
func (c *Client) CreateRouteTable(ctx context.Context, name, vpcID, igwID, destinationCIDR string, subnetIDs []string) (*awsm.RouteTable, error) {
	var out *ec2.CreateRouteTableOutput
	err := c.withRetry(ctx, "create_route_table", func(ctx context.Context) error {
		var callErr error
		out, callErr = c.ec2.CreateRouteTable(ctx, &ec2.CreateRouteTableInput{
			VpcId:             aws.String(vpcID),
			TagSpecifications: tagSpec(types.ResourceTypeRouteTable, name, nil),
		})
		return callErr
	})
	if err != nil {
		return nil, errors.New(errors.ErrAWSClient, "CreateRouteTable failed",
			map[string]interface{}{
				"name":   name,
				"vpc_id": vpcID,
			}, err)
	}

	rtID := aws.ToString(out.RouteTable.RouteTableId)
	err = c.withRetry(ctx, "create_route", func(ctx context.Context) error {
		_, callErr := c.ec2.CreateRoute(ctx, &ec2.CreateRouteInput{
			RouteTableId:         aws.String(rtID),
			DestinationCidrBlock: aws.String(destinationCIDR),
			GatewayId:            aws.String(igwID),
		})
		return callErr
	})
	if err != nil {
		return nil, errors.New(errors.ErrAWSClient, "CreateRoute failed",
			map[string]interface{}{
				"route_table_id": rtID,
				"gateway_id":     igwID,
			}, err)
	}

	associations := make([]string, 0, len(subnetIDs))
	for _, subnetID := range subnetIDs {
		subnetID := subnetID
		var assoc *ec2.AssociateRouteTableOutput
		err = c.withRetry(ctx, "associate_route_table", func(ctx context.Context) error {
			var callErr error
			assoc, callErr = c.ec2.AssociateRouteTable(ctx, &ec2.AssociateRouteTableInput{
				RouteTableId: aws.String(rtID),
				SubnetId:     aws.String(subnetID),
			})
			return callErr
		})
		if err != nil {
			return nil, errors.New(errors.ErrAWSClient, "AssociateRouteTable failed",
				map[string]interface{}{
					"route_table_id": rtID,
					"subnet_id":      subnetID,
				}, err)
		}
		associations = append(associations, aws.ToString(assoc.AssociationId))
	}

	c.logger.Info("Route table created",
		zap.String("operation", "create_route_table"),
		zap.String("route_table_id", rtID),
		zap.Int("associations", len(associations)),
	)
	return &awsm.RouteTable{ID: rtID, VPCID: vpcID, AssociationIDs: associations}, nil
}

// DescribeRouteTable fetches a single route table by identifier
func (c *Client) DescribeRouteTable(ctx context.Context, rtID string) (*awsm.RouteTable, error) {
	out, err := c.ec2.DescribeRouteTables(ctx, &ec2.DescribeRouteTablesInput{
		RouteTableIds: []string{rtID},
	})
	if err != nil {
		return nil, err
	}
	if len(out.RouteTables) == 0 {
		return nil, errors.New(errors.ErrAWSNotFound, "route table not found",
			map[string]interface{}{"route_table_id": rtID}, nil)
	}

	rt := out.RouteTables[0]
	result := &awsm.RouteTable{
		ID:    aws.ToString(rt.RouteTableId),
		VPCID: aws.ToString(rt.VpcId),
	}
	for _, assoc := range rt.Associations {
		result.AssociationIDs = append(result.AssociationIDs, aws.ToString(assoc.RouteTableAssociationId))
	}
	return result, nil
}

// DeleteRouteTable disassociates the recorded subnet associations and
// deletes the table
func (c *Client) DeleteRouteTable(ctx context.Context, rtID string, associationIDs []string) error {
	for _, assocID := range associationIDs {
		assocID := assocID
		err := c.withRetry(ctx, "disassociate_route_table", func(ctx context.Context) error {
			_, callErr := c.ec2.DisassociateRouteTable(ctx, &ec2.DisassociateRouteTableInput{
				AssociationId: aws.String(assocID),
			})
			return callErr
		})
		if err != nil && !IsNotFound(err) {
			return err
		}
	}
	return c.withRetry(ctx, "delete_route_table", func(ctx context.Context) error {
		_, err := c.ec2.DeleteRouteTable(ctx, &ec2.DeleteRouteTableInput{
			RouteTableId: aws.String(rtID),
		})
		return err
	})
}

// CreateSecurityGroup creates a security group and authorizes its
// ingress rules
func (c *Client) CreateSecurityGroup(ctx context.Context, spec stackm.SecurityGroup, vpcID string) (*awsm.SecurityGroup, error) {
	var out *ec2.CreateSecurityGroupOutput
	err := c.withRetry(ctx, "create_security_group", func(ctx context.Context) error {
		var callErr error
		out, callErr = c.ec2.CreateSecurityGroup(ctx, &ec2.CreateSecurityGroupInput{
			GroupName:         aws.String(spec.Name),
			Description:       aws.String(spec.Description),
			VpcId:             aws.String(vpcID),
			TagSpecifications: tagSpec(types.ResourceTypeSecurityGroup, spec.Name, spec.Tags),
		})
		return callErr
	})
	if err != nil {
		return nil, errors.New(errors.ErrAWSClient, "CreateSecurityGroup failed",
			map[string]interface{}{
				"name":   spec.Name,
				"vpc_id": vpcID,
			}, err)
	}

	groupID := aws.ToString(out.GroupId)
	if len(spec.Ingress) > 0 {
		permissions := make([]types.IpPermission, 0, len(spec.Ingress))
		for _, rule := range spec.Ingress {
			permissions = append(permissions, types.IpPermission{
				IpProtocol: aws.String(rule.Protocol),
				FromPort:   aws.Int32(int32(rule.FromPort)),
				ToPort:     aws.Int32(int32(rule.ToPort)),
				IpRanges: []types.IpRange{
					{CidrIp: aws.String(rule.CIDRBlock), Description: aws.String(rule.Description)},
				},
			})
		}

		err = c.withRetry(ctx, "authorize_security_group_ingress", func(ctx context.Context) error {
			_, callErr := c.ec2.AuthorizeSecurityGroupIngress(ctx, &ec2.AuthorizeSecurityGroupIngressInput{
				GroupId:       aws.String(groupID),
				IpPermissions: permissions,
			})
			return callErr
		})
		if err != nil {
			return nil, errors.New(errors.ErrAWSClient, "AuthorizeSecurityGroupIngress failed",
				map[string]interface{}{
					"group_id": groupID,
					"rules":    len(spec.Ingress),
				}, err)
		}
	}

	c.logger.Info("Security group created",
		zap.String("operation", "create_security_group"),
		zap.String("group_id", groupID),
		zap.Int("ingress_rules", len(spec.Ingress)),
	)
	return &awsm.SecurityGroup{
		ID:          groupID,
		Name:        spec.Name,
		Description: spec.Description,
		VPCID:       vpcID,
	}, nil
}

// DescribeSecurityGroup fetches a single security group by identifier
func (c *Client) DescribeSecurityGroup(ctx context.Context, groupID string) (*awsm.SecurityGroup, error) {
	out, err := c.ec2.DescribeSecurityGroups(ctx, &ec2.DescribeSecurityGroupsInput{
		GroupIds: []string{groupID},
	})
	if err != nil {
		return nil, err
	}
	if len(out.SecurityGroups) == 0 {
		return nil, errors.New(errors.ErrAWSNotFound, "security group not found",
			map[string]interface{}{"group_id": groupID}, nil)
	}

	sg := out.SecurityGroups[0]
	result := &awsm.SecurityGroup{
		ID:          aws.ToString(sg.GroupId),
		Name:        aws.ToString(sg.GroupName),
		Description: aws.ToString(sg.Description),
		VPCID:       aws.ToString(sg.VpcId),
	}
	for _, perm := range sg.IpPermissions {
		rule := awsm.IngressRule{
			Protocol: aws.ToString(perm.IpProtocol),
			FromPort: aws.ToInt32(perm.FromPort),
			ToPort:   aws.ToInt32(perm.ToPort),
		}
		for _, ipRange := range perm.IpRanges {
			rule.CIDRBlocks = append(rule.CIDRBlocks, aws.ToString(ipRange.CidrIp))
		}
		result.Ingress = append(result.Ingress, rule)
	}
	return result, nil
}

// DeleteSecurityGroup deletes a security group, retrying on
// DependencyViolation while attached instances shut down
func (c *Client) DeleteSecurityGroup(ctx context.Context, groupID string) error {
	return c.withRetry(ctx, "delete_security_group", func(ctx context.Context) error {
		_, err := c.ec2.DeleteSecurityGroup(ctx, &ec2.DeleteSecurityGroupInput{
			GroupId: aws.String(groupID),
		})
		return err
	})
}

func tagSpec(resourceType types.ResourceType, name string, extra map[string]string) []types.TagSpecification {
	tags := []types.Tag{
		{Key: aws.String("Name"), Value: aws.String(name)},
	}
	for k, v := range extra {
		if k == "Name" {
			continue
		}
		tags = append(tags, types.Tag{Key: aws.String(k), Value: aws.String(v)})
	}
	return []types.TagSpecification{
		{ResourceType: resourceType, Tags: tags},
	}
}

func tagMap(tags []types.Tag) map[string]string {
	result := make(map[string]string)
	for _, tag := range tags {
		if tag.Key != nil && tag.Value != nil {
			result[*tag.Key] = *tag.Value
		}
	}
	return result
}
