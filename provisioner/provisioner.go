package provisioner

import (
	"context"
	"encoding/base64"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"

	"stackforge/errors"
	"stackforge/planner"
	"stackforge/stack/models"
	"stackforge/state"
)

const (
	packageName = "provisioner"
)

// Service applies, verifies, and tears down a stack against AWS, keeping
// the state ledger current after every step
type Service struct {
	ec2          EC2Client
	asg          AutoScalingClient
	statePath    string
	region       string
	drainTimeout time.Duration
	pollInterval time.Duration
	logger       *zap.Logger
}

// NewService wires the provisioner
func NewService(ec2 EC2Client, asg AutoScalingClient, statePath, region string, drainTimeout, pollInterval time.Duration, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.L()
	}
	return &Service{
		ec2:          ec2,
		asg:          asg,
		statePath:    statePath,
		region:       region,
		drainTimeout: drainTimeout,
		pollInterval: pollInterval,
		logger:       logger.With(zap.String("package", packageName)),
	}
}

// Apply creates every resource in the stack in dependency order. Resources
// already present in the ledger are skipped, so a failed run can be
// resumed. The ledger is saved after every step.
func (s *Service) Apply(ctx context.Context, stack *models.Stack) error {
	ledger, err := state.Load(s.statePath, stack.Name, s.region)
	if err != nil {
		return err
	}

	steps, err := planner.ApplyOrder(stack)
	if err != nil {
		return err
	}

	s.logger.Info("Apply started",
		zap.String("operation", "apply_start"),
		zap.String("stack", stack.Name),
		zap.Int("steps", len(steps)),
	)

	for _, step := range steps {
		if err := ctx.Err(); err != nil {
			return errors.New(errors.ErrApply, "apply cancelled",
				map[string]interface{}{
					"step": step.Key,
				}, err)
		}

		if _, ok := ledger.Lookup(string(step.Kind), step.Name); ok {
			s.logger.Info("Resource already in state, skipping",
				zap.String("operation", "apply_skip"),
				zap.String("resource", step.Key),
			)
			continue
		}

		record, err := s.applyStep(ctx, stack, step, ledger)
		if err != nil {
			return errors.New(errors.ErrApply, "apply step failed",
				map[string]interface{}{
					"step": step.Key,
				}, err)
		}

		ledger.Put(*record)
		if err := ledger.Save(s.statePath); err != nil {
			return err
		}

		s.logger.Info("Resource created",
			zap.String("operation", "apply_step"),
			zap.String("resource", step.Key),
			zap.String("id", record.ID),
		)
	}

	s.logger.Info("Apply completed",
		zap.String("operation", "apply_complete"),
		zap.String("stack", stack.Name),
		zap.Int("resources", len(ledger.Resources)),
	)
	return nil
}

func (s *Service) applyStep(ctx context.Context, stack *models.Stack, step planner.Step, ledger *state.State) (*state.Record, error) {
	record := state.Record{
		Type:      string(step.Kind),
		Name:      step.Name,
		CreatedAt: time.Now().UTC(),
	}

	switch step.Kind {
	case models.KindVPC:
		spec, err := findVPC(stack, step.Name)
		if err != nil {
			return nil, err
		}
		out, err := s.ec2.CreateVPC(ctx, *spec)
		if err != nil {
			return nil, err
		}
		record.ID = out.ID
		record.Attributes = map[string]string{"cidr_block": out.CIDRBlock}

	case models.KindInternetGateway:
		spec, err := findGateway(stack, step.Name)
		if err != nil {
			return nil, err
		}
		vpcID, err := resolveID(ledger, models.KindVPC, spec.VPC)
		if err != nil {
			return nil, err
		}
		out, err := s.ec2.CreateInternetGateway(ctx, spec.Name, vpcID)
		if err != nil {
			return nil, err
		}
		record.ID = out.ID
		record.Attributes = map[string]string{"vpc_id": vpcID}

	case models.KindSubnet:
		spec, err := findSubnet(stack, step.Name)
		if err != nil {
			return nil, err
		}
		vpcID, err := resolveID(ledger, models.KindVPC, spec.VPC)
		if err != nil {
			return nil, err
		}
		out, err := s.ec2.CreateSubnet(ctx, *spec, vpcID)
		if err != nil {
			return nil, err
		}
		record.ID = out.ID
		record.Attributes = map[string]string{
			"vpc_id":            vpcID,
			"cidr_block":        out.CIDRBlock,
			"availability_zone": out.AvailabilityZone,
		}

	case models.KindRouteTable:
		spec, err := findRouteTable(stack, step.Name)
		if err != nil {
			return nil, err
		}
		vpcID, err := resolveID(ledger, models.KindVPC, spec.VPC)
		if err != nil {
			return nil, err
		}
		igwID, err := resolveID(ledger, models.KindInternetGateway, spec.Gateway)
		if err != nil {
			return nil, err
		}
		subnetIDs, err := resolveIDs(ledger, models.KindSubnet, spec.Subnets)
		if err != nil {
			return nil, err
		}
		destination := spec.DestinationCIDR
		if destination == "" {
			destination = defaultDestinationCIDR
		}
		out, err := s.ec2.CreateRouteTable(ctx, spec.Name, vpcID, igwID, destination, subnetIDs)
		if err != nil {
			return nil, err
		}
		record.ID = out.ID
		record.Attributes = map[string]string{
			"vpc_id":          vpcID,
			"association_ids": strings.Join(out.AssociationIDs, ","),
		}

	case models.KindSecurityGroup:
		spec, err := findSecurityGroup(stack, step.Name)
		if err != nil {
			return nil, err
		}
		vpcID, err := resolveID(ledger, models.KindVPC, spec.VPC)
		if err != nil {
			return nil, err
		}
		out, err := s.ec2.CreateSecurityGroup(ctx, *spec, vpcID)
		if err != nil {
			return nil, err
		}
		record.ID = out.ID
		record.Attributes = map[string]string{"vpc_id": vpcID}

	case models.KindLaunchTemplate:
		spec, err := findLaunchTemplate(stack, step.Name)
		if err != nil {
			return nil, err
		}
		groupIDs, err := resolveIDs(ledger, models.KindSecurityGroup, spec.SecurityGroups)
		if err != nil {
			return nil, err
		}
		userData, err := loadUserData(spec.UserDataFile)
		if err != nil {
			return nil, err
		}
		out, err := s.ec2.CreateLaunchTemplate(ctx, *spec, groupIDs, userData)
		if err != nil {
			return nil, err
		}
		record.ID = out.ID
		record.Attributes = map[string]string{"name": out.Name}

	case models.KindAutoScalingGroup:
		spec, err := findAutoScalingGroup(stack, step.Name)
		if err != nil {
			return nil, err
		}
		templateID, err := resolveID(ledger, models.KindLaunchTemplate, spec.LaunchTemplate)
		if err != nil {
			return nil, err
		}
		subnetIDs, err := resolveIDs(ledger, models.KindSubnet, spec.Subnets)
		if err != nil {
			return nil, err
		}
		if err := s.asg.CreateAutoScalingGroup(ctx, *spec, templateID, subnetIDs); err != nil {
			return nil, err
		}
		record.ID = spec.Name
		record.Attributes = map[string]string{"launch_template_id": templateID}

	case models.KindScalingPolicy:
		spec, err := findScalingPolicy(stack, step.Name)
		if err != nil {
			return nil, err
		}
		asgName, err := resolveID(ledger, models.KindAutoScalingGroup, spec.AutoScalingGroup)
		if err != nil {
			return nil, err
		}
		resolved := *spec
		resolved.AutoScalingGroup = asgName
		out, err := s.asg.PutScalingPolicy(ctx, resolved)
		if err != nil {
			return nil, err
		}
		record.ID = out.ARN
		record.Attributes = map[string]string{"asg_name": asgName}

	case models.KindInstance:
		spec, err := findInstance(stack, step.Name)
		if err != nil {
			return nil, err
		}
		var subnetID string
		if spec.Subnet != "" {
			subnetID, err = resolveID(ledger, models.KindSubnet, spec.Subnet)
			if err != nil {
				return nil, err
			}
		}
		groupIDs, err := resolveIDs(ledger, models.KindSecurityGroup, spec.SecurityGroups)
		if err != nil {
			return nil, err
		}
		out, err := s.ec2.RunInstance(ctx, *spec, subnetID, groupIDs)
		if err != nil {
			return nil, err
		}
		record.ID = out.ID

	default:
		return nil, errors.New(errors.ErrApply, "unknown resource kind",
			map[string]interface{}{
				"kind": string(step.Kind),
			}, nil)
	}

	return &record, nil
}

const defaultDestinationCIDR = "0.0.0.0/0"

// resolveID looks up the AWS identifier a step depends on. The planner
// guarantees the dependency was applied first, so a miss is a bug or a
// corrupted ledger.
func resolveID(ledger *state.State, kind models.Kind, name string) (string, error) {
	record, ok := ledger.Lookup(string(kind), name)
	if !ok {
		return "", errors.New(errors.ErrApply, "dependency identifier missing from state",
			map[string]interface{}{
				"dependency": models.Key(kind, name),
			}, nil)
	}
	return record.ID, nil
}

func resolveIDs(ledger *state.State, kind models.Kind, names []string) ([]string, error) {
	ids := make([]string, 0, len(names))
	for _, name := range names {
		id, err := resolveID(ledger, kind, name)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// loadUserData reads the user data script and base64-encodes it as the
// EC2 API expects
func loadUserData(path string) (string, error) {
	if path == "" {
		return "", nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return "", errors.New(errors.ErrApply, "failed to read user data file",
			map[string]interface{}{
				"path": path,
			}, err)
	}
	return base64.StdEncoding.EncodeToString(raw), nil
}

func findVPC(s *models.Stack, name string) (*models.VPC, error) {
	for i := range s.VPCs {
		if s.VPCs[i].Name == name {
			return &s.VPCs[i], nil
		}
	}
	return nil, missingSpec(models.KindVPC, name)
}

func findGateway(s *models.Stack, name string) (*models.InternetGateway, error) {
	for i := range s.InternetGateways {
		if s.InternetGateways[i].Name == name {
			return &s.InternetGateways[i], nil
		}
	}
	return nil, missingSpec(models.KindInternetGateway, name)
}

func findSubnet(s *models.Stack, name string) (*models.Subnet, error) {
	for i := range s.Subnets {
		if s.Subnets[i].Name == name {
			return &s.Subnets[i], nil
		}
	}
	return nil, missingSpec(models.KindSubnet, name)
}

func findRouteTable(s *models.Stack, name string) (*models.RouteTable, error) {
	for i := range s.RouteTables {
		if s.RouteTables[i].Name == name {
			return &s.RouteTables[i], nil
		}
	}
	return nil, missingSpec(models.KindRouteTable, name)
}

func findSecurityGroup(s *models.Stack, name string) (*models.SecurityGroup, error) {
	for i := range s.SecurityGroups {
		if s.SecurityGroups[i].Name == name {
			return &s.SecurityGroups[i], nil
		}
	}
	return nil, missingSpec(models.KindSecurityGroup, name)
}

func findLaunchTemplate(s *models.Stack, name string) (*models.LaunchTemplate, error) {
	for i := range s.LaunchTemplates {
		if s.LaunchTemplates[i].Name == name {
			return &s.LaunchTemplates[i], nil
		}
	}
	return nil, missingSpec(models.KindLaunchTemplate, name)
}

func findAutoScalingGroup(s *models.Stack, name string) (*models.AutoScalingGroup, error) {
	for i := range s.AutoScalingGroups {
		if s.AutoScalingGroups[i].Name == name {
			return &s.AutoScalingGroups[i], nil
		}
	}
	return nil, missingSpec(models.KindAutoScalingGroup, name)
}

func findScalingPolicy(s *models.Stack, name string) (*models.ScalingPolicy, error) {
	for i := range s.ScalingPolicies {
		if s.ScalingPolicies[i].Name == name {
			return &s.ScalingPolicies[i], nil
		}
	}
	return nil, missingSpec(models.KindScalingPolicy, name)
}

func findInstance(s *models.Stack, name string) (*models.Instance, error) {
	for i := range s.Instances {
		if s.Instances[i].Name == name {
			return &s.Instances[i], nil
		}
	}
	return nil, missingSpec(models.KindInstance, name)
}

func missingSpec(kind models.Kind, name string) error {
	return errors.New(errors.ErrApply, "resource missing from manifest",
		map[string]interface{}{
			"resource": models.Key(kind, name),
		}, nil)
}
