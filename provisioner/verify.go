package provisioner

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"stackforge/awsd"
	"stackforge/stack/models"
	"stackforge/state"
)

// Verify describes every recorded resource and compares it with the
// manifest, reporting missing resources and attribute drift. Checks run
// concurrently and findings are collected over a channel.
func (s *Service) Verify(ctx context.Context, stack *models.Stack) ([]string, error) {
	ledger, err := state.Load(s.statePath, stack.Name, s.region)
	if err != nil {
		return nil, err
	}
	if ledger.Empty() {
		return []string{"state is empty; nothing to verify"}, nil
	}

	logger := s.logger.With(
		zap.String("function", "Verify"),
		zap.String("stack", stack.Name),
	)
	logger.Info("Verification started",
		zap.String("operation", "verify_start"),
		zap.Int("resources", len(ledger.Resources)),
	)

	findingCh := make(chan string)
	var wg sync.WaitGroup

	run := func(f func()) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			f()
		}()
	}

	for _, record := range ledger.Resources {
		record := record
		run(func() {
			s.verifyRecord(ctx, stack, record, findingCh)
		})
	}

	go func() {
		wg.Wait()
		close(findingCh)
	}()

	var findings []string
	for {
		select {
		case <-ctx.Done():
			logger.Info("Verification cancelled",
				zap.String("operation", "verify_cancelled"),
			)
			return nil, ctx.Err()
		case finding, ok := <-findingCh:
			if !ok {
				if err := ctx.Err(); err != nil {
					return nil, err
				}
				if len(findings) == 0 {
					findings = append(findings, "No drift detected between AWS resources and stack state.")
				}
				logger.Info("Verification completed",
					zap.String("operation", "verify_complete"),
					zap.Int("findings", len(findings)),
				)
				return findings, nil
			}
			findings = append(findings, finding)
		}
	}
}

func (s *Service) verifyRecord(ctx context.Context, stack *models.Stack, record state.Record, ch chan<- string) {
	// The collector stops reading once the context is done, so every
	// send has to bail out on cancellation too
	report := func(format string, args ...interface{}) {
		select {
		case ch <- fmt.Sprintf(format, args...):
		case <-ctx.Done():
		}
	}
	missing := func(err error) bool {
		if awsd.IsNotFound(err) {
			report("%s: resource %s no longer exists", record.Key(), record.ID)
			return true
		}
		return false
	}

	switch models.Kind(record.Type) {
	case models.KindVPC:
		live, err := s.ec2.DescribeVPC(ctx, record.ID)
		if err != nil {
			if !missing(err) {
				report("%s: describe failed: %v", record.Key(), err)
			}
			return
		}
		if spec, findErr := findVPC(stack, record.Name); findErr == nil && live.CIDRBlock != spec.CIDRBlock {
			report("%s: CIDR drift: AWS=%s, manifest=%s", record.Key(), live.CIDRBlock, spec.CIDRBlock)
		}

	case models.KindInternetGateway:
		live, err := s.ec2.DescribeInternetGateway(ctx, record.ID)
		if err != nil {
			if !missing(err) {
				report("%s: describe failed: %v", record.Key(), err)
			}
			return
		}
		if recorded := record.Attributes["vpc_id"]; recorded != "" && live.AttachedVPC != recorded {
			report("%s: attachment drift: AWS=%s, state=%s", record.Key(), live.AttachedVPC, recorded)
		}

	case models.KindSubnet:
		live, err := s.ec2.DescribeSubnet(ctx, record.ID)
		if err != nil {
			if !missing(err) {
				report("%s: describe failed: %v", record.Key(), err)
			}
			return
		}
		if spec, findErr := findSubnet(stack, record.Name); findErr == nil {
			if live.CIDRBlock != spec.CIDRBlock {
				report("%s: CIDR drift: AWS=%s, manifest=%s", record.Key(), live.CIDRBlock, spec.CIDRBlock)
			}
			if live.AvailabilityZone != spec.AvailabilityZone {
				report("%s: AZ drift: AWS=%s, manifest=%s", record.Key(), live.AvailabilityZone, spec.AvailabilityZone)
			}
		}

	case models.KindRouteTable:
		if _, err := s.ec2.DescribeRouteTable(ctx, record.ID); err != nil {
			if !missing(err) {
				report("%s: describe failed: %v", record.Key(), err)
			}
		}

	case models.KindSecurityGroup:
		live, err := s.ec2.DescribeSecurityGroup(ctx, record.ID)
		if err != nil {
			if !missing(err) {
				report("%s: describe failed: %v", record.Key(), err)
			}
			return
		}
		if spec, findErr := findSecurityGroup(stack, record.Name); findErr == nil && len(live.Ingress) != len(spec.Ingress) {
			report("%s: ingress rule count drift: AWS=%d, manifest=%d", record.Key(), len(live.Ingress), len(spec.Ingress))
		}

	case models.KindLaunchTemplate:
		if _, err := s.ec2.DescribeLaunchTemplate(ctx, record.ID); err != nil {
			if !missing(err) {
				report("%s: describe failed: %v", record.Key(), err)
			}
		}

	case models.KindAutoScalingGroup:
		live, err := s.asg.DescribeAutoScalingGroup(ctx, record.ID)
		if err != nil {
			if !missing(err) {
				report("%s: describe failed: %v", record.Key(), err)
			}
			return
		}
		if spec, findErr := findAutoScalingGroup(stack, record.Name); findErr == nil {
			if int(live.MinSize) != spec.MinSize || int(live.MaxSize) != spec.MaxSize {
				report("%s: size bounds drift: AWS=[%d,%d], manifest=[%d,%d]",
					record.Key(), live.MinSize, live.MaxSize, spec.MinSize, spec.MaxSize)
			}
			if int(live.DesiredCapacity) != spec.DesiredCapacity {
				report("%s: desired capacity drift: AWS=%d, manifest=%d",
					record.Key(), live.DesiredCapacity, spec.DesiredCapacity)
			}
			if len(live.SubnetIDs) != len(spec.Subnets) {
				report("%s: subnet count drift: AWS=%d, manifest=%d",
					record.Key(), len(live.SubnetIDs), len(spec.Subnets))
			}
		}

	case models.KindScalingPolicy:
		live, err := s.asg.DescribeScalingPolicy(ctx, record.Attributes["asg_name"], record.Name)
		if err != nil {
			if !missing(err) {
				report("%s: describe failed: %v", record.Key(), err)
			}
			return
		}
		if spec, findErr := findScalingPolicy(stack, record.Name); findErr == nil && live.TargetValue != spec.TargetCPU {
			report("%s: target CPU drift: AWS=%v, manifest=%v", record.Key(), live.TargetValue, spec.TargetCPU)
		}

	case models.KindInstance:
		live, err := s.ec2.DescribeInstance(ctx, record.ID)
		if err != nil {
			if !missing(err) {
				report("%s: describe failed: %v", record.Key(), err)
			}
			return
		}
		if live.State == "terminated" || live.State == "shutting-down" {
			report("%s: instance %s is %s", record.Key(), record.ID, live.State)
			return
		}
		if spec, findErr := findInstance(stack, record.Name); findErr == nil {
			if live.Type != spec.InstanceType {
				report("%s: instance type drift: AWS=%s, manifest=%s", record.Key(), live.Type, spec.InstanceType)
			}
			if live.AMI != spec.AMI {
				report("%s: AMI drift: AWS=%s, manifest=%s", record.Key(), live.AMI, spec.AMI)
			}
			for k, v := range spec.Tags {
				if liveVal, ok := live.Tags[k]; !ok || liveVal != v {
					report("%s: tag %s drift: AWS=%s, manifest=%s", record.Key(), k, liveVal, v)
				}
			}
		}
	}
}
