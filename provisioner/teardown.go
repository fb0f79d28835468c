package provisioner

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"stackforge/awsd"
	"stackforge/errors"
	"stackforge/planner"
	"stackforge/stack/models"
	"stackforge/state"
)

// Destroy deletes every recorded resource in reverse dependency order.
// Resources that are already gone are logged and skipped. The ledger is
// saved after every deletion so a failed run can be resumed.
func (s *Service) Destroy(ctx context.Context, stack *models.Stack) error {
	ledger, err := state.Load(s.statePath, stack.Name, s.region)
	if err != nil {
		return err
	}
	if ledger.Empty() {
		s.logger.Info("State is empty, nothing to destroy",
			zap.String("operation", "destroy_noop"),
			zap.String("stack", stack.Name),
		)
		return nil
	}

	steps, err := planner.TeardownOrder(stack)
	if err != nil {
		return err
	}

	s.logger.Info("Destroy started",
		zap.String("operation", "destroy_start"),
		zap.String("stack", stack.Name),
		zap.Int("resources", len(ledger.Resources)),
	)

	for _, step := range steps {
		if err := ctx.Err(); err != nil {
			return errors.New(errors.ErrTeardown, "destroy cancelled",
				map[string]interface{}{
					"step": step.Key,
				}, err)
		}

		record, ok := ledger.Lookup(string(step.Kind), step.Name)
		if !ok {
			continue
		}

		if err := s.destroyStep(ctx, step, record); err != nil {
			if awsd.IsNotFound(err) {
				s.logger.Warn("Resource already gone, removing from state",
					zap.String("operation", "destroy_skip"),
					zap.String("resource", step.Key),
				)
			} else {
				return errors.New(errors.ErrTeardown, "destroy step failed",
					map[string]interface{}{
						"step": step.Key,
						"id":   record.ID,
					}, err)
			}
		}

		ledger.Remove(string(step.Kind), step.Name)
		if err := ledger.Save(s.statePath); err != nil {
			return err
		}

		s.logger.Info("Resource deleted",
			zap.String("operation", "destroy_step"),
			zap.String("resource", step.Key),
			zap.String("id", record.ID),
		)
	}

	for _, leftover := range ledger.Resources {
		s.logger.Warn("Resource in state but not in manifest, left untouched",
			zap.String("operation", "destroy_leftover"),
			zap.String("resource", leftover.Key()),
			zap.String("id", leftover.ID),
		)
	}

	s.logger.Info("Destroy completed",
		zap.String("operation", "destroy_complete"),
		zap.String("stack", stack.Name),
	)
	return nil
}

func (s *Service) destroyStep(ctx context.Context, step planner.Step, record state.Record) error {
	switch step.Kind {
	case models.KindScalingPolicy:
		return s.asg.DeleteScalingPolicy(ctx, record.Attributes["asg_name"], record.Name)

	case models.KindAutoScalingGroup:
		if err := s.asg.ScaleToZero(ctx, record.ID); err != nil {
			return err
		}
		if err := s.asg.DeleteAutoScalingGroup(ctx, record.ID); err != nil {
			return err
		}
		return s.waitForASGDeletion(ctx, record.ID)

	case models.KindLaunchTemplate:
		return s.ec2.DeleteLaunchTemplate(ctx, record.ID)

	case models.KindInstance:
		if err := s.ec2.TerminateInstance(ctx, record.ID); err != nil {
			return err
		}
		return s.waitForInstanceTermination(ctx, record.ID)

	case models.KindSecurityGroup:
		return s.ec2.DeleteSecurityGroup(ctx, record.ID)

	case models.KindRouteTable:
		var associations []string
		if raw := record.Attributes["association_ids"]; raw != "" {
			associations = strings.Split(raw, ",")
		}
		return s.ec2.DeleteRouteTable(ctx, record.ID, associations)

	case models.KindInternetGateway:
		return s.ec2.DeleteInternetGateway(ctx, record.ID, record.Attributes["vpc_id"])

	case models.KindSubnet:
		return s.ec2.DeleteSubnet(ctx, record.ID)

	case models.KindVPC:
		return s.ec2.DeleteVPC(ctx, record.ID)
	}

	return errors.New(errors.ErrTeardown, "unknown resource kind",
		map[string]interface{}{
			"kind": string(step.Kind),
		}, nil)
}

// waitForASGDeletion polls until the group is gone so the launch template
// delete that follows does not hit a dependency error
func (s *Service) waitForASGDeletion(ctx context.Context, name string) error {
	deadline := time.Now().Add(s.drainTimeout)
	for {
		_, err := s.asg.DescribeAutoScalingGroup(ctx, name)
		if err != nil {
			if awsd.IsNotFound(err) {
				return nil
			}
			return err
		}
		if time.Now().After(deadline) {
			return errors.New(errors.ErrTeardown, "timed out waiting for ASG deletion",
				map[string]interface{}{
					"asg_name": name,
					"timeout":  s.drainTimeout.String(),
				}, nil)
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(s.pollInterval):
		}
	}
}

// waitForInstanceTermination polls until the instance reports terminated,
// so the security group delete that follows can succeed
func (s *Service) waitForInstanceTermination(ctx context.Context, instanceID string) error {
	deadline := time.Now().Add(s.drainTimeout)
	for {
		instance, err := s.ec2.DescribeInstance(ctx, instanceID)
		if err != nil {
			if awsd.IsNotFound(err) {
				return nil
			}
			return err
		}
		if instance.State == "terminated" {
			return nil
		}
		if time.Now().After(deadline) {
			return errors.New(errors.ErrTeardown, "timed out waiting for instance termination",
				map[string]interface{}{
					"instance_id": instanceID,
					"state":       instance.State,
					"timeout":     s.drainTimeout.String(),
				}, nil)
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(s.pollInterval):
		}
	}
}
