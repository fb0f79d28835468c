package planner

import (
	stderrors "errors"
	"sort"

	"github.com/dominikbraun/graph"
	"go.uber.org/zap"

	"stackforge/errors"
	"stackforge/stack/models"
)

const (
	packageName = "planner"
)

// Step is one planned operation on a single resource
type Step struct {
	Key  string
	Kind models.Kind
	Name string
}

// ApplyOrder returns the dependency-ordered list of resources to create:
// every resource appears after everything it references. The order is
// stable for a given manifest.
func ApplyOrder(s *models.Stack) ([]Step, error) {
	g, steps, err := buildGraph(s)
	if err != nil {
		return nil, err
	}

	keys, err := stableTopologicalSort(g)
	if err != nil {
		return nil, err
	}

	order := make([]Step, 0, len(keys))
	for _, key := range keys {
		order = append(order, steps[key])
	}

	zap.L().With(zap.String("package", packageName)).Info("Apply order planned",
		zap.String("operation", "plan"),
		zap.String("stack", s.Name),
		zap.Int("steps", len(order)),
	)
	return order, nil
}

// TeardownOrder is the exact reverse of the apply order, so a resource is
// deleted only after all of its dependents
func TeardownOrder(s *models.Stack) ([]Step, error) {
	order, err := ApplyOrder(s)
	if err != nil {
		return nil, err
	}
	for i, j := 0, len(order)-1; i < j; i, j = i+1, j-1 {
		order[i], order[j] = order[j], order[i]
	}
	return order, nil
}

// buildGraph constructs the directed resource graph. An edge A -> B means
// A must exist before B.
func buildGraph(s *models.Stack) (graph.Graph[string, string], map[string]Step, error) {
	g := graph.New(graph.StringHash, graph.Directed(), graph.PreventCycles())
	steps := make(map[string]Step)

	add := func(kind models.Kind, name string) {
		key := models.Key(kind, name)
		steps[key] = Step{Key: key, Kind: kind, Name: name}
		_ = g.AddVertex(key)
	}

	for _, v := range s.VPCs {
		add(models.KindVPC, v.Name)
	}
	for _, igw := range s.InternetGateways {
		add(models.KindInternetGateway, igw.Name)
	}
	for _, sn := range s.Subnets {
		add(models.KindSubnet, sn.Name)
	}
	for _, rt := range s.RouteTables {
		add(models.KindRouteTable, rt.Name)
	}
	for _, sg := range s.SecurityGroups {
		add(models.KindSecurityGroup, sg.Name)
	}
	for _, lt := range s.LaunchTemplates {
		add(models.KindLaunchTemplate, lt.Name)
	}
	for _, asg := range s.AutoScalingGroups {
		add(models.KindAutoScalingGroup, asg.Name)
	}
	for _, sp := range s.ScalingPolicies {
		add(models.KindScalingPolicy, sp.Name)
	}
	for _, inst := range s.Instances {
		add(models.KindInstance, inst.Name)
	}

	depends := func(kind models.Kind, name string, refKind models.Kind, ref string) error {
		from := models.Key(refKind, ref)
		to := models.Key(kind, name)
		if _, ok := steps[from]; !ok {
			return errors.New(errors.ErrPlanUnknown, "reference to unplanned resource",
				map[string]interface{}{
					"resource":  to,
					"reference": from,
				}, nil)
		}
		if err := g.AddEdge(from, to); err != nil {
			if stderrors.Is(err, graph.ErrEdgeAlreadyExists) {
				return nil
			}
			if stderrors.Is(err, graph.ErrEdgeCreatesCycle) {
				return errors.New(errors.ErrPlanCycle, "resource references form a cycle",
					map[string]interface{}{
						"resource":  to,
						"reference": from,
					}, err)
			}
			return err
		}
		return nil
	}

	for _, igw := range s.InternetGateways {
		if err := depends(models.KindInternetGateway, igw.Name, models.KindVPC, igw.VPC); err != nil {
			return nil, nil, err
		}
	}
	for _, sn := range s.Subnets {
		if err := depends(models.KindSubnet, sn.Name, models.KindVPC, sn.VPC); err != nil {
			return nil, nil, err
		}
	}
	for _, rt := range s.RouteTables {
		if err := depends(models.KindRouteTable, rt.Name, models.KindVPC, rt.VPC); err != nil {
			return nil, nil, err
		}
		if err := depends(models.KindRouteTable, rt.Name, models.KindInternetGateway, rt.Gateway); err != nil {
			return nil, nil, err
		}
		for _, sn := range rt.Subnets {
			if err := depends(models.KindRouteTable, rt.Name, models.KindSubnet, sn); err != nil {
				return nil, nil, err
			}
		}
	}
	for _, sg := range s.SecurityGroups {
		if err := depends(models.KindSecurityGroup, sg.Name, models.KindVPC, sg.VPC); err != nil {
			return nil, nil, err
		}
	}
	for _, lt := range s.LaunchTemplates {
		for _, sg := range lt.SecurityGroups {
			if err := depends(models.KindLaunchTemplate, lt.Name, models.KindSecurityGroup, sg); err != nil {
				return nil, nil, err
			}
		}
	}
	for _, asg := range s.AutoScalingGroups {
		if err := depends(models.KindAutoScalingGroup, asg.Name, models.KindLaunchTemplate, asg.LaunchTemplate); err != nil {
			return nil, nil, err
		}
		for _, sn := range asg.Subnets {
			if err := depends(models.KindAutoScalingGroup, asg.Name, models.KindSubnet, sn); err != nil {
				return nil, nil, err
			}
		}
	}
	for _, sp := range s.ScalingPolicies {
		if err := depends(models.KindScalingPolicy, sp.Name, models.KindAutoScalingGroup, sp.AutoScalingGroup); err != nil {
			return nil, nil, err
		}
	}
	for _, inst := range s.Instances {
		if inst.Subnet != "" {
			if err := depends(models.KindInstance, inst.Name, models.KindSubnet, inst.Subnet); err != nil {
				return nil, nil, err
			}
		}
		for _, sg := range inst.SecurityGroups {
			if err := depends(models.KindInstance, inst.Name, models.KindSecurityGroup, sg); err != nil {
				return nil, nil, err
			}
		}
	}

	return g, steps, nil
}

// stableTopologicalSort is Kahn's algorithm with the ready queue kept in
// lexical order, so the result is deterministic across runs for the same
// manifest
func stableTopologicalSort(g graph.Graph[string, string]) ([]string, error) {
	predecessors, err := g.PredecessorMap()
	if err != nil {
		return nil, err
	}

	var queue []string
	for key, preds := range predecessors {
		if len(preds) == 0 {
			queue = append(queue, key)
		}
	}
	sort.Strings(queue)

	adjacency, err := g.AdjacencyMap()
	if err != nil {
		return nil, err
	}

	order := make([]string, 0, len(predecessors))
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		order = append(order, current)

		var ready []string
		for succ := range adjacency[current] {
			preds := predecessors[succ]
			delete(preds, current)
			if len(preds) == 0 {
				ready = append(ready, succ)
			}
		}
		sort.Strings(ready)
		queue = append(queue, ready...)
	}

	if len(order) != len(predecessors) {
		return nil, errors.New(errors.ErrPlanCycle, "resource graph contains a cycle",
			map[string]interface{}{
				"ordered": len(order),
				"total":   len(predecessors),
			}, nil)
	}
	return order, nil
}
