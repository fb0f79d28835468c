package cmd

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"stackforge/awsd"
	"stackforge/configuration"
	"stackforge/logger"
	"stackforge/provisioner"
	"stackforge/stack"
	"stackforge/stack/models"
)

// NewRootCmd builds the stackforge command tree.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "stackforge",
		Short:         "Provision and tear down AWS network and compute stacks",
		Long:          "stackforge reads a stack manifest, plans resources in dependency order,\napplies them against AWS, and records their IDs in a local state file.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.AddCommand(
		NewPlanCmd(),
		NewApplyCmd(),
		NewDestroyCmd(),
		NewStatusCmd(),
	)

	return cmd
}

// loadStack resolves the manifest path and parses it. An explicit flag
// value overrides the configured path.
func loadStack(cfg *configuration.Config, flagPath string) (*models.Stack, error) {
	path := cfg.StackPath
	if flagPath != "" {
		path = flagPath
	}
	return stack.Parse(path)
}

func buildService(ctx context.Context, cfg *configuration.Config) (*provisioner.Service, error) {
	client, err := awsd.NewClient(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return provisioner.NewService(
		client,
		client,
		cfg.StatePath,
		cfg.AWSRegion,
		time.Duration(cfg.ASGDrainTimeout)*time.Second,
		time.Duration(cfg.ASGPollInterval)*time.Second,
		logger.Named("provisioner"),
	), nil
}
