package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"stackforge/configuration"
)

// NewApplyCmd builds the apply subcommand. It provisions every resource
// in the manifest that is not already recorded in the state file.
func NewApplyCmd() *cobra.Command {
	var stackPath string

	cmd := &cobra.Command{
		Use:   "apply",
		Short: "Provision the stack and record resource IDs in the state file",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := configuration.Initialize()
			if err != nil {
				return err
			}

			s, err := loadStack(cfg, stackPath)
			if err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), time.Duration(cfg.ApplyTimeout)*time.Minute)
			defer cancel()

			svc, err := buildService(ctx, cfg)
			if err != nil {
				return err
			}

			if err := svc.Apply(ctx, s); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Stack %q applied. State written to %s\n", s.Name, cfg.StatePath)
			return nil
		},
	}

	cmd.Flags().StringVarP(&stackPath, "file", "f", "", "path to the stack manifest")

	return cmd
}
