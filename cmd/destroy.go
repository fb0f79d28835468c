package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"stackforge/configuration"
)

// NewDestroyCmd builds the destroy subcommand. It deletes every recorded
// resource in reverse creation order.
func NewDestroyCmd() *cobra.Command {
	var stackPath string

	cmd := &cobra.Command{
		Use:   "destroy",
		Short: "Tear down the stack in reverse creation order",
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

			if err := svc.Destroy(ctx, s); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Stack %q destroyed.\n", s.Name)
			return nil
		},
	}

	cmd.Flags().StringVarP(&stackPath, "file", "f", "", "path to the stack manifest")

	return cmd
}
