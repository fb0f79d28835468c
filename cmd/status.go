package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"stackforge/configuration"
)

// NewStatusCmd builds the status subcommand. It compares recorded
// resources against AWS and reports missing resources and drift.
func NewStatusCmd() *cobra.Command {
	var stackPath string

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Report missing resources and drift against the manifest",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := configuration.Initialize()
			if err != nil {
				return err
			}

			s, err := loadStack(cfg, stackPath)
			if err != nil {
				return err
			}

			svc, err := buildService(cmd.Context(), cfg)
			if err != nil {
				return err
			}

			findings, err := svc.Verify(cmd.Context(), s)
			if err != nil {
				return err
			}

			for _, finding := range findings {
				fmt.Fprintln(cmd.OutOrStdout(), finding)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&stackPath, "file", "f", "", "path to the stack manifest")

	return cmd
}
