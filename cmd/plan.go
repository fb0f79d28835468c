package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"stackforge/configuration"
	"stackforge/planner"
)

// NewPlanCmd builds the plan subcommand. It parses the manifest and
// prints the resource creation order without touching AWS.
func NewPlanCmd() *cobra.Command {
	var stackPath string

	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Show the resource creation order for the stack manifest",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := configuration.Initialize()
			if err != nil {
				return err
			}

			s, err := loadStack(cfg, stackPath)
			if err != nil {
				return err
			}

			steps, err := planner.ApplyOrder(s)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Plan for stack %q (%d resources):\n", s.Name, len(steps))
			for i, step := range steps {
				fmt.Fprintf(cmd.OutOrStdout(), "  %2d. %s\n", i+1, step.Key)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&stackPath, "file", "f", "", "path to the stack manifest")

	return cmd
}
