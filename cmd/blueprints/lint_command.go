package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"blueprints/internal/layout"
	"blueprints/internal/runlock"
)

func newLintCommand(ctx *commandContext) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "lint-blueprints",
		Short: "Rewrite every blueprint.json with two-space indentation",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			lock, err := runlock.Acquire(cfg.LockPath())
			if err != nil {
				return err
			}
			defer lock.Release()

			report, err := layout.Lint(cfg.Paths.BlueprintDir, ctx.log())
			if err != nil {
				return err
			}
			if jsonOutput {
				return writeJSON(cmd, report)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Rewrote %d, unchanged %d, skipped %d\n",
				len(report.Rewritten), len(report.Unchanged), len(report.Skipped))
			for _, path := range report.Skipped {
				fmt.Fprintf(cmd.OutOrStdout(), "  skipped %s\n", path)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	return cmd
}
