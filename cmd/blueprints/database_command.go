package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"blueprints/internal/config"
	"blueprints/internal/reconcile"
	"blueprints/internal/store"
)

func newUpdateDatabaseCommand(ctx *commandContext) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "update-database",
		Short: "Sync the database with the blueprint tree",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var report reconcile.Report
			err := ctx.withStore(true, func(cfg *config.Config, st *store.Store) error {
				var err error
				report, err = reconcile.New(cfg.Paths.BlueprintDir, st, ctx.log()).Run(cmd.Context())
				return err
			})
			if err != nil {
				return err
			}
			if jsonOutput {
				return writeJSON(cmd, report)
			}
			rows := [][]string{
				{"Documents", strconv.Itoa(report.Documents)},
				{"Updated", strconv.Itoa(report.Updated)},
				{"Unchanged", strconv.Itoa(report.Unchanged)},
				{"Skipped", strconv.Itoa(report.Skipped)},
				{"Deleted", strconv.Itoa(report.Deleted)},
				{"Pruned sets", strconv.Itoa(report.PrunedSets)},
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable([]string{"Result", "Count"}, rows, []columnAlignment{alignLeft, alignRight}))
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	return cmd
}
