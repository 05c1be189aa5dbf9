package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"blueprints/internal/config"
	"blueprints/internal/preflight"
	"blueprints/internal/store"
)

// checkFailedError reports that at least one repository check failed.
type checkFailedError struct {
	failed int
}

func (e *checkFailedError) Error() string {
	return fmt.Sprintf("%d repository check(s) failed", e.failed)
}

func (e *checkFailedError) ErrorKind() string { return "check" }

func newCheckCommand(ctx *commandContext) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "check",
		Short: "Audit the blueprint tree, every document, and stored sets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var results []preflight.Result
			err := ctx.withStore(false, func(cfg *config.Config, st *store.Store) error {
				results = preflight.RunAll(cmd.Context(), cfg, st)
				return nil
			})
			if err != nil {
				return err
			}

			if jsonOutput {
				if err := writeJSON(cmd, results); err != nil {
					return err
				}
			} else {
				renderCheckResults(cmd, results)
			}

			failed := 0
			for _, r := range results {
				if !r.Passed {
					failed++
				}
			}
			if failed > 0 {
				return &checkFailedError{failed: failed}
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	return cmd
}

func renderCheckResults(cmd *cobra.Command, results []preflight.Result) {
	rows := make([][]string, 0, len(results))
	for _, r := range results {
		status := "ok"
		if !r.Passed {
			status = "FAIL"
		}
		rows = append(rows, []string{r.Name, status, r.Detail})
	}
	out := cmd.OutOrStdout()
	fmt.Fprintln(out, renderTable([]string{"Check", "Status", "Detail"}, rows, nil))
	for _, r := range results {
		if len(r.Violations) == 0 {
			continue
		}
		fmt.Fprintf(out, "\n%s:\n", r.Name)
		for _, v := range r.Violations {
			fmt.Fprintf(out, "  %s\n", strings.TrimSpace(v.String()))
		}
	}
}
