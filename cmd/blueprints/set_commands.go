package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"blueprints/internal/config"
	"blueprints/internal/ingest"
	"blueprints/internal/logging"
	"blueprints/internal/store"
)

type setView struct {
	ID         int64   `json:"id"`
	Name       string  `json:"name"`
	Blueprints []int64 `json:"blueprint_ids"`
}

func newSetCommand(ctx *commandContext) *cobra.Command {
	setCmd := &cobra.Command{
		Use:   "set",
		Short: "Manage blueprint sets",
	}

	setCmd.AddCommand(newSetCreateCommand(ctx))
	setCmd.AddCommand(newSetListCommand(ctx))

	return setCmd
}

func newSetCreateCommand(ctx *commandContext) *cobra.Command {
	var name string

	cmd := &cobra.Command{
		Use:   "create --name NAME BLUEPRINT_DIR BLUEPRINT_DIR...",
		Short: "Group two or more blueprints into a named set",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if strings.TrimSpace(name) == "" {
				return fmt.Errorf("--name is required")
			}
			return ctx.withStore(true, func(cfg *config.Config, st *store.Store) error {
				set, err := ingest.CreateSet(cmd.Context(), st, cfg.Paths.BlueprintDir, name, args)
				if err != nil {
					return err
				}
				ctx.log().Info("created set",
					logging.Int64("set_id", set.ID),
					logging.String("name", set.Name),
					logging.Int("blueprints", len(set.BlueprintIDs)),
				)
				fmt.Fprintf(cmd.OutOrStdout(), "Created set %q (id %d) with %d blueprints\n", set.Name, set.ID, len(set.BlueprintIDs))
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Set name (at least three characters)")
	return cmd
}

func newSetListCommand(ctx *commandContext) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List blueprint sets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var sets []*store.Set
			err := ctx.withStore(false, func(_ *config.Config, st *store.Store) error {
				return st.View(cmd.Context(), func(tx *store.Tx) error {
					var err error
					sets, err = tx.ListSets(cmd.Context())
					return err
				})
			})
			if err != nil {
				return err
			}

			views := make([]setView, 0, len(sets))
			for _, set := range sets {
				views = append(views, setView{ID: set.ID, Name: set.Name, Blueprints: set.BlueprintIDs})
			}
			if jsonOutput {
				return writeJSON(cmd, views)
			}
			if len(views) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No sets")
				return nil
			}
			rows := make([][]string, 0, len(views))
			for _, v := range views {
				ids := make([]string, 0, len(v.Blueprints))
				for _, id := range v.Blueprints {
					ids = append(ids, strconv.FormatInt(id, 10))
				}
				rows = append(rows, []string{strconv.FormatInt(v.ID, 10), v.Name, strings.Join(ids, ", ")})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable([]string{"ID", "Name", "Blueprints"}, rows, []columnAlignment{alignRight}))
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	return cmd
}
