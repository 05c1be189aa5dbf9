package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"blueprints/internal/config"
	"blueprints/internal/layout"
	"blueprints/internal/store"
)

type seriesView struct {
	ID         int64  `json:"id"`
	Name       string `json:"name"`
	Year       int    `json:"year"`
	Path       string `json:"path"`
	IMDb       string `json:"imdb,omitempty"`
	TMDb       int64  `json:"tmdb,omitempty"`
	TVDb       int64  `json:"tvdb,omitempty"`
	Blueprints int    `json:"blueprints"`
	NextNumber int    `json:"next_number"`
}

func newListCommand(ctx *commandContext) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List series and their blueprint counts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var views []seriesView
			err := ctx.withStore(false, func(cfg *config.Config, st *store.Store) error {
				return st.View(cmd.Context(), func(tx *store.Tx) error {
					summaries, err := tx.ListSeries(cmd.Context())
					if err != nil {
						return err
					}
					views = make([]seriesView, 0, len(summaries))
					for _, s := range summaries {
						views = append(views, seriesView{
							ID:         s.ID,
							Name:       s.Name,
							Year:       s.Year,
							Path:       layout.SeriesDir("", s.Display(), s.PathName),
							IMDb:       s.IDs.IMDb,
							TMDb:       s.IDs.TMDb,
							TVDb:       s.IDs.TVDb,
							Blueprints: s.Blueprints,
							NextNumber: s.NextNumber,
						})
					}
					return nil
				})
			})
			if err != nil {
				return err
			}

			if jsonOutput {
				return writeJSON(cmd, views)
			}
			if len(views) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No series")
				return nil
			}
			rows := make([][]string, 0, len(views))
			for _, v := range views {
				rows = append(rows, []string{
					strconv.FormatInt(v.ID, 10),
					fmt.Sprintf("%s (%d)", v.Name, v.Year),
					v.Path,
					strconv.Itoa(v.Blueprints),
				})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]string{"ID", "Series", "Folder", "Blueprints"},
				rows,
				[]columnAlignment{alignRight, alignLeft, alignLeft, alignRight},
			))
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	return cmd
}
