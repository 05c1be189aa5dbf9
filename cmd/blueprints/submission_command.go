package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"blueprints/internal/config"
	"blueprints/internal/fetch"
	"blueprints/internal/ingest"
	"blueprints/internal/logging"
	"blueprints/internal/store"
	"blueprints/internal/submission"
)

const (
	issueBodyEnv    = "ISSUE_BODY"
	issueCreatorEnv = "ISSUE_CREATOR"
)

type submissionOutput struct {
	RunID          string   `json:"run_id"`
	Series         string   `json:"series"`
	SeriesID       int64    `json:"series_id"`
	SeriesCreated  bool     `json:"series_created"`
	BlueprintID    int64    `json:"blueprint_id"`
	Number         int      `json:"blueprint_number"`
	Creator        string   `json:"creator"`
	Path           string   `json:"path"`
	SourceFileURLs []string `json:"source_file_urls,omitempty"`
}

func newParseSubmissionCommand(ctx *commandContext) *cobra.Command {
	var bodyFile string
	var creator string
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "parse-submission",
		Short: "Create a blueprint from an issue submission",
		Long: "Parse the JSON-encoded issue body from $" + issueBodyEnv + " (or --body-file), " +
			"download its previews and fonts, and store the new blueprint.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			body, err := readIssueBody(bodyFile)
			if err != nil {
				return err
			}
			if strings.TrimSpace(creator) == "" {
				creator = os.Getenv(issueCreatorEnv)
			}

			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger := ctx.log()
			parser := submission.Parser{DefaultCreator: cfg.Submission.DefaultCreator, Logger: logger}
			sub, err := parser.ParseIssue(body, creator)
			if err != nil {
				return err
			}

			var result *ingest.Result
			err = ctx.withStore(true, func(cfg *config.Config, st *store.Store) error {
				client := fetch.New(fetch.Config{
					Timeout:  time.Duration(cfg.Submission.DownloadTimeout) * time.Second,
					MaxBytes: int64(cfg.Submission.MaxDownloadMiB) << 20,
					Logger:   logger,
				})
				pipeline := ingest.NewPipeline(cfg.Paths.BlueprintDir, st, client, logger)
				var runErr error
				result, runErr = pipeline.Run(cmd.Context(), sub)
				return runErr
			})
			if err != nil {
				logger.Error("submission rejected",
					logging.String(logging.FieldSeries, sub.DisplayName()),
					logging.String("kind", errorKind(err)),
					logging.Error(err),
				)
				return err
			}

			rel, relErr := filepath.Rel(cfg.Paths.BlueprintDir, result.Dir)
			if relErr != nil {
				rel = result.Dir
			}
			output := submissionOutput{
				RunID:          ctx.runID,
				Series:         result.Series.Display(),
				SeriesID:       result.Series.ID,
				SeriesCreated:  result.SeriesCreated,
				BlueprintID:    result.Blueprint.ID,
				Number:         result.Blueprint.Number,
				Creator:        result.Blueprint.Creator,
				Path:           filepath.ToSlash(rel),
				SourceFileURLs: result.SourceFileURLs,
			}
			if jsonOutput {
				return writeJSON(cmd, output)
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Created blueprint %s\n", output.Path)
			if output.SeriesCreated {
				fmt.Fprintf(out, "Added new series %s\n", output.Series)
			}
			for _, url := range output.SourceFileURLs {
				fmt.Fprintf(out, "Source files: %s\n", url)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&bodyFile, "body-file", "", "Read the JSON-encoded issue body from a file instead of $"+issueBodyEnv)
	cmd.Flags().StringVar(&creator, "creator", "", "Issue author (defaults to $"+issueCreatorEnv+")")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	return cmd
}

func readIssueBody(path string) (string, error) {
	if strings.TrimSpace(path) != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return "", fmt.Errorf("read issue body: %w", err)
		}
		return string(data), nil
	}
	body, ok := os.LookupEnv(issueBodyEnv)
	if !ok || strings.TrimSpace(body) == "" {
		return "", errors.New("no issue body: set $" + issueBodyEnv + " or pass --body-file")
	}
	return body, nil
}
