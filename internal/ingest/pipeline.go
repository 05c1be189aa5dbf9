package ingest

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"blueprints/internal/blueprint"
	"blueprints/internal/identity"
	"blueprints/internal/layout"
	"blueprints/internal/logging"
	"blueprints/internal/store"
	"blueprints/internal/submission"
)

// Fetcher downloads the files a submission links to.
type Fetcher interface {
	DownloadImage(ctx context.Context, url, dest string) error
	DownloadArchive(ctx context.Context, url, dir string) ([]string, error)
}

// Pipeline creates blueprints from submissions.
type Pipeline struct {
	root     string
	store    *store.Store
	resolver *identity.Resolver
	fetcher  Fetcher
	logger   *slog.Logger
	now      func() time.Time
}

// Option customizes a Pipeline.
type Option func(*Pipeline)

// WithClock overrides the source of creation timestamps.
func WithClock(now func() time.Time) Option {
	return func(p *Pipeline) { p.now = now }
}

// NewPipeline builds a pipeline writing under root.
func NewPipeline(root string, st *store.Store, fetcher Fetcher, logger *slog.Logger, opts ...Option) *Pipeline {
	p := &Pipeline{
		root:     root,
		store:    st,
		resolver: identity.NewResolver(st, logger),
		fetcher:  fetcher,
		logger:   logging.NewComponentLogger(logger, "ingest"),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Result describes a created blueprint.
type Result struct {
	Series        *store.Series
	SeriesCreated bool
	Blueprint     *store.Blueprint
	Dir           string
	// SourceFileURLs are reported for maintainers; the archives are not
	// added to the blueprint folder.
	SourceFileURLs []string
}

// PreviewNames returns the file names previews are stored under:
// preview.jpg, preview2.jpg, ...
func PreviewNames(count int) []string {
	names := make([]string, 0, count)
	for i := 1; i <= count; i++ {
		if i == 1 {
			names = append(names, "preview.jpg")
			continue
		}
		names = append(names, fmt.Sprintf("preview%d.jpg", i))
	}
	return names
}

// Run ingests sub.
func (p *Pipeline) Run(ctx context.Context, sub *submission.Submission) (*Result, error) {
	if sub == nil {
		return nil, errors.New("ingest: nil submission")
	}
	logger := p.logger.With(logging.String(logging.FieldSeries, sub.DisplayName()))

	previews := PreviewNames(len(sub.PreviewURLs))
	created := p.now().Truncate(time.Second)
	sub.Document["previews"] = previews
	sub.Document["created"] = created.Format(blueprint.CreatedLayout)
	if err := precheck(sub); err != nil {
		return nil, err
	}

	series, seriesCreated, err := p.resolver.Resolve(ctx, identity.Candidate{
		Name: sub.SeriesName,
		Year: sub.SeriesYear,
		IDs:  sub.IDs,
	})
	if err != nil {
		return nil, err
	}

	tx, err := p.store.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback() }()

	number, err := identity.NextNumber(ctx, tx, series.ID)
	if err != nil {
		return nil, err
	}
	dir := layout.BlueprintDir(p.root, series.Display(), series.PathName, number)
	logger = logger.With(logging.Int(logging.FieldNumber, number), logging.String(logging.FieldPath, dir))

	if _, err := os.Stat(dir); err == nil {
		return nil, fmt.Errorf("ingest: blueprint folder %s already exists", dir)
	} else if !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("ingest: stat blueprint folder: %w", err)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("ingest: create blueprint folder: %w", err)
	}
	committed := false
	defer func() {
		if !committed {
			p.removeFolder(dir)
		}
	}()

	raw, err := p.populate(ctx, sub, dir, previews, logger)
	if err != nil {
		return nil, err
	}

	body, err := blueprint.Compact(raw)
	if err != nil {
		return nil, fmt.Errorf("ingest: compact blueprint: %w", err)
	}
	bp := &store.Blueprint{
		SeriesID: series.ID,
		Number:   number,
		Creator:  sub.Creator,
		Created:  created,
		JSON:     body,
	}
	if err := tx.InsertBlueprint(ctx, bp); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	committed = true

	logger.Info("created blueprint", logging.Int64("blueprint_id", bp.ID), logging.String("creator", bp.Creator))
	for _, url := range sub.SourceFileURLs {
		logger.Info("source files linked", logging.String("url", url))
	}
	return &Result{
		Series:         series,
		SeriesCreated:  seriesCreated,
		Blueprint:      bp,
		Dir:            dir,
		SourceFileURLs: sub.SourceFileURLs,
	}, nil
}

// populate downloads the linked files, writes the document, and validates
// the folder. It returns the document as written.
func (p *Pipeline) populate(ctx context.Context, sub *submission.Submission, dir string, previews []string, logger *slog.Logger) ([]byte, error) {
	for i, url := range sub.PreviewURLs {
		if err := p.fetcher.DownloadImage(ctx, url, filepath.Join(dir, previews[i])); err != nil {
			return nil, err
		}
	}
	if sub.FontZipURL != "" {
		names, err := p.fetcher.DownloadArchive(ctx, sub.FontZipURL, dir)
		if err != nil {
			return nil, err
		}
		logger.Info("extracted font archive", logging.Int("files", len(names)))
	}

	encoded, err := sub.DocumentJSON()
	if err != nil {
		return nil, err
	}
	path := filepath.Join(dir, blueprint.DocumentFile)
	if err := layout.WriteDocument(path, encoded); err != nil {
		return nil, err
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("ingest: read back blueprint: %w", err)
	}

	doc, result := blueprint.ValidateRaw(raw)
	if doc != nil {
		files, err := layout.ListFiles(dir)
		if err != nil {
			return nil, err
		}
		result = result.Merge(blueprint.CheckFiles(doc, files))
	}
	if err := result.Err(); err != nil {
		return nil, err
	}
	return raw, nil
}

// removeFolder deletes a half-built blueprint folder and any series or
// bucket folder left empty by it.
func (p *Pipeline) removeFolder(dir string) {
	if err := os.RemoveAll(dir); err != nil {
		p.logger.Warn("failed to remove blueprint folder", logging.String(logging.FieldPath, dir), logging.Error(err))
		return
	}
	seriesDir := filepath.Dir(dir)
	if os.Remove(seriesDir) == nil {
		_ = os.Remove(filepath.Dir(seriesDir))
	}
}

// precheck validates the document before anything is written. File
// references are checked later, once the folder exists.
func precheck(sub *submission.Submission) error {
	encoded, err := sub.DocumentJSON()
	if err != nil {
		return err
	}
	_, result := blueprint.ValidateRaw(encoded)
	return result.Err()
}
