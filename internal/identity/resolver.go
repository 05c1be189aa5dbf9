package identity

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"blueprints/internal/logging"
	"blueprints/internal/naming"
	"blueprints/internal/store"
)

// PathCollisionError reports a new series whose folder name is already used
// by a different series.
type PathCollisionError struct {
	Display  string
	PathName string
	Existing string
}

func (e *PathCollisionError) Error() string {
	return fmt.Sprintf("series %s would use folder %q, which already belongs to %s", e.Display, e.PathName, e.Existing)
}

// ErrorKind classifies the error for exit reporting.
func (e *PathCollisionError) ErrorKind() string { return "identity" }

// Candidate is what a submission says about its series.
type Candidate struct {
	Name string
	Year int
	IDs  map[string]any
}

// Resolver finds or creates series.
type Resolver struct {
	store  *store.Store
	logger *slog.Logger
}

// NewResolver constructs a resolver over st.
func NewResolver(st *store.Store, logger *slog.Logger) *Resolver {
	return &Resolver{store: st, logger: logging.NewComponentLogger(logger, "identity")}
}

// Resolve returns the series the candidate belongs to. created reports
// whether a new series was inserted; that insert is already committed.
func (r *Resolver) Resolve(ctx context.Context, c Candidate) (series *store.Series, created bool, err error) {
	name := strings.TrimSpace(c.Name)
	if name == "" {
		return nil, false, errors.New("resolve series: empty name")
	}
	display := naming.Display(name, c.Year)
	logger := r.logger.With(logging.String(logging.FieldSeries, display))

	ids, ignored := SeriesIDs(c.IDs)
	for _, reason := range ignored {
		logger.Warn("ignoring database id", logging.String("reason", reason))
	}

	tx, err := r.store.Begin(ctx)
	if err != nil {
		return nil, false, err
	}
	defer func() { _ = tx.Rollback() }()

	if !ids.Empty() {
		series, err = tx.FindSeriesByIDs(ctx, ids)
		switch {
		case err == nil:
			logger.Info("matched series by database id", logging.Int64("series_id", series.ID))
			return series, false, nil
		case !errors.Is(err, store.ErrNotFound):
			return nil, false, fmt.Errorf("resolve series by id: %w", err)
		}
	}

	series, err = tx.FindSeriesByNameYear(ctx, name, c.Year)
	switch {
	case err == nil:
		logger.Info("matched series by name and year", logging.Int64("series_id", series.ID))
		return series, false, nil
	case !errors.Is(err, store.ErrNotFound):
		return nil, false, fmt.Errorf("resolve series by name: %w", err)
	}

	_, pathName := naming.Folders(display)
	existing, err := tx.FindSeriesByPathName(ctx, pathName)
	switch {
	case err == nil:
		logger.Warn("series folder already taken",
			logging.String(logging.FieldPath, pathName),
			logging.Int64("series_id", existing.ID),
		)
		return nil, false, &PathCollisionError{Display: display, PathName: pathName, Existing: existing.Display()}
	case !errors.Is(err, store.ErrNotFound):
		return nil, false, fmt.Errorf("resolve series by folder: %w", err)
	}
	series = &store.Series{Name: name, Year: c.Year, PathName: pathName, IDs: ids}
	if err := tx.InsertSeries(ctx, series); err != nil {
		return nil, false, err
	}
	if err := tx.Commit(); err != nil {
		return nil, false, err
	}
	logger.Info("created series",
		logging.Int64("series_id", series.ID),
		logging.String(logging.FieldPath, pathName),
	)
	return series, true, nil
}
