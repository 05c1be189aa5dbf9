package reconcile

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"blueprints/internal/blueprint"
	"blueprints/internal/layout"
	"blueprints/internal/logging"
	"blueprints/internal/store"
)

// Report summarizes a reconciliation run.
type Report struct {
	Documents  int `json:"documents"`
	Updated    int `json:"updated"`
	Unchanged  int `json:"unchanged"`
	Skipped    int `json:"skipped"`
	Deleted    int `json:"deleted"`
	PrunedSets int `json:"pruned_sets"`
}

var (
	// ErrMissingRoot is returned when the tree root is absent or not a directory.
	ErrMissingRoot = errors.New("blueprint tree root is missing")
	// ErrEmptyTree is returned when the tree holds no documents but the store
	// still has blueprints; pruning would empty the store.
	ErrEmptyTree = errors.New("blueprint tree is empty but the store is not")
)

// Reconciler syncs a store against the tree under root.
type Reconciler struct {
	root   string
	store  *store.Store
	logger *slog.Logger
}

// New constructs a Reconciler.
func New(root string, st *store.Store, logger *slog.Logger) *Reconciler {
	return &Reconciler{root: root, store: st, logger: logging.NewComponentLogger(logger, "reconcile")}
}

// Run performs both passes and commits once.
func (r *Reconciler) Run(ctx context.Context) (Report, error) {
	var report Report
	info, err := os.Stat(r.root)
	switch {
	case errors.Is(err, os.ErrNotExist):
		return report, fmt.Errorf("%w: %s", ErrMissingRoot, r.root)
	case err != nil:
		return report, fmt.Errorf("stat %s: %w", r.root, err)
	case !info.IsDir():
		return report, fmt.Errorf("%w: %s is not a directory", ErrMissingRoot, r.root)
	}
	docs, err := layout.Documents(r.root)
	if err != nil {
		return report, err
	}
	report.Documents = len(docs)

	err = r.store.Update(ctx, func(tx *store.Tx) error {
		for _, doc := range docs {
			if err := ctx.Err(); err != nil {
				return err
			}
			changed, err := r.syncDocument(ctx, tx, doc)
			switch {
			case errors.Is(err, errSkip):
				report.Skipped++
			case err != nil:
				return err
			case changed:
				report.Updated++
			default:
				report.Unchanged++
			}
		}
		return r.prune(ctx, tx, &report)
	})
	if err != nil {
		return Report{}, err
	}
	r.logger.Info("reconciliation complete",
		logging.Int("documents", report.Documents),
		logging.Int("updated", report.Updated),
		logging.Int("skipped", report.Skipped),
		logging.Int("deleted", report.Deleted),
		logging.Int("pruned_sets", report.PrunedSets),
	)
	return report, nil
}

var errSkip = errors.New("skip document")

// stamp holds the document fields mirrored into blueprint columns.
type stamp struct {
	Creator *string `json:"creator"`
	Created *string `json:"created"`
}

func (r *Reconciler) syncDocument(ctx context.Context, tx *store.Tx, doc layout.Document) (bool, error) {
	logger := r.logger.With(logging.String(logging.FieldPath, doc.Path))

	number, err := doc.Number()
	if err != nil {
		logger.Warn("skipping document in malformed folder", logging.Error(err))
		return false, errSkip
	}
	raw, err := os.ReadFile(doc.Path)
	if err != nil {
		return false, fmt.Errorf("read %s: %w", doc.Path, err)
	}
	var fields stamp
	if err := json.Unmarshal(raw, &fields); err != nil {
		logger.Warn("skipping unparseable document", logging.Error(err))
		return false, errSkip
	}
	body, err := blueprint.Compact(raw)
	if err != nil {
		logger.Warn("skipping unparseable document", logging.Error(err))
		return false, errSkip
	}

	series, err := tx.FindSeriesByPathName(ctx, doc.SeriesFolder)
	if errors.Is(err, store.ErrNotFound) {
		logger.Warn("series not found", logging.String(logging.FieldSeries, doc.SeriesFolder))
		return false, errSkip
	} else if err != nil {
		return false, err
	}
	bp, err := tx.FindBlueprint(ctx, series.ID, number)
	if errors.Is(err, store.ErrNotFound) {
		logger.Warn("blueprint not found",
			logging.String(logging.FieldSeries, series.Display()),
			logging.Int(logging.FieldNumber, number),
		)
		return false, errSkip
	} else if err != nil {
		return false, err
	}

	logger = logger.With(logging.String(logging.FieldSeries, series.Display()), logging.Int(logging.FieldNumber, number))
	changed := false
	if fields.Creator != nil && *fields.Creator != bp.Creator {
		logger.Info("updating creator", logging.String("old", bp.Creator), logging.String("new", *fields.Creator))
		bp.Creator = *fields.Creator
		changed = true
	}
	if fields.Created != nil {
		created, err := time.Parse(blueprint.CreatedLayout, *fields.Created)
		switch {
		case err != nil:
			logger.Warn("ignoring malformed created timestamp", logging.String("created", *fields.Created))
		case !created.Equal(bp.Created):
			logger.Info("updating created",
				logging.String("old", bp.Created.Format(blueprint.CreatedLayout)),
				logging.String("new", *fields.Created),
			)
			bp.Created = created
			changed = true
		}
	}
	if body != bp.JSON {
		logger.Info("updating document body")
		logger.Debug("document body changed", logging.String("old", bp.JSON), logging.String("new", body))
		bp.JSON = body
		changed = true
	}
	if !changed {
		return false, nil
	}
	return true, tx.UpdateBlueprint(ctx, bp)
}

// prune deletes every blueprint whose folder is gone.
func (r *Reconciler) prune(ctx context.Context, tx *store.Tx, report *Report) error {
	rows, err := tx.ListBlueprints(ctx)
	if err != nil {
		return err
	}
	if report.Documents == 0 && len(rows) > 0 {
		return fmt.Errorf("%w: %d blueprints under %s", ErrEmptyTree, len(rows), r.root)
	}
	seriesByID := make(map[int64]*store.Series)
	for _, bp := range rows {
		series, ok := seriesByID[bp.SeriesID]
		if !ok {
			series, err = tx.GetSeries(ctx, bp.SeriesID)
			if err != nil {
				return err
			}
			seriesByID[bp.SeriesID] = series
		}
		dir := layout.BlueprintDir(r.root, series.Display(), series.PathName, bp.Number)
		if _, err := os.Stat(dir); err == nil {
			continue
		} else if !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("stat %s: %w", dir, err)
		}
		pruned, err := tx.DeleteBlueprint(ctx, bp.ID)
		if err != nil {
			return err
		}
		report.Deleted++
		report.PrunedSets += pruned
		r.logger.Info("deleted blueprint missing from tree",
			logging.String(logging.FieldSeries, series.Display()),
			logging.Int(logging.FieldNumber, bp.Number),
			logging.Int("pruned_sets", pruned),
		)
	}
	return nil
}
