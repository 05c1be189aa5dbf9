package reconcile_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"blueprints/internal/blueprint"
	"blueprints/internal/logging"
	"blueprints/internal/reconcile"
	"blueprints/internal/store"
	"blueprints/internal/testsupport"
)

const editedDocument = `{
  "series": {"font_color": "#FFF"},
  "creator": "someone, another",
  "previews": ["preview.jpg"],
  "description": ["Edited by hand."],
  "created": "2023-11-12T10:09:08"
}
`

func TestRunRoundTrip(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)
	root := cfg.Paths.BlueprintDir
	ctx := context.Background()

	expanse := testsupport.SeedSeries(t, st, store.Series{Name: "The Expanse", Year: 2015, PathName: "The Expanse (2015)"})
	lost := testsupport.SeedSeries(t, st, store.Series{Name: "Lost", Year: 2004, PathName: "Lost (2004)"})

	// 0 is current, 1 was edited on disk, 2 has no folder.
	minimal, err := blueprint.Compact([]byte(testsupport.MinimalDocument))
	if err != nil {
		t.Fatalf("compact: %v", err)
	}
	current := testsupport.SeedBlueprint(t, st, expanse.ID, 0, "someone", minimal)
	edited := testsupport.SeedBlueprint(t, st, expanse.ID, 1, "someone", minimal)
	orphan := testsupport.SeedBlueprint(t, st, expanse.ID, 2, "someone", minimal)
	lostOrphan := testsupport.SeedBlueprint(t, st, lost.ID, 0, "someone", minimal)

	testsupport.WriteDocument(t, root, "E", "The Expanse (2015)", 0, testsupport.MinimalDocument, "preview.jpg")
	testsupport.WriteDocument(t, root, "E", "The Expanse (2015)", 1, editedDocument, "preview.jpg")
	// Unknown series and unknown blueprint number are skipped.
	testsupport.WriteDocument(t, root, "S", "Severance (2022)", 0, testsupport.MinimalDocument)
	testsupport.WriteDocument(t, root, "E", "The Expanse (2015)", 7, testsupport.MinimalDocument)
	// Unparseable document is skipped; its row stays because the folder exists.
	testsupport.WriteDocument(t, root, "L", "Lost (2004)", 0, "{not json")

	report, err := reconcile.New(root, st, logging.NewNop()).Run(ctx)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	want := reconcile.Report{Documents: 5, Updated: 1, Unchanged: 1, Skipped: 3, Deleted: 1}
	if report != want {
		t.Fatalf("unexpected report %+v, want %+v", report, want)
	}

	err = st.View(ctx, func(tx *store.Tx) error {
		got, err := tx.FindBlueprint(ctx, expanse.ID, 1)
		if err != nil {
			return err
		}
		body, _ := blueprint.Compact([]byte(editedDocument))
		if got.ID != edited.ID || got.Creator != "someone, another" || got.JSON != body {
			t.Fatalf("edited blueprint not synced: %+v", got)
		}
		if wantCreated := time.Date(2023, 11, 12, 10, 9, 8, 0, time.UTC); !got.Created.Equal(wantCreated) {
			t.Fatalf("unexpected created %v", got.Created)
		}

		unchanged, err := tx.FindBlueprint(ctx, expanse.ID, 0)
		if err != nil || unchanged.ID != current.ID || unchanged.JSON != minimal {
			t.Fatalf("expected blueprint 0 untouched, got %+v err=%v", unchanged, err)
		}
		if _, err := tx.FindBlueprint(ctx, expanse.ID, 2); !errors.Is(err, store.ErrNotFound) {
			t.Fatalf("expected orphan %d deleted, got %v", orphan.ID, err)
		}
		kept, err := tx.FindBlueprint(ctx, lost.ID, 0)
		if err != nil || kept.ID != lostOrphan.ID {
			t.Fatalf("expected unparseable document's row kept, got %v", err)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("view: %v", err)
	}

	again, err := reconcile.New(root, st, logging.NewNop()).Run(ctx)
	if err != nil {
		t.Fatalf("second Run: %v", err)
	}
	if again.Updated != 0 || again.Deleted != 0 {
		t.Fatalf("expected second run to be a no-op, got %+v", again)
	}
}

func TestRunPrunesSets(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)
	root := cfg.Paths.BlueprintDir
	ctx := context.Background()

	series := testsupport.SeedSeries(t, st, store.Series{Name: "Lost", Year: 2004, PathName: "Lost (2004)"})
	a := testsupport.SeedBlueprint(t, st, series.ID, 0, "a", "{}")
	b := testsupport.SeedBlueprint(t, st, series.ID, 1, "b", "{}")
	if err := st.Update(ctx, func(tx *store.Tx) error {
		return tx.InsertSet(ctx, &store.Set{Name: "Pair", BlueprintIDs: []int64{a.ID, b.ID}})
	}); err != nil {
		t.Fatalf("insert set: %v", err)
	}
	dir := testsupport.WriteDocument(t, root, "L", "Lost (2004)", 0, testsupport.MinimalDocument, "preview.jpg")
	if _, err := os.Stat(filepath.Join(dir, "preview.jpg")); err != nil {
		t.Fatalf("fixture: %v", err)
	}

	report, err := reconcile.New(root, st, logging.NewNop()).Run(ctx)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if report.Deleted != 1 || report.PrunedSets != 1 {
		t.Fatalf("expected one deletion and one pruned set, got %+v", report)
	}
}

func TestRunRefusesMissingRoot(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	series := testsupport.SeedSeries(t, st, store.Series{Name: "Lost", Year: 2004, PathName: "Lost (2004)"})
	bp := testsupport.SeedBlueprint(t, st, series.ID, 0, "a", "{}")
	testsupport.WriteDocument(t, cfg.Paths.BlueprintDir, "L", "Lost (2004)", 0, testsupport.MinimalDocument)

	stray := filepath.Join(t.TempDir(), "file")
	if err := os.WriteFile(stray, nil, 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	for _, root := range []string{filepath.Join(cfg.Paths.BlueprintDir, "typo"), stray} {
		if _, err := reconcile.New(root, st, logging.NewNop()).Run(ctx); !errors.Is(err, reconcile.ErrMissingRoot) {
			t.Fatalf("Run(%s): expected ErrMissingRoot, got %v", root, err)
		}
	}

	empty := t.TempDir()
	if _, err := reconcile.New(empty, st, logging.NewNop()).Run(ctx); !errors.Is(err, reconcile.ErrEmptyTree) {
		t.Fatalf("expected ErrEmptyTree, got %v", err)
	}

	err := st.View(ctx, func(tx *store.Tx) error {
		got, err := tx.FindBlueprint(ctx, series.ID, 0)
		if err != nil || got.ID != bp.ID {
			t.Fatalf("expected blueprint kept, got %+v err=%v", got, err)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("view: %v", err)
	}
}
