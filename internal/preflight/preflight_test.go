package preflight

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"blueprints/internal/store"
	"blueprints/internal/testsupport"
)

func TestCheckDirectoryAccess_OK(t *testing.T) {
	dir := t.TempDir()
	result := CheckDirectoryAccess("test", dir)
	if !result.Passed {
		t.Fatalf("expected pass for temp dir, got: %s", result.Detail)
	}
}

func TestCheckDirectoryAccess_NotExist(t *testing.T) {
	result := CheckDirectoryAccess("test", filepath.Join(t.TempDir(), "nope"))
	if result.Passed {
		t.Fatal("expected failure for missing dir")
	}
	if !strings.Contains(result.Detail, "does not exist") {
		t.Fatalf("unexpected detail %q", result.Detail)
	}
}

func TestCheckDirectoryAccess_NotDir(t *testing.T) {
	f := filepath.Join(t.TempDir(), "file.txt")
	if err := os.WriteFile(f, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	result := CheckDirectoryAccess("test", f)
	if result.Passed {
		t.Fatal("expected failure for file path")
	}
}

func TestCheckDocuments(t *testing.T) {
	root := t.TempDir()
	testsupport.WriteDocument(t, root, "E", "The Expanse (2015)", 0, testsupport.MinimalDocument, "preview.jpg")

	if result := CheckDocuments(root); !result.Passed {
		t.Fatalf("expected pass, got %s %v", result.Detail, result.Violations)
	}

	testsupport.WriteDocument(t, root, "E", "The Expanse (2015)", 1, testsupport.MinimalDocument, "preview.jpg", "stray.png")
	result := CheckDocuments(root)
	if result.Passed || len(result.Violations) != 1 {
		t.Fatalf("expected one violation, got %+v", result)
	}
	got := result.Violations[0]
	if got.Rule != "file-extra" || !strings.HasPrefix(got.Path, "E/The Expanse (2015)/1/blueprint.json") {
		t.Fatalf("unexpected violation %+v", got)
	}
}

func TestCheckTreeReportsLayout(t *testing.T) {
	root := t.TempDir()
	testsupport.WriteDocument(t, root, "E", "The Expanse (2015)", 0, testsupport.MinimalDocument, "preview.jpg")
	testsupport.WriteFile(t, filepath.Join(root, "E", "The Expanse (2015)", "notes.txt"), "x")

	result := CheckTree(root)
	if result.Passed || len(result.Violations) != 1 || result.Violations[0].Rule != "stray-file" {
		t.Fatalf("expected stray-file violation, got %+v", result)
	}
}

func TestCheckSetsFlagsShrunkenSet(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	series := testsupport.SeedSeries(t, st, store.Series{Name: "Lost", Year: 2004, PathName: "Lost (2004)"})
	a := testsupport.SeedBlueprint(t, st, series.ID, 0, "a", "{}")
	b := testsupport.SeedBlueprint(t, st, series.ID, 1, "b", "{}")
	if err := st.Update(ctx, func(tx *store.Tx) error {
		return tx.InsertSet(ctx, &store.Set{Name: "Pair", BlueprintIDs: []int64{a.ID, b.ID}})
	}); err != nil {
		t.Fatalf("insert set: %v", err)
	}
	if result := CheckSets(ctx, st); !result.Passed {
		t.Fatalf("expected pass, got %+v", result)
	}

	db, err := sql.Open("sqlite", st.Path())
	if err != nil {
		t.Fatalf("open raw db: %v", err)
	}
	defer db.Close()
	if _, err := db.Exec("DELETE FROM blueprint_sets WHERE blueprint_id = ?", b.ID); err != nil {
		t.Fatalf("remove membership: %v", err)
	}

	result := CheckSets(ctx, st)
	if result.Passed || len(result.Violations) != 1 || result.Violations[0].Rule != RuleSet {
		t.Fatalf("expected set violation, got %+v", result)
	}
}

func TestRunAllSkipsTreeChecksForMissingRoot(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	cfg.Paths.BlueprintDir = filepath.Join(t.TempDir(), "missing")

	results := RunAll(context.Background(), cfg, nil)
	if len(results) != 2 {
		t.Fatalf("expected only directory checks, got %+v", results)
	}
	if !Failed(results) {
		t.Fatal("expected failure for missing root")
	}
}
