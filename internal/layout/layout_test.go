package layout_test

import (
	"os"
	"path/filepath"
	"reflect"
	"sort"
	"strings"
	"testing"

	"blueprints/internal/layout"
	"blueprints/internal/logging"
	"blueprints/internal/testsupport"
)

func TestDocumentsAndBlueprintDir(t *testing.T) {
	root := t.TempDir()
	testsupport.WriteDocument(t, root, "E", "The Expanse (2015)", 0, testsupport.MinimalDocument, "preview.jpg")
	testsupport.WriteDocument(t, root, "E", "The Expanse (2015)", 12, testsupport.MinimalDocument)
	testsupport.WriteDocument(t, root, "D", "Dark (2017)", 3, testsupport.MinimalDocument)
	testsupport.WriteFile(t, filepath.Join(root, "D", "Dark (2017)", "README.md"), "# Dark")

	docs, err := layout.Documents(root)
	if err != nil {
		t.Fatalf("Documents: %v", err)
	}
	if len(docs) != 3 {
		t.Fatalf("expected 3 documents, got %d", len(docs))
	}
	if docs[0].Letter != "D" || docs[0].SeriesFolder != "Dark (2017)" {
		t.Fatalf("unexpected first document %+v", docs[0])
	}
	if n, err := docs[2].Number(); err != nil || n != 12 {
		t.Fatalf("expected number 12, got %d err=%v", n, err)
	}

	want := filepath.Join(root, "E", "The Expanse (2015)", "12")
	if got := layout.BlueprintDir(root, "The Expanse (2015)", "The Expanse (2015)", 12); got != want {
		t.Fatalf("BlueprintDir = %q, want %q", got, want)
	}
	if docs[2].Dir() != want {
		t.Fatalf("Dir = %q, want %q", docs[2].Dir(), want)
	}
}

func TestParseNumber(t *testing.T) {
	for _, ok := range []string{"0", "7", "10"} {
		if _, err := layout.ParseNumber(ok); err != nil {
			t.Fatalf("ParseNumber(%q) failed: %v", ok, err)
		}
	}
	for _, bad := range []string{"01", "-1", "a", "", "1.0"} {
		if _, err := layout.ParseNumber(bad); err == nil {
			t.Fatalf("ParseNumber(%q) should fail", bad)
		}
	}
}

func TestListFiles(t *testing.T) {
	dir := testsupport.WriteDocument(t, t.TempDir(), "A", "Andor (2022)", 0, "{}", "b.ttf", "a.jpg")
	if err := os.Mkdir(filepath.Join(dir, "nested"), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	files, err := layout.ListFiles(dir)
	if err != nil {
		t.Fatalf("ListFiles: %v", err)
	}
	if want := []string{"a.jpg", "b.ttf", "blueprint.json"}; !reflect.DeepEqual(files, want) {
		t.Fatalf("ListFiles = %v, want %v", files, want)
	}
}

func TestResolveBlueprintPath(t *testing.T) {
	root := t.TempDir()
	dir := testsupport.WriteDocument(t, root, "A", "Andor (2022)", 4, "{}")

	for _, input := range []string{dir, filepath.Join(dir, "blueprint.json")} {
		folder, number, err := layout.ResolveBlueprintPath(root, input)
		if err != nil {
			t.Fatalf("ResolveBlueprintPath(%q): %v", input, err)
		}
		if folder != "Andor (2022)" || number != 4 {
			t.Fatalf("unexpected resolution %q/%d", folder, number)
		}
	}

	if _, _, err := layout.ResolveBlueprintPath(root, filepath.Join(root, "A", "Andor (2022)")); err == nil {
		t.Fatal("expected series folder to be rejected")
	}
	if _, _, err := layout.ResolveBlueprintPath(root, filepath.Join(root, "A", "Andor (2022)", "9")); err == nil {
		t.Fatal("expected missing blueprint to be rejected")
	}
	if _, _, err := layout.ResolveBlueprintPath(root, t.TempDir()); err == nil {
		t.Fatal("expected path outside root to be rejected")
	}
}

func TestCheckTree(t *testing.T) {
	root := t.TempDir()
	testsupport.WriteDocument(t, root, "E", "The Expanse (2015)", 0, "{}")
	testsupport.WriteFile(t, filepath.Join(root, "E", "The Expanse (2015)", "README.md"), "ok")

	violations, err := layout.CheckTree(root)
	if err != nil {
		t.Fatalf("CheckTree: %v", err)
	}
	if len(violations) != 0 {
		t.Fatalf("expected clean tree, got %v", violations)
	}

	testsupport.WriteDocument(t, root, "x", "Xena (1995)", 0, "{}")
	testsupport.WriteDocument(t, root, "T", "The Bear (2022)", 0, "{}")
	testsupport.WriteDocument(t, root, "B", "Bad Name", 0, "{}")
	testsupport.WriteDocument(t, root, "E", "The Expanse (2015)", 1, "{}")
	testsupport.WriteFile(t, filepath.Join(root, "E", "The Expanse (2015)", "01", "blueprint.json"), "{}")
	testsupport.WriteFile(t, filepath.Join(root, "E", "The Expanse (2015)", "notes.txt"), "stray")
	if err := os.MkdirAll(filepath.Join(root, "E", "The Expanse (2015)", "2"), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	violations, err = layout.CheckTree(root)
	if err != nil {
		t.Fatalf("CheckTree: %v", err)
	}
	var got []string
	for _, v := range violations {
		got = append(got, v.Rule+" "+v.Path)
	}
	sort.Strings(got)
	want := []string{
		"blueprint-folder E/The Expanse (2015)/01",
		"bucket-folder x",
		"missing-document E/The Expanse (2015)/2",
		"series-folder B/Bad Name",
		"series-folder T/The Bear (2022)",
		"series-folder x/Xena (1995)",
		"stray-file E/The Expanse (2015)/notes.txt",
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("unexpected violations:\n got %s\nwant %s", strings.Join(got, "\n     "), strings.Join(want, "\n     "))
	}
}

func TestLintIsIdempotent(t *testing.T) {
	root := t.TempDir()
	messy := testsupport.WriteDocument(t, root, "A", "Andor (2022)", 0, `{"series": {},   "creator":"x"}`)
	testsupport.WriteDocument(t, root, "A", "Andor (2022)", 1, `{"broken":`)

	report, err := layout.Lint(root, logging.NewNop())
	if err != nil {
		t.Fatalf("Lint: %v", err)
	}
	if len(report.Rewritten) != 1 || len(report.Skipped) != 1 {
		t.Fatalf("unexpected report %+v", report)
	}
	content, err := os.ReadFile(filepath.Join(messy, "blueprint.json"))
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if want := "{\n  \"series\": {},\n  \"creator\": \"x\"\n}\n"; string(content) != want {
		t.Fatalf("unexpected formatting %q", content)
	}

	report, err = layout.Lint(root, logging.NewNop())
	if err != nil {
		t.Fatalf("second Lint: %v", err)
	}
	if len(report.Rewritten) != 0 || len(report.Unchanged) != 1 {
		t.Fatalf("expected second pass to change nothing, got %+v", report)
	}
}
