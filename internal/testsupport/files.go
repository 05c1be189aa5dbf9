package testsupport

import (
	"os"
	"path/filepath"
	"strconv"
	"testing"
)

// MinimalDocument is a valid blueprint with one preview and no fonts.
const MinimalDocument = `{
  "series": {},
  "creator": "someone",
  "previews": ["preview.jpg"],
  "description": ["A test blueprint."],
  "created": "2024-01-02T03:04:05"
}
`

// WriteFile writes content to path, creating parent directories.
func WriteFile(t testing.TB, path, content string) {
	t.Helper()

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

// WriteDocument writes a blueprint folder root/letter/series/number holding
// document and the named extra files, and returns the folder.
func WriteDocument(t testing.TB, root, letter, series string, number int, document string, files ...string) string {
	t.Helper()

	dir := filepath.Join(root, letter, series, strconv.Itoa(number))
	WriteFile(t, filepath.Join(dir, "blueprint.json"), document)
	for _, name := range files {
		WriteFile(t, filepath.Join(dir, name), name)
	}
	return dir
}
