package layout

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"blueprints/internal/blueprint"
	"blueprints/internal/naming"
)

// SeriesReadme is the only file allowed directly inside a series folder.
const SeriesReadme = "README.md"

var numberFolder = regexp.MustCompile(`^(0|[1-9][0-9]*)$`)

const documentPattern = "*/*/*/" + blueprint.DocumentFile

// Document is one blueprint.json found in the tree.
type Document struct {
	Path         string
	Letter       string
	SeriesFolder string
	NumberFolder string
}

// Number parses the blueprint number from the containing folder.
func (d Document) Number() (int, error) {
	return ParseNumber(d.NumberFolder)
}

// Dir returns the blueprint folder holding the document.
func (d Document) Dir() string {
	return filepath.Dir(d.Path)
}

// ParseNumber parses a blueprint folder name. Zero padding is rejected.
func ParseNumber(folder string) (int, error) {
	if !numberFolder.MatchString(folder) {
		return 0, fmt.Errorf("blueprint folder %q is not a plain decimal number", folder)
	}
	n, err := strconv.Atoi(folder)
	if err != nil {
		return 0, fmt.Errorf("blueprint folder %q: %w", folder, err)
	}
	return n, nil
}

// Documents returns every root/*/*/*/blueprint.json, sorted by path.
func Documents(root string) ([]Document, error) {
	// Matching inside os.DirFS keeps glob metacharacters in root literal.
	matches, err := doublestar.Glob(os.DirFS(root), documentPattern)
	if err != nil {
		return nil, fmt.Errorf("find blueprint documents: %w", err)
	}
	sort.Strings(matches)
	out := make([]Document, 0, len(matches))
	for _, match := range matches {
		path := filepath.Join(root, filepath.FromSlash(match))
		info, err := os.Stat(path)
		if err != nil || !info.Mode().IsRegular() {
			continue
		}
		numberDir := filepath.Dir(path)
		seriesDir := filepath.Dir(numberDir)
		out = append(out, Document{
			Path:         path,
			Letter:       filepath.Base(filepath.Dir(seriesDir)),
			SeriesFolder: filepath.Base(seriesDir),
			NumberFolder: filepath.Base(numberDir),
		})
	}
	return out, nil
}

// SeriesDir returns root/<letter>/<pathName> for the series displayed as
// display ("Name (Year)").
func SeriesDir(root, display, pathName string) string {
	letter, _ := naming.Folders(display)
	return filepath.Join(root, letter, pathName)
}

// BlueprintDir returns the folder of blueprint number in a series.
func BlueprintDir(root, display, pathName string, number int) string {
	return filepath.Join(SeriesDir(root, display, pathName), strconv.Itoa(number))
}

// ListFiles returns the names of the regular files directly inside dir.
func ListFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("list blueprint folder: %w", err)
	}
	var names []string
	for _, entry := range entries {
		if entry.Type().IsRegular() {
			names = append(names, entry.Name())
		}
	}
	sort.Strings(names)
	return names, nil
}

// ResolveBlueprintPath maps a blueprint folder (or its blueprint.json) inside
// root to the series folder name and blueprint number.
func ResolveBlueprintPath(root, path string) (seriesFolder string, number int, err error) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return "", 0, fmt.Errorf("resolve blueprint root: %w", err)
	}
	absPath, err := filepath.Abs(path)
	if err != nil {
		return "", 0, fmt.Errorf("resolve blueprint path: %w", err)
	}
	if filepath.Base(absPath) == blueprint.DocumentFile {
		absPath = filepath.Dir(absPath)
	}
	rel, err := filepath.Rel(absRoot, absPath)
	if err != nil {
		return "", 0, fmt.Errorf("resolve blueprint path: %w", err)
	}
	parts := splitPath(rel)
	if len(parts) != 3 || parts[0] == ".." {
		return "", 0, fmt.Errorf("%s is not a blueprint folder under %s", path, root)
	}
	number, err = ParseNumber(parts[2])
	if err != nil {
		return "", 0, err
	}
	if _, statErr := os.Stat(filepath.Join(absPath, blueprint.DocumentFile)); statErr != nil {
		if errors.Is(statErr, os.ErrNotExist) {
			return "", 0, fmt.Errorf("%s has no %s", path, blueprint.DocumentFile)
		}
		return "", 0, fmt.Errorf("stat blueprint document: %w", statErr)
	}
	return parts[1], number, nil
}

func splitPath(rel string) []string {
	if rel == "." {
		return nil
	}
	return strings.Split(filepath.ToSlash(rel), "/")
}
