package layout

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode"
	"unicode/utf8"

	"blueprints/internal/blueprint"
	"blueprints/internal/naming"
)

// Tree rules reported by CheckTree.
const (
	RuleBucket          = "bucket-folder"
	RuleSeriesFolder    = "series-folder"
	RuleBlueprintFolder = "blueprint-folder"
	RuleStrayFile       = "stray-file"
	RuleMissingDocument = "missing-document"
)

// CheckTree verifies the directory invariants of the tree under root. Paths
// in the returned violations are relative to root.
func CheckTree(root string) ([]blueprint.Violation, error) {
	buckets, err := os.ReadDir(root)
	if err != nil {
		return nil, fmt.Errorf("read blueprint root: %w", err)
	}
	var out []blueprint.Violation
	add := func(path, rule, format string, args ...any) {
		out = append(out, blueprint.Violation{Path: filepath.ToSlash(path), Rule: rule, Message: fmt.Sprintf(format, args...)})
	}

	for _, bucket := range buckets {
		if hidden(bucket.Name()) {
			continue
		}
		if !bucket.IsDir() {
			add(bucket.Name(), RuleStrayFile, "files are not allowed at the top of the tree")
			continue
		}
		if !validBucket(bucket.Name()) {
			add(bucket.Name(), RuleBucket, "bucket folders must be a single upper-case character")
		}
		seriesEntries, err := os.ReadDir(filepath.Join(root, bucket.Name()))
		if err != nil {
			return nil, fmt.Errorf("read bucket %s: %w", bucket.Name(), err)
		}
		for _, series := range seriesEntries {
			rel := filepath.Join(bucket.Name(), series.Name())
			if hidden(series.Name()) {
				continue
			}
			if !series.IsDir() {
				add(rel, RuleStrayFile, "files are not allowed inside a bucket folder")
				continue
			}
			if _, _, ok := naming.SplitSeriesFolder(series.Name()); !ok {
				add(rel, RuleSeriesFolder, "series folders must be named \"Name (YYYY)\"")
			}
			if clean := naming.CleanName(series.Name()); clean != series.Name() {
				add(rel, RuleSeriesFolder, "folder name contains characters that are not path safe; expected %q", clean)
			}
			if letter, _ := naming.Folders(series.Name()); letter != bucket.Name() {
				add(rel, RuleSeriesFolder, "series belongs in bucket %q", letter)
			}
			problems, err := checkSeries(root, rel)
			if err != nil {
				return nil, err
			}
			out = append(out, problems...)
		}
	}
	return out, nil
}

func checkSeries(root, seriesRel string) ([]blueprint.Violation, error) {
	entries, err := os.ReadDir(filepath.Join(root, seriesRel))
	if err != nil {
		return nil, fmt.Errorf("read series folder %s: %w", seriesRel, err)
	}
	var out []blueprint.Violation
	for _, entry := range entries {
		rel := filepath.ToSlash(filepath.Join(seriesRel, entry.Name()))
		if !entry.IsDir() {
			if entry.Name() != SeriesReadme {
				out = append(out, blueprint.Violation{Path: rel, Rule: RuleStrayFile, Message: "only " + SeriesReadme + " may sit next to blueprint folders"})
			}
			continue
		}
		if _, err := ParseNumber(entry.Name()); err != nil {
			out = append(out, blueprint.Violation{Path: rel, Rule: RuleBlueprintFolder, Message: "blueprint folders must be named by a number without zero padding"})
			continue
		}
		doc := filepath.Join(root, seriesRel, entry.Name(), blueprint.DocumentFile)
		if info, err := os.Stat(doc); err != nil || !info.Mode().IsRegular() {
			out = append(out, blueprint.Violation{Path: rel, Rule: RuleMissingDocument, Message: "blueprint folder has no " + blueprint.DocumentFile})
		}
	}
	return out, nil
}

func validBucket(name string) bool {
	r, size := utf8.DecodeRuneInString(name)
	if size == 0 || size != len(name) {
		return false
	}
	return !unicode.IsLower(r) && !unicode.IsSpace(r)
}

func hidden(name string) bool {
	return strings.HasPrefix(name, ".")
}
