package fetch

import (
	"archive/zip"
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"blueprints/internal/blueprint"
)

// SkippedEntry is an archive entry that was not extracted.
type SkippedEntry struct {
	Name   string
	Reason string
}

// ExtractZip writes the top-level files of a zip archive into dir. Entries
// inside folders, hidden files, the document name and names already present
// in dir are not extracted and are returned in skipped. The combined
// uncompressed size may not exceed maxBytes.
func ExtractZip(data []byte, dir string, maxBytes int64) (extracted []string, skipped []SkippedEntry, err error) {
	reader, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, nil, fmt.Errorf("open zip: %w", err)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, nil, fmt.Errorf("ensure extract directory: %w", err)
	}

	var total int64
	for _, file := range reader.File {
		if file.FileInfo().IsDir() {
			continue
		}
		name := file.Name
		switch {
		case strings.ContainsAny(name, `/\`):
			skipped = append(skipped, SkippedEntry{Name: name, Reason: "nested"})
			continue
		case strings.HasPrefix(name, "."):
			skipped = append(skipped, SkippedEntry{Name: name, Reason: "hidden"})
			continue
		case strings.EqualFold(name, blueprint.DocumentFile):
			skipped = append(skipped, SkippedEntry{Name: name, Reason: "reserved"})
			continue
		}
		written, err := extractFile(file, filepath.Join(dir, name), maxBytes-total)
		if errors.Is(err, os.ErrExist) {
			skipped = append(skipped, SkippedEntry{Name: name, Reason: "exists"})
			continue
		}
		if err != nil {
			return nil, nil, err
		}
		total += written
		extracted = append(extracted, name)
	}
	sort.Strings(extracted)
	return extracted, skipped, nil
}

func extractFile(file *zip.File, dest string, budget int64) (int64, error) {
	if budget <= 0 {
		return 0, fmt.Errorf("extract %s: archive %w", file.Name, ErrTooLarge)
	}
	src, err := file.Open()
	if err != nil {
		return 0, fmt.Errorf("open %s: %w", file.Name, err)
	}
	defer src.Close()

	out, err := os.OpenFile(dest, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return 0, fmt.Errorf("create %s: %w", dest, err)
	}
	written, copyErr := io.Copy(out, io.LimitReader(src, budget+1))
	closeErr := out.Close()
	if copyErr != nil {
		return written, fmt.Errorf("extract %s: %w", file.Name, copyErr)
	}
	if closeErr != nil {
		return written, fmt.Errorf("close %s: %w", dest, closeErr)
	}
	if written > budget {
		return written, fmt.Errorf("extract %s: archive %w", file.Name, ErrTooLarge)
	}
	return written, nil
}
