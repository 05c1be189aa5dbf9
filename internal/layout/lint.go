package layout

import (
	"bytes"
	"fmt"
	"log/slog"
	"os"

	"blueprints/internal/blueprint"
	"blueprints/internal/logging"
)

// LintReport lists what Lint did with each document.
type LintReport struct {
	Rewritten []string `json:"rewritten"`
	Unchanged []string `json:"unchanged"`
	Skipped   []string `json:"skipped"`
}

// Lint rewrites every document under root with two-space indentation.
// Documents that are not valid JSON are left alone and reported as skipped.
func Lint(root string, logger *slog.Logger) (LintReport, error) {
	logger = logging.NewComponentLogger(logger, "lint")
	docs, err := Documents(root)
	if err != nil {
		return LintReport{}, err
	}
	var report LintReport
	for _, doc := range docs {
		raw, err := os.ReadFile(doc.Path)
		if err != nil {
			return report, fmt.Errorf("read %s: %w", doc.Path, err)
		}
		formatted, err := blueprint.Indent(raw)
		if err != nil {
			logger.Warn("skipping unparseable blueprint", logging.String(logging.FieldPath, doc.Path), logging.Error(err))
			report.Skipped = append(report.Skipped, doc.Path)
			continue
		}
		if bytes.Equal(raw, formatted) {
			report.Unchanged = append(report.Unchanged, doc.Path)
			continue
		}
		if err := writeFileAtomic(doc.Path, formatted); err != nil {
			return report, err
		}
		logger.Info("reformatted blueprint", logging.String(logging.FieldPath, doc.Path))
		report.Rewritten = append(report.Rewritten, doc.Path)
	}
	return report, nil
}

// WriteDocument writes raw to path in its on-disk form.
func WriteDocument(path string, raw []byte) error {
	formatted, err := blueprint.Indent(raw)
	if err != nil {
		return fmt.Errorf("format blueprint document: %w", err)
	}
	return writeFileAtomic(path, formatted)
}

func writeFileAtomic(path string, data []byte) error {
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("replace %s: %w", path, err)
	}
	return nil
}
