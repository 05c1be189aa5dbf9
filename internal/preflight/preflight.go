package preflight

import (
	"context"
	"path/filepath"

	"blueprints/internal/blueprint"
	"blueprints/internal/config"
	"blueprints/internal/store"
)

// Result reports the outcome of a single check.
type Result struct {
	Name       string                `json:"name"`
	Passed     bool                  `json:"passed"`
	Detail     string                `json:"detail"`
	Violations []blueprint.Violation `json:"violations,omitempty"`
}

// RunAll executes every check for the given config. The set check is skipped
// when st is nil. Later tree checks are skipped when the root is unusable.
func RunAll(ctx context.Context, cfg *config.Config, st *store.Store) []Result {
	if cfg == nil {
		return nil
	}

	root := cfg.Paths.BlueprintDir
	results := []Result{
		CheckDirectoryAccess("Blueprint directory", root),
		CheckDirectoryAccess("Database directory", filepath.Dir(cfg.Paths.DatabasePath)),
	}
	if results[0].Passed {
		results = append(results, CheckTree(root), CheckDocuments(root))
	}
	if st != nil {
		results = append(results, CheckSets(ctx, st))
	}
	return results
}

// Failed reports whether any result did not pass.
func Failed(results []Result) bool {
	for _, r := range results {
		if !r.Passed {
			return true
		}
	}
	return false
}
