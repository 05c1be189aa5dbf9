package preflight

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/sys/unix"

	"blueprints/internal/blueprint"
	"blueprints/internal/layout"
	"blueprints/internal/store"
)

// RuleSet marks a stored set that no longer satisfies the set invariants.
const RuleSet = "set"

// CheckDirectoryAccess verifies that the directory exists and is readable/writable.
func CheckDirectoryAccess(name, path string) Result {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: does not exist)", path)}
		}
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: stat: %v)", path, err)}
	}
	if !info.IsDir() {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: is not a directory)", path)}
	}
	if err := unix.Access(path, unix.R_OK|unix.W_OK|unix.X_OK); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: insufficient permissions: %v)", path, err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (read/write ok)", path)}
}

// CheckTree verifies the directory layout under root.
func CheckTree(root string) Result {
	const name = "Directory layout"

	violations, err := layout.CheckTree(root)
	if err != nil {
		return Result{Name: name, Detail: err.Error()}
	}
	return summarize(name, violations, "layout ok")
}

// CheckDocuments validates every blueprint.json under root, including its
// file references against the folder listing.
func CheckDocuments(root string) Result {
	const name = "Blueprint documents"

	docs, err := layout.Documents(root)
	if err != nil {
		return Result{Name: name, Detail: err.Error()}
	}
	var violations []blueprint.Violation
	for _, doc := range docs {
		rel, err := filepath.Rel(root, doc.Path)
		if err != nil {
			rel = doc.Path
		}
		rel = filepath.ToSlash(rel)

		found, err := validateDocument(doc)
		if err != nil {
			return Result{Name: name, Detail: err.Error()}
		}
		for _, v := range found {
			v.Path = locate(rel, v.Path)
			violations = append(violations, v)
		}
	}
	return summarize(name, violations, fmt.Sprintf("%d documents valid", len(docs)))
}

func validateDocument(doc layout.Document) ([]blueprint.Violation, error) {
	raw, err := os.ReadFile(doc.Path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", doc.Path, err)
	}
	parsed, result := blueprint.ValidateRaw(raw)
	if parsed != nil {
		files, err := layout.ListFiles(doc.Dir())
		if err != nil {
			return nil, err
		}
		result = result.Merge(blueprint.CheckFiles(parsed, files))
	}
	return result.Violations, nil
}

func locate(document, field string) string {
	if field == "" {
		return document
	}
	return document + ":" + field
}

// CheckSets verifies that every stored set still has a valid name and at
// least two blueprints.
func CheckSets(ctx context.Context, st *store.Store) Result {
	const name = "Blueprint sets"

	var sets []*store.Set
	err := st.View(ctx, func(tx *store.Tx) error {
		var err error
		sets, err = tx.ListSets(ctx)
		return err
	})
	if err != nil {
		return Result{Name: name, Detail: err.Error()}
	}
	var violations []blueprint.Violation
	for _, set := range sets {
		if _, err := store.NewSet(set.Name, set.BlueprintIDs); err != nil {
			violations = append(violations, blueprint.Violation{
				Path:    fmt.Sprintf("sets[%d]", set.ID),
				Rule:    RuleSet,
				Message: fmt.Sprintf("%q: %v", set.Name, err),
			})
		}
	}
	return summarize(name, violations, fmt.Sprintf("%d sets valid", len(sets)))
}

func summarize(name string, violations []blueprint.Violation, ok string) Result {
	if len(violations) == 0 {
		return Result{Name: name, Passed: true, Detail: ok}
	}
	return Result{
		Name:       name,
		Detail:     fmt.Sprintf("%d problem(s)", len(violations)),
		Violations: violations,
	}
}
