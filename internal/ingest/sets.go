package ingest

import (
	"context"
	"fmt"

	"blueprints/internal/layout"
	"blueprints/internal/store"
)

// CreateSet groups the blueprints stored in the given folders under name.
// Each path is a blueprint folder (or its blueprint.json) inside root.
func CreateSet(ctx context.Context, st *store.Store, root, name string, paths []string) (*store.Set, error) {
	type ref struct {
		seriesFolder string
		number       int
	}
	refs := make([]ref, 0, len(paths))
	for _, path := range paths {
		folder, number, err := layout.ResolveBlueprintPath(root, path)
		if err != nil {
			return nil, err
		}
		refs = append(refs, ref{seriesFolder: folder, number: number})
	}

	var set store.Set
	err := st.Update(ctx, func(tx *store.Tx) error {
		ids := make([]int64, 0, len(refs))
		for _, r := range refs {
			series, err := tx.FindSeriesByPathName(ctx, r.seriesFolder)
			if err != nil {
				return fmt.Errorf("set member %s/%d: %w", r.seriesFolder, r.number, err)
			}
			bp, err := tx.FindBlueprint(ctx, series.ID, r.number)
			if err != nil {
				return fmt.Errorf("set member %s/%d: %w", r.seriesFolder, r.number, err)
			}
			ids = append(ids, bp.ID)
		}
		checked, err := store.NewSet(name, ids)
		if err != nil {
			return err
		}
		set = checked
		return tx.InsertSet(ctx, &set)
	})
	if err != nil {
		return nil, err
	}
	return &set, nil
}
