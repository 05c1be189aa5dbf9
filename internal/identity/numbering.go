package identity

import (
	"context"
	"fmt"

	"blueprints/internal/store"
)

// NextNumber returns the number the next blueprint of a series receives: one
// past the highest stored number, or 0 for a series without blueprints. A
// number that was handed out before is never returned again, even when its
// blueprint has since been deleted.
func NextNumber(ctx context.Context, tx *store.Tx, seriesID int64) (int, error) {
	highest, ok, err := tx.MaxBlueprintNumber(ctx, seriesID)
	if err != nil {
		return 0, err
	}
	next := 0
	if ok {
		next = highest + 1
	}
	series, err := tx.GetSeries(ctx, seriesID)
	if err != nil {
		return 0, fmt.Errorf("next blueprint number: %w", err)
	}
	if series.NextNumber > next {
		next = series.NextNumber
	}
	return next, nil
}
