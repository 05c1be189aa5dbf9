package testsupport

import (
	"context"
	"testing"
	"time"

	"blueprints/internal/config"
	"blueprints/internal/store"
)

// MustOpenStore opens the store named by cfg and registers cleanup.
func MustOpenStore(t testing.TB, cfg *config.Config) *store.Store {
	t.Helper()

	st, err := store.Open(cfg.Paths.DatabasePath)
	if err != nil {
		t.Fatalf("store.Open: %v", err)
	}
	t.Cleanup(func() {
		st.Close()
	})
	return st
}

// SeedSeries inserts a series and commits.
func SeedSeries(t testing.TB, st *store.Store, series store.Series) *store.Series {
	t.Helper()

	if err := st.Update(context.Background(), func(tx *store.Tx) error {
		return tx.InsertSeries(context.Background(), &series)
	}); err != nil {
		t.Fatalf("insert series: %v", err)
	}
	return &series
}

// SeedBlueprint inserts a blueprint for seriesID and commits.
func SeedBlueprint(t testing.TB, st *store.Store, seriesID int64, number int, creator, body string) *store.Blueprint {
	t.Helper()

	bp := &store.Blueprint{
		SeriesID: seriesID,
		Number:   number,
		Creator:  creator,
		Created:  time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC),
		JSON:     body,
	}
	if err := st.Update(context.Background(), func(tx *store.Tx) error {
		return tx.InsertBlueprint(context.Background(), bp)
	}); err != nil {
		t.Fatalf("insert blueprint: %v", err)
	}
	return bp
}
