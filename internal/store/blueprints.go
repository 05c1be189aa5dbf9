package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// FindBlueprint returns the blueprint with the given number in a series.
func (t *Tx) FindBlueprint(ctx context.Context, seriesID int64, number int) (*Blueprint, error) {
	row := t.tx.QueryRowContext(ensureContext(ctx),
		"SELECT "+blueprintColumns+" FROM blueprints WHERE series_id = ? AND blueprint_number = ?",
		seriesID, number)
	bp, err := scanBlueprint(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query blueprint: %w", err)
	}
	return bp, nil
}

// MaxBlueprintNumber returns the highest stored number for a series. ok is
// false when the series has no blueprints.
func (t *Tx) MaxBlueprintNumber(ctx context.Context, seriesID int64) (number int, ok bool, err error) {
	var highest sql.NullInt64
	if err := t.tx.QueryRowContext(ensureContext(ctx),
		"SELECT MAX(blueprint_number) FROM blueprints WHERE series_id = ?", seriesID,
	).Scan(&highest); err != nil {
		return 0, false, fmt.Errorf("query max blueprint number: %w", err)
	}
	if !highest.Valid {
		return 0, false, nil
	}
	return int(highest.Int64), true, nil
}

// InsertBlueprint stores bp and fills in its id. The series high-water mark
// moves past bp.Number so the number is never handed out again.
func (t *Tx) InsertBlueprint(ctx context.Context, bp *Blueprint) error {
	if bp == nil {
		return errors.New("insert blueprint: nil blueprint")
	}
	if bp.Number < 0 {
		return fmt.Errorf("insert blueprint: negative number %d", bp.Number)
	}
	ctx = ensureContext(ctx)
	if bp.Created.IsZero() {
		bp.Created = time.Now().Truncate(time.Second)
	}
	res, err := t.tx.ExecContext(ctx,
		"INSERT INTO blueprints (series_id, blueprint_number, creator, created, json) VALUES (?, ?, ?, ?, ?)",
		bp.SeriesID, bp.Number, bp.Creator, formatTime(bp.Created), bp.JSON)
	if err != nil {
		return fmt.Errorf("insert blueprint %d/%d: %w", bp.SeriesID, bp.Number, err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("insert blueprint id: %w", err)
	}
	bp.ID = id
	if _, err := t.tx.ExecContext(ctx,
		"UPDATE series SET next_number = MAX(next_number, ?) WHERE id = ?", bp.Number+1, bp.SeriesID,
	); err != nil {
		return fmt.Errorf("advance series number: %w", err)
	}
	return nil
}

// UpdateBlueprint writes the mutable fields of bp.
func (t *Tx) UpdateBlueprint(ctx context.Context, bp *Blueprint) error {
	res, err := t.tx.ExecContext(ensureContext(ctx),
		"UPDATE blueprints SET creator = ?, created = ?, json = ? WHERE id = ?",
		bp.Creator, formatTime(bp.Created), bp.JSON, bp.ID)
	if err != nil {
		return fmt.Errorf("update blueprint %d: %w", bp.ID, err)
	}
	return requireAffected(res, bp.ID)
}

// ListBlueprints returns every blueprint ordered by series and number.
func (t *Tx) ListBlueprints(ctx context.Context) ([]*Blueprint, error) {
	rows, err := t.tx.QueryContext(ensureContext(ctx),
		"SELECT "+blueprintColumns+" FROM blueprints ORDER BY series_id, blueprint_number")
	if err != nil {
		return nil, fmt.Errorf("list blueprints: %w", err)
	}
	defer rows.Close()
	var out []*Blueprint
	for rows.Next() {
		bp, err := scanBlueprint(rows)
		if err != nil {
			return nil, fmt.Errorf("scan blueprint: %w", err)
		}
		out = append(out, bp)
	}
	return out, rows.Err()
}

// DeleteBlueprint removes a blueprint and its set memberships. Sets left
// with fewer than two blueprints are removed too; their count is returned.
func (t *Tx) DeleteBlueprint(ctx context.Context, id int64) (prunedSets int, err error) {
	ctx = ensureContext(ctx)
	setIDs, err := t.setsOf(ctx, id)
	if err != nil {
		return 0, err
	}
	if _, err := t.tx.ExecContext(ctx, "DELETE FROM blueprint_sets WHERE blueprint_id = ?", id); err != nil {
		return 0, fmt.Errorf("delete set memberships of blueprint %d: %w", id, err)
	}
	res, err := t.tx.ExecContext(ctx, "DELETE FROM blueprints WHERE id = ?", id)
	if err != nil {
		return 0, fmt.Errorf("delete blueprint %d: %w", id, err)
	}
	if err := requireAffected(res, id); err != nil {
		return 0, err
	}
	for _, setID := range setIDs {
		var members int
		if err := t.tx.QueryRowContext(ctx, "SELECT COUNT(1) FROM blueprint_sets WHERE set_id = ?", setID).Scan(&members); err != nil {
			return prunedSets, fmt.Errorf("count set %d members: %w", setID, err)
		}
		if members >= 2 {
			continue
		}
		if err := t.deleteSet(ctx, setID); err != nil {
			return prunedSets, err
		}
		prunedSets++
	}
	return prunedSets, nil
}

func requireAffected(res sql.Result, id int64) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("blueprint %d: %w", id, ErrNotFound)
	}
	return nil
}
