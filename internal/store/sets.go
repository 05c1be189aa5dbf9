package store

import (
	"context"
	"fmt"
)

// InsertSet stores set and its memberships and fills in its id. The set is
// re-checked with NewSet first.
func (t *Tx) InsertSet(ctx context.Context, set *Set) error {
	checked, err := NewSet(set.Name, set.BlueprintIDs)
	if err != nil {
		return err
	}
	ctx = ensureContext(ctx)
	res, err := t.tx.ExecContext(ctx, "INSERT INTO sets (name) VALUES (?)", checked.Name)
	if err != nil {
		return fmt.Errorf("insert set %q: %w", checked.Name, err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("insert set id: %w", err)
	}
	for _, blueprintID := range checked.BlueprintIDs {
		if _, err := t.tx.ExecContext(ctx,
			"INSERT INTO blueprint_sets (blueprint_id, set_id) VALUES (?, ?)", blueprintID, id,
		); err != nil {
			return fmt.Errorf("add blueprint %d to set %q: %w", blueprintID, checked.Name, err)
		}
	}
	set.ID = id
	set.Name = checked.Name
	set.BlueprintIDs = checked.BlueprintIDs
	return nil
}

// ListSets returns every set with its members, ordered by id.
func (t *Tx) ListSets(ctx context.Context) ([]*Set, error) {
	ctx = ensureContext(ctx)
	rows, err := t.tx.QueryContext(ctx, "SELECT id, name FROM sets ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("list sets: %w", err)
	}
	var sets []*Set
	for rows.Next() {
		var set Set
		if err := rows.Scan(&set.ID, &set.Name); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan set: %w", err)
		}
		sets = append(sets, &set)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, err
	}
	rows.Close()

	for _, set := range sets {
		members, err := t.SetMembers(ctx, set.ID)
		if err != nil {
			return nil, err
		}
		set.BlueprintIDs = members
	}
	return sets, nil
}

// SetMembers returns the blueprint ids in a set.
func (t *Tx) SetMembers(ctx context.Context, setID int64) ([]int64, error) {
	return t.int64s(ensureContext(ctx),
		"SELECT blueprint_id FROM blueprint_sets WHERE set_id = ? ORDER BY blueprint_id", setID)
}

func (t *Tx) setsOf(ctx context.Context, blueprintID int64) ([]int64, error) {
	return t.int64s(ctx, "SELECT set_id FROM blueprint_sets WHERE blueprint_id = ? ORDER BY set_id", blueprintID)
}

func (t *Tx) deleteSet(ctx context.Context, setID int64) error {
	if _, err := t.tx.ExecContext(ctx, "DELETE FROM blueprint_sets WHERE set_id = ?", setID); err != nil {
		return fmt.Errorf("delete set %d memberships: %w", setID, err)
	}
	if _, err := t.tx.ExecContext(ctx, "DELETE FROM sets WHERE id = ?", setID); err != nil {
		return fmt.Errorf("delete set %d: %w", setID, err)
	}
	return nil
}

func (t *Tx) int64s(ctx context.Context, query string, args ...any) ([]int64, error) {
	rows, err := t.tx.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query ids: %w", err)
	}
	defer rows.Close()
	var out []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan id: %w", err)
		}
		out = append(out, id)
	}
	return out, rows.Err()
}
