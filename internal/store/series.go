package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
)

// FindSeriesByIDs returns the first series matching any of the set
// identifiers. ErrNotFound is returned when ids is empty or nothing matches.
func (t *Tx) FindSeriesByIDs(ctx context.Context, ids SeriesIDs) (*Series, error) {
	var (
		clauses []string
		args    []any
	)
	if ids.IMDb != "" {
		clauses = append(clauses, "imdb_id = ?")
		args = append(args, ids.IMDb)
	}
	if ids.TMDb != 0 {
		clauses = append(clauses, "tmdb_id = ?")
		args = append(args, ids.TMDb)
	}
	if ids.TVDb != 0 {
		clauses = append(clauses, "tvdb_id = ?")
		args = append(args, ids.TVDb)
	}
	if len(clauses) == 0 {
		return nil, ErrNotFound
	}
	query := "SELECT " + seriesColumns + " FROM series WHERE " + strings.Join(clauses, " OR ") + " ORDER BY id LIMIT 1"
	return t.querySeries(ctx, query, args...)
}

// FindSeriesByNameYear returns the series with exactly this name and year.
func (t *Tx) FindSeriesByNameYear(ctx context.Context, name string, year int) (*Series, error) {
	return t.querySeries(ctx, "SELECT "+seriesColumns+" FROM series WHERE name = ? AND year = ?", name, year)
}

// FindSeriesByPathName returns the series stored under the given folder name.
func (t *Tx) FindSeriesByPathName(ctx context.Context, pathName string) (*Series, error) {
	return t.querySeries(ctx, "SELECT "+seriesColumns+" FROM series WHERE path_name = ? ORDER BY id LIMIT 1", pathName)
}

// GetSeries returns the series with the given id.
func (t *Tx) GetSeries(ctx context.Context, id int64) (*Series, error) {
	return t.querySeries(ctx, "SELECT "+seriesColumns+" FROM series WHERE id = ?", id)
}

func (t *Tx) querySeries(ctx context.Context, query string, args ...any) (*Series, error) {
	series, err := scanSeries(t.tx.QueryRowContext(ensureContext(ctx), query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query series: %w", err)
	}
	return series, nil
}

// InsertSeries stores a new series and fills in its id.
func (t *Tx) InsertSeries(ctx context.Context, series *Series) error {
	if series == nil {
		return errors.New("insert series: nil series")
	}
	res, err := t.tx.ExecContext(ensureContext(ctx),
		`INSERT INTO series (name, year, path_name, imdb_id, tmdb_id, tvdb_id, next_number)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		series.Name, series.Year, series.PathName,
		nullString(series.IDs.IMDb), nullInt(series.IDs.TMDb), nullInt(series.IDs.TVDb),
		series.NextNumber,
	)
	if err != nil {
		return fmt.Errorf("insert series %s: %w", series.Display(), err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("insert series id: %w", err)
	}
	series.ID = id
	return nil
}

// ListSeries returns every series with its blueprint count, ordered by path name.
func (t *Tx) ListSeries(ctx context.Context) ([]SeriesSummary, error) {
	rows, err := t.tx.QueryContext(ensureContext(ctx),
		`SELECT s.id, s.name, s.year, s.path_name, s.imdb_id, s.tmdb_id, s.tvdb_id, s.next_number,
		        COUNT(b.id)
		   FROM series s
		   LEFT JOIN blueprints b ON b.series_id = s.id
		  GROUP BY s.id
		  ORDER BY s.path_name, s.id`)
	if err != nil {
		return nil, fmt.Errorf("list series: %w", err)
	}
	defer rows.Close()

	var out []SeriesSummary
	for rows.Next() {
		var (
			summary SeriesSummary
			imdb    sql.NullString
			tmdb    sql.NullInt64
			tvdb    sql.NullInt64
		)
		s := &summary.Series
		if err := rows.Scan(&s.ID, &s.Name, &s.Year, &s.PathName, &imdb, &tmdb, &tvdb, &s.NextNumber, &summary.Blueprints); err != nil {
			return nil, fmt.Errorf("scan series: %w", err)
		}
		s.IDs = SeriesIDs{IMDb: imdb.String, TMDb: tmdb.Int64, TVDb: tvdb.Int64}
		out = append(out, summary)
	}
	return out, rows.Err()
}
