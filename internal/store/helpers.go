package store

import (
	"database/sql"
	"fmt"
	"time"
)

// TimeLayout is how blueprint creation times are stored.
const TimeLayout = "2006-01-02T15:04:05"

type scanner interface{ Scan(dest ...any) error }

const seriesColumns = "id, name, year, path_name, imdb_id, tmdb_id, tvdb_id, next_number"

func scanSeries(row scanner) (*Series, error) {
	var (
		s    Series
		imdb sql.NullString
		tmdb sql.NullInt64
		tvdb sql.NullInt64
	)
	if err := row.Scan(&s.ID, &s.Name, &s.Year, &s.PathName, &imdb, &tmdb, &tvdb, &s.NextNumber); err != nil {
		return nil, err
	}
	s.IDs = SeriesIDs{IMDb: imdb.String, TMDb: tmdb.Int64, TVDb: tvdb.Int64}
	return &s, nil
}

const blueprintColumns = "id, series_id, blueprint_number, creator, created, json"

func scanBlueprint(row scanner) (*Blueprint, error) {
	var (
		bp      Blueprint
		created string
	)
	if err := row.Scan(&bp.ID, &bp.SeriesID, &bp.Number, &bp.Creator, &created, &bp.JSON); err != nil {
		return nil, err
	}
	ts, err := parseTime(created)
	if err != nil {
		return nil, fmt.Errorf("blueprint %d: %w", bp.ID, err)
	}
	bp.Created = ts
	return &bp, nil
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		t = time.Now()
	}
	return t.Format(TimeLayout)
}

func parseTime(raw string) (time.Time, error) {
	ts, err := time.Parse(TimeLayout, raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse created %q: %w", raw, err)
	}
	return ts, nil
}

func nullString(value string) sql.NullString {
	return sql.NullString{String: value, Valid: value != ""}
}

func nullInt(value int64) sql.NullInt64 {
	return sql.NullInt64{Int64: value, Valid: value != 0}
}
