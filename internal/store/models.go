package store

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"
)

// Series is one show.
type Series struct {
	ID       int64
	Name     string
	Year     int
	PathName string
	IDs      SeriesIDs
	// NextNumber is the lowest blueprint number never handed out.
	NextNumber int
}

// Display returns "Name (Year)".
func (s Series) Display() string {
	return fmt.Sprintf("%s (%d)", s.Name, s.Year)
}

// SeriesIDs are the external database identifiers of a series. Zero values
// mean unset.
type SeriesIDs struct {
	IMDb string
	TMDb int64
	TVDb int64
}

// Empty reports whether no identifier is set.
func (ids SeriesIDs) Empty() bool {
	return ids.IMDb == "" && ids.TMDb == 0 && ids.TVDb == 0
}

// Blueprint is one accepted submission for a series.
type Blueprint struct {
	ID       int64
	SeriesID int64
	Number   int
	Creator  string
	Created  time.Time
	// JSON is the compact text of the on-disk document.
	JSON string
}

// Set groups blueprints under a name.
type Set struct {
	ID           int64
	Name         string
	BlueprintIDs []int64
}

// NewSet builds a set after checking its invariants. Duplicate ids are
// collapsed before counting.
func NewSet(name string, blueprintIDs []int64) (Set, error) {
	name = strings.TrimSpace(name)
	if utf8.RuneCountInString(name) < 3 {
		return Set{}, ErrSetName
	}
	seen := make(map[int64]struct{}, len(blueprintIDs))
	ids := make([]int64, 0, len(blueprintIDs))
	for _, id := range blueprintIDs {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}
	if len(ids) < 2 {
		return Set{}, ErrSetTooSmall
	}
	return Set{Name: name, BlueprintIDs: ids}, nil
}

// SeriesSummary is a series with its blueprint count.
type SeriesSummary struct {
	Series
	Blueprints int
}
