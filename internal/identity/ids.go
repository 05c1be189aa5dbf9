package identity

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"blueprints/internal/store"
)

// SeriesIDs maps parsed identifier values onto the systems the store knows.
// Entries it cannot use are described in ignored.
func SeriesIDs(raw map[string]any) (ids store.SeriesIDs, ignored []string) {
	systems := make([]string, 0, len(raw))
	for system := range raw {
		systems = append(systems, system)
	}
	sort.Strings(systems)

	for _, system := range systems {
		value := raw[system]
		switch strings.ToLower(system) {
		case "imdb":
			text := strings.TrimSpace(fmt.Sprint(value))
			if text == "" {
				ignored = append(ignored, system+": empty value")
				continue
			}
			ids.IMDb = text
		case "tmdb":
			n, ok := integer(value)
			if !ok {
				ignored = append(ignored, fmt.Sprintf("%s: %v is not an integer", system, value))
				continue
			}
			ids.TMDb = n
		case "tvdb":
			n, ok := integer(value)
			if !ok {
				ignored = append(ignored, fmt.Sprintf("%s: %v is not an integer", system, value))
				continue
			}
			ids.TVDb = n
		default:
			ignored = append(ignored, system+": unknown database")
		}
	}
	return ids, ignored
}

func integer(value any) (int64, bool) {
	switch v := value.(type) {
	case int64:
		return v, v > 0
	case int:
		return int64(v), v > 0
	case string:
		n, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
		return n, err == nil && n > 0
	default:
		return 0, false
	}
}
