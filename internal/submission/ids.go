package submission

import (
	"sort"
	"strconv"
	"strings"
)

// IDs maps an identifier system (imdb, tmdb, tvdb, ...) to its value. Values
// made only of digits are int64, everything else is a string.
type IDs map[string]any

// Systems returns the identifier systems in sorted order.
func (ids IDs) Systems() []string {
	out := make([]string, 0, len(ids))
	for system := range ids {
		out = append(out, system)
	}
	sort.Strings(out)
	return out
}

// ParseDatabaseIDs parses a comma-separated list of system:value tokens.
// Tokens that do not split into exactly two parts are returned in skipped
// and otherwise ignored.
func ParseDatabaseIDs(raw string) (ids IDs, skipped []string) {
	ids = IDs{}
	raw = strings.TrimSpace(raw)
	if raw == "" || strings.Contains(raw, NoResponse) {
		return ids, nil
	}
	for _, token := range strings.Split(raw, ",") {
		parts := strings.Split(strings.TrimSpace(token), ":")
		if len(parts) != 2 {
			skipped = append(skipped, token)
			continue
		}
		system := strings.ToLower(strings.TrimSpace(parts[0]))
		value := strings.TrimSpace(parts[1])
		if system == "" || value == "" {
			skipped = append(skipped, token)
			continue
		}
		if n, ok := digits(value); ok {
			ids[system] = n
			continue
		}
		ids[system] = value
	}
	return ids, skipped
}

// digits parses value as an int64 when it is made only of ASCII digits and
// fits; values that overflow stay strings.
func digits(value string) (int64, bool) {
	if value == "" || strings.TrimLeft(value, "0123456789") != "" {
		return 0, false
	}
	n, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}
