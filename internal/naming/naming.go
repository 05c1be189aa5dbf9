// Package naming derives filesystem-safe folder names for series.
package naming

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// pathSafeReplacer substitutes characters that are illegal in paths on at
// least one supported platform.
var pathSafeReplacer = strings.NewReplacer(
	"?", "!",
	"<", "",
	">", "",
	":", " -",
	"\"", "",
	"|", "",
	"*", "-",
	"/", "+",
	"\\", "+",
)

var (
	articlePrefix = regexp.MustCompile(`(?i)^(a|an|the)\s`)
	seriesFolder  = regexp.MustCompile(`^(.+) \((\d{4})\)$`)
	upper         = cases.Upper(language.Und)
)

// CleanName returns name with illegal path characters substituted.
func CleanName(name string) string {
	return pathSafeReplacer.Replace(name)
}

// Folders returns the bucket letter and the path-safe folder name for a
// series display string such as "The Expanse (2015)". The bucket is the
// upper-cased first character of the clean name after a leading article has
// been dropped; the clean name itself keeps the article.
func Folders(display string) (letter, clean string) {
	clean = CleanName(display)
	sortName := articlePrefix.ReplaceAllString(clean, "")
	first, size := utf8.DecodeRuneInString(sortName)
	if size == 0 {
		return "", clean
	}
	return upper.String(string(first)), clean
}

// Display formats a series the way folder names and logs show it.
func Display(name string, year int) string {
	return fmt.Sprintf("%s (%d)", name, year)
}

// SplitSeriesFolder parses a "Name (YYYY)" folder name.
func SplitSeriesFolder(folder string) (name string, year int, ok bool) {
	m := seriesFolder.FindStringSubmatch(folder)
	if m == nil {
		return "", 0, false
	}
	year, err := strconv.Atoi(m[2])
	if err != nil {
		return "", 0, false
	}
	return m[1], year, true
}
