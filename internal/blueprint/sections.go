package blueprint

import (
	"fmt"
	"sort"
)

type sectionKind uint8

const (
	seriesKind sectionKind = iota
	episodeKind
	templateKind
	fontKind
)

// section is one node of the flattened document: the references it makes and
// the paired lists it owns.
type section struct {
	kind      sectionKind
	path      string
	templates []int
	fonts     []int
	pairs     []pairedList
}

type pairedList struct {
	left, right       string
	leftLen, rightLen int
}

func basePairs(b SeriesBase) []pairedList {
	return []pairedList{
		{"season_title_ranges", "season_title_values", len(b.SeasonTitleRanges), len(b.SeasonTitleValues)},
		{"extra_keys", "extra_values", len(b.ExtraKeys), len(b.ExtraValues)},
	}
}

func fontRef(id *int) []int {
	if id == nil {
		return nil
	}
	return []int{*id}
}

func seriesSectionOf(s *SeriesSection) section {
	return section{
		kind:      seriesKind,
		path:      "series",
		templates: s.TemplateIDs,
		fonts:     fontRef(s.FontID),
		pairs:     basePairs(s.SeriesBase),
	}
}

func episodeSectionOf(key string, e *EpisodeSection) section {
	return section{
		kind:      episodeKind,
		path:      fmt.Sprintf("episodes[%s]", key),
		templates: e.TemplateIDs,
		fonts:     fontRef(e.FontID),
		pairs:     basePairs(e.SeriesBase),
	}
}

func templateSectionOf(index int, t *TemplateSection) section {
	return section{
		kind:  templateKind,
		path:  fmt.Sprintf("templates[%d]", index),
		fonts: fontRef(t.FontID),
		pairs: basePairs(t.SeriesBase),
	}
}

func fontSectionOf(index int, f *Font) section {
	return section{
		kind:  fontKind,
		path:  fmt.Sprintf("fonts[%d]", index),
		pairs: []pairedList{{"replacements_in", "replacements_out", len(f.ReplacementsIn), len(f.ReplacementsOut)}},
	}
}

// walk flattens doc in a stable order: series, episodes by key, templates,
// fonts.
func walk(doc *Document) []section {
	out := make([]section, 0, 1+len(doc.Episodes)+len(doc.Templates)+len(doc.Fonts))
	out = append(out, seriesSectionOf(doc.Series))

	keys := make([]string, 0, len(doc.Episodes))
	for key := range doc.Episodes {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		if episode := doc.Episodes[key]; episode != nil {
			out = append(out, episodeSectionOf(key, episode))
		}
	}
	for i := range doc.Templates {
		out = append(out, templateSectionOf(i, &doc.Templates[i]))
	}
	for i := range doc.Fonts {
		out = append(out, fontSectionOf(i, &doc.Fonts[i]))
	}
	return out
}

// coverage describes an index space: declared entries [0, declared) must
// each be referenced and every reference must fall inside.
type coverage struct {
	rule       string
	collection string
	field      string
	declared   int
	refs       func(section) []int
}

func templateCoverage(declared int) coverage {
	return coverage{
		rule:       RuleTemplateCoverage,
		collection: "templates",
		field:      "template_ids",
		declared:   declared,
		refs:       func(s section) []int { return s.templates },
	}
}

func fontCoverage(declared int) coverage {
	return coverage{
		rule:       RuleFontCoverage,
		collection: "fonts",
		field:      "font_id",
		declared:   declared,
		refs:       func(s section) []int { return s.fonts },
	}
}

func (c coverage) check(sections []section) []Violation {
	var out []Violation
	used := make(map[int]struct{})
	for _, s := range sections {
		for _, idx := range c.refs(s) {
			if idx < 0 || idx >= c.declared {
				out = append(out, Violation{
					Path:    s.path + "." + c.field,
					Rule:    c.rule,
					Message: fmt.Sprintf("index %d is not defined; %d %s declared", idx, c.declared, c.collection),
				})
				continue
			}
			used[idx] = struct{}{}
		}
	}
	for idx := 0; idx < c.declared; idx++ {
		if _, ok := used[idx]; !ok {
			out = append(out, Violation{
				Path:    fmt.Sprintf("%s[%d]", c.collection, idx),
				Rule:    c.rule,
				Message: fmt.Sprintf("declared but never referenced by any %s", c.field),
			})
		}
	}
	return out
}

func pairedLengths(sections []section) []Violation {
	var out []Violation
	for _, s := range sections {
		for _, p := range s.pairs {
			if p.leftLen == p.rightLen {
				continue
			}
			out = append(out, Violation{
				Path:    s.path + "." + p.left,
				Rule:    RulePairedLength,
				Message: fmt.Sprintf("%s has %d entries but %s has %d", p.left, p.leftLen, p.right, p.rightLen),
			})
		}
	}
	return out
}
