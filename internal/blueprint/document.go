package blueprint

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"
)

// DocumentFile is the name of the document inside a blueprint folder.
const DocumentFile = "blueprint.json"

// CreatedLayout is the timestamp format of the created field.
const CreatedLayout = "2006-01-02T15:04:05"

// Translation requests a localized title lookup.
type Translation struct {
	LanguageCode string `json:"language_code" validate:"required"`
	DataKey      string `json:"data_key" validate:"required,data_key"`
}

// Condition is a single template filter.
type Condition struct {
	Argument  string  `json:"argument" validate:"required"`
	Operation string  `json:"operation" validate:"required"`
	Reference *string `json:"reference,omitempty"`
}

// SeriesBase holds the overrides shared by series, episode, and template sections.
type SeriesBase struct {
	FontID              *int          `json:"font_id,omitempty"`
	CardType            *string       `json:"card_type,omitempty" validate:"omitempty,min=1"`
	HideSeasonText      *bool         `json:"hide_season_text,omitempty"`
	HideEpisodeText     *bool         `json:"hide_episode_text,omitempty"`
	EpisodeTextFormat   *string       `json:"episode_text_format,omitempty"`
	Translations        []Translation `json:"translations,omitempty" validate:"omitempty,dive"`
	SeasonTitleRanges   []string      `json:"season_title_ranges,omitempty" validate:"omitempty,dive,season_range"`
	SeasonTitleValues   []string      `json:"season_title_values,omitempty"`
	ExtraKeys           []string      `json:"extra_keys,omitempty" validate:"omitempty,dive,min=1"`
	ExtraValues         []string      `json:"extra_values,omitempty"`
	SkipLocalizedImages *bool         `json:"skip_localized_images,omitempty"`
}

// SeriesSection applies to every episode of the series.
type SeriesSection struct {
	SeriesBase
	TemplateIDs          []int    `json:"template_ids,omitempty" validate:"omitempty,unique"`
	MatchTitles          *bool    `json:"match_titles,omitempty"`
	FontColor            *string  `json:"font_color,omitempty" validate:"omitempty,min=1"`
	FontTitleCase        *string  `json:"font_title_case,omitempty" validate:"omitempty,title_case"`
	FontSize             *float64 `json:"font_size,omitempty" validate:"omitempty,gt=0"`
	FontKerning          *float64 `json:"font_kerning,omitempty"`
	FontStrokeWidth      *float64 `json:"font_stroke_width,omitempty"`
	FontInterlineSpacing *int     `json:"font_interline_spacing,omitempty"`
	FontVerticalShift    *int     `json:"font_vertical_shift,omitempty"`
	SourceFiles          []string `json:"source_files,omitempty" validate:"omitempty,unique,dive,min=3"`
}

// EpisodeSection overrides a single episode.
type EpisodeSection struct {
	SeriesSection
	Title       *string `json:"title,omitempty"`
	MatchTitle  *bool   `json:"match_title,omitempty"`
	SeasonText  *string `json:"season_text,omitempty"`
	EpisodeText *string `json:"episode_text,omitempty"`
}

// TemplateSection is a reusable set of overrides referenced by index.
type TemplateSection struct {
	SeriesBase
	Name    string      `json:"name" validate:"required"`
	Filters []Condition `json:"filters,omitempty" validate:"omitempty,dive"`
}

// Font is a font definition referenced by index.
type Font struct {
	Name             string   `json:"name" validate:"required"`
	Color            *string  `json:"color,omitempty" validate:"omitempty,min=1"`
	DeleteMissing    *bool    `json:"delete_missing,omitempty"`
	File             *string  `json:"file,omitempty" validate:"omitempty,min=3,excluded_with=FileDownloadURL"`
	FileDownloadURL  *string  `json:"file_download_url,omitempty" validate:"omitempty,url"`
	Kerning          *float64 `json:"kerning,omitempty"`
	InterlineSpacing *int     `json:"interline_spacing,omitempty"`
	ReplacementsIn   []string `json:"replacements_in,omitempty" validate:"omitempty,unique,dive,min=1"`
	ReplacementsOut  []string `json:"replacements_out,omitempty"`
	Size             *float64 `json:"size,omitempty" validate:"omitempty,gt=0"`
	StrokeWidth      *float64 `json:"stroke_width,omitempty"`
	TitleCase        *string  `json:"title_case,omitempty" validate:"omitempty,title_case"`
	VerticalShift    *int     `json:"vertical_shift,omitempty"`
}

// Document is a complete blueprint.
type Document struct {
	Series      *SeriesSection             `json:"series" validate:"required"`
	Episodes    map[string]*EpisodeSection `json:"episodes,omitempty" validate:"omitempty,dive,keys,episode_key,endkeys,required"`
	Templates   []TemplateSection          `json:"templates,omitempty" validate:"omitempty,dive"`
	Fonts       []Font                     `json:"fonts,omitempty" validate:"omitempty,dive"`
	Creator     string                     `json:"creator" validate:"required,max=40"`
	Previews    []string                   `json:"previews" validate:"required,min=1,max=5,unique,dive,min=3"`
	Description []string                   `json:"description" validate:"required,min=1,max=5,dive,min=1,max=250"`
	Created     string                     `json:"created,omitempty"`
}

// Decode parses raw JSON into a Document. Type mismatches are reported as
// *json.UnmarshalTypeError after the rest of the document has been decoded.
func Decode(raw []byte) (*Document, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return nil, fmt.Errorf("blueprint document must be a JSON object")
	}
	var doc Document
	if err := json.Unmarshal(trimmed, &doc); err != nil {
		return &doc, err
	}
	return &doc, nil
}

// CreatedAt parses the created field. The zero time and false are returned
// when the field is absent or malformed.
func (d *Document) CreatedAt() (time.Time, bool) {
	if d == nil || d.Created == "" {
		return time.Time{}, false
	}
	t, err := time.Parse(CreatedLayout, d.Created)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// Compact returns the canonical single-line form of a JSON document, which
// is what the store keeps as the blueprint body.
func Compact(raw []byte) (string, error) {
	var buf bytes.Buffer
	if err := json.Compact(&buf, raw); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// Indent returns the on-disk form of a JSON document: two-space indentation
// and a trailing newline.
func Indent(raw []byte) ([]byte, error) {
	var buf bytes.Buffer
	if err := json.Indent(&buf, bytes.TrimSpace(raw), "", "  "); err != nil {
		return nil, err
	}
	buf.WriteByte('\n')
	return buf.Bytes(), nil
}
