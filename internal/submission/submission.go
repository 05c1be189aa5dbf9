package submission

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"
	"regexp"
	"strconv"
	"strings"

	"blueprints/internal/logging"
)

// NoResponse is what the issue form writes for an optional field left empty.
const NoResponse = "_No response_"

var (
	issuePattern = regexp.MustCompile(
		"^### Series Name\\s+(?P<series_name>.+)\\s+" +
			"### Series Year\\s+(?P<series_year>\\d+)\\s+" +
			"### Series Database IDs\\s+(?P<database_ids>.+)\\s+" +
			"### Creator Username\\s+(?P<creator>.+)\\s+" +
			"### Blueprint Description\\s+(?P<description>[\\s\\S]*?)\\s+" +
			"### Blueprint\\s+```json\\s+(?P<blueprint>[\\s\\S]*?)```\\s+" +
			"### Preview Title Cards?\\s+(?P<preview_urls>[\\s\\S]*?)\\s+" +
			"### Zip of Font Files\\s+(?P<font_zip>[\\s\\S]*?)\\s+" +
			"### Zip of Source Files\\s+(?P<source_files>[\\s\\S]*?)\\s*$",
	)
	linkPattern = regexp.MustCompile(`!?\[[^\]]*\]\(([^\s)]+)\)`)
)

// Fields are the raw answers of a submission, one per form section.
type Fields struct {
	SeriesName  string
	SeriesYear  string
	DatabaseIDs string
	Creator     string
	Description string
	Blueprint   string
	PreviewURLs string
	FontZip     string
	SourceFiles string
}

// Submission is a parsed, normalized submission.
type Submission struct {
	SeriesName     string
	SeriesYear     int
	IDs            IDs
	Creator        string
	Description    []string
	PreviewURLs    []string
	FontZipURL     string
	SourceFileURLs []string
	// Document is the embedded blueprint with creator and description merged in.
	Document map[string]any
}

// DisplayName returns "Name (Year)".
func (s *Submission) DisplayName() string {
	return fmt.Sprintf("%s (%d)", s.SeriesName, s.SeriesYear)
}

// DocumentJSON encodes the document in its on-disk form.
func (s *Submission) DocumentJSON() ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(s.Document); err != nil {
		return nil, fmt.Errorf("encode blueprint document: %w", err)
	}
	return buf.Bytes(), nil
}

// Parser builds submissions. DefaultCreator is used when neither the form nor
// the issue author name a creator.
type Parser struct {
	DefaultCreator string
	Logger         *slog.Logger
}

// ParseIssue parses the JSON-encoded issue body.
func (p Parser) ParseIssue(rawBody, issueCreator string) (*Submission, error) {
	var body string
	if err := json.Unmarshal([]byte(rawBody), &body); err != nil {
		return nil, &ParseError{Field: "issue body", Reason: "not JSON-encoded text", Err: err}
	}
	fields, err := SplitIssue(body)
	if err != nil {
		return nil, err
	}
	return p.ParseFields(fields, issueCreator)
}

// SplitIssue matches an issue body against the submission form layout.
func SplitIssue(body string) (Fields, error) {
	body = strings.ReplaceAll(strings.TrimSpace(body), "\r\n", "\n")
	match := issuePattern.FindStringSubmatch(body)
	if match == nil {
		return Fields{}, &ParseError{Field: "issue body", Reason: "does not match the submission form"}
	}
	group := func(name string) string {
		return strings.TrimSpace(match[issuePattern.SubexpIndex(name)])
	}
	return Fields{
		SeriesName:  group("series_name"),
		SeriesYear:  group("series_year"),
		DatabaseIDs: group("database_ids"),
		Creator:     group("creator"),
		Description: group("description"),
		Blueprint:   group("blueprint"),
		PreviewURLs: group("preview_urls"),
		FontZip:     group("font_zip"),
		SourceFiles: group("source_files"),
	}, nil
}

// ParseFields normalizes already separated answers.
func (p Parser) ParseFields(fields Fields, issueCreator string) (*Submission, error) {
	logger := logging.NewComponentLogger(p.Logger, "submission")

	name := optional(fields.SeriesName)
	if name == "" {
		return nil, &ParseError{Field: "series name", Reason: "is empty"}
	}
	year, err := strconv.Atoi(strings.TrimSpace(fields.SeriesYear))
	if err != nil {
		return nil, &ParseError{Field: "series year", Reason: fmt.Sprintf("%q is not a year", fields.SeriesYear), Err: err}
	}

	ids, skipped := ParseDatabaseIDs(fields.DatabaseIDs)
	for _, token := range skipped {
		logger.Warn("skipping malformed database id", logging.String("token", token))
	}

	creator := optional(fields.Creator)
	if creator == "" {
		creator = strings.TrimSpace(issueCreator)
	}
	if creator == "" {
		creator = p.DefaultCreator
	}

	description := Lines(optional(fields.Description))

	document, err := decodeDocument(fields.Blueprint)
	if err != nil {
		return nil, err
	}
	document["creator"] = creator
	document["description"] = description

	sub := &Submission{
		SeriesName:     name,
		SeriesYear:     year,
		IDs:            ids,
		Creator:        creator,
		Description:    description,
		PreviewURLs:    URLs(fields.PreviewURLs),
		SourceFileURLs: URLs(fields.SourceFiles),
		Document:       document,
	}
	if fonts := URLs(fields.FontZip); len(fonts) > 0 {
		sub.FontZipURL = fonts[0]
	}

	logger.Debug("parsed submission",
		logging.String(logging.FieldSeries, sub.DisplayName()),
		logging.String("creator", creator),
		logging.Int("previews", len(sub.PreviewURLs)),
		logging.Int("database_ids", len(ids)),
	)
	return sub, nil
}

func decodeDocument(raw string) (map[string]any, error) {
	dec := json.NewDecoder(strings.NewReader(strings.TrimSpace(raw)))
	dec.UseNumber()
	var document map[string]any
	if err := dec.Decode(&document); err != nil {
		return nil, &ParseError{Field: "blueprint", Reason: "invalid JSON", Err: err}
	}
	if document == nil {
		return nil, &ParseError{Field: "blueprint", Reason: "must be a JSON object"}
	}
	if dec.More() {
		return nil, &ParseError{Field: "blueprint", Reason: "trailing data after the JSON object"}
	}
	return document, nil
}

// URLs extracts the targets of Markdown links and images. A bare http(s)
// URL is accepted when the field holds no links.
func URLs(field string) []string {
	field = optional(field)
	if field == "" {
		return []string{}
	}
	matches := linkPattern.FindAllStringSubmatch(field, -1)
	out := make([]string, 0, len(matches))
	for _, m := range matches {
		out = append(out, m[1])
	}
	if len(out) == 0 && (strings.HasPrefix(field, "http://") || strings.HasPrefix(field, "https://")) && !strings.ContainsAny(field, " \t\n") {
		out = append(out, field)
	}
	return out
}

// Lines splits text into trimmed, non-blank lines.
func Lines(text string) []string {
	out := []string{}
	for _, line := range strings.Split(text, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			out = append(out, line)
		}
	}
	return out
}

func optional(value string) string {
	value = strings.TrimSpace(value)
	if strings.Contains(value, NoResponse) {
		return ""
	}
	return value
}
