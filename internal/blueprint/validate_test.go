package blueprint_test

import (
	"errors"
	"strings"
	"testing"

	"blueprints/internal/blueprint"
)

const validDocument = `{
  "series": {
    "font_id": 0,
    "template_ids": [0],
    "season_title_ranges": ["1-3", "s4e1-s4e10"],
    "season_title_values": ["Early", "Finale"]
  },
  "episodes": {
    "s1e1": {"title": "Pilot", "template_ids": [1]}
  },
  "templates": [
    {"name": "Base", "font_id": 1},
    {"name": "Pilot", "extra_keys": ["logo"], "extra_values": ["logo.png"]}
  ],
  "fonts": [
    {"name": "Main", "file": "Main.ttf"},
    {"name": "Alt", "file": "Alt.otf", "replacements_in": ["a"], "replacements_out": ["b"]}
  ],
  "creator": "someone",
  "previews": ["preview.jpg"],
  "description": ["A short description."]
}`

func decode(t *testing.T, raw string) *blueprint.Document {
	t.Helper()
	doc, err := blueprint.Decode([]byte(raw))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	return doc
}

func TestValidateAcceptsCompleteDocument(t *testing.T) {
	result := blueprint.Validate(decode(t, validDocument))
	if !result.OK() {
		t.Fatalf("expected document to pass, got %v", result.Violations)
	}
	if err := result.Err(); err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
}

func TestValidateTemplateCoverage(t *testing.T) {
	cases := []struct {
		name string
		doc  string
		want bool
	}{
		{
			name: "contiguous",
			doc:  `{"series":{"template_ids":[0,1]},"templates":[{"name":"a"},{"name":"b"}],"creator":"c","previews":["p.jpg"],"description":["d"]}`,
			want: true,
		},
		{
			name: "unreferenced template",
			doc:  `{"series":{"template_ids":[0]},"templates":[{"name":"a"},{"name":"b"}],"creator":"c","previews":["p.jpg"],"description":["d"]}`,
		},
		{
			name: "out of range",
			doc:  `{"series":{"template_ids":[0,2]},"templates":[{"name":"a"},{"name":"b"}],"creator":"c","previews":["p.jpg"],"description":["d"]}`,
		},
		{
			name: "reference without templates",
			doc:  `{"series":{},"episodes":{"s1e2":{"template_ids":[0]}},"creator":"c","previews":["p.jpg"],"description":["d"]}`,
		},
		{
			name: "referenced from episodes only",
			doc:  `{"series":{},"episodes":{"s1e2":{"template_ids":[0]},"s2e1":{"template_ids":[1]}},"templates":[{"name":"a"},{"name":"b"}],"creator":"c","previews":["p.jpg"],"description":["d"]}`,
			want: true,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			result := blueprint.Validate(decode(t, tc.doc))
			if got := !result.Has(blueprint.RuleTemplateCoverage); got != tc.want {
				t.Fatalf("template coverage ok=%v, want %v (violations %v)", got, tc.want, result.Violations)
			}
		})
	}
}

func TestValidateFontCoverage(t *testing.T) {
	cases := []struct {
		name string
		doc  string
		want bool
	}{
		{
			name: "referenced from template",
			doc:  `{"series":{"template_ids":[0]},"templates":[{"name":"a","font_id":0}],"fonts":[{"name":"f"}],"creator":"c","previews":["p.jpg"],"description":["d"]}`,
			want: true,
		},
		{
			name: "unused font",
			doc:  `{"series":{"font_id":0},"fonts":[{"name":"f"},{"name":"g"}],"creator":"c","previews":["p.jpg"],"description":["d"]}`,
		},
		{
			name: "episode references missing font",
			doc:  `{"series":{"font_id":0},"episodes":{"s1e1":{"font_id":3}},"fonts":[{"name":"f"}],"creator":"c","previews":["p.jpg"],"description":["d"]}`,
		},
		{
			name: "no fonts",
			doc:  `{"series":{},"creator":"c","previews":["p.jpg"],"description":["d"]}`,
			want: true,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			result := blueprint.Validate(decode(t, tc.doc))
			if got := !result.Has(blueprint.RuleFontCoverage); got != tc.want {
				t.Fatalf("font coverage ok=%v, want %v (violations %v)", got, tc.want, result.Violations)
			}
		})
	}
}

func TestValidatePairedLists(t *testing.T) {
	cases := []struct {
		name string
		doc  string
		path string
	}{
		{
			name: "series season titles",
			doc:  `{"series":{"season_title_ranges":["1","2"],"season_title_values":["One"]},"creator":"c","previews":["p.jpg"],"description":["d"]}`,
			path: "series.season_title_ranges",
		},
		{
			name: "episode extras",
			doc:  `{"series":{},"episodes":{"s1e1":{"extra_keys":["a"]}},"creator":"c","previews":["p.jpg"],"description":["d"]}`,
			path: "episodes[s1e1].extra_keys",
		},
		{
			name: "font replacements",
			doc:  `{"series":{"font_id":0},"fonts":[{"name":"f","replacements_in":["a","b"],"replacements_out":["c"]}],"creator":"c","previews":["p.jpg"],"description":["d"]}`,
			path: "fonts[0].replacements_in",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			result := blueprint.Validate(decode(t, tc.doc))
			found := false
			for _, v := range result.Violations {
				if v.Rule == blueprint.RulePairedLength && v.Path == tc.path {
					found = true
				}
			}
			if !found {
				t.Fatalf("expected paired-length violation at %s, got %v", tc.path, result.Violations)
			}
		})
	}

	equal := `{"series":{"extra_keys":["a","b"],"extra_values":["1","2"]},"creator":"c","previews":["p.jpg"],"description":["d"]}`
	if result := blueprint.Validate(decode(t, equal)); result.Has(blueprint.RulePairedLength) {
		t.Fatalf("equal lists should pass, got %v", result.Violations)
	}
}

func TestValidateShapes(t *testing.T) {
	cases := []struct {
		name string
		doc  string
		path string
	}{
		{"missing series", `{"creator":"c","previews":["p.jpg"],"description":["d"]}`, "series"},
		{"missing creator", `{"series":{},"previews":["p.jpg"],"description":["d"]}`, "creator"},
		{"long creator", `{"series":{},"creator":"` + strings.Repeat("x", 41) + `","previews":["p.jpg"],"description":["d"]}`, "creator"},
		{"too many previews", `{"series":{},"creator":"c","previews":["a.jpg","b.jpg","c.jpg","d.jpg","e.jpg","f.jpg"],"description":["d"]}`, "previews"},
		{"empty description", `{"series":{},"creator":"c","previews":["p.jpg"],"description":[]}`, "description"},
		{"bad episode key", `{"series":{},"episodes":{"season1":{}},"creator":"c","previews":["p.jpg"],"description":["d"]}`, "episodes[season1]"},
		{"bad season range", `{"series":{"season_title_ranges":["one"],"season_title_values":["x"]},"creator":"c","previews":["p.jpg"],"description":["d"]}`, "series.season_title_ranges[0]"},
		{"bad title case", `{"series":{"font_title_case":"shout"},"creator":"c","previews":["p.jpg"],"description":["d"]}`, "series.font_title_case"},
		{"template without name", `{"series":{"template_ids":[0]},"templates":[{}],"creator":"c","previews":["p.jpg"],"description":["d"]}`, "templates[0].name"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			result := blueprint.Validate(decode(t, tc.doc))
			for _, v := range result.Violations {
				if v.Rule == blueprint.RuleShape && v.Path == tc.path {
					return
				}
			}
			t.Fatalf("expected shape violation at %s, got %v", tc.path, result.Violations)
		})
	}
}

func TestValidateRawReportsDecodeProblems(t *testing.T) {
	if _, result := blueprint.ValidateRaw([]byte(`{"series":`)); !result.Has(blueprint.RuleJSON) {
		t.Fatalf("expected json violation, got %v", result.Violations)
	}
	if _, result := blueprint.ValidateRaw([]byte(`[1,2]`)); !result.Has(blueprint.RuleJSON) {
		t.Fatalf("expected json violation for array, got %v", result.Violations)
	}

	doc, result := blueprint.ValidateRaw([]byte(`{"series":{},"creator":7,"previews":["p.jpg"],"description":["d"]}`))
	if doc == nil {
		t.Fatal("expected partially decoded document")
	}
	if !result.Has(blueprint.RuleType) {
		t.Fatalf("expected type violation, got %v", result.Violations)
	}
}

func TestValidationErrorListsEveryProblem(t *testing.T) {
	doc := decode(t, `{"series":{"font_id":4,"template_ids":[2]},"creator":"c","previews":["p.jpg"],"description":["d"]}`)
	err := blueprint.Validate(doc).Err()
	if err == nil {
		t.Fatal("expected validation error")
	}
	msg := err.Error()
	for _, want := range []string{"template-coverage", "font-coverage", "series.template_ids", "series.font_id"} {
		if !strings.Contains(msg, want) {
			t.Fatalf("expected %q in error, got %q", want, msg)
		}
	}
	var verr *blueprint.ValidationError
	if !errors.As(err, &verr) || verr.ErrorKind() != "validation" {
		t.Fatalf("expected *ValidationError, got %T", err)
	}
}

func TestCheckFiles(t *testing.T) {
	doc := decode(t, validDocument)

	if result := blueprint.CheckFiles(doc, []string{"blueprint.json", "Main.ttf", "Alt.otf", "preview.jpg"}); !result.OK() {
		t.Fatalf("expected matching listing to pass, got %v", result.Violations)
	}

	result := blueprint.CheckFiles(doc, []string{"Main.ttf", "preview.jpg", "notes.txt"})
	if !result.Has(blueprint.RuleFileMissing) {
		t.Fatalf("expected missing file violation, got %v", result.Violations)
	}
	if !result.Has(blueprint.RuleFileExtra) {
		t.Fatalf("expected extra file violation, got %v", result.Violations)
	}

	dup := decode(t, `{"series":{"font_id":0},"fonts":[{"name":"f","file":"shared.png"}],"creator":"c","previews":["shared.png"],"description":["d"]}`)
	if result := blueprint.CheckFiles(dup, []string{"shared.png"}); !result.Has(blueprint.RuleFileDuplicate) {
		t.Fatalf("expected duplicate violation, got %v", result.Violations)
	}
}

func TestCompactAndIndent(t *testing.T) {
	compact, err := blueprint.Compact([]byte("{\n  \"a\": [1, 2]\n}\n"))
	if err != nil {
		t.Fatalf("Compact: %v", err)
	}
	if compact != `{"a":[1,2]}` {
		t.Fatalf("unexpected compact form %q", compact)
	}
	indented, err := blueprint.Indent([]byte(compact))
	if err != nil {
		t.Fatalf("Indent: %v", err)
	}
	want := "{\n  \"a\": [\n    1,\n    2\n  ]\n}\n"
	if string(indented) != want {
		t.Fatalf("unexpected indented form %q", indented)
	}
}

func TestCreatedAt(t *testing.T) {
	doc := &blueprint.Document{Created: "2024-03-01T12:30:00"}
	ts, ok := doc.CreatedAt()
	if !ok || ts.Year() != 2024 || ts.Hour() != 12 {
		t.Fatalf("unexpected created time %v ok=%v", ts, ok)
	}
	doc.Created = "yesterday"
	if _, ok := doc.CreatedAt(); ok {
		t.Fatal("expected malformed created to be rejected")
	}
}
