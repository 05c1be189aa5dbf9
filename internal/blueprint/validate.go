package blueprint

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"sort"
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"
)

var (
	episodeKeyPattern  = regexp.MustCompile(`^s\d+e\d+$`)
	seasonRangePattern = regexp.MustCompile(`^(\d+-\d+|\d+|s\d+e\d+-s\d+e\d+)$`)
	dataKeyPattern     = regexp.MustCompile(`^[a-zA-Z]+[^ -]*$`)

	titleCases = []string{"blank", "lower", "source", "title", "upper"}

	shapes = newShapeValidator()
)

func newShapeValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	patterns := map[string]*regexp.Regexp{
		"episode_key":  episodeKeyPattern,
		"season_range": seasonRangePattern,
		"data_key":     dataKeyPattern,
	}
	for tag, pattern := range patterns {
		if err := v.RegisterValidation(tag, func(fl validator.FieldLevel) bool {
			return pattern.MatchString(fl.Field().String())
		}); err != nil {
			panic(err)
		}
	}
	if err := v.RegisterValidation("title_case", func(fl validator.FieldLevel) bool {
		value := fl.Field().String()
		for _, tc := range titleCases {
			if value == tc {
				return true
			}
		}
		return false
	}); err != nil {
		panic(err)
	}
	return v
}

// Validate checks field shapes and every cross-reference invariant of doc.
// It does not look at the filesystem; see CheckFiles.
func Validate(doc *Document) Result {
	if doc == nil {
		return Result{Violations: []Violation{{Rule: RuleShape, Message: "document is empty"}}}
	}
	var out []Violation
	out = append(out, shapeViolations(doc)...)
	if doc.Series != nil {
		sections := walk(doc)
		out = append(out, templateCoverage(len(doc.Templates)).check(sections)...)
		out = append(out, fontCoverage(len(doc.Fonts)).check(sections)...)
		out = append(out, pairedLengths(sections)...)
	}
	return Result{Violations: out}
}

// ValidateRaw decodes raw and validates the result. Decoding problems are
// reported as violations alongside everything else that could be checked.
func ValidateRaw(raw []byte) (*Document, Result) {
	doc, err := Decode(raw)
	if err == nil {
		return doc, Validate(doc)
	}

	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) && doc != nil {
		path := typeErr.Field
		if path == "" {
			path = "(document)"
		}
		decodeResult := Result{Violations: []Violation{{
			Path:    path,
			Rule:    RuleType,
			Message: fmt.Sprintf("expected %s, got JSON %s", typeErr.Type, typeErr.Value),
		}}}
		return doc, decodeResult.Merge(Validate(doc))
	}
	return nil, Result{Violations: []Violation{{Rule: RuleJSON, Message: err.Error()}}}
}

func shapeViolations(doc *Document) []Violation {
	err := shapes.Struct(doc)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return []Violation{{Rule: RuleShape, Message: err.Error()}}
	}
	out := make([]Violation, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		out = append(out, Violation{
			Path:    fieldPath(fe.Namespace()),
			Rule:    RuleShape,
			Message: describe(fe),
		})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Path < out[j].Path })
	return out
}

// fieldPath turns a validator namespace into a JSON field path by dropping the
// root type and embedded struct names, the only upper-case segments.
func fieldPath(namespace string) string {
	parts := strings.Split(namespace, ".")
	kept := parts[:0]
	for _, part := range parts {
		if part == "" {
			continue
		}
		if unicode.IsUpper([]rune(part)[0]) {
			continue
		}
		kept = append(kept, part)
	}
	return strings.Join(kept, ".")
}

func describe(fe validator.FieldError) string {
	collection := false
	switch fe.Kind() {
	case reflect.Slice, reflect.Array, reflect.Map:
		collection = true
	}
	switch fe.Tag() {
	case "required":
		return "is required"
	case "min":
		if collection {
			return fmt.Sprintf("must contain at least %s item(s)", fe.Param())
		}
		return fmt.Sprintf("must be at least %s character(s)", fe.Param())
	case "max":
		if collection {
			return fmt.Sprintf("must contain at most %s item(s)", fe.Param())
		}
		return fmt.Sprintf("must be at most %s character(s)", fe.Param())
	case "gt":
		return fmt.Sprintf("must be greater than %s", fe.Param())
	case "unique":
		return "must not contain duplicates"
	case "url":
		return "must be a valid URL"
	case "excluded_with":
		return "cannot be combined with file_download_url"
	case "title_case":
		return "must be one of " + strings.Join(titleCases, ", ")
	case "episode_key":
		return fmt.Sprintf("episode key %q must look like s<season>e<episode>", fe.Value())
	case "season_range":
		return fmt.Sprintf("season title range %q must look like 1-3, 4, or s1e1-s1e10", fe.Value())
	case "data_key":
		return "must start with letters and contain no spaces or dashes"
	default:
		return fmt.Sprintf("failed %q check", fe.Tag())
	}
}
