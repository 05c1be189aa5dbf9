package blueprint

import (
	"fmt"
	"strings"
)

// Rules identify which invariant a Violation broke.
const (
	RuleJSON             = "json"
	RuleType             = "type"
	RuleShape            = "shape"
	RuleTemplateCoverage = "template-coverage"
	RuleFontCoverage     = "font-coverage"
	RulePairedLength     = "paired-length"
	RuleFileMissing      = "file-missing"
	RuleFileExtra        = "file-extra"
	RuleFileDuplicate    = "file-duplicate"
)

// Violation is one broken invariant, located by a dotted field path.
type Violation struct {
	Path    string `json:"path"`
	Rule    string `json:"rule"`
	Message string `json:"message"`
}

func (v Violation) String() string {
	if v.Path == "" {
		return fmt.Sprintf("[%s] %s", v.Rule, v.Message)
	}
	return fmt.Sprintf("%s: [%s] %s", v.Path, v.Rule, v.Message)
}

// Result is the outcome of validation: a document passes when it carries no
// violations.
type Result struct {
	Violations []Violation `json:"violations,omitempty"`
}

// OK reports whether no invariant was violated.
func (r Result) OK() bool { return len(r.Violations) == 0 }

// Merge returns a Result holding the violations of both.
func (r Result) Merge(other Result) Result {
	if len(other.Violations) == 0 {
		return r
	}
	merged := make([]Violation, 0, len(r.Violations)+len(other.Violations))
	merged = append(merged, r.Violations...)
	merged = append(merged, other.Violations...)
	return Result{Violations: merged}
}

// Has reports whether any violation broke the given rule.
func (r Result) Has(rule string) bool {
	for _, v := range r.Violations {
		if v.Rule == rule {
			return true
		}
	}
	return false
}

// Err converts a failing Result into a *ValidationError.
func (r Result) Err() error {
	if r.OK() {
		return nil
	}
	return &ValidationError{Violations: r.Violations}
}

// ValidationError reports every violation found in a document.
type ValidationError struct {
	Violations []Violation
}

func (e *ValidationError) Error() string {
	lines := make([]string, 0, len(e.Violations))
	for _, v := range e.Violations {
		lines = append(lines, v.String())
	}
	return fmt.Sprintf("blueprint failed validation with %d problem(s):\n  %s", len(e.Violations), strings.Join(lines, "\n  "))
}

// ErrorKind classifies the error for exit reporting.
func (e *ValidationError) ErrorKind() string { return "validation" }
