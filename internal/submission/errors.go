package submission

import "fmt"

// ParseError reports a submission that cannot be turned into a record.
type ParseError struct {
	Field  string
	Reason string
	Err    error
}

func (e *ParseError) Error() string {
	msg := "parse submission"
	if e.Field != "" {
		msg += " " + e.Field
	}
	if e.Reason != "" {
		msg += ": " + e.Reason
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *ParseError) Unwrap() error { return e.Err }

// ErrorKind classifies the error for exit reporting.
func (e *ParseError) ErrorKind() string { return "parse" }
