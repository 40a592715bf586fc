package domain

import (
	"fmt"
	"strings"
)

// FieldViolation describes a single invalid input field. Loc mirrors the wire
// format: ["body", "<field>"] for JSON body fields, ["query", "<param>"] for
// query parameters.
type FieldViolation struct {
	Type  string   `json:"type"`
	Loc   []string `json:"loc"`
	Msg   string   `json:"msg"`
	Input any      `json:"input"`
}

// ValidationError aggregates every violated field of a request. Callers must
// report all violations at once rather than failing on the first one.
type ValidationError struct {
	Violations []FieldViolation
}

func (e *ValidationError) Error() string {
	if len(e.Violations) == 0 {
		return "validation failed"
	}
	fields := make([]string, 0, len(e.Violations))
	for _, v := range e.Violations {
		fields = append(fields, strings.Join(v.Loc, "."))
	}
	return fmt.Sprintf("validation failed: %s", strings.Join(fields, ", "))
}

// Add records a violation for a body field.
func (e *ValidationError) Add(typ, field, msg string, input any) {
	e.Violations = append(e.Violations, FieldViolation{
		Type:  typ,
		Loc:   []string{"body", field},
		Msg:   msg,
		Input: input,
	})
}

// HasViolations reports whether any field failed.
func (e *ValidationError) HasViolations() bool { return len(e.Violations) > 0 }

// AsError returns the collected error or nil when everything validated.
func (e *ValidationError) AsError() error {
	if e.HasViolations() {
		return e
	}
	return nil
}
