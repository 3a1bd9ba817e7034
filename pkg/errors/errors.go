package errors

import (
	"fmt"
	"strings"
)

// ParseError represents a YAML decoding failure with optional line metadata.
type ParseError struct {
	Path    string
	Line    int
	Message string
	Err     error
}

// NewParseError constructs a ParseError.
func NewParseError(path string, line int, err error) error {
	message := ""
	if err != nil {
		message = err.Error()
	}
	return &ParseError{Path: path, Line: line, Message: message, Err: err}
}

func (e *ParseError) Error() string {
	if e == nil {
		return ""
	}

	if e.Line > 0 {
		return fmt.Sprintf("parse error: %s:%d: %s", e.Path, e.Line, e.Message)
	}
	return fmt.Sprintf("parse error: %s: %s", e.Path, e.Message)
}

// Unwrap exposes the underlying error.
func (e *ParseError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// StructuralError captures a malformed document shape: missing required
// fields, wrong field arity, references to unknown components. It is
// surfaced before any graph-level analysis runs.
type StructuralError struct {
	Field   string
	Message string
	Err     error
}

// NewStructuralError constructs a StructuralError.
func NewStructuralError(field, message string, err error) error {
	return &StructuralError{Field: field, Message: message, Err: err}
}

func (e *StructuralError) Error() string {
	if e == nil {
		return ""
	}
	if e.Field != "" {
		return fmt.Sprintf("structural error: %s: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("structural error: %s", e.Message)
}

// Unwrap exposes the underlying error.
func (e *StructuralError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// StructuralErrors aggregates every structural problem found in one parse so
// callers never see a truncated picture of a malformed document.
type StructuralErrors struct {
	Errors []error
}

func (e *StructuralErrors) Error() string {
	if e == nil || len(e.Errors) == 0 {
		return ""
	}
	msgs := make([]string, 0, len(e.Errors))
	for _, err := range e.Errors {
		msgs = append(msgs, err.Error())
	}
	return strings.Join(msgs, "; ")
}

// Unwrap exposes the aggregated errors for errors.Is/As matching.
func (e *StructuralErrors) Unwrap() []error {
	if e == nil {
		return nil
	}
	return e.Errors
}

// MatrixError reports a self-inconsistency in a connectivity matrix, such as
// a one-sided connect/receive rule. It concerns the rule table itself, never
// a particular document.
type MatrixError struct {
	From    string
	To      string
	Message string
}

// NewMatrixError constructs a MatrixError.
func NewMatrixError(from, to, message string) error {
	return &MatrixError{From: from, To: to, Message: message}
}

func (e *MatrixError) Error() string {
	if e == nil {
		return ""
	}
	if e.From != "" || e.To != "" {
		return fmt.Sprintf("matrix error: %s -> %s: %s", e.From, e.To, e.Message)
	}
	return fmt.Sprintf("matrix error: %s", e.Message)
}

// HealingError is returned when the heal-and-validate loop exhausts its
// attempt budget or stalls. It carries the full rendered issue list from the
// final attempt; callers must not see a summary in place of the issues.
type HealingError struct {
	Attempts int
	Stagnant bool
	Issues   []string
}

// NewHealingError constructs a HealingError.
func NewHealingError(attempts int, stagnant bool, issues []string) error {
	return &HealingError{Attempts: attempts, Stagnant: stagnant, Issues: append([]string(nil), issues...)}
}

func (e *HealingError) Error() string {
	if e == nil {
		return ""
	}

	reason := fmt.Sprintf("healing failed after %d attempts", e.Attempts)
	if e.Stagnant {
		reason = fmt.Sprintf("healing stalled after %d attempts", e.Attempts)
	}
	if len(e.Issues) == 0 {
		return reason
	}
	return fmt.Sprintf("%s:\n  %s", reason, strings.Join(e.Issues, "\n  "))
}
