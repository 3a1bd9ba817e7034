package validate

import (
	"fmt"
	"strings"
)

// IssueKind classifies what a validation issue is about.
type IssueKind string

const (
	KindConnectivity IssueKind = "connectivity"
	KindBoundary     IssueKind = "boundary_termination"
	KindLint         IssueKind = "lint"
	KindAntiPattern  IssueKind = "antipattern"
	KindCompleteness IssueKind = "completeness"
	KindPattern      IssueKind = "pattern"
	KindSchema       IssueKind = "schema"
)

// Severity grades an issue. Only error-severity issues block a document.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
	SeverityInfo    Severity = "info"
)

// Issue is a single finding from one validation pass.
type Issue struct {
	Kind       IssueKind
	Severity   Severity
	Message    string
	Component  string
	Binding    string
	Suggestion string
}

func (i Issue) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s [%s] %s", i.Severity, i.Kind, i.Message)
	if i.Component != "" {
		fmt.Fprintf(&b, " (component: %s)", i.Component)
	}
	if i.Binding != "" {
		fmt.Fprintf(&b, " (binding: %s)", i.Binding)
	}
	if i.Suggestion != "" {
		fmt.Fprintf(&b, " (suggestion: %s)", i.Suggestion)
	}
	return b.String()
}

// Issues is the aggregated output of one validation run.
type Issues []Issue

// HasErrors reports whether any issue carries error severity.
func (is Issues) HasErrors() bool {
	for _, issue := range is {
		if issue.Severity == SeverityError {
			return true
		}
	}
	return false
}

// Errors returns only the error-severity issues.
func (is Issues) Errors() Issues {
	var out Issues
	for _, issue := range is {
		if issue.Severity == SeverityError {
			out = append(out, issue)
		}
	}
	return out
}

// OfKind returns the issues of one kind.
func (is Issues) OfKind(kind IssueKind) Issues {
	var out Issues
	for _, issue := range is {
		if issue.Kind == kind {
			out = append(out, issue)
		}
	}
	return out
}

// Lines renders every issue, one per line, preserving full detail.
func (is Issues) Lines() []string {
	out := make([]string, 0, len(is))
	for _, issue := range is {
		out = append(out, issue.String())
	}
	return out
}

func bindingRef(from, to string) string {
	return fmt.Sprintf("%s -> %s", from, to)
}
