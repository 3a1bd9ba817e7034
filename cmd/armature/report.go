package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"

	"github.com/armature-dev/armature/internal/heal"
	"github.com/armature-dev/armature/internal/validate"
)

var (
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
	warningStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	infoStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("12"))
	headerStyle  = lipgloss.NewStyle().Bold(true)
	opStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
)

func colorEnabled() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}

func styleFor(severity validate.Severity) lipgloss.Style {
	switch severity {
	case validate.SeverityError:
		return errorStyle
	case validate.SeverityWarning:
		return warningStyle
	default:
		return infoStyle
	}
}

// renderReport formats the issue list for one document. Every issue is
// printed in full; severity decides only the styling.
func renderReport(name string, issues validate.Issues) string {
	var b strings.Builder

	color := colorEnabled()
	header := fmt.Sprintf("validation report for %q: %d issues", name, len(issues))
	if color {
		header = headerStyle.Render(header)
	}
	b.WriteString(header + "\n")

	if len(issues) == 0 {
		b.WriteString("  no issues found\n")
		return b.String()
	}

	for _, issue := range issues {
		line := issue.String()
		if color {
			line = styleFor(issue.Severity).Render(line)
		}
		b.WriteString("  " + line + "\n")
	}

	return b.String()
}

// renderRecords formats the healing operations applied on each attempt.
func renderRecords(records []heal.Record) string {
	var b strings.Builder
	color := colorEnabled()

	for attempt, record := range records {
		if record.Empty() {
			continue
		}
		b.WriteString(fmt.Sprintf("attempt %d repairs:\n", attempt+1))
		for _, op := range record {
			if color {
				op = opStyle.Render(op)
			}
			b.WriteString("  " + op + "\n")
		}
	}

	return b.String()
}
