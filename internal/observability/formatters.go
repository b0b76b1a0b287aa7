// Package observability provides formatted output utilities for verbose CLI mode.
package observability

import (
	"fmt"
	"io"
	"strings"

	"github.com/arnav/rapidreach/internal/pipeline"
	"github.com/arnav/rapidreach/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// previewLimit caps long text fields in summaries
	previewLimit = 200
)

// Printer handles formatted output for verbose mode
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	lines := strings.Split(content, "\n")
	for _, line := range lines {
		// Truncate long lines
		if len(line) > boxWidth-4 {
			line = line[:boxWidth-7] + "..."
		}
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, line)
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// PrintStepReport outputs the per-step outcome of a pipeline run.
func (p *Printer) PrintStepReport(report *pipeline.Report) {
	if report == nil || len(report.Steps) == 0 {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Session:  %s\n", report.SessionID))
	sb.WriteString(fmt.Sprintf("Business: %s\n\n", report.BusinessName))

	for _, step := range report.Steps {
		marker := "x"
		if strings.HasPrefix(step.Status, "completed") {
			marker = "+"
		} else if strings.HasPrefix(step.Status, "skipped") {
			marker = "-"
		}
		sb.WriteString(fmt.Sprintf("  [%s] %-10s %s\n", marker, step.Name, step.Status))
	}

	p.printBox("PIPELINE STEP REPORT", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintSessionSummary outputs a condensed view of a persisted session.
func (p *Printer) PrintSessionSummary(result *types.SDRResult) {
	if result == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Business:  %s\n", result.BusinessName))
	sb.WriteString(fmt.Sprintf("Outcome:   %s\n", result.CallOutcome))
	sb.WriteString(fmt.Sprintf("Email:     sent=%t", result.EmailSent))
	if result.EmailSubject != "" {
		sb.WriteString(fmt.Sprintf(" (%s)", result.EmailSubject))
	}
	sb.WriteString("\n")

	if result.ResearchSummary != "" {
		sb.WriteString("\nResearch:\n")
		sb.WriteString(indent(preview(result.ResearchSummary)))
	}
	if result.CallTranscript != "" {
		sb.WriteString("\nTranscript:\n")
		sb.WriteString(indent(preview(result.CallTranscript)))
	}

	p.printBox("SESSION "+result.SessionID, strings.TrimSuffix(sb.String(), "\n"))
}

// PrintClassification outputs a call classification.
func (p *Printer) PrintClassification(c *types.ConversationClassification) {
	if c == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Outcome:    %s\n", c.Outcome))
	sb.WriteString(fmt.Sprintf("Confidence: %.2f\n", c.Confidence))
	if c.NextAction != "" {
		sb.WriteString(fmt.Sprintf("Next:       %s\n", c.NextAction))
	}
	if len(c.KeyPoints) > 0 {
		sb.WriteString("Key points:\n")
		for _, kp := range c.KeyPoints {
			sb.WriteString(fmt.Sprintf("  • %s\n", kp))
		}
	}
	if c.Summary != "" {
		sb.WriteString(fmt.Sprintf("\n%s\n", c.Summary))
	}

	p.printBox("CALL CLASSIFICATION", strings.TrimSuffix(sb.String(), "\n"))
}

func preview(s string) string {
	if len(s) > previewLimit {
		return s[:previewLimit-3] + "..."
	}
	return s
}

func indent(s string) string {
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = "  " + line
	}
	return strings.Join(lines, "\n") + "\n"
}
