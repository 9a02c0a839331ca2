// Package observability provides formatted terminal output for the CLI.
package observability

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/jonathan/resume-assistant/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
)

// Printer handles formatted output for the CLI
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// truncate shortens s to at most n runes.
func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	r := []rune(s)
	return string(r[:n-3]) + "..."
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	inner := boxWidth - 4
	border := strings.Repeat("─", boxWidth-2)
	pad := func(s string) string {
		return s + strings.Repeat(" ", max(0, inner-utf8.RuneCountInString(s)))
	}

	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %s │\n", pad(title))
	fmt.Fprintf(p.out, "├%s┤\n", border)
	for _, line := range strings.Split(content, "\n") {
		fmt.Fprintf(p.out, "│ %s │\n", pad(truncate(line, inner)))
	}
	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// PrintDocument outputs the analysis, ATS feedback and design of a document.
func (p *Printer) PrintDocument(doc *types.GeneratedContent) {
	if doc == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Company:  %s\n", doc.Analysis.CompanyName))
	sb.WriteString(fmt.Sprintf("Role:     %s\n", doc.Analysis.JobTitle))
	sb.WriteString(fmt.Sprintf("Candidate: %s\n", doc.CV.FullName))

	if doc.Ats != nil {
		sb.WriteString(fmt.Sprintf("\nATS score: %d\n", doc.Ats.Score))
		if n := len(doc.Ats.MissingKeywords); n > 0 {
			sb.WriteString("Missing keywords:\n")
			for _, kw := range doc.Ats.MissingKeywords[:min(n, maxItemsToShow)] {
				sb.WriteString(fmt.Sprintf("  • %s\n", kw))
			}
			if n > maxItemsToShow {
				sb.WriteString(fmt.Sprintf("  ... and %d more\n", n-maxItemsToShow))
			}
		}
		if doc.Ats.Feedback != "" {
			sb.WriteString(fmt.Sprintf("Feedback: %s\n", doc.Ats.Feedback))
		}
	}

	d := doc.Design
	sb.WriteString(fmt.Sprintf("\nDesign: layout=%s color=%s font=%s", d.Layout, d.Color, d.Font))

	p.printBox("GENERATED DOCUMENT", sb.String())
}

// PrintTranscript outputs the last chat messages, oldest first.
func (p *Printer) PrintTranscript(msgs []types.ChatMessage) {
	if len(msgs) == 0 {
		return
	}

	var sb strings.Builder
	start := 0
	if len(msgs) > 2*maxItemsToShow {
		start = len(msgs) - 2*maxItemsToShow
		sb.WriteString(fmt.Sprintf("... %d earlier messages\n", start))
	}
	for i, m := range msgs[start:] {
		if i > 0 {
			sb.WriteString("\n")
		}
		sb.WriteString(fmt.Sprintf("[%s] %s", m.Role, strings.ReplaceAll(m.Text, "\n", " ")))
	}

	p.printBox(fmt.Sprintf("CHAT (%d messages)", len(msgs)), sb.String())
}
