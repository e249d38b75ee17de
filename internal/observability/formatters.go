// Package observability provides formatted output utilities for verbose CLI mode.
package observability

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/jonathan/devlog-feedback/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
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
//nolint:errcheck // writing to stderr; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	for _, line := range strings.Split(content, "\n") {
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, truncate(line, boxWidth-4))
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// truncate shortens s to at most n runes, marking the cut with "..."
func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	r := []rune(s)
	return string(r[:n-3]) + "..."
}

// writeList appends up to maxItemsToShow bullet items under a heading
func writeList(sb *strings.Builder, heading string, items []string) {
	if len(items) == 0 {
		return
	}
	sb.WriteString(heading + ":\n")
	count := min(len(items), maxItemsToShow)
	for i := 0; i < count; i++ {
		sb.WriteString(fmt.Sprintf("  • %s\n", items[i]))
	}
	if len(items) > maxItemsToShow {
		sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(items)-maxItemsToShow))
	}
	sb.WriteString("\n")
}

// PrintAnalysis outputs the detected writing style, strengths and weaknesses.
func (p *Printer) PrintAnalysis(resp *types.FeedbackResponse) {
	if resp == nil {
		return
	}

	style := resp.Analysis.WritingStyle
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Request:    %s\n", resp.RequestID))
	sb.WriteString(fmt.Sprintf("Tone:       %s\n", style.Tone))
	sb.WriteString(fmt.Sprintf("Clarity:    %.2f\n", style.ClarityScore))
	sb.WriteString(fmt.Sprintf("Structure:  %.2f\n", style.StructureScore))
	sb.WriteString(fmt.Sprintf("Depth:      %.2f\n", style.DepthScore))
	sb.WriteString("\n")

	writeList(&sb, "Strengths", resp.Analysis.Strengths)
	writeList(&sb, "Weaknesses", resp.Analysis.Weaknesses)

	p.printBox("DRAFT ANALYSIS", strings.TrimSuffix(sb.String(), "\n\n"))
}

// PrintGuidelines outputs the guidance for the author's next article.
func (p *Printer) PrintGuidelines(resp *types.FeedbackResponse) {
	if resp == nil {
		return
	}

	g := resp.Guidelines
	var sb strings.Builder
	writeList(&sb, "Next article focus", g.NextArticleFocus)
	writeList(&sb, "Questions to answer", g.QuestionsToAnswer)
	writeList(&sb, "Structural advice", g.StructuralAdvice)
	if sb.Len() == 0 {
		return
	}

	p.printBox("GUIDELINES", strings.TrimSuffix(sb.String(), "\n\n"))
}

// PrintReasoning outputs the model's decision summary and confidence.
func (p *Printer) PrintReasoning(resp *types.FeedbackResponse) {
	if resp == nil {
		return
	}

	r := resp.AgentReasoning
	content := fmt.Sprintf("Confidence: %.2f", r.Confidence)
	if r.DecisionSummary != "" {
		content += "\n" + r.DecisionSummary
	}
	p.printBox("AGENT REASONING", content)
}

// PrintFeedback outputs every section of a feedback response.
func (p *Printer) PrintFeedback(resp *types.FeedbackResponse) {
	p.PrintAnalysis(resp)
	p.PrintGuidelines(resp)
	p.PrintReasoning(resp)
}
