// Package observability provides formatted output utilities for verbose CLI mode.
package observability

import (
	"fmt"
	"io"
	"strings"

	"github.com/jonathan/resume-studio/internal/pipeline"
	"github.com/jonathan/resume-studio/internal/types"
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

// truncate shortens s to at most n runes, marking the cut with "..."
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
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

// PrintExtraction outputs a summary of freshly extracted resume data.
func (p *Printer) PrintExtraction(ext *types.Extraction) {
	if ext == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Name:      %s\n", ext.Profile.Name))
	if ext.Language != "" {
		sb.WriteString(fmt.Sprintf("Language:  %s\n", ext.Language))
	}
	sb.WriteString("\n")
	writeExperience(&sb, ext.Experience)
	writeEducation(&sb, ext.Education)
	writeSkills(&sb, ext.Skills)

	p.printBox("EXTRACTED RESUME", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintDocument outputs a summary of a resume document.
func (p *Printer) PrintDocument(doc *types.ResumeDocument) {
	if doc == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Name:      %s\n", doc.Profile.Name))
	sb.WriteString(fmt.Sprintf("Language:  %s\n", doc.Language))
	sb.WriteString(fmt.Sprintf("Template:  %s\n", doc.Template))
	if doc.Profile.Summary != "" {
		sb.WriteString(fmt.Sprintf("Summary:   %s\n", doc.Profile.Summary))
	}
	sb.WriteString("\n")
	writeExperience(&sb, doc.Experience)
	writeEducation(&sb, doc.Education)
	writeSkills(&sb, doc.Skills)

	p.printBox("RESUME DOCUMENT", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintProgress outputs one pipeline progress event as a single line.
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) PrintProgress(e pipeline.ProgressEvent) {
	marker := "•"
	switch e.Category {
	case pipeline.CategoryCompleted:
		marker = "✓"
	case pipeline.CategoryWarning:
		marker = "⚠"
	case pipeline.CategoryFailed:
		marker = "✗"
	}
	fmt.Fprintf(p.out, "%s [%s] %s\n", marker, e.Step, e.Message)
}

func writeExperience(sb *strings.Builder, items []types.ExperienceItem) {
	if len(items) == 0 {
		return
	}
	sb.WriteString(fmt.Sprintf("Experience (%d):\n", len(items)))
	count := min(len(items), maxItemsToShow)
	for i := 0; i < count; i++ {
		e := items[i]
		sb.WriteString(fmt.Sprintf("  • %s @ %s", e.Role, e.Company))
		if e.StartDate != "" || e.EndDate != "" {
			sb.WriteString(fmt.Sprintf(" (%s - %s)", e.StartDate, e.EndDate))
		}
		sb.WriteString(fmt.Sprintf("\n    %d highlights\n", len(e.Highlights)))
	}
	if len(items) > maxItemsToShow {
		sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(items)-maxItemsToShow))
	}
	sb.WriteString("\n")
}

func writeEducation(sb *strings.Builder, items []types.EducationItem) {
	if len(items) == 0 {
		return
	}
	sb.WriteString(fmt.Sprintf("Education (%d):\n", len(items)))
	count := min(len(items), 3)
	for i := 0; i < count; i++ {
		e := items[i]
		sb.WriteString(fmt.Sprintf("  • %s, %s %s\n", e.School, e.Degree, e.Year))
	}
	if len(items) > 3 {
		sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(items)-3))
	}
	sb.WriteString("\n")
}

func writeSkills(sb *strings.Builder, skills []string) {
	if len(skills) == 0 {
		return
	}
	sb.WriteString(fmt.Sprintf("Skills: %s\n", strings.Join(skills, ", ")))
}
