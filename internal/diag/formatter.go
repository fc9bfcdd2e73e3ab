package diag

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Formatter renders diagnostics for terminal output.
type Formatter struct {
	w io.Writer

	errStyle  lipgloss.Style
	warnStyle lipgloss.Style
	noteStyle lipgloss.Style
	locStyle  lipgloss.Style
	typeStyle lipgloss.Style
	dimStyle  lipgloss.Style
}

// NewFormatter creates a formatter writing to w.
func NewFormatter(w io.Writer) *Formatter {
	return &Formatter{
		w:         w,
		errStyle:  lipgloss.NewStyle().Foreground(lipgloss.Color("#FF6B6B")).Bold(true),
		warnStyle: lipgloss.NewStyle().Foreground(lipgloss.Color("#E5C07B")).Bold(true),
		noteStyle: lipgloss.NewStyle().Foreground(lipgloss.Color("#5B8DEF")).Bold(true),
		locStyle:  lipgloss.NewStyle().Foreground(lipgloss.Color("#888888")),
		typeStyle: lipgloss.NewStyle().Foreground(lipgloss.Color("#56B6C2")),
		dimStyle:  lipgloss.NewStyle().Foreground(lipgloss.Color("#AAAAAA")),
	}
}

// Format renders a single diagnostic.
func (f *Formatter) Format(d Diagnostic) {
	header := f.styleFor(d.Severity).Render(string(d.Severity))
	if d.Code != "" {
		header += f.dimStyle.Render("[" + string(d.Code) + "]")
	}
	fmt.Fprintf(f.w, "%s: %s\n", header, d.Message)

	if d.Span.IsValid() {
		fmt.Fprintf(f.w, "  %s %s\n", f.locStyle.Render("-->"), d.Span)
	}
	if d.Expected != "" || d.Actual != "" {
		fmt.Fprintf(f.w, "  expected %s, found %s\n",
			f.typeStyle.Render(d.Expected), f.typeStyle.Render(d.Actual))
	}
	if d.Detail != "" {
		fmt.Fprintf(f.w, "  %s %s\n", f.dimStyle.Render("diverges at:"), f.typeStyle.Render(d.Detail))
	}
	for _, note := range d.Notes {
		fmt.Fprintf(f.w, "  %s %s\n", f.noteStyle.Render("note:"), note)
	}
	if d.Help != "" {
		fmt.Fprintf(f.w, "  %s %s\n", f.noteStyle.Render("help:"), d.Help)
	}
}

// FormatAll sorts and renders a list of diagnostics followed by a summary line.
func (f *Formatter) FormatAll(diags []Diagnostic) {
	Sort(diags)
	for _, d := range diags {
		f.Format(d)
	}
	if len(diags) > 0 {
		fmt.Fprintln(f.w, f.dimStyle.Render(summary(diags)))
	}
}

func (f *Formatter) styleFor(sev Severity) lipgloss.Style {
	switch sev {
	case SeverityWarning:
		return f.warnStyle
	case SeverityNote:
		return f.noteStyle
	default:
		return f.errStyle
	}
}

func summary(diags []Diagnostic) string {
	counts := map[Severity]int{}
	for _, d := range diags {
		counts[d.Severity]++
	}
	var parts []string
	for _, sev := range []Severity{SeverityError, SeverityWarning, SeverityNote} {
		if n := counts[sev]; n > 0 {
			label := string(sev)
			if n != 1 {
				label += "s"
			}
			parts = append(parts, fmt.Sprintf("%d %s", n, label))
		}
	}
	return strings.Join(parts, ", ")
}
