package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Status marks a report row as healthy or failing.
type Status int

const (
	StatusNone Status = iota
	StatusOK
	StatusFail
)

// Row is one key/value line of a report section.
type Row struct {
	Key    string
	Value  string
	Status Status
}

// Section is a titled group of rows.
type Section struct {
	Heading string
	Rows    []Row
	// Empty is shown instead of the rows when there are none.
	Empty string
}

// Report is a static, titled list of sections.
type Report struct {
	Title    string
	Sections []Section
}

var reportTitleStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(ColorPrimary).
	BorderStyle(lipgloss.NormalBorder()).
	BorderBottom(true).
	BorderForeground(ColorMuted)

var (
	reportHeadingStyle = lipgloss.NewStyle().Bold(true).Foreground(ColorSecondary)
	reportKeyStyle     = lipgloss.NewStyle().Foreground(ColorMuted)
	reportMutedStyle   = lipgloss.NewStyle().Foreground(ColorMuted).Italic(true)
)

// Render lays the report out with keys aligned per section.
func (r Report) Render() string {
	var b strings.Builder
	b.WriteString(reportTitleStyle.Render(r.Title))
	b.WriteString("\n")

	for _, sec := range r.Sections {
		b.WriteString("\n")
		b.WriteString(reportHeadingStyle.Render(sec.Heading))
		b.WriteString("\n")

		if len(sec.Rows) == 0 {
			b.WriteString("  " + reportMutedStyle.Render(sec.Empty) + "\n")
			continue
		}

		width := 0
		for _, row := range sec.Rows {
			width = max(width, lipgloss.Width(row.Key))
		}
		for _, row := range sec.Rows {
			b.WriteString("  ")
			b.WriteString(statusSymbol(row.Status))
			b.WriteString(reportKeyStyle.Width(width).Render(row.Key))
			if row.Value != "" {
				b.WriteString("  " + row.Value)
			}
			b.WriteString("\n")
		}
	}
	return b.String()
}

func statusSymbol(s Status) string {
	switch s {
	case StatusOK:
		return lipgloss.NewStyle().Foreground(ColorSuccess).Render(SymbolSuccess) + " "
	case StatusFail:
		return lipgloss.NewStyle().Foreground(ColorError).Render(SymbolFail) + " "
	default:
		return SymbolBullet + " "
	}
}
