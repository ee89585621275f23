package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// DoctorCheckRow is one diagnostic line in the doctor report.
type DoctorCheckRow struct {
	Status     string // pass, warn, or fail
	Category   string
	Message    string
	Suggestion string
}

// statusSymbol maps a check status onto its rendered glyph.
func statusSymbol(status string) string {
	switch status {
	case "pass":
		return SuccessStyle().Render(SymbolComplete)
	case "warn":
		return WarningStyle().Render(SymbolWarning)
	case "fail":
		return ErrorStyle().Render(SymbolFail)
	}
	return MutedStyle().Render(SymbolPending)
}

// RenderDoctorTable renders check rows grouped under their category
// headers, categories in first-seen order. Suggestions ride under any
// row that isn't a pass.
func RenderDoctorTable(rows []DoctorCheckRow) string {
	if len(rows) == 0 {
		return "No checks to display"
	}

	grouped := make(map[string][]DoctorCheckRow)
	var order []string
	for _, row := range rows {
		if _, seen := grouped[row.Category]; !seen {
			order = append(order, row.Category)
		}
		grouped[row.Category] = append(grouped[row.Category], row)
	}

	header := lipgloss.NewStyle().Bold(true).Foreground(ColorPrimary)
	var b strings.Builder
	for _, category := range order {
		b.WriteString(header.Render(category))
		b.WriteByte('\n')
		for _, row := range grouped[category] {
			b.WriteString("  " + statusSymbol(row.Status) + " " + row.Message + "\n")
			if row.Suggestion != "" && row.Status != "pass" {
				b.WriteString("    " + MutedStyle().Render(row.Suggestion) + "\n")
			}
		}
		b.WriteByte('\n')
	}
	return b.String()
}
