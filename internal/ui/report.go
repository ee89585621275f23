package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Change actions reported after a command run.
const (
	ActionCreated   = "created"
	ActionUpdated   = "updated"
	ActionUnchanged = "unchanged"
)

// FileChange records the outcome for one file a command touched.
type FileChange struct {
	Path   string // File that was examined or modified
	Action string // One of the Action* constants
	Detail string // Optional context (e.g., "3 keys added")
	Backup string // Backup path, if one was written
}

// ChangeRenderer formats file-change reports for terminal display.
type ChangeRenderer struct {
	changedStyle   lipgloss.Style
	unchangedStyle lipgloss.Style
	pathStyle      lipgloss.Style
	mutedStyle     lipgloss.Style
}

// NewChangeRenderer creates a new change renderer with default styles.
func NewChangeRenderer() *ChangeRenderer {
	return &ChangeRenderer{
		changedStyle:   lipgloss.NewStyle().Foreground(ColorSuccess),
		unchangedStyle: lipgloss.NewStyle().Foreground(ColorMuted),
		pathStyle:      lipgloss.NewStyle().Foreground(ColorInfo),
		mutedStyle:     lipgloss.NewStyle().Foreground(ColorMuted),
	}
}

// RenderChanges generates a formatted report of file changes.
// Returns an empty string when there is nothing to report.
func RenderChanges(changes []FileChange) string {
	r := NewChangeRenderer()
	return r.Render(changes)
}

// Render generates the formatted report string.
func (r *ChangeRenderer) Render(changes []FileChange) string {
	if len(changes) == 0 {
		return ""
	}

	var sb strings.Builder

	for _, change := range changes {
		var symbol string
		switch change.Action {
		case ActionUnchanged:
			symbol = r.unchangedStyle.Render(SymbolSkipped)
		default:
			symbol = r.changedStyle.Render(SymbolSuccess)
		}

		sb.WriteString(symbol)
		sb.WriteString(" ")
		sb.WriteString(r.pathStyle.Render(change.Path))
		sb.WriteString(" ")
		sb.WriteString(change.Action)

		if change.Detail != "" {
			sb.WriteString(" ")
			sb.WriteString(r.mutedStyle.Render("(" + change.Detail + ")"))
		}
		sb.WriteString("\n")

		if change.Backup != "" {
			sb.WriteString("    ")
			sb.WriteString(r.mutedStyle.Render("backup: " + change.Backup))
			sb.WriteString("\n")
		}
	}

	return sb.String()
}
