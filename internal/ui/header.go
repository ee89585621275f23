package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// HeaderWidth is how wide the divider under the banner runs.
const HeaderWidth = 50

// HeaderInfo carries the banner fields. Version is required; Tagline
// and Host are skipped when empty.
type HeaderInfo struct {
	Version string
	Tagline string
	Host    string
}

// RenderHeader builds the command banner: the tool name and version on
// one line, then the optional tagline and current hostname, closed off
// with a divider.
func RenderHeader(info HeaderInfo) string {
	name := lipgloss.NewStyle().Foreground(ColorNeonPink).Bold(true).Render("hostprep")
	version := lipgloss.NewStyle().Foreground(ColorNeonCyan).Render(info.Version)

	lines := []string{name + " " + version}
	if info.Tagline != "" {
		lines = append(lines, lipgloss.NewStyle().Foreground(ColorSecondary).Render(info.Tagline))
	}
	if info.Host != "" {
		lines = append(lines, MutedStyle().Render(info.Host))
	}

	divider := lipgloss.NewStyle().Foreground(ColorGlassBorder)
	lines = append(lines, divider.Render(strings.Repeat("━", HeaderWidth)))

	return strings.Join(lines, "\n") + "\n"
}

// PrintHeader writes the banner to stdout.
func PrintHeader(info HeaderInfo) {
	fmt.Print(RenderHeader(info))
}
