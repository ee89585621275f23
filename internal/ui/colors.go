package ui

import (
	"fmt"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Electric synthwave palette. Every color is a hex value so rendering is
// identical across terminals that support true color; lipgloss degrades
// them for terminals that don't.
const (
	ColorNeonPink   lipgloss.Color = "#FF2E97"
	ColorNeonCyan   lipgloss.Color = "#00FFFF"
	ColorNeonPurple lipgloss.Color = "#BF40FF"
	ColorNeonGreen  lipgloss.Color = "#39FF14"
	ColorNeonOrange lipgloss.Color = "#FF8800"
	ColorNeonAmber  lipgloss.Color = "#FFAA00"

	ColorDeepVoid    lipgloss.Color = "#0A0A0F"
	ColorDarkSurface lipgloss.Color = "#12121A"
	ColorGlassBorder lipgloss.Color = "#2A2A4A"
)

// Semantic colors for status indication
const (
	ColorSuccess lipgloss.Color = "#39FF14" // Neon green
	ColorError   lipgloss.Color = "#FF0055" // Hot red-pink
	ColorWarning lipgloss.Color = "#FFAA00" // Electric amber
	ColorInfo    lipgloss.Color = "#00FFFF" // Neon cyan
)

// Text colors for content hierarchy
const (
	ColorPrimary   lipgloss.Color = "#FFFFFF" // White
	ColorSecondary lipgloss.Color = "#B4B4D0" // Lavender gray
	ColorMuted     lipgloss.Color = "#6B6B8D" // Purple-gray
)

// GradientColors is the animation gradient (pink -> purple -> cyan -> green)
// used by spinners and progress indicators.
var GradientColors = []lipgloss.Color{
	ColorNeonPink,
	ColorNeonPurple,
	ColorNeonCyan,
	ColorNeonGreen,
}

// SuccessStyle returns the style for success messages.
func SuccessStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(ColorSuccess)
}

// ErrorStyle returns the style for error messages.
func ErrorStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(ColorError)
}

// WarningStyle returns the style for warning messages.
func WarningStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(ColorWarning)
}

// InfoStyle returns the style for informational messages.
func InfoStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(ColorInfo)
}

// MutedStyle returns the style for de-emphasized text.
func MutedStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(ColorMuted)
}

// PrintWarning writes a warning line to stderr. Warnings go to stderr so
// they never pollute machine-readable stdout (--json mode).
func PrintWarning(msg string) {
	fmt.Fprintf(os.Stderr, "%s %s\n", WarningStyle().Render(SymbolWarning), msg)
}

// DisableColors forces plain ASCII output for the rest of the process.
// Used when stdout is not a terminal or when emitting JSON.
func DisableColors() {
	lipgloss.SetColorProfile(termenv.Ascii)
}
