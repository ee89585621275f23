package ui

import (
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// SpinnerFrames is the braille scan cycle every embedded spinner animates
// with, so checklist rows and any future Bubble Tea surface move in step.
var SpinnerFrames = spinner.Spinner{
	Frames: []string{"⣾", "⣽", "⣻", "⢿", "⡿", "⣟", "⣯", "⣷"},
	FPS:    time.Second / 16,
}

// SpinnerComponentState tracks one checklist row's lifecycle.
type SpinnerComponentState int

const (
	SpinnerComponentPending SpinnerComponentState = iota
	SpinnerComponentInProgress
	SpinnerComponentSuccess
	SpinnerComponentWarned
	SpinnerComponentFailed
	SpinnerComponentSkipped
)

// settleMark is the glyph and color a row settles into for a given state.
type settleMark struct {
	symbol string
	color  lipgloss.Color
}

var settleMarks = map[SpinnerComponentState]settleMark{
	SpinnerComponentPending: {SymbolPending, ColorMuted},
	SpinnerComponentSuccess: {SymbolComplete, ColorSuccess},
	SpinnerComponentWarned:  {SymbolWarning, ColorWarning},
	SpinnerComponentFailed:  {SymbolFail, ColorError},
	SpinnerComponentSkipped: {SymbolSkipped, ColorWarning},
}

// SpinnerComponent is one animated row inside a larger Bubble Tea model.
// The standalone Spinner owns its terminal line; this one only renders,
// leaving scheduling to the enclosing program.
type SpinnerComponent struct {
	spinner   spinner.Model
	Label     string
	State     SpinnerComponentState
	StartTime time.Time
}

// NewSpinnerComponent returns a pending row with the given label.
func NewSpinnerComponent(label string) SpinnerComponent {
	sp := spinner.New()
	sp.Spinner = SpinnerFrames
	sp.Style = lipgloss.NewStyle().Foreground(ColorSecondary)

	return SpinnerComponent{spinner: sp, Label: label}
}

// Init implements tea.Model for standalone use; composed models start
// rows through Start instead.
func (s SpinnerComponent) Init() tea.Cmd {
	return s.spinner.Tick
}

// Update advances the animation while the row is running. Ticks for
// other spinners are filtered out by the embedded model's ID check.
func (s SpinnerComponent) Update(msg tea.Msg) (SpinnerComponent, tea.Cmd) {
	tick, ok := msg.(spinner.TickMsg)
	if !ok || s.State != SpinnerComponentInProgress {
		return s, nil
	}

	var cmd tea.Cmd
	s.spinner, cmd = s.spinner.Update(tick)
	return s, cmd
}

// View renders the row for its current state.
func (s SpinnerComponent) View() string {
	if s.State == SpinnerComponentInProgress {
		return s.spinner.View() + " " + s.Label + "..."
	}

	mark, ok := settleMarks[s.State]
	if !ok {
		mark = settleMarks[SpinnerComponentPending]
	}

	line := lipgloss.NewStyle().Foreground(mark.color).Render(mark.symbol) + " " + s.Label
	if s.StartTime.IsZero() {
		return line
	}
	elapsed := MutedStyle().Render(formatDuration(time.Since(s.StartTime)))
	return line + " " + elapsed
}

// Start marks the row running and returns the tick that animates it.
func (s *SpinnerComponent) Start() tea.Cmd {
	s.State = SpinnerComponentInProgress
	s.StartTime = time.Now()
	return s.spinner.Tick
}

// Success settles the row as passed.
func (s *SpinnerComponent) Success() { s.State = SpinnerComponentSuccess }

// Warn settles the row as passed with reservations.
func (s *SpinnerComponent) Warn() { s.State = SpinnerComponentWarned }

// Fail settles the row as failed.
func (s *SpinnerComponent) Fail() { s.State = SpinnerComponentFailed }

// Skip settles the row as not applicable.
func (s *SpinnerComponent) Skip() { s.State = SpinnerComponentSkipped }

// Elapsed reports time since Start, zero for rows that never ran.
func (s SpinnerComponent) Elapsed() time.Duration {
	if s.StartTime.IsZero() {
		return 0
	}
	return time.Since(s.StartTime)
}
