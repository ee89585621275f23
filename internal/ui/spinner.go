package ui

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/lipgloss"
)

// SpinnerState tracks where a spinner is in its lifecycle.
type SpinnerState int

const (
	SpinnerPending SpinnerState = iota
	SpinnerInProgress
	SpinnerSuccess
	SpinnerFailed
	SpinnerSkipped
)

// Moon-phase frames for the inline spinner.
var spinnerFrames = []string{"◐", "◓", "◑", "◒"}

const spinnerInterval = 60 * time.Millisecond

// Spinner animates a single in-place status line while a step runs, then
// settles it into a final symbol, label, and elapsed time. Safe to drive
// from the goroutine doing the work.
type Spinner struct {
	mu      sync.Mutex
	label   string
	state   SpinnerState
	frame   int
	started time.Time
	quit    chan struct{}
	parked  chan struct{}
	write   func(string)
	painted int // rune width of the line currently on screen
}

// NewSpinner returns a pending spinner for the given label, writing to
// stdout until SetOutput redirects it.
func NewSpinner(label string) *Spinner {
	return &Spinner{
		label: label,
		write: func(s string) { fmt.Print(s) },
	}
}

// SetOutput redirects the spinner's terminal writes, which tests use to
// capture frames.
func (s *Spinner) SetOutput(fn func(string)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.write = fn
}

// Start paints the first frame and begins animating. Starting a running
// spinner is a no-op.
func (s *Spinner) Start() {
	s.mu.Lock()
	if s.quit != nil {
		s.mu.Unlock()
		return
	}
	s.state = SpinnerInProgress
	s.started = time.Now()
	s.quit = make(chan struct{})
	s.parked = make(chan struct{})
	s.mu.Unlock()

	s.paintFrame()
	go s.loop()
}

// Stop halts the animation without settling the line. Success, Fail, and
// Skip call it; direct use is for abandoning a spinner mid-flight.
func (s *Spinner) Stop() {
	s.mu.Lock()
	if s.quit == nil {
		s.mu.Unlock()
		return
	}
	quit, parked := s.quit, s.parked
	s.quit = nil
	s.mu.Unlock()

	close(quit)
	<-parked
}

// Success settles the line with the completed symbol.
func (s *Spinner) Success() { s.finish(SpinnerSuccess) }

// Fail settles the line with the failure symbol.
func (s *Spinner) Fail() { s.finish(SpinnerFailed) }

// Skip settles the line with the skipped symbol.
func (s *Spinner) Skip() { s.finish(SpinnerSkipped) }

func (s *Spinner) finish(state SpinnerState) {
	s.Stop()
	s.mu.Lock()
	s.state = state
	s.mu.Unlock()
	s.paintFinal()
}

// State reports the spinner's current lifecycle state.
func (s *Spinner) State() SpinnerState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Elapsed reports how long the spinner has been running, zero before Start.
func (s *Spinner) Elapsed() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.started.IsZero() {
		return 0
	}
	return time.Since(s.started)
}

// Label returns the current label.
func (s *Spinner) Label() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.label
}

// SetLabel swaps the label, usually right before settling the line with
// a result summary.
func (s *Spinner) SetLabel(label string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.label = label
}

func (s *Spinner) loop() {
	tick := time.NewTicker(spinnerInterval)
	defer tick.Stop()
	defer close(s.parked)

	for {
		select {
		case <-s.quit:
			return
		case <-tick.C:
			s.mu.Lock()
			s.frame++
			s.mu.Unlock()
			s.paintFrame()
		}
	}
}

// frameStyle picks the gradient color for an animation frame, advancing
// every other frame.
func frameStyle(frame int) lipgloss.Style {
	color := GradientColors[(frame/2)%len(GradientColors)]
	return lipgloss.NewStyle().Foreground(color)
}

func (s *Spinner) paintFrame() {
	s.mu.Lock()
	defer s.mu.Unlock()

	glyph := spinnerFrames[s.frame%len(spinnerFrames)]
	s.paint(fmt.Sprintf("\r%s %s...", frameStyle(s.frame).Render(glyph), s.label))
}

func (s *Spinner) paintFinal() {
	s.mu.Lock()
	defer s.mu.Unlock()

	symbol, color := SymbolPending, ColorMuted
	switch s.state {
	case SpinnerSuccess:
		symbol, color = SymbolComplete, ColorSuccess
	case SpinnerFailed:
		symbol, color = SymbolFail, ColorError
	case SpinnerSkipped:
		symbol, color = SymbolSkipped, ColorWarning
	}

	line := lipgloss.NewStyle().Foreground(color).Render(symbol) + " " + s.label
	if !s.started.IsZero() {
		timing := lipgloss.NewStyle().Foreground(ColorMuted).Render(formatDuration(time.Since(s.started)))
		line += " " + timing
	}
	s.paint(line + "\n")
}

// paint erases whatever this spinner last wrote and puts line in its
// place. Callers hold s.mu.
func (s *Spinner) paint(line string) {
	if s.painted > 0 {
		s.write("\r" + strings.Repeat(" ", s.painted) + "\r")
	}
	s.write(line)
	s.painted = len([]rune(line))
}

// formatDuration renders an elapsed time the way step lines show it,
// with a second decimal below the tenth-of-a-second floor.
func formatDuration(d time.Duration) string {
	if d < 100*time.Millisecond {
		return fmt.Sprintf("%.2fs", d.Seconds())
	}
	return fmt.Sprintf("%.1fs", d.Seconds())
}
