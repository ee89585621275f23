// Package logger carries the diagnostic lines provisioning code emits.
// Everything goes through the standard log package to stderr, keeping
// stdout clean for --json output. Debug lines only appear when the
// HOSTPREP_DEBUG environment variable is set.
package logger

import (
	"fmt"
	"log"
	"os"
	"strings"
)

// DebugEnv is the environment variable that unlocks debug output.
const DebugEnv = "HOSTPREP_DEBUG"

// Logger accepts printf-style diagnostics at four levels. System-facing
// packages take the interface so tests can silence or record them.
type Logger interface {
	Debug(format string, args ...any)
	Info(format string, args ...any)
	Warn(format string, args ...any)
	Error(format string, args ...any)
}

// stderrLogger writes level-tagged lines through the log package.
type stderrLogger struct{}

func (stderrLogger) Debug(format string, args ...any) {
	if os.Getenv(DebugEnv) == "" {
		return
	}
	log.Printf("DEBUG: "+format, args...)
}

func (stderrLogger) Info(format string, args ...any) {
	log.Printf(format, args...)
}

func (stderrLogger) Warn(format string, args ...any) {
	log.Printf("WARN: "+format, args...)
}

func (stderrLogger) Error(format string, args ...any) {
	log.Printf("ERROR: "+format, args...)
}

// noop drops every message. Doctor probes use it so diagnostics never
// bleed into the check table.
type noop struct{}

// Noop returns a logger that discards all messages.
func Noop() Logger { return noop{} }

func (noop) Debug(string, ...any) {}
func (noop) Info(string, ...any)  {}
func (noop) Warn(string, ...any)  {}
func (noop) Error(string, ...any) {}

// Entry is one recorded log line.
type Entry struct {
	Level   string
	Message string
}

// Capture records log lines so tests can assert on them.
type Capture struct {
	Entries []Entry
}

// NewCapture creates an empty recording logger.
func NewCapture() *Capture { return &Capture{} }

func (c *Capture) record(level, format string, args ...any) {
	c.Entries = append(c.Entries, Entry{Level: level, Message: fmt.Sprintf(format, args...)})
}

func (c *Capture) Debug(format string, args ...any) { c.record("debug", format, args...) }
func (c *Capture) Info(format string, args ...any)  { c.record("info", format, args...) }
func (c *Capture) Warn(format string, args ...any)  { c.record("warn", format, args...) }
func (c *Capture) Error(format string, args ...any) { c.record("error", format, args...) }

// Saw reports whether any line at the given level contains the substring.
func (c *Capture) Saw(level, substr string) bool {
	for _, e := range c.Entries {
		if e.Level == level && strings.Contains(e.Message, substr) {
			return true
		}
	}
	return false
}

var defaultLogger Logger = stderrLogger{}

// Default returns the process-wide logger.
func Default() Logger { return defaultLogger }

// SetDefault swaps the process-wide logger, for tests that need to
// silence packages falling back to Default.
func SetDefault(l Logger) { defaultLogger = l }
