// Package platform probes the host for its package manager and service
// manager, and wraps the system commands provisioning shells out to.
// Probing happens once at startup; the rest of the run reuses the result.
package platform

import (
	"os/exec"
	"strings"
)

// Runner executes system commands. The production implementation shells
// out; tests substitute a fake.
type Runner interface {
	// Run executes a command and returns its combined output with
	// surrounding whitespace trimmed.
	Run(name string, args ...string) (string, error)
	// LookPath reports the absolute path of a command, or an error
	// when it isn't on PATH.
	LookPath(file string) (string, error)
}

// ExecRunner runs commands through os/exec.
type ExecRunner struct{}

// Run executes a command and returns its combined stdout and stderr.
func (ExecRunner) Run(name string, args ...string) (string, error) {
	out, err := exec.Command(name, args...).CombinedOutput()
	return strings.TrimSpace(string(out)), err
}

// LookPath resolves a command name against PATH.
func (ExecRunner) LookPath(file string) (string, error) {
	return exec.LookPath(file)
}
