// Package testing provides test doubles for the platform package.
package testing

import (
	"os/exec"
	"strings"
	"sync"
)

// RunCall records a single command execution.
type RunCall struct {
	Name string
	Args []string
}

// FakeRunner simulates command execution for testing.
type FakeRunner struct {
	mu sync.Mutex

	// Available lists the command names LookPath resolves. Everything
	// else reports exec.ErrNotFound.
	Available []string

	// Outputs maps a full command line ("systemctl is-active sshd") to
	// its canned output.
	Outputs map[string]string

	// Failures maps a full command line to the error Run returns for it.
	Failures map[string]error

	// RunCalls records every Run invocation in order.
	RunCalls []RunCall
}

// NewFakeRunner creates a fake runner whose LookPath resolves the given
// command names.
func NewFakeRunner(available ...string) *FakeRunner {
	return &FakeRunner{
		Available: available,
		Outputs:   make(map[string]string),
		Failures:  make(map[string]error),
	}
}

// Run records the call and returns the configured output and error.
func (r *FakeRunner) Run(name string, args ...string) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.RunCalls = append(r.RunCalls, RunCall{Name: name, Args: args})
	line := commandLine(name, args)
	if err, ok := r.Failures[line]; ok {
		return r.Outputs[line], err
	}
	return r.Outputs[line], nil
}

// LookPath resolves names listed in Available and rejects the rest.
func (r *FakeRunner) LookPath(file string) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, name := range r.Available {
		if name == file {
			return "/usr/bin/" + file, nil
		}
	}
	return "", &exec.Error{Name: file, Err: exec.ErrNotFound}
}

// CommandLines returns each recorded Run call as a single string.
func (r *FakeRunner) CommandLines() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	lines := make([]string, 0, len(r.RunCalls))
	for _, call := range r.RunCalls {
		lines = append(lines, commandLine(call.Name, call.Args))
	}
	return lines
}

func commandLine(name string, args []string) string {
	if len(args) == 0 {
		return name
	}
	return name + " " + strings.Join(args, " ")
}
