package doctor

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/rileyhilliard/hostprep/internal/config"
)

// FileCheck verifies a system file that hostprep reads or rewrites.
// Required files fail when absent; the rest only warn, since hostprep
// creates or installs them on demand.
type FileCheck struct {
	Path     string
	Required bool
	Hint     string // suggestion shown when the file is absent
}

func (c *FileCheck) Name() string     { return fmt.Sprintf("file_%s", filepath.Base(c.Path)) }
func (c *FileCheck) Category() string { return "FILES" }

func (c *FileCheck) Run() CheckResult {
	info, err := os.Stat(c.Path)
	if err != nil {
		if os.IsNotExist(err) {
			status := StatusWarn
			if c.Required {
				status = StatusFail
			}
			return CheckResult{
				Name:       c.Name(),
				Status:     status,
				Message:    fmt.Sprintf("%s not found", c.Path),
				Suggestion: c.Hint,
			}
		}
		return CheckResult{
			Name:       c.Name(),
			Status:     StatusWarn,
			Message:    fmt.Sprintf("Couldn't stat %s: %v", c.Path, err),
			Suggestion: "Check file permissions",
		}
	}

	if info.IsDir() {
		return CheckResult{
			Name:       c.Name(),
			Status:     StatusFail,
			Message:    fmt.Sprintf("%s is a directory, expected a file", c.Path),
			Suggestion: "Remove the directory and restore the file",
		}
	}

	return CheckResult{
		Name:    c.Name(),
		Status:  StatusPass,
		Message: fmt.Sprintf("%s present", c.Path),
	}
}

func (c *FileCheck) Fix() error {
	return nil // hostname and keys create these files with proper content
}

// NewFileChecks creates checks for the files hostprep manages.
func NewFileChecks(cfg *config.Config) []Check {
	return []Check{
		&FileCheck{
			Path:     cfg.Hostname.HostsPath,
			Required: true,
			Hint:     "hostprep refuses to rewrite a missing hosts file; restore it from a backup",
		},
		&FileCheck{
			Path: cfg.Hostname.HostnamePath,
			Hint: "Created automatically the first time 'hostprep hostname' runs",
		},
		&FileCheck{
			Path: cfg.Keys.SshdConfigPath,
			Hint: "Run 'hostprep keys' to install the OpenSSH server",
		},
	}
}
