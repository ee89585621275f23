package hostname

import (
	"fmt"
	"os"
	"slices"
	"strings"

	"github.com/rileyhilliard/hostprep/internal/errors"
	"github.com/rileyhilliard/hostprep/internal/platform"
	"github.com/rileyhilliard/hostprep/internal/textfile"
)

// Set applies name as the running system's hostname, preferring
// hostnamectl and falling back to hostname(1) on hosts without it
// (containers, sysv init).
func Set(r platform.Runner, name string) error {
	if _, err := r.LookPath("hostnamectl"); err == nil {
		if _, err := r.Run("hostnamectl", "set-hostname", name); err == nil {
			return nil
		}
	}
	if _, err := r.Run("hostname", name); err != nil {
		return errors.WrapWithCode(err, errors.ErrEnvironment,
			"Couldn't set the system hostname",
			"Check that you're running with enough privilege and that hostnamectl or hostname is available.")
	}
	return nil
}

// Persist writes name to the hostname file, usually /etc/hostname,
// backing up an existing copy first. Writing is skipped when the file
// already holds exactly name.
func Persist(path, name string) (changed bool, err error) {
	current, _, err := textfile.ReadLines(path)
	if err != nil && !os.IsNotExist(err) {
		return false, errors.WrapWithCode(err, errors.ErrEnvironment,
			fmt.Sprintf("Couldn't read %s", path), "")
	}
	if slices.Equal(current, []string{name}) {
		return false, nil
	}

	if textfile.Exists(path) {
		if _, err := textfile.Backup(path); err != nil {
			return false, errors.WrapWithCode(err, errors.ErrEnvironment,
				fmt.Sprintf("Couldn't back up %s", path), "")
		}
	}
	if err := textfile.WriteLinesAtomic(path, []string{name}, true, textfile.FileMode(path, 0644)); err != nil {
		return false, errors.WrapWithCode(err, errors.ErrEnvironment,
			fmt.Sprintf("Couldn't write %s", path), "")
	}
	return true, nil
}

// Current returns the running system hostname, normalized. An empty
// string means it couldn't be determined.
func Current() string {
	name, err := os.Hostname()
	if err != nil {
		return ""
	}
	return Normalize(strings.TrimSpace(name))
}
