// Package cloudinit keeps cloud-init from undoing a hostname change: it
// drops a preserve_hostname override into cloud.cfg.d and runs the hosts
// reconciliation over cloud-init's hosts templates.
package cloudinit

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/rileyhilliard/hostprep/internal/errors"
	"github.com/rileyhilliard/hostprep/internal/hostsfile"
	"github.com/rileyhilliard/hostprep/internal/textfile"
)

// PreserveFileName is the drop-in written under cloud.cfg.d.
const PreserveFileName = "99-hostname-preserve.cfg"

type preserveConfig struct {
	PreserveHostname bool `yaml:"preserve_hostname"`
}

// WritePreserve drops preserve_hostname: true into cfgDir. A missing
// cfgDir means cloud-init isn't installed; that's a skip, not an error.
// A drop-in that already carries the directive is left alone; the check
// parses the yaml, so a commented-out directive doesn't count.
func WritePreserve(cfgDir string) (wrote bool, err error) {
	if !textfile.Exists(cfgDir) {
		return false, nil
	}

	path := filepath.Join(cfgDir, PreserveFileName)
	if existing, readErr := os.ReadFile(path); readErr == nil {
		var current preserveConfig
		if yaml.Unmarshal(existing, &current) == nil && current.PreserveHostname {
			return false, nil
		}
	}

	data, err := yaml.Marshal(preserveConfig{PreserveHostname: true})
	if err != nil {
		return false, errors.Wrap(err, "Couldn't render the cloud-init drop-in")
	}
	lines := []string{
		"# Added by hostprep: keep the configured hostname across reboots.",
		strings.TrimSuffix(string(data), "\n"),
	}

	if textfile.Exists(path) {
		if _, err := textfile.Backup(path); err != nil {
			return false, errors.WrapWithCode(err, errors.ErrEnvironment,
				fmt.Sprintf("Couldn't back up %s", path), "")
		}
	}
	if err := textfile.WriteLinesAtomic(path, lines, true, 0644); err != nil {
		return false, errors.WrapWithCode(err, errors.ErrEnvironment,
			fmt.Sprintf("Couldn't write %s", path), "")
	}
	return true, nil
}

// ReconcileTemplates applies the hosts reconciliation to every
// hosts.*.tmpl under tmplDir and returns the paths that changed. A
// missing or empty template directory is a no-op.
func ReconcileTemplates(tmplDir string, opts hostsfile.Options) ([]string, error) {
	matches, err := filepath.Glob(filepath.Join(tmplDir, "hosts.*.tmpl"))
	if err != nil {
		return nil, errors.Wrap(err, "Couldn't scan the cloud-init template directory")
	}

	var updated []string
	for _, path := range matches {
		action, err := hostsfile.Update(path, opts)
		if err != nil {
			return updated, err
		}
		switch action {
		case hostsfile.ActionUnchanged, hostsfile.ActionSkipped:
		default:
			updated = append(updated, path)
		}
	}
	return updated, nil
}
