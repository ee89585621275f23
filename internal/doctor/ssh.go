package doctor

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rileyhilliard/hostprep/internal/keys"
	"github.com/rileyhilliard/hostprep/pkg/sshutil"
)

// SSHKeyCheck verifies the invoking user has SSH keys to push.
type SSHKeyCheck struct{}

func (c *SSHKeyCheck) Name() string     { return "ssh_key" }
func (c *SSHKeyCheck) Category() string { return "SSH" }

func (c *SSHKeyCheck) Run() CheckResult {
	local := keys.FindLocalKeys()
	if len(local) == 0 {
		return CheckResult{
			Name:       c.Name(),
			Status:     StatusFail,
			Message:    "No SSH keys found in ~/.ssh",
			Suggestion: "Generate one with: ssh-keygen -t ed25519 ('hostprep push' can also do this)",
		}
	}

	var types []string
	withPublic := 0
	for _, key := range local {
		types = append(types, key.Type)
		if key.HasPublic {
			withPublic++
		}
	}

	if withPublic == 0 {
		return CheckResult{
			Name:       c.Name(),
			Status:     StatusWarn,
			Message:    fmt.Sprintf("%d private key%s found, but no public halves", len(local), pluralize(len(local))),
			Suggestion: "Recreate one with: ssh-keygen -y -f ~/.ssh/<key> > ~/.ssh/<key>.pub",
		}
	}

	return CheckResult{
		Name:    c.Name(),
		Status:  StatusPass,
		Message: fmt.Sprintf("%d SSH key%s found (%s)", len(local), pluralize(len(local)), strings.Join(types, ", ")),
	}
}

func (c *SSHKeyCheck) Fix() error {
	return nil // Generating a key unprompted is too invasive for --fix
}

// SSHAgentCheck reports whether an SSH agent is available. Push works
// without one, falling back to key files, so this never fails outright.
type SSHAgentCheck struct{}

func (c *SSHAgentCheck) Name() string     { return "ssh_agent" }
func (c *SSHAgentCheck) Category() string { return "SSH" }

func (c *SSHAgentCheck) Run() CheckResult {
	if os.Getenv("SSH_AUTH_SOCK") == "" {
		return CheckResult{
			Name:       c.Name(),
			Status:     StatusWarn,
			Message:    "ssh-agent not running",
			Suggestion: "'hostprep push' falls back to key files; start one with: eval $(ssh-agent) && ssh-add",
		}
	}

	if !sshutil.AgentHasKeys() {
		return CheckResult{
			Name:       c.Name(),
			Status:     StatusWarn,
			Message:    "ssh-agent socket present but no usable keys",
			Suggestion: "Load a key with: ssh-add",
		}
	}

	return CheckResult{
		Name:    c.Name(),
		Status:  StatusPass,
		Message: "ssh-agent running with keys loaded",
	}
}

func (c *SSHAgentCheck) Fix() error {
	return nil // ssh-add may prompt for a passphrase, so not auto-fixable
}

// SSHKeyPermissionsCheck verifies private keys aren't group or world
// readable. Dir overrides ~/.ssh for testing.
type SSHKeyPermissionsCheck struct {
	Dir string
}

func (c *SSHKeyPermissionsCheck) Name() string     { return "ssh_key_permissions" }
func (c *SSHKeyPermissionsCheck) Category() string { return "SSH" }

func (c *SSHKeyPermissionsCheck) dir() string {
	if c.Dir != "" {
		return c.Dir
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".ssh")
}

// insecureKeys lists private keys in dir with group or world bits set.
func insecureKeys(dir string) (insecure []string, found bool) {
	for _, name := range []string{"id_ed25519", "id_ecdsa", "id_rsa"} {
		keyPath := filepath.Join(dir, name)
		info, err := os.Stat(keyPath)
		if err != nil {
			continue
		}
		found = true
		if info.Mode().Perm()&0077 != 0 {
			insecure = append(insecure, keyPath)
		}
	}
	return insecure, found
}

func (c *SSHKeyPermissionsCheck) Run() CheckResult {
	dir := c.dir()
	if dir == "" {
		return CheckResult{
			Name:    c.Name(),
			Status:  StatusPass,
			Message: "No home directory to check",
		}
	}

	insecure, found := insecureKeys(dir)
	if !found {
		return CheckResult{
			Name:    c.Name(),
			Status:  StatusPass,
			Message: "No private keys to check",
		}
	}

	if len(insecure) > 0 {
		var names []string
		for _, p := range insecure {
			names = append(names, filepath.Base(p))
		}
		return CheckResult{
			Name:       c.Name(),
			Status:     StatusWarn,
			Message:    fmt.Sprintf("Loose permissions on: %s", strings.Join(names, ", ")),
			Suggestion: "Fix: chmod 600 ~/.ssh/<keyfile>, or run 'hostprep doctor --fix'",
			Fixable:    true,
		}
	}

	return CheckResult{
		Name:    c.Name(),
		Status:  StatusPass,
		Message: "SSH key permissions OK",
	}
}

func (c *SSHKeyPermissionsCheck) Fix() error {
	dir := c.dir()
	if dir == "" {
		return nil
	}

	insecure, _ := insecureKeys(dir)
	for _, keyPath := range insecure {
		if err := os.Chmod(keyPath, 0600); err != nil {
			return fmt.Errorf("failed to fix permissions on %s: %w", keyPath, err)
		}
	}
	return nil
}

// SSHConfigHostsCheck counts push targets defined in the SSH config.
type SSHConfigHostsCheck struct {
	ConfigPath string // Explicit path, or empty for ~/.ssh/config
}

func (c *SSHConfigHostsCheck) Name() string     { return "ssh_config_hosts" }
func (c *SSHConfigHostsCheck) Category() string { return "SSH" }

func (c *SSHConfigHostsCheck) Run() CheckResult {
	var hosts []sshutil.SSHHostEntry
	var err error
	if c.ConfigPath != "" {
		hosts, err = sshutil.ParseSSHConfigFile(c.ConfigPath)
	} else {
		hosts, err = sshutil.ParseSSHConfig()
	}
	if err != nil {
		return CheckResult{
			Name:       c.Name(),
			Status:     StatusWarn,
			Message:    "Couldn't parse ~/.ssh/config",
			Suggestion: fmt.Sprintf("Check the file for syntax errors: %v", err),
		}
	}

	if len(hosts) == 0 {
		return CheckResult{
			Name:    c.Name(),
			Status:  StatusPass,
			Message: "No hosts in ~/.ssh/config ('hostprep push' also accepts user@host targets)",
		}
	}

	withKeys := sshutil.FilterHostsWithKeys(hosts)
	return CheckResult{
		Name:   c.Name(),
		Status: StatusPass,
		Message: fmt.Sprintf("%d host%s in SSH config, %d with identity files",
			len(hosts), pluralize(len(hosts)), len(withKeys)),
	}
}

func (c *SSHConfigHostsCheck) Fix() error {
	return nil
}

// NewSSHChecks creates all SSH-related checks.
func NewSSHChecks() []Check {
	return []Check{
		&SSHKeyCheck{},
		&SSHAgentCheck{},
		&SSHKeyPermissionsCheck{},
		&SSHConfigHostsCheck{},
	}
}
