package doctor

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestSSHKeyCheck(t *testing.T) {
	check := &SSHKeyCheck{}

	t.Run("name and category", func(t *testing.T) {
		if check.Name() != "ssh_key" {
			t.Errorf("expected name 'ssh_key', got %s", check.Name())
		}
		if check.Category() != "SSH" {
			t.Errorf("expected category 'SSH', got %s", check.Category())
		}
	})

	// The actual Run() result depends on the system's SSH key presence.
	// We just verify it doesn't panic.
	t.Run("run does not panic", func(t *testing.T) {
		_ = check.Run()
	})
}

func TestSSHAgentCheck(t *testing.T) {
	check := &SSHAgentCheck{}

	t.Run("name and category", func(t *testing.T) {
		if check.Name() != "ssh_agent" {
			t.Errorf("expected name 'ssh_agent', got %s", check.Name())
		}
		if check.Category() != "SSH" {
			t.Errorf("expected category 'SSH', got %s", check.Category())
		}
	})

	t.Run("without SSH_AUTH_SOCK", func(t *testing.T) {
		// Save and clear SSH_AUTH_SOCK
		origSock := os.Getenv("SSH_AUTH_SOCK")
		os.Unsetenv("SSH_AUTH_SOCK")
		defer func() {
			if origSock != "" {
				os.Setenv("SSH_AUTH_SOCK", origSock)
			}
		}()

		// No agent is a warning, not a failure: push falls back to key files.
		result := check.Run()
		if result.Status != StatusWarn {
			t.Errorf("expected StatusWarn when SSH_AUTH_SOCK not set, got %v", result.Status)
		}
		if !strings.Contains(result.Suggestion, "ssh-agent") {
			t.Errorf("expected agent hint in suggestion, got %q", result.Suggestion)
		}
	})
}

func TestSSHKeyPermissionsCheck(t *testing.T) {
	t.Run("name and category", func(t *testing.T) {
		check := &SSHKeyPermissionsCheck{}
		if check.Name() != "ssh_key_permissions" {
			t.Errorf("expected name 'ssh_key_permissions', got %s", check.Name())
		}
		if check.Category() != "SSH" {
			t.Errorf("expected category 'SSH', got %s", check.Category())
		}
	})

	t.Run("empty dir passes", func(t *testing.T) {
		check := &SSHKeyPermissionsCheck{Dir: t.TempDir()}
		result := check.Run()
		if result.Status != StatusPass {
			t.Errorf("expected StatusPass, got %v: %s", result.Status, result.Message)
		}
	})

	t.Run("loose permissions warn and are fixable", func(t *testing.T) {
		dir := t.TempDir()
		keyPath := filepath.Join(dir, "id_ed25519")
		if err := os.WriteFile(keyPath, []byte("fake-key"), 0644); err != nil {
			t.Fatal(err)
		}

		check := &SSHKeyPermissionsCheck{Dir: dir}
		result := check.Run()
		if result.Status != StatusWarn {
			t.Fatalf("expected StatusWarn, got %v: %s", result.Status, result.Message)
		}
		if !result.Fixable {
			t.Error("expected loose permissions to be fixable")
		}
		if !strings.Contains(result.Message, "id_ed25519") {
			t.Errorf("expected key name in message, got %q", result.Message)
		}
	})

	t.Run("fix tightens permissions", func(t *testing.T) {
		dir := t.TempDir()
		keyPath := filepath.Join(dir, "id_rsa")
		if err := os.WriteFile(keyPath, []byte("fake-key"), 0644); err != nil {
			t.Fatal(err)
		}

		check := &SSHKeyPermissionsCheck{Dir: dir}
		if err := check.Fix(); err != nil {
			t.Fatalf("Fix() error: %v", err)
		}

		info, err := os.Stat(keyPath)
		if err != nil {
			t.Fatal(err)
		}
		if info.Mode().Perm() != 0600 {
			t.Errorf("expected 0600 after fix, got %o", info.Mode().Perm())
		}

		result := check.Run()
		if result.Status != StatusPass {
			t.Errorf("expected StatusPass after fix, got %v: %s", result.Status, result.Message)
		}
	})

	t.Run("tight permissions pass", func(t *testing.T) {
		dir := t.TempDir()
		if err := os.WriteFile(filepath.Join(dir, "id_ecdsa"), []byte("fake-key"), 0600); err != nil {
			t.Fatal(err)
		}

		check := &SSHKeyPermissionsCheck{Dir: dir}
		result := check.Run()
		if result.Status != StatusPass {
			t.Errorf("expected StatusPass, got %v: %s", result.Status, result.Message)
		}
	})
}

func TestSSHConfigHostsCheck(t *testing.T) {
	t.Run("name and category", func(t *testing.T) {
		check := &SSHConfigHostsCheck{}
		if check.Name() != "ssh_config_hosts" {
			t.Errorf("expected name 'ssh_config_hosts', got %s", check.Name())
		}
		if check.Category() != "SSH" {
			t.Errorf("expected category 'SSH', got %s", check.Category())
		}
	})

	t.Run("missing config passes", func(t *testing.T) {
		check := &SSHConfigHostsCheck{ConfigPath: filepath.Join(t.TempDir(), "config")}
		result := check.Run()
		if result.Status != StatusPass {
			t.Errorf("expected StatusPass, got %v: %s", result.Status, result.Message)
		}
		if !strings.Contains(result.Message, "No hosts") {
			t.Errorf("expected no-hosts message, got %q", result.Message)
		}
	})

	t.Run("counts configured hosts", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config")
		content := `Host web
  HostName web.example.com
  User deploy

Host db
  HostName db.example.com
`
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			t.Fatal(err)
		}

		check := &SSHConfigHostsCheck{ConfigPath: path}
		result := check.Run()
		if result.Status != StatusPass {
			t.Errorf("expected StatusPass, got %v: %s", result.Status, result.Message)
		}
		if !strings.Contains(result.Message, "2 hosts in SSH config") {
			t.Errorf("expected host count in message, got %q", result.Message)
		}
	})
}

func TestNewSSHChecks(t *testing.T) {
	checks := NewSSHChecks()

	if len(checks) != 4 {
		t.Errorf("expected 4 SSH checks, got %d", len(checks))
	}

	// Verify all checks have SSH category
	for _, check := range checks {
		if check.Category() != "SSH" {
			t.Errorf("expected SSH category, got %s", check.Category())
		}
	}

	// Verify check names
	names := make(map[string]bool)
	for _, check := range checks {
		names[check.Name()] = true
	}

	expectedNames := []string{"ssh_key", "ssh_agent", "ssh_key_permissions", "ssh_config_hosts"}
	for _, name := range expectedNames {
		if !names[name] {
			t.Errorf("expected check %q not found", name)
		}
	}
}
