package doctor

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rileyhilliard/hostprep/internal/config"
	platformtesting "github.com/rileyhilliard/hostprep/internal/platform/testing"
)

func TestPrivilegeCheck(t *testing.T) {
	check := &PrivilegeCheck{}

	t.Run("name and category", func(t *testing.T) {
		if check.Name() != "privilege" {
			t.Errorf("expected name 'privilege', got %s", check.Name())
		}
		if check.Category() != "SYSTEM" {
			t.Errorf("expected category 'SYSTEM', got %s", check.Category())
		}
	})

	t.Run("status matches euid", func(t *testing.T) {
		result := check.Run()
		if os.Geteuid() == 0 {
			if result.Status != StatusPass {
				t.Errorf("expected StatusPass as root, got %v", result.Status)
			}
		} else {
			if result.Status != StatusWarn {
				t.Errorf("expected StatusWarn as non-root, got %v", result.Status)
			}
			if result.Suggestion == "" {
				t.Error("non-root warning should carry a suggestion")
			}
		}
	})
}

func TestCommandCheck(t *testing.T) {
	t.Run("name includes command", func(t *testing.T) {
		check := &CommandCheck{Command: "hostnamectl"}
		if check.Name() != "command_hostnamectl" {
			t.Errorf("expected name 'command_hostnamectl', got %s", check.Name())
		}
		if check.Category() != "SYSTEM" {
			t.Errorf("expected category 'SYSTEM', got %s", check.Category())
		}
	})

	t.Run("found on PATH", func(t *testing.T) {
		check := &CommandCheck{
			Command: "hostnamectl",
			Runner:  platformtesting.NewFakeRunner("hostnamectl"),
		}
		result := check.Run()
		if result.Status != StatusPass {
			t.Errorf("expected StatusPass, got %v: %s", result.Status, result.Message)
		}
		if !strings.Contains(result.Message, "/usr/bin/hostnamectl") {
			t.Errorf("expected resolved path in message, got %q", result.Message)
		}
	})

	t.Run("missing warns with hint", func(t *testing.T) {
		check := &CommandCheck{
			Command: "hostnamectl",
			Missing: "falls back to hostname(1)",
			Runner:  platformtesting.NewFakeRunner(),
		}
		result := check.Run()
		if result.Status != StatusWarn {
			t.Errorf("expected StatusWarn, got %v", result.Status)
		}
		if result.Suggestion != "falls back to hostname(1)" {
			t.Errorf("expected hint as suggestion, got %q", result.Suggestion)
		}
	})

	t.Run("alt path satisfies", func(t *testing.T) {
		tmpDir := t.TempDir()
		sshdPath := filepath.Join(tmpDir, "sshd")
		if err := os.WriteFile(sshdPath, []byte("#!/bin/sh\n"), 0755); err != nil {
			t.Fatal(err)
		}

		check := &CommandCheck{
			Command:  "sshd",
			AltPaths: []string{sshdPath},
			Runner:   platformtesting.NewFakeRunner(),
		}
		result := check.Run()
		if result.Status != StatusPass {
			t.Errorf("expected StatusPass via alt path, got %v: %s", result.Status, result.Message)
		}
		if !strings.Contains(result.Message, sshdPath) {
			t.Errorf("expected alt path in message, got %q", result.Message)
		}
	})
}

func TestManagersCheck(t *testing.T) {
	t.Run("name and category", func(t *testing.T) {
		check := &ManagersCheck{}
		if check.Name() != "managers" {
			t.Errorf("expected name 'managers', got %s", check.Name())
		}
		if check.Category() != "SYSTEM" {
			t.Errorf("expected category 'SYSTEM', got %s", check.Category())
		}
	})

	tests := []struct {
		name      string
		available []string
		status    CheckStatus
		contains  string
	}{
		{
			name:      "both detected",
			available: []string{"apt-get", "systemctl"},
			status:    StatusPass,
			contains:  "apt-get",
		},
		{
			name:      "neither detected",
			available: nil,
			status:    StatusWarn,
			contains:  "No package or service manager",
		},
		{
			name:      "package manager only",
			available: []string{"dnf"},
			status:    StatusWarn,
			contains:  "no service manager",
		},
		{
			name:      "service manager only",
			available: []string{"systemctl"},
			status:    StatusWarn,
			contains:  "no supported package manager",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			check := &ManagersCheck{Runner: platformtesting.NewFakeRunner(tt.available...)}
			result := check.Run()
			if result.Status != tt.status {
				t.Errorf("expected %v, got %v: %s", tt.status, result.Status, result.Message)
			}
			if !strings.Contains(result.Message, tt.contains) {
				t.Errorf("expected message containing %q, got %q", tt.contains, result.Message)
			}
		})
	}
}

func TestOSFamilyCheck(t *testing.T) {
	writeRelease := func(t *testing.T, content string) string {
		t.Helper()
		path := filepath.Join(t.TempDir(), "os-release")
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			t.Fatal(err)
		}
		return path
	}

	t.Run("name and category", func(t *testing.T) {
		check := &OSFamilyCheck{}
		if check.Name() != "os_family" {
			t.Errorf("expected name 'os_family', got %s", check.Name())
		}
		if check.Category() != "SYSTEM" {
			t.Errorf("expected category 'SYSTEM', got %s", check.Category())
		}
	})

	t.Run("safe family passes", func(t *testing.T) {
		path := writeRelease(t, "ID=ubuntu\nID_LIKE=debian\nPRETTY_NAME=\"Ubuntu 24.04 LTS\"\n")
		check := &OSFamilyCheck{ReleasePath: path, SafeFamilies: []string{"debian", "ubuntu"}}
		result := check.Run()
		if result.Status != StatusPass {
			t.Errorf("expected StatusPass, got %v: %s", result.Status, result.Message)
		}
		if !strings.Contains(result.Message, "Ubuntu 24.04 LTS") {
			t.Errorf("expected pretty name in message, got %q", result.Message)
		}
	})

	t.Run("unknown family warns", func(t *testing.T) {
		path := writeRelease(t, "ID=fedora\nPRETTY_NAME=\"Fedora Linux 41\"\n")
		check := &OSFamilyCheck{ReleasePath: path, SafeFamilies: []string{"debian", "ubuntu"}}
		result := check.Run()
		if result.Status != StatusWarn {
			t.Errorf("expected StatusWarn, got %v", result.Status)
		}
		if !strings.Contains(result.Message, "(debian, ubuntu)") {
			t.Errorf("expected safe list in message, got %q", result.Message)
		}
		if !strings.Contains(result.Suggestion, "--force-hosts") {
			t.Errorf("expected --force-hosts suggestion, got %q", result.Suggestion)
		}
	})

	t.Run("missing file warns", func(t *testing.T) {
		check := &OSFamilyCheck{
			ReleasePath:  filepath.Join(t.TempDir(), "missing"),
			SafeFamilies: []string{"debian"},
		}
		result := check.Run()
		if result.Status != StatusWarn {
			t.Errorf("expected StatusWarn, got %v", result.Status)
		}
	})
}

func TestHostnameValidCheck(t *testing.T) {
	check := &HostnameValidCheck{}

	t.Run("name and category", func(t *testing.T) {
		if check.Name() != "hostname_valid" {
			t.Errorf("expected name 'hostname_valid', got %s", check.Name())
		}
		if check.Category() != "SYSTEM" {
			t.Errorf("expected category 'SYSTEM', got %s", check.Category())
		}
	})

	// Result depends on the machine's hostname; just verify it runs.
	t.Run("run does not panic", func(t *testing.T) {
		_ = check.Run()
	})
}

func TestNewSystemChecks(t *testing.T) {
	checks := NewSystemChecks(config.DefaultConfig())

	if len(checks) != 6 {
		t.Errorf("expected 6 system checks, got %d", len(checks))
	}

	for _, check := range checks {
		if check.Category() != "SYSTEM" {
			t.Errorf("expected SYSTEM category, got %s", check.Category())
		}
	}
}
