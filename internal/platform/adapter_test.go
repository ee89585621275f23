package platform

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rileyhilliard/hostprep/internal/errors"
	"github.com/rileyhilliard/hostprep/internal/logger"
	platformtesting "github.com/rileyhilliard/hostprep/internal/platform/testing"
)

func TestDetect(t *testing.T) {
	tests := []struct {
		name      string
		available []string
		wantPM    string
		wantSvc   string
	}{
		{
			name:      "debian-like host",
			available: []string{"apt-get", "systemctl"},
			wantPM:    "apt-get",
			wantSvc:   "systemctl",
		},
		{
			name:      "fedora-like host",
			available: []string{"dnf", "systemctl"},
			wantPM:    "dnf",
			wantSvc:   "systemctl",
		},
		{
			name:      "probe order prefers apt-get",
			available: []string{"dnf", "apt-get", "systemctl"},
			wantPM:    "apt-get",
			wantSvc:   "systemctl",
		},
		{
			name:      "sysv init only",
			available: []string{"apk", "service"},
			wantPM:    "apk",
			wantSvc:   "service",
		},
		{
			name:      "nothing detected",
			available: nil,
			wantPM:    "",
			wantSvc:   "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake := platformtesting.NewFakeRunner(tt.available...)
			a := Detect(fake, logger.Noop())
			assert.Equal(t, tt.wantPM, a.PackageManager())
			assert.Equal(t, tt.wantSvc, a.ServiceManager())
		})
	}
}

func TestSSHServerPackage(t *testing.T) {
	tests := []struct {
		pm   string
		want string
	}{
		{"apt-get", "openssh-server"},
		{"dnf", "openssh-server"},
		{"yum", "openssh-server"},
		{"zypper", "openssh"},
		{"pacman", "openssh"},
		{"apk", "openssh"},
		{"", "openssh-server"},
	}

	for _, tt := range tests {
		a := &Adapter{pm: tt.pm}
		assert.Equal(t, tt.want, a.SSHServerPackage(), "pm=%q", tt.pm)
	}
}

func TestInstallPackage(t *testing.T) {
	t.Run("runs the manager's install command", func(t *testing.T) {
		fake := platformtesting.NewFakeRunner("apt-get", "systemctl")
		a := Detect(fake, logger.Noop())

		err := a.InstallPackage("openssh-server")
		require.NoError(t, err)
		assert.Contains(t, fake.CommandLines(), "apt-get install -y openssh-server")
	})

	t.Run("pacman uses noconfirm", func(t *testing.T) {
		fake := platformtesting.NewFakeRunner("pacman")
		a := Detect(fake, logger.Noop())

		err := a.InstallPackage("openssh")
		require.NoError(t, err)
		assert.Contains(t, fake.CommandLines(), "pacman -S --noconfirm openssh")
	})

	t.Run("fails without a package manager", func(t *testing.T) {
		fake := platformtesting.NewFakeRunner("systemctl")
		a := Detect(fake, logger.Noop())

		err := a.InstallPackage("openssh-server")
		require.Error(t, err)
		assert.True(t, errors.IsCode(err, errors.ErrEnvironment))
		assert.Contains(t, err.Error(), "No supported package manager")
	})

	t.Run("wraps install failures", func(t *testing.T) {
		fake := platformtesting.NewFakeRunner("apt-get")
		fake.Outputs["apt-get install -y openssh-server"] = "E: Unable to locate package"
		fake.Failures["apt-get install -y openssh-server"] = fmt.Errorf("exit status 100")
		log := logger.NewCapture()
		a := Detect(fake, log)

		err := a.InstallPackage("openssh-server")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "Couldn't install openssh-server")
		assert.True(t, log.Saw("debug", "Unable to locate package"),
			"the manager's output should land in the debug log")
	})
}

func TestEnableService(t *testing.T) {
	t.Run("stops at the first success", func(t *testing.T) {
		fake := platformtesting.NewFakeRunner("systemctl")
		a := Detect(fake, logger.Noop())

		a.EnableService("sshd", "ssh")
		assert.Equal(t, []string{"systemctl enable sshd"}, fake.CommandLines())
	})

	t.Run("falls back to the next candidate", func(t *testing.T) {
		fake := platformtesting.NewFakeRunner("systemctl")
		fake.Failures["systemctl enable sshd"] = fmt.Errorf("unit not found")
		a := Detect(fake, logger.Noop())

		a.EnableService("sshd", "ssh")
		assert.Equal(t, []string{
			"systemctl enable sshd",
			"systemctl enable ssh",
		}, fake.CommandLines())
	})

	t.Run("skips on sysv init", func(t *testing.T) {
		fake := platformtesting.NewFakeRunner("service")
		a := Detect(fake, logger.Noop())

		a.EnableService("sshd", "ssh")
		assert.Empty(t, fake.CommandLines())
	})
}

func TestStartService(t *testing.T) {
	t.Run("systemctl", func(t *testing.T) {
		fake := platformtesting.NewFakeRunner("systemctl")
		a := Detect(fake, logger.Noop())

		a.StartService("sshd")
		assert.Equal(t, []string{"systemctl start sshd"}, fake.CommandLines())
	})

	t.Run("service puts the verb last", func(t *testing.T) {
		fake := platformtesting.NewFakeRunner("service")
		a := Detect(fake, logger.Noop())

		a.StartService("sshd")
		assert.Equal(t, []string{"service sshd start"}, fake.CommandLines())
	})

	t.Run("no service manager", func(t *testing.T) {
		fake := platformtesting.NewFakeRunner()
		a := Detect(fake, logger.Noop())

		a.StartService("sshd")
		assert.Empty(t, fake.CommandLines())
	})
}

func TestRestartService(t *testing.T) {
	fake := platformtesting.NewFakeRunner("systemctl")
	fake.Failures["systemctl restart sshd"] = fmt.Errorf("unit not found")
	a := Detect(fake, logger.Noop())

	a.RestartService("sshd", "ssh")
	assert.Equal(t, []string{
		"systemctl restart sshd",
		"systemctl restart ssh",
	}, fake.CommandLines())
}

func TestServiceActive(t *testing.T) {
	t.Run("active unit", func(t *testing.T) {
		fake := platformtesting.NewFakeRunner("systemctl")
		fake.Outputs["systemctl is-active sshd"] = "active"
		a := Detect(fake, logger.Noop())

		assert.True(t, a.ServiceActive("sshd", "ssh"))
	})

	t.Run("inactive unit", func(t *testing.T) {
		fake := platformtesting.NewFakeRunner("systemctl")
		fake.Outputs["systemctl is-active sshd"] = "inactive"
		fake.Failures["systemctl is-active sshd"] = fmt.Errorf("exit status 3")
		fake.Outputs["systemctl is-active ssh"] = "inactive"
		fake.Failures["systemctl is-active ssh"] = fmt.Errorf("exit status 3")
		a := Detect(fake, logger.Noop())

		assert.False(t, a.ServiceActive("sshd", "ssh"))
	})

	t.Run("second candidate is active", func(t *testing.T) {
		fake := platformtesting.NewFakeRunner("systemctl")
		fake.Failures["systemctl is-active sshd"] = fmt.Errorf("exit status 4")
		fake.Outputs["systemctl is-active ssh"] = "active"
		a := Detect(fake, logger.Noop())

		assert.True(t, a.ServiceActive("sshd", "ssh"))
	})

	t.Run("sysv status", func(t *testing.T) {
		fake := platformtesting.NewFakeRunner("service")
		a := Detect(fake, logger.Noop())

		assert.True(t, a.ServiceActive("sshd"))
	})
}

func TestRestoreContext(t *testing.T) {
	t.Run("runs restorecon when present", func(t *testing.T) {
		fake := platformtesting.NewFakeRunner("restorecon")
		a := Detect(fake, logger.Noop())

		a.RestoreContext("/home/alice/.ssh")
		assert.Contains(t, fake.CommandLines(), "restorecon -R /home/alice/.ssh")
	})

	t.Run("silent when absent", func(t *testing.T) {
		fake := platformtesting.NewFakeRunner()
		a := Detect(fake, logger.Noop())

		a.RestoreContext("/home/alice/.ssh")
		assert.Empty(t, fake.CommandLines())
	})
}
