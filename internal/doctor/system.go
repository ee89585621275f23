package doctor

import (
	"fmt"
	"os"

	"github.com/rileyhilliard/hostprep/internal/config"
	"github.com/rileyhilliard/hostprep/internal/hostname"
	"github.com/rileyhilliard/hostprep/internal/logger"
	"github.com/rileyhilliard/hostprep/internal/platform"
	"github.com/rileyhilliard/hostprep/internal/util"
)

// PrivilegeCheck reports whether hostprep is running with root privileges.
// Doctor itself never needs root, but hostname and keys do.
type PrivilegeCheck struct{}

func (c *PrivilegeCheck) Name() string     { return "privilege" }
func (c *PrivilegeCheck) Category() string { return "SYSTEM" }

func (c *PrivilegeCheck) Run() CheckResult {
	if os.Geteuid() == 0 {
		return CheckResult{
			Name:    c.Name(),
			Status:  StatusPass,
			Message: "Running with root privileges",
		}
	}
	return CheckResult{
		Name:       c.Name(),
		Status:     StatusWarn,
		Message:    "Not running as root",
		Suggestion: "'hostname' and 'keys' modify system files; run them with sudo",
	}
}

func (c *PrivilegeCheck) Fix() error {
	return nil // Cannot escalate privileges on the user's behalf
}

// CommandCheck verifies a command is available, either on PATH or at one
// of the alternate absolute paths (sbin directories are often not on a
// regular user's PATH).
type CommandCheck struct {
	Command  string
	AltPaths []string
	Missing  string // suggestion shown when the command is absent
	Runner   platform.Runner
}

func (c *CommandCheck) Name() string     { return fmt.Sprintf("command_%s", c.Command) }
func (c *CommandCheck) Category() string { return "SYSTEM" }

func (c *CommandCheck) Run() CheckResult {
	runner := c.Runner
	if runner == nil {
		runner = platform.ExecRunner{}
	}

	if path, err := runner.LookPath(c.Command); err == nil {
		return CheckResult{
			Name:    c.Name(),
			Status:  StatusPass,
			Message: fmt.Sprintf("%s found at %s", c.Command, path),
		}
	}

	for _, alt := range c.AltPaths {
		if _, err := os.Stat(alt); err == nil {
			return CheckResult{
				Name:    c.Name(),
				Status:  StatusPass,
				Message: fmt.Sprintf("%s found at %s", c.Command, alt),
			}
		}
	}

	return CheckResult{
		Name:       c.Name(),
		Status:     StatusWarn,
		Message:    fmt.Sprintf("%s not found", c.Command),
		Suggestion: c.Missing,
	}
}

func (c *CommandCheck) Fix() error {
	return nil // Package installation happens in 'hostprep keys', not here
}

// ManagersCheck reports which package and service managers were detected.
// Without them 'hostprep keys' cannot install or restart the SSH server.
type ManagersCheck struct {
	Runner platform.Runner
}

func (c *ManagersCheck) Name() string     { return "managers" }
func (c *ManagersCheck) Category() string { return "SYSTEM" }

func (c *ManagersCheck) Run() CheckResult {
	runner := c.Runner
	if runner == nil {
		runner = platform.ExecRunner{}
	}
	adapter := platform.Detect(runner, logger.Noop())
	pm := adapter.PackageManager()
	svc := adapter.ServiceManager()

	switch {
	case pm != "" && svc != "":
		return CheckResult{
			Name:    c.Name(),
			Status:  StatusPass,
			Message: fmt.Sprintf("Using %s for packages, %s for services", pm, svc),
		}
	case pm == "" && svc == "":
		return CheckResult{
			Name:       c.Name(),
			Status:     StatusWarn,
			Message:    "No package or service manager found",
			Suggestion: "Installing and restarting the SSH server must be done manually on this system",
		}
	case pm == "":
		return CheckResult{
			Name:       c.Name(),
			Status:     StatusWarn,
			Message:    fmt.Sprintf("Service manager %s found, but no supported package manager", svc),
			Suggestion: "Install openssh-server manually if 'hostprep keys' needs it",
		}
	default:
		return CheckResult{
			Name:       c.Name(),
			Status:     StatusWarn,
			Message:    fmt.Sprintf("Package manager %s found, but no service manager", pm),
			Suggestion: "sshd restarts after hardening must be done manually",
		}
	}
}

func (c *ManagersCheck) Fix() error {
	return nil
}

// OSFamilyCheck reads os-release and reports whether the distribution is
// in the safe list for /etc/hosts rewriting.
type OSFamilyCheck struct {
	ReleasePath  string
	SafeFamilies []string
}

func (c *OSFamilyCheck) Name() string     { return "os_family" }
func (c *OSFamilyCheck) Category() string { return "SYSTEM" }

func (c *OSFamilyCheck) Run() CheckResult {
	path := c.ReleasePath
	if path == "" {
		path = platform.DefaultOSReleasePath
	}

	rel, err := platform.ReadOSRelease(path)
	if err != nil {
		return CheckResult{
			Name:       c.Name(),
			Status:     StatusWarn,
			Message:    fmt.Sprintf("Couldn't read %s", path),
			Suggestion: "Rewriting /etc/hosts will require --force-hosts on this system",
		}
	}

	label := rel.PrettyName
	if label == "" {
		label = rel.ID
	}
	if label == "" {
		label = "unknown distribution"
	}

	if rel.InFamily(c.SafeFamilies) {
		return CheckResult{
			Name:    c.Name(),
			Status:  StatusPass,
			Message: fmt.Sprintf("%s (hosts rewriting enabled)", label),
		}
	}
	return CheckResult{
		Name:       c.Name(),
		Status:     StatusWarn,
		Message:    fmt.Sprintf("%s is outside the safe list (%s) for hosts rewriting", label, util.JoinOrNone(c.SafeFamilies)),
		Suggestion: "Pass --force-hosts to 'hostprep hostname' to rewrite /etc/hosts anyway",
	}
}

func (c *OSFamilyCheck) Fix() error {
	return nil
}

// HostnameValidCheck verifies the machine's current hostname against the
// same rules 'hostprep hostname' enforces for new names.
type HostnameValidCheck struct{}

func (c *HostnameValidCheck) Name() string     { return "hostname_valid" }
func (c *HostnameValidCheck) Category() string { return "SYSTEM" }

func (c *HostnameValidCheck) Run() CheckResult {
	current := hostname.Current()
	if current == "" {
		return CheckResult{
			Name:    c.Name(),
			Status:  StatusWarn,
			Message: "Couldn't determine the current hostname",
		}
	}
	if hostname.Valid(current) {
		return CheckResult{
			Name:    c.Name(),
			Status:  StatusPass,
			Message: fmt.Sprintf("Current hostname %q is valid", current),
		}
	}
	return CheckResult{
		Name:       c.Name(),
		Status:     StatusWarn,
		Message:    fmt.Sprintf("Current hostname %q doesn't follow RFC 1123", current),
		Suggestion: "Set a compliant name: sudo hostprep hostname <new-name>",
	}
}

func (c *HostnameValidCheck) Fix() error {
	return nil // Picking a new hostname is the user's call
}

// NewSystemChecks creates the SYSTEM category checks.
func NewSystemChecks(cfg *config.Config) []Check {
	return []Check{
		&PrivilegeCheck{},
		&CommandCheck{
			Command: "hostnamectl",
			Missing: "Hostname changes fall back to hostname(1); persistence still works",
		},
		&CommandCheck{
			Command:  "sshd",
			AltPaths: []string{"/usr/sbin/sshd", "/usr/local/sbin/sshd"},
			Missing:  "Run 'hostprep keys' to install and enable the OpenSSH server",
		},
		&ManagersCheck{},
		&OSFamilyCheck{SafeFamilies: cfg.Hostname.SafeFamilies},
		&HostnameValidCheck{},
	}
}
