package platform

import (
	"fmt"
	"strings"

	"github.com/rileyhilliard/hostprep/internal/errors"
	"github.com/rileyhilliard/hostprep/internal/logger"
)

// packageManagers is the probe order for package managers. The first one
// found on PATH wins.
var packageManagers = []string{"apt-get", "dnf", "yum", "zypper", "pacman", "apk"}

// serviceManagers is the probe order for service managers.
var serviceManagers = []string{"systemctl", "service"}

// sshServerPackages maps each package manager to the package that ships
// the OpenSSH server.
var sshServerPackages = map[string]string{
	"apt-get": "openssh-server",
	"dnf":     "openssh-server",
	"yum":     "openssh-server",
	"zypper":  "openssh",
	"pacman":  "openssh",
	"apk":     "openssh",
}

// installArgs builds the non-interactive install invocation for a package.
func installArgs(pm, pkg string) []string {
	switch pm {
	case "apt-get":
		return []string{"apt-get", "install", "-y", pkg}
	case "dnf", "yum":
		return []string{pm, "install", "-y", pkg}
	case "zypper":
		return []string{"zypper", "--non-interactive", "install", pkg}
	case "pacman":
		return []string{"pacman", "-S", "--noconfirm", pkg}
	case "apk":
		return []string{"apk", "add", pkg}
	}
	return nil
}

// Adapter is the set of platform capabilities detected on this host.
// Detection is a PATH lookup per candidate; no commands are executed
// until a capability is used.
type Adapter struct {
	runner Runner
	log    logger.Logger

	pm  string // package manager binary, "" when none found
	svc string // "systemctl", "service", or "" when neither found
}

// Detect probes PATH for a package manager and a service manager and
// returns the resulting adapter.
func Detect(r Runner, log logger.Logger) *Adapter {
	if log == nil {
		log = logger.Default()
	}
	a := &Adapter{runner: r, log: log}
	for _, pm := range packageManagers {
		if _, err := r.LookPath(pm); err == nil {
			a.pm = pm
			break
		}
	}
	for _, svc := range serviceManagers {
		if _, err := r.LookPath(svc); err == nil {
			a.svc = svc
			break
		}
	}
	log.Debug("platform: package manager=%q service manager=%q", a.pm, a.svc)
	return a
}

// PackageManager returns the detected package manager binary, or "".
func (a *Adapter) PackageManager() string { return a.pm }

// ServiceManager returns the detected service manager binary, or "".
func (a *Adapter) ServiceManager() string { return a.svc }

// SSHServerPackage returns the OpenSSH server package name for the
// detected package manager.
func (a *Adapter) SSHServerPackage() string {
	if pkg, ok := sshServerPackages[a.pm]; ok {
		return pkg
	}
	return "openssh-server"
}

// HasCommand reports whether a command resolves on PATH.
func (a *Adapter) HasCommand(name string) bool {
	_, err := a.runner.LookPath(name)
	return err == nil
}

// InstallPackage installs a package non-interactively. Unlike the service
// helpers this is a hard dependency: failure aborts the run.
func (a *Adapter) InstallPackage(pkg string) error {
	if a.pm == "" {
		return errors.New(errors.ErrEnvironment,
			"No supported package manager found",
			fmt.Sprintf("Install %s manually, then re-run.", pkg))
	}
	args := installArgs(a.pm, pkg)
	a.log.Info("Installing %s via %s", pkg, a.pm)
	out, err := a.runner.Run(args[0], args[1:]...)
	if err != nil {
		a.log.Debug("platform: install output: %s", out)
		return errors.WrapWithCode(err, errors.ErrEnvironment,
			fmt.Sprintf("Couldn't install %s", pkg),
			fmt.Sprintf("Run '%s' manually to see what went wrong.", strings.Join(args, " ")))
	}
	return nil
}

// EnableService marks the first manageable service to start at boot.
// Failures are logged at debug level and never abort provisioning.
func (a *Adapter) EnableService(names ...string) {
	if a.svc != "systemctl" {
		a.log.Debug("platform: no systemctl, skipping enable of %v", names)
		return
	}
	a.tryService("enable", names)
}

// StartService starts the first matching service. Best effort.
func (a *Adapter) StartService(names ...string) {
	a.tryService("start", names)
}

// RestartService restarts the first matching service. Best effort.
func (a *Adapter) RestartService(names ...string) {
	a.tryService("restart", names)
}

// tryService runs a verb against each candidate name until one succeeds.
func (a *Adapter) tryService(verb string, names []string) {
	if a.svc == "" {
		a.log.Debug("platform: no service manager, skipping %s of %v", verb, names)
		return
	}
	for _, name := range names {
		var err error
		switch a.svc {
		case "systemctl":
			_, err = a.runner.Run("systemctl", verb, name)
		case "service":
			_, err = a.runner.Run("service", name, verb)
		}
		if err == nil {
			a.log.Debug("platform: %s %s ok", verb, name)
			return
		}
		a.log.Debug("platform: %s %s failed: %v", verb, name, err)
	}
}

// ServiceActive reports whether any of the candidate services is running.
func (a *Adapter) ServiceActive(names ...string) bool {
	for _, name := range names {
		switch a.svc {
		case "systemctl":
			if out, err := a.runner.Run("systemctl", "is-active", name); err == nil && out == "active" {
				return true
			}
		case "service":
			if _, err := a.runner.Run("service", name, "status"); err == nil {
				return true
			}
		}
	}
	return false
}

// RestoreContext resets the SELinux context of a path when restorecon is
// available. Best effort.
func (a *Adapter) RestoreContext(path string) {
	if _, err := a.runner.LookPath("restorecon"); err != nil {
		return
	}
	if _, err := a.runner.Run("restorecon", "-R", path); err != nil {
		a.log.Debug("platform: restorecon %s failed: %v", path, err)
	}
}
