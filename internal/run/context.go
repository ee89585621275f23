// Package run carries the execution context threaded through provisioning
// operations: resolved configuration, privilege state, dry-run mode, and the
// logger. Commands build one Context up front and pass it down so every
// mutating call sees the same view of the run.
package run

import (
	"fmt"
	"os"
	"os/user"

	"github.com/rileyhilliard/hostprep/internal/config"
	"github.com/rileyhilliard/hostprep/internal/errors"
	"github.com/rileyhilliard/hostprep/internal/logger"
)

// Context is the execution context for one provisioning run.
type Context struct {
	Config *config.Config

	// DryRun reports intended mutations without performing them.
	DryRun bool

	// Privileged is true when the process runs with effective uid 0.
	Privileged bool

	// SudoUser is $SUDO_USER when the process was started via sudo.
	SudoUser string

	Log logger.Logger
}

// NewContext builds a Context from the loaded config and the process
// environment.
func NewContext(cfg *config.Config, dryRun bool) *Context {
	return &Context{
		Config:     cfg,
		DryRun:     dryRun,
		Privileged: os.Geteuid() == 0,
		SudoUser:   os.Getenv("SUDO_USER"),
		Log:        logger.Default(),
	}
}

// RequirePrivilege fails fast when the run would mutate system state without
// root privileges. Dry runs only read, so they pass.
func (c *Context) RequirePrivilege(what string) error {
	if c.DryRun || c.Privileged {
		return nil
	}
	return errors.New(errors.ErrPrecheck,
		fmt.Sprintf("%s needs root privileges", what),
		"Re-run with sudo.")
}

// TargetUser resolves the account to provision: the explicit flag value,
// else $SUDO_USER when the command was sudo-escalated by a non-root user,
// else the invoking user.
func (c *Context) TargetUser(explicit string) (string, error) {
	if explicit != "" {
		return explicit, nil
	}
	if c.SudoUser != "" && c.SudoUser != "root" {
		return c.SudoUser, nil
	}
	u, err := user.Current()
	if err != nil {
		return "", errors.WrapWithCode(err, errors.ErrPrecheck,
			"Couldn't determine the invoking user",
			"Pass the target account explicitly with -t.")
	}
	return u.Username, nil
}
