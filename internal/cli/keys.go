package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/rileyhilliard/hostprep/internal/config"
	"github.com/rileyhilliard/hostprep/internal/keys"
	"github.com/rileyhilliard/hostprep/internal/platform"
	"github.com/rileyhilliard/hostprep/internal/run"
	"github.com/rileyhilliard/hostprep/internal/sshdconf"
	"github.com/rileyhilliard/hostprep/internal/ui"
	"github.com/rileyhilliard/hostprep/internal/util"
)

// keysOutput is the machine-readable result of a keys run.
type keysOutput struct {
	User         string             `json:"user"`
	Origin       string             `json:"origin"`
	Added        int                `json:"added"`
	Total        int                `json:"total"`
	Fingerprints []string           `json:"fingerprints"`
	Changes      []fileChangeOutput `json:"changes"`
}

// keysCommand acquires public keys from the selected source and merges
// them into the target account's authorized_keys, optionally disabling
// sshd password auth afterwards.
func keysCommand() error {
	cfg, err := config.LoadOrDefault(Config())
	if err != nil {
		return err
	}

	ctx := run.NewContext(cfg, false)
	if err := ctx.RequirePrivilege("Installing keys"); err != nil {
		return err
	}

	targetUser, err := ctx.TargetUser(keysUserFlag)
	if err != nil {
		return err
	}

	adapter := platform.Detect(platform.ExecRunner{}, ctx.Log)
	if err := ensureSSHServer(adapter); err != nil {
		return err
	}

	source := keys.Source{
		GitHubUser: keysGitHubFlag,
		URL:        keysURLFlag,
		File:       config.ExpandTilde(keysFileFlag),
		Inline:     keysInlineFlag,
	}

	filtered, origin, err := acquireKeys(source, cfg)
	if err != nil {
		return err
	}

	result, err := keys.Install(targetUser, filtered, keysOverwrite)
	if err != nil {
		return err
	}
	if result.Changed {
		// A fresh ~/.ssh can carry an SELinux context sshd won't read.
		adapter.RestoreContext(filepath.Dir(result.Path))
	}

	changes := []ui.FileChange{installChange(result)}

	if keysDisablePass {
		sshdPath := cfg.Keys.SshdConfigPath
		changed, err := sshdconf.HardenFile(sshdPath)
		if err != nil {
			return err
		}
		if changed {
			adapter.RestartService("sshd", "ssh")
			changes = append(changes, ui.FileChange{Path: sshdPath, Action: ui.ActionUpdated, Detail: "password authentication disabled"})
		} else {
			changes = append(changes, ui.FileChange{Path: sshdPath, Action: ui.ActionUnchanged})
		}
	}

	if MachineMode() {
		return WriteJSONSuccess(os.Stdout, keysOutput{
			User:         targetUser,
			Origin:       origin,
			Added:        result.Added,
			Total:        result.Total,
			Fingerprints: keys.Fingerprints(filtered),
			Changes:      changesToJSON(changes),
		})
	}

	fmt.Printf("%s Installed keys for %s: %d added, %d total\n",
		ui.SuccessStyle().Render(ui.SymbolSuccess), targetUser, result.Added, result.Total)
	for _, fp := range keys.Fingerprints(filtered) {
		fmt.Printf("  %s\n", ui.MutedStyle().Render(fp))
	}
	fmt.Print(ui.RenderChanges(changes))
	return nil
}

// acquireKeys resolves the key source and filters the raw listing down to
// installable lines.
func acquireKeys(source keys.Source, cfg *config.Config) ([]string, string, error) {
	fetcher := keys.NewFetcher(cfg.Keys.FetchTimeout)

	var spinner *ui.Spinner
	if !MachineMode() {
		spinner = ui.NewSpinner("Fetching keys")
		spinner.Start()
	}

	raw, origin, err := source.Resolve(fetcher, cfg.Keys.DefaultURL)
	if err != nil {
		if spinner != nil {
			spinner.Fail()
		}
		return nil, "", err
	}

	filtered, err := keys.Filter(raw)
	if err != nil {
		if spinner != nil {
			spinner.Fail()
		}
		return nil, "", err
	}

	if spinner != nil {
		spinner.SetLabel(fmt.Sprintf("Fetched %d %s from %s",
			len(filtered), util.Pluralize(len(filtered), "key", "keys"), origin))
		spinner.Success()
	}
	return filtered, origin, nil
}

// installChange maps an install result onto a report row.
func installChange(result *keys.InstallResult) ui.FileChange {
	fc := ui.FileChange{
		Path:   result.Path,
		Detail: fmt.Sprintf("%d added, %d total", result.Added, result.Total),
		Backup: result.Backup,
	}
	switch {
	case !result.Changed:
		fc.Action = ui.ActionUnchanged
	case result.Backup != "":
		fc.Action = ui.ActionUpdated
	default:
		fc.Action = ui.ActionCreated
	}
	return fc
}

// ensureSSHServer makes sure an OpenSSH server is installed and running
// before keys get provisioned for it. Enabling and starting the service
// stay best effort.
func ensureSSHServer(adapter *platform.Adapter) error {
	if adapter.HasCommand("sshd") || sshdOnDisk() {
		if !adapter.ServiceActive("sshd", "ssh") {
			adapter.StartService("sshd", "ssh")
		}
		return nil
	}

	pkg := adapter.SSHServerPackage()
	var spinner *ui.Spinner
	if !MachineMode() {
		spinner = ui.NewSpinner("Installing " + pkg)
		spinner.Start()
	}
	if err := adapter.InstallPackage(pkg); err != nil {
		if spinner != nil {
			spinner.Fail()
		}
		return err
	}
	adapter.EnableService("sshd", "ssh")
	adapter.StartService("sshd", "ssh")
	if spinner != nil {
		spinner.Success()
	}
	return nil
}

// sshdOnDisk catches sshd installed outside PATH, the usual sbin case.
func sshdOnDisk() bool {
	for _, path := range []string{"/usr/sbin/sshd", "/usr/local/sbin/sshd"} {
		if _, err := os.Stat(path); err == nil {
			return true
		}
	}
	return false
}
