package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"github.com/charmbracelet/huh"
	"github.com/rileyhilliard/hostprep/internal/cloudinit"
	"github.com/rileyhilliard/hostprep/internal/config"
	"github.com/rileyhilliard/hostprep/internal/errors"
	"github.com/rileyhilliard/hostprep/internal/hostname"
	"github.com/rileyhilliard/hostprep/internal/hostsfile"
	"github.com/rileyhilliard/hostprep/internal/platform"
	"github.com/rileyhilliard/hostprep/internal/run"
	"github.com/rileyhilliard/hostprep/internal/textfile"
	"github.com/rileyhilliard/hostprep/internal/ui"
)

const hostnameGrammarHint = "Use lowercase letters, digits, hyphens, and dots: labels up to 63 characters, 253 in total."

// hostnameOutput is the machine-readable result of a hostname run.
type hostnameOutput struct {
	Hostname string             `json:"hostname"`
	Short    string             `json:"short"`
	FQDN     string             `json:"fqdn,omitempty"`
	DryRun   bool               `json:"dry_run,omitempty"`
	Changes  []fileChangeOutput `json:"changes"`
}

// hostnameCommand validates the new name, sets it, persists it, and
// reconciles the hosts file (plus cloud-init when asked).
func hostnameCommand(newName string) error {
	cfg, err := config.LoadOrDefault(Config())
	if err != nil {
		return err
	}

	name := hostname.Normalize(newName)
	if !hostname.Valid(name) {
		return errors.New(errors.ErrValidation,
			fmt.Sprintf("%q is not a valid hostname", newName),
			hostnameGrammarHint)
	}

	short := hostname.Short(name)
	fqdn := ""
	switch {
	case hostnameFQDNFlag != "":
		fqdn = hostname.Normalize(hostnameFQDNFlag)
		if !hostname.Valid(fqdn) {
			return errors.New(errors.ErrValidation,
				fmt.Sprintf("%q is not a valid FQDN", hostnameFQDNFlag),
				hostnameGrammarHint)
		}
		if hostname.Short(fqdn) != short {
			return errors.New(errors.ErrValidation,
				fmt.Sprintf("FQDN %q doesn't start with the hostname %q", fqdn, short),
				"The first label of --fqdn must be the hostname itself, e.g. web1.example.com for web1.")
		}
	case hostname.IsFQDN(name):
		fqdn = name
	}

	ctx := run.NewContext(cfg, hostnameDryRun)
	if err := ctx.RequirePrivilege("Setting the hostname"); err != nil {
		return err
	}

	hostsPath := cfg.Hostname.HostsPath
	if !hostnameNoHosts && !textfile.Exists(hostsPath) {
		return errors.New(errors.ErrPrecheck,
			fmt.Sprintf("%s does not exist", hostsPath),
			"Restore the file from a backup, or pass --no-hosts to skip the hosts rewrite.")
	}

	opts := hostsfile.Options{
		Replacement:  hostsfile.Line(fqdn, short),
		Anchor:       hostsfile.AnchorPattern,
		Fallback:     hostsfile.FallbackPattern,
		PreviousHost: hostname.Short(hostname.Current()),
		NewHost:      short,
		AllowInsert:  hostnameForce || safeFamily(cfg),
	}

	if ctx.DryRun {
		return hostnamePreview(cfg, name, short, fqdn, opts)
	}

	// The insert gate can still be opened interactively when the distro
	// is outside the safe list.
	if !hostnameNoHosts && !opts.AllowInsert {
		opts.AllowInsert = confirmHostsInsert(hostsPath, opts)
	}

	if err := hostname.Set(platform.ExecRunner{}, name); err != nil {
		return err
	}

	var changes []ui.FileChange

	hostnamePath := cfg.Hostname.HostnamePath
	existed := textfile.Exists(hostnamePath)
	persisted, err := hostname.Persist(hostnamePath, name)
	if err != nil {
		return err
	}
	switch {
	case !persisted:
		changes = append(changes, ui.FileChange{Path: hostnamePath, Action: ui.ActionUnchanged})
	case existed:
		changes = append(changes, ui.FileChange{Path: hostnamePath, Action: ui.ActionUpdated, Detail: name})
	default:
		changes = append(changes, ui.FileChange{Path: hostnamePath, Action: ui.ActionCreated, Detail: name})
	}

	skipped := false
	if !hostnameNoHosts {
		action, err := hostsfile.Update(hostsPath, opts)
		if err != nil {
			return err
		}
		changes = append(changes, hostsFileChange(hostsPath, action))
		skipped = action == hostsfile.ActionSkipped
	}

	if hostnameCloudInit {
		cloudChanges, err := applyCloudInit(cfg, opts)
		if err != nil {
			return err
		}
		changes = append(changes, cloudChanges...)
	}

	if MachineMode() {
		return WriteJSONSuccess(os.Stdout, hostnameOutput{
			Hostname: name,
			Short:    short,
			FQDN:     fqdn,
			Changes:  changesToJSON(changes),
		})
	}

	fmt.Printf("%s Hostname set to %s\n", ui.SuccessStyle().Render(ui.SymbolSuccess), name)
	fmt.Print(ui.RenderChanges(changes))
	if skipped {
		ui.PrintWarning(fmt.Sprintf("%s has no %s line; not adding one on this distribution. Re-run with --force-hosts to add it.",
			hostsPath, hostsfile.LoopbackAlias))
	}
	return nil
}

// hostnamePreview reports what a run would change without touching anything.
func hostnamePreview(cfg *config.Config, name, short, fqdn string, opts hostsfile.Options) error {
	var changes []ui.FileChange

	hostnamePath := cfg.Hostname.HostnamePath
	current, _, _ := textfile.ReadLines(hostnamePath)
	switch {
	case slices.Equal(current, []string{name}):
		changes = append(changes, ui.FileChange{Path: hostnamePath, Action: ui.ActionUnchanged})
	case textfile.Exists(hostnamePath):
		changes = append(changes, ui.FileChange{Path: hostnamePath, Action: ui.ActionUpdated, Detail: name})
	default:
		changes = append(changes, ui.FileChange{Path: hostnamePath, Action: ui.ActionCreated, Detail: name})
	}

	skipped := false
	if !hostnameNoHosts {
		lines, _, err := textfile.ReadLines(cfg.Hostname.HostsPath)
		if err != nil {
			return errors.WrapWithCode(err, errors.ErrPrecheck,
				fmt.Sprintf("Couldn't read %s", cfg.Hostname.HostsPath), "")
		}
		action := previewAction(lines, opts)
		changes = append(changes, hostsFileChange(cfg.Hostname.HostsPath, action))
		skipped = action == hostsfile.ActionSkipped
	}

	if hostnameCloudInit {
		if textfile.Exists(cfg.Hostname.CloudCfgDir) {
			preservePath := filepath.Join(cfg.Hostname.CloudCfgDir, cloudinit.PreserveFileName)
			changes = append(changes, ui.FileChange{Path: preservePath, Action: ui.ActionUpdated, Detail: "preserve_hostname: true"})
		}
		tmpls, _ := filepath.Glob(filepath.Join(cfg.Hostname.CloudTemplateDir, "hosts.*.tmpl"))
		for _, path := range tmpls {
			lines, _, err := textfile.ReadLines(path)
			if err != nil {
				continue
			}
			changes = append(changes, hostsFileChange(path, previewAction(lines, opts)))
		}
	}

	if MachineMode() {
		return WriteJSONSuccess(os.Stdout, hostnameOutput{
			Hostname: name,
			Short:    short,
			FQDN:     fqdn,
			DryRun:   true,
			Changes:  changesToJSON(changes),
		})
	}

	fmt.Printf("Dry run: hostname would be set to %s\n", name)
	fmt.Print(ui.RenderChanges(changes))
	if skipped {
		ui.PrintWarning(fmt.Sprintf("%s has no %s line; a real run would not add one on this distribution without --force-hosts.",
			cfg.Hostname.HostsPath, hostsfile.LoopbackAlias))
	}
	return nil
}

// previewAction runs the reconciler in memory and folds no-op rewrites
// into ActionUnchanged the way hostsfile.Update does.
func previewAction(lines []string, opts hostsfile.Options) hostsfile.Action {
	out, action := hostsfile.Reconcile(lines, opts)
	if slices.Equal(out, lines) && action != hostsfile.ActionSkipped {
		return hostsfile.ActionUnchanged
	}
	return action
}

// hostsFileChange maps a reconcile action onto a report row.
func hostsFileChange(path string, action hostsfile.Action) ui.FileChange {
	fc := ui.FileChange{Path: path, Detail: action.String()}
	switch action {
	case hostsfile.ActionUnchanged, hostsfile.ActionSkipped:
		fc.Action = ui.ActionUnchanged
	default:
		fc.Action = ui.ActionUpdated
	}
	return fc
}

// applyCloudInit writes the preserve drop-in and reconciles the hosts
// templates, reporting each touched file.
func applyCloudInit(cfg *config.Config, opts hostsfile.Options) ([]ui.FileChange, error) {
	var changes []ui.FileChange

	wrote, err := cloudinit.WritePreserve(cfg.Hostname.CloudCfgDir)
	if err != nil {
		return nil, err
	}
	preservePath := filepath.Join(cfg.Hostname.CloudCfgDir, cloudinit.PreserveFileName)
	switch {
	case wrote:
		changes = append(changes, ui.FileChange{Path: preservePath, Action: ui.ActionUpdated, Detail: "preserve_hostname: true"})
	case !textfile.Exists(cfg.Hostname.CloudCfgDir):
		if !MachineMode() {
			ui.PrintWarning(fmt.Sprintf("%s not found; cloud-init doesn't seem to be installed, skipping its override", cfg.Hostname.CloudCfgDir))
		}
	default:
		changes = append(changes, ui.FileChange{Path: preservePath, Action: ui.ActionUnchanged})
	}

	updated, err := cloudinit.ReconcileTemplates(cfg.Hostname.CloudTemplateDir, opts)
	if err != nil {
		return changes, err
	}
	for _, path := range updated {
		changes = append(changes, ui.FileChange{Path: path, Action: ui.ActionUpdated})
	}
	return changes, nil
}

// safeFamily reports whether the running distro is in the configured
// safe list for hosts-line insertion.
func safeFamily(cfg *config.Config) bool {
	rel, err := platform.ReadOSRelease(platform.DefaultOSReleasePath)
	if err != nil {
		return false
	}
	return rel.InFamily(cfg.Hostname.SafeFamilies)
}

// confirmHostsInsert asks before adding a loopback-alias line on a distro
// outside the safe list. Prompts only when the rewrite would otherwise be
// skipped, and only on a terminal.
func confirmHostsInsert(path string, opts hostsfile.Options) bool {
	if !canPrompt() {
		return false
	}

	lines, _, err := textfile.ReadLines(path)
	if err != nil {
		return false
	}
	if _, action := hostsfile.Reconcile(lines, opts); action != hostsfile.ActionSkipped {
		return false
	}

	var confirmed bool
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(fmt.Sprintf("%s has no %s line and this distribution is outside the safe list. Add one?", path, hostsfile.LoopbackAlias)).
				Value(&confirmed),
		),
	)
	if err := form.Run(); err != nil {
		return false
	}
	return confirmed
}
