package cli

import (
	stderrors "errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/rileyhilliard/hostprep/internal/config"
	"github.com/rileyhilliard/hostprep/internal/errors"
	"github.com/rileyhilliard/hostprep/internal/keys"
	"github.com/rileyhilliard/hostprep/internal/ui"
	"github.com/rileyhilliard/hostprep/internal/util"
	"github.com/rileyhilliard/hostprep/pkg/sshutil"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// pushOutput is the machine-readable result of a push run.
type pushOutput struct {
	Target  string             `json:"target"`
	Origin  string             `json:"origin"`
	Added   int                `json:"added"`
	Total   int                `json:"total"`
	Changes []fileChangeOutput `json:"changes"`
}

// pushCommand installs public keys into a remote account's
// authorized_keys over SSH.
func pushCommand(target string) error {
	cfg, err := config.LoadOrDefault(Config())
	if err != nil {
		return err
	}

	// The dial gives the background release check time to land.
	if cfg.Update.Check {
		RefreshUpdateCache()
	}

	target, cancelled, err := resolvePushTarget(target)
	if err != nil {
		return err
	}
	if cancelled {
		fmt.Println("Cancelled.")
		return nil
	}

	filtered, origin, err := acquirePushKeys(cfg)
	if err != nil {
		return err
	}

	if !pushYes && canPrompt() {
		var confirmed bool
		form := huh.NewForm(
			huh.NewGroup(
				huh.NewConfirm().
					Title(fmt.Sprintf("Push %d %s to %s?",
						len(filtered), util.Pluralize(len(filtered), "key", "keys"), target)).
					Value(&confirmed),
			),
		)
		if err := form.Run(); err != nil {
			return errors.WrapWithCode(err, errors.ErrValidation,
				"Couldn't read the confirmation",
				"Re-run with --yes to skip prompts.")
		}
		if !confirmed {
			fmt.Println("Cancelled.")
			return nil
		}
	}

	var spinner *ui.Spinner
	if !MachineMode() {
		spinner = ui.NewSpinner("Connecting to " + target)
		spinner.Start()
	}
	client, err := sshutil.Dial(target, cfg.SSH.ConnectTimeout)
	if err != nil {
		if spinner != nil {
			spinner.Fail()
		}
		return withManualInstructions(err, target, filtered)
	}
	if spinner != nil {
		spinner.Success()
	}
	defer client.Close()
	defer sshutil.CloseAgent()

	result, err := keys.InstallRemote(client, filtered, pushOverwrite)
	if err != nil {
		return withManualInstructions(err, target, filtered)
	}

	changes := []ui.FileChange{installChange(result)}

	if MachineMode() {
		return WriteJSONSuccess(os.Stdout, pushOutput{
			Target:  target,
			Origin:  origin,
			Added:   result.Added,
			Total:   result.Total,
			Changes: changesToJSON(changes),
		})
	}

	fmt.Printf("%s Pushed keys to %s: %d added, %d total\n",
		ui.SuccessStyle().Render(ui.SymbolSuccess), target, result.Added, result.Total)
	fmt.Print(ui.RenderChanges(changes))
	return nil
}

// resolvePushTarget turns the positional target (possibly empty) and the
// -t user flag into the final [user@]host[:port] dial string.
func resolvePushTarget(target string) (resolved string, cancelled bool, err error) {
	if target == "" {
		target, cancelled, err = pickPushTarget()
		if err != nil || cancelled {
			return "", cancelled, err
		}
	}

	if pushUserFlag != "" {
		if strings.Contains(target, "@") {
			return "", false, errors.New(errors.ErrValidation,
				"Conflicting remote users",
				"Give the user either as -t or as user@host, not both.")
		}
		target = pushUserFlag + "@" + target
	}
	return target, false, nil
}

// pickPushTarget selects the target interactively: the ~/.ssh/config host
// picker first, a free-form prompt when there are no hosts or manual entry
// is chosen.
func pickPushTarget() (target string, cancelled bool, err error) {
	if !canPrompt() {
		return "", false, errors.New(errors.ErrValidation,
			"No target host given",
			"Pass a target: hostprep push user@host")
	}

	hosts, err := sshutil.ParseSSHConfig()
	if err != nil {
		hosts = nil
	}

	entry, cancelled, err := ui.PickSSHHost(hosts)
	if err != nil {
		return "", false, errors.WrapWithCode(err, errors.ErrEnvironment,
			"The host picker didn't survive",
			"Pass a target directly: hostprep push user@host")
	}
	if cancelled {
		return "", true, nil
	}
	if entry != nil {
		return entry.Alias, false, nil
	}

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Target host").
				Description("hostname, user@host, or SSH config alias").
				Placeholder("user@192.168.1.50").
				Value(&target).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return fmt.Errorf("a target host is required")
					}
					return nil
				}),
		),
	)
	if err := form.Run(); err != nil {
		return "", false, errors.WrapWithCode(err, errors.ErrValidation,
			"Couldn't read the target host",
			"Pass it directly: hostprep push user@host")
	}
	return strings.TrimSpace(target), false, nil
}

// acquirePushKeys picks the key set for a push: explicit source flags win,
// else the invoking user's own public key, offering to generate one when
// none exists.
func acquirePushKeys(cfg *config.Config) ([]string, string, error) {
	source := keys.Source{
		GitHubUser: pushGitHubFlag,
		URL:        pushURLFlag,
		File:       config.ExpandTilde(pushFileFlag),
		Inline:     pushInlineFlag,
	}
	if source.GitHubUser != "" || source.URL != "" || source.File != "" || len(source.Inline) > 0 {
		return acquireKeys(source, cfg)
	}

	local := keys.PreferredLocalKey()
	pubPath := ""
	if local != nil && local.HasPublic {
		pubPath = local.PublicPath
	} else {
		generated, err := offerKeygen()
		if err != nil {
			return nil, "", err
		}
		pubPath = generated
	}

	line, err := keys.ReadPublicKey(pubPath)
	if err != nil {
		return nil, "", err
	}
	filtered, err := keys.Filter(line)
	if err != nil {
		return nil, "", err
	}
	return filtered, pubPath, nil
}

// offerKeygen generates ~/.ssh/id_ed25519 after a confirm (--yes skips
// the prompt). Returns the public key path.
func offerKeygen() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", errors.WrapWithCode(err, errors.ErrPrecheck,
			"Couldn't locate your home directory", "")
	}
	keyPath := filepath.Join(home, ".ssh", "id_ed25519")

	if !pushYes {
		if !canPrompt() {
			return "", errors.New(errors.ErrPrecheck,
				"No local SSH key to push",
				"Generate one with: ssh-keygen -t ed25519, or pass a source flag.")
		}
		var confirmed bool
		form := huh.NewForm(
			huh.NewGroup(
				huh.NewConfirm().
					Title("No local SSH key found. Generate ~/.ssh/id_ed25519 now?").
					Value(&confirmed),
			),
		)
		if err := form.Run(); err != nil || !confirmed {
			return "", errors.New(errors.ErrPrecheck,
				"No local SSH key to push",
				"Generate one with: ssh-keygen -t ed25519, or pass a source flag.")
		}
	}

	if err := keys.GenerateKey(keyPath, "ed25519"); err != nil {
		return "", err
	}
	return keyPath + ".pub", nil
}

// withManualInstructions appends the copy-paste fallback to a push
// failure so the keys can still go on by hand.
func withManualInstructions(err error, target string, keyLines []string) error {
	instructions := keys.ManualInstructions(target, keyLines)

	var perr *errors.Error
	if stderrors.As(err, &perr) {
		enriched := *perr
		if enriched.Suggestion != "" {
			enriched.Suggestion += "\n\n" + instructions
		} else {
			enriched.Suggestion = instructions
		}
		return &enriched
	}
	return errors.WrapWithCode(err, errors.ErrSSH,
		fmt.Sprintf("Couldn't push keys to %s", target),
		instructions)
}

// canPrompt reports whether interactive prompts make sense right now.
func canPrompt() bool {
	return !MachineMode() && term.IsTerminal(int(os.Stdin.Fd()))
}

// pushCompletion completes the target argument from ~/.ssh/config hosts.
func pushCompletion(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if len(args) != 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	hosts, err := sshutil.ParseSSHConfig()
	if err != nil {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	return sshutil.CompletionEntries(hosts), cobra.ShellCompDirectiveNoFileComp
}
