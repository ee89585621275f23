package cli

import (
	"os"

	"github.com/rileyhilliard/hostprep/internal/errors"
	"github.com/spf13/cobra"
)

// Command-specific flags
var (
	hostnameFQDNFlag  string
	hostnameNoHosts   bool
	hostnameCloudInit bool
	hostnameForce     bool
	hostnameDryRun    bool

	keysGitHubFlag  string
	keysURLFlag     string
	keysFileFlag    string
	keysInlineFlag  []string
	keysUserFlag    string
	keysOverwrite   bool
	keysDisablePass bool

	pushGitHubFlag string
	pushURLFlag    string
	pushFileFlag   string
	pushInlineFlag []string
	pushUserFlag   string
	pushOverwrite  bool
	pushYes        bool

	doctorFix bool

	initForce bool

	updateCheckOnly bool
)

// hostnameCmd validates and applies a new hostname
var hostnameCmd = &cobra.Command{
	Use:   "hostname NEW_HOSTNAME",
	Short: "Set the system hostname and update /etc/hosts",
	Long: `Set the system hostname, persist it to /etc/hostname, and rewrite the
127.0.1.1 line in /etc/hosts to match.

The hosts file is edited in place: the existing 127.0.1.1 line is replaced
when present, the old name is renamed in place when found, and a new line
is only inserted on distributions known to use one (or with --force-hosts).
Every modified file gets a timestamped backup first.

Examples:
  sudo hostprep hostname web1
  sudo hostprep hostname web1.example.com
  sudo hostprep hostname web1 --fqdn web1.example.com
  sudo hostprep hostname web1 --dry-run`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return hostnameCommand(args[0])
	},
}

// keysCmd installs SSH public keys for a local account
var keysCmd = &cobra.Command{
	Use:   "keys",
	Short: "Install SSH public keys and optionally harden sshd",
	Long: `Fetch SSH public keys from one source and merge them into a local
account's authorized_keys file.

Sources are mutually exclusive: a GitHub account (--github), a URL
(--url), a local file (--file), or literal key lines (--key, repeatable).
With no source flag the configured default key URL is used.

Existing keys are never duplicated; --overwrite replaces the file after
backing it up. With --disable-password-auth the sshd config is patched to
refuse password logins and sshd is restarted.

Examples:
  sudo hostprep keys --github rileyhilliard
  sudo hostprep keys --url https://example.com/team.keys --user deploy
  sudo hostprep keys --file ./id_ed25519.pub --overwrite
  sudo hostprep keys -g rileyhilliard -d`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return keysCommand()
	},
}

// pushCmd installs SSH public keys on a remote host
var pushCmd = &cobra.Command{
	Use:   "push [[user@]host[:port]]",
	Short: "Install SSH public keys on a remote host",
	Long: `Install SSH public keys into a remote account's authorized_keys file
over SSH, like ssh-copy-id but with hostprep's merge semantics.

The target is resolved through ~/.ssh/config; with no argument a picker
lists the configured hosts. Authentication uses the SSH agent when one is
running, falling back to local key files. The default key source is your
own public key (~/.ssh/id_ed25519.pub et al.); the keys command's source
flags select anything else.

Examples:
  hostprep push newbox
  hostprep push deploy@192.168.1.50
  hostprep push newbox --github rileyhilliard
  hostprep push newbox --overwrite --yes`,
	Args:              cobra.MaximumNArgs(1),
	ValidArgsFunction: pushCompletion,
	RunE: func(cmd *cobra.Command, args []string) error {
		target := ""
		if len(args) > 0 {
			target = args[0]
		}
		return pushCommand(target)
	},
}

// doctorCmd diagnoses host and configuration issues
var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Diagnose host and configuration issues",
	Long: `Run diagnostic checks to identify problems before they bite.

Checks:
  - privilege and required commands (hostnamectl, sshd)
  - package and service manager detection
  - OS family and current hostname validity
  - target files (/etc/hosts, /etc/hostname, sshd_config)
  - config file validity
  - default key URL reachability
  - local SSH keys and agent (for push)

Examples:
  hostprep doctor
  hostprep doctor --fix
  hostprep doctor --json`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return doctorCommand()
	},
}

// initCmd writes a starter config file
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a starter config file",
	Long: `Write a hostprep config file with the default settings spelled out,
ready to edit.

The file goes to ~/.config/hostprep/config.yaml, or to the path given
with --config. hostprep works without a config file; create one to change
the default key URL, file paths, or safe distro families.

Examples:
  hostprep init
  hostprep init --force
  sudo hostprep --config /etc/hostprep/config.yaml init`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return initCommand(initForce)
	},
}

// updateCmd checks GitHub for a newer release
var updateCmd = &cobra.Command{
	Use:   "update",
	Short: "Check for a newer hostprep release",
	Long: `Check GitHub for a newer hostprep release.

Without flags the check always hits the release API and prints upgrade
instructions when a newer version exists. --check-only reuses the cached
result when it is fresh and reports availability without instructions.

Examples:
  hostprep update
  hostprep update --check-only`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return updateCommand(updateCheckOnly)
	},
}

// completionCmd generates shell completion scripts
var completionCmd = &cobra.Command{
	Use:   "completion [bash|zsh|fish|powershell]",
	Short: "Generate shell completion script",
	Long: `Generate shell completion scripts for hostprep.

Examples:
  # Bash
  hostprep completion bash > /etc/bash_completion.d/hostprep

  # Zsh
  hostprep completion zsh > "${fpath[1]}/_hostprep"

  # Fish
  hostprep completion fish > ~/.config/fish/completions/hostprep.fish`,
	ValidArgs: []string{"bash", "zsh", "fish", "powershell"},
	Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
	RunE: func(cmd *cobra.Command, args []string) error {
		switch args[0] {
		case "bash":
			return rootCmd.GenBashCompletion(os.Stdout)
		case "zsh":
			return rootCmd.GenZshCompletion(os.Stdout)
		case "fish":
			return rootCmd.GenFishCompletion(os.Stdout, true)
		case "powershell":
			return rootCmd.GenPowerShellCompletion(os.Stdout)
		default:
			return errors.New(errors.ErrValidation,
				"Unknown shell: "+args[0],
				"Supported shells: bash, zsh, fish, powershell")
		}
	},
}

func init() {
	// hostname command flags
	hostnameCmd.Flags().StringVar(&hostnameFQDNFlag, "fqdn", "", "fully qualified name for the hosts line (default: the hostname itself when dotted)")
	hostnameCmd.Flags().BoolVar(&hostnameNoHosts, "no-hosts", false, "skip the /etc/hosts rewrite")
	hostnameCmd.Flags().BoolVar(&hostnameCloudInit, "cloud-init", false, "preserve the hostname across cloud-init reboots and fix its templates")
	hostnameCmd.Flags().BoolVar(&hostnameForce, "force-hosts", false, "insert a hosts line even on distros outside the safe list")
	hostnameCmd.Flags().BoolVar(&hostnameDryRun, "dry-run", false, "show what would change without changing it")

	// keys command flags
	keysCmd.Flags().StringVarP(&keysGitHubFlag, "github", "g", "", "fetch keys for a GitHub account")
	keysCmd.Flags().StringVarP(&keysURLFlag, "url", "u", "", "fetch keys from a URL")
	keysCmd.Flags().StringVarP(&keysFileFlag, "file", "f", "", "read keys from a local file")
	keysCmd.Flags().StringArrayVarP(&keysInlineFlag, "key", "k", nil, "literal key line (repeatable)")
	keysCmd.Flags().StringVarP(&keysUserFlag, "user", "t", "", "target account (default: $SUDO_USER, then the invoking user)")
	keysCmd.Flags().BoolVarP(&keysOverwrite, "overwrite", "o", false, "replace authorized_keys instead of appending")
	keysCmd.Flags().BoolVarP(&keysDisablePass, "disable-password-auth", "d", false, "patch sshd_config to refuse password logins")

	// push command flags
	pushCmd.Flags().StringVarP(&pushGitHubFlag, "github", "g", "", "fetch keys for a GitHub account")
	pushCmd.Flags().StringVarP(&pushURLFlag, "url", "u", "", "fetch keys from a URL")
	pushCmd.Flags().StringVarP(&pushFileFlag, "file", "f", "", "read keys from a local file")
	pushCmd.Flags().StringArrayVarP(&pushInlineFlag, "key", "k", nil, "literal key line (repeatable)")
	pushCmd.Flags().StringVarP(&pushUserFlag, "user", "t", "", "remote account (prepended to the target as user@)")
	pushCmd.Flags().BoolVarP(&pushOverwrite, "overwrite", "o", false, "replace the remote authorized_keys instead of appending")
	pushCmd.Flags().BoolVar(&pushYes, "yes", false, "skip confirmation prompts")

	// doctor command flags
	doctorCmd.Flags().BoolVar(&doctorFix, "fix", false, "attempt automatic fixes where possible")

	// init command flags
	initCmd.Flags().BoolVarP(&initForce, "force", "f", false, "overwrite an existing config file")

	// update command flags
	updateCmd.Flags().BoolVar(&updateCheckOnly, "check-only", false, "report availability without upgrade instructions")

	// Register all commands
	rootCmd.AddCommand(hostnameCmd)
	rootCmd.AddCommand(keysCmd)
	rootCmd.AddCommand(pushCmd)
	rootCmd.AddCommand(doctorCmd)
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(updateCmd)
	rootCmd.AddCommand(completionCmd)
}
