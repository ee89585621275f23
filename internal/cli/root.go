package cli

import (
	"fmt"
	"os"

	"github.com/rileyhilliard/hostprep/internal/ui"
	"github.com/spf13/cobra"
)

// Global flags shared by every command
var (
	configFlag  string
	noColorFlag bool
)

var rootCmd = &cobra.Command{
	Use:   "hostprep",
	Short: "Prepare a Linux host: hostname, SSH keys, sshd hardening",
	Long: `hostprep makes a fresh Linux machine ready to use: set its hostname
(and keep /etc/hosts consistent), install SSH public keys locally or on a
remote host, and harden sshd against password logins.

Every run is idempotent. Files are backed up before modification and
rewritten atomically, so re-running a command is always safe.

Examples:
  sudo hostprep hostname web1.example.com
  sudo hostprep keys --github rileyhilliard
  hostprep push user@newbox
  hostprep doctor`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if machineMode || noColorFlag {
			ui.DisableColors()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFlag, "config", "", "config file (default: /etc/hostprep/config.yaml, then ~/.config/hostprep/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&machineMode, "json", false, "machine-readable JSON output")
	rootCmd.PersistentFlags().BoolVar(&noColorFlag, "no-color", false, "disable colored output")
}

// Config returns the path given with --config, empty when unset.
func Config() string {
	return configFlag
}

// Execute runs the root command, rendering any error in the active output
// mode before exiting non-zero.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		if MachineMode() {
			_ = WriteJSONFromError(os.Stdout, err)
		} else {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(1)
	}
}
