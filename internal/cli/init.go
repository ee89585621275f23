package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/rileyhilliard/hostprep/internal/config"
	"github.com/rileyhilliard/hostprep/internal/errors"
	"github.com/rileyhilliard/hostprep/internal/ui"
)

// initOutput is the machine-readable result of writing a starter config.
type initOutput struct {
	Path    string `json:"path"`
	Created bool   `json:"created"`
}

// configHeader goes at the top of generated config files. Every value in
// the generated body matches a built-in default, so the file is safe to
// trim down to just the overrides.
const configHeader = `# hostprep configuration
# Every value below matches the built-in default; keep only what you
# want to override.
# See: https://github.com/rileyhilliard/hostprep for documentation

`

// initCommand writes a starter config file with the defaults spelled
// out, so there is something concrete to edit.
func initCommand(force bool) error {
	configPath := Config()
	if configPath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return errors.WrapWithCode(err, errors.ErrEnvironment,
				"Couldn't locate your home directory",
				"Pass an explicit path with --config.")
		}
		configPath = filepath.Join(home, config.UserConfigDir, config.ConfigFileName)
	}

	// Check for existing config
	if _, err := os.Stat(configPath); err == nil && !force {
		if !canPrompt() {
			return errors.New(errors.ErrConfig,
				fmt.Sprintf("Config file already exists: %s", configPath),
				"Use --force to overwrite.")
		}

		var overwrite bool
		form := huh.NewForm(
			huh.NewGroup(
				huh.NewConfirm().
					Title(fmt.Sprintf("Config file %s already exists. Overwrite?", configPath)).
					Value(&overwrite),
			),
		)
		if err := form.Run(); err != nil {
			return errors.WrapWithCode(err, errors.ErrConfig,
				"Couldn't read the confirmation",
				"Re-run with --force to overwrite.")
		}
		if !overwrite {
			fmt.Println("Cancelled.")
			return nil
		}
	}

	content := renderStarterConfig(config.DefaultConfig())

	if err := os.MkdirAll(filepath.Dir(configPath), 0755); err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig,
			fmt.Sprintf("Failed to create config directory: %s", filepath.Dir(configPath)),
			"Check directory permissions")
	}

	if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig,
			fmt.Sprintf("Failed to write config file: %s", configPath),
			"Check directory permissions")
	}

	if MachineMode() {
		return WriteJSONSuccess(os.Stdout, initOutput{Path: configPath, Created: true})
	}

	fmt.Printf("%s Created %s\n\n", ui.SymbolSuccess, configPath)
	fmt.Println("Next steps:")
	fmt.Println("  hostprep doctor             - Check this machine over")
	fmt.Println("  hostprep hostname <name>    - Set and persist the hostname")
	fmt.Println("  hostprep keys -g <user>     - Install SSH keys from GitHub")

	return nil
}

// renderStarterConfig lays out the defaults as documented YAML. Rendered
// by hand so durations come out as "30s" instead of nanosecond counts.
func renderStarterConfig(cfg *config.Config) string {
	var b strings.Builder
	b.WriteString(configHeader)

	fmt.Fprintf(&b, "version: %d\n", cfg.Version)
	b.WriteString("\nhostname:\n")
	fmt.Fprintf(&b, "  hosts_path: %s\n", cfg.Hostname.HostsPath)
	fmt.Fprintf(&b, "  hostname_path: %s\n", cfg.Hostname.HostnamePath)
	b.WriteString("  # Distro families (os-release ID or ID_LIKE) where inserting a new\n")
	b.WriteString("  # 127.0.1.1 line is safe. Replacing an existing line is always allowed.\n")
	fmt.Fprintf(&b, "  safe_families: [%s]\n", strings.Join(cfg.Hostname.SafeFamilies, ", "))
	fmt.Fprintf(&b, "  cloud_cfg_dir: %s\n", cfg.Hostname.CloudCfgDir)
	fmt.Fprintf(&b, "  cloud_template_dir: %s\n", cfg.Hostname.CloudTemplateDir)

	b.WriteString("\nkeys:\n")
	b.WriteString("  # Key source when no source flag is given.\n")
	fmt.Fprintf(&b, "  default_url: %s\n", cfg.Keys.DefaultURL)
	fmt.Fprintf(&b, "  sshd_config: %s\n", cfg.Keys.SshdConfigPath)
	fmt.Fprintf(&b, "  fetch_timeout: %s\n", cfg.Keys.FetchTimeout)

	b.WriteString("\nssh:\n")
	fmt.Fprintf(&b, "  connect_timeout: %s\n", cfg.SSH.ConnectTimeout)

	b.WriteString("\nupdate:\n")
	b.WriteString("  # Piggybacked update notices on the version command.\n")
	fmt.Fprintf(&b, "  check: %t\n", cfg.Update.Check)

	return b.String()
}
