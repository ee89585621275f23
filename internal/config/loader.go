package config

import (
	"os"
	"path/filepath"

	"github.com/rileyhilliard/hostprep/internal/errors"
	"github.com/spf13/viper"
)

const (
	// ConfigFileName is the config file name in both search locations.
	ConfigFileName = "config.yaml"
	// SystemConfigDir is the machine-wide config directory.
	SystemConfigDir = "/etc/hostprep"
	// UserConfigDir is the per-user config directory, relative to $HOME.
	UserConfigDir = ".config/hostprep"
)

// Load reads config from the specified path.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)

	if err := v.ReadInConfig(); err != nil {
		if os.IsNotExist(err) {
			return nil, errors.WrapWithCode(err, errors.ErrConfig,
				"Config file not found",
				"Run 'hostprep init' to create one, or specify a path with --config")
		}
		return nil, errors.WrapWithCode(err, errors.ErrConfig,
			"Failed to read config file",
			"Check the file exists and is valid YAML")
	}

	return parseConfig(v, path)
}

// Find locates the config file using the search order:
// 1. Explicit path (from --config flag)
// 2. /etc/hostprep/config.yaml (machine-wide)
// 3. ~/.config/hostprep/config.yaml (per-user)
//
// Returns the path to the config file, or empty string if not found.
func Find(explicit string) (string, error) {
	// 1. Explicit path takes precedence
	if explicit != "" {
		if _, err := os.Stat(explicit); err != nil {
			if os.IsNotExist(err) {
				return "", errors.WrapWithCode(err, errors.ErrConfig,
					"Specified config file not found: "+explicit,
					"Check the path is correct")
			}
			return "", errors.WrapWithCode(err, errors.ErrConfig,
				"Cannot access config file: "+explicit,
				"Check file permissions")
		}
		return explicit, nil
	}

	// 2. Machine-wide config
	systemConfig := filepath.Join(SystemConfigDir, ConfigFileName)
	if _, err := os.Stat(systemConfig); err == nil {
		return systemConfig, nil
	}

	// 3. Per-user config
	home, _ := os.UserHomeDir()
	if home != "" {
		userConfig := filepath.Join(home, UserConfigDir, ConfigFileName)
		if _, err := os.Stat(userConfig); err == nil {
			return userConfig, nil
		}
	}

	return "", nil
}

// LoadOrDefault loads config from the explicit path or the search locations,
// falling back to defaults when no config file exists. Every command goes
// through this so a bare system works out of the box.
func LoadOrDefault(explicit string) (*Config, error) {
	path, err := Find(explicit)
	if err != nil {
		return nil, err
	}

	if path == "" {
		return DefaultConfig(), nil
	}

	return Load(path)
}

// parseConfig converts viper config to our Config struct with defaults merged in.
func parseConfig(v *viper.Viper, path string) (*Config, error) {
	setDefaults(v)

	cfg := DefaultConfig()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, errors.WrapWithCode(err, errors.ErrConfig,
			"Invalid config format",
			"Check the YAML syntax in "+path)
	}

	if err := Validate(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// setDefaults registers baked defaults so partial config files work.
func setDefaults(v *viper.Viper) {
	def := DefaultConfig()

	v.SetDefault("version", def.Version)
	v.SetDefault("hostname.hosts_path", def.Hostname.HostsPath)
	v.SetDefault("hostname.hostname_path", def.Hostname.HostnamePath)
	v.SetDefault("hostname.safe_families", def.Hostname.SafeFamilies)
	v.SetDefault("hostname.cloud_cfg_dir", def.Hostname.CloudCfgDir)
	v.SetDefault("hostname.cloud_template_dir", def.Hostname.CloudTemplateDir)
	v.SetDefault("keys.default_url", def.Keys.DefaultURL)
	v.SetDefault("keys.sshd_config", def.Keys.SshdConfigPath)
	v.SetDefault("keys.fetch_timeout", def.Keys.FetchTimeout)
	v.SetDefault("ssh.connect_timeout", def.SSH.ConnectTimeout)
	v.SetDefault("update.check", def.Update.Check)
}
