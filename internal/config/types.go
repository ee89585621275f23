package config

import "time"

// CurrentConfigVersion is the schema version for the config file.
// Increment when making breaking changes to the config structure.
const CurrentConfigVersion = 1

// Config represents the complete hostprep configuration file.
// Every field has a baked default, so running without a config file works.
type Config struct {
	Version  int            `yaml:"version" mapstructure:"version"`
	Hostname HostnameConfig `yaml:"hostname" mapstructure:"hostname"`
	Keys     KeysConfig     `yaml:"keys" mapstructure:"keys"`
	SSH      SSHConfig      `yaml:"ssh" mapstructure:"ssh"`
	Update   UpdateConfig   `yaml:"update" mapstructure:"update"`
}

// HostnameConfig controls the hostname command's target files and safety gate.
type HostnameConfig struct {
	// HostsPath is the hosts-mapping file to reconcile.
	HostsPath string `yaml:"hosts_path" mapstructure:"hosts_path"`

	// HostnamePath is where the persistent hostname is written.
	HostnamePath string `yaml:"hostname_path" mapstructure:"hostname_path"`

	// SafeFamilies are the distro families (os-release ID or ID_LIKE tokens)
	// where inserting or appending a hosts line is known to be safe.
	// Replacing an existing line is always allowed.
	SafeFamilies []string `yaml:"safe_families" mapstructure:"safe_families"`

	// CloudCfgDir is where the cloud-init preserve_hostname drop-in goes.
	CloudCfgDir string `yaml:"cloud_cfg_dir" mapstructure:"cloud_cfg_dir"`

	// CloudTemplateDir holds the cloud-init hosts.*.tmpl templates.
	CloudTemplateDir string `yaml:"cloud_template_dir" mapstructure:"cloud_template_dir"`
}

// KeysConfig controls the keys command's sources and targets.
type KeysConfig struct {
	// DefaultURL is the key-list URL used when no source flag is given.
	DefaultURL string `yaml:"default_url" mapstructure:"default_url"`

	// SshdConfigPath is the sshd configuration file patched by -d.
	SshdConfigPath string `yaml:"sshd_config" mapstructure:"sshd_config"`

	// FetchTimeout bounds key-list downloads. Zero disables the timeout.
	FetchTimeout time.Duration `yaml:"fetch_timeout" mapstructure:"fetch_timeout"`
}

// SSHConfig controls remote pushes.
type SSHConfig struct {
	// ConnectTimeout bounds the SSH dial for push. Zero disables the timeout.
	ConnectTimeout time.Duration `yaml:"connect_timeout" mapstructure:"connect_timeout"`
}

// UpdateConfig controls release checking.
type UpdateConfig struct {
	// Check toggles the periodic update check.
	Check bool `yaml:"check" mapstructure:"check"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Version: CurrentConfigVersion,
		Hostname: HostnameConfig{
			HostsPath:        "/etc/hosts",
			HostnamePath:     "/etc/hostname",
			SafeFamilies:     []string{"debian", "ubuntu"},
			CloudCfgDir:      "/etc/cloud/cloud.cfg.d",
			CloudTemplateDir: "/etc/cloud/templates",
		},
		Keys: KeysConfig{
			DefaultURL:     "https://github.com/rileyhilliard.keys",
			SshdConfigPath: "/etc/ssh/sshd_config",
			FetchTimeout:   30 * time.Second,
		},
		SSH: SSHConfig{
			ConnectTimeout: 10 * time.Second,
		},
		Update: UpdateConfig{
			Check: true,
		},
	}
}
