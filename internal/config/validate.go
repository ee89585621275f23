package config

import (
	"fmt"
	"net/url"
	"path/filepath"
	"strings"

	"github.com/rileyhilliard/hostprep/internal/errors"
)

// Validate checks the config for errors and returns structured error messages.
func Validate(cfg *Config) error {
	// Check version
	if cfg.Version > CurrentConfigVersion {
		return errors.New(errors.ErrConfig,
			fmt.Sprintf("This config is from the future (version %d, but hostprep only knows up to %d)", cfg.Version, CurrentConfigVersion),
			"Grab the latest hostprep: https://github.com/rileyhilliard/hostprep/releases")
	}

	if err := validateHostname(cfg.Hostname); err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig, err.Error(), "Check the 'hostname' section of your config.")
	}

	if err := validateKeys(cfg.Keys); err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig, err.Error(), "Check the 'keys' section of your config.")
	}

	if cfg.SSH.ConnectTimeout < 0 {
		return errors.New(errors.ErrConfig,
			"ssh.connect_timeout can't be negative - that doesn't make sense",
			"Use a duration like '10s', or 0 to disable the timeout.")
	}

	return nil
}

// validateHostname checks the hostname command's file paths and safety gate.
func validateHostname(hc HostnameConfig) error {
	if err := validateAbsolutePath("hostname.hosts_path", hc.HostsPath); err != nil {
		return err
	}
	if err := validateAbsolutePath("hostname.hostname_path", hc.HostnamePath); err != nil {
		return err
	}
	if err := validateAbsolutePath("hostname.cloud_cfg_dir", hc.CloudCfgDir); err != nil {
		return err
	}
	if err := validateAbsolutePath("hostname.cloud_template_dir", hc.CloudTemplateDir); err != nil {
		return err
	}

	for i, family := range hc.SafeFamilies {
		if strings.TrimSpace(family) == "" {
			return fmt.Errorf("hostname.safe_families has an empty entry at position %d - remove it or add a family name", i)
		}
	}

	return nil
}

// validateKeys checks the keys command's source URL and target path.
func validateKeys(kc KeysConfig) error {
	if kc.DefaultURL != "" {
		u, err := url.Parse(kc.DefaultURL)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return fmt.Errorf("keys.default_url '%s' doesn't look like an http(s) URL", kc.DefaultURL)
		}
	}

	if err := validateAbsolutePath("keys.sshd_config", kc.SshdConfigPath); err != nil {
		return err
	}

	if kc.FetchTimeout < 0 {
		return fmt.Errorf("keys.fetch_timeout can't be negative - that doesn't make sense")
	}

	return nil
}

// validateAbsolutePath checks a configured file path is absolute.
func validateAbsolutePath(field, path string) error {
	if path == "" {
		return fmt.Errorf("%s can't be empty", field)
	}
	if !filepath.IsAbs(path) {
		return fmt.Errorf("%s needs an absolute path, got '%s'", field, path)
	}
	return nil
}
