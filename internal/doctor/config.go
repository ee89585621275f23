package doctor

import (
	stderrors "errors"
	"fmt"

	"github.com/rileyhilliard/hostprep/internal/config"
	"github.com/rileyhilliard/hostprep/internal/errors"
)

// ConfigFileCheck reports which config file is in effect. hostprep runs
// fine without one, so a missing file passes.
type ConfigFileCheck struct {
	ConfigPath string // Explicit path, or empty to search
}

func (c *ConfigFileCheck) Name() string     { return "config_file" }
func (c *ConfigFileCheck) Category() string { return "FILES" }

func (c *ConfigFileCheck) Run() CheckResult {
	path, err := config.Find(c.ConfigPath)
	if err != nil {
		return configFail(c.Name(), err, "Check the path given with --config")
	}

	if path == "" {
		return CheckResult{
			Name:    c.Name(),
			Status:  StatusPass,
			Message: "No config file (defaults in effect)",
		}
	}

	return CheckResult{
		Name:    c.Name(),
		Status:  StatusPass,
		Message: fmt.Sprintf("Config file: %s", path),
	}
}

func (c *ConfigFileCheck) Fix() error {
	return nil // 'hostprep init' writes a starter config when wanted
}

// ConfigSchemaCheck verifies the config file parses and validates.
type ConfigSchemaCheck struct {
	ConfigPath string
}

func (c *ConfigSchemaCheck) Name() string     { return "config_schema" }
func (c *ConfigSchemaCheck) Category() string { return "FILES" }

func (c *ConfigSchemaCheck) Run() CheckResult {
	path, err := config.Find(c.ConfigPath)
	if err != nil || path == "" {
		// ConfigFileCheck reports location problems; nothing to validate here.
		return CheckResult{
			Name:    c.Name(),
			Status:  StatusPass,
			Message: "No config to validate",
		}
	}

	// Load validates as it parses, so one call covers syntax and schema.
	if _, err := config.Load(path); err != nil {
		return configFail(c.Name(), err,
			fmt.Sprintf("Fix %s, or delete it to fall back to defaults", path))
	}

	return CheckResult{
		Name:    c.Name(),
		Status:  StatusPass,
		Message: "Schema valid",
	}
}

// configFail flattens an error into a single table row. The multi-line
// rendering of structured errors is for terminal output, not cells, so
// pull the message and suggestion fields out directly.
func configFail(name string, err error, fallback string) CheckResult {
	message := err.Error()
	suggestion := fallback

	var perr *errors.Error
	if stderrors.As(err, &perr) {
		message = perr.Message
		if perr.Suggestion != "" {
			suggestion = perr.Suggestion
		}
	}

	return CheckResult{
		Name:       name,
		Status:     StatusFail,
		Message:    message,
		Suggestion: suggestion,
	}
}

func (c *ConfigSchemaCheck) Fix() error {
	return nil // Schema issues require manual intervention
}

// NewConfigChecks creates all config-related checks.
func NewConfigChecks(configPath string) []Check {
	return []Check{
		&ConfigFileCheck{ConfigPath: configPath},
		&ConfigSchemaCheck{ConfigPath: configPath},
	}
}
