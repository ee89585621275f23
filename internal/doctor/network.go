package doctor

import (
	"fmt"
	"net/http"
	"time"

	"github.com/rileyhilliard/hostprep/internal/config"
)

// keyURLProbeTimeout keeps doctor snappy; actual key fetches get the
// longer keys.fetch_timeout from config.
const keyURLProbeTimeout = 3 * time.Second

// KeyURLCheck probes the default key URL with a HEAD request so a typo'd
// GitHub username or a dead network surfaces before 'hostprep keys' runs.
type KeyURLCheck struct {
	URL     string
	Timeout time.Duration
	Client  *http.Client
}

func (c *KeyURLCheck) Name() string     { return "key_url" }
func (c *KeyURLCheck) Category() string { return "NETWORK" }

func (c *KeyURLCheck) Run() CheckResult {
	if c.URL == "" {
		return CheckResult{
			Name:    c.Name(),
			Status:  StatusPass,
			Message: "No default key URL configured (probe skipped)",
		}
	}

	client := c.Client
	if client == nil {
		timeout := c.Timeout
		if timeout == 0 {
			timeout = keyURLProbeTimeout
		}
		client = &http.Client{Timeout: timeout}
	}

	req, err := http.NewRequest(http.MethodHead, c.URL, nil)
	if err != nil {
		return CheckResult{
			Name:       c.Name(),
			Status:     StatusFail,
			Message:    fmt.Sprintf("Invalid key URL: %s", c.URL),
			Suggestion: "Fix keys.default_url in your config",
		}
	}

	resp, err := client.Do(req)
	if err != nil {
		return CheckResult{
			Name:       c.Name(),
			Status:     StatusWarn,
			Message:    fmt.Sprintf("Key URL unreachable: %s", c.URL),
			Suggestion: "Check network connectivity; 'hostprep keys' will fail until this resolves",
		}
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return CheckResult{
			Name:       c.Name(),
			Status:     StatusWarn,
			Message:    fmt.Sprintf("Key URL returned HTTP %d: %s", resp.StatusCode, c.URL),
			Suggestion: "Verify the username in keys.default_url",
		}
	}

	return CheckResult{
		Name:    c.Name(),
		Status:  StatusPass,
		Message: fmt.Sprintf("Key URL reachable (HTTP %d)", resp.StatusCode),
	}
}

func (c *KeyURLCheck) Fix() error {
	return nil // Network problems aren't ours to fix
}

// NewNetworkChecks creates the NETWORK category checks.
func NewNetworkChecks(cfg *config.Config) []Check {
	return []Check{
		&KeyURLCheck{URL: cfg.Keys.DefaultURL},
	}
}
