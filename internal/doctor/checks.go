package doctor

import (
	"fmt"
	"sync"
)

// CheckStatus is the severity a check settles on.
type CheckStatus int

const (
	StatusPass CheckStatus = iota
	StatusWarn
	StatusFail
)

var statusNames = [...]string{
	StatusPass: "pass",
	StatusWarn: "warn",
	StatusFail: "fail",
}

func (s CheckStatus) String() string {
	if s < 0 || int(s) >= len(statusNames) {
		return "unknown"
	}
	return statusNames[s]
}

// CheckResult is one finished check, ready for the report and --json.
type CheckResult struct {
	Name       string      `json:"name"`
	Status     CheckStatus `json:"status"`
	Message    string      `json:"message"`
	Suggestion string      `json:"suggestion,omitempty"`
	Fixable    bool        `json:"fixable,omitempty"`
}

// Check is one diagnostic probe.
type Check interface {
	// Name identifies the check in reports.
	Name() string

	// Category groups related checks under one heading.
	Category() string

	// Run executes the probe.
	Run() CheckResult

	// Fix repairs the finding where the check supports it. Checks
	// without a repair path return nil.
	Fix() error
}

// RunAll runs every check in order.
func RunAll(checks []Check) []CheckResult {
	results := make([]CheckResult, len(checks))
	for i, check := range checks {
		results[i] = check.Run()
	}
	return results
}

// RunAllParallel runs every check concurrently. Results land at the
// same index as their check, so output order stays stable.
func RunAllParallel(checks []Check) []CheckResult {
	results := make([]CheckResult, len(checks))

	var wg sync.WaitGroup
	for i, check := range checks {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results[i] = check.Run()
		}()
	}
	wg.Wait()

	return results
}

// CountByStatus tallies results per status.
func CountByStatus(results []CheckResult) map[CheckStatus]int {
	counts := make(map[CheckStatus]int)
	for _, r := range results {
		counts[r.Status]++
	}
	return counts
}

// HasFailures reports whether any check failed outright.
func HasFailures(results []CheckResult) bool {
	for _, r := range results {
		if r.Status == StatusFail {
			return true
		}
	}
	return false
}

// HasIssues reports whether anything other than a clean pass came back.
func HasIssues(results []CheckResult) bool {
	for _, r := range results {
		if r.Status != StatusPass {
			return true
		}
	}
	return false
}

// FixableCount counts the findings --fix could act on.
func FixableCount(results []CheckResult) int {
	count := 0
	for _, r := range results {
		if r.Fixable && r.Status != StatusPass {
			count++
		}
	}
	return count
}

// Summary is the one-line verdict printed under the report.
func Summary(results []CheckResult) string {
	counts := CountByStatus(results)
	issues := counts[StatusWarn] + counts[StatusFail]
	if issues == 0 {
		return "Everything looks good"
	}
	return fmt.Sprintf("%d issue%s found", issues, pluralize(issues))
}

func pluralize(n int) string {
	if n == 1 {
		return ""
	}
	return "s"
}
