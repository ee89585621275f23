package cli

import (
	"fmt"
	"os"

	"github.com/rileyhilliard/hostprep/internal/config"
	"github.com/rileyhilliard/hostprep/internal/doctor"
	"github.com/rileyhilliard/hostprep/internal/hostname"
	"github.com/rileyhilliard/hostprep/internal/ui"
	"golang.org/x/term"
)

// DoctorOutput is the machine-readable diagnostic report.
type DoctorOutput struct {
	Categories []CategoryOutput `json:"categories"`
	Summary    SummaryOutput    `json:"summary"`
}

// CategoryOutput groups check results under their category.
type CategoryOutput struct {
	Name    string              `json:"name"`
	Results []CheckResultOutput `json:"results"`
}

// CheckResultOutput is one check result with the status spelled out.
type CheckResultOutput struct {
	Name       string `json:"name"`
	Status     string `json:"status"`
	Message    string `json:"message"`
	Suggestion string `json:"suggestion,omitempty"`
	Fixable    bool   `json:"fixable,omitempty"`
}

// SummaryOutput summarizes the check results.
type SummaryOutput struct {
	Pass     int  `json:"pass"`
	Warn     int  `json:"warn"`
	Fail     int  `json:"fail"`
	Fixable  int  `json:"fixable"`
	AllClear bool `json:"all_clear"`
}

// checklist labels per check category
var categoryLabels = map[string]string{
	"SYSTEM":  "System checks",
	"FILES":   "File checks",
	"NETWORK": "Network checks",
	"SSH":     "SSH checks",
}

// doctorCommand runs the diagnostic checks and renders the report.
// The process exits 1 when any check fails outright.
func doctorCommand() error {
	cfg, err := config.LoadOrDefault(Config())
	if err != nil {
		// A broken config shouldn't stop the doctor; the config checks
		// below will report what's wrong with it.
		cfg = config.DefaultConfig()
	}

	checks := collectChecks(cfg)

	var results []doctor.CheckResult
	switch {
	case MachineMode():
		results = doctor.RunAllParallel(checks)
	case term.IsTerminal(int(os.Stdout.Fd())):
		aborted := false
		results, aborted, err = runChecksWithChecklist(checks)
		if err != nil {
			results = doctor.RunAllParallel(checks)
		}
		if aborted {
			fmt.Println("Aborted.")
			return nil
		}
	default:
		results = doctor.RunAllParallel(checks)
	}

	if doctorFix {
		results = attemptFixes(checks, results)
	}

	if MachineMode() {
		if err := outputDoctorJSON(checks, results); err != nil {
			return err
		}
	} else {
		outputDoctorText(checks, results)
	}

	if doctor.HasFailures(results) {
		os.Exit(1)
	}
	return nil
}

// collectChecks gathers the diagnostic checks in display order.
func collectChecks(cfg *config.Config) []doctor.Check {
	var checks []doctor.Check
	checks = append(checks, doctor.NewSystemChecks(cfg)...)
	checks = append(checks, doctor.NewFileChecks(cfg)...)
	checks = append(checks, doctor.NewConfigChecks(Config())...)
	checks = append(checks, doctor.NewNetworkChecks(cfg)...)
	checks = append(checks, doctor.NewSSHChecks()...)
	return checks
}

// categoryGroup is one checklist row: a category and the indices of its
// checks in the flat list.
type categoryGroup struct {
	name    string
	indices []int
}

// groupChecks splits the flat check list into per-category groups,
// keeping first-seen order.
func groupChecks(checks []doctor.Check) []categoryGroup {
	var groups []categoryGroup
	index := map[string]int{}
	for i, check := range checks {
		cat := check.Category()
		gi, ok := index[cat]
		if !ok {
			gi = len(groups)
			index[cat] = gi
			groups = append(groups, categoryGroup{name: cat})
		}
		groups[gi].indices = append(groups[gi].indices, i)
	}
	return groups
}

// runChecksWithChecklist runs the checks under a live per-category
// checklist. Categories run concurrently; each writes only its own slots
// in the shared results slice.
func runChecksWithChecklist(checks []doctor.Check) ([]doctor.CheckResult, bool, error) {
	groups := groupChecks(checks)
	labels := make([]string, len(groups))
	for i, g := range groups {
		labels[i] = categoryLabel(g.name)
	}

	ui.PrintHeader(ui.HeaderInfo{
		Version: formatVersion(version),
		Tagline: "Host diagnostics",
		Host:    hostname.Current(),
	})

	results := make([]doctor.CheckResult, len(checks))
	aborted, err := ui.RunChecklist(labels, func(i int) ui.ChecklistOutcome {
		worst := ui.ChecklistPassed
		for _, idx := range groups[i].indices {
			res := checks[idx].Run()
			results[idx] = res
			switch res.Status {
			case doctor.StatusFail:
				worst = ui.ChecklistFailed
			case doctor.StatusWarn:
				if worst != ui.ChecklistFailed {
					worst = ui.ChecklistWarned
				}
			}
		}
		return worst
	})
	return results, aborted, err
}

func categoryLabel(cat string) string {
	if label, ok := categoryLabels[cat]; ok {
		return label
	}
	return cat
}

// attemptFixes tries to fix issues where possible, re-running each fixed
// check to see whether it now passes.
func attemptFixes(checks []doctor.Check, results []doctor.CheckResult) []doctor.CheckResult {
	for i, result := range results {
		if result.Fixable && (result.Status == doctor.StatusFail || result.Status == doctor.StatusWarn) {
			if err := checks[i].Fix(); err == nil {
				results[i] = checks[i].Run()
			}
		}
	}
	return results
}

// outputDoctorJSON emits the structured report in the machine envelope.
func outputDoctorJSON(checks []doctor.Check, results []doctor.CheckResult) error {
	grouped := make(map[string][]CheckResultOutput)
	categoryOrder := []string{}

	for i, check := range checks {
		cat := check.Category()
		if _, exists := grouped[cat]; !exists {
			categoryOrder = append(categoryOrder, cat)
		}
		res := results[i]
		grouped[cat] = append(grouped[cat], CheckResultOutput{
			Name:       res.Name,
			Status:     res.Status.String(),
			Message:    res.Message,
			Suggestion: res.Suggestion,
			Fixable:    res.Fixable,
		})
	}

	output := DoctorOutput{
		Categories: make([]CategoryOutput, 0, len(categoryOrder)),
	}
	for _, cat := range categoryOrder {
		output.Categories = append(output.Categories, CategoryOutput{
			Name:    cat,
			Results: grouped[cat],
		})
	}

	counts := doctor.CountByStatus(results)
	output.Summary = SummaryOutput{
		Pass:     counts[doctor.StatusPass],
		Warn:     counts[doctor.StatusWarn],
		Fail:     counts[doctor.StatusFail],
		Fixable:  doctor.FixableCount(results),
		AllClear: !doctor.HasIssues(results),
	}

	return WriteJSONSuccess(os.Stdout, output)
}

// outputDoctorText renders the human-readable report.
func outputDoctorText(checks []doctor.Check, results []doctor.CheckResult) {
	rows := make([]ui.DoctorCheckRow, 0, len(results))
	for i, check := range checks {
		res := results[i]
		rows = append(rows, ui.DoctorCheckRow{
			Status:     res.Status.String(),
			Category:   check.Category(),
			Message:    res.Message,
			Suggestion: res.Suggestion,
		})
	}

	fmt.Println()
	fmt.Println(ui.RenderDoctorTable(rows))

	if !doctor.HasIssues(results) {
		fmt.Printf("%s %s\n", ui.SuccessStyle().Render(ui.SymbolSuccess), doctor.Summary(results))
		return
	}

	fmt.Printf("%s %s\n", ui.ErrorStyle().Render(ui.SymbolFail), doctor.Summary(results))
	if fixable := doctor.FixableCount(results); fixable > 0 && !doctorFix {
		fmt.Println()
		fmt.Printf("  Run with %s to attempt automatic fixes where possible.\n",
			ui.MutedStyle().Render("--fix"))
	}
}
