// Package ui renders hostprep's terminal output: spinners, the live
// doctor checklist, grouped check reports, file-change summaries, and the
// interactive SSH host picker. Everything styles text through Lip Gloss
// so colors and glyphs stay consistent across commands.
//
// # Components Overview
//
//	Spinner          - single-line animated status with elapsed time
//	RunChecklist     - one live spinner row per doctor category
//	RenderDoctorTable - check results grouped by category
//	ChangeRenderer   - file-change reports with backup paths
//	PickSSHHost      - push-target selection from ~/.ssh/config
//	PrintHeader      - branded command banner
//
// # Color Scheme
//
// Colors are hex values rendered through Lip Gloss:
//
//	ColorSuccess   (neon green)     - successful operations
//	ColorError     (hot red-pink)   - failures
//	ColorWarning   (electric amber) - warnings and skipped items
//	ColorInfo      (neon cyan)      - informational messages
//	ColorMuted     (purple-gray)    - secondary text, timing
//	ColorSecondary (lavender gray)  - in-progress indicators
//
// DisableColors switches everything to monochrome; the CLI calls it for
// --json and --no-color runs so machine-read output stays clean.
//
// # Symbols
//
// Status glyphs are shared by every surface in the package:
//
//	SymbolSuccess  (fisheye)    - check passed
//	SymbolFail     (cross)      - check or task failed
//	SymbolPending  (diamond)    - not yet started
//	SymbolProgress (filled dia) - in progress
//	SymbolComplete (filled dot) - done (alternative)
//	SymbolSkipped  (circled -)  - skipped
//	SymbolWarning  (triangle)   - warning
//
// # Spinner Usage
//
// Spinner animates on its own goroutine and settles into a final glyph
// with elapsed time:
//
//	s := ui.NewSpinner("Fetching keys")
//	s.Start()
//	// ... do work ...
//	s.Success() // or s.Fail() or s.Skip()
//
// # Checklist Usage
//
// RunChecklist drives a Bubble Tea program that renders one spinner line
// per task while the tasks run concurrently:
//
//	aborted, err := ui.RunChecklist(labels, func(i int) ui.ChecklistOutcome {
//		results[i] = checks[i].Run()
//		return outcomeFor(results[i])
//	})
//
// # Bubble Tea Components
//
// SpinnerComponent is a row for composition into larger models;
// ChecklistModel and SSHHostPickerModel are complete models run via
// tea.NewProgram.
package ui
