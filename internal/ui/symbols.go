package ui

// Cyber glyph symbols for status indicators.
const (
	SymbolSuccess  = "◉" // Check passed / task succeeded
	SymbolFail     = "✕" // Check failed / task failed
	SymbolPending  = "◇" // Not yet started
	SymbolProgress = "◆" // In progress
	SymbolComplete = "●" // Done (alternative to success)
	SymbolSkipped  = "⊖" // Skipped
	SymbolWarning  = "⚠" // Warning
)
