package cli

import (
	"encoding/json"
	stderrors "errors"
	"io"

	"github.com/rileyhilliard/hostprep/internal/errors"
	"github.com/rileyhilliard/hostprep/internal/ui"
)

// Machine mode flag - when true, outputs JSON and suppresses human-friendly decorations
var machineMode bool

// MachineMode returns true if machine-readable output is enabled
func MachineMode() bool {
	return machineMode
}

// JSONEnvelope wraps command output in a consistent structure for machine parsing.
// All --json output should use this envelope.
type JSONEnvelope struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   *JSONError  `json:"error,omitempty"`
}

// JSONError provides structured error information for machine parsing.
type JSONError struct {
	Code       string      `json:"code"`
	Message    string      `json:"message"`
	Suggestion string      `json:"suggestion,omitempty"`
	Details    interface{} `json:"details,omitempty"`
}

// Error codes for machine-readable output.
// These map to specific actions automation can take.
const (
	ErrCodePrecheck    = "precheck_failed"
	ErrCodeValidation  = "validation_failed"
	ErrCodeEnvironment = "environment_failed"
	ErrCodeConfig      = "config_invalid"
	ErrCodeFetch       = "fetch_failed"
	ErrCodeSSH         = "ssh_failed"
	ErrCodeUnknown     = "unknown"
)

// WriteJSONSuccess writes a successful response with data to the writer.
func WriteJSONSuccess(w io.Writer, data interface{}) error {
	env := JSONEnvelope{
		Success: true,
		Data:    data,
	}
	return writeJSONEnvelope(w, env)
}

// WriteJSONError writes an error response to the writer.
func WriteJSONError(w io.Writer, code, message, suggestion string, details interface{}) error {
	env := JSONEnvelope{
		Success: false,
		Error: &JSONError{
			Code:       code,
			Message:    message,
			Suggestion: suggestion,
			Details:    details,
		},
	}
	return writeJSONEnvelope(w, env)
}

// WriteJSONFromError converts a Go error to a JSON error response.
func WriteJSONFromError(w io.Writer, err error) error {
	env := JSONEnvelope{
		Success: false,
		Error:   ErrorToJSON(err),
	}
	return writeJSONEnvelope(w, env)
}

// writeJSONEnvelope writes the envelope with consistent formatting.
func writeJSONEnvelope(w io.Writer, env JSONEnvelope) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(env)
}

// ErrorToJSON converts a Go error to a JSONError with appropriate code mapping.
func ErrorToJSON(err error) *JSONError {
	if err == nil {
		return nil
	}

	// Check if it's our structured error type, possibly wrapped
	var perr *errors.Error
	if stderrors.As(err, &perr) {
		return &JSONError{
			Code:       mapErrorCode(perr.Code),
			Message:    perr.Message,
			Suggestion: perr.Suggestion,
		}
	}

	// Generic error
	return &JSONError{
		Code:    ErrCodeUnknown,
		Message: err.Error(),
	}
}

// fileChangeOutput is the machine-readable form of one file-change row.
type fileChangeOutput struct {
	Path   string `json:"path"`
	Action string `json:"action"`
	Detail string `json:"detail,omitempty"`
	Backup string `json:"backup,omitempty"`
}

// changesToJSON converts report rows for the JSON envelope.
func changesToJSON(changes []ui.FileChange) []fileChangeOutput {
	out := make([]fileChangeOutput, 0, len(changes))
	for _, c := range changes {
		out = append(out, fileChangeOutput{
			Path:   c.Path,
			Action: c.Action,
			Detail: c.Detail,
			Backup: c.Backup,
		})
	}
	return out
}

// mapErrorCode maps internal error codes to machine-readable codes.
func mapErrorCode(internalCode string) string {
	switch internalCode {
	case errors.ErrPrecheck:
		return ErrCodePrecheck
	case errors.ErrValidation:
		return ErrCodeValidation
	case errors.ErrEnvironment:
		return ErrCodeEnvironment
	case errors.ErrConfig:
		return ErrCodeConfig
	case errors.ErrFetch:
		return ErrCodeFetch
	case errors.ErrSSH:
		return ErrCodeSSH
	}
	return ErrCodeUnknown
}
