package errors

import (
	"errors"
	"fmt"
)

// ErrorCode represents stable error codes for all failure modes
type ErrorCode string

const (
	// MalformedInput indicates the design export could not be parsed into a valid tree
	MalformedInput ErrorCode = "MALFORMED_INPUT"
	// DetectorFailed indicates a single detector failed; the scan continues without it
	DetectorFailed ErrorCode = "DETECTOR_FAILED"
	// ReconciliationConflict indicates two distinct candidates produced the same fingerprint
	ReconciliationConflict ErrorCode = "RECONCILIATION_CONFLICT"
	// UnknownFeature indicates a resolve action matched no persisted feature
	UnknownFeature ErrorCode = "UNKNOWN_FEATURE"
	// StateCorrupt indicates the persisted state could not be read
	StateCorrupt ErrorCode = "STATE_CORRUPT"
	// InternalError indicates an unexpected error
	InternalError ErrorCode = "INTERNAL_ERROR"
)

// FixActionType represents the type of fix action
type FixActionType string

const (
	// RunCommand suggests running a command
	RunCommand FixActionType = "run-command"
	// OpenDocs suggests opening documentation
	OpenDocs FixActionType = "open-docs"
)

// FixAction represents a suggested fix for an error
type FixAction struct {
	Type        FixActionType `json:"type"`
	Command     string        `json:"command,omitempty"`
	Safe        bool          `json:"safe,omitempty"`
	Description string        `json:"description,omitempty"`
	URL         string        `json:"url,omitempty"`
}

// AuditError represents a pen-audit error with a stable code and optional fixes
type AuditError struct {
	Code           ErrorCode   `json:"code"`
	Message        string      `json:"message"`
	Details        interface{} `json:"details,omitempty"`
	SuggestedFixes []FixAction `json:"suggestedFixes,omitempty"`
	cause          error       // Underlying error (not exported to JSON)
}

// New creates a new AuditError
func New(code ErrorCode, message string, cause error) *AuditError {
	return &AuditError{
		Code:           code,
		Message:        message,
		cause:          cause,
		SuggestedFixes: suggestedFixes(code),
	}
}

// Error implements the error interface
func (e *AuditError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying error
func (e *AuditError) Unwrap() error {
	return e.cause
}

// WithDetails adds details to the error
func (e *AuditError) WithDetails(details interface{}) *AuditError {
	e.Details = details
	return e
}

// CodeOf extracts the error code from an error chain.
// Returns InternalError for errors that are not AuditErrors.
func CodeOf(err error) ErrorCode {
	var ae *AuditError
	if errors.As(err, &ae) {
		return ae.Code
	}
	return InternalError
}

// HasCode reports whether err carries the given code anywhere in its chain
func HasCode(err error, code ErrorCode) bool {
	var ae *AuditError
	if errors.As(err, &ae) {
		return ae.Code == code
	}
	return false
}

// errorActions maps error codes to suggested fix actions
var errorActions = map[ErrorCode][]FixAction{
	MalformedInput: {
		{
			Type:        RunCommand,
			Command:     "pen-audit scan --help",
			Safe:        true,
			Description: "The input must be a JSON node tree exported from the design tool",
		},
	},
	StateCorrupt: {
		{
			Type:        RunCommand,
			Command:     "pen-audit scan <export.json>",
			Safe:        true,
			Description: "Re-scan to rebuild state from the design export",
		},
	},
	UnknownFeature: {
		{
			Type:        RunCommand,
			Command:     "pen-audit show",
			Safe:        true,
			Description: "List persisted features and their fingerprints",
		},
	},
}

func suggestedFixes(code ErrorCode) []FixAction {
	if fixes, ok := errorActions[code]; ok {
		return fixes
	}
	return nil
}
