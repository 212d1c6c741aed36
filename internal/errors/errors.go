package errors

import (
	"errors"
	"fmt"
)

// ErrorCode represents stable error codes for all failure modes
type ErrorCode string

const (
	// BackendUnavailable indicates the backend binary is not installed or not runnable
	BackendUnavailable ErrorCode = "BACKEND_UNAVAILABLE"
	// InvocationFailed indicates a backend command exited with an error
	InvocationFailed ErrorCode = "INVOCATION_FAILED"
	// Timeout indicates a backend command exceeded its deadline
	Timeout ErrorCode = "TIMEOUT"
	// UpstreamUnsupported indicates the repository has no usable upstream for web links
	UpstreamUnsupported ErrorCode = "UPSTREAM_UNSUPPORTED"
	// PathNotTracked indicates the path is not in the repository snapshot
	PathNotTracked ErrorCode = "PATH_NOT_TRACKED"
	// ContentUnavailable indicates file contents could not be fetched at the revision
	ContentUnavailable ErrorCode = "CONTENT_UNAVAILABLE"
	// TreeNotFound indicates the named tree is not in the workspace
	TreeNotFound ErrorCode = "TREE_NOT_FOUND"
	// ConfigInvalid indicates a malformed configuration or workspace file
	ConfigInvalid ErrorCode = "CONFIG_INVALID"
	// InternalError indicates unexpected error
	InternalError ErrorCode = "INTERNAL_ERROR"
)

// FixActionType represents the type of fix action
type FixActionType string

const (
	// RunCommand suggests running a command
	RunCommand FixActionType = "run-command"
	// InstallTool suggests installing a tool
	InstallTool FixActionType = "install-tool"
)

// InstallMethod represents methods for installing tools
type InstallMethod string

const (
	// Brew installation via Homebrew
	Brew InstallMethod = "brew"
	// Apt installation via apt
	Apt InstallMethod = "apt"
	// Manual installation
	Manual InstallMethod = "manual"
)

// FixAction represents a suggested fix for an error
type FixAction struct {
	Type        FixActionType   `json:"type"`
	Command     string          `json:"command,omitempty"`
	Safe        bool            `json:"safe,omitempty"`
	Description string          `json:"description,omitempty"`
	Tool        string          `json:"tool,omitempty"`
	Methods     []InstallMethod `json:"methods,omitempty"`
}

// VcsError represents a vcsmap error with code, message, and suggestions
type VcsError struct {
	Code           ErrorCode   `json:"code"`
	Message        string      `json:"message"`
	Details        interface{} `json:"details,omitempty"`
	SuggestedFixes []FixAction `json:"suggestedFixes,omitempty"`
	cause          error       // Underlying error (not exported to JSON)
}

// NewVcsError creates a new VcsError
func NewVcsError(code ErrorCode, message string, cause error, suggestedFixes []FixAction) *VcsError {
	return &VcsError{
		Code:           code,
		Message:        message,
		cause:          cause,
		SuggestedFixes: suggestedFixes,
	}
}

// Error implements the error interface
func (e *VcsError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying error
func (e *VcsError) Unwrap() error {
	return e.cause
}

// WithDetails adds details to the error
func (e *VcsError) WithDetails(details interface{}) *VcsError {
	e.Details = details
	return e
}

// CodeOf extracts the error code from an error chain.
// Returns InternalError for errors that carry no code.
func CodeOf(err error) ErrorCode {
	var ve *VcsError
	if errors.As(err, &ve) {
		return ve.Code
	}
	return InternalError
}

// IsCode reports whether any error in the chain carries the given code
func IsCode(err error, code ErrorCode) bool {
	var ve *VcsError
	if errors.As(err, &ve) {
		return ve.Code == code
	}
	return false
}

// ErrorActions maps error codes to suggested fix actions
var ErrorActions = map[ErrorCode][]FixAction{
	BackendUnavailable: {
		{
			Type:        InstallTool,
			Tool:        "git",
			Methods:     []InstallMethod{Brew, Apt, Manual},
			Description: "Install the missing version-control tool",
		},
	},
	TreeNotFound: {
		{
			Type:        RunCommand,
			Command:     "vcsmap trees",
			Safe:        true,
			Description: "List configured trees",
		},
	},
	ConfigInvalid: {
		{
			Type:        RunCommand,
			Command:     "vcsmap trees --json",
			Safe:        true,
			Description: "Validate the workspace file",
		},
	},
}

// GetSuggestedFixes returns suggested fixes for an error code
func GetSuggestedFixes(code ErrorCode) []FixAction {
	if fixes, ok := ErrorActions[code]; ok {
		return fixes
	}
	return nil
}
