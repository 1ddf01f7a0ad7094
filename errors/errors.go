package errors

import (
	stderrors "errors"
	"fmt"
	"strings"
)

// AppError is the unified taskflow error type.
type AppError struct {
	// Code is a machine-readable error code.
	Code ErrorCode `json:"code"`
	// Message is a human-readable error message.
	Message string `json:"message"`
	// Retryable indicates if the operation can be retried by a caller.
	Retryable bool `json:"retryable"`
	// Details contains additional context for the error.
	Details map[string]any `json:"details,omitempty"`
	// Cause is the underlying error that caused this error.
	Cause error `json:"-"`
}

// Error returns the string representation of the error.
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (cause: %v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause of the error.
func (e *AppError) Unwrap() error { return e.Cause }

// WithCause sets the underlying cause of the error and returns the receiver.
func (e *AppError) WithCause(cause error) *AppError {
	e.Cause = cause
	return e
}

// WithDetail sets a single detail key-value pair and returns the receiver.
func (e *AppError) WithDetail(key string, value any) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	e.Details[key] = value
	return e
}

// New creates a new AppError with automatic retryable detection.
func New(code ErrorCode, message string) *AppError {
	return &AppError{
		Code:      code,
		Message:   message,
		Retryable: IsRetryableCode(code),
	}
}

// CodeOf extracts the ErrorCode from err, unwrapping as needed.
// Returns an empty code if err carries no AppError.
func CodeOf(err error) ErrorCode {
	var ae *AppError
	if stderrors.As(err, &ae) {
		return ae.Code
	}
	return ""
}

// --- Constructors ---

// CycleDetected creates the fatal error for a circular dependency. The path
// lists the implicated task identities in discovery order, ending at the
// identity that closed the cycle.
func CycleDetected(path []string) *AppError {
	return &AppError{
		Code:      ErrCodeCycleDetected,
		Message:   fmt.Sprintf("circular dependency: %s", strings.Join(path, " -> ")),
		Retryable: false,
		Details:   map[string]any{"path": path},
	}
}

// DependencyUnresolved creates an error for a dependency that cannot be
// satisfied, such as a missing external tool.
func DependencyUnresolved(what, reason string) *AppError {
	return &AppError{
		Code:      ErrCodeDependencyUnresolved,
		Message:   fmt.Sprintf("dependency %s cannot be satisfied: %s", what, reason),
		Retryable: false,
		Details:   map[string]any{"dependency": what},
	}
}

// Validation creates an error aggregating one or more field validation
// failures.
func Validation(message string) *AppError {
	return &AppError{
		Code:      ErrCodeInvalidParameter,
		Message:   message,
		Retryable: false,
	}
}

// InvalidParameter creates an error for a parameter that failed validation.
func InvalidParameter(name, reason string) *AppError {
	return &AppError{
		Code:      ErrCodeInvalidParameter,
		Message:   fmt.Sprintf("invalid parameter %q: %s", name, reason),
		Retryable: false,
		Details:   map[string]any{"parameter": name},
	}
}

// ProcessFailed creates an error for an external command that exited nonzero.
// Stderr is truncated to keep the error printable.
func ProcessFailed(command string, exitCode int, stderr string, cause error) *AppError {
	const stderrLimit = 2048
	if len(stderr) > stderrLimit {
		stderr = stderr[:stderrLimit] + "..."
	}
	return &AppError{
		Code:      ErrCodeProcessFailed,
		Message:   fmt.Sprintf("command exited with status %d", exitCode),
		Retryable: true,
		Details: map[string]any{
			"command":   command,
			"exit_code": exitCode,
			"stderr":    stderr,
		},
		Cause: cause,
	}
}

// ProcessTimeout creates an error for an external command that exceeded its
// execution timeout.
func ProcessTimeout(command string, cause error) *AppError {
	return &AppError{
		Code:      ErrCodeTimeout,
		Message:   "command timed out",
		Retryable: true,
		Details:   map[string]any{"command": command},
		Cause:     cause,
	}
}

// TargetWrite creates an error for a failed target staging or commit.
// No partial target is visible when this error is returned.
func TargetWrite(path string, cause error) *AppError {
	return &AppError{
		Code:      ErrCodeTargetWrite,
		Message:   fmt.Sprintf("writing target %s failed", path),
		Retryable: true,
		Details:   map[string]any{"path": path},
		Cause:     cause,
	}
}

// TaskFailed wraps an error returned by a task body with the task's identity.
func TaskFailed(identity string, cause error) *AppError {
	return &AppError{
		Code:      ErrCodeTaskFailed,
		Message:   fmt.Sprintf("task %s failed", identity),
		Retryable: false,
		Details:   map[string]any{"task": identity},
		Cause:     cause,
	}
}

// --- Predicates ---

// IsCycle reports whether err is a cycle detection error.
func IsCycle(err error) bool { return CodeOf(err) == ErrCodeCycleDetected }

// IsProcessFailed reports whether err is an external process failure.
func IsProcessFailed(err error) bool { return CodeOf(err) == ErrCodeProcessFailed }

// IsTargetWrite reports whether err is a target staging/commit failure.
func IsTargetWrite(err error) bool { return CodeOf(err) == ErrCodeTargetWrite }

// IsDependencyUnresolved reports whether err is an unresolved dependency error.
func IsDependencyUnresolved(err error) bool { return CodeOf(err) == ErrCodeDependencyUnresolved }

// IsTimeout reports whether err is an external process timeout.
func IsTimeout(err error) bool { return CodeOf(err) == ErrCodeTimeout }
