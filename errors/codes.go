package errors

// ErrorCode represents a machine-readable error code.
type ErrorCode string

// Graph construction errors (fatal, abort the run before execution)
const (
	// ErrCodeCycleDetected indicates the dependency graph contains a cycle.
	ErrCodeCycleDetected ErrorCode = "CYCLE_DETECTED"
	// ErrCodeDependencyUnresolved indicates a dependency could not be resolved,
	// e.g. a required external tool is not installed.
	ErrCodeDependencyUnresolved ErrorCode = "DEPENDENCY_UNRESOLVED"
	// ErrCodeInvalidParameter indicates a task parameter failed type or schema validation.
	ErrCodeInvalidParameter ErrorCode = "INVALID_PARAMETER"
)

// Node-local errors (mark the node failed, propagate to dependents)
const (
	// ErrCodeProcessFailed indicates an external command exited nonzero.
	ErrCodeProcessFailed ErrorCode = "PROCESS_FAILED"
	// ErrCodeTargetWrite indicates staging or atomic commit of a target failed.
	ErrCodeTargetWrite ErrorCode = "TARGET_WRITE_FAILED"
	// ErrCodeTaskFailed indicates a task body returned an error.
	ErrCodeTaskFailed ErrorCode = "TASK_FAILED"
	// ErrCodeTimeout indicates an external process exceeded its execution timeout.
	ErrCodeTimeout ErrorCode = "TIMEOUT"
)

var retryableCodes = map[ErrorCode]bool{
	ErrCodeCycleDetected:        false,
	ErrCodeDependencyUnresolved: false,
	ErrCodeInvalidParameter:     false,
	ErrCodeProcessFailed:        true,
	ErrCodeTargetWrite:          true,
	ErrCodeTaskFailed:           false,
	ErrCodeTimeout:              true,
}

// IsRetryableCode returns true if the error code indicates a retryable error.
// The core never retries on its own; this is advisory for callers that layer
// a retry policy above the engine.
func IsRetryableCode(code ErrorCode) bool {
	return retryableCodes[code]
}
