package command

import "fmt"

// --------------------------------------------------------------------------
// Error Taxonomy
// --------------------------------------------------------------------------

// ValidationError reports a missing or malformed required field. It is
// raised before any network call and is never retried.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed: %s: %s", e.Field, e.Reason)
}

// ExecutionError reports that the underlying cluster operation failed
// (network, server-side, cancellation or conversion). The original cause is
// always attached and reachable via errors.Unwrap.
type ExecutionError struct {
	Op    string
	Cause error
}

func (e *ExecutionError) Error() string {
	return fmt.Sprintf("%s failed: %v", e.Op, e.Cause)
}

func (e *ExecutionError) Unwrap() error {
	return e.Cause
}

// ConversionError reports that a caller-supplied converter failed to map a
// wire object to the domain type. It is surfaced wrapped inside an
// ExecutionError since conversion happens within the execute invocation.
type ConversionError struct {
	Cause error
}

func (e *ConversionError) Error() string {
	return fmt.Sprintf("conversion failed: %v", e.Cause)
}

func (e *ConversionError) Unwrap() error {
	return e.Cause
}

// newExecutionError wraps a cause, keeping it reachable for errors.Is/As.
func newExecutionError(op string, cause error) *ExecutionError {
	return &ExecutionError{Op: op, Cause: cause}
}
