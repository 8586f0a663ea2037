package dispatch

import "fmt"

// Status indicates the outcome of an action.
type Status uint8

const (
	// StatusOK indicates the action mutated the document.
	StatusOK Status = iota
	// StatusNoOp indicates the action had no meaningful effect in the
	// current context. This is a normal outcome, not an error.
	StatusNoOp
	// StatusError indicates a collaborator failure that was recovered with a
	// fallback; the error is carried for logging only.
	StatusError
	// StatusAbandoned indicates the view was torn down while an async step
	// was pending and the operation was dropped silently.
	StatusAbandoned
)

// String returns a string representation of the status.
func (s Status) String() string {
	switch s {
	case StatusOK:
		return "ok"
	case StatusNoOp:
		return "no-op"
	case StatusError:
		return "error"
	case StatusAbandoned:
		return "abandoned"
	default:
		return "unknown"
	}
}

// Result represents the outcome of handling an action.
type Result struct {
	// Status indicates the result status.
	Status Status

	// Err holds the underlying error for StatusError results.
	Err error

	// Message is an optional reason for display or logging (e.g. why a
	// multi-range dispatch was blocked).
	Message string
}

// Handled reports whether a mutation occurred. This is the boolean the UI
// boundary receives from Perform.
func (r Result) Handled() bool {
	return r.Status == StatusOK
}

// OK creates a successful result.
func OK() Result {
	return Result{Status: StatusOK}
}

// NoOp creates a no-effect result.
func NoOp() Result {
	return Result{Status: StatusNoOp}
}

// NoOpReason creates a no-effect result with a reason.
func NoOpReason(msg string) Result {
	return Result{Status: StatusNoOp, Message: msg}
}

// Error creates an error result.
func Error(err error) Result {
	return Result{Status: StatusError, Err: err}
}

// Errorf creates an error result with a formatted message.
func Errorf(format string, args ...any) Result {
	return Result{Status: StatusError, Err: fmt.Errorf(format, args...)}
}

// Abandoned creates a result for an operation dropped after view teardown.
func Abandoned() Result {
	return Result{Status: StatusAbandoned}
}
