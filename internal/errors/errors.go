package apperrors

import (
	"context"
	"errors"
	"fmt"
	"io"
)

// Application exit codes define the standard exit statuses for the application.
// These codes are used to signal the outcome of the program execution to the OS.
const (
	ExitSuccess       = 0   // Indicates successful execution.
	ExitErrorGeneric  = 1   // Indicates a generic error.
	ExitErrorConfig   = 4   // Indicates a configuration error.
	ExitErrorTarget   = 5   // Indicates a monitored target vanished or is unreadable.
	ExitErrorCanceled = 130 // Indicates the run was interrupted (e.g., SIGINT).
)

// Sentinel errors of the sampling domain. Match them with errors.Is.
var (
	// ErrSourceUnavailable reports that an entity's counter source cannot be
	// found, which normally means the process or thread has exited.
	ErrSourceUnavailable = errors.New("counter source unavailable")
	// ErrMalformedSource reports a counter source whose expected fields are
	// missing or non-numeric.
	ErrMalformedSource = errors.New("malformed counter source")
	// ErrNoTargets reports an empty target list.
	ErrNoTargets = errors.New("no target processes given")
)

// ConfigError represents a user configuration error, such as invalid flags or
// values. It indicates that the application cannot proceed due to incorrect user input.
type ConfigError struct {
	// Message explains the specific configuration error.
	Message string
}

// Error returns the error message for a ConfigError.
func (e ConfigError) Error() string { return e.Message }

// NewConfigError creates a new ConfigError with a formatted message.
func NewConfigError(format string, a ...any) error {
	return ConfigError{Message: fmt.Sprintf(format, a...)}
}

// ValidationError represents an input validation failure. It identifies which
// field failed validation and provides a human-readable explanation.
type ValidationError struct {
	// Field is the name of the field that failed validation.
	Field string
	// Message explains the validation failure.
	Message string
}

// Error returns a formatted message describing the validation failure.
func (e ValidationError) Error() string {
	return fmt.Sprintf("validation error for %q: %s", e.Field, e.Message)
}

// TargetError attributes a sampling failure to the monitored process it
// occurred on.
type TargetError struct {
	// PID is the process identifier of the failing target.
	PID int
	// Cause is the underlying reader or buffer error.
	Cause error
}

// Error returns a message naming the pid and the cause.
func (e TargetError) Error() string {
	return fmt.Sprintf("pid %d: %v", e.PID, e.Cause)
}

// Unwrap returns the underlying cause.
func (e TargetError) Unwrap() error { return e.Cause }

// WrapError wraps an error with additional context using fmt.Errorf and %w.
// This allows the wrapped error to be unwrapped with errors.Unwrap() and
// checked with errors.Is() and errors.As().
//
// Returns nil if err is nil.
func WrapError(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	message := fmt.Sprintf(format, args...)
	return fmt.Errorf("%s: %w", message, err)
}

// IsContextError checks if the error is a context cancellation or deadline exceeded error.
func IsContextError(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}

// IsTargetGone reports whether err means a monitored entity has exited.
func IsTargetGone(err error) bool {
	return errors.Is(err, ErrSourceUnavailable)
}

// ExitCode maps an error to the process exit status.
func ExitCode(err error) int {
	var (
		cfgErr    ConfigError
		valErr    ValidationError
		targetErr TargetError
	)
	switch {
	case err == nil:
		return ExitSuccess
	case IsContextError(err):
		return ExitErrorCanceled
	case errors.Is(err, ErrNoTargets), errors.As(err, &cfgErr), errors.As(err, &valErr):
		return ExitErrorConfig
	case errors.As(err, &targetErr), errors.Is(err, ErrSourceUnavailable), errors.Is(err, ErrMalformedSource):
		return ExitErrorTarget
	default:
		return ExitErrorGeneric
	}
}

// HandleSamplingError prints a descriptive message for err to out and
// returns the matching exit code. A nil error prints nothing.
func HandleSamplingError(err error, out io.Writer) int {
	code := ExitCode(err)
	switch code {
	case ExitSuccess:
	case ExitErrorCanceled:
		fmt.Fprintln(out, "Interrupted.")
	case ExitErrorTarget:
		var targetErr TargetError
		if errors.As(err, &targetErr) {
			fmt.Fprintf(out, "Error: target process %d failed: %v\n", targetErr.PID, targetErr.Cause)
		} else {
			fmt.Fprintf(out, "Error: %v\n", err)
		}
	case ExitErrorConfig:
		fmt.Fprintf(out, "Configuration error: %v\n", err)
	default:
		fmt.Fprintf(out, "Error: %v\n", err)
	}
	return code
}
