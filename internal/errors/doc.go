// Package apperrors holds the exit codes of loadtimer and the error values
// that decide them: sentinel errors for unreadable or malformed counter
// sources, typed errors for configuration problems and for failures tied to
// a monitored pid.
//
// Errors are wrapped with fmt.Errorf and %w; callers match them with
// errors.Is and errors.As, and ExitCode maps any of them to a status.
package apperrors
