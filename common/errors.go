// Package common provides shared constants, types, and utilities
// used across the NordVPN tray application.
package common

import "errors"

// Sentinel errors for daemon operations.
// These can be checked with errors.Is() for proper error handling.
var (
	// ErrExecution means the daemon program could not be run at all.
	ErrExecution = errors.New("daemon command could not be executed")
	// ErrDaemonFailure means the program ran and reported a failure.
	ErrDaemonFailure = errors.New("daemon reported failure")

	// Action errors.
	ErrInvalidTarget = errors.New("no such target")
	ErrNotToggleable = errors.New("setting is not toggleable")
	ErrUnknownAction = errors.New("unknown action")

	// Configuration errors.
	ErrConfigLoad = errors.New("failed to load configuration")
)

// WrapError wraps an error with additional context.
func WrapError(err error, message string) error {
	if err == nil {
		return nil
	}
	return &wrappedError{
		msg: message,
		err: err,
	}
}

type wrappedError struct {
	msg string
	err error
}

func (e *wrappedError) Error() string {
	return e.msg + ": " + e.err.Error()
}

func (e *wrappedError) Unwrap() error {
	return e.err
}
