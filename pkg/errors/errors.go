package errors

import (
	"errors"
	"fmt"
)

// Common client errors with proper types for error handling

var (
	// ErrRemoteCall indicates the profile API could not be reached or answered with a non-2xx status
	ErrRemoteCall = errors.New("remote call failed")

	// ErrCaptureSource indicates the image source facility reported a failure
	ErrCaptureSource = errors.New("image source failed")

	// ErrNoSession indicates there is no signed-in user
	ErrNoSession = errors.New("no active session")

	// ErrInternal indicates an unexpected internal failure
	ErrInternal = errors.New("internal error")
)

// StatusError carries the HTTP status of a non-2xx response from the profile API
type StatusError struct {
	Operation  string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s: unexpected status %d", e.Operation, e.StatusCode)
}

// Unwrap lets errors.Is(err, ErrRemoteCall) match status errors
func (e *StatusError) Unwrap() error {
	return ErrRemoteCall
}

// RemoteCallError wraps a transport failure for the given operation
func RemoteCallError(operation string, cause error) error {
	return fmt.Errorf("%s: %w: %w", operation, ErrRemoteCall, cause)
}

// CaptureSourceError creates a capture error with the reason reported by the device facility
func CaptureSourceError(reason string) error {
	if reason != "" {
		return fmt.Errorf("%s: %w", reason, ErrCaptureSource)
	}
	return ErrCaptureSource
}

// InternalError creates an internal error with context
func InternalError(msg string) error {
	return fmt.Errorf("%s: %w", msg, ErrInternal)
}

// Is checks if an error matches a target error (works with wrapped errors)
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target
func As(err error, target any) bool {
	return errors.As(err, target)
}
