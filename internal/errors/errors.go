package errors

import (
	"errors"
	"fmt"
)

// Common error types for the Oura client
var (
	// Caller errors, raised before any network I/O
	ErrInvalidRequest = errors.New("invalid request")

	// Authorization errors
	ErrAuthorization = errors.New("authorization failed")
	ErrStateMismatch = errors.New("state mismatch")
	ErrStateExpired  = errors.New("state expired")

	// Transport and protocol errors
	ErrTransport = errors.New("transport failure")
	ErrProtocol  = errors.New("protocol error")

	// General errors
	ErrNotFound = errors.New("not found")
)

// Wrapf prefixes err with a formatted message, keeping it matchable with Is.
// A nil err stays nil.
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf(format+": %w", append(args, err)...)
}

// Invalidf returns an ErrInvalidRequest carrying the formatted message
func Invalidf(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrInvalidRequest, fmt.Sprintf(format, args...))
}

// Is reports whether any error in err's chain matches target
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}
