package errors

import (
	"errors"
	"fmt"
)

// Common error types for the auth client
var (
	// OAuth flow errors
	ErrMissingCode     = errors.New("missing authorization code")
	ErrUnknownProvider = errors.New("unknown provider")

	// Backend response errors
	ErrBadResponse = errors.New("malformed response from auth backend")
)

// Wrapf wraps an error with context using fmt.Errorf
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf(format+": %w", append(args, err)...)
}

// Is reports whether any error in err's chain matches target
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}
