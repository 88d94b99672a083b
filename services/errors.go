package services

import (
	"errors"
	"fmt"
)

// Error taxonomy. Transport code maps these once, at the edge.
var (
	ErrNotFound          = errors.New("not found")
	ErrConflict          = errors.New("conflict")
	ErrValidation        = errors.New("validation error")
	ErrAssignmentFailed  = errors.New("assignment failed")
	ErrInvalidTransition = errors.New("invalid transition")
	ErrUnauthorized      = errors.New("unauthorized")
	// ErrInfrastructure marks store failures; callers may retry with backoff.
	ErrInfrastructure = errors.New("store unavailable")
)

var (
	ErrTableNotFound     = fmt.Errorf("%w: table does not exist", ErrNotFound)
	ErrNoActiveTable     = fmt.Errorf("%w: no active table", ErrNotFound)
	ErrOrderNotFound     = fmt.Errorf("%w: order does not exist", ErrNotFound)
	ErrUserNotFound      = fmt.Errorf("%w: user does not exist", ErrNotFound)
	ErrAlreadyRequested  = fmt.Errorf("%w: request already made", ErrConflict)
	ErrEmailTaken        = fmt.Errorf("%w: email is already in use", ErrConflict)
	ErrOrderSetChanged   = fmt.Errorf("%w: orders changed during checkout", ErrConflict)
	ErrNoServerAvailable = fmt.Errorf("%w: no server available", ErrAssignmentFailed)
	ErrNotAServer        = fmt.Errorf("%w: user is not a server", ErrValidation)
	ErrBadCredentials    = fmt.Errorf("%w: invalid email or password", ErrUnauthorized)
)

var domainErrors = []error{
	ErrNotFound,
	ErrConflict,
	ErrValidation,
	ErrAssignmentFailed,
	ErrInvalidTransition,
	ErrUnauthorized,
	ErrInfrastructure,
}

// IsRetriable reports whether the operation failed on the store and may be retried.
func IsRetriable(err error) bool {
	return errors.Is(err, ErrInfrastructure)
}

func validationError(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

// storeError passes domain errors through and wraps everything else
// (driver errors, failed begin/commit, cancelled contexts) as ErrInfrastructure.
func storeError(op string, err error) error {
	if err == nil {
		return nil
	}
	for _, known := range domainErrors {
		if errors.Is(err, known) {
			return err
		}
	}
	return fmt.Errorf("%w: %s: %w", ErrInfrastructure, op, err)
}
