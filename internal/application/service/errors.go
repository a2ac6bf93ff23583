package service

import (
	"errors"
	"fmt"

	"github.com/EmmaDeil/steps-ops-backend/internal/application/port"
	domainwf "github.com/EmmaDeil/steps-ops-backend/internal/domain/workflow"
)

var (
	// ErrNotFound is returned when the target entity does not exist.
	ErrNotFound = errors.New("entity not found")

	// ErrValidation is returned for missing or malformed required fields.
	ErrValidation = errors.New("validation error")

	// ErrDependencyFailure is returned when an essential collaborator
	// (ledger, derived-entity write) could not complete.
	ErrDependencyFailure = errors.New("dependency failure")

	// ErrVersionNotFound is returned when a policy restore names a version
	// with no matching history entry.
	ErrVersionNotFound = errors.New("policy version not found")
)

// validationf wraps ErrValidation with a formatted message.
func validationf(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

// asTransitionError converts a conditional-write conflict into an invalid
// transition: zero rows matched means the record's status moved on since it
// was loaded, so the requested action is no longer legal.
func asTransitionError(err error, from domainwf.State, action domainwf.Trigger) error {
	if errors.Is(err, port.ErrConflict) {
		return domainwf.ErrInvalidTransitionf(from, action)
	}
	return err
}
