package screening

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrValidation marks malformed session or content data.
	ErrValidation = errors.New("validation failed")
	// ErrClassifierUnavailable marks a failed or timed out intent classifier call.
	ErrClassifierUnavailable = errors.New("intent classifier unavailable")
	// ErrRepositoryMiss marks job, company or question content that does not exist.
	ErrRepositoryMiss = errors.New("content not found")
	// ErrInternalFault marks an unexpected failure inside a turn.
	ErrInternalFault = errors.New("internal fault")
)

// ValidationError lists every problem found while validating an entity.
type ValidationError struct {
	Entity   string
	Problems []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Entity, strings.Join(e.Problems, "; "))
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

// RepositoryMissError reports which content was requested and not found.
type RepositoryMissError struct {
	Kind string
	ID   string
}

func (e *RepositoryMissError) Error() string {
	return fmt.Sprintf("%s %q not found", e.Kind, e.ID)
}

func (e *RepositoryMissError) Unwrap() error {
	return ErrRepositoryMiss
}
