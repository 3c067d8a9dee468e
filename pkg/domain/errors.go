package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors identifying each failure class. Concrete errors wrap one of
// these so callers can branch with errors.Is.
var (
	ErrValidation           = errors.New("validation failed")
	ErrDuplicateName        = errors.New("duplicate name")
	ErrDuplicateOccupant    = errors.New("duplicate occupant")
	ErrCapacityExceeded     = errors.New("capacity exceeded")
	ErrSpeciesMismatch      = errors.New("species mismatch")
	ErrNotFound             = errors.New("not found")
	ErrNoEnclosureAvailable = errors.New("no enclosure available")
)

// ValidationError is returned when construction or mutation input is invalid.
type ValidationError struct {
	Entity EntityType
	Field  string
	Reason string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("invalid %s %s: %s", e.Entity, e.Field, e.Reason)
}

// Unwrap exposes ErrValidation.
func (e ValidationError) Unwrap() error { return ErrValidation }

// HousingError reports a rejected housing operation. Kind is one of the
// sentinel errors above.
type HousingError struct {
	Kind    error
	Housing string
	Animal  string
	Detail  string
}

func (e HousingError) Error() string {
	msg := fmt.Sprintf("%s: cannot place %s", e.Housing, e.Animal)
	if e.Housing == "" {
		msg = fmt.Sprintf("cannot place %s", e.Animal)
	}
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	return fmt.Sprintf("%s (%v)", msg, e.Kind)
}

// Unwrap exposes the failure class.
func (e HousingError) Unwrap() error { return e.Kind }

// NotFoundError is returned when a named record does not exist.
type NotFoundError struct {
	Entity EntityType
	ID     string
}

func (e NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Entity, e.ID)
}

// Unwrap exposes ErrNotFound.
func (e NotFoundError) Unwrap() error { return ErrNotFound }

// DuplicateNameError is returned when a name is already taken sanctuary-wide.
type DuplicateNameError struct {
	Entity EntityType
	Name   string
}

func (e DuplicateNameError) Error() string {
	return fmt.Sprintf("a %s named %s already exists in the sanctuary", e.Entity, e.Name)
}

// Unwrap exposes ErrDuplicateName.
func (e DuplicateNameError) Unwrap() error { return ErrDuplicateName }
