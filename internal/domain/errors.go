package domain

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned by repo and service functions when the requested
// resource does not exist in the database.
// Handlers should map this to HTTP 404.
var ErrNotFound = errors.New("not found")

// ErrValidation is returned when input fails business rule validation
// (e.g. missing required field, end date not after start date, unknown field
// in a partial update).
// Handlers should map this to HTTP 400.
var ErrValidation = errors.New("validation error")

// ErrUnauthenticated is returned when no valid identity claim accompanies a request.
// Handlers should map this to HTTP 401.
var ErrUnauthenticated = errors.New("unauthenticated")

// ErrForbidden is returned when a valid claim fails the ownership check.
// Handlers should map this to HTTP 403.
var ErrForbidden = errors.New("forbidden")

// ErrConflict is returned when a write could not be applied because of
// competing writers, after the bounded retry budget is spent.
// Handlers should map this to HTTP 409.
var ErrConflict = errors.New("conflict")

// ErrDuplicate is returned when a snapshot entry for the same catalog item is
// already present in a trip. It wraps ErrConflict; handlers check it first and
// map it to HTTP 400.
var ErrDuplicate = fmt.Errorf("%w: already exists in the trip", ErrConflict)

// ErrStaleWrite is returned by repo Update when the row's version no longer
// matches the version the caller read. Services retry on it; it never reaches
// a handler.
var ErrStaleWrite = errors.New("stale write")

// MissingError is a NotFound that names what was missing ("trip", "owner",
// "attraction in trip"). errors.Is(err, ErrNotFound) holds for it.
type MissingError struct {
	What string
}

func (e *MissingError) Error() string { return e.What + " not found" }

// Is makes MissingError match ErrNotFound.
func (e *MissingError) Is(target error) bool { return target == ErrNotFound }

// NotFound returns a MissingError for what.
func NotFound(what string) error {
	return &MissingError{What: what}
}

// DuplicateError is an ErrDuplicate that names the kind of the entry
// ("attraction already exists in the trip").
type DuplicateError struct {
	What string
}

func (e *DuplicateError) Error() string { return e.What + " already exists in the trip" }

// Is makes DuplicateError match ErrDuplicate and, through it, ErrConflict.
func (e *DuplicateError) Is(target error) bool {
	return target == ErrDuplicate || target == ErrConflict
}

// Duplicate returns a DuplicateError for what.
func Duplicate(what string) error {
	return &DuplicateError{What: what}
}

// ErrOwnerNotFound is returned when the user a resource is being created for
// does not exist.
var ErrOwnerNotFound = NotFound("owner")

// Invalid wraps ErrValidation with a human-readable reason.
func Invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}
