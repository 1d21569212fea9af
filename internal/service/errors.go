package service

import (
	"errors"
	"strings"
)

var (
	// ErrUserNotFound indicates the referenced user does not exist.
	ErrUserNotFound = errors.New("user not found")
	// ErrEventNotFound indicates the referenced event does not exist.
	ErrEventNotFound = errors.New("event not found")
	// ErrEmailExists indicates the email is already registered.
	ErrEmailExists = errors.New("email already exists")
	// ErrInvalidCredentials indicates an unknown email or a wrong password;
	// callers must not distinguish the two cases.
	ErrInvalidCredentials = errors.New("invalid email or password")
	// ErrMissingCredentials indicates a login attempt without email or password.
	ErrMissingCredentials = errors.New("email and password are required")
	// ErrNoFields indicates an update that supplies nothing to change.
	ErrNoFields = errors.New("no fields to update")
)

// ValidationError carries the full, ordered list of payload violations so a
// caller can report them all at once.
type ValidationError struct {
	Violations []string
}

func (e *ValidationError) Error() string {
	return "validation failed: " + strings.Join(e.Violations, "; ")
}
