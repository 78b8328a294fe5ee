package errcode

import "fmt"

// AuthError reports that a caller identity could not be established.
type AuthError struct {
	Reason string
}

func (e *AuthError) Error() string { return "authentication failed: " + e.Reason }

// Is compares by reason so wrapped copies still match the sentinels.
func (e *AuthError) Is(target error) bool {
	t, ok := target.(*AuthError)
	return ok && t.Reason == e.Reason
}

// AuthzError reports that an authenticated caller may not perform an action.
type AuthzError struct {
	Reason string
}

func (e *AuthzError) Error() string { return "permission denied: " + e.Reason }

func (e *AuthzError) Is(target error) bool {
	t, ok := target.(*AuthzError)
	return ok && t.Reason == e.Reason
}

// NotFoundError reports a missing entity.
type NotFoundError struct {
	Entity string
}

func (e *NotFoundError) Error() string { return e.Entity + " not found" }

func (e *NotFoundError) Is(target error) bool {
	t, ok := target.(*NotFoundError)
	return ok && t.Entity == e.Entity
}

// ValidationError reports a rejected input field.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return "invalid input: " + e.Reason
	}
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Is(target error) bool {
	t, ok := target.(*ValidationError)
	return ok && t.Field == e.Field && t.Reason == e.Reason
}

// ConflictError reports a uniqueness violation on a caller supplied field.
type ConflictError struct {
	Field string
}

func (e *ConflictError) Error() string { return e.Field + " already taken" }

func (e *ConflictError) Is(target error) bool {
	t, ok := target.(*ConflictError)
	return ok && t.Field == e.Field
}

// DependencyError wraps a failure of the backing store or another collaborator.
type DependencyError struct {
	Op  string
	Err error
}

func (e *DependencyError) Error() string { return e.Op + ": " + e.Err.Error() }

func (e *DependencyError) Unwrap() error { return e.Err }

var (
	ErrInvalidToken       = &AuthError{Reason: "InvalidToken"}
	ErrExpiredToken       = &AuthError{Reason: "ExpiredToken"}
	ErrMalformedToken     = &AuthError{Reason: "MalformedToken"}
	ErrPrincipalNotFound  = &AuthError{Reason: "PrincipalNotFound"}
	ErrInvalidCredentials = &AuthError{Reason: "InvalidCredentials"}
	ErrAuthRequired       = &AuthError{Reason: "AuthenticationRequired"}

	ErrWrongRole            = &AuthzError{Reason: "WrongRole"}
	ErrNotOwner             = &AuthzError{Reason: "NotOwner"}
	ErrDuplicateApplication = &AuthzError{Reason: "DuplicateApplication"}

	ErrInvalidStatus     = &ValidationError{Field: "status", Reason: "InvalidStatus"}
	ErrInvalidTransition = &ValidationError{Field: "status", Reason: "InvalidTransition"}
)

// NotFound builds a NotFoundError for entity.
func NotFound(entity string) error { return &NotFoundError{Entity: entity} }

// Invalid builds a ValidationError.
func Invalid(field, reason string) error { return &ValidationError{Field: field, Reason: reason} }

// Taken builds a ConflictError for field.
func Taken(field string) error { return &ConflictError{Field: field} }

// Dependency wraps err as a DependencyError. A nil err yields nil.
func Dependency(op string, err error) error {
	if err == nil {
		return nil
	}
	return &DependencyError{Op: op, Err: err}
}
