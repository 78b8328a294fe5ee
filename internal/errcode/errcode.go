package errcode

import (
	"errors"
	"net/http"
)

// Numeric error codes exposed to clients.
// - 0: no error
// - 4xxx: caller errors (resolvable by changing the request)
// - 5xxx: system errors
const (
	OK              = 0
	InvalidInput    = 4000
	Unauthenticated = 4010
	Forbidden       = 4030
	ResourceMissing = 4040
	Conflict        = 4090
	SystemError     = 5000
	DependencyFault = 5030
)

// Code returns the numeric code for err.
func Code(err error) int {
	if err == nil {
		return OK
	}

	var (
		authErr       *AuthError
		authzErr      *AuthzError
		notFoundErr   *NotFoundError
		validationErr *ValidationError
		conflictErr   *ConflictError
		dependencyErr *DependencyError
	)
	switch {
	case errors.As(err, &authErr):
		return Unauthenticated
	case errors.As(err, &authzErr):
		return Forbidden
	case errors.As(err, &notFoundErr):
		return ResourceMissing
	case errors.As(err, &validationErr):
		return InvalidInput
	case errors.As(err, &conflictErr):
		return Conflict
	case errors.As(err, &dependencyErr):
		return DependencyFault
	default:
		return SystemError
	}
}

// HTTPStatus maps err onto the HTTP status returned to clients.
func HTTPStatus(err error) int {
	switch Code(err) {
	case OK:
		return http.StatusOK
	case InvalidInput:
		return http.StatusBadRequest
	case Unauthenticated:
		return http.StatusUnauthorized
	case Forbidden:
		return http.StatusForbidden
	case ResourceMissing:
		return http.StatusNotFound
	case Conflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// Reason returns the machine readable reason carried by err, or "" when err
// is not part of the taxonomy.
func Reason(err error) string {
	var (
		authErr       *AuthError
		authzErr      *AuthzError
		validationErr *ValidationError
	)
	switch {
	case errors.As(err, &authErr):
		return authErr.Reason
	case errors.As(err, &authzErr):
		return authzErr.Reason
	case errors.As(err, &validationErr):
		return validationErr.Reason
	}
	return ""
}

// PublicMessage returns a message safe to show to clients. System errors
// collapse to a generic text so store internals never leak.
func PublicMessage(err error) string {
	switch Code(err) {
	case OK:
		return ""
	case SystemError, DependencyFault:
		return "internal error"
	default:
		return err.Error()
	}
}
