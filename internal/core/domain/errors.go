package domain

import "errors"

// Authentication.
var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrTooManyAttempts    = errors.New("too many login attempts")
	ErrUsernameTaken      = errors.New("username is already taken")
	ErrEmailTaken         = errors.New("email is already in use")
	ErrTokenExpired       = errors.New("token expired")
	ErrTokenMalformed     = errors.New("token malformed")
)

// Authorization and identity projection.
var (
	ErrForbidden          = errors.New("access forbidden")
	ErrRoleMismatch       = errors.New("identity does not hold the role required for this facet")
	ErrFacetAlreadyExists = errors.New("facet already exists for identity")
)

// Resources.
var (
	ErrNotFound         = errors.New("not found")
	ErrInvalidReference = errors.New("invalid patient or doctor reference")
	ErrInvalidInput     = errors.New("invalid input")
)

// ErrUnavailable marks transient store failures. Callers may retry.
var ErrUnavailable = errors.New("store unavailable")
