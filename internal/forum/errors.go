package forum

import "errors"

var (
	// ErrNotFound indicates a referenced room, message or user is absent.
	ErrNotFound = errors.New("not found")
	// ErrUnauthorized indicates the operation requires an authenticated caller.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrForbidden indicates the caller is authenticated but not the owner.
	ErrForbidden = errors.New("forbidden")
	// ErrValidation indicates malformed input.
	ErrValidation = errors.New("validation failed")
)
