package models

import "errors"

var (
	// ErrValidation marks missing or malformed input.
	ErrValidation = errors.New("validation failed")
	// ErrConflict marks an identity that is already taken.
	ErrConflict = errors.New("already exists")
	// ErrNotFound marks a resource that does not exist or is not owned by the caller.
	ErrNotFound = errors.New("not found")
	// ErrInvalidCredentials marks a password that does not match the stored hash.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrUnauthorized marks a token subject that no longer resolves to an account.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrUnsupportedMediaType marks an upload whose type is not allowed.
	ErrUnsupportedMediaType = errors.New("unsupported media type")
)
