// Package errs contains sentinel errors used across layers for stable error mapping.
package errs

import "errors"

// Common sentinels across store/service layers.
var (
	// ErrNotFound indicates the requested entity or store key does not exist.
	ErrNotFound = errors.New("not found")

	// ErrAlreadyExists indicates a uniqueness violation (e.g., username taken).
	ErrAlreadyExists = errors.New("already exists")

	// ErrUnauthorized indicates failed authentication.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrValidation indicates rejected input; nothing was persisted or audited.
	ErrValidation = errors.New("validation failed")

	// ErrBadFormat indicates an import payload that parsed but is not a sequence.
	ErrBadFormat = errors.New("payload is not a sequence")

	// ErrBadPayload indicates an import payload that could not be parsed at all.
	ErrBadPayload = errors.New("malformed payload")

	// ErrExpired indicates a share link past its expiry date (advisory only).
	ErrExpired = errors.New("expired")
)
