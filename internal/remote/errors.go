package remote

import "errors"

var (
	// ErrUnavailable means the backend cannot be reached right now.
	// Callers fall back to offline behavior and retry later.
	ErrUnavailable = errors.New("remote backend unavailable")

	// ErrUnauthorized means the backend rejected the credentials.
	ErrUnauthorized = errors.New("unauthorized")
)
