package models

import "errors"

var (
	// ErrOpenFailed means a namespace could not be provisioned. Fatal for
	// that session; no handle is cached.
	ErrOpenFailed = errors.New("storage unavailable")

	// ErrStorage means a single storage transaction aborted. The logical
	// operation left no partial writes and may be retried by the caller.
	ErrStorage = errors.New("storage transaction failed")
)
