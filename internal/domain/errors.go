package domain

import "errors"

// Error taxonomy for a run. Adapters and stores wrap these with %w so the run
// loop can classify with errors.Is.
var (
	// ErrTransport covers network failures, timeouts and non-2xx responses.
	// The affected cruise is skipped for this run; the tracking set is untouched.
	ErrTransport = errors.New("transport failure")

	// ErrNotFound is the 404 case of a fare query: the cruise page no longer
	// exists at the provider. Treated as a lifecycle removal, not a skip.
	ErrNotFound = errors.New("cruise not found")

	// ErrParse covers malformed or unexpectedly shaped payloads for one cruise.
	ErrParse = errors.New("malformed payload")

	// ErrCorrelation means provider metadata could not be matched to the fare
	// response. Treated as an unmatched lifecycle removal.
	ErrCorrelation = errors.New("metadata correlation failed")

	// ErrPersistence is fatal to the run: abort without rewriting configuration
	// so no cruise is dropped from tracking while its data failed to save.
	ErrPersistence = errors.New("snapshot write failed")
)
