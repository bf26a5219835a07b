package storage

import "errors"

// Sentinel errors for classifying storage failures. Callers test with
// errors.Is; the store never retries internally.
var (
	// ErrOpenFailed marks a database that could not be opened or migrated.
	ErrOpenFailed = errors.New("storage: open failed")

	// ErrTxAborted marks a read or write transaction that failed mid-flight.
	// The whole logical operation may be retried by the caller.
	ErrTxAborted = errors.New("storage: transaction aborted")
)

// A missing row is never an error: Get returns nil, Delete and
// DeleteCategory are no-ops, and a suppressed duplicate Put succeeds.
