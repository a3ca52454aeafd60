package models

import "errors"

// Typed failure kinds shared by the change store and the history controller.
// Callers classify failures with errors.Is; no automatic retries happen below
// this layer.
var (
	// ErrRecordNotFound is returned when a referenced record ID does not exist.
	ErrRecordNotFound = errors.New("change record not found")

	// ErrNotRestorable is returned when restore is attempted on a record that
	// is not a rollback record or is no longer the latest for its file.
	ErrNotRestorable = errors.New("record is not restorable")

	// ErrStaleTarget is returned when a rollback commit target is no longer
	// eligible because the file's history changed between preview and commit.
	ErrStaleTarget = errors.New("rollback target is no longer eligible")

	// ErrStorageUnavailable is returned when the underlying store I/O failed.
	ErrStorageUnavailable = errors.New("change store unavailable")
)
