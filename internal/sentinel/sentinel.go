package sentinel

import "errors"

// Sentinel dependency errors. Stores return these (optionally wrapped) so
// the owning layer can translate them into domain errors exactly once.
var (
	// ErrNotFound is returned by the selection store when no studio id has
	// been persisted. Absence means "no selection", not a failure.
	ErrNotFound = errors.New("not found")
	// ErrUnavailable is returned when the persisted state cannot be read
	// or written at all.
	ErrUnavailable = errors.New("unavailable")
)
