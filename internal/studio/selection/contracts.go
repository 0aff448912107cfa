// Package selection persists the selected studio id across gateway
// restarts. One record, one fixed key; absence means "no selection".
package selection

// Store persists a single studio id.
// Error Contract: Load returns sentinel.ErrNotFound (optionally wrapped)
// when no selection has been persisted.
type Store interface {
	Load() (string, error)
	Save(studioID string) error
	Delete() error
}
