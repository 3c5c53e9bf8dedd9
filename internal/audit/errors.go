package audit

import "errors"

var (
	// ErrNoStore is reported when a Writer has no Store.
	ErrNoStore = errors.New("audit store not configured")

	// ErrStorePanic wraps a panic recovered from the Store.
	ErrStorePanic = errors.New("audit store panicked")
)
