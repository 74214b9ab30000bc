package events

import (
	"github.com/hereafter-labs/will-registry-api/datastore"
)

// Store manages the durable event records.
type Store interface {
	// Insert a new event record.
	InsertEvent(e *Event) error

	// List events for a will, oldest first.
	Events(willID uint64, opts datastore.ListOptions) ([]Event, error)
}
