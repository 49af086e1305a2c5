package event

import (
	"github.com/google/uuid"
	"github.com/youmna-rabie/tebex-gateway/internal/types"
)

// Store records delivery outcomes for the admin endpoint.
type Store interface {
	// Save records a delivery. The oldest record may be evicted.
	Save(d types.Delivery) error

	// Get retrieves a delivery by ID. Returns ErrNotFound if absent.
	Get(id uuid.UUID) (types.Delivery, error)

	// List returns up to limit deliveries, ordered newest-first.
	// offset skips the first N results for pagination.
	List(limit, offset int) ([]types.Delivery, error)

	// Count returns the number of deliveries currently held.
	Count() int
}
