package event

import (
	"errors"
	"sync"

	"github.com/google/uuid"
	"github.com/youmna-rabie/tebex-gateway/internal/types"
)

var (
	ErrNotFound        = errors.New("delivery not found")
	ErrInvalidCapacity = errors.New("capacity must be greater than zero")
)

// MemoryStore is a bounded in-memory delivery log backed by a ring buffer.
// Records are lost on restart. It is safe for concurrent use.
type MemoryStore struct {
	mu    sync.RWMutex
	buf   []types.Delivery  // ring buffer
	index map[uuid.UUID]int // delivery ID → position in buf
	cap   int               // maximum capacity
	count int               // current number of stored deliveries
	head  int               // next write position
}

// NewMemoryStore creates a MemoryStore with the given capacity.
func NewMemoryStore(capacity int) (*MemoryStore, error) {
	if capacity <= 0 {
		return nil, ErrInvalidCapacity
	}
	return &MemoryStore{
		buf:   make([]types.Delivery, capacity),
		index: make(map[uuid.UUID]int, capacity),
		cap:   capacity,
	}, nil
}

// Save adds a delivery. If the store is at capacity, the oldest one is evicted.
func (s *MemoryStore) Save(d types.Delivery) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.count == s.cap {
		old := s.buf[s.head]
		delete(s.index, old.ID)
	}

	s.buf[s.head] = d
	s.index[d.ID] = s.head

	s.head = (s.head + 1) % s.cap
	if s.count < s.cap {
		s.count++
	}

	return nil
}

// Get retrieves a delivery by ID in O(1) time.
func (s *MemoryStore) Get(id uuid.UUID) (types.Delivery, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	pos, ok := s.index[id]
	if !ok {
		return types.Delivery{}, ErrNotFound
	}
	return s.buf[pos], nil
}

// List returns up to limit deliveries ordered newest-first, skipping the first offset results.
func (s *MemoryStore) List(limit, offset int) ([]types.Delivery, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if limit <= 0 {
		return nil, nil
	}
	if offset < 0 {
		offset = 0
	}

	// Walk backwards from the most recently written slot.
	result := make([]types.Delivery, 0, min(limit, s.count))
	for i := offset; i < s.count && len(result) < limit; i++ {
		pos := (s.head - 1 - i + s.cap) % s.cap
		result = append(result, s.buf[pos])
	}
	return result, nil
}

// Count returns the number of deliveries currently stored.
func (s *MemoryStore) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.count
}
