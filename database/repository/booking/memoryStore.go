package bookingRepo

import (
	"context"
	"sync"

	"appointly/models"
)

// MemoryStore keeps bookings in process memory. Used by tests and the CLI's dry runs.
type MemoryStore struct {
	mu       sync.RWMutex
	bookings []models.Booking
}

func NewMemoryStore(seed ...models.Booking) *MemoryStore {
	return &MemoryStore{bookings: append([]models.Booking(nil), seed...)}
}

func (s *MemoryStore) List(ctx context.Context) ([]models.Booking, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Booking, len(s.bookings))
	copy(out, s.bookings)
	return out, nil
}

func (s *MemoryStore) Append(ctx context.Context, b models.Booking) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.bookings {
		if existing.Start == b.Start {
			return ErrDuplicateStart
		}
	}
	s.bookings = append(s.bookings, b)
	return nil
}

func (s *MemoryStore) Remove(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, existing := range s.bookings {
		if existing.ID == id {
			s.bookings = append(s.bookings[:i], s.bookings[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}
