package booking

import (
	"context"
	"errors"
	"sync"

	bookingRepo "appointly/database/repository/booking"
	"appointly/models"
)

// AvailabilityResolver reconciles generated slots with persisted bookings and owns the
// write lock that makes read-check-append atomic within the process.
type AvailabilityResolver struct {
	Slots *SlotBuilder
	Store bookingRepo.BookingStore

	mu sync.Mutex
}

func NewAvailabilityResolver(slots *SlotBuilder, store bookingRepo.BookingStore) *AvailabilityResolver {
	return &AvailabilityResolver{Slots: slots, Store: store}
}

// AvailableSlots returns the slots of d whose start no booking holds.
// It reads a snapshot without taking the write lock.
func (r *AvailabilityResolver) AvailableSlots(ctx context.Context, d Date) ([]models.Slot, error) {
	all := r.Slots.Generate(d)
	if len(all) == 0 {
		return all, nil
	}

	bookings, err := r.Store.List(ctx)
	if err != nil {
		return nil, &PersistenceError{Op: "list bookings", Err: err}
	}
	taken := bookedInstants(bookings)

	free := make([]models.Slot, 0, len(all))
	for _, s := range all {
		if !taken[s.Start.UnixMilli()] {
			free = append(free, s)
		}
	}
	return free, nil
}

// Reserve appends b unless its start is already booked.
func (r *AvailabilityResolver) Reserve(ctx context.Context, b models.Booking) error {
	start, err := b.StartTime()
	if err != nil {
		return &ValidationError{Code: CodeInvalidStart, Message: "Invalid start time", Err: err}
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	bookings, err := r.Store.List(ctx)
	if err != nil {
		return &PersistenceError{Op: "list bookings", Err: err}
	}
	if bookedInstants(bookings)[start.UnixMilli()] {
		return &ConflictError{Start: b.Start}
	}

	if err := r.Store.Append(ctx, b); err != nil {
		if errors.Is(err, bookingRepo.ErrDuplicateStart) {
			return &ConflictError{Start: b.Start, Err: err}
		}
		return &PersistenceError{Op: "append booking", Err: err}
	}
	return nil
}

// Release removes the booking with id.
func (r *AvailabilityResolver) Release(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.Store.Remove(ctx, id); err != nil {
		if errors.Is(err, bookingRepo.ErrNotFound) {
			return &NotFoundError{ID: id, Err: err}
		}
		return &PersistenceError{Op: "remove booking", Err: err}
	}
	return nil
}

// Bookings returns a snapshot of every booking.
func (r *AvailabilityResolver) Bookings(ctx context.Context) ([]models.Booking, error) {
	bookings, err := r.Store.List(ctx)
	if err != nil {
		return nil, &PersistenceError{Op: "list bookings", Err: err}
	}
	return bookings, nil
}

// bookedInstants indexes bookings by start instant. Unparseable starts are ignored.
func bookedInstants(bookings []models.Booking) map[int64]bool {
	taken := make(map[int64]bool, len(bookings))
	for _, b := range bookings {
		t, err := b.StartTime()
		if err != nil {
			continue
		}
		taken[t.UnixMilli()] = true
	}
	return taken
}
