package bookingRepo

import (
	"context"
	"errors"

	"appointly/models"
)

var (
	// ErrNotFound is returned by Remove when no booking has the given id.
	ErrNotFound = errors.New("booking not found")
	// ErrDuplicateStart is returned by Append when a booking already holds the start instant.
	ErrDuplicateStart = errors.New("booking start already taken")
)

// BookingStore persists bookings in insertion order.
type BookingStore interface {
	// List returns every booking, oldest first.
	List(ctx context.Context) ([]models.Booking, error)
	// Append durably adds b.
	Append(ctx context.Context, b models.Booking) error
	// Remove deletes the booking with id.
	Remove(ctx context.Context, id string) error
}
