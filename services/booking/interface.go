package booking

import (
	"context"

	"appointly/models"
)

// BookingService is the transport-agnostic booking API used by the HTTP handlers and the CLI.
type BookingService interface {
	// AvailableSlots lists the unbooked slots of a YYYY-MM-DD date.
	AvailableSlots(ctx context.Context, date string) ([]models.Slot, error)
	// Book validates req, reserves its slot and dispatches the post-commit side effects.
	Book(ctx context.Context, req models.BookingRequest) (models.Booking, error)
	// Cancel removes the booking with id.
	Cancel(ctx context.Context, id string) error
	// List returns every booking in insertion order.
	List(ctx context.Context) ([]models.Booking, error)
}

// Dispatcher hands an accepted booking to the notification and calendar side effects.
// Implementations must not block on delivery.
type Dispatcher interface {
	Dispatch(ctx context.Context, b models.Booking) error
}
