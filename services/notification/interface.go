package notification

import (
	"context"

	"appointly/models"
)

// Notifier delivers the messages that follow an accepted booking.
type Notifier interface {
	Send(ctx context.Context, b models.Booking) error
}
