package tasks

import (
	"context"
	"errors"

	"appointly/models"
	"appointly/services/calendar"
	"appointly/services/notification"
	"appointly/utils"

	"go.uber.org/zap"
)

// Processor performs the post-commit side effects of a booking.
type Processor struct {
	Notifier  notification.Notifier
	Publisher calendar.Publisher
}

func (p *Processor) Notify(ctx context.Context, b models.Booking) error {
	if p.Notifier == nil {
		return nil
	}
	if err := p.Notifier.Send(ctx, b); err != nil {
		utils.GetLogger().Error("Email error", zap.String("bookingID", b.ID), zap.Error(err))
		return err
	}
	return nil
}

func (p *Processor) Publish(ctx context.Context, b models.Booking) error {
	if p.Publisher == nil {
		return nil
	}
	if _, err := p.Publisher.Publish(ctx, b); err != nil {
		utils.GetLogger().Error("Google Calendar error", zap.String("bookingID", b.ID), zap.Error(err))
		return err
	}
	return nil
}

// Run performs both side effects; a failure in one does not skip the other.
func (p *Processor) Run(ctx context.Context, b models.Booking) error {
	return errors.Join(p.Notify(ctx, b), p.Publish(ctx, b))
}
