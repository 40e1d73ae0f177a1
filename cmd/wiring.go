package cmd

import (
	"context"
	"fmt"
	"time"

	"appointly/config"
	bookingRepo "appointly/database/repository/booking"
	"appointly/services/booking"
	"appointly/services/calendar"
	"appointly/services/notification"
	"appointly/services/tasks"
	"appointly/utils"
)

func newSlotBuilder(cfg config.Config) (*booking.SlotBuilder, error) {
	return booking.NewSlotBuilder(booking.DefaultRules(), cfg.OpenHour, cfg.CloseHour, cfg.SlotMinutes, cfg.SlotStepMinutes)
}

// newResolver opens the configured store and wraps it with the availability rules.
func newResolver(ctx context.Context, cfg config.Config) (*booking.AvailabilityResolver, bookingRepo.BookingStore, error) {
	slots, err := newSlotBuilder(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("invalid business hours configuration: %w", err)
	}
	store, err := bookingRepo.NewStore(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}
	return booking.NewAvailabilityResolver(slots, store), store, nil
}

// newProcessor builds the post-commit side effects, disabling each one whose credentials are absent.
func newProcessor(ctx context.Context, cfg config.Config, rules booking.Rules) (*tasks.Processor, error) {
	logger := utils.GetLogger()
	p := &tasks.Processor{}

	if config.EmailEnabled() {
		p.Notifier = notification.NewEmailNotifier(cfg.SMTPHost, cfg.SMTPPort, cfg.EmailUser, cfg.EmailPass,
			notification.Clinic{
				Name:    cfg.ClinicName,
				Address: cfg.ClinicAddress,
				Phone:   cfg.ClinicPhone,
				Website: cfg.ClinicWebsite,
			}, rules.ToLocal)
		logger.Info("Email notifications enabled")
	} else {
		p.Notifier = notification.LogNotifier{}
		logger.Info("Email notifications disabled (missing credentials)")
	}

	if config.CalendarEnabled() {
		pub, err := calendar.NewGooglePublisher(ctx, cfg.GoogleClientID, cfg.GoogleClientSecret, cfg.GoogleRefreshToken,
			cfg.GoogleCalendarID, calendar.EventSettings{
				Duration: time.Duration(cfg.SlotMinutes) * time.Minute,
				TimeZone: cfg.CalendarTimeZone,
			})
		if err != nil {
			return nil, err
		}
		p.Publisher = pub
		logger.Info("Google Calendar integration enabled")
	} else {
		p.Publisher = calendar.NoopPublisher{}
		logger.Info("Google Calendar integration disabled (missing credentials)")
	}
	return p, nil
}
