package calendar

import (
	"context"
	"fmt"
	"time"

	"appointly/models"
	"appointly/utils"

	"go.uber.org/zap"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	gcal "google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"
)

// Publisher mirrors an accepted booking onto an external calendar and returns the event id.
type Publisher interface {
	Publish(ctx context.Context, b models.Booking) (string, error)
}

// EventSettings shapes the calendar event built for a booking.
type EventSettings struct {
	Duration time.Duration
	TimeZone string // IANA name attached to start and end
}

// BuildEvent maps a booking to a Calendar v3 event.
func BuildEvent(b models.Booking, s EventSettings) (*gcal.Event, error) {
	start, err := b.StartTime()
	if err != nil {
		return nil, err
	}
	end := start.Add(s.Duration)

	return &gcal.Event{
		Summary:     "PT Appointment: " + b.Name,
		Description: fmt.Sprintf("Patient: %s\nEmail: %s\nPhone: %s\nLocation: %s\n\nBooking ID: %s",
			b.Name, b.Email, orNA(b.Phone), orNA(b.Location), b.ID),
		Start: &gcal.EventDateTime{DateTime: start.UTC().Format(time.RFC3339), TimeZone: s.TimeZone},
		End:   &gcal.EventDateTime{DateTime: end.UTC().Format(time.RFC3339), TimeZone: s.TimeZone},
		Reminders: &gcal.EventReminders{
			UseDefault: false,
			Overrides: []*gcal.EventReminder{
				{Method: "email", Minutes: 60},
				{Method: "popup", Minutes: 30},
			},
			ForceSendFields: []string{"UseDefault"},
		},
	}, nil
}

func orNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}

// GooglePublisher inserts events through the Calendar v3 API using an offline refresh token.
type GooglePublisher struct {
	svc        *gcal.Service
	calendarID string
	settings   EventSettings
}

func NewGooglePublisher(ctx context.Context, clientID, clientSecret, refreshToken, calendarID string, settings EventSettings) (*GooglePublisher, error) {
	oauthCfg := &oauth2.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		Endpoint:     google.Endpoint,
		Scopes:       []string{gcal.CalendarEventsScope},
	}
	ts := oauthCfg.TokenSource(ctx, &oauth2.Token{RefreshToken: refreshToken})

	svc, err := gcal.NewService(ctx, option.WithTokenSource(ts))
	if err != nil {
		return nil, fmt.Errorf("failed to create calendar client: %w", err)
	}
	return &GooglePublisher{svc: svc, calendarID: calendarID, settings: settings}, nil
}

func (p *GooglePublisher) Publish(ctx context.Context, b models.Booking) (string, error) {
	event, err := BuildEvent(b, p.settings)
	if err != nil {
		return "", err
	}
	created, err := p.svc.Events.Insert(p.calendarID, event).Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("failed to insert calendar event: %w", err)
	}
	utils.GetLogger().Info("Google Calendar event created",
		zap.String("bookingID", b.ID), zap.String("eventID", created.Id), zap.String("link", created.HtmlLink))
	return created.Id, nil
}

// NoopPublisher is used when calendar credentials are absent.
type NoopPublisher struct{}

func (NoopPublisher) Publish(ctx context.Context, b models.Booking) (string, error) {
	utils.GetLogger().Debug("Calendar disabled, skipping event", zap.String("bookingID", b.ID))
	return "", nil
}
