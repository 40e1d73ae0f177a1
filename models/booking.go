package models

import (
	"fmt"
	"time"
)

// InstantLayout is the wire format for every absolute instant: UTC with millisecond precision.
const InstantLayout = "2006-01-02T15:04:05.000Z"

// Booking is a persisted appointment. Start is stored as the canonical wire string.
type Booking struct {
	ID        string `bson:"id" json:"id"`               // opaque unique identifier (UUID)
	Start     string `bson:"start" json:"start"`         // slot start, InstantLayout
	Name      string `bson:"name" json:"name"`           // client name
	Email     string `bson:"email" json:"email"`         // client email
	Phone     string `bson:"phone" json:"phone"`         // optional, "" when absent
	Location  string `bson:"location" json:"location"`   // optional, "" when absent
	CreatedAt string `bson:"createdAt" json:"createdAt"` // acceptance instant, InstantLayout
}

// StartTime parses the stored start instant.
func (b Booking) StartTime() (time.Time, error) {
	return ParseInstant(b.Start)
}

// BookingRequest is the body accepted by POST /book.
type BookingRequest struct {
	Start    string `json:"start"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone,omitempty"`
	Location string `json:"location,omitempty"`
}

// BookingSummary is the public view returned after a booking is accepted.
type BookingSummary struct {
	ID    string `json:"id"`
	Start string `json:"start"`
	Name  string `json:"name"`
}

// Summary returns the public fields of b.
func (b Booking) Summary() BookingSummary {
	return BookingSummary{ID: b.ID, Start: b.Start, Name: b.Name}
}

// FormatInstant renders t in the wire format.
func FormatInstant(t time.Time) string {
	return t.UTC().Format(InstantLayout)
}

// ParseInstant accepts any RFC 3339 instant, with or without fractional seconds.
func ParseInstant(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid instant %q: %w", s, err)
	}
	return t.UTC(), nil
}
