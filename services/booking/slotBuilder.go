package booking

import (
	"fmt"
	"sort"
	"time"

	"appointly/models"
)

// SlotBuilder derives the candidate slots of a day from the venue's fixed hours.
type SlotBuilder struct {
	Rules     Rules
	OpenHour  int
	CloseHour int
	Duration  time.Duration
	Step      time.Duration
}

// NewSlotBuilder validates the business hours and slot geometry.
func NewSlotBuilder(rules Rules, openHour, closeHour, slotMinutes, stepMinutes int) (*SlotBuilder, error) {
	if openHour < 0 || closeHour > 24 || openHour >= closeHour {
		return nil, fmt.Errorf("invalid business hours %d-%d", openHour, closeHour)
	}
	if slotMinutes <= 0 {
		return nil, fmt.Errorf("slot duration must be positive, got %d minutes", slotMinutes)
	}
	if stepMinutes <= 0 || stepMinutes > 60 {
		return nil, fmt.Errorf("slot step must be within 1-60 minutes, got %d", stepMinutes)
	}
	return &SlotBuilder{
		Rules:     rules,
		OpenHour:  openHour,
		CloseHour: closeHour,
		Duration:  time.Duration(slotMinutes) * time.Minute,
		Step:      time.Duration(stepMinutes) * time.Minute,
	}, nil
}

// Generate returns the ordered slots for d; closed days yield an empty list.
func (b *SlotBuilder) Generate(d Date) []models.Slot {
	slots := []models.Slot{}
	if !b.Rules.IsOpen(d) {
		return slots
	}

	closing := time.Date(d.Year, d.Month, d.Day, b.CloseHour, 0, 0, 0, time.UTC)
	step := int(b.Step / time.Minute)

	for h := b.OpenHour; h < b.CloseHour; h++ {
		for m := 0; m < 60; m += step {
			if !b.Rules.Exists(d, h, m) {
				continue
			}
			offset := time.Duration(b.Rules.OffsetAt(d, h, m)) * time.Hour
			start := b.Rules.Instant(d, h, m)
			end := start.Add(b.Duration)

			// local wall clock of the end, expressed on a UTC clock face
			if end.Add(offset).After(closing) {
				continue
			}
			slots = append(slots, models.Slot{Start: start, End: end})
		}
	}

	sort.Slice(slots, func(i, j int) bool { return slots[i].Start.Before(slots[j].Start) })
	return slots
}

// IsSlotStart reports whether t is the start of a slot generated for its local date.
func (b *SlotBuilder) IsSlotStart(t time.Time) bool {
	local := b.Rules.ToLocal(t)
	for _, s := range b.Generate(DateOf(local)) {
		if s.Start.Equal(t) {
			return true
		}
	}
	return false
}
