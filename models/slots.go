package models

import (
	"encoding/json"
	"time"
)

// Slot is a candidate appointment interval. Slots are computed, never persisted.
type Slot struct {
	Start time.Time
	End   time.Time
}

func (s Slot) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Start string `json:"start"`
		End   string `json:"end"`
	}{Start: FormatInstant(s.Start), End: FormatInstant(s.End)})
}
