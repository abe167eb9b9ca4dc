package models

import (
	"fmt"
	"time"
)

// Slot is a bookable interval at a provider. Source records provenance:
// only live slots can be booked against a real calendar backend.
type Slot struct {
	ProviderID string    `bson:"providerId" json:"providerId"`
	Start      time.Time `bson:"start" json:"start"`
	End        time.Time `bson:"end" json:"end"`
	Source     Source    `bson:"source" json:"source"`
}

// Key returns a stable identity for the slot, used for holds and for
// excluding slots that failed at booking time.
func (s Slot) Key() string {
	return fmt.Sprintf("%s@%s", s.ProviderID, s.Start.UTC().Format(time.RFC3339))
}

// Overlaps reports whether the slot intersects [start, end).
func (s Slot) Overlaps(start, end time.Time) bool {
	return s.Start.Before(end) && start.Before(s.End)
}
