package availability

import (
	"context"
	"time"

	"bookpilot/models"
)

// AvailabilityOracle reports open slots for a provider within a time
// window. Absence of a live calendar capability is a valid, expected
// mode: implementations never fail on missing configuration.
type AvailabilityOracle interface {
	GetSlots(ctx context.Context, provider models.Provider, window models.TimeWindow) ([]models.Slot, error)
}

const (
	stubSlotCount    = 3
	stubSlotDuration = 30 * time.Minute
)

// StubOracle returns a deterministic synthetic slot set: evenly spaced
// slots within the window, tagged stub. It guarantees the pipeline can
// complete end-to-end with no external integration configured.
type StubOracle struct{}

// GetSlots implements AvailabilityOracle.
func (StubOracle) GetSlots(_ context.Context, provider models.Provider, window models.TimeWindow) ([]models.Slot, error) {
	if !window.End.After(window.Start) {
		return nil, nil
	}

	step := window.Duration() / stubSlotCount
	slots := make([]models.Slot, 0, stubSlotCount)
	for i := 0; i < stubSlotCount; i++ {
		start := window.Start.Add(time.Duration(i) * step).Round(time.Minute)
		end := start.Add(stubSlotDuration)
		if !window.Contains(start, end) {
			continue
		}
		slots = append(slots, models.Slot{
			ProviderID: provider.ID,
			Start:      start,
			End:        end,
			Source:     models.SourceStub,
		})
	}
	return slots, nil
}
