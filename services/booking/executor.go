package booking

import (
	"context"
	"fmt"
	"time"

	"bookpilot/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"google.golang.org/api/calendar/v3"
)

// BookingExecutor attempts to create a durable reservation for a chosen
// provider and slot. Implementations must return ErrSlotConflict when
// the slot was taken between ranking and booking, so the orchestrator
// can retry against the next candidate.
type BookingExecutor interface {
	Book(ctx context.Context, provider models.Provider, slot models.Slot) (models.BookingResult, error)
}

// StubExecutor issues synthetic confirmations, making the whole
// pipeline runnable with no external dependency. Required for
// deterministic tests and offline demos.
type StubExecutor struct{}

// Book implements BookingExecutor.
func (StubExecutor) Book(_ context.Context, provider models.Provider, slot models.Slot) (models.BookingResult, error) {
	return models.BookingResult{
		Outcome:        models.OutcomeStubbed,
		ConfirmationID: "stub-" + uuid.New().String(),
		BookedAt:       time.Now(),
		Provider:       provider,
		Slot:           slot,
	}, nil
}

// CalendarExecutor books against a live calendar backend. Slots that
// did not come from the live availability path cannot be booked for
// real and fall back to a stubbed confirmation.
type CalendarExecutor struct {
	Service    *calendar.Service
	CalendarID string
	Logger     *zap.Logger
}

// Book implements BookingExecutor.
func (e *CalendarExecutor) Book(ctx context.Context, provider models.Provider, slot models.Slot) (models.BookingResult, error) {
	if e.Service == nil || slot.Source != models.SourceLive {
		return StubExecutor{}.Book(ctx, provider, slot)
	}

	// Re-check free/busy: the slot may have been taken since ranking.
	free, err := e.slotStillFree(ctx, slot)
	if err != nil {
		// Capability errors at booking time follow the conflict path:
		// the orchestrator moves on to the next candidate.
		if e.Logger != nil {
			e.Logger.Warn("booking-time availability re-check failed", zap.Error(err))
		}
		return models.BookingResult{}, fmt.Errorf("%w: %v", ErrSlotConflict, err)
	}
	if !free {
		return models.BookingResult{}, ErrSlotConflict
	}

	event := &calendar.Event{
		Summary:     fmt.Sprintf("%s appointment - %s", provider.Specialty, provider.Name),
		Location:    provider.Address,
		Description: "Appointment booked via BookPilot",
		Start:       &calendar.EventDateTime{DateTime: slot.Start.Format(time.RFC3339)},
		End:         &calendar.EventDateTime{DateTime: slot.End.Format(time.RFC3339)},
	}
	created, err := e.Service.Events.Insert(e.CalendarID, event).Context(ctx).Do()
	if err != nil {
		return models.BookingResult{}, fmt.Errorf("%w: event insert failed: %v", ErrSlotConflict, err)
	}

	return models.BookingResult{
		Outcome:        models.OutcomeBooked,
		ConfirmationID: created.Id,
		BookedAt:       time.Now(),
		Provider:       provider,
		Slot:           slot,
	}, nil
}

func (e *CalendarExecutor) slotStillFree(ctx context.Context, slot models.Slot) (bool, error) {
	resp, err := e.Service.Freebusy.Query(&calendar.FreeBusyRequest{
		TimeMin: slot.Start.Format(time.RFC3339),
		TimeMax: slot.End.Format(time.RFC3339),
		Items:   []*calendar.FreeBusyRequestItem{{Id: e.CalendarID}},
	}).Context(ctx).Do()
	if err != nil {
		return false, err
	}
	cal, ok := resp.Calendars[e.CalendarID]
	if !ok {
		return true, nil
	}
	return len(cal.Busy) == 0, nil
}
