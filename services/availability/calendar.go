package availability

import (
	"context"
	"fmt"
	"time"

	"bookpilot/models"

	"go.uber.org/zap"
	"google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"
)

const (
	liveSlotDuration = 30 * time.Minute
	maxLiveSlots     = 8
)

// NewCalendarService builds an authenticated Calendar client from a
// service-account credentials file.
func NewCalendarService(ctx context.Context, credentialsFile string) (*calendar.Service, error) {
	srv, err := calendar.NewService(ctx,
		option.WithCredentialsFile(credentialsFile),
		option.WithScopes(calendar.CalendarScope),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create calendar service: %w", err)
	}
	return srv, nil
}

// CalendarOracle is the live availability capability, backed by the
// Calendar free/busy API. Candidate slots are generated on a half-hour
// grid inside the window, clipped to the provider's opening hours when
// those are parseable, then filtered against busy periods.
type CalendarOracle struct {
	Service    *calendar.Service
	CalendarID string
	Logger     *zap.Logger
}

// GetSlots implements AvailabilityOracle.
func (o *CalendarOracle) GetSlots(ctx context.Context, provider models.Provider, window models.TimeWindow) ([]models.Slot, error) {
	resp, err := o.Service.Freebusy.Query(&calendar.FreeBusyRequest{
		TimeMin: window.Start.Format(time.RFC3339),
		TimeMax: window.End.Format(time.RFC3339),
		Items:   []*calendar.FreeBusyRequestItem{{Id: o.CalendarID}},
	}).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("freebusy query failed: %w", err)
	}

	var busy []models.TimeWindow
	if cal, ok := resp.Calendars[o.CalendarID]; ok {
		for _, b := range cal.Busy {
			start, err1 := time.Parse(time.RFC3339, b.Start)
			end, err2 := time.Parse(time.RFC3339, b.End)
			if err1 != nil || err2 != nil {
				continue
			}
			busy = append(busy, models.TimeWindow{Start: start, End: end})
		}
	}

	periods := ParseOpeningPeriods(provider.OpeningHours)

	var slots []models.Slot
	for start := window.Start.Round(liveSlotDuration); ; start = start.Add(liveSlotDuration) {
		if start.Before(window.Start) {
			continue
		}
		end := start.Add(liveSlotDuration)
		if end.After(window.End) || len(slots) >= maxLiveSlots {
			break
		}
		if len(periods) > 0 && !withinPeriods(periods, start, end) {
			continue
		}
		if overlapsAny(busy, start, end) {
			continue
		}
		slots = append(slots, models.Slot{
			ProviderID: provider.ID,
			Start:      start,
			End:        end,
			Source:     models.SourceLive,
		})
	}
	return slots, nil
}

func overlapsAny(busy []models.TimeWindow, start, end time.Time) bool {
	for _, b := range busy {
		if start.Before(b.End) && b.Start.Before(end) {
			return true
		}
	}
	return false
}
