package availability

import (
	"context"
	"testing"
	"time"

	"bookpilot/models"
)

func testWindow() models.TimeWindow {
	return models.TimeWindow{
		Start: time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC),
		End:   time.Date(2026, 3, 2, 17, 0, 0, 0, time.UTC),
	}
}

func TestStubOracleDeterministic(t *testing.T) {
	oracle := StubOracle{}
	provider := models.Provider{ID: "p1"}

	first, err := oracle.GetSlots(context.Background(), provider, testWindow())
	if err != nil {
		t.Fatalf("GetSlots: %v", err)
	}
	second, _ := oracle.GetSlots(context.Background(), provider, testWindow())

	if len(first) != len(second) {
		t.Fatalf("slot counts differ across calls: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if !first[i].Start.Equal(second[i].Start) || !first[i].End.Equal(second[i].End) {
			t.Fatalf("slot %d differs across calls: %v vs %v", i, first[i], second[i])
		}
	}
}

func TestStubSlotsWithinWindow(t *testing.T) {
	oracle := StubOracle{}
	window := testWindow()

	slots, err := oracle.GetSlots(context.Background(), models.Provider{ID: "p1"}, window)
	if err != nil {
		t.Fatalf("GetSlots: %v", err)
	}
	if len(slots) != 3 {
		t.Fatalf("got %d slots for an 8h window, want 3", len(slots))
	}
	for _, s := range slots {
		if !window.Contains(s.Start, s.End) {
			t.Fatalf("slot [%v, %v) falls outside the window", s.Start, s.End)
		}
		if s.ProviderID != "p1" {
			t.Fatalf("slot carries provider %q, want p1", s.ProviderID)
		}
		if s.Source != models.SourceStub {
			t.Fatalf("slot source = %q, want stub", s.Source)
		}
		if s.End.Sub(s.Start) != 30*time.Minute {
			t.Fatalf("slot duration = %v, want 30m", s.End.Sub(s.Start))
		}
	}
	if !slots[0].Start.Equal(window.Start) {
		t.Fatalf("first slot starts at %v, want window start %v", slots[0].Start, window.Start)
	}
}

func TestStubOracleInvertedWindow(t *testing.T) {
	oracle := StubOracle{}
	window := models.TimeWindow{Start: testWindow().End, End: testWindow().Start}

	slots, err := oracle.GetSlots(context.Background(), models.Provider{ID: "p1"}, window)
	if err != nil {
		t.Fatalf("GetSlots: %v", err)
	}
	if len(slots) != 0 {
		t.Fatalf("inverted window produced %d slots, want none", len(slots))
	}
}

func TestStubOracleNarrowWindow(t *testing.T) {
	oracle := StubOracle{}
	window := models.TimeWindow{
		Start: testWindow().Start,
		End:   testWindow().Start.Add(40 * time.Minute),
	}

	slots, err := oracle.GetSlots(context.Background(), models.Provider{ID: "p1"}, window)
	if err != nil {
		t.Fatalf("GetSlots: %v", err)
	}
	for _, s := range slots {
		if !window.Contains(s.Start, s.End) {
			t.Fatalf("slot [%v, %v) falls outside the narrow window", s.Start, s.End)
		}
	}
}
