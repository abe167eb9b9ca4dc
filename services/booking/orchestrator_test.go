package booking

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"bookpilot/models"
	"bookpilot/services/availability"
	"bookpilot/services/scoring"

	"go.uber.org/zap"
)

func testPrefs() models.Preferences {
	return models.Preferences{
		Specialty: "cardiology",
		TimeWindow: models.TimeWindow{
			Start: time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC),
			End:   time.Date(2026, 3, 2, 17, 0, 0, 0, time.UTC),
		},
		Address: "Alexanderplatz 1, Berlin",
	}
}

func testProviders() []models.Provider {
	return []models.Provider{
		{ID: "p1", Name: "Herzzentrum Mitte", Specialty: "cardiology", Rating: 4.8, DistanceKm: 1.2},
		{ID: "p2", Name: "Kardiologie am Park", Specialty: "cardiology", Rating: 4.4, DistanceKm: 2.6},
	}
}

type staticCatalog struct {
	providers []models.Provider
	err       error
}

func (c staticCatalog) Search(context.Context, models.Preferences) ([]models.Provider, models.Source, error) {
	return c.providers, models.SourceFallback, c.err
}

type emptyOracle struct{}

func (emptyOracle) GetSlots(context.Context, models.Provider, models.TimeWindow) ([]models.Slot, error) {
	return nil, nil
}

// flakyOracle fails for one provider and delegates to the stub for the rest.
type flakyOracle struct {
	failFor string
}

func (o flakyOracle) GetSlots(ctx context.Context, p models.Provider, w models.TimeWindow) ([]models.Slot, error) {
	if p.ID == o.failFor {
		return nil, errors.New("calendar backend unreachable")
	}
	return availability.StubOracle{}.GetSlots(ctx, p, w)
}

// scriptedExecutor fails the first N booking attempts with a conflict and
// records every attempted slot key.
type scriptedExecutor struct {
	mu       sync.Mutex
	failures int
	attempts []string
}

func (e *scriptedExecutor) Book(_ context.Context, provider models.Provider, slot models.Slot) (models.BookingResult, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.attempts = append(e.attempts, slot.Key())
	if e.failures != 0 {
		if e.failures > 0 {
			e.failures--
		}
		return models.BookingResult{}, ErrSlotConflict
	}
	return models.BookingResult{
		Outcome:        models.OutcomeStubbed,
		ConfirmationID: fmt.Sprintf("test-%d", len(e.attempts)),
		BookedAt:       time.Now(),
		Provider:       provider,
		Slot:           slot,
	}, nil
}

type capturingRecorder struct {
	mu      sync.Mutex
	records []models.BookingRecord
}

func (r *capturingRecorder) Archive(_ context.Context, record models.BookingRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.records = append(r.records, record)
	return nil
}

func newTestOrchestrator(cat staticCatalog, oracle availability.AvailabilityOracle, exec BookingExecutor) *Orchestrator {
	return NewOrchestrator(cat, oracle, scoring.NewEngine(), exec, zap.NewNop())
}

func reasonSteps(transcript []models.StepRecord) []string {
	steps := make([]string, len(transcript))
	for i, e := range transcript {
		steps[i] = e.Step
	}
	return steps
}

func TestRunCompletesInFallbackMode(t *testing.T) {
	o := newTestOrchestrator(staticCatalog{providers: testProviders()}, availability.StubOracle{}, StubExecutor{})

	result, err := o.Run(context.Background(), testPrefs())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if result.RequestID == "" {
		t.Fatal("missing request ID")
	}
	if result.Booking.Outcome != models.OutcomeStubbed {
		t.Fatalf("outcome = %q, want stubbed without a live calendar", result.Booking.Outcome)
	}
	if result.Booking.ConfirmationID == "" {
		t.Fatal("missing confirmation ID")
	}

	want := []string{"START", "DISCOVER", "RANK", "RESERVE", "BOOK", "DONE"}
	got := reasonSteps(result.Transcript)
	if len(got) != len(want) {
		t.Fatalf("transcript steps = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("transcript step %d = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestRunPicksHighestRankedCandidate(t *testing.T) {
	o := newTestOrchestrator(staticCatalog{providers: testProviders()}, availability.StubOracle{}, StubExecutor{})

	result, err := o.Run(context.Background(), testPrefs())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	// p1 is closer and higher rated with identical stub availability.
	if result.Candidate.Provider.ID != "p1" {
		t.Fatalf("booked provider = %s, want p1", result.Candidate.Provider.ID)
	}
	if !result.Candidate.Slot.Start.Equal(testPrefs().TimeWindow.Start) {
		t.Fatalf("booked slot starts at %v, want the earliest at window start", result.Candidate.Slot.Start)
	}
}

func TestRunRetriesConflictAgainstDifferentSlot(t *testing.T) {
	exec := &scriptedExecutor{failures: 1}
	o := newTestOrchestrator(staticCatalog{providers: testProviders()}, availability.StubOracle{}, exec)

	result, err := o.Run(context.Background(), testPrefs())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(exec.attempts) != 2 {
		t.Fatalf("executor saw %d attempts, want 2", len(exec.attempts))
	}
	if exec.attempts[0] == exec.attempts[1] {
		t.Fatalf("retry re-attempted the failed slot %s", exec.attempts[0])
	}
	if result.Booking.Outcome != models.OutcomeStubbed {
		t.Fatalf("outcome = %q after retry, want stubbed", result.Booking.Outcome)
	}

	var sawFailure bool
	for _, e := range result.Transcript {
		if e.Step == "BOOK" && strings.HasPrefix(e.Output, "booking failed") {
			sawFailure = true
		}
	}
	if !sawFailure {
		t.Fatal("transcript does not record the failed booking attempt")
	}
}

func TestRunExhaustsRetryCap(t *testing.T) {
	exec := &scriptedExecutor{failures: -1} // always conflict
	o := newTestOrchestrator(staticCatalog{providers: testProviders()}, availability.StubOracle{}, exec)
	o.MaxRetries = 2

	_, err := o.Run(context.Background(), testPrefs())
	if ReasonOf(err) != ReasonExhaustedCandidates {
		t.Fatalf("reason = %q, want exhausted-candidates", ReasonOf(err))
	}
	if len(exec.attempts) != 3 {
		t.Fatalf("executor saw %d attempts with a retry cap of 2, want 3", len(exec.attempts))
	}

	var pe *PipelineError
	if !errors.As(err, &pe) {
		t.Fatalf("error %T does not carry a transcript", err)
	}
	last := pe.Transcript[len(pe.Transcript)-1]
	if last.Step != "ERROR" {
		t.Fatalf("terminal transcript step = %q, want ERROR", last.Step)
	}
}

func TestRunInvalidPreferences(t *testing.T) {
	o := newTestOrchestrator(staticCatalog{providers: testProviders()}, availability.StubOracle{}, StubExecutor{})
	prefs := testPrefs()
	prefs.Specialty = ""

	_, err := o.Run(context.Background(), prefs)
	if ReasonOf(err) != ReasonInvalidPreferences {
		t.Fatalf("reason = %q, want invalid-preferences", ReasonOf(err))
	}
}

func TestRunNoCandidates(t *testing.T) {
	o := newTestOrchestrator(staticCatalog{}, availability.StubOracle{}, StubExecutor{})

	_, err := o.Run(context.Background(), testPrefs())
	if ReasonOf(err) != ReasonNoCandidates {
		t.Fatalf("reason = %q, want no-candidates", ReasonOf(err))
	}
}

func TestRunCatalogFailure(t *testing.T) {
	o := newTestOrchestrator(staticCatalog{err: errors.New("search backend down")}, availability.StubOracle{}, StubExecutor{})

	_, err := o.Run(context.Background(), testPrefs())
	if ReasonOf(err) != ReasonNoCandidates {
		t.Fatalf("reason = %q, want no-candidates", ReasonOf(err))
	}
}

func TestRunNoAvailability(t *testing.T) {
	o := newTestOrchestrator(staticCatalog{providers: testProviders()}, emptyOracle{}, StubExecutor{})

	_, err := o.Run(context.Background(), testPrefs())
	if ReasonOf(err) != ReasonNoAvailability {
		t.Fatalf("reason = %q, want no-availability", ReasonOf(err))
	}
}

func TestRunAbsorbsAvailabilityFailures(t *testing.T) {
	o := newTestOrchestrator(staticCatalog{providers: testProviders()}, flakyOracle{failFor: "p1"}, StubExecutor{})

	result, err := o.Run(context.Background(), testPrefs())
	if err != nil {
		t.Fatalf("one failing oracle must not fail the run: %v", err)
	}
	if result.Candidate.Provider.ID != "p2" {
		t.Fatalf("booked provider = %s, want the one with reachable availability", result.Candidate.Provider.ID)
	}
}

func TestRunArchivesRecord(t *testing.T) {
	rec := &capturingRecorder{}
	o := newTestOrchestrator(staticCatalog{providers: testProviders()}, availability.StubOracle{}, StubExecutor{})
	o.Recorder = rec

	result, err := o.Run(context.Background(), testPrefs())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(rec.records) != 1 {
		t.Fatalf("archived %d records, want 1", len(rec.records))
	}
	record := rec.records[0]
	if record.RequestID != result.RequestID {
		t.Fatalf("archived request ID %q != run request ID %q", record.RequestID, result.RequestID)
	}
	if record.Specialty != "cardiology" {
		t.Fatalf("archived specialty = %q", record.Specialty)
	}
	if len(record.Transcript) != len(result.Transcript) {
		t.Fatal("archived transcript differs from the returned one")
	}
}

func TestProposeStopsBeforeBooking(t *testing.T) {
	exec := &scriptedExecutor{}
	o := newTestOrchestrator(staticCatalog{providers: testProviders()}, availability.StubOracle{}, exec)

	proposal, err := o.Propose(context.Background(), testPrefs())
	if err != nil {
		t.Fatalf("Propose: %v", err)
	}
	if len(exec.attempts) != 0 {
		t.Fatalf("Propose booked %d slots, want none", len(exec.attempts))
	}
	if proposal.Candidate.Provider.ID == "" {
		t.Fatal("proposal carries no candidate")
	}
	got := reasonSteps(proposal.Transcript)
	want := []string{"START", "DISCOVER", "RANK"}
	if len(got) != len(want) {
		t.Fatalf("proposal transcript steps = %v, want %v", got, want)
	}
}

func TestConfirmBooksProposedPair(t *testing.T) {
	o := newTestOrchestrator(staticCatalog{providers: testProviders()}, availability.StubOracle{}, StubExecutor{})
	provider := testProviders()[0]
	slot := models.Slot{ProviderID: provider.ID, Start: testPrefs().TimeWindow.Start, End: testPrefs().TimeWindow.Start.Add(30 * time.Minute), Source: models.SourceStub}

	result, transcript, err := o.Confirm(context.Background(), provider, slot)
	if err != nil {
		t.Fatalf("Confirm: %v", err)
	}
	if result.Outcome != models.OutcomeStubbed {
		t.Fatalf("outcome = %q, want stubbed", result.Outcome)
	}
	got := reasonSteps(transcript)
	want := []string{"RESERVE", "BOOK", "DONE"}
	if len(got) != len(want) {
		t.Fatalf("confirm transcript steps = %v, want %v", got, want)
	}
}

func TestConfirmConflictOnHeldSlot(t *testing.T) {
	o := newTestOrchestrator(staticCatalog{providers: testProviders()}, availability.StubOracle{}, StubExecutor{})
	provider := testProviders()[0]
	slot := models.Slot{ProviderID: provider.ID, Start: testPrefs().TimeWindow.Start, End: testPrefs().TimeWindow.Start.Add(30 * time.Minute), Source: models.SourceStub}

	if !o.holds.acquire(slot.Key()) {
		t.Fatal("could not pre-hold the slot")
	}
	defer o.holds.release(slot.Key())

	result, _, err := o.Confirm(context.Background(), provider, slot)
	if ReasonOf(err) != ReasonBookingConflict {
		t.Fatalf("reason = %q, want booking-conflict", ReasonOf(err))
	}
	if result.Outcome != models.OutcomeFailed {
		t.Fatalf("outcome = %q, want failed", result.Outcome)
	}
}

func TestConfirmDoesNotRetry(t *testing.T) {
	exec := &scriptedExecutor{failures: -1}
	o := newTestOrchestrator(staticCatalog{providers: testProviders()}, availability.StubOracle{}, exec)
	provider := testProviders()[0]
	slot := models.Slot{ProviderID: provider.ID, Start: testPrefs().TimeWindow.Start, End: testPrefs().TimeWindow.Start.Add(30 * time.Minute), Source: models.SourceStub}

	_, _, err := o.Confirm(context.Background(), provider, slot)
	if ReasonOf(err) != ReasonBookingConflict {
		t.Fatalf("reason = %q, want booking-conflict", ReasonOf(err))
	}
	if len(exec.attempts) != 1 {
		t.Fatalf("Confirm attempted %d bookings, want exactly 1", len(exec.attempts))
	}
}
