package booking

import (
	"context"
	"fmt"
	"sync"
	"time"

	"bookpilot/models"
	"bookpilot/services/availability"
	"bookpilot/services/catalog"
	"bookpilot/services/scoring"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// State names the orchestrator's pipeline states. Each transition is
// appended to the transcript before the next state begins.
type State string

const (
	StateStart    State = "START"
	StateDiscover State = "DISCOVER"
	StateRank     State = "RANK"
	StateReserve  State = "RESERVE"
	StateBook     State = "BOOK"
	StateDone     State = "DONE"
	StateError    State = "ERROR"
)

const (
	defaultMaxRetries        = 3
	defaultCapabilityTimeout = 5 * time.Second
	rankFanOutLimit          = 4
)

// Recorder archives finished requests. Optional collaborator; the core
// itself stays stateless between requests.
type Recorder interface {
	Archive(ctx context.Context, record models.BookingRecord) error
}

// Orchestrator drives one request through the pipeline:
// START → DISCOVER → RANK → RESERVE → BOOK → DONE, with ERROR terminal
// from any non-terminal state. It owns retry policy, tie-breaking, and
// the audit transcript.
type Orchestrator struct {
	Catalog  catalog.ProviderCatalog
	Oracle   availability.AvailabilityOracle
	Engine   *scoring.Engine
	Executor BookingExecutor
	Recorder Recorder // optional
	Logger   *zap.Logger

	Policy            scoring.RankPolicy
	MaxRetries        int
	CapabilityTimeout time.Duration

	holds *slotHolds
}

// NewOrchestrator wires the pipeline with default policy and limits.
func NewOrchestrator(cat catalog.ProviderCatalog, oracle availability.AvailabilityOracle, engine *scoring.Engine, exec BookingExecutor, logger *zap.Logger) *Orchestrator {
	return &Orchestrator{
		Catalog:           cat,
		Oracle:            oracle,
		Engine:            engine,
		Executor:          exec,
		Logger:            logger,
		Policy:            scoring.EarliestSlotOnly,
		MaxRetries:        defaultMaxRetries,
		CapabilityTimeout: defaultCapabilityTimeout,
		holds:             newSlotHolds(),
	}
}

// RunResult is the outcome of a full pipeline run.
type RunResult struct {
	RequestID  string                 `json:"requestId"`
	Candidate  models.ScoredCandidate `json:"candidate"`
	Booking    models.BookingResult   `json:"booking"`
	Transcript []models.StepRecord    `json:"transcript"`
}

// Proposal is the outcome of DISCOVER+RANK without booking, for
// confirmation-gated flows.
type Proposal struct {
	RequestID  string                 `json:"requestId"`
	Candidate  models.ScoredCandidate `json:"candidate"`
	Transcript []models.StepRecord    `json:"transcript"`
}

// Run executes the full pipeline for one request. Exactly one
// BookingResult is produced per completed request; a failed request
// returns a PipelineError carrying the transcript.
func (o *Orchestrator) Run(ctx context.Context, prefs models.Preferences) (*RunResult, error) {
	requestID := uuid.New().String()
	t := models.NewTranscript()

	if err := o.start(t, prefs); err != nil {
		return nil, err
	}
	providers, err := o.discover(ctx, t, prefs)
	if err != nil {
		return nil, err
	}

	excluded := make(map[string]bool)
	attempts := 0
	for {
		best, err := o.rankOnce(ctx, t, prefs, providers, excluded)
		if err != nil {
			return nil, err
		}

		key := best.Slot.Key()
		if !o.holds.acquire(key) {
			t.Append(string(StateReserve), key, "slot already held by another request, re-ranking without it")
			excluded[key] = true
			attempts++
			if attempts > o.MaxRetries {
				return nil, o.fail(t, ReasonExhaustedCandidates, "retry cap reached while reserving")
			}
			continue
		}
		t.Append(string(StateReserve), key, "optimistic hold acquired")

		bctx, cancel := context.WithTimeout(ctx, o.CapabilityTimeout)
		result, bookErr := o.Executor.Book(bctx, best.Provider, best.Slot)
		cancel()
		if bookErr != nil {
			o.holds.release(key)
			t.Append(string(StateBook),
				fmt.Sprintf("%s at %s", best.Provider.Name, best.Slot.Start.Format(time.RFC3339)),
				fmt.Sprintf("booking failed (%s): %v", ReasonBookingConflict, bookErr))
			excluded[key] = true
			attempts++
			if attempts > o.MaxRetries {
				return nil, o.fail(t, ReasonExhaustedCandidates, "retry cap reached while booking")
			}
			continue
		}
		o.holds.release(key)

		t.Append(string(StateBook),
			fmt.Sprintf("%s at %s", best.Provider.Name, best.Slot.Start.Format(time.RFC3339)),
			fmt.Sprintf("%s, confirmation %s", result.Outcome, result.ConfirmationID))
		t.Append(string(StateDone), "",
			fmt.Sprintf("booked %s with %s", best.Slot.Start.Format(time.RFC3339), best.Provider.Name))

		run := &RunResult{
			RequestID:  requestID,
			Candidate:  best,
			Booking:    result,
			Transcript: t.Entries(),
		}
		o.archive(ctx, requestID, prefs, run)
		return run, nil
	}
}

// Propose runs DISCOVER+RANK only, without booking.
func (o *Orchestrator) Propose(ctx context.Context, prefs models.Preferences) (*Proposal, error) {
	requestID := uuid.New().String()
	t := models.NewTranscript()

	if err := o.start(t, prefs); err != nil {
		return nil, err
	}
	providers, err := o.discover(ctx, t, prefs)
	if err != nil {
		return nil, err
	}
	best, err := o.rankOnce(ctx, t, prefs, providers, nil)
	if err != nil {
		return nil, err
	}
	return &Proposal{RequestID: requestID, Candidate: best, Transcript: t.Entries()}, nil
}

// Confirm runs RESERVE+BOOK for a previously proposed pair. A single
// attempt: a conflict here surfaces to the caller rather than silently
// retrying a slot the user did not agree to.
func (o *Orchestrator) Confirm(ctx context.Context, provider models.Provider, slot models.Slot) (models.BookingResult, []models.StepRecord, error) {
	t := models.NewTranscript()

	key := slot.Key()
	if !o.holds.acquire(key) {
		t.Append(string(StateReserve), key, "slot already held by another request")
		t.Append(string(StateError), "", string(ReasonBookingConflict))
		err := NewPipelineError(ReasonBookingConflict, "slot already held", t.Entries())
		return models.BookingResult{Outcome: models.OutcomeFailed, Provider: provider, Slot: slot}, t.Entries(), err
	}
	defer o.holds.release(key)
	t.Append(string(StateReserve), key, "optimistic hold acquired")

	bctx, cancel := context.WithTimeout(ctx, o.CapabilityTimeout)
	defer cancel()
	result, err := o.Executor.Book(bctx, provider, slot)
	if err != nil {
		t.Append(string(StateBook), key, fmt.Sprintf("booking failed: %v", err))
		t.Append(string(StateError), "", string(ReasonBookingConflict))
		perr := NewPipelineError(ReasonBookingConflict, err.Error(), t.Entries())
		return models.BookingResult{Outcome: models.OutcomeFailed, Provider: provider, Slot: slot}, t.Entries(), perr
	}

	t.Append(string(StateBook), key, fmt.Sprintf("%s, confirmation %s", result.Outcome, result.ConfirmationID))
	t.Append(string(StateDone), "", fmt.Sprintf("booked %s with %s", slot.Start.Format(time.RFC3339), provider.Name))
	return result, t.Entries(), nil
}

func (o *Orchestrator) start(t *models.Transcript, prefs models.Preferences) error {
	input := fmt.Sprintf("specialty=%s window=%s..%s",
		prefs.Specialty,
		prefs.TimeWindow.Start.Format(time.RFC3339),
		prefs.TimeWindow.End.Format(time.RFC3339))
	if err := prefs.Validate(); err != nil {
		t.Append(string(StateStart), input, fmt.Sprintf("invalid preferences: %v", err))
		return o.fail(t, ReasonInvalidPreferences, err.Error())
	}
	t.Append(string(StateStart), input, "preferences validated")
	return nil
}

func (o *Orchestrator) discover(ctx context.Context, t *models.Transcript, prefs models.Preferences) ([]models.Provider, error) {
	dctx, cancel := context.WithTimeout(ctx, o.CapabilityTimeout)
	defer cancel()

	providers, source, err := o.Catalog.Search(dctx, prefs)
	if err != nil {
		t.Append(string(StateDiscover), prefs.Specialty, fmt.Sprintf("catalog search failed: %v", err))
		return nil, o.fail(t, ReasonNoCandidates, err.Error())
	}
	t.Append(string(StateDiscover), prefs.Specialty,
		fmt.Sprintf("%d candidates from %s catalog", len(providers), source))
	if len(providers) == 0 {
		return nil, o.fail(t, ReasonNoCandidates, "no providers matched the request")
	}
	return providers, nil
}

// rankOnce queries availability for every candidate, scores the set,
// and returns the best candidate not excluded by earlier failures.
func (o *Orchestrator) rankOnce(ctx context.Context, t *models.Transcript, prefs models.Preferences, providers []models.Provider, excluded map[string]bool) (models.ScoredCandidate, error) {
	slotsByProvider := o.collectSlots(ctx, t, prefs, providers, excluded)

	candidates := o.Engine.Rank(providers, slotsByProvider, prefs, o.Policy)
	if len(candidates) == 0 {
		if len(excluded) == 0 {
			return models.ScoredCandidate{}, o.fail(t, ReasonNoAvailability, "no provider has an open slot in the window")
		}
		return models.ScoredCandidate{}, o.fail(t, ReasonExhaustedCandidates, "no candidates left after excluding failed slots")
	}

	best := candidates[0]
	t.Append(string(StateRank),
		fmt.Sprintf("%d providers, %d candidates", len(providers), len(candidates)),
		fmt.Sprintf("best: %s at %s (score %.4f)", best.Provider.Name, best.Slot.Start.Format(time.RFC3339), best.Score))
	return best, nil
}

// collectSlots fans availability queries out concurrently. Scoring is
// pure and availability reads are side-effect free, so candidates need
// no ordering between them; the transcript serializes its own appends.
func (o *Orchestrator) collectSlots(ctx context.Context, t *models.Transcript, prefs models.Preferences, providers []models.Provider, excluded map[string]bool) map[string][]models.Slot {
	var mu sync.Mutex
	slotsByProvider := make(map[string][]models.Slot, len(providers))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(rankFanOutLimit)
	for _, p := range providers {
		p := p
		g.Go(func() error {
			actx, cancel := context.WithTimeout(gctx, o.CapabilityTimeout)
			defer cancel()

			slots, err := o.Oracle.GetSlots(actx, p, prefs.TimeWindow)
			if err != nil {
				// Availability failures are absorbed: the provider just
				// contributes no candidates this round.
				t.Append(string(StateRank), p.Name, fmt.Sprintf("availability lookup failed: %v", err))
				if o.Logger != nil {
					o.Logger.Warn("availability lookup failed",
						zap.String("provider", p.ID), zap.Error(err))
				}
				return nil
			}

			open := slots[:0]
			for _, s := range slots {
				if excluded[s.Key()] {
					continue
				}
				open = append(open, s)
			}
			if len(open) > 0 {
				mu.Lock()
				slotsByProvider[p.ID] = open
				mu.Unlock()
			}
			return nil
		})
	}
	g.Wait()
	return slotsByProvider
}

// fail appends the terminal ERROR entry and returns the pipeline error
// with the transcript attached.
func (o *Orchestrator) fail(t *models.Transcript, code ReasonCode, msg string) error {
	t.Append(string(StateError), "", fmt.Sprintf("%s: %s", code, msg))
	return NewPipelineError(code, msg, t.Entries())
}

// archive hands the finished request to the optional recorder.
// Best-effort: archival failure never fails the request.
func (o *Orchestrator) archive(ctx context.Context, requestID string, prefs models.Preferences, run *RunResult) {
	if o.Recorder == nil {
		return
	}
	actx, cancel := context.WithTimeout(ctx, o.CapabilityTimeout)
	defer cancel()
	record := models.BookingRecord{
		RequestID:   requestID,
		Specialty:   prefs.Specialty,
		Result:      run.Booking,
		Transcript:  run.Transcript,
		CompletedAt: time.Now(),
	}
	if err := o.Recorder.Archive(actx, record); err != nil && o.Logger != nil {
		o.Logger.Warn("failed to archive booking record",
			zap.String("requestId", requestID), zap.Error(err))
	}
}
