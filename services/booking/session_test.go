package booking

import (
	"context"
	"testing"
	"time"

	"bookpilot/models"
	"bookpilot/services/availability"
	"bookpilot/services/scoring"

	"go.uber.org/zap"
)

func newTestSession() (*SessionService, *MemoryProposalStore) {
	store := NewMemoryProposalStore()
	orchestrator := NewOrchestrator(
		staticCatalog{providers: testProviders()},
		availability.StubOracle{},
		scoring.NewEngine(),
		StubExecutor{},
		zap.NewNop(),
	)
	return &SessionService{Orchestrator: orchestrator, Store: store}, store
}

func TestProposeThenConfirmByID(t *testing.T) {
	session, store := newTestSession()

	proposalID, proposal, err := session.Propose(context.Background(), testPrefs())
	if err != nil {
		t.Fatalf("Propose: %v", err)
	}
	if proposalID == "" {
		t.Fatal("missing proposal ID")
	}
	if proposal.Candidate.Provider.ID == "" {
		t.Fatal("proposal carries no candidate")
	}

	result, _, err := session.Confirm(context.Background(), proposalID, nil, nil)
	if err != nil {
		t.Fatalf("Confirm: %v", err)
	}
	if result.Outcome != models.OutcomeStubbed {
		t.Fatalf("outcome = %q, want stubbed", result.Outcome)
	}
	if result.Provider.ID != proposal.Candidate.Provider.ID {
		t.Fatalf("confirmed provider %s != proposed provider %s", result.Provider.ID, proposal.Candidate.Provider.ID)
	}

	// A confirmed proposal is consumed.
	if _, err := store.Load(context.Background(), proposalID); err == nil {
		t.Fatal("proposal still loadable after confirmation")
	}
}

func TestConfirmInlinePair(t *testing.T) {
	session, _ := newTestSession()
	provider := testProviders()[0]
	slot := models.Slot{
		ProviderID: provider.ID,
		Start:      testPrefs().TimeWindow.Start,
		End:        testPrefs().TimeWindow.Start.Add(30 * time.Minute),
		Source:     models.SourceStub,
	}

	result, transcript, err := session.Confirm(context.Background(), "", &provider, &slot)
	if err != nil {
		t.Fatalf("Confirm: %v", err)
	}
	if result.Outcome != models.OutcomeStubbed {
		t.Fatalf("outcome = %q, want stubbed", result.Outcome)
	}
	if len(transcript) == 0 {
		t.Fatal("confirmation produced no transcript")
	}
}

func TestConfirmRequiresSelection(t *testing.T) {
	session, _ := newTestSession()

	if _, _, err := session.Confirm(context.Background(), "", nil, nil); err == nil {
		t.Fatal("expected an error with neither proposal ID nor inline pair")
	}
}

func TestConfirmUnknownProposal(t *testing.T) {
	session, _ := newTestSession()

	if _, _, err := session.Confirm(context.Background(), "no-such-proposal", nil, nil); err == nil {
		t.Fatal("expected an error for an unknown proposal ID")
	}
}

func TestMemoryProposalStoreRoundTrip(t *testing.T) {
	store := NewMemoryProposalStore()
	stored := StoredProposal{
		Provider: testProviders()[0],
		Slot: models.Slot{
			ProviderID: "p1",
			Start:      testPrefs().TimeWindow.Start,
			End:        testPrefs().TimeWindow.Start.Add(30 * time.Minute),
		},
	}

	if err := store.Save(context.Background(), "id-1", stored); err != nil {
		t.Fatalf("Save: %v", err)
	}
	loaded, err := store.Load(context.Background(), "id-1")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if loaded.Provider.ID != stored.Provider.ID || !loaded.Slot.Start.Equal(stored.Slot.Start) {
		t.Fatalf("loaded proposal %+v differs from the stored one", loaded)
	}

	if err := store.Delete(context.Background(), "id-1"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := store.Load(context.Background(), "id-1"); err == nil {
		t.Fatal("deleted proposal still loadable")
	}
}
