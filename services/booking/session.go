package booking

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"bookpilot/models"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
)

const proposalTTL = 30 * time.Minute

// StoredProposal is the minimal state kept between propose and confirm.
type StoredProposal struct {
	Provider   models.Provider     `json:"provider"`
	Slot       models.Slot         `json:"slot"`
	Transcript []models.StepRecord `json:"transcript"`
}

// ProposalStore caches proposals between the propose and confirm calls.
type ProposalStore interface {
	Save(ctx context.Context, id string, proposal StoredProposal) error
	Load(ctx context.Context, id string) (*StoredProposal, error)
	Delete(ctx context.Context, id string) error
}

// RedisProposalStore keeps proposals in Redis with a TTL.
type RedisProposalStore struct {
	Client *redis.Client
}

func (s *RedisProposalStore) Save(ctx context.Context, id string, proposal StoredProposal) error {
	data, err := json.Marshal(proposal)
	if err != nil {
		return fmt.Errorf("failed to marshal proposal: %w", err)
	}
	if err := s.Client.Set(ctx, proposalKey(id), data, proposalTTL).Err(); err != nil {
		return fmt.Errorf("failed to store proposal: %w", err)
	}
	return nil
}

func (s *RedisProposalStore) Load(ctx context.Context, id string) (*StoredProposal, error) {
	data, err := s.Client.Get(ctx, proposalKey(id)).Result()
	if err != nil {
		return nil, fmt.Errorf("proposal not found or expired: %w", err)
	}
	var proposal StoredProposal
	if err := json.Unmarshal([]byte(data), &proposal); err != nil {
		return nil, fmt.Errorf("failed to parse proposal: %w", err)
	}
	return &proposal, nil
}

func (s *RedisProposalStore) Delete(ctx context.Context, id string) error {
	return s.Client.Del(ctx, proposalKey(id)).Err()
}

func proposalKey(id string) string {
	return "proposal:" + id
}

// MemoryProposalStore is the fallback when Redis is not configured.
type MemoryProposalStore struct {
	mu        sync.Mutex
	proposals map[string]memoryEntry
}

type memoryEntry struct {
	proposal  StoredProposal
	expiresAt time.Time
}

func NewMemoryProposalStore() *MemoryProposalStore {
	return &MemoryProposalStore{proposals: make(map[string]memoryEntry)}
}

func (s *MemoryProposalStore) Save(_ context.Context, id string, proposal StoredProposal) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.proposals[id] = memoryEntry{proposal: proposal, expiresAt: time.Now().Add(proposalTTL)}
	return nil
}

func (s *MemoryProposalStore) Load(_ context.Context, id string) (*StoredProposal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry, ok := s.proposals[id]
	if !ok || time.Now().After(entry.expiresAt) {
		delete(s.proposals, id)
		return nil, fmt.Errorf("proposal not found or expired")
	}
	proposal := entry.proposal
	return &proposal, nil
}

func (s *MemoryProposalStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.proposals, id)
	return nil
}

// SessionService runs the confirmation-gated flow: Propose caches the
// best candidate under a proposal ID, Confirm books it later.
type SessionService struct {
	Orchestrator *Orchestrator
	Store        ProposalStore
}

// Propose runs DISCOVER+RANK and caches the result for confirmation.
func (s *SessionService) Propose(ctx context.Context, prefs models.Preferences) (string, *Proposal, error) {
	proposal, err := s.Orchestrator.Propose(ctx, prefs)
	if err != nil {
		return "", nil, err
	}

	proposalID := uuid.New().String()
	stored := StoredProposal{
		Provider:   proposal.Candidate.Provider,
		Slot:       proposal.Candidate.Slot,
		Transcript: proposal.Transcript,
	}
	if err := s.Store.Save(ctx, proposalID, stored); err != nil {
		return "", nil, err
	}
	return proposalID, proposal, nil
}

// Confirm books a previously proposed pair. The pair may come from the
// proposal cache (by ID) or inline from the caller.
func (s *SessionService) Confirm(ctx context.Context, proposalID string, provider *models.Provider, slot *models.Slot) (models.BookingResult, []models.StepRecord, error) {
	if proposalID != "" {
		stored, err := s.Store.Load(ctx, proposalID)
		if err != nil {
			return models.BookingResult{}, nil, err
		}
		provider, slot = &stored.Provider, &stored.Slot
		defer s.Store.Delete(ctx, proposalID)
	}
	if provider == nil || slot == nil {
		return models.BookingResult{}, nil, fmt.Errorf("a proposal id or a provider and slot pair is required")
	}
	return s.Orchestrator.Confirm(ctx, *provider, *slot)
}
