package models

import (
	"sync"
	"time"
)

// StepRecord is one audit entry: which step ran, when, and a short
// summary of what went in and what came out.
type StepRecord struct {
	Step      string    `bson:"step" json:"step"`
	Timestamp time.Time `bson:"timestamp" json:"timestamp"`
	Input     string    `bson:"input,omitempty" json:"input,omitempty"`
	Output    string    `bson:"output,omitempty" json:"output,omitempty"`
}

// Transcript is the append-only audit log of one request. Appends are
// serialized; entries are never mutated after append. One Transcript per
// request lifecycle.
type Transcript struct {
	mu      sync.Mutex
	entries []StepRecord
}

// NewTranscript returns an empty transcript.
func NewTranscript() *Transcript {
	return &Transcript{}
}

// Append adds a step record stamped with the current time.
func (t *Transcript) Append(step, input, output string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.entries = append(t.entries, StepRecord{
		Step:      step,
		Timestamp: time.Now(),
		Input:     input,
		Output:    output,
	})
}

// Entries returns a copy of the recorded steps in append order.
func (t *Transcript) Entries() []StepRecord {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]StepRecord, len(t.entries))
	copy(out, t.entries)
	return out
}

// Len returns the number of recorded steps.
func (t *Transcript) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.entries)
}
