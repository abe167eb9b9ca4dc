package booking

import "sync"

// slotHolds is an in-process optimistic hold registry. Acquiring a hold
// on a slot prevents a concurrent request from selecting the same slot
// while a booking attempt is in flight.
type slotHolds struct {
	mu   sync.Mutex
	held map[string]bool
}

func newSlotHolds() *slotHolds {
	return &slotHolds{held: make(map[string]bool)}
}

// acquire takes the hold for a slot key; false when already held.
func (h *slotHolds) acquire(key string) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.held[key] {
		return false
	}
	h.held[key] = true
	return true
}

func (h *slotHolds) release(key string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.held, key)
}
