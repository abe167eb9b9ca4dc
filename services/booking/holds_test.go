package booking

import "testing"

func TestSlotHolds(t *testing.T) {
	holds := newSlotHolds()

	if !holds.acquire("p1@2026-03-02T09:00:00Z") {
		t.Fatal("first acquire failed")
	}
	if holds.acquire("p1@2026-03-02T09:00:00Z") {
		t.Fatal("second acquire of a held slot succeeded")
	}
	if !holds.acquire("p2@2026-03-02T09:00:00Z") {
		t.Fatal("acquire of a different slot failed while another is held")
	}

	holds.release("p1@2026-03-02T09:00:00Z")
	if !holds.acquire("p1@2026-03-02T09:00:00Z") {
		t.Fatal("acquire after release failed")
	}
}
