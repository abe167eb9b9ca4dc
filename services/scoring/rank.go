package scoring

import (
	"sort"

	"bookpilot/models"
)

// RankPolicy decides which of a provider's slots become candidates.
type RankPolicy string

const (
	// EarliestSlotOnly scores one candidate per provider (its earliest
	// slot), bounding the candidate set. Default.
	EarliestSlotOnly RankPolicy = "earliest-slot-only"
	// AllSlots scores every (provider, slot) pair.
	AllSlots RankPolicy = "all-slots"
)

// scoreEpsilon: scores this close count as a tie and fall through to
// the deterministic tie-break chain.
const scoreEpsilon = 1e-9

// Rank scores the candidate set under the given policy and returns it
// best-first. The sort is stable, so re-ranking an unchanged set
// reproduces the same order, tie-breaks included.
func (e *Engine) Rank(providers []models.Provider, slots map[string][]models.Slot, prefs models.Preferences, policy RankPolicy) []models.ScoredCandidate {
	var candidates []models.ScoredCandidate
	for _, p := range providers {
		available := slots[p.ID]
		if len(available) == 0 {
			continue
		}
		switch policy {
		case AllSlots:
			for _, s := range available {
				candidates = append(candidates, e.Score(p, s, prefs))
			}
		default:
			earliest := available[0]
			for _, s := range available[1:] {
				if s.Start.Before(earliest.Start) {
					earliest = s
				}
			}
			candidates = append(candidates, e.Score(p, earliest, prefs))
		}
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return Better(candidates[i], candidates[j])
	})
	return candidates
}

// Better reports whether a ranks ahead of b. Equal scores (within
// epsilon) break by higher rating, then shorter distance, then lexical
// provider ID for determinism.
func Better(a, b models.ScoredCandidate) bool {
	diff := a.Score - b.Score
	if diff > scoreEpsilon {
		return true
	}
	if diff < -scoreEpsilon {
		return false
	}
	if a.Provider.Rating != b.Provider.Rating {
		return a.Provider.Rating > b.Provider.Rating
	}
	if a.Provider.DistanceKm != b.Provider.DistanceKm {
		return a.Provider.DistanceKm < b.Provider.DistanceKm
	}
	return a.Provider.ID < b.Provider.ID
}
