package scoring

import (
	"strings"

	"bookpilot/models"
)

// Weights is the fixed factor weighting. The four weights sum to 1 so
// the total score lies in [0,1].
type Weights struct {
	Availability float64 `json:"availability"`
	Rating       float64 `json:"rating"`
	Distance     float64 `json:"distance"`
	Preference   float64 `json:"preference"`
}

// DefaultWeights: earliest availability dominates, then rating,
// distance, preference match.
var DefaultWeights = Weights{
	Availability: 0.40,
	Rating:       0.25,
	Distance:     0.20,
	Preference:   0.15,
}

// DefaultDistanceCapKm normalizes distance when the user set no cap.
const DefaultDistanceCapKm = 10.0

// Engine scores (provider, slot, preferences) triples. Pure: no side
// effects, identical inputs always yield identical scores.
type Engine struct {
	Weights       Weights
	DistanceCapKm float64
}

// NewEngine returns an engine with the default weights.
func NewEngine() *Engine {
	return &Engine{Weights: DefaultWeights, DistanceCapKm: DefaultDistanceCapKm}
}

// Score computes the weighted score with a per-factor explanation.
func (e *Engine) Score(provider models.Provider, slot models.Slot, prefs models.Preferences) models.ScoredCandidate {
	factors := []models.FactorContribution{
		e.availabilityFactor(slot, prefs),
		e.ratingFactor(provider),
		e.distanceFactor(provider, prefs),
		e.preferenceFactor(provider, prefs),
	}

	var total float64
	for _, f := range factors {
		total += f.Contribution
	}

	return models.ScoredCandidate{
		Provider:    provider,
		Slot:        slot,
		Score:       total,
		Explanation: factors,
	}
}

// availabilityFactor: earlier slot starts score higher. Raw value is
// the offset from window start in minutes.
func (e *Engine) availabilityFactor(slot models.Slot, prefs models.Preferences) models.FactorContribution {
	window := prefs.TimeWindow.Duration().Minutes()
	offset := slot.Start.Sub(prefs.TimeWindow.Start).Minutes()
	norm := 1.0
	if window > 0 {
		norm = clamp01(1 - offset/window)
	}
	return contribution("earliest_availability", offset, norm, e.Weights.Availability)
}

func (e *Engine) ratingFactor(provider models.Provider) models.FactorContribution {
	norm := clamp01(provider.Rating / 5)
	return contribution("rating", provider.Rating, norm, e.Weights.Rating)
}

// distanceFactor: closer scores higher, normalized against the user's
// max travel distance or the default cap.
func (e *Engine) distanceFactor(provider models.Provider, prefs models.Preferences) models.FactorContribution {
	cap := prefs.MaxDistanceKm
	if cap <= 0 {
		cap = e.DistanceCapKm
	}
	if cap <= 0 {
		cap = DefaultDistanceCapKm
	}
	norm := clamp01(1 - provider.DistanceKm/cap)
	return contribution("distance", provider.DistanceKm, norm, e.Weights.Distance)
}

// preferenceFactor: fraction of applicable preference checks the
// provider satisfies. Specialty is always applicable; insurance and
// language only when the user stated them.
func (e *Engine) preferenceFactor(provider models.Provider, prefs models.Preferences) models.FactorContribution {
	applicable, matched := 1, 0
	if strings.EqualFold(provider.Specialty, prefs.Specialty) {
		matched++
	}
	if prefs.Insurance != "" {
		applicable++
		if provider.AcceptsInsurance(prefs.Insurance) {
			matched++
		}
	}
	if prefs.Language != "" {
		applicable++
		if provider.SpeaksLanguage(prefs.Language) {
			matched++
		}
	}
	norm := float64(matched) / float64(applicable)
	return contribution("preference_match", float64(matched), norm, e.Weights.Preference)
}

func contribution(factor string, raw, norm, weight float64) models.FactorContribution {
	return models.FactorContribution{
		Factor:       factor,
		Raw:          raw,
		Normalized:   norm,
		Weight:       weight,
		Contribution: norm * weight,
	}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
