package models

// FactorContribution explains one scoring factor: its raw value, the
// normalized [0,1] value, the configured weight, and the resulting
// contribution (normalized * weight).
type FactorContribution struct {
	Factor       string  `json:"factor"`
	Raw          float64 `json:"raw"`
	Normalized   float64 `json:"normalized"`
	Weight       float64 `json:"weight"`
	Contribution float64 `json:"contribution"`
}

// ScoredCandidate pairs a provider and slot with a reproducible score.
// The explanation lists each factor in a fixed order so audits read the
// same way every run.
type ScoredCandidate struct {
	Provider    Provider             `json:"provider"`
	Slot        Slot                 `json:"slot"`
	Score       float64              `json:"score"`
	Explanation []FactorContribution `json:"explanation"`
}
