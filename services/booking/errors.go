package booking

import (
	"errors"
	"fmt"

	"bookpilot/models"
)

// ReasonCode classifies pipeline failures for the caller and the
// transcript's terminal entry.
type ReasonCode string

const (
	ReasonInvalidPreferences    ReasonCode = "invalid-preferences"
	ReasonNoCandidates          ReasonCode = "no-candidates"
	ReasonNoAvailability        ReasonCode = "no-availability"
	ReasonBookingConflict       ReasonCode = "booking-conflict"
	ReasonCapabilityUnavailable ReasonCode = "capability-unavailable"
	ReasonExhaustedCandidates   ReasonCode = "exhausted-candidates"
)

// ErrSlotConflict signals that the selected slot was taken between
// ranking and booking. The orchestrator re-ranks with the slot
// excluded instead of retrying the same slot.
var ErrSlotConflict = errors.New("slot no longer available")

// PipelineError is a terminal pipeline failure. It always carries the
// transcript so the caller can see which providers were tried and why
// each was rejected.
type PipelineError struct {
	Code       ReasonCode
	Message    string
	Transcript []models.StepRecord
}

func (e *PipelineError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// NewPipelineError builds a PipelineError with a transcript snapshot.
func NewPipelineError(code ReasonCode, msg string, transcript []models.StepRecord) *PipelineError {
	return &PipelineError{Code: code, Message: msg, Transcript: transcript}
}

// ReasonOf extracts the reason code from an error, or empty when the
// error is not a pipeline failure.
func ReasonOf(err error) ReasonCode {
	var pe *PipelineError
	if errors.As(err, &pe) {
		return pe.Code
	}
	return ""
}
