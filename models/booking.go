package models

import "time"

// BookingOutcome is the terminal kind of a booking attempt.
type BookingOutcome string

const (
	OutcomeBooked  BookingOutcome = "booked"
	OutcomeStubbed BookingOutcome = "stubbed"
	OutcomeFailed  BookingOutcome = "failed"
)

// BookingResult is the single result of a completed or failed request.
// ConfirmationID is present unless the outcome is failed.
type BookingResult struct {
	Outcome        BookingOutcome `bson:"outcome" json:"outcome"`
	ConfirmationID string         `bson:"confirmationId,omitempty" json:"confirmationId,omitempty"`
	BookedAt       time.Time      `bson:"bookedAt" json:"bookedAt"`
	Provider       Provider       `bson:"provider" json:"provider"`
	Slot           Slot           `bson:"slot" json:"slot"`
}

// BookingRecord is the archived form of a finished request, persisted by
// the optional records repository. The core itself stays stateless.
type BookingRecord struct {
	RequestID   string        `bson:"requestId" json:"requestId"`
	Specialty   string        `bson:"specialty" json:"specialty"`
	Result      BookingResult `bson:"result" json:"result"`
	Transcript  []StepRecord  `bson:"transcript" json:"transcript"`
	CompletedAt time.Time     `bson:"completedAt" json:"completedAt"`
}

// ReminderPayload is the asynq task body for an appointment reminder.
type ReminderPayload struct {
	ConfirmationID string `json:"confirmationId"`
	ProviderName   string `json:"providerName"`
	Address        string `json:"address,omitempty"`
	FireDate       string `json:"fireDate"`
	Title          string `json:"title"`
	Body           string `json:"body"`
}
