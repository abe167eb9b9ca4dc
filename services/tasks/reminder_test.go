package tasks

import (
	"encoding/json"
	"testing"
	"time"

	"bookpilot/models"

	"go.uber.org/zap"
)

func TestNewReminderTaskPayload(t *testing.T) {
	payload := models.ReminderPayload{
		ConfirmationID: "conf-1",
		ProviderName:   "Herzzentrum Mitte",
		Title:          "Upcoming cardiology appointment",
	}

	task, opts, err := NewReminderTask(payload, time.Now().Add(time.Hour))
	if err != nil {
		t.Fatalf("NewReminderTask: %v", err)
	}
	if task.Type() != TypeSendReminder {
		t.Fatalf("task type = %q, want %q", task.Type(), TypeSendReminder)
	}
	if len(opts) == 0 {
		t.Fatal("task carries no scheduling option")
	}

	var decoded models.ReminderPayload
	if err := json.Unmarshal(task.Payload(), &decoded); err != nil {
		t.Fatalf("decode payload: %v", err)
	}
	if decoded.ConfirmationID != payload.ConfirmationID || decoded.ProviderName != payload.ProviderName {
		t.Fatalf("payload round-trip lost data: %+v", decoded)
	}
}

func TestScheduleWithoutQueueIsNoOp(t *testing.T) {
	s := &ReminderScheduler{Logger: zap.NewNop()}

	// Must not panic with no queue client configured.
	s.Schedule(models.BookingResult{
		Outcome: models.OutcomeStubbed,
		Slot:    models.Slot{Start: time.Now().Add(2 * time.Hour)},
	})
}

func TestScheduleSkipsFailedOutcome(t *testing.T) {
	s := &ReminderScheduler{Logger: zap.NewNop()}
	s.Schedule(models.BookingResult{Outcome: models.OutcomeFailed})
}
