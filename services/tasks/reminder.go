package tasks

import (
	"encoding/json"
	"fmt"
	"time"

	"bookpilot/config"
	"bookpilot/models"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

const TypeSendReminder = "reminder:send"

// Appointment reminders fire this long before the slot starts.
const reminderLead = time.Hour

// NewReminderTask builds the asynq task for an appointment reminder.
func NewReminderTask(payload models.ReminderPayload, fireAt time.Time) (*asynq.Task, []asynq.Option, error) {
	b, err := json.Marshal(payload)
	if err != nil {
		return nil, nil, err
	}
	task := asynq.NewTask(TypeSendReminder, b)
	opts := []asynq.Option{asynq.ProcessAt(fireAt)}

	return task, opts, nil
}

// ReminderScheduler enqueues appointment reminders. Nil-safe: without a
// Redis-backed queue, Schedule is a no-op.
type ReminderScheduler struct {
	Client *asynq.Client
	Logger *zap.Logger
}

// NewReminderScheduler returns a scheduler over the reminder queue, or
// one with a nil client when Redis is not configured.
func NewReminderScheduler(logger *zap.Logger) *ReminderScheduler {
	if !config.RedisConfigured() {
		return &ReminderScheduler{Logger: logger}
	}
	client := asynq.NewClient(asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisReminderQueueDB,
	})
	return &ReminderScheduler{Client: client, Logger: logger}
}

// Schedule enqueues a reminder one hour before the booked slot.
// Best-effort: a failed enqueue is logged, never surfaced.
func (s *ReminderScheduler) Schedule(result models.BookingResult) {
	if s.Client == nil || result.Outcome == models.OutcomeFailed {
		return
	}
	fireAt := result.Slot.Start.Add(-reminderLead)
	if fireAt.Before(time.Now()) {
		return
	}

	payload := models.ReminderPayload{
		ConfirmationID: result.ConfirmationID,
		ProviderName:   result.Provider.Name,
		Address:        result.Provider.Address,
		FireDate:       fireAt.Format(time.RFC3339),
		Title:          fmt.Sprintf("Upcoming %s appointment", result.Provider.Specialty),
		Body: fmt.Sprintf("%s at %s", result.Provider.Name,
			result.Slot.Start.Format("Mon Jan 2 15:04")),
	}
	task, opts, err := NewReminderTask(payload, fireAt)
	if err != nil {
		if s.Logger != nil {
			s.Logger.Warn("failed to build reminder task", zap.Error(err))
		}
		return
	}
	if _, err := s.Client.Enqueue(task, opts...); err != nil && s.Logger != nil {
		s.Logger.Warn("failed to enqueue reminder", zap.String("confirmationId", result.ConfirmationID), zap.Error(err))
	}
}
