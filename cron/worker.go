package cron

import (
	"context"
	"encoding/json"

	"bookpilot/config"
	"bookpilot/models"
	"bookpilot/services/tasks"
	"bookpilot/utils"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

// InitReminderWorker runs the async reminder worker in the background.
// Only started when Redis is configured; reminders are a best-effort
// extra on top of the core pipeline.
func InitReminderWorker() {
	if !config.RedisConfigured() {
		return
	}
	logger := utils.GetLogger()

	redisOpts := asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisReminderQueueDB,
	}

	srv := asynq.NewServer(
		redisOpts,
		asynq.Config{
			Concurrency: 10,
			Queues: map[string]int{
				"default": 1,
			},
		},
	)

	mux := asynq.NewServeMux()
	mux.HandleFunc(tasks.TypeSendReminder, handleReminderTask(logger))

	go func() {
		logger.Info("starting reminder worker")
		if err := srv.Run(mux); err != nil {
			logger.Warn("reminder worker stopped", zap.Error(err))
		}
	}()
}

func handleReminderTask(logger *zap.Logger) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		var p models.ReminderPayload
		if err := json.Unmarshal(task.Payload(), &p); err != nil {
			logger.Error("invalid reminder payload", zap.Error(err))
			return err
		}

		// Delivery channel (push, SMS, voice) is a collaborator concern;
		// the worker logs the fired reminder for now.
		logger.Info("appointment reminder fired",
			zap.String("confirmationId", p.ConfirmationID),
			zap.String("provider", p.ProviderName),
			zap.String("fireDate", p.FireDate),
			zap.String("body", p.Body))
		return nil
	}
}
