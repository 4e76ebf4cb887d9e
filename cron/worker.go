// Package cron runs the asynq worker that delivers scheduled booking
// reminders.
package cron

import (
	"context"
	"encoding/json"
	"fmt"

	"blaccbook/config"
	bookingRepo "blaccbook/database/repository/booking"
	"blaccbook/models"
	"blaccbook/services/notification"
	"blaccbook/services/tasks"
	"blaccbook/utils"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

// ReminderWorker consumes reminder tasks from the redis queue.
type ReminderWorker struct {
	server   *asynq.Server
	bookings bookingRepo.BookingRepository
	notifier notification.NotificationService
}

func NewReminderWorker(bookings bookingRepo.BookingRepository, notifier notification.NotificationService) *ReminderWorker {
	redisOpt := asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisReminderQueueDB,
	}
	server := asynq.NewServer(redisOpt, asynq.Config{
		Concurrency: 5,
		Queues:      map[string]int{"reminders": 1},
	})
	return &ReminderWorker{server: server, bookings: bookings, notifier: notifier}
}

// Start runs the worker loop on its own goroutine.
func (w *ReminderWorker) Start() {
	mux := asynq.NewServeMux()
	mux.HandleFunc(tasks.TypeBookingReminder, w.handleBookingReminder)

	go func() {
		if err := w.server.Run(mux); err != nil {
			utils.GetLogger().Error("Reminder worker stopped", zap.Error(err))
		}
	}()
}

// Shutdown drains the worker.
func (w *ReminderWorker) Shutdown() {
	w.server.Shutdown()
}

// handleBookingReminder notifies the customer an hour before their slot,
// unless the booking was cancelled in the meantime.
func (w *ReminderWorker) handleBookingReminder(ctx context.Context, t *asynq.Task) error {
	var payload tasks.BookingReminderPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return fmt.Errorf("failed to unmarshal reminder payload: %w", err)
	}

	booking, err := w.bookings.GetByID(payload.BookingID)
	if err != nil {
		return fmt.Errorf("failed to load booking %s: %w", payload.BookingID, err)
	}
	if booking == nil || booking.Status == models.BookingStatusCancelled {
		utils.GetLogger().Info("skipping reminder for cancelled or missing booking",
			zap.String("bookingID", payload.BookingID))
		return nil
	}

	notif := &models.Notification{
		UserID:    payload.UserID,
		Title:     "Upcoming booking",
		Message:   fmt.Sprintf("Your %s booking is at %s today", payload.ServiceTitle, payload.Time),
		Type:      models.NotificationTypeBooking,
		BookingID: payload.BookingID,
	}
	if err := w.notifier.Dispatch(ctx, notif); err != nil {
		return fmt.Errorf("failed to dispatch reminder: %w", err)
	}
	return nil
}
