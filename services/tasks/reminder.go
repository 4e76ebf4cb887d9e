// Package tasks defines background task payloads and the scheduler that
// enqueues them onto the asynq reminder queue.
package tasks

import (
	"encoding/json"
	"fmt"
	"time"

	"blaccbook/models"
	"blaccbook/utils"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

// TypeBookingReminder identifies the booking reminder task.
const TypeBookingReminder = "booking:reminder"

// ReminderLeadTime is how long before the slot the reminder fires.
const ReminderLeadTime = time.Hour

// BookingReminderPayload is the serialized body of a reminder task.
type BookingReminderPayload struct {
	BookingID    string `json:"bookingId"`
	UserID       string `json:"userId"`
	ServiceTitle string `json:"serviceTitle"`
	Date         string `json:"date"`
	Time         string `json:"time"`
}

// NewBookingReminderTask builds the asynq task for a booking reminder.
func NewBookingReminderTask(payload BookingReminderPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal reminder payload: %w", err)
	}
	return asynq.NewTask(TypeBookingReminder, data, asynq.MaxRetry(3)), nil
}

// ReminderScheduler enqueues delayed booking reminders.
type ReminderScheduler interface {
	// ScheduleBookingReminder enqueues a reminder to fire one hour before
	// slotStart. Reminders whose fire time is already past are skipped.
	ScheduleBookingReminder(b *models.Booking, serviceTitle string, slotStart time.Time) error
}

// AsynqScheduler implements ReminderScheduler on an asynq client.
type AsynqScheduler struct {
	Client *asynq.Client
}

func NewAsynqScheduler(client *asynq.Client) *AsynqScheduler {
	return &AsynqScheduler{Client: client}
}

func (s *AsynqScheduler) ScheduleBookingReminder(b *models.Booking, serviceTitle string, slotStart time.Time) error {
	fireAt := slotStart.Add(-ReminderLeadTime)
	if fireAt.Before(time.Now()) {
		utils.GetLogger().Info("skipping reminder for imminent booking",
			zap.String("bookingID", b.ID), zap.Time("slotStart", slotStart))
		return nil
	}

	task, err := NewBookingReminderTask(BookingReminderPayload{
		BookingID:    b.ID,
		UserID:       b.UserID,
		ServiceTitle: serviceTitle,
		Date:         b.Date,
		Time:         b.Time,
	})
	if err != nil {
		return err
	}

	info, err := s.Client.Enqueue(task, asynq.ProcessAt(fireAt), asynq.Queue("reminders"))
	if err != nil {
		return fmt.Errorf("failed to enqueue booking reminder: %w", err)
	}
	utils.GetLogger().Info("scheduled booking reminder",
		zap.String("bookingID", b.ID), zap.String("taskID", info.ID), zap.Time("fireAt", fireAt))
	return nil
}
