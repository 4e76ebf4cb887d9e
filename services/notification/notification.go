package notification

import (
	"context"
	"time"

	notificationRepo "blaccbook/database/repository/notification"
	userRepo "blaccbook/database/repository/user"
	"blaccbook/models"
	"blaccbook/utils"

	"firebase.google.com/go/v4/messaging"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"
)

// DefaultNotificationService is the production implementation. FCM may be nil
// (push delivery disabled); records are still written.
type DefaultNotificationService struct {
	Repo  notificationRepo.NotificationRepository
	Users userRepo.UserRepository
	FCM   *messaging.Client
}

// Dispatch persists the notification record and attempts a best-effort push.
func (s *DefaultNotificationService) Dispatch(ctx context.Context, n *models.Notification) error {
	if n.ID == "" {
		n.ID = uuid.New().String()
	}
	if n.CreatedAt.IsZero() {
		n.CreatedAt = time.Now()
	}
	if err := s.Repo.Create(n); err != nil {
		return utils.PersistenceError{Message: "failed to store notification", Err: err}
	}
	s.Push(ctx, n)
	return nil
}

// Push looks up the recipient's FCM token and sends the push. Failures are
// logged, never surfaced.
func (s *DefaultNotificationService) Push(ctx context.Context, n *models.Notification) {
	if s.FCM == nil {
		return
	}
	logger := utils.GetLogger()

	u, err := s.Users.GetByIDWithProjection(n.UserID, bson.M{"fcm_token": 1})
	if err != nil || u == nil || u.FCMToken == "" {
		logger.Debug("push skipped, no FCM token",
			zap.String("userID", n.UserID), zap.Error(err))
		return
	}

	data := map[string]string{"type": n.Type}
	switch {
	case n.BookingID != "":
		data["bookingId"] = n.BookingID
	case n.ConversationID != "":
		data["conversationId"] = n.ConversationID
	case n.CallID != "":
		data["callId"] = n.CallID
	}

	msg := &messaging.Message{
		Token: u.FCMToken,
		Notification: &messaging.Notification{
			Title: n.Title,
			Body:  n.Message,
		},
		Data: data,
	}
	if n.Type == models.NotificationTypeCall {
		msg.Android = &messaging.AndroidConfig{
			Priority: "high",
			Notification: &messaging.AndroidNotification{
				ChannelID: "high_priority",
				Sound:     "default",
			},
		}
		msg.APNS = &messaging.APNSConfig{
			Headers: map[string]string{
				"apns-priority":  "10",
				"apns-push-type": "alert",
			},
			Payload: &messaging.APNSPayload{
				Aps: &messaging.Aps{Sound: "default"},
			},
		}
	}

	if _, err := s.FCM.Send(ctx, msg); err != nil {
		logger.Warn("failed to send FCM push",
			zap.String("userID", n.UserID), zap.String("type", n.Type), zap.Error(err))
	}
}

// List returns a recipient's notifications, newest first.
func (s *DefaultNotificationService) List(ctx context.Context, userID string, limit int64) ([]models.Notification, error) {
	notifications, err := s.Repo.ListByUser(userID, limit)
	if err != nil {
		return nil, utils.PersistenceError{Message: "failed to list notifications", Err: err}
	}
	return notifications, nil
}

// MarkRead marks one notification read.
func (s *DefaultNotificationService) MarkRead(ctx context.Context, id, userID string) error {
	if err := s.Repo.MarkRead(id, userID); err != nil {
		return utils.PersistenceError{Message: "failed to mark notification read", Err: err}
	}
	return nil
}

// MarkAllRead marks all of the user's notifications read.
func (s *DefaultNotificationService) MarkAllRead(ctx context.Context, userID string) error {
	if err := s.Repo.MarkAllRead(userID); err != nil {
		return utils.PersistenceError{Message: "failed to mark notifications read", Err: err}
	}
	return nil
}

// UnreadCount counts the user's unread notifications.
func (s *DefaultNotificationService) UnreadCount(ctx context.Context, userID string) (int64, error) {
	count, err := s.Repo.CountUnread(userID)
	if err != nil {
		return 0, utils.PersistenceError{Message: "failed to count unread notifications", Err: err}
	}
	return count, nil
}
