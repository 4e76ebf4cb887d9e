package notification

import (
	"context"

	"blaccbook/models"
)

// NotificationService persists notification records and delivers best-effort
// FCM pushes. The record write is the source of truth; a failed push is only
// logged.
type NotificationService interface {
	// Dispatch persists the record and then attempts a push.
	Dispatch(ctx context.Context, n *models.Notification) error
	// Push sends the FCM message only, for callers that already persisted
	// the record (e.g. inside a transaction).
	Push(ctx context.Context, n *models.Notification)
	List(ctx context.Context, userID string, limit int64) ([]models.Notification, error)
	MarkRead(ctx context.Context, id, userID string) error
	MarkAllRead(ctx context.Context, userID string) error
	UnreadCount(ctx context.Context, userID string) (int64, error)
}
