package chatRepo

import (
	"time"

	"blaccbook/models"
)

// ChatRepository defines persistence operations for conversations and their
// messages.
type ChatRepository interface {
	// EnsureConversation upserts the conversation by its deterministic ID
	// and returns the stored document. Concurrent calls from both
	// participants converge on one document.
	EnsureConversation(conv *models.Conversation) (*models.Conversation, error)
	GetConversation(id string) (*models.Conversation, error)
	ListByParticipant(userID string) ([]models.Conversation, error)
	AppendMessage(msg *models.Message) error
	ListMessages(conversationID string, limit int64) ([]models.Message, error)
	// RecordSend updates the conversation preview and atomically bumps the
	// recipient's unread counter.
	RecordSend(conversationID, preview, recipientID string, at time.Time) error
	// ResetUnread zeroes one participant's unread counter.
	ResetUnread(conversationID, userID string) error
	// Clear deletes every message in the conversation and resets the
	// preview and all unread counters.
	Clear(conversationID string, participants []string) error
}
