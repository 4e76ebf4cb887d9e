package chat

import (
	"context"
	"io"

	"blaccbook/models"
)

// SendMessageRequest is the input for a new chat message. For image messages
// the handler uploads the attachment first and passes its URL as Content.
type SendMessageRequest struct {
	Content string `json:"content" binding:"required"`
	Type    string `json:"type"` // defaults to text
}

// ChatService manages one-to-one conversations, their messages, and per
// participant unread counters.
type ChatService interface {
	// GetOrCreateConversation returns the single conversation for the
	// user pair, creating it on first contact.
	GetOrCreateConversation(ctx context.Context, userID, otherID string) (*models.Conversation, error)
	ListConversations(ctx context.Context, userID string) ([]models.Conversation, error)
	SendMessage(ctx context.Context, conversationID, senderID string, req SendMessageRequest) (*models.Message, error)
	ListMessages(ctx context.Context, conversationID, userID string, limit int64) ([]models.Message, error)
	// MarkRead zeroes the reader's own unread counter only.
	MarkRead(ctx context.Context, conversationID, userID string) error
	// ClearChat deletes every message and resets the conversation.
	ClearChat(ctx context.Context, conversationID, userID string) error
	// UploadAttachment stores a chat image and returns its URL.
	UploadAttachment(ctx context.Context, file io.Reader) (string, error)
}
