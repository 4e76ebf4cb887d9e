package chat

import (
	"context"
	"io"
	"time"

	chatRepo "blaccbook/database/repository/chat"
	"blaccbook/models"
	"blaccbook/services/notification"
	"blaccbook/services/storage"
	"blaccbook/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const attachmentFolder = "chat_images"

// DefaultChatService is the production implementation of ChatService.
type DefaultChatService struct {
	Repo     chatRepo.ChatRepository
	Notifier notification.NotificationService
	Storage  storage.StorageService

	// Clock returns the current time; overridable in tests.
	Clock func() time.Time
}

func (s *DefaultChatService) now() time.Time {
	if s.Clock != nil {
		return s.Clock()
	}
	return time.Now()
}

// PairKey derives the deterministic conversation ID for an unordered user
// pair. Both orderings of the same pair yield the same key.
func PairKey(a, b string) string {
	if a > b {
		a, b = b, a
	}
	return a + ":" + b
}

// GetOrCreateConversation upserts the pair's conversation. Concurrent first
// messages from both sides land in the same document.
func (s *DefaultChatService) GetOrCreateConversation(ctx context.Context, userID, otherID string) (*models.Conversation, error) {
	if otherID == "" {
		return nil, utils.ValidationError{Message: "a chat partner is required"}
	}
	if otherID == userID {
		return nil, utils.ValidationError{Message: "you cannot chat with yourself"}
	}

	conv := &models.Conversation{
		ID:           PairKey(userID, otherID),
		Participants: []string{userID, otherID},
		UnreadCount:  map[string]int{userID: 0, otherID: 0},
		CreatedAt:    s.now(),
	}
	stored, err := s.Repo.EnsureConversation(conv)
	if err != nil {
		return nil, utils.PersistenceError{Message: "failed to open conversation", Err: err}
	}
	return stored, nil
}

// ListConversations returns the user's conversations, most recently active
// first.
func (s *DefaultChatService) ListConversations(ctx context.Context, userID string) ([]models.Conversation, error) {
	convs, err := s.Repo.ListByParticipant(userID)
	if err != nil {
		return nil, utils.PersistenceError{Message: "failed to list conversations", Err: err}
	}
	return convs, nil
}

// SendMessage appends a message, updates the conversation preview, bumps the
// recipient's unread counter, and notifies the recipient. Image messages show
// a camera placeholder as the preview instead of the URL.
func (s *DefaultChatService) SendMessage(ctx context.Context, conversationID, senderID string, req SendMessageRequest) (*models.Message, error) {
	if req.Content == "" {
		return nil, utils.ValidationError{Message: "message content is required"}
	}
	msgType := req.Type
	if msgType == "" {
		msgType = models.MessageTypeText
	}
	if msgType != models.MessageTypeText && msgType != models.MessageTypeImage {
		return nil, utils.ValidationError{Message: "unknown message type"}
	}

	conv, err := s.load(conversationID, senderID)
	if err != nil {
		return nil, err
	}

	msg := &models.Message{
		ID:             uuid.New().String(),
		ConversationID: conv.ID,
		SenderID:       senderID,
		Content:        req.Content,
		Type:           msgType,
		Timestamp:      s.now(),
	}
	if err := s.Repo.AppendMessage(msg); err != nil {
		return nil, utils.PersistenceError{Message: "failed to send message", Err: err}
	}

	preview := msg.Content
	if msgType == models.MessageTypeImage {
		preview = models.ImagePreview
	}
	recipientID := conv.Other(senderID)
	if err := s.Repo.RecordSend(conv.ID, preview, recipientID, msg.Timestamp); err != nil {
		return nil, utils.PersistenceError{Message: "failed to send message", Err: err}
	}

	notif := &models.Notification{
		UserID:         recipientID,
		Title:          "New message",
		Message:        preview,
		Type:           models.NotificationTypeChat,
		ConversationID: conv.ID,
	}
	if err := s.Notifier.Dispatch(ctx, notif); err != nil {
		utils.GetLogger().Error("Failed to dispatch chat notification",
			zap.String("conversationID", conv.ID), zap.Error(err))
	}
	return msg, nil
}

// ListMessages returns a conversation's messages, restricted to participants.
func (s *DefaultChatService) ListMessages(ctx context.Context, conversationID, userID string, limit int64) ([]models.Message, error) {
	if _, err := s.load(conversationID, userID); err != nil {
		return nil, err
	}
	msgs, err := s.Repo.ListMessages(conversationID, limit)
	if err != nil {
		return nil, utils.PersistenceError{Message: "failed to list messages", Err: err}
	}
	return msgs, nil
}

// MarkRead zeroes the reader's unread counter. The other participant's
// counter is untouched.
func (s *DefaultChatService) MarkRead(ctx context.Context, conversationID, userID string) error {
	if _, err := s.load(conversationID, userID); err != nil {
		return err
	}
	if err := s.Repo.ResetUnread(conversationID, userID); err != nil {
		return utils.PersistenceError{Message: "failed to mark conversation read", Err: err}
	}
	return nil
}

// ClearChat deletes the conversation's messages and resets its preview and
// unread counters for both participants.
func (s *DefaultChatService) ClearChat(ctx context.Context, conversationID, userID string) error {
	conv, err := s.load(conversationID, userID)
	if err != nil {
		return err
	}
	if err := s.Repo.Clear(conv.ID, conv.Participants); err != nil {
		return utils.PersistenceError{Message: "failed to clear chat", Err: err}
	}
	return nil
}

// UploadAttachment stores a chat image and returns its delivery URL.
func (s *DefaultChatService) UploadAttachment(ctx context.Context, file io.Reader) (string, error) {
	url, err := s.Storage.UploadFile(ctx, file, attachmentFolder)
	if err != nil {
		return "", utils.PersistenceError{Message: "failed to upload attachment", Err: err}
	}
	return url, nil
}

func (s *DefaultChatService) load(conversationID, userID string) (*models.Conversation, error) {
	conv, err := s.Repo.GetConversation(conversationID)
	if err != nil {
		return nil, utils.PersistenceError{Message: "failed to load conversation", Err: err}
	}
	if conv == nil {
		return nil, utils.NotFoundError{Message: "conversation not found"}
	}
	participant := false
	for _, p := range conv.Participants {
		if p == userID {
			participant = true
			break
		}
	}
	if !participant {
		return nil, utils.PermissionError{Message: "you are not part of this conversation"}
	}
	return conv, nil
}
