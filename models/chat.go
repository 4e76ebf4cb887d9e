package models

import "time"

// Message types.
const (
	MessageTypeText  = "text"
	MessageTypeImage = "image"
)

// ImagePreview is the conversation preview shown for image messages.
const ImagePreview = "📷 Image"

// Conversation is the single chat container for an unordered pair of users.
// Its ID is derived deterministically from the sorted participant pair, so
// concurrent creation from both sides converges on one document.
type Conversation struct {
	ID                   string         `bson:"id" json:"id"`
	Participants         []string       `bson:"participants" json:"participants"`
	LastMessage          string         `bson:"last_message" json:"lastMessage"`
	LastMessageTimestamp time.Time      `bson:"last_message_timestamp" json:"lastMessageTimestamp"`
	UnreadCount          map[string]int `bson:"unread_count" json:"unreadCount"`
	CreatedAt            time.Time      `bson:"created_at" json:"createdAt"`
}

// Other returns the participant that is not userID.
func (c *Conversation) Other(userID string) string {
	for _, p := range c.Participants {
		if p != userID {
			return p
		}
	}
	return ""
}

// Message is a single chat message. Content holds the text body for text
// messages and the uploaded image URL for image messages.
type Message struct {
	ID             string    `bson:"id" json:"id"`
	ConversationID string    `bson:"conversation_id" json:"conversationId"`
	SenderID       string    `bson:"sender_id" json:"senderId"`
	Content        string    `bson:"content" json:"content"`
	Type           string    `bson:"type" json:"type"`
	Timestamp      time.Time `bson:"timestamp" json:"timestamp"`
	Read           bool      `bson:"read" json:"read"`
}
