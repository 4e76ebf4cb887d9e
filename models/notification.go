package models

import "time"

// Notification types.
const (
	NotificationTypeBooking          = "booking"
	NotificationTypeBookingCancelled = "booking_cancelled"
	NotificationTypeChat             = "chat"
	NotificationTypeCall             = "call"
	NotificationTypeCallSummary      = "call_summary"
	NotificationTypeSystem           = "system"
)

// Notification is a record consumed by the notification center. Exactly one
// of the foreign keys is set, matching Type.
type Notification struct {
	ID             string    `bson:"id" json:"id"`
	UserID         string    `bson:"user_id" json:"userId"` // recipient
	Title          string    `bson:"title" json:"title"`
	Message        string    `bson:"message" json:"message"`
	Type           string    `bson:"type" json:"type"`
	BookingID      string    `bson:"booking_id,omitempty" json:"bookingId,omitempty"`
	ConversationID string    `bson:"conversation_id,omitempty" json:"conversationId,omitempty"`
	CallID         string    `bson:"call_id,omitempty" json:"callId,omitempty"`
	Read           bool      `bson:"read" json:"read"`
	CreatedAt      time.Time `bson:"created_at" json:"createdAt"`
}
