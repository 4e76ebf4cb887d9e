package models

import "time"

// Call statuses. "ringing" and "active" are live; "ended" and "declined" are
// terminal.
const (
	CallStatusRinging  = "ringing"
	CallStatusActive   = "active"
	CallStatusEnded    = "ended"
	CallStatusDeclined = "declined"
)

// Call is the shared record both peers of a voice call observe. Duration is
// non-zero only if the call reached "active" before ending; IsMissed is true
// iff the call was still ringing when it ended.
type Call struct {
	ID          string     `bson:"id" json:"id"`
	CallerID    string     `bson:"caller_id" json:"callerId"`
	RecipientID string     `bson:"recipient_id" json:"recipientId"`
	Status      string     `bson:"status" json:"status"`
	StartTime   time.Time  `bson:"start_time" json:"startTime"`
	AcceptedAt  *time.Time `bson:"accepted_at,omitempty" json:"acceptedAt,omitempty"`
	EndTime     *time.Time `bson:"end_time,omitempty" json:"endTime,omitempty"`
	Duration    int        `bson:"duration" json:"duration"` // seconds
	IsMissed    bool       `bson:"is_missed" json:"isMissed"`
	IsVideoCall bool       `bson:"is_video_call" json:"isVideoCall"`
}

// Terminal reports whether the call has reached a final state.
func (c *Call) Terminal() bool {
	return c.Status == CallStatusEnded || c.Status == CallStatusDeclined
}

// Peer returns the other party of the call relative to userID.
func (c *Call) Peer(userID string) string {
	if userID == c.CallerID {
		return c.RecipientID
	}
	return c.CallerID
}
