package models

import "time"

// Review is a star rating (1-5) with an optional comment, tied to one
// completed booking.
type Review struct {
	ID         string    `bson:"id" json:"id"`
	BookingID  string    `bson:"booking_id" json:"bookingId"`
	ServiceID  string    `bson:"service_id" json:"serviceId"`
	ProviderID string    `bson:"provider_id" json:"providerId"`
	UserID     string    `bson:"user_id" json:"userId"`
	Rating     int       `bson:"rating" json:"rating"`
	Comment    string    `bson:"comment,omitempty" json:"comment,omitempty"`
	CreatedAt  time.Time `bson:"created_at" json:"createdAt"`
}
