package models

import "time"

// Booking statuses.
const (
	BookingStatusPending   = "pending"
	BookingStatusConfirmed = "confirmed"
	BookingStatusCompleted = "completed"
	BookingStatusCancelled = "cancelled"
)

// Date and slot label formats used across bookings and availability.
const (
	BookingDateFormat = "2006-01-02"
	SlotLabelFormat   = "3:04 PM"
)

// Booking is a customer's reservation of a service time slot.
//
// TotalPrice is always BasePrice * (1 - Discount/100). Status starts at
// "pending"; the customer may move it to "cancelled" while the slot is still
// in the future, confirmation/completion happens provider-side. IsRated flips
// to true exactly once, when a review is submitted for a completed booking.
type Booking struct {
	ID                 string     `bson:"id" json:"id"`
	UserID             string     `bson:"user_id" json:"userId"`
	ProviderID         string     `bson:"provider_id" json:"providerId"`
	ServiceID          string     `bson:"service_id" json:"serviceId"`
	Date               string     `bson:"date" json:"date"` // "2006-01-02"
	Time               string     `bson:"time" json:"time"` // slot label, "3:04 PM"
	BasePrice          float64    `bson:"base_price" json:"basePrice"`
	Discount           float64    `bson:"discount" json:"discount"` // percent, 0-100
	TotalPrice         float64    `bson:"total_price" json:"totalPrice"`
	Address            string     `bson:"address" json:"address"`
	Notes              string     `bson:"notes,omitempty" json:"notes,omitempty"`
	PaymentMethod      string     `bson:"payment_method" json:"paymentMethod"`
	PaymentIntentID    string     `bson:"payment_intent_id,omitempty" json:"-"`
	PromoCode          string     `bson:"promo_code,omitempty" json:"promoCode,omitempty"`
	Status             string     `bson:"status" json:"status"`
	IsRated            bool       `bson:"is_rated" json:"isRated"`
	CancellationReason string     `bson:"cancellation_reason,omitempty" json:"cancellationReason,omitempty"`
	CancelledAt        *time.Time `bson:"cancelled_at,omitempty" json:"cancelledAt,omitempty"`
	CancelledBy        string     `bson:"cancelled_by,omitempty" json:"cancelledBy,omitempty"`
	CreatedAt          time.Time  `bson:"created_at" json:"createdAt"`
}
