package models

import "time"

// PromoCode unlocks a percentage discount on a single booking. Codes are
// stored uppercase; lookups normalize the same way.
type PromoCode struct {
	ID                 string     `bson:"id" json:"id"`
	Code               string     `bson:"code" json:"code"`
	DiscountPercentage float64    `bson:"discount_percentage" json:"discountPercentage"`
	ExpiryDate         *time.Time `bson:"expiry_date,omitempty" json:"expiryDate,omitempty"`
	CreatedAt          time.Time  `bson:"created_at" json:"createdAt"`
}

// Expired reports whether the code is past its expiry at the given instant.
// Codes without an expiry date never expire.
func (p *PromoCode) Expired(now time.Time) bool {
	return p.ExpiryDate != nil && p.ExpiryDate.Before(now)
}
