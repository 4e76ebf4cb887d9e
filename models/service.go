package models

import "time"

// Location is a service's address plus coordinates.
type Location struct {
	Address   string  `bson:"address" json:"address"`
	Latitude  float64 `bson:"latitude" json:"latitude"`
	Longitude float64 `bson:"longitude" json:"longitude"`
}

// Service is a bookable offering published by a provider.
//
// Availability maps a lowercase three-letter weekday key ("mon".."sun") to a
// 12-hour clock window string such as "9:00 AM - 5:00 PM". A missing key means
// the provider does not work that day.
//
// Rating is the running mean of all review ratings; ReviewCount increments
// exactly once per review. Both are only ever updated atomically server-side
// (see the service repository).
type Service struct {
	ID           string            `bson:"id" json:"id"`
	ProviderID   string            `bson:"provider_id" json:"providerId"`
	Title        string            `bson:"title" json:"title"`
	Description  string            `bson:"description" json:"description"`
	Price        float64           `bson:"price" json:"price"`
	Location     Location          `bson:"location" json:"location"`
	Category     string            `bson:"category" json:"category"`
	Images       []string          `bson:"images" json:"images"`
	Rating       float64           `bson:"rating" json:"rating"`
	ReviewCount  int               `bson:"review_count" json:"reviewCount"`
	Availability map[string]string `bson:"availability" json:"availability"`
	Featured     bool              `bson:"featured" json:"featured"`
	CreatedAt    time.Time         `bson:"created_at" json:"createdAt"`
	UpdatedAt    time.Time         `bson:"updated_at" json:"updatedAt"`
}
