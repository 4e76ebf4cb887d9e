package booking

import (
	"context"

	"blaccbook/models"
	"blaccbook/services/availability"
)

// CreateBookingRequest is the customer-side input for a new booking.
type CreateBookingRequest struct {
	ServiceID     string `json:"serviceId" binding:"required"`
	Date          string `json:"date" binding:"required"` // "2006-01-02"
	Time          string `json:"time" binding:"required"` // slot label, "3:04 PM"
	Address       string `json:"address" binding:"required"`
	Notes         string `json:"notes"`
	PaymentMethod string `json:"paymentMethod" binding:"required"`
	PromoCode     string `json:"promoCode"`
}

// RateBookingRequest is the input for rating a completed booking.
type RateBookingRequest struct {
	Rating  int    `json:"rating" binding:"required"`
	Comment string `json:"comment"`
}

// BookingService drives the booking lifecycle from slot selection through
// cancellation and rating.
type BookingService interface {
	CreateBooking(ctx context.Context, userID string, req CreateBookingRequest) (*models.Booking, error)
	GetBooking(ctx context.Context, bookingID, userID string) (*models.Booking, error)
	// ListBookings returns the user's bookings for a tab: "upcoming"
	// (pending and confirmed), "completed", "cancelled", or "" for all.
	ListBookings(ctx context.Context, userID, tab string) ([]models.Booking, error)
	CancelBooking(ctx context.Context, bookingID, userID, reason string) (*models.Booking, error)
	RateBooking(ctx context.Context, bookingID, userID string, req RateBookingRequest) error
	// ApplyPromoCode validates a code and returns its discount percentage.
	ApplyPromoCode(ctx context.Context, code string) (*models.PromoCode, error)
	GetAvailableSlots(ctx context.Context, serviceID, date string) ([]availability.Slot, error)
}
