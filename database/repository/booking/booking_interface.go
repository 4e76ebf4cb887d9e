package bookingRepo

import (
	"time"

	"blaccbook/models"
)

// BookingRepository defines persistence operations for bookings.
type BookingRepository interface {
	// CreateWithNotification inserts the booking and its provider
	// notification in one transaction, so neither can be orphaned.
	CreateWithNotification(b *models.Booking, n *models.Notification) error
	GetByID(id string) (*models.Booking, error)
	// ListByUser returns a user's bookings restricted to the given
	// statuses (all statuses when empty), most recent date first.
	ListByUser(userID string, statuses []string) ([]models.Booking, error)
	Cancel(id, reason, cancelledBy string, at time.Time) error
	// MarkRated flips is_rated from false to true and reports whether this
	// call won the flip. A false return means the booking was already
	// rated (or absent).
	MarkRated(id string) (bool, error)
}
