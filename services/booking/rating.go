package booking

import (
	"context"

	"blaccbook/models"
	"blaccbook/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// RateBooking records a one-time star rating for a completed booking and
// folds it into the service's running average. The is_rated flip is a
// compare-and-set, so a double submit cannot count the review twice.
func (s *DefaultBookingService) RateBooking(ctx context.Context, bookingID, userID string, req RateBookingRequest) error {
	if req.Rating < 1 || req.Rating > 5 {
		return utils.ValidationError{Message: "rating must be between 1 and 5"}
	}

	b, err := s.Bookings.GetByID(bookingID)
	if err != nil {
		return utils.PersistenceError{Message: "failed to load booking", Err: err}
	}
	if b == nil {
		return utils.NotFoundError{Message: "booking not found"}
	}
	if b.UserID != userID {
		return utils.PermissionError{Message: "only the booking's customer can rate it"}
	}
	if b.Status != models.BookingStatusCompleted {
		return utils.StateError{Message: "only completed bookings can be rated"}
	}
	if b.IsRated {
		return utils.StateError{Message: "this booking has already been rated"}
	}

	won, err := s.Bookings.MarkRated(b.ID)
	if err != nil {
		return utils.PersistenceError{Message: "failed to record rating", Err: err}
	}
	if !won {
		return utils.StateError{Message: "this booking has already been rated"}
	}

	review := &models.Review{
		ID:         uuid.New().String(),
		BookingID:  b.ID,
		ServiceID:  b.ServiceID,
		ProviderID: b.ProviderID,
		UserID:     userID,
		Rating:     req.Rating,
		Comment:    req.Comment,
	}
	if err := s.Reviews.Create(review); err != nil {
		return utils.PersistenceError{Message: "failed to record rating", Err: err}
	}

	if err := s.Services.ApplyRating(b.ServiceID, req.Rating); err != nil {
		utils.GetLogger().Error("Failed to fold rating into service average",
			zap.String("serviceID", b.ServiceID), zap.Error(err))
		return utils.PersistenceError{Message: "failed to record rating", Err: err}
	}
	return nil
}
