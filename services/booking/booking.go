package booking

import (
	"context"
	"fmt"
	"time"

	bookingRepo "blaccbook/database/repository/booking"
	promoRepo "blaccbook/database/repository/promo"
	reviewRepo "blaccbook/database/repository/review"
	serviceRepo "blaccbook/database/repository/service"
	"blaccbook/models"
	"blaccbook/services/availability"
	"blaccbook/services/notification"
	"blaccbook/services/tasks"
	"blaccbook/utils"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// DefaultBookingService is the production implementation of BookingService.
type DefaultBookingService struct {
	Bookings  bookingRepo.BookingRepository
	Services  serviceRepo.ServiceRepository
	Promos    promoRepo.PromoRepository
	Reviews   reviewRepo.ReviewRepository
	Notifier  notification.NotificationService
	Payments  PaymentProcessor
	Scheduler tasks.ReminderScheduler
	// Cache holds validated promo codes; nil disables caching.
	Cache *redis.Client

	// Clock returns the current time; overridable in tests.
	Clock func() time.Time
	// Location is the timezone bookings are interpreted in.
	Location *time.Location
}

func (s *DefaultBookingService) now() time.Time {
	if s.Clock != nil {
		return s.Clock()
	}
	return time.Now()
}

func (s *DefaultBookingService) loc() *time.Location {
	if s.Location != nil {
		return s.Location
	}
	return time.Local
}

// slotStart resolves a booking's date and slot label into an absolute instant.
func (s *DefaultBookingService) slotStart(date, slot string) (time.Time, error) {
	layout := models.BookingDateFormat + " " + models.SlotLabelFormat
	return time.ParseInLocation(layout, date+" "+slot, s.loc())
}

// CreateBooking validates the requested slot against the provider's
// availability, prices the booking (applying any promo discount), and writes
// the booking together with the provider's notification in one transaction.
// The push and the reminder enqueue happen after the transaction commits.
func (s *DefaultBookingService) CreateBooking(ctx context.Context, userID string, req CreateBookingRequest) (*models.Booking, error) {
	if req.Address == "" {
		return nil, utils.ValidationError{Message: "a service address is required"}
	}
	switch req.PaymentMethod {
	case "card", "cash":
	default:
		return nil, utils.ValidationError{Message: "payment method must be card or cash"}
	}

	date, err := time.ParseInLocation(models.BookingDateFormat, req.Date, s.loc())
	if err != nil {
		return nil, utils.ValidationError{Message: "invalid booking date, expected YYYY-MM-DD"}
	}

	svc, err := s.Services.GetByID(req.ServiceID)
	if err != nil {
		return nil, utils.PersistenceError{Message: "failed to load service", Err: err}
	}
	if svc == nil {
		return nil, utils.NotFoundError{Message: "service not found"}
	}

	// Same-day slot greying compares calendar fields, so the clock must be
	// read in the same zone the date was parsed in.
	now := s.now().In(s.loc())
	if !s.slotSelectable(svc, date, now, req.Time) {
		return nil, utils.ValidationError{Message: "the selected time slot is not available"}
	}

	booking := &models.Booking{
		ID:            uuid.New().String(),
		UserID:        userID,
		ProviderID:    svc.ProviderID,
		ServiceID:     svc.ID,
		Date:          req.Date,
		Time:          req.Time,
		BasePrice:     svc.Price,
		Address:       req.Address,
		Notes:         req.Notes,
		PaymentMethod: req.PaymentMethod,
		Status:        models.BookingStatusPending,
		CreatedAt:     now,
	}

	if req.PromoCode != "" {
		promo, err := s.ApplyPromoCode(ctx, req.PromoCode)
		if err != nil {
			return nil, err
		}
		booking.PromoCode = promo.Code
		booking.Discount = promo.DiscountPercentage
	}
	booking.TotalPrice = booking.BasePrice * (1 - booking.Discount/100)

	if req.PaymentMethod == "card" {
		intentID, err := s.Payments.CreatePaymentIntent(booking.TotalPrice, booking.ID)
		if err != nil {
			utils.GetLogger().Error("Failed to create payment intent",
				zap.String("bookingID", booking.ID), zap.Error(err))
			return nil, utils.PersistenceError{Message: "payment setup failed", Err: err}
		}
		booking.PaymentIntentID = intentID
	}

	notif := &models.Notification{
		ID:        uuid.New().String(),
		UserID:    svc.ProviderID,
		Title:     "New booking request",
		Message:   fmt.Sprintf("You have a new booking for %s on %s at %s", svc.Title, booking.Date, booking.Time),
		Type:      models.NotificationTypeBooking,
		BookingID: booking.ID,
		CreatedAt: now,
	}

	if err := s.Bookings.CreateWithNotification(booking, notif); err != nil {
		return nil, utils.PersistenceError{Message: "failed to create booking", Err: err}
	}

	s.Notifier.Push(ctx, notif)

	if s.Scheduler != nil {
		start, err := s.slotStart(booking.Date, booking.Time)
		if err == nil {
			if err := s.Scheduler.ScheduleBookingReminder(booking, svc.Title, start); err != nil {
				utils.GetLogger().Error("Failed to schedule booking reminder",
					zap.String("bookingID", booking.ID), zap.Error(err))
			}
		}
	}

	return booking, nil
}

// GetAvailableSlots lists the service's slots for one date. An empty list
// means the provider does not work that day.
func (s *DefaultBookingService) GetAvailableSlots(ctx context.Context, serviceID, date string) ([]availability.Slot, error) {
	day, err := time.ParseInLocation(models.BookingDateFormat, date, s.loc())
	if err != nil {
		return nil, utils.ValidationError{Message: "invalid date, expected YYYY-MM-DD"}
	}
	svc, err := s.Services.GetByID(serviceID)
	if err != nil {
		return nil, utils.PersistenceError{Message: "failed to load service", Err: err}
	}
	if svc == nil {
		return nil, utils.NotFoundError{Message: "service not found"}
	}
	return availability.ForService(svc, day, s.now().In(s.loc())), nil
}

func (s *DefaultBookingService) slotSelectable(svc *models.Service, date, now time.Time, label string) bool {
	for _, slot := range availability.ForService(svc, date, now) {
		if slot.Label == label {
			return slot.Selectable
		}
	}
	return false
}

// GetBooking fetches one booking, restricted to its customer or provider.
func (s *DefaultBookingService) GetBooking(ctx context.Context, bookingID, userID string) (*models.Booking, error) {
	b, err := s.Bookings.GetByID(bookingID)
	if err != nil {
		return nil, utils.PersistenceError{Message: "failed to load booking", Err: err}
	}
	if b == nil {
		return nil, utils.NotFoundError{Message: "booking not found"}
	}
	if b.UserID != userID && b.ProviderID != userID {
		return nil, utils.PermissionError{Message: "you do not have access to this booking"}
	}
	return b, nil
}

// ListBookings returns the user's bookings for a UI tab.
func (s *DefaultBookingService) ListBookings(ctx context.Context, userID, tab string) ([]models.Booking, error) {
	var statuses []string
	switch tab {
	case "upcoming":
		statuses = []string{models.BookingStatusPending, models.BookingStatusConfirmed}
	case "completed":
		statuses = []string{models.BookingStatusCompleted}
	case "cancelled":
		statuses = []string{models.BookingStatusCancelled}
	case "":
	default:
		return nil, utils.ValidationError{Message: "unknown bookings tab"}
	}

	bookings, err := s.Bookings.ListByUser(userID, statuses)
	if err != nil {
		return nil, utils.PersistenceError{Message: "failed to list bookings", Err: err}
	}
	return bookings, nil
}

// CancelBooking cancels a pending or confirmed booking whose slot is still in
// the future. A cancellation reason is required, and the provider gets
// notified.
func (s *DefaultBookingService) CancelBooking(ctx context.Context, bookingID, userID, reason string) (*models.Booking, error) {
	if reason == "" {
		return nil, utils.ValidationError{Message: "a cancellation reason is required"}
	}

	b, err := s.GetBooking(ctx, bookingID, userID)
	if err != nil {
		return nil, err
	}

	switch b.Status {
	case models.BookingStatusPending, models.BookingStatusConfirmed:
	case models.BookingStatusCancelled:
		return nil, utils.StateError{Message: "booking is already cancelled"}
	default:
		return nil, utils.StateError{Message: "only pending or confirmed bookings can be cancelled"}
	}

	start, err := s.slotStart(b.Date, b.Time)
	if err != nil {
		utils.GetLogger().Error("Booking has an unparseable slot",
			zap.String("bookingID", b.ID), zap.Error(err))
		return nil, utils.PersistenceError{Message: "failed to cancel booking", Err: err}
	}
	now := s.now()
	if !start.After(now) {
		return nil, utils.StateError{Message: "past bookings cannot be cancelled"}
	}

	if err := s.Bookings.Cancel(b.ID, reason, userID, now); err != nil {
		return nil, utils.PersistenceError{Message: "failed to cancel booking", Err: err}
	}
	b.Status = models.BookingStatusCancelled
	b.CancellationReason = reason
	b.CancelledBy = userID
	b.CancelledAt = &now

	recipient := b.ProviderID
	if userID == b.ProviderID {
		recipient = b.UserID
	}
	notif := &models.Notification{
		UserID:    recipient,
		Title:     "Booking cancelled",
		Message:   fmt.Sprintf("The booking on %s at %s was cancelled: %s", b.Date, b.Time, reason),
		Type:      models.NotificationTypeBookingCancelled,
		BookingID: b.ID,
	}
	if err := s.Notifier.Dispatch(ctx, notif); err != nil {
		utils.GetLogger().Error("Failed to dispatch cancellation notification",
			zap.String("bookingID", b.ID), zap.Error(err))
	}

	return b, nil
}
