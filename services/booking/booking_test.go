package booking

import (
	"context"
	"errors"
	"testing"
	"time"

	serviceRepo "blaccbook/database/repository/service"
	"blaccbook/models"
	"blaccbook/services/tasks"
	"blaccbook/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fixedNow is a Monday at 10:00.
var fixedNow = time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)

type fakeBookingRepo struct {
	bookings map[string]*models.Booking
	notifs   []*models.Notification
}

func newFakeBookingRepo() *fakeBookingRepo {
	return &fakeBookingRepo{bookings: map[string]*models.Booking{}}
}

func (r *fakeBookingRepo) CreateWithNotification(b *models.Booking, n *models.Notification) error {
	cp := *b
	r.bookings[b.ID] = &cp
	r.notifs = append(r.notifs, n)
	return nil
}

func (r *fakeBookingRepo) GetByID(id string) (*models.Booking, error) {
	b, ok := r.bookings[id]
	if !ok {
		return nil, nil
	}
	cp := *b
	return &cp, nil
}

func (r *fakeBookingRepo) ListByUser(userID string, statuses []string) ([]models.Booking, error) {
	var out []models.Booking
	for _, b := range r.bookings {
		if b.UserID != userID {
			continue
		}
		if len(statuses) == 0 {
			out = append(out, *b)
			continue
		}
		for _, s := range statuses {
			if b.Status == s {
				out = append(out, *b)
				break
			}
		}
	}
	return out, nil
}

func (r *fakeBookingRepo) Cancel(id, reason, cancelledBy string, at time.Time) error {
	b, ok := r.bookings[id]
	if !ok {
		return errors.New("booking not found")
	}
	b.Status = models.BookingStatusCancelled
	b.CancellationReason = reason
	b.CancelledBy = cancelledBy
	b.CancelledAt = &at
	return nil
}

func (r *fakeBookingRepo) MarkRated(id string) (bool, error) {
	b, ok := r.bookings[id]
	if !ok || b.IsRated {
		return false, nil
	}
	b.IsRated = true
	return true, nil
}

type fakeServiceRepo struct {
	services map[string]*models.Service
	ratings  []int
}

func (r *fakeServiceRepo) Create(svc *models.Service) error { return nil }

func (r *fakeServiceRepo) GetByID(id string) (*models.Service, error) {
	svc, ok := r.services[id]
	if !ok {
		return nil, nil
	}
	return svc, nil
}

func (r *fakeServiceRepo) List(filter serviceRepo.ServiceFilter) ([]models.Service, error) {
	return nil, nil
}

func (r *fakeServiceRepo) ApplyRating(serviceID string, rating int) error {
	r.ratings = append(r.ratings, rating)
	return nil
}

type fakePromoRepo struct {
	promos map[string]*models.PromoCode
}

func (r *fakePromoRepo) Create(p *models.PromoCode) error { return nil }

func (r *fakePromoRepo) GetByCode(code string) (*models.PromoCode, error) {
	p, ok := r.promos[code]
	if !ok {
		return nil, nil
	}
	return p, nil
}

type fakeReviewRepo struct {
	reviews []*models.Review
}

func (r *fakeReviewRepo) Create(review *models.Review) error {
	r.reviews = append(r.reviews, review)
	return nil
}

func (r *fakeReviewRepo) ListByService(serviceID string) ([]models.Review, error) { return nil, nil }

type fakeNotifier struct {
	dispatched []*models.Notification
	pushed     []*models.Notification
}

func (n *fakeNotifier) Dispatch(ctx context.Context, notif *models.Notification) error {
	n.dispatched = append(n.dispatched, notif)
	return nil
}

func (n *fakeNotifier) Push(ctx context.Context, notif *models.Notification) {
	n.pushed = append(n.pushed, notif)
}

func (n *fakeNotifier) List(ctx context.Context, userID string, limit int64) ([]models.Notification, error) {
	return nil, nil
}
func (n *fakeNotifier) MarkRead(ctx context.Context, id, userID string) error { return nil }
func (n *fakeNotifier) MarkAllRead(ctx context.Context, userID string) error  { return nil }
func (n *fakeNotifier) UnreadCount(ctx context.Context, userID string) (int64, error) {
	return 0, nil
}

type fakePayments struct {
	charged []float64
}

func (p *fakePayments) CreatePaymentIntent(amount float64, bookingID string) (string, error) {
	p.charged = append(p.charged, amount)
	return "pi_test", nil
}

type fakeScheduler struct {
	scheduled []time.Time
}

func (s *fakeScheduler) ScheduleBookingReminder(b *models.Booking, serviceTitle string, slotStart time.Time) error {
	s.scheduled = append(s.scheduled, slotStart)
	return nil
}

var _ tasks.ReminderScheduler = (*fakeScheduler)(nil)

type fixture struct {
	svc       *DefaultBookingService
	bookings  *fakeBookingRepo
	services  *fakeServiceRepo
	promos    *fakePromoRepo
	reviews   *fakeReviewRepo
	notifier  *fakeNotifier
	payments  *fakePayments
	scheduler *fakeScheduler
}

func newFixture() *fixture {
	services := &fakeServiceRepo{services: map[string]*models.Service{
		"svc-1": {
			ID:         "svc-1",
			ProviderID: "provider-1",
			Title:      "Deep Clean",
			Price:      100,
			Availability: map[string]string{
				"mon": "9:00 AM - 5:00 PM",
			},
		},
	}}
	f := &fixture{
		bookings:  newFakeBookingRepo(),
		services:  services,
		promos:    &fakePromoRepo{promos: map[string]*models.PromoCode{}},
		reviews:   &fakeReviewRepo{},
		notifier:  &fakeNotifier{},
		payments:  &fakePayments{},
		scheduler: &fakeScheduler{},
	}
	f.svc = &DefaultBookingService{
		Bookings:  f.bookings,
		Services:  f.services,
		Promos:    f.promos,
		Reviews:   f.reviews,
		Notifier:  f.notifier,
		Payments:  f.payments,
		Scheduler: f.scheduler,
		Clock:     func() time.Time { return fixedNow },
		Location:  time.UTC,
	}
	return f
}

func validRequest() CreateBookingRequest {
	return CreateBookingRequest{
		ServiceID:     "svc-1",
		Date:          "2026-03-02",
		Time:          "2:00 PM",
		Address:       "12 Main St",
		PaymentMethod: "cash",
	}
}

func TestCreateBooking(t *testing.T) {
	f := newFixture()

	b, err := f.svc.CreateBooking(context.Background(), "user-1", validRequest())
	require.NoError(t, err)
	assert.Equal(t, models.BookingStatusPending, b.Status)
	assert.Equal(t, "provider-1", b.ProviderID)
	assert.Equal(t, 100.0, b.TotalPrice)
	assert.False(t, b.IsRated)

	require.Len(t, f.bookings.notifs, 1)
	notif := f.bookings.notifs[0]
	assert.Equal(t, "provider-1", notif.UserID)
	assert.Equal(t, models.NotificationTypeBooking, notif.Type)
	assert.Equal(t, b.ID, notif.BookingID)

	require.Len(t, f.notifier.pushed, 1, "push goes out after the transaction")
	require.Len(t, f.scheduler.scheduled, 1)
	assert.Equal(t, time.Date(2026, 3, 2, 14, 0, 0, 0, time.UTC), f.scheduler.scheduled[0])
}

func TestCreateBookingWithPromo(t *testing.T) {
	f := newFixture()
	f.promos.promos["SAVE20"] = &models.PromoCode{ID: "p1", Code: "SAVE20", DiscountPercentage: 20}

	req := validRequest()
	req.PromoCode = "  save20 "
	b, err := f.svc.CreateBooking(context.Background(), "user-1", req)
	require.NoError(t, err)
	assert.Equal(t, "SAVE20", b.PromoCode)
	assert.Equal(t, 20.0, b.Discount)
	assert.Equal(t, 80.0, b.TotalPrice)
}

func TestCreateBookingCardPayment(t *testing.T) {
	f := newFixture()

	req := validRequest()
	req.PaymentMethod = "card"
	b, err := f.svc.CreateBooking(context.Background(), "user-1", req)
	require.NoError(t, err)
	assert.Equal(t, "pi_test", b.PaymentIntentID)
	require.Len(t, f.payments.charged, 1)
	assert.Equal(t, 100.0, f.payments.charged[0])
}

func TestCreateBookingValidation(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	req := validRequest()
	req.Address = ""
	_, err := f.svc.CreateBooking(ctx, "user-1", req)
	assert.ErrorAs(t, err, &utils.ValidationError{})

	req = validRequest()
	req.PaymentMethod = "barter"
	_, err = f.svc.CreateBooking(ctx, "user-1", req)
	assert.ErrorAs(t, err, &utils.ValidationError{})

	req = validRequest()
	req.Date = "03/02/2026"
	_, err = f.svc.CreateBooking(ctx, "user-1", req)
	assert.ErrorAs(t, err, &utils.ValidationError{})

	req = validRequest()
	req.ServiceID = "svc-missing"
	_, err = f.svc.CreateBooking(ctx, "user-1", req)
	assert.ErrorAs(t, err, &utils.NotFoundError{})

	// Tuesday: the provider does not work that day.
	req = validRequest()
	req.Date = "2026-03-03"
	_, err = f.svc.CreateBooking(ctx, "user-1", req)
	assert.ErrorAs(t, err, &utils.ValidationError{})

	// Same-day slot already in the past.
	req = validRequest()
	req.Time = "9:00 AM"
	_, err = f.svc.CreateBooking(ctx, "user-1", req)
	assert.ErrorAs(t, err, &utils.ValidationError{})
}

func TestCreateBookingBusinessZoneGreying(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	auckland, err := time.LoadLocation("Pacific/Auckland")
	require.NoError(t, err)
	f.svc.Location = auckland
	// 20:30 UTC on Sunday Mar 1 is already 09:30 on Monday Mar 2 in
	// Auckland, so the Monday 9:00 AM slot has passed there.
	f.svc.Clock = func() time.Time { return time.Date(2026, 3, 1, 20, 30, 0, 0, time.UTC) }

	req := validRequest()
	req.Date = "2026-03-02"
	req.Time = "9:00 AM"
	_, err = f.svc.CreateBooking(ctx, "user-1", req)
	assert.ErrorAs(t, err, &utils.ValidationError{}, "slot already past in the business zone")

	req.Time = "10:00 AM"
	b, err := f.svc.CreateBooking(ctx, "user-1", req)
	require.NoError(t, err)
	assert.Equal(t, models.BookingStatusPending, b.Status)

	slots, err := f.svc.GetAvailableSlots(ctx, "svc-1", "2026-03-02")
	require.NoError(t, err)
	byLabel := map[string]bool{}
	for _, s := range slots {
		byLabel[s.Label] = s.Selectable
	}
	assert.False(t, byLabel["9:00 AM"])
	assert.True(t, byLabel["10:00 AM"])
}

func TestApplyPromoCode(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	expiry := fixedNow.Add(-time.Hour)
	f.promos.promos["GONE"] = &models.PromoCode{ID: "p2", Code: "GONE", DiscountPercentage: 50, ExpiryDate: &expiry}

	_, err := f.svc.ApplyPromoCode(ctx, "nope")
	assert.ErrorAs(t, err, &utils.NotFoundError{})

	_, err = f.svc.ApplyPromoCode(ctx, "gone")
	assert.ErrorAs(t, err, &utils.ExpiredError{})

	_, err = f.svc.ApplyPromoCode(ctx, "   ")
	assert.ErrorAs(t, err, &utils.ValidationError{})
}

func TestCancelBooking(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	b, err := f.svc.CreateBooking(ctx, "user-1", validRequest())
	require.NoError(t, err)

	_, err = f.svc.CancelBooking(ctx, b.ID, "user-1", "")
	assert.ErrorAs(t, err, &utils.ValidationError{})

	_, err = f.svc.CancelBooking(ctx, b.ID, "someone-else", "changed plans")
	assert.ErrorAs(t, err, &utils.PermissionError{})

	cancelled, err := f.svc.CancelBooking(ctx, b.ID, "user-1", "changed plans")
	require.NoError(t, err)
	assert.Equal(t, models.BookingStatusCancelled, cancelled.Status)
	assert.Equal(t, "changed plans", cancelled.CancellationReason)
	assert.Equal(t, "user-1", cancelled.CancelledBy)
	require.NotNil(t, cancelled.CancelledAt)

	// Second cancel is rejected.
	_, err = f.svc.CancelBooking(ctx, b.ID, "user-1", "again")
	assert.ErrorAs(t, err, &utils.StateError{})

	// Provider got the cancellation notice.
	require.Len(t, f.notifier.dispatched, 1)
	assert.Equal(t, "provider-1", f.notifier.dispatched[0].UserID)
	assert.Equal(t, models.NotificationTypeBookingCancelled, f.notifier.dispatched[0].Type)
}

func TestCancelBookingPastSlot(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	b, err := f.svc.CreateBooking(ctx, "user-1", validRequest())
	require.NoError(t, err)

	// Move the clock past the 2:00 PM slot.
	f.svc.Clock = func() time.Time { return time.Date(2026, 3, 2, 15, 0, 0, 0, time.UTC) }
	_, err = f.svc.CancelBooking(ctx, b.ID, "user-1", "too late")
	assert.ErrorAs(t, err, &utils.StateError{})
}

func TestRateBooking(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	b, err := f.svc.CreateBooking(ctx, "user-1", validRequest())
	require.NoError(t, err)

	req := RateBookingRequest{Rating: 5, Comment: "spotless"}

	err = f.svc.RateBooking(ctx, b.ID, "user-1", RateBookingRequest{Rating: 0})
	assert.ErrorAs(t, err, &utils.ValidationError{})
	err = f.svc.RateBooking(ctx, b.ID, "user-1", RateBookingRequest{Rating: 6})
	assert.ErrorAs(t, err, &utils.ValidationError{})

	// Still pending.
	err = f.svc.RateBooking(ctx, b.ID, "user-1", req)
	assert.ErrorAs(t, err, &utils.StateError{})

	f.bookings.bookings[b.ID].Status = models.BookingStatusCompleted

	err = f.svc.RateBooking(ctx, b.ID, "someone-else", req)
	assert.ErrorAs(t, err, &utils.PermissionError{})

	require.NoError(t, f.svc.RateBooking(ctx, b.ID, "user-1", req))
	require.Len(t, f.reviews.reviews, 1)
	review := f.reviews.reviews[0]
	assert.Equal(t, b.ID, review.BookingID)
	assert.Equal(t, "svc-1", review.ServiceID)
	assert.Equal(t, 5, review.Rating)
	assert.Equal(t, []int{5}, f.services.ratings)

	// A second rating for the same booking is rejected.
	err = f.svc.RateBooking(ctx, b.ID, "user-1", req)
	assert.ErrorAs(t, err, &utils.StateError{})
	assert.Len(t, f.reviews.reviews, 1)
	assert.Len(t, f.services.ratings, 1)
}

func TestBookingWithPromoThenCancel(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	f.promos.promos["WELCOME10"] = &models.PromoCode{ID: "p3", Code: "WELCOME10", DiscountPercentage: 10}

	req := validRequest()
	req.PromoCode = "welcome10"
	b, err := f.svc.CreateBooking(ctx, "user-1", req)
	require.NoError(t, err)
	assert.Equal(t, 90.0, b.TotalPrice)

	upcoming, err := f.svc.ListBookings(ctx, "user-1", "upcoming")
	require.NoError(t, err)
	require.Len(t, upcoming, 1)

	cancelled, err := f.svc.CancelBooking(ctx, b.ID, "user-1", "found a cheaper option")
	require.NoError(t, err)
	assert.Equal(t, models.BookingStatusCancelled, cancelled.Status)
	// The discount survives on the record.
	stored, err := f.svc.GetBooking(ctx, b.ID, "user-1")
	require.NoError(t, err)
	assert.Equal(t, 90.0, stored.TotalPrice)
	assert.Equal(t, "WELCOME10", stored.PromoCode)

	upcoming, err = f.svc.ListBookings(ctx, "user-1", "upcoming")
	require.NoError(t, err)
	assert.Empty(t, upcoming)
	gone, err := f.svc.ListBookings(ctx, "user-1", "cancelled")
	require.NoError(t, err)
	require.Len(t, gone, 1)
}

func TestListBookingsTabs(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	b, err := f.svc.CreateBooking(ctx, "user-1", validRequest())
	require.NoError(t, err)

	upcoming, err := f.svc.ListBookings(ctx, "user-1", "upcoming")
	require.NoError(t, err)
	require.Len(t, upcoming, 1)
	assert.Equal(t, b.ID, upcoming[0].ID)

	completed, err := f.svc.ListBookings(ctx, "user-1", "completed")
	require.NoError(t, err)
	assert.Empty(t, completed)

	_, err = f.svc.ListBookings(ctx, "user-1", "archived")
	assert.ErrorAs(t, err, &utils.ValidationError{})
}
