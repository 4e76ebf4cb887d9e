package call

import (
	"context"
	"testing"
	"time"

	"blaccbook/models"
	"blaccbook/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var callStart = time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)

type fakeCallRepo struct {
	calls map[string]*models.Call
}

func newFakeCallRepo() *fakeCallRepo {
	return &fakeCallRepo{calls: map[string]*models.Call{}}
}

func (r *fakeCallRepo) Create(call *models.Call) error {
	cp := *call
	r.calls[call.ID] = &cp
	return nil
}

func (r *fakeCallRepo) GetByID(id string) (*models.Call, error) {
	c, ok := r.calls[id]
	if !ok {
		return nil, nil
	}
	cp := *c
	return &cp, nil
}

func (r *fakeCallRepo) ListByParticipant(userID string) ([]models.Call, error) {
	var out []models.Call
	for _, c := range r.calls {
		if c.CallerID == userID || c.RecipientID == userID {
			out = append(out, *c)
		}
	}
	return out, nil
}

func (r *fakeCallRepo) Accept(id string, at time.Time) (bool, error) {
	c, ok := r.calls[id]
	if !ok || c.Status != models.CallStatusRinging {
		return false, nil
	}
	c.Status = models.CallStatusActive
	c.AcceptedAt = &at
	return true, nil
}

func (r *fakeCallRepo) End(id, fromStatus string, at time.Time, duration int, missed bool) (bool, error) {
	c, ok := r.calls[id]
	if !ok || c.Status != fromStatus {
		return false, nil
	}
	c.Status = models.CallStatusEnded
	c.EndTime = &at
	c.Duration = duration
	c.IsMissed = missed
	return true, nil
}

func (r *fakeCallRepo) Decline(id string, at time.Time) (bool, error) {
	c, ok := r.calls[id]
	if !ok || c.Status != models.CallStatusRinging {
		return false, nil
	}
	c.Status = models.CallStatusDeclined
	c.EndTime = &at
	return true, nil
}

func (r *fakeCallRepo) Watch(ctx context.Context, id string) (<-chan models.Call, error) {
	ch := make(chan models.Call, 1)
	if c, ok := r.calls[id]; ok {
		ch <- *c
	}
	close(ch)
	return ch, nil
}

type fakeNotifier struct {
	dispatched []*models.Notification
}

func (n *fakeNotifier) Dispatch(ctx context.Context, notif *models.Notification) error {
	n.dispatched = append(n.dispatched, notif)
	return nil
}
func (n *fakeNotifier) Push(ctx context.Context, notif *models.Notification) {}
func (n *fakeNotifier) List(ctx context.Context, userID string, limit int64) ([]models.Notification, error) {
	return nil, nil
}
func (n *fakeNotifier) MarkRead(ctx context.Context, id, userID string) error { return nil }
func (n *fakeNotifier) MarkAllRead(ctx context.Context, userID string) error  { return nil }
func (n *fakeNotifier) UnreadCount(ctx context.Context, userID string) (int64, error) {
	return 0, nil
}

func newCallFixture() (*DefaultCallService, *fakeCallRepo, *fakeNotifier, *time.Time) {
	now := callStart
	repo := newFakeCallRepo()
	notifier := &fakeNotifier{}
	svc := &DefaultCallService{
		Repo:     repo,
		Notifier: notifier,
		Clock:    func() time.Time { return now },
	}
	return svc, repo, notifier, &now
}

func TestInitiateCall(t *testing.T) {
	svc, _, notifier, _ := newCallFixture()
	ctx := context.Background()

	c, err := svc.InitiateCall(ctx, "alice", "bob", false)
	require.NoError(t, err)
	assert.Equal(t, models.CallStatusRinging, c.Status)
	assert.Equal(t, callStart, c.StartTime)

	require.Len(t, notifier.dispatched, 1)
	assert.Equal(t, "bob", notifier.dispatched[0].UserID)
	assert.Equal(t, models.NotificationTypeCall, notifier.dispatched[0].Type)

	_, err = svc.InitiateCall(ctx, "alice", "alice", false)
	assert.ErrorAs(t, err, &utils.ValidationError{})
	_, err = svc.InitiateCall(ctx, "alice", "", false)
	assert.ErrorAs(t, err, &utils.ValidationError{})
}

func TestAcceptCall(t *testing.T) {
	svc, _, _, now := newCallFixture()
	ctx := context.Background()

	c, err := svc.InitiateCall(ctx, "alice", "bob", false)
	require.NoError(t, err)

	// Only the recipient can accept.
	_, err = svc.AcceptCall(ctx, c.ID, "alice")
	assert.ErrorAs(t, err, &utils.PermissionError{})
	_, err = svc.AcceptCall(ctx, c.ID, "mallory")
	assert.ErrorAs(t, err, &utils.PermissionError{})

	*now = callStart.Add(5 * time.Second)
	accepted, err := svc.AcceptCall(ctx, c.ID, "bob")
	require.NoError(t, err)
	assert.Equal(t, models.CallStatusActive, accepted.Status)
	require.NotNil(t, accepted.AcceptedAt)
	assert.Equal(t, *now, *accepted.AcceptedAt)

	// Accepting an active call fails.
	_, err = svc.AcceptCall(ctx, c.ID, "bob")
	assert.ErrorAs(t, err, &utils.StateError{})
}

func TestEndActiveCallRecordsDuration(t *testing.T) {
	svc, _, notifier, now := newCallFixture()
	ctx := context.Background()

	c, err := svc.InitiateCall(ctx, "alice", "bob", false)
	require.NoError(t, err)

	*now = callStart.Add(5 * time.Second)
	_, err = svc.AcceptCall(ctx, c.ID, "bob")
	require.NoError(t, err)

	*now = callStart.Add(95 * time.Second)
	ended, err := svc.EndCall(ctx, c.ID, "alice")
	require.NoError(t, err)
	assert.Equal(t, models.CallStatusEnded, ended.Status)
	assert.Equal(t, 90, ended.Duration)
	assert.False(t, ended.IsMissed)

	// Ring + summary for both peers.
	require.Len(t, notifier.dispatched, 3)
	summary := notifier.dispatched[1]
	assert.Equal(t, models.NotificationTypeCallSummary, summary.Type)
	assert.Contains(t, summary.Message, "01:30")
}

func TestEndUnansweredCallIsMissed(t *testing.T) {
	svc, _, _, now := newCallFixture()
	ctx := context.Background()

	c, err := svc.InitiateCall(ctx, "alice", "bob", false)
	require.NoError(t, err)

	// Caller gives up after 15 seconds of ringing.
	*now = callStart.Add(15 * time.Second)
	ended, err := svc.EndCall(ctx, c.ID, "alice")
	require.NoError(t, err)
	assert.Equal(t, models.CallStatusEnded, ended.Status)
	assert.True(t, ended.IsMissed)
	assert.Equal(t, 0, ended.Duration)
}

func TestMissedCallNotifiesOtherPeer(t *testing.T) {
	svc, _, notifier, now := newCallFixture()
	ctx := context.Background()

	// Caller hangs up while ringing: the recipient missed it.
	c, err := svc.InitiateCall(ctx, "alice", "bob", false)
	require.NoError(t, err)
	*now = callStart.Add(15 * time.Second)
	_, err = svc.EndCall(ctx, c.ID, "alice")
	require.NoError(t, err)
	missed := notifier.dispatched[len(notifier.dispatched)-1]
	assert.Equal(t, models.NotificationTypeCallSummary, missed.Type)
	assert.Equal(t, "bob", missed.UserID)

	// Recipient ends a ringing call: the caller gets the notice, never
	// the peer who hung up.
	c2, err := svc.InitiateCall(ctx, "alice", "bob", false)
	require.NoError(t, err)
	_, err = svc.EndCall(ctx, c2.ID, "bob")
	require.NoError(t, err)
	missed = notifier.dispatched[len(notifier.dispatched)-1]
	assert.Equal(t, models.NotificationTypeCallSummary, missed.Type)
	assert.Equal(t, "alice", missed.UserID)
}

func TestEndCallIdempotent(t *testing.T) {
	svc, _, notifier, now := newCallFixture()
	ctx := context.Background()

	c, err := svc.InitiateCall(ctx, "alice", "bob", false)
	require.NoError(t, err)

	*now = callStart.Add(10 * time.Second)
	first, err := svc.EndCall(ctx, c.ID, "alice")
	require.NoError(t, err)
	dispatchedAfterFirst := len(notifier.dispatched)

	// The other peer hangs up too; nothing changes.
	again, err := svc.EndCall(ctx, c.ID, "bob")
	require.NoError(t, err)
	assert.Equal(t, first.Status, again.Status)
	assert.Equal(t, first.Duration, again.Duration)
	assert.Len(t, notifier.dispatched, dispatchedAfterFirst)
}

func TestDeclineCall(t *testing.T) {
	svc, _, _, _ := newCallFixture()
	ctx := context.Background()

	c, err := svc.InitiateCall(ctx, "alice", "bob", false)
	require.NoError(t, err)

	_, err = svc.DeclineCall(ctx, c.ID, "alice")
	assert.ErrorAs(t, err, &utils.PermissionError{})

	declined, err := svc.DeclineCall(ctx, c.ID, "bob")
	require.NoError(t, err)
	assert.Equal(t, models.CallStatusDeclined, declined.Status)

	// Declining a terminal call fails.
	_, err = svc.DeclineCall(ctx, c.ID, "bob")
	assert.ErrorAs(t, err, &utils.StateError{})
}

func TestDeclineActiveCallRejected(t *testing.T) {
	svc, _, _, _ := newCallFixture()
	ctx := context.Background()

	c, err := svc.InitiateCall(ctx, "alice", "bob", false)
	require.NoError(t, err)
	_, err = svc.AcceptCall(ctx, c.ID, "bob")
	require.NoError(t, err)

	_, err = svc.DeclineCall(ctx, c.ID, "bob")
	assert.ErrorAs(t, err, &utils.StateError{})
}

func TestCallAccessRestrictedToPeers(t *testing.T) {
	svc, _, _, _ := newCallFixture()
	ctx := context.Background()

	c, err := svc.InitiateCall(ctx, "alice", "bob", false)
	require.NoError(t, err)

	_, err = svc.GetCall(ctx, c.ID, "mallory")
	assert.ErrorAs(t, err, &utils.PermissionError{})

	_, err = svc.GetCall(ctx, "no-such-call", "alice")
	assert.ErrorAs(t, err, &utils.NotFoundError{})
}

func TestFormatDuration(t *testing.T) {
	assert.Equal(t, "00:00", formatDuration(0))
	assert.Equal(t, "00:59", formatDuration(59))
	assert.Equal(t, "01:30", formatDuration(90))
	assert.Equal(t, "10:05", formatDuration(605))
}
