package call

import (
	"context"
	"fmt"
	"time"

	callRepo "blaccbook/database/repository/call"
	"blaccbook/models"
	"blaccbook/services/notification"
	"blaccbook/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// DefaultCallService is the production implementation of CallService.
type DefaultCallService struct {
	Repo     callRepo.CallRepository
	Notifier notification.NotificationService

	// Clock returns the current time; overridable in tests.
	Clock func() time.Time
}

func (s *DefaultCallService) now() time.Time {
	if s.Clock != nil {
		return s.Clock()
	}
	return time.Now()
}

// InitiateCall creates a ringing call record and pushes a high-priority
// notification to the recipient.
func (s *DefaultCallService) InitiateCall(ctx context.Context, callerID, recipientID string, video bool) (*models.Call, error) {
	if recipientID == "" {
		return nil, utils.ValidationError{Message: "a call recipient is required"}
	}
	if recipientID == callerID {
		return nil, utils.ValidationError{Message: "you cannot call yourself"}
	}

	call := &models.Call{
		ID:          uuid.New().String(),
		CallerID:    callerID,
		RecipientID: recipientID,
		Status:      models.CallStatusRinging,
		StartTime:   s.now(),
		IsVideoCall: video,
	}
	if err := s.Repo.Create(call); err != nil {
		return nil, utils.PersistenceError{Message: "failed to start call", Err: err}
	}

	notif := &models.Notification{
		UserID:  recipientID,
		Title:   "Incoming call",
		Message: "You have an incoming call",
		Type:    models.NotificationTypeCall,
		CallID:  call.ID,
	}
	if err := s.Notifier.Dispatch(ctx, notif); err != nil {
		utils.GetLogger().Error("Failed to dispatch call notification",
			zap.String("callID", call.ID), zap.Error(err))
	}
	return call, nil
}

// AcceptCall moves a ringing call to active. Only the recipient may accept.
func (s *DefaultCallService) AcceptCall(ctx context.Context, callID, userID string) (*models.Call, error) {
	call, err := s.load(callID, userID)
	if err != nil {
		return nil, err
	}
	if userID != call.RecipientID {
		return nil, utils.PermissionError{Message: "only the call recipient can accept"}
	}
	if call.Status != models.CallStatusRinging {
		return nil, utils.StateError{Message: "call is no longer ringing"}
	}

	at := s.now()
	ok, err := s.Repo.Accept(callID, at)
	if err != nil {
		return nil, utils.PersistenceError{Message: "failed to accept call", Err: err}
	}
	if !ok {
		return nil, utils.StateError{Message: "call is no longer ringing"}
	}
	call.Status = models.CallStatusActive
	call.AcceptedAt = &at
	return call, nil
}

// EndCall terminates a call from either peer. Ending an unanswered call marks
// it missed with zero duration; ending an active call records the elapsed
// talk time and notifies both peers with a summary. Ending a call that is
// already terminal is a no-op.
func (s *DefaultCallService) EndCall(ctx context.Context, callID, userID string) (*models.Call, error) {
	call, err := s.load(callID, userID)
	if err != nil {
		return nil, err
	}
	if call.Terminal() {
		return call, nil
	}

	at := s.now()
	var duration int
	missed := false
	switch call.Status {
	case models.CallStatusActive:
		if call.AcceptedAt != nil {
			duration = int(at.Sub(*call.AcceptedAt).Seconds())
		}
	case models.CallStatusRinging:
		missed = true
	}

	ok, err := s.Repo.End(callID, call.Status, at, duration, missed)
	if err != nil {
		return nil, utils.PersistenceError{Message: "failed to end call", Err: err}
	}
	if !ok {
		// Lost the race; re-read and treat terminal as success.
		fresh, err := s.load(callID, userID)
		if err != nil {
			return nil, err
		}
		if fresh.Terminal() {
			return fresh, nil
		}
		return nil, utils.StateError{Message: "call state changed, try again"}
	}

	wasActive := call.Status == models.CallStatusActive
	call.Status = models.CallStatusEnded
	call.EndTime = &at
	call.Duration = duration
	call.IsMissed = missed

	if wasActive {
		s.sendSummary(ctx, call)
	} else if missed {
		notif := &models.Notification{
			UserID:  call.Peer(userID),
			Title:   "Missed call",
			Message: "You missed a call",
			Type:    models.NotificationTypeCallSummary,
			CallID:  call.ID,
		}
		if err := s.Notifier.Dispatch(ctx, notif); err != nil {
			utils.GetLogger().Error("Failed to dispatch missed call notification",
				zap.String("callID", call.ID), zap.Error(err))
		}
	}
	return call, nil
}

// DeclineCall rejects a ringing call. Only the recipient may decline.
func (s *DefaultCallService) DeclineCall(ctx context.Context, callID, userID string) (*models.Call, error) {
	call, err := s.load(callID, userID)
	if err != nil {
		return nil, err
	}
	if userID != call.RecipientID {
		return nil, utils.PermissionError{Message: "only the call recipient can decline"}
	}
	if call.Status != models.CallStatusRinging {
		return nil, utils.StateError{Message: "call is no longer ringing"}
	}

	at := s.now()
	ok, err := s.Repo.Decline(callID, at)
	if err != nil {
		return nil, utils.PersistenceError{Message: "failed to decline call", Err: err}
	}
	if !ok {
		return nil, utils.StateError{Message: "call is no longer ringing"}
	}
	call.Status = models.CallStatusDeclined
	call.EndTime = &at
	return call, nil
}

// GetCall fetches one call record, restricted to its two peers.
func (s *DefaultCallService) GetCall(ctx context.Context, callID, userID string) (*models.Call, error) {
	return s.load(callID, userID)
}

// ListHistory returns every call the user took part in.
func (s *DefaultCallService) ListHistory(ctx context.Context, userID string) ([]models.Call, error) {
	calls, err := s.Repo.ListByParticipant(userID)
	if err != nil {
		return nil, utils.PersistenceError{Message: "failed to list call history", Err: err}
	}
	return calls, nil
}

// WatchCall streams live call record snapshots to one of the peers.
func (s *DefaultCallService) WatchCall(ctx context.Context, callID, userID string) (<-chan models.Call, error) {
	if _, err := s.load(callID, userID); err != nil {
		return nil, err
	}
	ch, err := s.Repo.Watch(ctx, callID)
	if err != nil {
		return nil, utils.PersistenceError{Message: "failed to watch call", Err: err}
	}
	return ch, nil
}

func (s *DefaultCallService) load(callID, userID string) (*models.Call, error) {
	call, err := s.Repo.GetByID(callID)
	if err != nil {
		return nil, utils.PersistenceError{Message: "failed to load call", Err: err}
	}
	if call == nil {
		return nil, utils.NotFoundError{Message: "call not found"}
	}
	if userID != call.CallerID && userID != call.RecipientID {
		return nil, utils.PermissionError{Message: "you are not part of this call"}
	}
	return call, nil
}

func (s *DefaultCallService) sendSummary(ctx context.Context, call *models.Call) {
	msg := fmt.Sprintf("Call ended, duration %s", formatDuration(call.Duration))
	for _, userID := range []string{call.CallerID, call.RecipientID} {
		notif := &models.Notification{
			UserID:  userID,
			Title:   "Call ended",
			Message: msg,
			Type:    models.NotificationTypeCallSummary,
			CallID:  call.ID,
		}
		if err := s.Notifier.Dispatch(ctx, notif); err != nil {
			utils.GetLogger().Error("Failed to dispatch call summary",
				zap.String("callID", call.ID), zap.Error(err))
		}
	}
}

// formatDuration renders seconds as MM:SS.
func formatDuration(seconds int) string {
	return fmt.Sprintf("%02d:%02d", seconds/60, seconds%60)
}
