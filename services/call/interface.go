package call

import (
	"context"

	"blaccbook/models"
)

// CallService drives the shared call record both peers signal through. Every
// transition is validated against the record's current status; stale
// transitions surface as state errors instead of overwriting newer ones.
type CallService interface {
	InitiateCall(ctx context.Context, callerID, recipientID string, video bool) (*models.Call, error)
	AcceptCall(ctx context.Context, callID, userID string) (*models.Call, error)
	// EndCall is idempotent: ending an already-terminal call returns the
	// record unchanged.
	EndCall(ctx context.Context, callID, userID string) (*models.Call, error)
	DeclineCall(ctx context.Context, callID, userID string) (*models.Call, error)
	GetCall(ctx context.Context, callID, userID string) (*models.Call, error)
	ListHistory(ctx context.Context, userID string) ([]models.Call, error)
	// WatchCall streams live snapshots of the call record until ctx is
	// cancelled or the call reaches a terminal state.
	WatchCall(ctx context.Context, callID, userID string) (<-chan models.Call, error)
}
