package callRepo

import (
	"context"
	"time"

	"blaccbook/models"
)

// CallRepository defines persistence operations for call records. Transitions
// are compare-and-set: they filter on the status the caller observed, so two
// peers racing on the same record cannot double-apply a transition.
type CallRepository interface {
	Create(call *models.Call) error
	GetByID(id string) (*models.Call, error)
	ListByParticipant(userID string) ([]models.Call, error)
	// Accept moves ringing -> active, stamping accepted_at. Returns false
	// if the call was no longer ringing.
	Accept(id string, at time.Time) (bool, error)
	// End moves fromStatus -> ended with the computed duration and missed
	// flag. Returns false if the status changed since it was observed.
	End(id, fromStatus string, at time.Time, duration int, missed bool) (bool, error)
	// Decline moves ringing -> declined. Returns false if the call was no
	// longer ringing.
	Decline(id string, at time.Time) (bool, error)
	// Watch streams snapshots of one call record until ctx is cancelled.
	Watch(ctx context.Context, id string) (<-chan models.Call, error)
}
