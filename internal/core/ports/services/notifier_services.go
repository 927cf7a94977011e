package services

import (
	"context"

	"github.com/articletrack/articletrack_app/internal/core/domain"
)

// TransitionEvent carries the data a notification about a workflow
// transition is rendered from.
type TransitionEvent struct {
	Checkin     domain.Checkin
	Action      domain.CheckinAction
	ActorName   string
	Description string
}

// WorkflowNotifier delivers workflow transition notifications to collection
// members. Implementations must not block the caller; delivery happens after
// the transition has committed.
type WorkflowNotifier interface {
	NotifyTransition(ctx context.Context, event TransitionEvent)
}

// CheckoutClient triggers the downstream checkout of an accepted package.
type CheckoutClient interface {
	// RequestCheckout asks the checkout service to start processing the
	// accepted checkin's package. Returns an error if the request was not
	// acknowledged.
	RequestCheckout(ctx context.Context, checkin domain.Checkin) error
}
