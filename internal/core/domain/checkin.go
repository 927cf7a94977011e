package domain

import (
	"errors"
	"fmt"
	"time"
)

// CheckinStatus is the closed set of workflow states a checkin can be in.
// The lowercase tokens are part of the persisted-state contract and must not
// be renamed without a migration.
type CheckinStatus string

const (
	CheckinPending  CheckinStatus = "pending"
	CheckinReview   CheckinStatus = "review"
	CheckinAccepted CheckinStatus = "accepted"
	CheckinRejected CheckinStatus = "rejected"
)

// Valid reports whether s is one of the known workflow states.
func (s CheckinStatus) Valid() bool {
	switch s {
	case CheckinPending, CheckinReview, CheckinAccepted, CheckinRejected:
		return true
	}
	return false
}

// CheckinAction identifies one of the five workflow transitions.
type CheckinAction string

const (
	ActionSendToPending CheckinAction = "send_to_pending"
	ActionSendToReview  CheckinAction = "send_to_review"
	ActionDoReview      CheckinAction = "do_review"
	ActionAccept        CheckinAction = "accept"
	ActionDoReject      CheckinAction = "do_reject"
)

// Canned workflow-log descriptions, one per transition.
const (
	MsgWorkflowAccepted      = "Checkin Accepted"
	MsgWorkflowRejected      = "Checkin Rejected"
	MsgWorkflowReviewed      = "Checkin Reviewed"
	MsgWorkflowSentToPending = "Checkin Sent to Pending"
	MsgWorkflowSentToReview  = "Checkin Sent to Review"
)

var (
	// ErrActorInactive is returned when the responsible user is disabled.
	ErrActorInactive = errors.New("responsible user must be active")

	// ErrArticleAccepted is returned when the owning article already has an
	// accepted checkin. At most one checkin per article may be accepted.
	ErrArticleAccepted = errors.New("cannot accept more than one checkin per article")

	// ErrRejectionCauseMissing is returned by do_reject when no cause is given.
	ErrRejectionCauseMissing = errors.New("rejection cause is required")

	// ErrInvalidCheckinState is returned by Validate when the persisted field
	// combination violates the status clearance invariants.
	ErrInvalidCheckinState = errors.New("checkin fields do not match status")
)

// GuardError reports a transition attempted while its precondition does not
// hold. It carries enough detail for the caller to build a specific message.
type GuardError struct {
	Action CheckinAction
	Status CheckinStatus
	Reason string
}

func (e *GuardError) Error() string {
	return fmt.Sprintf("checkin in status %q does not comply with the conditions for %q: %s", e.Status, e.Action, e.Reason)
}

// Checkin represents one submitted package attempt for an article, tracked
// through the moderation workflow.
type Checkin struct {
	CheckinID    string        `json:"checkinID"`    // Primary Key (e.g., UUID)
	CollectionID string        `json:"collectionID"` // FK -> collections.collection_id (NON-NULL)
	ArticleID    string        `json:"articleID"`    // FK -> articles.article_id
	AttemptRef   string        `json:"attemptRef"`   // Reference assigned by the ingestion service
	PackageName  string        `json:"packageName"`
	UploadedAt   time.Time     `json:"uploadedAt"`
	SubmittedBy  *string       `json:"submittedBy,omitempty"` // UserID of the submitter, when known
	Status       CheckinStatus `json:"status"`                // Default: pending

	AcceptedBy *string    `json:"acceptedBy,omitempty"`
	AcceptedAt *time.Time `json:"acceptedAt,omitempty"`

	ReviewedBy *string    `json:"reviewedBy,omitempty"`
	ReviewedAt *time.Time `json:"reviewedAt,omitempty"`

	RejectedBy    *string    `json:"rejectedBy,omitempty"`
	RejectedAt    *time.Time `json:"rejectedAt,omitempty"`
	RejectedCause *string    `json:"rejectedCause,omitempty"`

	// CheckoutStartedAt is stamped when the accepted package has been handed
	// to the external processing service. Outside the workflow transaction.
	CheckoutStartedAt *time.Time `json:"checkoutStartedAt,omitempty"`

	AuditFields
}

// TransitionContext carries the cross-entity facts guard evaluation needs.
// Both values are snapshots taken inside the same store transaction that
// applies the transition.
type TransitionContext struct {
	// ArticleAccepted is true when any checkin of the owning article holds
	// status accepted.
	ArticleAccepted bool
	// ErrorLevel is the aggregate error level of this checkin's notices.
	ErrorLevel ErrorLevel
}

// transitionRule is one row of the state-transition table: the required
// current status, the resulting status, the action-specific guard and the
// field effects of a successful transition.
type transitionRule struct {
	from        CheckinStatus
	to          CheckinStatus
	description string
	// checksAccepted controls whether the guard predicate considers the
	// article-acceptance invariant. do_reject is allowed regardless; the
	// shared guard in Transition still blocks every action once accepted.
	checksAccepted bool
	guard          func(c *Checkin, tc TransitionContext) *GuardError
	apply          func(c *Checkin, actorID string, at time.Time, cause string)
}

var transitionTable = map[CheckinAction]transitionRule{
	ActionSendToPending: {
		from:           CheckinRejected,
		to:             CheckinPending,
		description:    MsgWorkflowSentToPending,
		checksAccepted: true,
		apply:          func(c *Checkin, _ string, _ time.Time, _ string) {},
	},
	ActionSendToReview: {
		from:           CheckinPending,
		to:             CheckinReview,
		description:    MsgWorkflowSentToReview,
		checksAccepted: true,
		guard: func(c *Checkin, tc TransitionContext) *GuardError {
			if tc.ErrorLevel == ErrorLevelError {
				return &GuardError{Action: ActionSendToReview, Status: c.Status, Reason: "checkin has error notices"}
			}
			return nil
		},
		apply: func(c *Checkin, _ string, _ time.Time, _ string) {},
	},
	ActionDoReview: {
		from:           CheckinReview,
		to:             CheckinReview,
		description:    MsgWorkflowReviewed,
		checksAccepted: true,
		guard: func(c *Checkin, tc TransitionContext) *GuardError {
			if tc.ErrorLevel == ErrorLevelError {
				return &GuardError{Action: ActionDoReview, Status: c.Status, Reason: "checkin has error notices"}
			}
			return nil
		},
		apply: func(c *Checkin, actorID string, at time.Time, _ string) {
			c.ReviewedBy = &actorID
			c.ReviewedAt = &at
		},
	},
	ActionAccept: {
		from:           CheckinReview,
		to:             CheckinAccepted,
		description:    MsgWorkflowAccepted,
		checksAccepted: true,
		guard: func(c *Checkin, tc TransitionContext) *GuardError {
			if !c.IsReviewed() {
				return &GuardError{Action: ActionAccept, Status: c.Status, Reason: "checkin has not been reviewed"}
			}
			return nil
		},
		apply: func(c *Checkin, actorID string, at time.Time, _ string) {
			c.AcceptedBy = &actorID
			c.AcceptedAt = &at
		},
	},
	ActionDoReject: {
		from:        CheckinReview,
		to:          CheckinRejected,
		description: MsgWorkflowRejected,
		apply: func(c *Checkin, actorID string, at time.Time, cause string) {
			c.RejectedBy = &actorID
			c.RejectedAt = &at
			c.RejectedCause = &cause
		},
	},
}

// Can reports whether the action's own precondition holds for the checkin,
// given the transition context. It has no side effects and is the predicate
// the view layer uses to decide which actions to offer.
func (c *Checkin) Can(action CheckinAction, tc TransitionContext) bool {
	rule, ok := transitionTable[action]
	if !ok || c.Status != rule.from {
		return false
	}
	if rule.checksAccepted && tc.ArticleAccepted {
		return false
	}
	if rule.guard != nil && rule.guard(c, tc) != nil {
		return false
	}
	return true
}

// CanBeSentToPending reports whether the checkin is rejected and the article
// has no accepted checkin.
func (c *Checkin) CanBeSentToPending(tc TransitionContext) bool {
	return c.Can(ActionSendToPending, tc)
}

// CanBeSentToReview reports whether the checkin is pending, free of error
// notices and the article has no accepted checkin.
func (c *Checkin) CanBeSentToReview(tc TransitionContext) bool {
	return c.Can(ActionSendToReview, tc)
}

// CanBeReviewed reports whether the checkin is in review, free of error
// notices and the article has no accepted checkin.
func (c *Checkin) CanBeReviewed(tc TransitionContext) bool {
	return c.Can(ActionDoReview, tc)
}

// CanBeAccepted reports whether the checkin is in review, already reviewed
// and the article has no accepted checkin.
func (c *Checkin) CanBeAccepted(tc TransitionContext) bool {
	return c.Can(ActionAccept, tc)
}

// CanBeRejected reports whether the checkin is in review. Only checkins under
// review can be rejected.
func (c *Checkin) CanBeRejected(tc TransitionContext) bool {
	return c.Can(ActionDoReject, tc)
}

// CanBeSentToCheckout reports whether the accepted package is ready to be
// handed to the external processing service.
func (c *Checkin) CanBeSentToCheckout() bool {
	return c.IsAccepted() && c.CheckoutStartedAt == nil
}

// Transition applies the given workflow action to the checkin in place.
//
// The shared guard runs first: the responsible actor must be active
// (ErrActorInactive) and the owning article must not already have an accepted
// checkin (ErrArticleAccepted). Then the action's own precondition from the
// transition table is evaluated; a violation yields a *GuardError and leaves
// the checkin untouched. On success the checkin's fields are mutated,
// normalized, and the matching workflow log entry is returned with a
// timestamp equal to the transition's own field timestamp.
func (c *Checkin) Transition(action CheckinAction, actor User, tc TransitionContext, cause string, now time.Time) (*CheckinWorkflowLog, error) {
	rule, ok := transitionTable[action]
	if !ok {
		return nil, fmt.Errorf("unknown checkin action %q", action)
	}

	if !actor.Active() {
		return nil, ErrActorInactive
	}
	if tc.ArticleAccepted {
		return nil, ErrArticleAccepted
	}
	if c.Status != rule.from {
		return nil, &GuardError{Action: action, Status: c.Status, Reason: fmt.Sprintf("status must be %q", rule.from)}
	}
	if rule.guard != nil {
		if gerr := rule.guard(c, tc); gerr != nil {
			return nil, gerr
		}
	}
	if action == ActionDoReject && cause == "" {
		return nil, ErrRejectionCauseMissing
	}

	rule.apply(c, actor.UserID, now, cause)
	c.Status = rule.to
	c.Normalize()
	c.LastUpdatedAt = now
	c.LastUpdatedBy = actor.UserID

	description := rule.description
	if action == ActionDoReject {
		description = fmt.Sprintf("%s. Rejected cause: %s", MsgWorkflowRejected, cause)
	}
	actorID := actor.UserID
	return &CheckinWorkflowLog{
		CheckinID:   c.CheckinID,
		CreatedAt:   now,
		UserID:      &actorID,
		Status:      c.Status,
		Description: description,
	}, nil
}

// Normalize re-derives field clearance purely from the current status:
// whichever of the review/accept/reject field groups does not correspond to
// the current status is forced to nil. The repository layer invokes it
// immediately before every persist, so the clearance invariants hold even if
// status was set directly.
func (c *Checkin) Normalize() {
	switch c.Status {
	case CheckinPending:
		c.clearReviewFields()
		c.clearAcceptedFields()
		c.clearRejectedFields()
	case CheckinReview:
		c.clearAcceptedFields()
		c.clearRejectedFields()
	case CheckinRejected:
		c.clearReviewFields()
		c.clearAcceptedFields()
	}
}

func (c *Checkin) clearReviewFields() {
	c.ReviewedBy = nil
	c.ReviewedAt = nil
}

func (c *Checkin) clearAcceptedFields() {
	c.AcceptedBy = nil
	c.AcceptedAt = nil
}

func (c *Checkin) clearRejectedFields() {
	c.RejectedBy = nil
	c.RejectedAt = nil
	c.RejectedCause = nil
}

// Validate checks the status clearance invariants at the persistence
// boundary. Reaching a violation through the transition API indicates a
// programming defect; the check guards against direct field mutation.
func (c *Checkin) Validate() error {
	if !c.Status.Valid() {
		return fmt.Errorf("%w: unknown status %q", ErrInvalidCheckinState, c.Status)
	}
	if c.Status == CheckinAccepted {
		if c.AcceptedBy == nil || c.AcceptedAt == nil || c.ReviewedBy == nil || c.ReviewedAt == nil {
			return fmt.Errorf(`%w: "accepted" requires accepted_by, accepted_at, reviewed_by and reviewed_at`, ErrInvalidCheckinState)
		}
	}
	if c.Status == CheckinRejected {
		if c.RejectedBy == nil || c.RejectedAt == nil || c.RejectedCause == nil {
			return fmt.Errorf(`%w: "rejected" requires rejected_by, rejected_at and rejected_cause`, ErrInvalidCheckinState)
		}
	}
	return nil
}

// IsAccepted reports whether this checkin has been accepted.
func (c *Checkin) IsAccepted() bool {
	return c.Status == CheckinAccepted && c.AcceptedBy != nil && c.AcceptedAt != nil
}

// IsReviewed reports whether a review pass has been recorded.
func (c *Checkin) IsReviewed() bool {
	return c.Status == CheckinReview && c.ReviewedBy != nil && c.ReviewedAt != nil
}

// IsRejected reports whether this checkin has been rejected.
func (c *Checkin) IsRejected() bool {
	return c.Status == CheckinRejected
}
