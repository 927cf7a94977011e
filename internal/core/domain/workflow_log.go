package domain

import "time"

// CheckinWorkflowLog is one immutable audit record, created exactly once per
// successful workflow transition. Entries are never mutated or deleted and
// are listed in chronological ascending order.
type CheckinWorkflowLog struct {
	LogID     string    `json:"logID"`     // Primary Key (e.g., UUID)
	CheckinID string    `json:"checkinID"` // FK -> checkins.checkin_id
	CreatedAt time.Time `json:"createdAt"`
	// UserID is the responsible actor. Nil for system-originated transitions
	// (e.g., ingestion-side processing).
	UserID      *string       `json:"userID,omitempty"`
	Status      CheckinStatus `json:"status"` // resulting status of the transition
	Description string        `json:"description"`
}
