package models

import "time"

// Checkin is the database row shape for one package submission attempt.
// Status is stored as the lowercase workflow token.
type Checkin struct {
	CheckinID    string  `db:"checkin_id"`
	CollectionID string  `db:"collection_id"`
	ArticleID    string  `db:"article_id"`
	AttemptRef   string  `db:"attempt_ref"`
	PackageName  string  `db:"package_name"`
	UploadedAt   time.Time `db:"uploaded_at"`
	SubmittedBy  *string `db:"submitted_by"`
	Status       string  `db:"status"`

	AcceptedBy *string    `db:"accepted_by"`
	AcceptedAt *time.Time `db:"accepted_at"`

	ReviewedBy *string    `db:"reviewed_by"`
	ReviewedAt *time.Time `db:"reviewed_at"`

	RejectedBy    *string    `db:"rejected_by"`
	RejectedAt    *time.Time `db:"rejected_at"`
	RejectedCause *string    `db:"rejected_cause"`

	CheckoutStartedAt *time.Time `db:"checkout_started_at"`

	AuditFields
}

// CheckinWorkflowLog is the row shape of the append-only workflow audit log.
type CheckinWorkflowLog struct {
	LogID       string    `db:"log_id"`
	CheckinID   string    `db:"checkin_id"`
	CreatedAt   time.Time `db:"created_at"`
	UserID      *string   `db:"user_id"` // NULL for system-originated entries
	Status      string    `db:"status"`
	Description string    `db:"description"`
}
