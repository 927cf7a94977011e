package dto

import (
	"time"

	"github.com/articletrack/articletrack_app/internal/core/domain"
)

// --- Checkin DTOs ---

// CreateCheckinRequest defines data for registering a new package deposit.
// Sent by the ingestion service, authenticated via API token.
type CreateCheckinRequest struct {
	ArticleID   string    `json:"articleID" binding:"required"`
	AttemptRef  string    `json:"attemptRef" binding:"required"`
	PackageName string    `json:"packageName" binding:"required"`
	UploadedAt  time.Time `json:"uploadedAt" binding:"required"`
	SubmittedBy *string   `json:"submittedBy,omitempty"`
}

// CheckinResponse defines the data returned for a checkin.
type CheckinResponse struct {
	CheckinID    string               `json:"checkinID"`
	CollectionID string               `json:"collectionID"`
	ArticleID    string               `json:"articleID"`
	AttemptRef   string               `json:"attemptRef"`
	PackageName  string               `json:"packageName"`
	UploadedAt   time.Time            `json:"uploadedAt"`
	SubmittedBy  *string              `json:"submittedBy,omitempty"`
	Status       domain.CheckinStatus `json:"status"`

	AcceptedBy *string    `json:"acceptedBy,omitempty"`
	AcceptedAt *time.Time `json:"acceptedAt,omitempty"`

	ReviewedBy *string    `json:"reviewedBy,omitempty"`
	ReviewedAt *time.Time `json:"reviewedAt,omitempty"`

	RejectedBy    *string    `json:"rejectedBy,omitempty"`
	RejectedAt    *time.Time `json:"rejectedAt,omitempty"`
	RejectedCause *string    `json:"rejectedCause,omitempty"`

	CheckoutStartedAt *time.Time `json:"checkoutStartedAt,omitempty"`

	CreatedAt     time.Time `json:"createdAt"`
	LastUpdatedAt time.Time `json:"lastUpdatedAt"`
}

// ToCheckinResponse converts a domain.Checkin to CheckinResponse DTO.
func ToCheckinResponse(c *domain.Checkin) CheckinResponse {
	return CheckinResponse{
		CheckinID:         c.CheckinID,
		CollectionID:      c.CollectionID,
		ArticleID:         c.ArticleID,
		AttemptRef:        c.AttemptRef,
		PackageName:       c.PackageName,
		UploadedAt:        c.UploadedAt,
		SubmittedBy:       c.SubmittedBy,
		Status:            c.Status,
		AcceptedBy:        c.AcceptedBy,
		AcceptedAt:        c.AcceptedAt,
		ReviewedBy:        c.ReviewedBy,
		ReviewedAt:        c.ReviewedAt,
		RejectedBy:        c.RejectedBy,
		RejectedAt:        c.RejectedAt,
		RejectedCause:     c.RejectedCause,
		CheckoutStartedAt: c.CheckoutStartedAt,
		CreatedAt:         c.CreatedAt,
		LastUpdatedAt:     c.LastUpdatedAt,
	}
}

// ListCheckinsParams defines query parameters for listing checkins.
type ListCheckinsParams struct {
	Limit     int     `form:"limit,default=20"`
	NextToken *string `form:"nextToken"`
	Status    *string `form:"status" binding:"omitempty,oneof=pending review accepted rejected"`
}

// ListCheckinsResponse wraps a paginated list of checkins.
type ListCheckinsResponse struct {
	Checkins  []CheckinResponse `json:"checkins"`
	NextToken *string           `json:"nextToken,omitempty"`
}

// ToListCheckinsResponse converts a slice of domain.Checkin to DTO.
func ToListCheckinsResponse(checkins []domain.Checkin, nextToken *string) ListCheckinsResponse {
	list := make([]CheckinResponse, len(checkins))
	for i, c := range checkins {
		list[i] = ToCheckinResponse(&c)
	}
	return ListCheckinsResponse{Checkins: list, NextToken: nextToken}
}

// RejectCheckinRequest defines data for rejecting a checkin.
type RejectCheckinRequest struct {
	RejectedCause string `json:"rejectedCause" binding:"required,min=1,max=2000"`
}

// --- Workflow log DTOs ---

// WorkflowLogResponse defines one entry of a checkin's audit trail.
type WorkflowLogResponse struct {
	LogID       string               `json:"logID"`
	CheckinID   string               `json:"checkinID"`
	CreatedAt   time.Time            `json:"createdAt"`
	UserID      *string              `json:"userID,omitempty"`
	Status      domain.CheckinStatus `json:"status"`
	Description string               `json:"description"`
}

// ToWorkflowLogResponses converts a slice of domain.CheckinWorkflowLog to DTO.
func ToWorkflowLogResponses(logs []domain.CheckinWorkflowLog) []WorkflowLogResponse {
	responses := make([]WorkflowLogResponse, len(logs))
	for i, l := range logs {
		responses[i] = WorkflowLogResponse{
			LogID:       l.LogID,
			CheckinID:   l.CheckinID,
			CreatedAt:   l.CreatedAt,
			UserID:      l.UserID,
			Status:      l.Status,
			Description: l.Description,
		}
	}
	return responses
}
