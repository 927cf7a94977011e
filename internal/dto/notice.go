package dto

import (
	"time"

	"github.com/articletrack/articletrack_app/internal/core/domain"
)

// CreateNoticeRequest defines data for appending a validation notice.
// Sent by the validation pipeline, authenticated via API token.
type CreateNoticeRequest struct {
	Stage      string `json:"stage" binding:"required"`
	Checkpoint string `json:"checkpoint" binding:"required"`
	Message    string `json:"message"`
	Status     string `json:"status" binding:"required"`
}

// NoticeResponse defines the data returned for a notice.
type NoticeResponse struct {
	NoticeID   string    `json:"noticeID"`
	CheckinID  string    `json:"checkinID"`
	Stage      string    `json:"stage"`
	Checkpoint string    `json:"checkpoint"`
	Message    string    `json:"message"`
	Status     string    `json:"status"`
	CreatedAt  time.Time `json:"createdAt"`
}

// ToNoticeResponse converts a domain.Notice to NoticeResponse DTO.
func ToNoticeResponse(n *domain.Notice) NoticeResponse {
	return NoticeResponse{
		NoticeID:   n.NoticeID,
		CheckinID:  n.CheckinID,
		Stage:      n.Stage,
		Checkpoint: n.Checkpoint,
		Message:    n.Message,
		Status:     n.Status,
		CreatedAt:  n.CreatedAt,
	}
}

// ListNoticesResponse wraps a checkin's notices together with the aggregate
// error level derived from the full notice set.
type ListNoticesResponse struct {
	Notices    []NoticeResponse  `json:"notices"`
	ErrorLevel domain.ErrorLevel `json:"errorLevel"`
}

// ToListNoticesResponse converts domain notices to DTO. The error level is
// computed by the service over the unfiltered set, not the listed one.
func ToListNoticesResponse(notices []domain.Notice, level domain.ErrorLevel) ListNoticesResponse {
	list := make([]NoticeResponse, len(notices))
	for i, n := range notices {
		list[i] = ToNoticeResponse(&n)
	}
	return ListNoticesResponse{Notices: list, ErrorLevel: level}
}
