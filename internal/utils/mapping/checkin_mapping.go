package mapping

import (
	"github.com/articletrack/articletrack_app/internal/core/domain"
	"github.com/articletrack/articletrack_app/internal/models"
)

// ToModelCheckin converts a domain Checkin to a model Checkin
func ToModelCheckin(d domain.Checkin) models.Checkin {
	return models.Checkin{
		CheckinID:         d.CheckinID,
		CollectionID:      d.CollectionID,
		ArticleID:         d.ArticleID,
		AttemptRef:        d.AttemptRef,
		PackageName:       d.PackageName,
		UploadedAt:        d.UploadedAt,
		SubmittedBy:       d.SubmittedBy,
		Status:            string(d.Status),
		AcceptedBy:        d.AcceptedBy,
		AcceptedAt:        d.AcceptedAt,
		ReviewedBy:        d.ReviewedBy,
		ReviewedAt:        d.ReviewedAt,
		RejectedBy:        d.RejectedBy,
		RejectedAt:        d.RejectedAt,
		RejectedCause:     d.RejectedCause,
		CheckoutStartedAt: d.CheckoutStartedAt,
		AuditFields:       ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainCheckin converts a model Checkin to a domain Checkin
func ToDomainCheckin(m models.Checkin) domain.Checkin {
	return domain.Checkin{
		CheckinID:         m.CheckinID,
		CollectionID:      m.CollectionID,
		ArticleID:         m.ArticleID,
		AttemptRef:        m.AttemptRef,
		PackageName:       m.PackageName,
		UploadedAt:        m.UploadedAt,
		SubmittedBy:       m.SubmittedBy,
		Status:            domain.CheckinStatus(m.Status),
		AcceptedBy:        m.AcceptedBy,
		AcceptedAt:        m.AcceptedAt,
		ReviewedBy:        m.ReviewedBy,
		ReviewedAt:        m.ReviewedAt,
		RejectedBy:        m.RejectedBy,
		RejectedAt:        m.RejectedAt,
		RejectedCause:     m.RejectedCause,
		CheckoutStartedAt: m.CheckoutStartedAt,
		AuditFields:       ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainCheckinSlice converts a slice of model Checkins to a slice of domain Checkins
func ToDomainCheckinSlice(ms []models.Checkin) []domain.Checkin {
	ds := make([]domain.Checkin, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainCheckin(m)
	}
	return ds
}

// ToModelWorkflowLog converts a domain CheckinWorkflowLog to its model shape
func ToModelWorkflowLog(d domain.CheckinWorkflowLog) models.CheckinWorkflowLog {
	return models.CheckinWorkflowLog{
		LogID:       d.LogID,
		CheckinID:   d.CheckinID,
		CreatedAt:   d.CreatedAt,
		UserID:      d.UserID,
		Status:      string(d.Status),
		Description: d.Description,
	}
}

// ToDomainWorkflowLog converts a model CheckinWorkflowLog to its domain shape
func ToDomainWorkflowLog(m models.CheckinWorkflowLog) domain.CheckinWorkflowLog {
	return domain.CheckinWorkflowLog{
		LogID:       m.LogID,
		CheckinID:   m.CheckinID,
		CreatedAt:   m.CreatedAt,
		UserID:      m.UserID,
		Status:      domain.CheckinStatus(m.Status),
		Description: m.Description,
	}
}

// ToDomainWorkflowLogSlice converts a slice of model workflow logs to domain shape
func ToDomainWorkflowLogSlice(ms []models.CheckinWorkflowLog) []domain.CheckinWorkflowLog {
	ds := make([]domain.CheckinWorkflowLog, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainWorkflowLog(m)
	}
	return ds
}
