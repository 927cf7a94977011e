package mapping

import (
	"github.com/articletrack/articletrack_app/internal/core/domain"
	"github.com/articletrack/articletrack_app/internal/models"
)

// ToModelNotice converts a domain Notice to a model Notice
func ToModelNotice(d domain.Notice) models.Notice {
	return models.Notice{
		NoticeID:   d.NoticeID,
		CheckinID:  d.CheckinID,
		Stage:      d.Stage,
		Checkpoint: d.Checkpoint,
		Message:    d.Message,
		Status:     d.Status,
		CreatedAt:  d.CreatedAt,
	}
}

// ToDomainNotice converts a model Notice to a domain Notice
func ToDomainNotice(m models.Notice) domain.Notice {
	return domain.Notice{
		NoticeID:   m.NoticeID,
		CheckinID:  m.CheckinID,
		Stage:      m.Stage,
		Checkpoint: m.Checkpoint,
		Message:    m.Message,
		Status:     m.Status,
		CreatedAt:  m.CreatedAt,
	}
}

// ToDomainNoticeSlice converts a slice of model Notices to a slice of domain Notices
func ToDomainNoticeSlice(ms []models.Notice) []domain.Notice {
	ds := make([]domain.Notice, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainNotice(m)
	}
	return ds
}
