package repositories

import (
	"context"

	"github.com/articletrack/articletrack_app/internal/core/domain"
)

// NoticeReader defines read operations for notice data
type NoticeReader interface {
	// FindNoticesByCheckinID retrieves a checkin's notices, newest first.
	// When includeServiceMarkers is false, serv_* status markers are
	// filtered out (the UI listing hides them).
	FindNoticesByCheckinID(ctx context.Context, checkinID string, includeServiceMarkers bool) ([]domain.Notice, error)
}

// NoticeWriter defines write operations for notice data. Notices are
// append-only; there is no update or delete.
type NoticeWriter interface {
	// SaveNotice persists a new notice.
	SaveNotice(ctx context.Context, notice domain.Notice) error
}

// NoticeRepositoryFacade combines all notice-related repository interfaces
type NoticeRepositoryFacade interface {
	NoticeReader
	NoticeWriter
}
