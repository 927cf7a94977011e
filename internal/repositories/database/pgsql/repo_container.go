package pgsql

import (
	portsrepo "github.com/articletrack/articletrack_app/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

// NewRepositoryProvider creates all pgsql-backed repositories and bundles them
// for the service container.
func NewRepositoryProvider(dbPool *pgxpool.Pool) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		CheckinRepo:    newPgxCheckinRepository(dbPool),
		NoticeRepo:     newPgxNoticeRepository(dbPool),
		ArticleRepo:    newPgxArticleRepository(dbPool),
		TicketRepo:     newPgxTicketRepository(dbPool),
		UserRepo:       newPgxUserRepository(dbPool),
		CollectionRepo: newPgxCollectionRepository(dbPool),
		APITokenRepo:   newPgxAPITokenRepository(dbPool),
		ReportingRepo:  newPgxReportingRepository(dbPool),
	}
}
