package repositories

// RepositoryProvider holds all repository interfaces needed by services.
// This makes passing dependencies to the service container constructor cleaner.
type RepositoryProvider struct {
	CheckinRepo    CheckinRepositoryWithTx
	NoticeRepo     NoticeRepositoryFacade
	ArticleRepo    ArticleRepositoryFacade
	TicketRepo     TicketRepositoryFacade
	UserRepo       UserRepositoryFacade
	CollectionRepo CollectionRepositoryFacade
	APITokenRepo   APITokenRepository
	ReportingRepo  ReportingRepository
}
