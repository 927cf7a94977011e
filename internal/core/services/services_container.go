package services

import (
	portsrepo "github.com/articletrack/articletrack_app/internal/core/ports/repositories"
	portssvc "github.com/articletrack/articletrack_app/internal/core/ports/services"
	"github.com/articletrack/articletrack_app/internal/platform/config"
)

// NewServiceContainer creates a new service container with properly initialized dependencies
func NewServiceContainer(cfg *config.Config, repos portsrepo.RepositoryProvider, notifier portssvc.WorkflowNotifier, checkout portssvc.CheckoutClient) *portssvc.ServiceContainer {
	container := &portssvc.ServiceContainer{}

	// Initialize collection service first since other services depend on it
	container.Collection = NewCollectionService(repos.CollectionRepo)

	container.User = NewUserService(repos.UserRepo)
	container.Article = NewArticleService(repos.ArticleRepo, container.Collection)
	container.Checkin = NewCheckinService(
		repos.CheckinRepo,
		repos.NoticeRepo,
		repos.ArticleRepo,
		container.User,
		container.Collection,
		notifier,
		checkout,
	)
	container.Ticket = NewTicketService(repos.TicketRepo, repos.ArticleRepo, container.Collection)
	container.Reporting = NewReportingService(repos.ReportingRepo, WithReportingCollectionAuthorizer(container.Collection))
	container.APIToken = NewAPITokenService(repos.APITokenRepo, container.User)
	container.Token = NewTokenService(cfg, container.User)

	return container
}

// Helper to check interface implementations at compile time
var (
	_ portssvc.CheckinSvcFacade    = (*checkinService)(nil)
	_ portssvc.CollectionSvcFacade = (*collectionService)(nil)
	_ portssvc.UserSvcFacade       = (*userService)(nil)
)
