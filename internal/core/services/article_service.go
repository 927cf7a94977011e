package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/articletrack/articletrack_app/internal/apperrors"
	"github.com/articletrack/articletrack_app/internal/core/domain"
	portsrepo "github.com/articletrack/articletrack_app/internal/core/ports/repositories"
	portssvc "github.com/articletrack/articletrack_app/internal/core/ports/services"
	"github.com/articletrack/articletrack_app/internal/dto"
	"github.com/google/uuid"
)

// articleService provides article read and registration operations.
type articleService struct {
	BaseService
	articleRepo portsrepo.ArticleRepositoryFacade
}

// NewArticleService creates a new ArticleService.
func NewArticleService(articleRepo portsrepo.ArticleRepositoryFacade, collectionSvc portssvc.CollectionAuthorizerSvc) portssvc.ArticleSvcFacade {
	return &articleService{
		BaseService: BaseService{CollectionAuthorizer: collectionSvc},
		articleRepo: articleRepo,
	}
}

var _ portssvc.ArticleSvcFacade = (*articleService)(nil)

// GetArticleByID retrieves a specific article with its acceptance flag and
// its most recently uploaded checkin.
func (s *articleService) GetArticleByID(ctx context.Context, collectionID string, articleID string, requestingUserID string) (*dto.ArticleDetailResponse, error) {
	if err := s.AuthorizeUser(ctx, requestingUserID, collectionID, domain.RoleReadOnly); err != nil {
		return nil, err
	}

	article, err := s.articleRepo.FindArticleByID(ctx, collectionID, articleID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find article by ID", slog.String("article_id", articleID))
		}
		return nil, err
	}

	accepted, err := s.articleRepo.ArticleHasAcceptedCheckin(ctx, articleID)
	if err != nil {
		s.LogError(ctx, err, "Failed to check article acceptance", slog.String("article_id", articleID))
		return nil, err
	}

	// An article without checkins has no newest one; that is not an error.
	newest, err := s.articleRepo.FindNewestCheckinByArticle(ctx, articleID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find newest checkin", slog.String("article_id", articleID))
			return nil, err
		}
		newest = nil
	}

	resp := dto.ToArticleDetailResponse(article, accepted, newest)
	return &resp, nil
}

// ListArticles retrieves a paginated list of articles for a collection.
func (s *articleService) ListArticles(ctx context.Context, collectionID string, requestingUserID string, params dto.ListArticlesParams) (*dto.ListArticlesResponse, error) {
	if err := s.AuthorizeUser(ctx, requestingUserID, collectionID, domain.RoleReadOnly); err != nil {
		return nil, err
	}

	limit := params.Limit
	if limit <= 0 {
		limit = 20
	}

	articles, nextToken, err := s.articleRepo.ListArticlesByCollection(ctx, collectionID, limit, params.NextToken)
	if err != nil {
		s.LogError(ctx, err, "Failed to list articles", slog.String("collection_id", collectionID))
		return nil, fmt.Errorf("failed to retrieve articles: %w", err)
	}

	accepted := make(map[string]bool, len(articles))
	for _, article := range articles {
		hasAccepted, err := s.articleRepo.ArticleHasAcceptedCheckin(ctx, article.ArticleID)
		if err != nil {
			s.LogError(ctx, err, "Failed to check article acceptance", slog.String("article_id", article.ArticleID))
			return nil, fmt.Errorf("failed to retrieve articles: %w", err)
		}
		accepted[article.ArticleID] = hasAccepted
	}

	resp := dto.ToListArticlesResponse(articles, accepted, nextToken)
	return &resp, nil
}

// CreateArticle registers a new article in the collection.
func (s *articleService) CreateArticle(ctx context.Context, collectionID string, req dto.CreateArticleRequest, creatorUserID string) (*domain.Article, error) {
	now := time.Now().UTC()
	article := domain.Article{
		ArticleID:     uuid.NewString(),
		CollectionID:  collectionID,
		ArticleTitle:  req.ArticleTitle,
		ArticlePkgRef: req.ArticlePkgRef,
		JournalTitle:  req.JournalTitle,
		IssueLabel:    req.IssueLabel,
		PISSN:         req.PISSN,
		EISSN:         req.EISSN,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorUserID,
		},
	}

	if err := s.articleRepo.SaveArticle(ctx, article); err != nil {
		s.LogError(ctx, err, "Failed to save article",
			slog.String("article_pkg_ref", req.ArticlePkgRef),
			slog.String("collection_id", collectionID))
		return nil, err
	}

	s.LogInfo(ctx, "Article created",
		slog.String("article_id", article.ArticleID),
		slog.String("collection_id", collectionID))
	return &article, nil
}
