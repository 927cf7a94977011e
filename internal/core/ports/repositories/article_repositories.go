package repositories

import (
	"context"

	"github.com/articletrack/articletrack_app/internal/core/domain"
)

// ArticleReader defines read operations for article data
type ArticleReader interface {
	// FindArticleByID retrieves a specific article by its unique identifier.
	FindArticleByID(ctx context.Context, collectionID, articleID string) (*domain.Article, error)

	// ListArticlesByCollection retrieves a paginated list of articles using
	// token-based pagination.
	ListArticlesByCollection(ctx context.Context, collectionID string, limit int, nextToken *string) ([]domain.Article, *string, error)

	// ArticleHasAcceptedCheckin reports whether any checkin of the article
	// holds status accepted.
	ArticleHasAcceptedCheckin(ctx context.Context, articleID string) (bool, error)

	// FindNewestCheckinByArticle retrieves the article's most recently
	// uploaded checkin.
	FindNewestCheckinByArticle(ctx context.Context, articleID string) (*domain.Checkin, error)
}

// ArticleWriter defines write operations for article data
type ArticleWriter interface {
	// SaveArticle persists a new article.
	SaveArticle(ctx context.Context, article domain.Article) error
}

// ArticleRepositoryFacade combines all article-related repository interfaces
type ArticleRepositoryFacade interface {
	ArticleReader
	ArticleWriter
}
