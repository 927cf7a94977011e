package services

import (
	"context"

	"github.com/articletrack/articletrack_app/internal/core/domain"
	"github.com/articletrack/articletrack_app/internal/dto"
)

// ArticleReaderSvc defines read operations for article data
type ArticleReaderSvc interface {
	// GetArticleByID retrieves a specific article by its ID, together with
	// its acceptance flag and newest checkin.
	GetArticleByID(ctx context.Context, collectionID string, articleID string, requestingUserID string) (*dto.ArticleDetailResponse, error)

	// ListArticles retrieves a paginated list of articles in a collection.
	ListArticles(ctx context.Context, collectionID string, requestingUserID string, params dto.ListArticlesParams) (*dto.ListArticlesResponse, error)
}

// ArticleWriterSvc defines write operations for article data
type ArticleWriterSvc interface {
	// CreateArticle registers a new article. Used by the ingestion pipeline
	// when a deposit arrives for an unknown article.
	CreateArticle(ctx context.Context, collectionID string, req dto.CreateArticleRequest, creatorUserID string) (*domain.Article, error)
}

// ArticleSvcFacade combines all article-related service interfaces
type ArticleSvcFacade interface {
	ArticleReaderSvc
	ArticleWriterSvc
}
