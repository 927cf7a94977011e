package dto

import (
	"time"

	"github.com/articletrack/articletrack_app/internal/core/domain"
)

// CreateArticleRequest defines data for registering a new article.
type CreateArticleRequest struct {
	ArticleTitle  string `json:"articleTitle" binding:"required"`
	ArticlePkgRef string `json:"articlePkgRef" binding:"required"`
	JournalTitle  string `json:"journalTitle" binding:"required"`
	IssueLabel    string `json:"issueLabel"`
	PISSN         string `json:"pissn" binding:"omitempty,issn"`
	EISSN         string `json:"eissn" binding:"omitempty,issn"`
}

// ArticleResponse defines the data returned for an article. IsAccepted
// reports whether any checkin of the article has reached accepted status.
type ArticleResponse struct {
	ArticleID     string    `json:"articleID"`
	CollectionID  string    `json:"collectionID"`
	ArticleTitle  string    `json:"articleTitle"`
	ArticlePkgRef string    `json:"articlePkgRef"`
	JournalTitle  string    `json:"journalTitle"`
	IssueLabel    string    `json:"issueLabel,omitempty"`
	PISSN         string    `json:"pissn,omitempty"`
	EISSN         string    `json:"eissn,omitempty"`
	IsAccepted    bool      `json:"isAccepted"`
	CreatedAt     time.Time `json:"createdAt"`
}

// ToArticleResponse converts a domain.Article to ArticleResponse DTO.
func ToArticleResponse(a *domain.Article, isAccepted bool) ArticleResponse {
	return ArticleResponse{
		ArticleID:     a.ArticleID,
		CollectionID:  a.CollectionID,
		ArticleTitle:  a.ArticleTitle,
		ArticlePkgRef: a.ArticlePkgRef,
		JournalTitle:  a.JournalTitle,
		IssueLabel:    a.IssueLabel,
		PISSN:         a.PISSN,
		EISSN:         a.EISSN,
		IsAccepted:    isAccepted,
		CreatedAt:     a.CreatedAt,
	}
}

// ArticleDetailResponse extends ArticleResponse with the article's most
// recently uploaded checkin, when one exists.
type ArticleDetailResponse struct {
	ArticleResponse
	NewestCheckin *CheckinResponse `json:"newestCheckin,omitempty"`
}

// ToArticleDetailResponse converts a domain.Article with its acceptance flag
// and newest checkin to the detail DTO.
func ToArticleDetailResponse(a *domain.Article, isAccepted bool, newestCheckin *domain.Checkin) ArticleDetailResponse {
	resp := ArticleDetailResponse{ArticleResponse: ToArticleResponse(a, isAccepted)}
	if newestCheckin != nil {
		checkinResp := ToCheckinResponse(newestCheckin)
		resp.NewestCheckin = &checkinResp
	}
	return resp
}

// ListArticlesParams defines query parameters for listing articles.
type ListArticlesParams struct {
	Limit     int     `form:"limit,default=20"`
	NextToken *string `form:"nextToken"`
}

// ListArticlesResponse wraps a paginated list of articles.
type ListArticlesResponse struct {
	Articles  []ArticleResponse `json:"articles"`
	NextToken *string           `json:"nextToken,omitempty"`
}

// ToListArticlesResponse converts a slice of domain.Article to DTO. The
// accepted map carries the per-article acceptance flags, keyed by article ID.
func ToListArticlesResponse(articles []domain.Article, accepted map[string]bool, nextToken *string) ListArticlesResponse {
	list := make([]ArticleResponse, len(articles))
	for i, a := range articles {
		list[i] = ToArticleResponse(&a, accepted[a.ArticleID])
	}
	return ListArticlesResponse{Articles: list, NextToken: nextToken}
}
