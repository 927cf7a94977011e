package mapping

import (
	"github.com/articletrack/articletrack_app/internal/core/domain"
	"github.com/articletrack/articletrack_app/internal/models"
)

// ToModelArticle converts a domain Article to a model Article
func ToModelArticle(d domain.Article) models.Article {
	return models.Article{
		ArticleID:     d.ArticleID,
		CollectionID:  d.CollectionID,
		ArticleTitle:  d.ArticleTitle,
		ArticlePkgRef: d.ArticlePkgRef,
		JournalTitle:  d.JournalTitle,
		IssueLabel:    d.IssueLabel,
		PISSN:         d.PISSN,
		EISSN:         d.EISSN,
		AuditFields:   ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainArticle converts a model Article to a domain Article
func ToDomainArticle(m models.Article) domain.Article {
	return domain.Article{
		ArticleID:     m.ArticleID,
		CollectionID:  m.CollectionID,
		ArticleTitle:  m.ArticleTitle,
		ArticlePkgRef: m.ArticlePkgRef,
		JournalTitle:  m.JournalTitle,
		IssueLabel:    m.IssueLabel,
		PISSN:         m.PISSN,
		EISSN:         m.EISSN,
		AuditFields:   ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainArticleSlice converts a slice of model Articles to a slice of domain Articles
func ToDomainArticleSlice(ms []models.Article) []domain.Article {
	ds := make([]domain.Article, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainArticle(m)
	}
	return ds
}
