package models

// Article is the row shape for a submitted manuscript and its journal metadata.
type Article struct {
	ArticleID     string `db:"article_id"`
	CollectionID  string `db:"collection_id"`
	ArticleTitle  string `db:"article_title"`
	ArticlePkgRef string `db:"article_pkg_ref"`
	JournalTitle  string `db:"journal_title"`
	IssueLabel    string `db:"issue_label"`
	PISSN         string `db:"pissn"`
	EISSN         string `db:"eissn"`
	AuditFields
}
