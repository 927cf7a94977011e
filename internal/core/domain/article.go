package domain

// Article aggregates all checkins for one submitted manuscript. Checkins are
// created against an article by the external ingestion service; the article
// itself carries the manuscript and journal metadata.
type Article struct {
	ArticleID     string `json:"articleID"`     // Primary Key (e.g., UUID)
	CollectionID  string `json:"collectionID"`  // FK -> collections.collection_id (NON-NULL)
	ArticleTitle  string `json:"articleTitle"`
	ArticlePkgRef string `json:"articlePkgRef"` // Package reference assigned at submission
	JournalTitle  string `json:"journalTitle"`
	IssueLabel    string `json:"issueLabel"`
	PISSN         string `json:"pissn"`
	EISSN         string `json:"eissn"`
	AuditFields
}
