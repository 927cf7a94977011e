package dto

import (
	"github.com/articletrack/articletrack_app/internal/core/domain"
)

// CollectionDashboardResponse represents the per-collection dashboard data
type CollectionDashboardResponse struct {
	CollectionID string           `json:"collectionID"`
	Checkins     map[string]int64 `json:"checkins"` // status -> count
	Articles     struct {
		Total    int64 `json:"total"`
		Accepted int64 `json:"accepted"`
	} `json:"articles"`
}

// ToCollectionDashboardResponse converts raw count data to a DTO response.
// Every workflow status appears in the map, zero counts included.
func ToCollectionDashboardResponse(collectionID string, statusCounts map[domain.CheckinStatus]int64, totalArticles, acceptedArticles int64) CollectionDashboardResponse {
	resp := CollectionDashboardResponse{
		CollectionID: collectionID,
		Checkins:     make(map[string]int64, 4),
	}
	for _, s := range []domain.CheckinStatus{domain.CheckinPending, domain.CheckinReview, domain.CheckinAccepted, domain.CheckinRejected} {
		resp.Checkins[string(s)] = statusCounts[s]
	}
	resp.Articles.Total = totalArticles
	resp.Articles.Accepted = acceptedArticles
	return resp
}
