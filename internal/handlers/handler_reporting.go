package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/articletrack/articletrack_app/internal/apperrors"
	portssvc "github.com/articletrack/articletrack_app/internal/core/ports/services"
	"github.com/articletrack/articletrack_app/internal/middleware"
	"github.com/gin-gonic/gin"
)

// reportingHandler handles HTTP requests related to dashboard data
type reportingHandler struct {
	reportingService portssvc.ReportingService
}

// newReportingHandler creates a new reportingHandler
func newReportingHandler(rs portssvc.ReportingService) *reportingHandler {
	return &reportingHandler{
		reportingService: rs,
	}
}

// registerReportingRoutes registers dashboard routes nested under a collection group.
func registerReportingRoutes(rg *gin.RouterGroup, reportingService portssvc.ReportingService) {
	h := newReportingHandler(reportingService)

	rg.GET("/dashboard", h.getDashboard)
}

// getDashboard godoc
// @Summary Get collection dashboard
// @Description Retrieves per-status checkin counts and article totals for a collection.
// @Tags dashboard
// @Produce json
// @Param collection_id path string true "Collection ID"
// @Success 200 {object} dto.CollectionDashboardResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Forbidden (not a member)"
// @Failure 404 {object} map[string]string "Collection not found"
// @Failure 500 {object} map[string]string "Failed to generate dashboard"
// @Security BearerAuth
// @Router /collections/{collection_id}/dashboard [get]
func (h *reportingHandler) getDashboard(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	collectionID := c.Param("collection_id")
	if collectionID == "" {
		logger.Error("Collection ID missing from path for getDashboard")
		c.JSON(http.StatusBadRequest, gin.H{"error": "Collection ID required in path"})
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	logger = logger.With(
		slog.String("user_id", userID),
		slog.String("collection_id", collectionID),
	)
	logger.Info("Received request to generate collection dashboard")

	dashboard, err := h.reportingService.CollectionDashboard(c.Request.Context(), collectionID, userID)
	if err != nil {
		if errors.Is(err, apperrors.ErrForbidden) {
			logger.Warn("User forbidden to access collection dashboard")
			c.JSON(http.StatusForbidden, gin.H{"error": "You do not have permission to access this dashboard"})
		} else if errors.Is(err, apperrors.ErrNotFound) {
			logger.Warn("Collection not found")
			c.JSON(http.StatusNotFound, gin.H{"error": "Collection not found"})
		} else {
			logger.Error("Failed to generate collection dashboard", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate dashboard"})
		}
		return
	}

	logger.Info("Collection dashboard generated successfully")
	c.JSON(http.StatusOK, dashboard)
}
