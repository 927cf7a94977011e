package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/articletrack/articletrack_app/internal/apperrors"
	"github.com/articletrack/articletrack_app/internal/core/domain"
	portssvc "github.com/articletrack/articletrack_app/internal/core/ports/services"
	"github.com/articletrack/articletrack_app/internal/dto"
	"github.com/articletrack/articletrack_app/internal/middleware"
	"github.com/gin-gonic/gin"
)

// checkinHandler handles HTTP requests related to checkins and their workflow.
type checkinHandler struct {
	checkinService portssvc.CheckinSvcFacade
}

// newCheckinHandler creates a new checkinHandler.
func newCheckinHandler(cs portssvc.CheckinSvcFacade) *checkinHandler {
	return &checkinHandler{
		checkinService: cs,
	}
}

// RegisterCheckinRoutes registers checkin routes nested under a collection group.
func RegisterCheckinRoutes(rg *gin.RouterGroup, checkinService portssvc.CheckinSvcFacade) {
	h := newCheckinHandler(checkinService)

	checkins := rg.Group("/checkins")
	{
		checkins.GET("", h.listCheckins)
		checkins.GET("/:checkin_id", h.getCheckin)
		checkins.GET("/:checkin_id/history", h.getWorkflowHistory)
		checkins.GET("/:checkin_id/notices", h.listNotices)
		checkins.GET("/:checkin_id/error-level", h.getErrorLevel)

		// Workflow transitions. Each endpoint runs one atomic transition.
		checkins.POST("/:checkin_id/send-to-review", h.sendToReview)
		checkins.POST("/:checkin_id/review", h.doReview)
		checkins.POST("/:checkin_id/accept", h.accept)
		checkins.POST("/:checkin_id/reject", h.reject)
		checkins.POST("/:checkin_id/send-to-pending", h.sendToPending)
	}
}

// respondTransitionError maps workflow transition errors to HTTP responses.
func respondTransitionError(c *gin.Context, logger *slog.Logger, action string, err error) {
	switch {
	case errors.Is(err, apperrors.ErrNotFound):
		logger.Warn("Checkin not found for transition", slog.String("action", action))
		c.JSON(http.StatusNotFound, gin.H{"error": "Checkin not found"})
	case errors.Is(err, apperrors.ErrForbidden):
		logger.Warn("User forbidden to run transition", slog.String("action", action))
		c.JSON(http.StatusForbidden, gin.H{"error": "You do not have permission to perform this action"})
	case errors.Is(err, apperrors.ErrValidation):
		logger.Warn("Transition guard rejected request", slog.String("action", action), slog.String("error", err.Error()))
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrConflict):
		logger.Warn("Transition conflicts with current state", slog.String("action", action), slog.String("error", err.Error()))
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		logger.Error("Transition failed", slog.String("action", action), slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to perform workflow transition"})
	}
}

// transitionContext extracts the common path params and actor for a
// transition request. Returns false after writing the error response.
func transitionContext(c *gin.Context) (collectionID, checkinID, actorUserID string, logger *slog.Logger, ok bool) {
	logger = middleware.GetLoggerFromCtx(c.Request.Context())
	collectionID = c.Param("collection_id")
	checkinID = c.Param("checkin_id")

	actorUserID, found := middleware.GetUserIDFromContext(c)
	if !found {
		logger.Error("Actor user ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return "", "", "", logger, false
	}

	logger = logger.With(
		slog.String("collection_id", collectionID),
		slog.String("checkin_id", checkinID),
		slog.String("actor_user_id", actorUserID),
	)
	return collectionID, checkinID, actorUserID, logger, true
}

// listCheckins godoc
// @Summary List checkins in a collection
// @Description Retrieves a paginated list of checkins, newest upload first. Supports filtering by workflow status.
// @Tags checkins
// @Produce  json
// @Param   collection_id path string true "Collection ID"
// @Param   limit query int false "Limit number of results" default(20)
// @Param   nextToken query string false "Pagination token from a previous response"
// @Param   status query string false "Filter by workflow status" Enums(pending, review, accepted, rejected)
// @Success 200 {object} dto.ListCheckinsResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Forbidden (not a member)"
// @Failure 500 {object} map[string]string "Failed to list checkins"
// @Security BearerAuth
// @Router /collections/{collection_id}/checkins [get]
func (h *checkinHandler) listCheckins(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	collectionID := c.Param("collection_id")

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var params dto.ListCheckinsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		logger.Warn("Failed to bind query params for ListCheckins", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}

	logger = logger.With(slog.String("collection_id", collectionID), slog.String("user_id", userID))
	logger.Info("Received request to list checkins", slog.Int("limit", params.Limit))

	resp, err := h.checkinService.ListCheckins(c.Request.Context(), collectionID, userID, params)
	if err != nil {
		if errors.Is(err, apperrors.ErrForbidden) {
			logger.Warn("User forbidden to list checkins")
			c.JSON(http.StatusForbidden, gin.H{"error": "You are not a member of this collection"})
		} else if errors.Is(err, apperrors.ErrValidation) {
			logger.Warn("Validation error listing checkins", slog.String("error", err.Error()))
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		} else {
			logger.Error("Failed to list checkins from service", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list checkins"})
		}
		return
	}

	logger.Info("Checkins listed successfully", slog.Int("count", len(resp.Checkins)))
	c.JSON(http.StatusOK, resp)
}

// getCheckin godoc
// @Summary Get a checkin by ID
// @Description Retrieves details for a specific checkin, including its workflow state.
// @Tags checkins
// @Produce  json
// @Param   collection_id path string true "Collection ID"
// @Param   checkin_id path string true "Checkin ID"
// @Success 200 {object} dto.CheckinResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Forbidden (not a member)"
// @Failure 404 {object} map[string]string "Checkin not found"
// @Failure 500 {object} map[string]string "Failed to retrieve checkin"
// @Security BearerAuth
// @Router /collections/{collection_id}/checkins/{checkin_id} [get]
func (h *checkinHandler) getCheckin(c *gin.Context) {
	collectionID, checkinID, userID, logger, ok := transitionContext(c)
	if !ok {
		return
	}

	logger.Info("Received request to get checkin")

	checkin, err := h.checkinService.GetCheckinByID(c.Request.Context(), collectionID, checkinID, userID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			logger.Warn("Checkin not found")
			c.JSON(http.StatusNotFound, gin.H{"error": "Checkin not found"})
		} else if errors.Is(err, apperrors.ErrForbidden) {
			logger.Warn("User forbidden to access checkin")
			c.JSON(http.StatusForbidden, gin.H{"error": "You are not a member of this collection"})
		} else {
			logger.Error("Failed to get checkin from service", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve checkin"})
		}
		return
	}

	logger.Info("Checkin retrieved successfully")
	c.JSON(http.StatusOK, dto.ToCheckinResponse(checkin))
}

// getWorkflowHistory godoc
// @Summary Get a checkin's workflow history
// @Description Retrieves the checkin's audit trail in chronological order. Entries are append-only.
// @Tags checkins
// @Produce  json
// @Param   collection_id path string true "Collection ID"
// @Param   checkin_id path string true "Checkin ID"
// @Success 200 {array} dto.WorkflowLogResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Forbidden (not a member)"
// @Failure 404 {object} map[string]string "Checkin not found"
// @Failure 500 {object} map[string]string "Failed to retrieve workflow history"
// @Security BearerAuth
// @Router /collections/{collection_id}/checkins/{checkin_id}/history [get]
func (h *checkinHandler) getWorkflowHistory(c *gin.Context) {
	collectionID, checkinID, userID, logger, ok := transitionContext(c)
	if !ok {
		return
	}

	logger.Info("Received request to get workflow history")

	logs, err := h.checkinService.ListWorkflowHistory(c.Request.Context(), collectionID, checkinID, userID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			logger.Warn("Checkin not found for workflow history")
			c.JSON(http.StatusNotFound, gin.H{"error": "Checkin not found"})
		} else if errors.Is(err, apperrors.ErrForbidden) {
			logger.Warn("User forbidden to access workflow history")
			c.JSON(http.StatusForbidden, gin.H{"error": "You are not a member of this collection"})
		} else {
			logger.Error("Failed to get workflow history from service", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve workflow history"})
		}
		return
	}

	logger.Info("Workflow history retrieved successfully", slog.Int("count", len(logs)))
	c.JSON(http.StatusOK, dto.ToWorkflowLogResponses(logs))
}

// listNotices godoc
// @Summary List a checkin's validation notices
// @Description Retrieves the checkin's notices newest first, together with the aggregate error level.
// @Description Service stage markers (serv_begin/serv_end rows) are hidden unless includeServiceMarkers is set.
// @Tags checkins
// @Produce  json
// @Param   collection_id path string true "Collection ID"
// @Param   checkin_id path string true "Checkin ID"
// @Param   includeServiceMarkers query bool false "Include serv_* stage marker rows" default(false)
// @Success 200 {object} dto.ListNoticesResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Forbidden (not a member)"
// @Failure 404 {object} map[string]string "Checkin not found"
// @Failure 500 {object} map[string]string "Failed to list notices"
// @Security BearerAuth
// @Router /collections/{collection_id}/checkins/{checkin_id}/notices [get]
func (h *checkinHandler) listNotices(c *gin.Context) {
	collectionID, checkinID, userID, logger, ok := transitionContext(c)
	if !ok {
		return
	}

	includeServiceMarkers := c.Query("includeServiceMarkers") == "true"

	logger.Info("Received request to list notices", slog.Bool("include_service_markers", includeServiceMarkers))

	notices, err := h.checkinService.ListNotices(c.Request.Context(), collectionID, checkinID, includeServiceMarkers)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			logger.Warn("Checkin not found for notices")
			c.JSON(http.StatusNotFound, gin.H{"error": "Checkin not found"})
		} else {
			logger.Error("Failed to list notices from service", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list notices"})
		}
		return
	}

	level, err := h.checkinService.GetCheckinErrorLevel(c.Request.Context(), collectionID, checkinID, userID)
	if err != nil {
		if errors.Is(err, apperrors.ErrForbidden) {
			logger.Warn("User forbidden to access notices")
			c.JSON(http.StatusForbidden, gin.H{"error": "You are not a member of this collection"})
			return
		}
		logger.Error("Failed to compute error level", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list notices"})
		return
	}

	logger.Info("Notices listed successfully", slog.Int("count", len(notices)), slog.String("error_level", string(level)))
	c.JSON(http.StatusOK, dto.ToListNoticesResponse(notices, level))
}

// getErrorLevel godoc
// @Summary Get a checkin's aggregate error level
// @Description Computes the aggregate error level over the checkin's notices (ok, in progress, warning or error).
// @Tags checkins
// @Produce  json
// @Param   collection_id path string true "Collection ID"
// @Param   checkin_id path string true "Checkin ID"
// @Success 200 {object} map[string]string
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Forbidden (not a member)"
// @Failure 404 {object} map[string]string "Checkin not found"
// @Failure 500 {object} map[string]string "Failed to compute error level"
// @Security BearerAuth
// @Router /collections/{collection_id}/checkins/{checkin_id}/error-level [get]
func (h *checkinHandler) getErrorLevel(c *gin.Context) {
	collectionID, checkinID, userID, logger, ok := transitionContext(c)
	if !ok {
		return
	}

	logger.Info("Received request to get checkin error level")

	level, err := h.checkinService.GetCheckinErrorLevel(c.Request.Context(), collectionID, checkinID, userID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			logger.Warn("Checkin not found for error level")
			c.JSON(http.StatusNotFound, gin.H{"error": "Checkin not found"})
		} else if errors.Is(err, apperrors.ErrForbidden) {
			logger.Warn("User forbidden to access checkin error level")
			c.JSON(http.StatusForbidden, gin.H{"error": "You are not a member of this collection"})
		} else {
			logger.Error("Failed to compute checkin error level", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to compute error level"})
		}
		return
	}

	logger.Info("Checkin error level computed", slog.String("error_level", string(level)))
	c.JSON(http.StatusOK, gin.H{"errorLevel": string(level)})
}

// sendToReview godoc
// @Summary Send a checkin to review
// @Description Moves a pending checkin to review. Blocked while the checkin has error-level notices.
// @Tags checkins
// @Produce  json
// @Param   collection_id path string true "Collection ID"
// @Param   checkin_id path string true "Checkin ID"
// @Success 200 {object} dto.CheckinResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Forbidden"
// @Failure 404 {object} map[string]string "Checkin not found"
// @Failure 409 {object} map[string]string "Conflict with current workflow state"
// @Failure 422 {object} map[string]string "Transition guard rejected the request"
// @Failure 500 {object} map[string]string "Failed to perform workflow transition"
// @Security BearerAuth
// @Router /collections/{collection_id}/checkins/{checkin_id}/send-to-review [post]
func (h *checkinHandler) sendToReview(c *gin.Context) {
	h.runTransition(c, "send_to_review", h.checkinService.SendToReview)
}

// doReview godoc
// @Summary Record a review on a checkin
// @Description Records a review on a checkin already in review. The checkin stays in review until accepted or rejected.
// @Tags checkins
// @Produce  json
// @Param   collection_id path string true "Collection ID"
// @Param   checkin_id path string true "Checkin ID"
// @Success 200 {object} dto.CheckinResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Forbidden"
// @Failure 404 {object} map[string]string "Checkin not found"
// @Failure 409 {object} map[string]string "Conflict with current workflow state"
// @Failure 422 {object} map[string]string "Transition guard rejected the request"
// @Failure 500 {object} map[string]string "Failed to perform workflow transition"
// @Security BearerAuth
// @Router /collections/{collection_id}/checkins/{checkin_id}/review [post]
func (h *checkinHandler) doReview(c *gin.Context) {
	h.runTransition(c, "review", h.checkinService.DoReview)
}

// accept godoc
// @Summary Accept a checkin
// @Description Accepts a reviewed checkin. Fails if the article already has an accepted checkin. Triggers checkout asynchronously.
// @Tags checkins
// @Produce  json
// @Param   collection_id path string true "Collection ID"
// @Param   checkin_id path string true "Checkin ID"
// @Success 200 {object} dto.CheckinResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Forbidden"
// @Failure 404 {object} map[string]string "Checkin not found"
// @Failure 409 {object} map[string]string "Article already has an accepted checkin"
// @Failure 422 {object} map[string]string "Transition guard rejected the request"
// @Failure 500 {object} map[string]string "Failed to perform workflow transition"
// @Security BearerAuth
// @Router /collections/{collection_id}/checkins/{checkin_id}/accept [post]
func (h *checkinHandler) accept(c *gin.Context) {
	h.runTransition(c, "accept", h.checkinService.Accept)
}

// sendToPending godoc
// @Summary Send a rejected checkin back to pending
// @Description Moves a rejected checkin back to pending and clears its rejection details.
// @Tags checkins
// @Produce  json
// @Param   collection_id path string true "Collection ID"
// @Param   checkin_id path string true "Checkin ID"
// @Success 200 {object} dto.CheckinResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Forbidden"
// @Failure 404 {object} map[string]string "Checkin not found"
// @Failure 409 {object} map[string]string "Conflict with current workflow state"
// @Failure 422 {object} map[string]string "Transition guard rejected the request"
// @Failure 500 {object} map[string]string "Failed to perform workflow transition"
// @Security BearerAuth
// @Router /collections/{collection_id}/checkins/{checkin_id}/send-to-pending [post]
func (h *checkinHandler) sendToPending(c *gin.Context) {
	h.runTransition(c, "send_to_pending", h.checkinService.SendToPending)
}

// runTransition handles the shared plumbing of the cause-less transitions.
func (h *checkinHandler) runTransition(
	c *gin.Context,
	action string,
	transition func(ctx context.Context, collectionID, checkinID, actorUserID string) (*domain.Checkin, error),
) {
	collectionID, checkinID, actorUserID, logger, ok := transitionContext(c)
	if !ok {
		return
	}

	logger.Info("Received workflow transition request", slog.String("action", action))

	checkin, err := transition(c.Request.Context(), collectionID, checkinID, actorUserID)
	if err != nil {
		respondTransitionError(c, logger, action, err)
		return
	}

	logger.Info("Workflow transition applied", slog.String("action", action), slog.String("new_status", string(checkin.Status)))
	c.JSON(http.StatusOK, dto.ToCheckinResponse(checkin))
}

// reject godoc
// @Summary Reject a checkin
// @Description Rejects a checkin in review. A rejection cause is mandatory and is recorded in the audit trail.
// @Tags checkins
// @Accept  json
// @Produce  json
// @Param   collection_id path string true "Collection ID"
// @Param   checkin_id path string true "Checkin ID"
// @Param   rejection body dto.RejectCheckinRequest true "Rejection cause"
// @Success 200 {object} dto.CheckinResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Forbidden"
// @Failure 404 {object} map[string]string "Checkin not found"
// @Failure 409 {object} map[string]string "Conflict with current workflow state"
// @Failure 422 {object} map[string]string "Transition guard rejected the request"
// @Failure 500 {object} map[string]string "Failed to perform workflow transition"
// @Security BearerAuth
// @Router /collections/{collection_id}/checkins/{checkin_id}/reject [post]
func (h *checkinHandler) reject(c *gin.Context) {
	collectionID, checkinID, actorUserID, logger, ok := transitionContext(c)
	if !ok {
		return
	}

	var req dto.RejectCheckinRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for Reject", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	logger.Info("Received workflow transition request", slog.String("action", "reject"))

	checkin, err := h.checkinService.Reject(c.Request.Context(), collectionID, checkinID, actorUserID, req.RejectedCause)
	if err != nil {
		respondTransitionError(c, logger, "reject", err)
		return
	}

	logger.Info("Workflow transition applied", slog.String("action", "reject"), slog.String("new_status", string(checkin.Status)))
	c.JSON(http.StatusOK, dto.ToCheckinResponse(checkin))
}
