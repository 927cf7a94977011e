package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/articletrack/articletrack_app/internal/apperrors"
	portssvc "github.com/articletrack/articletrack_app/internal/core/ports/services"
	"github.com/articletrack/articletrack_app/internal/dto"
	"github.com/articletrack/articletrack_app/internal/middleware"
	"github.com/gin-gonic/gin"
)

// ingestHandler handles requests from the external validation pipeline.
// These routes are authenticated via API tokens rather than user JWTs.
type ingestHandler struct {
	checkinService portssvc.CheckinSvcFacade
	articleService portssvc.ArticleSvcFacade
}

// newIngestHandler creates a new ingestHandler.
func newIngestHandler(cs portssvc.CheckinSvcFacade, as portssvc.ArticleSvcFacade) *ingestHandler {
	return &ingestHandler{
		checkinService: cs,
		articleService: as,
	}
}

// registerIngestRoutes registers the ingestion routes used by the validation
// pipeline to push deposit attempts and their notices.
func registerIngestRoutes(rg *gin.RouterGroup, checkinService portssvc.CheckinSvcFacade, articleService portssvc.ArticleSvcFacade) {
	h := newIngestHandler(checkinService, articleService)

	collections := rg.Group("/collections/:collection_id")
	{
		collections.POST("/articles", h.ingestArticle)
		collections.POST("/checkins", h.ingestCheckin)
		collections.POST("/checkins/:checkin_id/notices", h.ingestNotice)
	}
}

// ingestArticle godoc
// @Summary Register an article from the ingestion pipeline
// @Description Registers a new article when a deposit arrives for an unknown article. Requires an API token.
// @Tags ingest
// @Accept  json
// @Produce  json
// @Param   collection_id path string true "Collection ID"
// @Param   article body dto.CreateArticleRequest true "Article details"
// @Success 201 {object} dto.ArticleResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 409 {object} map[string]string "Article already exists"
// @Failure 500 {object} map[string]string "Failed to create article"
// @Security BearerAuth
// @Router /ingest/collections/{collection_id}/articles [post]
func (h *ingestHandler) ingestArticle(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	collectionID := c.Param("collection_id")

	var req dto.CreateArticleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for ingestArticle", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	tokenUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("Token user ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	logger = logger.With(slog.String("collection_id", collectionID), slog.String("token_user_id", tokenUserID))
	logger.Info("Received ingest request to register article", slog.String("article_pkg_ref", req.ArticlePkgRef))

	article, err := h.articleService.CreateArticle(c.Request.Context(), collectionID, req, tokenUserID)
	if err != nil {
		if errors.Is(err, apperrors.ErrDuplicate) {
			logger.Warn("Article already exists")
			c.JSON(http.StatusConflict, gin.H{"error": "An article with this package reference already exists"})
		} else if errors.Is(err, apperrors.ErrValidation) {
			logger.Warn("Validation error registering article", slog.String("error", err.Error()))
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		} else {
			logger.Error("Failed to register article via ingest", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create article"})
		}
		return
	}

	logger.Info("Article registered via ingest", slog.String("article_id", article.ArticleID))
	c.JSON(http.StatusCreated, dto.ToArticleResponse(article, false))
}

// ingestCheckin godoc
// @Summary Register a package deposit attempt
// @Description Registers a new checkin for an article. The checkin starts in pending. Requires an API token.
// @Tags ingest
// @Accept  json
// @Produce  json
// @Param   collection_id path string true "Collection ID"
// @Param   checkin body dto.CreateCheckinRequest true "Deposit attempt details"
// @Success 201 {object} dto.CheckinResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 409 {object} map[string]string "Checkin already exists"
// @Failure 500 {object} map[string]string "Failed to create checkin"
// @Security BearerAuth
// @Router /ingest/collections/{collection_id}/checkins [post]
func (h *ingestHandler) ingestCheckin(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	collectionID := c.Param("collection_id")

	var req dto.CreateCheckinRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for ingestCheckin", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	tokenUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("Token user ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	logger = logger.With(slog.String("collection_id", collectionID), slog.String("token_user_id", tokenUserID))
	logger.Info("Received ingest request to register checkin", slog.String("article_id", req.ArticleID), slog.String("package_name", req.PackageName))

	checkin, err := h.checkinService.CreateCheckin(c.Request.Context(), collectionID, req, tokenUserID)
	if err != nil {
		if errors.Is(err, apperrors.ErrValidation) {
			logger.Warn("Validation error registering checkin", slog.String("error", err.Error()))
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		} else if errors.Is(err, apperrors.ErrDuplicate) {
			logger.Warn("Checkin already exists")
			c.JSON(http.StatusConflict, gin.H{"error": "A checkin with this attempt reference already exists"})
		} else {
			logger.Error("Failed to register checkin via ingest", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create checkin"})
		}
		return
	}

	logger.Info("Checkin registered via ingest", slog.String("checkin_id", checkin.CheckinID))
	c.JSON(http.StatusCreated, dto.ToCheckinResponse(checkin))
}

// ingestNotice godoc
// @Summary Append a validation notice to a checkin
// @Description Appends a notice produced by the validation pipeline. Stage markers use serv_begin/serv_end statuses. Requires an API token.
// @Tags ingest
// @Accept  json
// @Produce  json
// @Param   collection_id path string true "Collection ID"
// @Param   checkin_id path string true "Checkin ID"
// @Param   notice body dto.CreateNoticeRequest true "Notice details"
// @Success 201 {object} dto.NoticeResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Checkin not found"
// @Failure 500 {object} map[string]string "Failed to create notice"
// @Security BearerAuth
// @Router /ingest/collections/{collection_id}/checkins/{checkin_id}/notices [post]
func (h *ingestHandler) ingestNotice(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	collectionID := c.Param("collection_id")
	checkinID := c.Param("checkin_id")

	var req dto.CreateNoticeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for ingestNotice", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	if _, ok := middleware.GetUserIDFromContext(c); !ok {
		logger.Error("Token user ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	logger = logger.With(slog.String("collection_id", collectionID), slog.String("checkin_id", checkinID))
	logger.Info("Received ingest request to append notice", slog.String("stage", req.Stage), slog.String("status", req.Status))

	notice, err := h.checkinService.AddNotice(c.Request.Context(), collectionID, checkinID, req)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			logger.Warn("Checkin not found for notice")
			c.JSON(http.StatusNotFound, gin.H{"error": "Checkin not found"})
		} else if errors.Is(err, apperrors.ErrValidation) {
			logger.Warn("Validation error appending notice", slog.String("error", err.Error()))
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		} else {
			logger.Error("Failed to append notice via ingest", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create notice"})
		}
		return
	}

	logger.Info("Notice appended via ingest", slog.String("notice_id", notice.NoticeID))
	c.JSON(http.StatusCreated, dto.ToNoticeResponse(notice))
}
