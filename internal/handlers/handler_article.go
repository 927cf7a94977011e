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

// articleHandler handles HTTP requests related to articles.
type articleHandler struct {
	articleService portssvc.ArticleSvcFacade
	checkinService portssvc.CheckinSvcFacade
	ticketService  portssvc.TicketSvcFacade
}

// newArticleHandler creates a new articleHandler.
func newArticleHandler(as portssvc.ArticleSvcFacade, cs portssvc.CheckinSvcFacade, ts portssvc.TicketSvcFacade) *articleHandler {
	return &articleHandler{
		articleService: as,
		checkinService: cs,
		ticketService:  ts,
	}
}

// registerArticleRoutes registers article routes nested under a collection group.
func registerArticleRoutes(rg *gin.RouterGroup, articleService portssvc.ArticleSvcFacade, checkinService portssvc.CheckinSvcFacade, ticketService portssvc.TicketSvcFacade) {
	h := newArticleHandler(articleService, checkinService, ticketService)

	articles := rg.Group("/articles")
	{
		articles.POST("", h.createArticle)
		articles.GET("", h.listArticles)
		articles.GET("/:article_id", h.getArticle)
		articles.GET("/:article_id/checkins", h.listArticleCheckins)
		articles.GET("/:article_id/tickets", h.listArticleTickets)
	}
}

// createArticle godoc
// @Summary Register a new article
// @Description Registers a new article in the collection.
// @Tags articles
// @Accept  json
// @Produce  json
// @Param   collection_id path string true "Collection ID"
// @Param   article body dto.CreateArticleRequest true "Article details"
// @Success 201 {object} dto.ArticleResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Forbidden"
// @Failure 409 {object} map[string]string "Article already exists"
// @Failure 500 {object} map[string]string "Failed to create article"
// @Security BearerAuth
// @Router /collections/{collection_id}/articles [post]
func (h *articleHandler) createArticle(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	collectionID := c.Param("collection_id")

	var req dto.CreateArticleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreateArticle", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	creatorUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("Creator user ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	logger = logger.With(slog.String("collection_id", collectionID), slog.String("creator_user_id", creatorUserID))
	logger.Info("Received request to create article", slog.String("article_title", req.ArticleTitle))

	newArticle, err := h.articleService.CreateArticle(c.Request.Context(), collectionID, req, creatorUserID)
	if err != nil {
		if errors.Is(err, apperrors.ErrValidation) {
			logger.Warn("Validation error creating article", slog.String("error", err.Error()))
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		} else if errors.Is(err, apperrors.ErrForbidden) {
			logger.Warn("User forbidden to create article")
			c.JSON(http.StatusForbidden, gin.H{"error": "You do not have permission to create articles"})
		} else if errors.Is(err, apperrors.ErrDuplicate) {
			logger.Warn("Article already exists")
			c.JSON(http.StatusConflict, gin.H{"error": "An article with this package reference already exists"})
		} else {
			logger.Error("Failed to create article in service", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create article"})
		}
		return
	}

	logger.Info("Article created successfully", slog.String("article_id", newArticle.ArticleID))
	c.JSON(http.StatusCreated, dto.ToArticleResponse(newArticle, false))
}

// listArticles godoc
// @Summary List articles in a collection
// @Description Retrieves a paginated list of articles, newest first.
// @Tags articles
// @Produce  json
// @Param   collection_id path string true "Collection ID"
// @Param   limit query int false "Limit number of results" default(20)
// @Param   nextToken query string false "Pagination token from a previous response"
// @Success 200 {object} dto.ListArticlesResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Forbidden (not a member)"
// @Failure 500 {object} map[string]string "Failed to list articles"
// @Security BearerAuth
// @Router /collections/{collection_id}/articles [get]
func (h *articleHandler) listArticles(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	collectionID := c.Param("collection_id")

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var params dto.ListArticlesParams
	if err := c.ShouldBindQuery(&params); err != nil {
		logger.Warn("Failed to bind query params for ListArticles", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}

	logger = logger.With(slog.String("collection_id", collectionID), slog.String("user_id", userID))
	logger.Info("Received request to list articles", slog.Int("limit", params.Limit))

	resp, err := h.articleService.ListArticles(c.Request.Context(), collectionID, userID, params)
	if err != nil {
		if errors.Is(err, apperrors.ErrForbidden) {
			logger.Warn("User forbidden to list articles")
			c.JSON(http.StatusForbidden, gin.H{"error": "You are not a member of this collection"})
		} else if errors.Is(err, apperrors.ErrValidation) {
			logger.Warn("Validation error listing articles", slog.String("error", err.Error()))
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		} else {
			logger.Error("Failed to list articles from service", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list articles"})
		}
		return
	}

	logger.Info("Articles listed successfully", slog.Int("count", len(resp.Articles)))
	c.JSON(http.StatusOK, resp)
}

// getArticle godoc
// @Summary Get an article by ID
// @Description Retrieves details for a specific article.
// @Tags articles
// @Produce  json
// @Param   collection_id path string true "Collection ID"
// @Param   article_id path string true "Article ID"
// @Success 200 {object} dto.ArticleDetailResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Forbidden (not a member)"
// @Failure 404 {object} map[string]string "Article not found"
// @Failure 500 {object} map[string]string "Failed to retrieve article"
// @Security BearerAuth
// @Router /collections/{collection_id}/articles/{article_id} [get]
func (h *articleHandler) getArticle(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	collectionID := c.Param("collection_id")
	articleID := c.Param("article_id")

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	logger = logger.With(slog.String("collection_id", collectionID), slog.String("article_id", articleID))
	logger.Info("Received request to get article")

	article, err := h.articleService.GetArticleByID(c.Request.Context(), collectionID, articleID, userID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			logger.Warn("Article not found")
			c.JSON(http.StatusNotFound, gin.H{"error": "Article not found"})
		} else if errors.Is(err, apperrors.ErrForbidden) {
			logger.Warn("User forbidden to access article")
			c.JSON(http.StatusForbidden, gin.H{"error": "You are not a member of this collection"})
		} else {
			logger.Error("Failed to get article from service", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve article"})
		}
		return
	}

	logger.Info("Article retrieved successfully")
	c.JSON(http.StatusOK, article)
}

// listArticleCheckins godoc
// @Summary List an article's checkins
// @Description Retrieves all deposit attempts of an article, newest upload first.
// @Tags articles
// @Produce  json
// @Param   collection_id path string true "Collection ID"
// @Param   article_id path string true "Article ID"
// @Success 200 {object} dto.ListCheckinsResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Forbidden (not a member)"
// @Failure 404 {object} map[string]string "Article not found"
// @Failure 500 {object} map[string]string "Failed to list checkins"
// @Security BearerAuth
// @Router /collections/{collection_id}/articles/{article_id}/checkins [get]
func (h *articleHandler) listArticleCheckins(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	collectionID := c.Param("collection_id")
	articleID := c.Param("article_id")

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	logger = logger.With(slog.String("collection_id", collectionID), slog.String("article_id", articleID))
	logger.Info("Received request to list article checkins")

	checkins, err := h.checkinService.ListCheckinsByArticle(c.Request.Context(), collectionID, articleID, userID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			logger.Warn("Article not found for checkin listing")
			c.JSON(http.StatusNotFound, gin.H{"error": "Article not found"})
		} else if errors.Is(err, apperrors.ErrForbidden) {
			logger.Warn("User forbidden to list article checkins")
			c.JSON(http.StatusForbidden, gin.H{"error": "You are not a member of this collection"})
		} else {
			logger.Error("Failed to list article checkins from service", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list checkins"})
		}
		return
	}

	logger.Info("Article checkins listed successfully", slog.Int("count", len(checkins)))
	c.JSON(http.StatusOK, dto.ToListCheckinsResponse(checkins, nil))
}

// listArticleTickets godoc
// @Summary List an article's tickets
// @Description Retrieves the article's tickets, oldest first. Supports filtering to open tickets only.
// @Tags articles
// @Produce  json
// @Param   collection_id path string true "Collection ID"
// @Param   article_id path string true "Article ID"
// @Param   openOnly query bool false "Only return open tickets" default(false)
// @Success 200 {object} dto.ListTicketsResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Forbidden (not a member)"
// @Failure 404 {object} map[string]string "Article not found"
// @Failure 500 {object} map[string]string "Failed to list tickets"
// @Security BearerAuth
// @Router /collections/{collection_id}/articles/{article_id}/tickets [get]
func (h *articleHandler) listArticleTickets(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	collectionID := c.Param("collection_id")
	articleID := c.Param("article_id")

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	openOnly := c.Query("openOnly") == "true"

	logger = logger.With(slog.String("collection_id", collectionID), slog.String("article_id", articleID))
	logger.Info("Received request to list article tickets", slog.Bool("open_only", openOnly))

	tickets, err := h.ticketService.ListTicketsByArticle(c.Request.Context(), collectionID, articleID, userID, openOnly)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			logger.Warn("Article not found for ticket listing")
			c.JSON(http.StatusNotFound, gin.H{"error": "Article not found"})
		} else if errors.Is(err, apperrors.ErrForbidden) {
			logger.Warn("User forbidden to list article tickets")
			c.JSON(http.StatusForbidden, gin.H{"error": "You are not a member of this collection"})
		} else {
			logger.Error("Failed to list article tickets from service", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list tickets"})
		}
		return
	}

	logger.Info("Article tickets listed successfully", slog.Int("count", len(tickets)))
	c.JSON(http.StatusOK, dto.ToListTicketsResponse(tickets))
}
