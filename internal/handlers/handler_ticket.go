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

// ticketHandler handles HTTP requests related to tickets and comments.
type ticketHandler struct {
	ticketService portssvc.TicketSvcFacade
}

// newTicketHandler creates a new ticketHandler.
func newTicketHandler(ts portssvc.TicketSvcFacade) *ticketHandler {
	return &ticketHandler{
		ticketService: ts,
	}
}

// registerTicketRoutes registers ticket routes nested under a collection group.
func registerTicketRoutes(rg *gin.RouterGroup, ticketService portssvc.TicketSvcFacade) {
	h := newTicketHandler(ticketService)

	tickets := rg.Group("/tickets")
	{
		tickets.POST("", h.openTicket)
		tickets.GET("/:ticket_id", h.getTicket)
		tickets.POST("/:ticket_id/close", h.closeTicket)
		tickets.POST("/:ticket_id/comments", h.addComment)
	}
}

// openTicket godoc
// @Summary Open a ticket
// @Description Opens a new ticket against an article in the collection.
// @Tags tickets
// @Accept  json
// @Produce  json
// @Param   collection_id path string true "Collection ID"
// @Param   ticket body dto.CreateTicketRequest true "Ticket details"
// @Success 201 {object} dto.TicketResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Forbidden"
// @Failure 404 {object} map[string]string "Article not found"
// @Failure 500 {object} map[string]string "Failed to open ticket"
// @Security BearerAuth
// @Router /collections/{collection_id}/tickets [post]
func (h *ticketHandler) openTicket(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	collectionID := c.Param("collection_id")

	var req dto.CreateTicketRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for OpenTicket", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	authorUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("Author user ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	logger = logger.With(slog.String("collection_id", collectionID), slog.String("author_user_id", authorUserID))
	logger.Info("Received request to open ticket", slog.String("article_id", req.ArticleID))

	newTicket, err := h.ticketService.OpenTicket(c.Request.Context(), collectionID, req, authorUserID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			logger.Warn("Article not found for ticket")
			c.JSON(http.StatusNotFound, gin.H{"error": "Article not found"})
		} else if errors.Is(err, apperrors.ErrForbidden) {
			logger.Warn("User forbidden to open ticket")
			c.JSON(http.StatusForbidden, gin.H{"error": "You do not have permission to open tickets"})
		} else if errors.Is(err, apperrors.ErrValidation) {
			logger.Warn("Validation error opening ticket", slog.String("error", err.Error()))
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		} else {
			logger.Error("Failed to open ticket in service", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to open ticket"})
		}
		return
	}

	logger.Info("Ticket opened successfully", slog.String("ticket_id", newTicket.TicketID))
	c.JSON(http.StatusCreated, dto.ToTicketResponse(newTicket))
}

// getTicket godoc
// @Summary Get a ticket with its comments
// @Description Retrieves a ticket and its full comment thread.
// @Tags tickets
// @Produce  json
// @Param   collection_id path string true "Collection ID"
// @Param   ticket_id path string true "Ticket ID"
// @Success 200 {object} dto.TicketDetailResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Forbidden (not a member)"
// @Failure 404 {object} map[string]string "Ticket not found"
// @Failure 500 {object} map[string]string "Failed to retrieve ticket"
// @Security BearerAuth
// @Router /collections/{collection_id}/tickets/{ticket_id} [get]
func (h *ticketHandler) getTicket(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	collectionID := c.Param("collection_id")
	ticketID := c.Param("ticket_id")

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	logger = logger.With(slog.String("collection_id", collectionID), slog.String("ticket_id", ticketID))
	logger.Info("Received request to get ticket")

	detail, err := h.ticketService.GetTicketByID(c.Request.Context(), collectionID, ticketID, userID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			logger.Warn("Ticket not found")
			c.JSON(http.StatusNotFound, gin.H{"error": "Ticket not found"})
		} else if errors.Is(err, apperrors.ErrForbidden) {
			logger.Warn("User forbidden to access ticket")
			c.JSON(http.StatusForbidden, gin.H{"error": "You are not a member of this collection"})
		} else {
			logger.Error("Failed to get ticket from service", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve ticket"})
		}
		return
	}

	logger.Info("Ticket retrieved successfully", slog.Int("comment_count", len(detail.Comments)))
	c.JSON(http.StatusOK, detail)
}

// closeTicket godoc
// @Summary Close a ticket
// @Description Closes an open ticket. Only the ticket author or a collection admin can close it.
// @Tags tickets
// @Produce  json
// @Param   collection_id path string true "Collection ID"
// @Param   ticket_id path string true "Ticket ID"
// @Success 204 "No Content"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Forbidden"
// @Failure 404 {object} map[string]string "Ticket not found or already closed"
// @Failure 500 {object} map[string]string "Failed to close ticket"
// @Security BearerAuth
// @Router /collections/{collection_id}/tickets/{ticket_id}/close [post]
func (h *ticketHandler) closeTicket(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	collectionID := c.Param("collection_id")
	ticketID := c.Param("ticket_id")

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	logger = logger.With(slog.String("collection_id", collectionID), slog.String("ticket_id", ticketID), slog.String("user_id", userID))
	logger.Info("Received request to close ticket")

	err := h.ticketService.CloseTicket(c.Request.Context(), collectionID, ticketID, userID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			logger.Warn("Ticket not found or already closed")
			c.JSON(http.StatusNotFound, gin.H{"error": "Ticket not found or already closed"})
		} else if errors.Is(err, apperrors.ErrForbidden) {
			logger.Warn("User forbidden to close ticket")
			c.JSON(http.StatusForbidden, gin.H{"error": "Only the ticket author or a collection admin can close this ticket"})
		} else {
			logger.Error("Failed to close ticket in service", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to close ticket"})
		}
		return
	}

	logger.Info("Ticket closed successfully")
	c.Status(http.StatusNoContent)
}

// addComment godoc
// @Summary Comment on a ticket
// @Description Appends a comment to an open ticket.
// @Tags tickets
// @Accept  json
// @Produce  json
// @Param   collection_id path string true "Collection ID"
// @Param   ticket_id path string true "Ticket ID"
// @Param   comment body dto.CreateCommentRequest true "Comment content"
// @Success 201 {object} dto.CommentResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Forbidden"
// @Failure 404 {object} map[string]string "Ticket not found"
// @Failure 409 {object} map[string]string "Ticket is closed"
// @Failure 500 {object} map[string]string "Failed to add comment"
// @Security BearerAuth
// @Router /collections/{collection_id}/tickets/{ticket_id}/comments [post]
func (h *ticketHandler) addComment(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	collectionID := c.Param("collection_id")
	ticketID := c.Param("ticket_id")

	var req dto.CreateCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for AddComment", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	authorUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("Author user ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	logger = logger.With(slog.String("collection_id", collectionID), slog.String("ticket_id", ticketID), slog.String("author_user_id", authorUserID))
	logger.Info("Received request to add comment")

	comment, err := h.ticketService.AddComment(c.Request.Context(), collectionID, ticketID, req, authorUserID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			logger.Warn("Ticket not found for comment")
			c.JSON(http.StatusNotFound, gin.H{"error": "Ticket not found"})
		} else if errors.Is(err, apperrors.ErrForbidden) {
			logger.Warn("User forbidden to comment on ticket")
			c.JSON(http.StatusForbidden, gin.H{"error": "You do not have permission to comment on this ticket"})
		} else if errors.Is(err, apperrors.ErrConflict) {
			logger.Warn("Comment rejected, ticket is closed")
			c.JSON(http.StatusConflict, gin.H{"error": "Cannot comment on a closed ticket"})
		} else if errors.Is(err, apperrors.ErrValidation) {
			logger.Warn("Validation error adding comment", slog.String("error", err.Error()))
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		} else {
			logger.Error("Failed to add comment in service", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to add comment"})
		}
		return
	}

	logger.Info("Comment added successfully", slog.String("comment_id", comment.CommentID))
	c.JSON(http.StatusCreated, dto.ToCommentResponse(comment))
}
