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

// collectionHandler handles HTTP requests related to collections.
type collectionHandler struct {
	collectionService portssvc.CollectionSvcFacade
}

// newCollectionHandler creates a new collectionHandler.
func newCollectionHandler(cs portssvc.CollectionSvcFacade) *collectionHandler {
	return &collectionHandler{
		collectionService: cs,
	}
}

// registerCollectionRoutes registers routes related to collections and their members.
// It also registers CHECKIN, ARTICLE, TICKET and DASHBOARD routes nested under
// a specific collection.
func registerCollectionRoutes(
	rg *gin.RouterGroup,
	collectionService portssvc.CollectionSvcFacade,
	checkinService portssvc.CheckinSvcFacade,
	articleService portssvc.ArticleSvcFacade,
	ticketService portssvc.TicketSvcFacade,
	reportingService portssvc.ReportingService,
) {
	h := newCollectionHandler(collectionService)

	// Routes for managing collections themselves
	collectionsTopLevel := rg.Group("/collections")
	{
		collectionsTopLevel.POST("", h.createCollection)
		collectionsTopLevel.GET("", h.listUserCollections) // List collections the calling user belongs to
	}

	// Routes specific to a single collection (identified by collection_id)
	collectionSpecific := rg.Group("/collections/:collection_id")
	{
		collectionSpecific.GET("", h.getCollection)

		// Manage users within a collection
		collectionUsers := collectionSpecific.Group("/users")
		{
			collectionUsers.POST("", h.addUserToCollection)
			collectionUsers.GET("", h.listCollectionUsers)
		}

		// -- NESTED CHECKIN ROUTES --
		RegisterCheckinRoutes(collectionSpecific, checkinService)

		// -- NESTED ARTICLE ROUTES --
		registerArticleRoutes(collectionSpecific, articleService, checkinService, ticketService)

		// -- NESTED TICKET ROUTES --
		registerTicketRoutes(collectionSpecific, ticketService)

		// -- NESTED DASHBOARD ROUTES --
		registerReportingRoutes(collectionSpecific, reportingService)
	}
}

// createCollection godoc
// @Summary Create a new collection
// @Description Creates a new collection and assigns the creator as admin.
// @Tags collections
// @Accept  json
// @Produce  json
// @Param   collection body dto.CreateCollectionRequest true "Collection details"
// @Success 201 {object} dto.CollectionResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to create collection"
// @Security BearerAuth
// @Router /collections [post]
func (h *collectionHandler) createCollection(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateCollectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreateCollection", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	creatorUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("Creator user ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	logger = logger.With(slog.String("creator_user_id", creatorUserID))
	logger.Info("Received request to create collection", slog.String("collection_name", req.Name))

	newCollection, err := h.collectionService.CreateCollection(c.Request.Context(), req.Name, req.Acronym, req.Description, creatorUserID)
	if err != nil {
		if errors.Is(err, apperrors.ErrValidation) {
			logger.Warn("Validation error creating collection", slog.String("error", err.Error()))
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		} else {
			logger.Error("Failed to create collection in service", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create collection"})
		}
		return
	}

	logger.Info("Collection created successfully", slog.String("collection_id", newCollection.CollectionID))
	c.JSON(http.StatusCreated, dto.ToCollectionResponse(newCollection))
}

// getCollection godoc
// @Summary Get a collection by ID
// @Description Retrieves details for a specific collection.
// @Tags collections
// @Produce  json
// @Param   collection_id path string true "Collection ID"
// @Success 200 {object} dto.CollectionResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Collection not found"
// @Failure 500 {object} map[string]string "Failed to retrieve collection"
// @Security BearerAuth
// @Router /collections/{collection_id} [get]
func (h *collectionHandler) getCollection(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	collectionID := c.Param("collection_id")

	if _, ok := middleware.GetUserIDFromContext(c); !ok {
		logger.Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	logger = logger.With(slog.String("collection_id", collectionID))
	logger.Info("Received request to get collection")

	collection, err := h.collectionService.FindCollectionByID(c.Request.Context(), collectionID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			logger.Warn("Collection not found")
			c.JSON(http.StatusNotFound, gin.H{"error": "Collection not found"})
		} else {
			logger.Error("Failed to get collection from service", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve collection"})
		}
		return
	}

	logger.Info("Collection retrieved successfully")
	c.JSON(http.StatusOK, dto.ToCollectionResponse(collection))
}

// listUserCollections godoc
// @Summary List collections for current user
// @Description Retrieves a list of collections the authenticated user belongs to.
// @Tags collections
// @Produce  json
// @Success 200 {object} dto.ListCollectionsResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to list collections"
// @Security BearerAuth
// @Router /collections [get]
func (h *collectionHandler) listUserCollections(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	logger = logger.With(slog.String("user_id", userID))
	logger.Info("Received request to list user's collections")

	collections, err := h.collectionService.ListUserCollections(c.Request.Context(), userID)
	if err != nil {
		logger.Error("Failed to list collections from service", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list collections"})
		return
	}

	logger.Info("Collections listed successfully", slog.Int("count", len(collections)))
	c.JSON(http.StatusOK, dto.ToListCollectionsResponse(collections))
}

// addUserToCollection godoc
// @Summary Add a user to a collection
// @Description Adds a specified user to a collection with a given role (requires admin permission).
// @Tags collections
// @Accept  json
// @Produce  json
// @Param   collection_id path string true "Collection ID"
// @Param   user_details body dto.AddUserToCollectionRequest true "User ID and Role"
// @Success 204 "No Content"
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Forbidden (requires admin)"
// @Failure 404 {object} map[string]string "Collection or user not found"
// @Failure 500 {object} map[string]string "Failed to add user to collection"
// @Security BearerAuth
// @Router /collections/{collection_id}/users [post]
func (h *collectionHandler) addUserToCollection(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	collectionID := c.Param("collection_id")

	var req dto.AddUserToCollectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for AddUserToCollection", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	addingUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("Adding user ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	logger = logger.With(
		slog.String("collection_id", collectionID),
		slog.String("adding_user_id", addingUserID),
		slog.String("target_user_id", req.UserID),
	)
	logger.Info("Received request to add user to collection", slog.String("role", string(req.Role)))

	err := h.collectionService.AddUserToCollection(c.Request.Context(), addingUserID, req.UserID, collectionID, req.Role)
	if err != nil {
		if errors.Is(err, apperrors.ErrForbidden) {
			logger.Warn("User forbidden to add members to collection")
			c.JSON(http.StatusForbidden, gin.H{"error": "Only collection admins can add users"})
		} else if errors.Is(err, apperrors.ErrNotFound) {
			logger.Warn("Collection or target user not found")
			c.JSON(http.StatusNotFound, gin.H{"error": "Collection or user not found"})
		} else if errors.Is(err, apperrors.ErrValidation) {
			logger.Warn("Validation error adding user to collection", slog.String("error", err.Error()))
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		} else {
			logger.Error("Failed to add user to collection in service", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to add user to collection"})
		}
		return
	}

	logger.Info("User added to collection successfully")
	c.Status(http.StatusNoContent)
}

// listCollectionUsers godoc
// @Summary List users of a collection
// @Description Retrieves all users and their roles for a specific collection. Requires membership.
// @Tags collections
// @Produce  json
// @Param   collection_id path string true "Collection ID"
// @Success 200 {array} dto.UserCollectionResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Forbidden (not a member)"
// @Failure 500 {object} map[string]string "Failed to list collection users"
// @Security BearerAuth
// @Router /collections/{collection_id}/users [get]
func (h *collectionHandler) listCollectionUsers(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	collectionID := c.Param("collection_id")

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	logger = logger.With(slog.String("collection_id", collectionID), slog.String("user_id", userID))
	logger.Info("Received request to list collection users")

	memberships, err := h.collectionService.ListCollectionUsers(c.Request.Context(), collectionID, userID)
	if err != nil {
		if errors.Is(err, apperrors.ErrForbidden) {
			logger.Warn("User forbidden to list collection users")
			c.JSON(http.StatusForbidden, gin.H{"error": "You are not a member of this collection"})
		} else {
			logger.Error("Failed to list collection users from service", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list collection users"})
		}
		return
	}

	responses := make([]dto.UserCollectionResponse, len(memberships))
	for i := range memberships {
		responses[i] = dto.ToUserCollectionResponse(&memberships[i])
	}

	logger.Info("Collection users listed successfully", slog.Int("count", len(responses)))
	c.JSON(http.StatusOK, responses)
}
