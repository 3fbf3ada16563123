package handlers

import (
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/brandbuilder/reviewgate-backend/internal/middleware"
	"github.com/brandbuilder/reviewgate-backend/internal/models"
	"github.com/brandbuilder/reviewgate-backend/internal/services"
	"github.com/brandbuilder/reviewgate-backend/internal/utils"
)

// maxImageSize caps uploaded business profile images at 5 MB
const maxImageSize = 5 << 20

// AdminBusinessHandler handles the owner/admin business management endpoints
type AdminBusinessHandler struct {
	businessService *services.BusinessService
	ratingService   *services.RatingService
	auditService    *services.AuditService
	logger          *logrus.Logger
}

// NewAdminBusinessHandler creates a new admin business handler
func NewAdminBusinessHandler(
	businessService *services.BusinessService,
	ratingService *services.RatingService,
	auditService *services.AuditService,
	logger *logrus.Logger,
) *AdminBusinessHandler {
	return &AdminBusinessHandler{
		businessService: businessService,
		ratingService:   ratingService,
		auditService:    auditService,
		logger:          logger,
	}
}

// Create handles POST /api/admin/businesses (multipart form with optional image)
func (h *AdminBusinessHandler) Create(c *gin.Context) {
	userCtx, exists := middleware.GetUserContext(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, ErrorResponse{
			Error:   "unauthorized",
			Message: "User context not found",
		})
		return
	}

	var req models.CreateBusinessProfileRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "validation_error",
			Message: "Invalid request: " + err.Error(),
		})
		return
	}

	image, ok := h.readImage(c)
	if !ok {
		return
	}

	profile, err := h.businessService.Create(userCtx.UserID, &req, image)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusCreated, profile)
}

// Update handles PUT /api/admin/businesses/:id
func (h *AdminBusinessHandler) Update(c *gin.Context) {
	userCtx, exists := middleware.GetUserContext(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, ErrorResponse{
			Error:   "unauthorized",
			Message: "User context not found",
		})
		return
	}

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "validation_error",
			Message: "Invalid business profile id",
		})
		return
	}

	var req models.UpdateBusinessProfileRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "validation_error",
			Message: "Invalid request: " + err.Error(),
		})
		return
	}

	image, ok := h.readImage(c)
	if !ok {
		return
	}

	profile, err := h.businessService.Update(id, userCtx.UserID, userCtx.HasRole(models.RoleAdmin), &req, image)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, profile)
}

// Delete handles DELETE /api/admin/businesses/:id
func (h *AdminBusinessHandler) Delete(c *gin.Context) {
	userCtx, exists := middleware.GetUserContext(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, ErrorResponse{
			Error:   "unauthorized",
			Message: "User context not found",
		})
		return
	}

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "validation_error",
			Message: "Invalid business profile id",
		})
		return
	}

	profile, err := h.businessService.GetByID(id)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	if err := h.businessService.Delete(id, userCtx.UserID, userCtx.HasRole(models.RoleAdmin)); err != nil {
		respondError(c, h.logger, err)
		return
	}

	if err := h.auditService.LogBusinessDeleted(userCtx.UserID, id, profile.BusinessName, utils.GetRealIP(c), utils.GetUserAgent(c)); err != nil {
		h.logger.WithError(err).Warn("Failed to write business deletion audit event")
	}

	c.JSON(http.StatusOK, gin.H{"message": "Business profile deleted"})
}

// MyBusinesses handles GET /api/admin/businesses/my-businesses
func (h *AdminBusinessHandler) MyBusinesses(c *gin.Context) {
	userCtx, exists := middleware.GetUserContext(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, ErrorResponse{
			Error:   "unauthorized",
			Message: "User context not found",
		})
		return
	}

	profiles, err := h.businessService.ListByOwner(userCtx.UserID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"businesses": profiles,
		"count":      len(profiles),
	})
}

// ReconcileRatings handles POST /api/admin/businesses/reconcile-ratings.
// Recomputes the aggregate rating of every business profile, repairing any
// drift left behind by swallowed recompute failures.
func (h *AdminBusinessHandler) ReconcileRatings(c *gin.Context) {
	processed, failed, err := h.ratingService.ReconcileAll()
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":   "Rating reconciliation finished",
		"processed": processed,
		"failed":    failed,
	})
}

// readImage extracts the optional "image" form file. Returns ok=false after
// writing an error response.
func (h *AdminBusinessHandler) readImage(c *gin.Context) (*services.BusinessImage, bool) {
	fileHeader, err := c.FormFile("image")
	if err != nil {
		// No file uploaded
		return nil, true
	}

	if fileHeader.Size > maxImageSize {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "validation_error",
			Message: "Image must be smaller than 5MB",
		})
		return nil, false
	}

	file, err := fileHeader.Open()
	if err != nil {
		h.logger.WithError(err).Error("Failed to open uploaded image")
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "internal_error",
			Message: "Failed to read uploaded image",
		})
		return nil, false
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		h.logger.WithError(err).Error("Failed to read uploaded image")
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "internal_error",
			Message: "Failed to read uploaded image",
		})
		return nil, false
	}

	return &services.BusinessImage{
		Name:        fileHeader.Filename,
		ContentType: fileHeader.Header.Get("Content-Type"),
		Data:        data,
	}, true
}
