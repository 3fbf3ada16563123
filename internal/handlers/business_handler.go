package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/brandbuilder/reviewgate-backend/internal/services"
)

// BusinessHandler handles the public business profile endpoints
type BusinessHandler struct {
	businessService *services.BusinessService
	logger          *logrus.Logger
}

// NewBusinessHandler creates a new business handler
func NewBusinessHandler(businessService *services.BusinessService, logger *logrus.Logger) *BusinessHandler {
	return &BusinessHandler{
		businessService: businessService,
		logger:          logger,
	}
}

// List handles GET /api/businesses
func (h *BusinessHandler) List(c *gin.Context) {
	profiles, err := h.businessService.List()
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"businesses": profiles,
		"count":      len(profiles),
	})
}

// TopRated handles GET /api/businesses/top-rated
func (h *BusinessHandler) TopRated(c *gin.Context) {
	profiles, err := h.businessService.ListByRating()
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"businesses": profiles,
		"count":      len(profiles),
	})
}

// GetByID handles GET /api/businesses/:id
func (h *BusinessHandler) GetByID(c *gin.Context) {
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

	c.JSON(http.StatusOK, profile)
}

// Search handles GET /api/businesses/search?name=
func (h *BusinessHandler) Search(c *gin.Context) {
	profiles, err := h.businessService.SearchByName(c.Query("name"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"businesses": profiles,
		"count":      len(profiles),
	})
}

// GetImage handles GET /api/businesses/:id/image
func (h *BusinessHandler) GetImage(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "validation_error",
			Message: "Invalid business profile id",
		})
		return
	}

	_, contentType, data, err := h.businessService.GetImage(id)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	if contentType == "" {
		contentType = "application/octet-stream"
	}
	c.Data(http.StatusOK, contentType, data)
}
