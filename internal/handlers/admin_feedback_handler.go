package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/brandbuilder/reviewgate-backend/internal/models"
	"github.com/brandbuilder/reviewgate-backend/internal/services"
)

// AdminFeedbackHandler handles the admin feedback management endpoints
type AdminFeedbackHandler struct {
	feedbackService *services.FeedbackService
	logger          *logrus.Logger
}

// NewAdminFeedbackHandler creates a new admin feedback handler
func NewAdminFeedbackHandler(feedbackService *services.FeedbackService, logger *logrus.Logger) *AdminFeedbackHandler {
	return &AdminFeedbackHandler{
		feedbackService: feedbackService,
		logger:          logger,
	}
}

// ListAll handles GET /api/admin/feedback
func (h *AdminFeedbackHandler) ListAll(c *gin.Context) {
	feedbacks, err := h.feedbackService.ListAll()
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"feedback": feedbacks,
		"count":    len(feedbacks),
	})
}

// New handles GET /api/admin/feedback/new
func (h *AdminFeedbackHandler) New(c *gin.Context) {
	feedbacks, err := h.feedbackService.ListByStatus(string(models.FeedbackStatusNew))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"feedback": feedbacks,
		"count":    len(feedbacks),
	})
}

// ByStatus handles GET /api/admin/feedback/status/:status
func (h *AdminFeedbackHandler) ByStatus(c *gin.Context) {
	feedbacks, err := h.feedbackService.ListByStatus(c.Param("status"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"feedback": feedbacks,
		"count":    len(feedbacks),
	})
}

// FollowupRequired handles GET /api/admin/feedback/followup-required
func (h *AdminFeedbackHandler) FollowupRequired(c *gin.Context) {
	feedbacks, err := h.feedbackService.ListRequiringFollowup()
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"feedback": feedbacks,
		"count":    len(feedbacks),
	})
}

// GetByID handles GET /api/admin/feedback/:id
func (h *AdminFeedbackHandler) GetByID(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "validation_error",
			Message: "Invalid feedback id",
		})
		return
	}

	feedback, err := h.feedbackService.GetByID(id)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, feedback)
}

// UpdateStatus handles PUT /api/admin/feedback/:id/status
func (h *AdminFeedbackHandler) UpdateStatus(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "validation_error",
			Message: "Invalid feedback id",
		})
		return
	}

	var req models.UpdateFeedbackStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "validation_error",
			Message: "Invalid request body: " + err.Error(),
		})
		return
	}

	feedback, err := h.feedbackService.UpdateStatus(id, &req)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, feedback)
}

// Delete handles DELETE /api/admin/feedback/:id
func (h *AdminFeedbackHandler) Delete(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "validation_error",
			Message: "Invalid feedback id",
		})
		return
	}

	if err := h.feedbackService.Delete(id); err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Feedback deleted"})
}
