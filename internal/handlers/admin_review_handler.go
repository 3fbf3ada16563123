package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/brandbuilder/reviewgate-backend/internal/middleware"
	"github.com/brandbuilder/reviewgate-backend/internal/models"
	"github.com/brandbuilder/reviewgate-backend/internal/services"
)

// AdminReviewHandler handles the owner/admin review query endpoints
type AdminReviewHandler struct {
	reviewService   *services.ReviewService
	businessService *services.BusinessService
	logger          *logrus.Logger
}

// NewAdminReviewHandler creates a new admin review handler
func NewAdminReviewHandler(reviewService *services.ReviewService, businessService *services.BusinessService, logger *logrus.Logger) *AdminReviewHandler {
	return &AdminReviewHandler{
		reviewService:   reviewService,
		businessService: businessService,
		logger:          logger,
	}
}

// ListAll handles GET /api/admin/reviews (admin only)
func (h *AdminReviewHandler) ListAll(c *gin.Context) {
	reviews, err := h.reviewService.ListAll()
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"reviews": reviews,
		"count":   len(reviews),
	})
}

// LowRating handles GET /api/admin/reviews/low-rating (admin only).
// Returns the reviews eligible for feedback.
func (h *AdminReviewHandler) LowRating(c *gin.Context) {
	reviews, err := h.reviewService.ListLowRating()
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"reviews": reviews,
		"count":   len(reviews),
	})
}

// ByBusiness handles GET /api/admin/reviews/business/:businessId.
// Business owners see only their own businesses; admins see any.
func (h *AdminReviewHandler) ByBusiness(c *gin.Context) {
	userCtx, exists := middleware.GetUserContext(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, ErrorResponse{
			Error:   "unauthorized",
			Message: "User context not found",
		})
		return
	}

	businessID, err := strconv.ParseInt(c.Param("businessId"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "validation_error",
			Message: "Invalid business profile id",
		})
		return
	}

	profile, err := h.businessService.GetByID(businessID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	if !userCtx.HasRole(models.RoleAdmin) && !profile.IsOwnedBy(userCtx.UserID) {
		c.JSON(http.StatusForbidden, ErrorResponse{
			Error:   "forbidden",
			Message: "You can only view reviews for your own businesses",
		})
		return
	}

	reviews, err := h.reviewService.ListByBusiness(businessID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"reviews": reviews,
		"count":   len(reviews),
	})
}
