package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/brandbuilder/reviewgate-backend/internal/middleware"
	"github.com/brandbuilder/reviewgate-backend/internal/models"
	"github.com/brandbuilder/reviewgate-backend/internal/services"
	"github.com/brandbuilder/reviewgate-backend/internal/utils"
)

// ReviewHandler handles review submission and query endpoints
type ReviewHandler struct {
	reviewService *services.ReviewService
	auditService  *services.AuditService
	logger        *logrus.Logger
}

// NewReviewHandler creates a new review handler
func NewReviewHandler(reviewService *services.ReviewService, auditService *services.AuditService, logger *logrus.Logger) *ReviewHandler {
	return &ReviewHandler{
		reviewService: reviewService,
		auditService:  auditService,
		logger:        logger,
	}
}

// Create handles POST /api/businesses/:id/reviews (authenticated).
// The response carries the post-submission decision: ratings above the
// threshold redirect to the external review site, the rest get the feedback
// form.
func (h *ReviewHandler) Create(c *gin.Context) {
	userCtx, exists := middleware.GetUserContext(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, ErrorResponse{
			Error:   "unauthorized",
			Message: "User context not found",
		})
		return
	}

	businessID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "validation_error",
			Message: "Invalid business profile id",
		})
		return
	}

	var req models.CreateReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "validation_error",
			Message: "Invalid request body: " + err.Error(),
		})
		return
	}

	review, decision, err := h.reviewService.Create(userCtx.UserID, businessID, &req)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	h.auditReview(c, review)

	c.JSON(http.StatusCreated, gin.H{
		"review":   review,
		"decision": decision,
	})
}

// CreateAnonymous handles POST /api/businesses/:id/reviews/anonymous
func (h *ReviewHandler) CreateAnonymous(c *gin.Context) {
	businessID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "validation_error",
			Message: "Invalid business profile id",
		})
		return
	}

	var req models.CreateAnonymousReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "validation_error",
			Message: "Invalid request body: " + err.Error(),
		})
		return
	}

	review, decision, err := h.reviewService.CreateAnonymous(businessID, &req)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	h.auditReview(c, review)

	c.JSON(http.StatusCreated, gin.H{
		"review":   review,
		"decision": decision,
	})
}

// GetByID handles GET /api/reviews/:id
func (h *ReviewHandler) GetByID(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "validation_error",
			Message: "Invalid review id",
		})
		return
	}

	review, err := h.reviewService.GetByID(id)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, review)
}

// ListByBusiness handles GET /api/reviews/business/:businessId
func (h *ReviewHandler) ListByBusiness(c *gin.Context) {
	businessID, err := strconv.ParseInt(c.Param("businessId"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "validation_error",
			Message: "Invalid business profile id",
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

// Check handles GET /api/reviews/check/:businessId (authenticated).
// Reports whether the customer already reviewed the business.
func (h *ReviewHandler) Check(c *gin.Context) {
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

	reviewed, err := h.reviewService.HasReviewed(userCtx.UserID, businessID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"has_reviewed": reviewed})
}

// MyReviews handles GET /api/reviews/my-reviews (authenticated)
func (h *ReviewHandler) MyReviews(c *gin.Context) {
	userCtx, exists := middleware.GetUserContext(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, ErrorResponse{
			Error:   "unauthorized",
			Message: "User context not found",
		})
		return
	}

	reviews, err := h.reviewService.ListByCustomer(userCtx.UserID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"reviews": reviews,
		"count":   len(reviews),
	})
}

// Update handles PUT /api/reviews/:id (author or admin)
func (h *ReviewHandler) Update(c *gin.Context) {
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
			Message: "Invalid review id",
		})
		return
	}

	var req models.UpdateReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "validation_error",
			Message: "Invalid request body: " + err.Error(),
		})
		return
	}

	review, err := h.reviewService.Update(id, userCtx.UserID, userCtx.HasRole(models.RoleAdmin), &req)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, review)
}

// Delete handles DELETE /api/reviews/:id (author or admin)
func (h *ReviewHandler) Delete(c *gin.Context) {
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
			Message: "Invalid review id",
		})
		return
	}

	if err := h.reviewService.Delete(id, userCtx.UserID, userCtx.HasRole(models.RoleAdmin)); err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Review deleted"})
}

// auditReview records the submission; never fails the request
func (h *ReviewHandler) auditReview(c *gin.Context, review *models.Review) {
	var userID *uuid.UUID
	if review.CustomerID.Valid {
		id := review.CustomerID.UUID
		userID = &id
	}

	if err := h.auditService.LogReviewSubmitted(
		userID,
		review.ID,
		review.BusinessProfileID,
		review.Rating,
		review.RedirectedToGoogle,
		utils.GetRealIP(c),
		utils.GetUserAgent(c),
	); err != nil {
		h.logger.WithError(err).Warn("Failed to write review audit event")
	}
}
