package middleware

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/brandbuilder/reviewgate-backend/internal/database"
	"github.com/brandbuilder/reviewgate-backend/internal/models"
)

// BusinessProfileContextKey holds the verified business profile in Gin context
const BusinessProfileContextKey = "business_profile"

// RequireBusinessOwnership checks that the :id business profile belongs to the
// authenticated user. Admins pass regardless of ownership. Must be used after
// AuthMiddleware.
func RequireBusinessOwnership(businessRepo *database.BusinessRepository, logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		userCtx, exists := GetUserContext(c)
		if !exists {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error":   "unauthorized",
				"message": "User context not found",
			})
			c.Abort()
			return
		}

		businessID, err := strconv.ParseInt(c.Param("id"), 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"error":   "validation_error",
				"message": "Invalid business profile id",
			})
			c.Abort()
			return
		}

		profile, err := businessRepo.GetByID(businessID)
		if err != nil {
			logger.WithError(err).WithField("business_profile_id", businessID).
				Error("Failed to load business profile for ownership check")
			c.JSON(http.StatusInternalServerError, gin.H{
				"error":   "internal_error",
				"message": "Failed to verify business ownership",
			})
			c.Abort()
			return
		}

		if profile == nil {
			c.JSON(http.StatusNotFound, gin.H{
				"error":   "not_found",
				"message": "Business profile not found",
			})
			c.Abort()
			return
		}

		if !userCtx.HasRole(models.RoleAdmin) && !profile.IsOwnedBy(userCtx.UserID) {
			c.JSON(http.StatusForbidden, gin.H{
				"error":   "forbidden",
				"message": "You can only manage your own business profiles",
				"code":    "NOT_BUSINESS_OWNER",
			})
			c.Abort()
			return
		}

		c.Set(BusinessProfileContextKey, profile)

		c.Next()
	}
}

// GetBusinessProfile retrieves the verified business profile from Gin context
func GetBusinessProfile(c *gin.Context) (*models.BusinessProfile, bool) {
	value, exists := c.Get(BusinessProfileContextKey)
	if !exists {
		return nil, false
	}

	profile, ok := value.(*models.BusinessProfile)
	if !ok {
		return nil, false
	}

	return profile, true
}
