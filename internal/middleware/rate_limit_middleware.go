package middleware

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/brandbuilder/reviewgate-backend/internal/monitoring"
	"github.com/brandbuilder/reviewgate-backend/internal/services"
	"github.com/brandbuilder/reviewgate-backend/internal/utils"
)

// ReviewRateLimit throttles review submissions per client IP. A nil service
// disables the check.
func ReviewRateLimit(rateLimiter *services.RateLimitService, audit *services.AuditService, logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if rateLimiter == nil {
			c.Next()
			return
		}

		clientIP := utils.GetRealIP(c)

		result, err := rateLimiter.CheckReviewSubmission(c.Request.Context(), clientIP)
		if err != nil {
			logger.WithError(err).Warn("Rate limit check failed; allowing request")
			c.Next()
			return
		}

		c.Header("X-RateLimit-Limit", fmt.Sprintf("%d", result.Limit))
		c.Header("X-RateLimit-Remaining", fmt.Sprintf("%d", result.Remaining))

		if !result.Allowed {
			monitoring.RecordRateLimitHit()
			c.Header("Retry-After", fmt.Sprintf("%d", int(result.RetryAfter.Seconds())))

			if audit != nil {
				if err := audit.LogRateLimitViolation(clientIP, utils.GetUserAgent(c), result.RetryAfter); err != nil {
					logger.WithError(err).Warn("Failed to write rate limit audit event")
				}
			}

			c.JSON(http.StatusTooManyRequests, gin.H{
				"error":   "rate_limited",
				"message": "Too many review submissions. Please try again later.",
				"code":    "RATE_LIMIT_EXCEEDED",
			})
			c.Abort()
			return
		}

		c.Next()
	}
}
