package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	apperrors "github.com/brandbuilder/reviewgate-backend/internal/errors"
)

// ErrorResponse is the standard error payload
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

// respondError maps a service error to an HTTP response. APIErrors carry their
// own status; anything else is a 500 with the detail kept out of the payload.
func respondError(c *gin.Context, logger *logrus.Logger, err error) {
	if apiErr, ok := apperrors.AsAPIError(err); ok {
		if apiErr.Kind == apperrors.KindInternal {
			logger.WithError(apiErr).Error("Internal error handling request")
			c.JSON(http.StatusInternalServerError, ErrorResponse{
				Error:   string(apperrors.KindInternal),
				Message: "An internal error occurred",
			})
			return
		}

		c.JSON(apiErr.Status(), ErrorResponse{
			Error:   string(apiErr.Kind),
			Message: apiErr.Message,
		})
		return
	}

	logger.WithError(err).Error("Unclassified error handling request")
	c.JSON(http.StatusInternalServerError, ErrorResponse{
		Error:   "internal_error",
		Message: "An internal error occurred",
	})
}
