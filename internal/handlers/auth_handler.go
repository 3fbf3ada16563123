package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/brandbuilder/reviewgate-backend/internal/middleware"
	"github.com/brandbuilder/reviewgate-backend/internal/models"
	"github.com/brandbuilder/reviewgate-backend/internal/services"
	"github.com/brandbuilder/reviewgate-backend/internal/utils"
)

// AuthHandler handles authentication HTTP requests
type AuthHandler struct {
	authService *services.AuthService
	logger      *logrus.Logger
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authService *services.AuthService, logger *logrus.Logger) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		logger:      logger,
	}
}

// ProviderLogin handles POST /api/auth/provider-login
// The OAuth2 negotiation happens at the edge; this endpoint receives the
// already-verified provider profile and issues our own tokens.
func (h *AuthHandler) ProviderLogin(c *gin.Context) {
	var profile models.ProviderProfile
	if err := c.ShouldBindJSON(&profile); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "validation_error",
			Message: "Invalid request body: " + err.Error(),
		})
		return
	}

	resp, err := h.authService.ProviderLogin(&profile, utils.GetRealIP(c), utils.GetUserAgent(c))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// AdminLoginRequest is the payload for the bootstrap admin password login
type AdminLoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// AdminLogin handles POST /api/admin/auth/login
func (h *AuthHandler) AdminLogin(c *gin.Context) {
	var req AdminLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "validation_error",
			Message: "Invalid request body: " + err.Error(),
		})
		return
	}

	resp, err := h.authService.PasswordLogin(req.Email, req.Password, utils.GetRealIP(c), utils.GetUserAgent(c))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// RefreshRequest is the payload for a token refresh
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// Refresh handles POST /api/auth/refresh
func (h *AuthHandler) Refresh(c *gin.Context) {
	var req RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "validation_error",
			Message: "Invalid request body: " + err.Error(),
		})
		return
	}

	resp, err := h.authService.Refresh(req.RefreshToken, utils.GetRealIP(c), utils.GetUserAgent(c))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// LogoutRequest is the payload for logout
type LogoutRequest struct {
	RefreshToken string `json:"refresh_token"`
	All          bool   `json:"all"`
}

// Logout handles POST /api/auth/logout
func (h *AuthHandler) Logout(c *gin.Context) {
	userCtx, exists := middleware.GetUserContext(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, ErrorResponse{
			Error:   "unauthorized",
			Message: "User context not found",
		})
		return
	}

	var req LogoutRequest
	// Body is optional; an empty body logs out the presented session only
	_ = c.ShouldBindJSON(&req)

	var err error
	if req.All {
		err = h.authService.LogoutAll(userCtx.UserID, utils.GetRealIP(c), utils.GetUserAgent(c))
	} else {
		err = h.authService.Logout(userCtx.UserID, req.RefreshToken, utils.GetRealIP(c), utils.GetUserAgent(c))
	}
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Logged out successfully"})
}

// GetUser handles GET /api/auth/user
func (h *AuthHandler) GetUser(c *gin.Context) {
	userCtx, exists := middleware.GetUserContext(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, ErrorResponse{
			Error:   "unauthorized",
			Message: "User context not found",
		})
		return
	}

	user, err := h.authService.GetUser(userCtx.UserID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, user)
}

// Status handles GET /api/auth/status
func (h *AuthHandler) Status(c *gin.Context) {
	userCtx, exists := middleware.GetUserContext(c)
	if !exists {
		c.JSON(http.StatusOK, gin.H{"authenticated": false})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"authenticated": true,
		"user_id":       userCtx.UserID,
		"email":         userCtx.Email,
		"roles":         userCtx.Roles,
	})
}
