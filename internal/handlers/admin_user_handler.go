package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/brandbuilder/reviewgate-backend/internal/middleware"
	"github.com/brandbuilder/reviewgate-backend/internal/services"
	"github.com/brandbuilder/reviewgate-backend/internal/utils"
)

// AdminUserHandler handles the admin user management endpoints
type AdminUserHandler struct {
	authService  *services.AuthService
	auditService *services.AuditService
	logger       *logrus.Logger
}

// NewAdminUserHandler creates a new admin user handler
func NewAdminUserHandler(authService *services.AuthService, auditService *services.AuditService, logger *logrus.Logger) *AdminUserHandler {
	return &AdminUserHandler{
		authService:  authService,
		auditService: auditService,
		logger:       logger,
	}
}

// List handles GET /api/admin/users
func (h *AdminUserHandler) List(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	users, total, err := h.authService.ListUsers(limit, offset)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"users": users,
		"total": total,
	})
}

// UpdateRolesRequest is the payload for granting or revoking a role
type UpdateRolesRequest struct {
	Role   string `json:"role" binding:"required"`
	Action string `json:"action" binding:"required,oneof=grant revoke"`
}

// UpdateRoles handles PUT /api/admin/users/:id/roles.
// Role assignment replaces any static admin allowlist; the seed emails only
// bootstrap the first admins.
func (h *AdminUserHandler) UpdateRoles(c *gin.Context) {
	userCtx, exists := middleware.GetUserContext(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, ErrorResponse{
			Error:   "unauthorized",
			Message: "User context not found",
		})
		return
	}

	targetID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "validation_error",
			Message: "Invalid user id",
		})
		return
	}

	var req UpdateRolesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "validation_error",
			Message: "Invalid request body: " + err.Error(),
		})
		return
	}

	var user interface{}
	var change string
	if req.Action == "grant" {
		user, err = h.authService.AssignRole(targetID, req.Role)
		change = "granted"
	} else {
		user, err = h.authService.RevokeRole(targetID, req.Role)
		change = "revoked"
	}
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	if err := h.auditService.LogRoleChange(userCtx.UserID, targetID, req.Role, change, utils.GetRealIP(c), utils.GetUserAgent(c)); err != nil {
		h.logger.WithError(err).Warn("Failed to write role change audit event")
	}

	c.JSON(http.StatusOK, user)
}
