package services

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/brandbuilder/reviewgate-backend/internal/database"
	"github.com/brandbuilder/reviewgate-backend/internal/utils"
)

// AuditService handles audit logging for security-relevant events
type AuditService struct {
	db database.DB
}

// NewAuditService creates a new audit service
func NewAuditService(db database.DB) *AuditService {
	return &AuditService{
		db: db,
	}
}

// AuditEvent represents an event to be logged
type AuditEvent struct {
	UserID     *uuid.UUID // Can be nil for anonymous events
	Action     string     // Action type (e.g., "login", "review_submitted", "role_granted")
	EntityType string     // Type of entity affected (e.g., "user", "review", "business_profile")
	EntityID   string     // ID of the affected entity (can be empty)
	IPAddress  string
	UserAgent  string
	Details    map[string]interface{} // Additional details stored as JSONB
}

// LogLogin logs a successful provider login
func (s *AuditService) LogLogin(userID uuid.UUID, email, provider, ipAddress, userAgent string) error {
	deviceInfo := utils.ParseUserAgent(userAgent)

	details := map[string]interface{}{
		"email":       email,
		"provider":    provider,
		"device_info": deviceInfo,
	}

	return s.logEvent(AuditEvent{
		UserID:     &userID,
		Action:     "login",
		EntityType: "user",
		EntityID:   userID.String(),
		IPAddress:  ipAddress,
		UserAgent:  userAgent,
		Details:    details,
	})
}

// LogLogout logs a logout event
func (s *AuditService) LogLogout(userID uuid.UUID, ipAddress, userAgent string, logoutAll bool) error {
	deviceInfo := utils.ParseUserAgent(userAgent)

	details := map[string]interface{}{
		"logout_all":  logoutAll,
		"device_info": deviceInfo,
	}

	return s.logEvent(AuditEvent{
		UserID:     &userID,
		Action:     "logout",
		EntityType: "user",
		EntityID:   userID.String(),
		IPAddress:  ipAddress,
		UserAgent:  userAgent,
		Details:    details,
	})
}

// LogTokenRefresh logs a refresh token usage event
func (s *AuditService) LogTokenRefresh(userID uuid.UUID, ipAddress, userAgent string, success bool) error {
	action := "token_refresh_success"
	if !success {
		action = "token_refresh_failed"
	}

	details := map[string]interface{}{
		"success":     success,
		"device_info": utils.ParseUserAgent(userAgent),
	}

	return s.logEvent(AuditEvent{
		UserID:     &userID,
		Action:     action,
		EntityType: "token",
		IPAddress:  ipAddress,
		UserAgent:  userAgent,
		Details:    details,
	})
}

// LogReviewSubmitted logs a review submission, authenticated or anonymous
func (s *AuditService) LogReviewSubmitted(userID *uuid.UUID, reviewID, businessID int64, rating int, redirected bool, ipAddress, userAgent string) error {
	details := map[string]interface{}{
		"business_profile_id":  businessID,
		"rating":               rating,
		"redirected_to_google": redirected,
		"device_info":          utils.ParseUserAgent(userAgent),
	}

	return s.logEvent(AuditEvent{
		UserID:     userID,
		Action:     "review_submitted",
		EntityType: "review",
		EntityID:   fmt.Sprintf("%d", reviewID),
		IPAddress:  ipAddress,
		UserAgent:  userAgent,
		Details:    details,
	})
}

// LogRoleChange logs a role grant or revocation by an admin
func (s *AuditService) LogRoleChange(adminID, targetUserID uuid.UUID, role, change, ipAddress, userAgent string) error {
	details := map[string]interface{}{
		"target_user_id": targetUserID.String(),
		"role":           role,
		"change":         change, // "granted" or "revoked"
	}

	return s.logEvent(AuditEvent{
		UserID:     &adminID,
		Action:     "role_change",
		EntityType: "user",
		EntityID:   targetUserID.String(),
		IPAddress:  ipAddress,
		UserAgent:  userAgent,
		Details:    details,
	})
}

// LogRateLimitViolation logs a rate limit violation event
func (s *AuditService) LogRateLimitViolation(ipAddress, userAgent string, retryAfter time.Duration) error {
	details := map[string]interface{}{
		"retry_after_seconds": int(retryAfter.Seconds()),
		"device_info":         utils.ParseUserAgent(userAgent),
	}

	return s.logEvent(AuditEvent{
		UserID:     nil,
		Action:     "rate_limit_violation",
		EntityType: "rate_limit",
		IPAddress:  ipAddress,
		UserAgent:  userAgent,
		Details:    details,
	})
}

// LogBusinessDeleted logs the deletion of a business profile and its cascade
func (s *AuditService) LogBusinessDeleted(userID uuid.UUID, businessID int64, businessName, ipAddress, userAgent string) error {
	details := map[string]interface{}{
		"business_name": businessName,
	}

	return s.logEvent(AuditEvent{
		UserID:     &userID,
		Action:     "business_deleted",
		EntityType: "business_profile",
		EntityID:   fmt.Sprintf("%d", businessID),
		IPAddress:  ipAddress,
		UserAgent:  userAgent,
		Details:    details,
	})
}

// logEvent is the internal method that writes to the audit_logs table
func (s *AuditService) logEvent(event AuditEvent) error {
	query := `
		INSERT INTO audit_logs (user_id, action, entity_type, entity_id, ip_address, user_agent, details, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NOW())
	`

	detailsJSON, err := json.Marshal(event.Details)
	if err != nil {
		return fmt.Errorf("failed to marshal audit details: %w", err)
	}

	_, err = s.db.Exec(
		query,
		event.UserID,
		event.Action,
		event.EntityType,
		event.EntityID,
		event.IPAddress,
		event.UserAgent,
		detailsJSON,
	)

	if err != nil {
		return fmt.Errorf("failed to log audit event: %w", err)
	}

	return nil
}

// CleanupOldAuditLogs removes audit logs older than the specified duration
func (s *AuditService) CleanupOldAuditLogs(olderThan time.Duration) (int64, error) {
	cutoffTime := time.Now().Add(-olderThan)

	query := `
		DELETE FROM audit_logs
		WHERE created_at < $1
	`

	result, err := s.db.Exec(query, cutoffTime)
	if err != nil {
		return 0, fmt.Errorf("failed to cleanup old audit logs: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}

	return rowsAffected, nil
}
