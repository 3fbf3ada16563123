package database

import (
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/brandbuilder/reviewgate-backend/internal/models"
)

// RefreshTokenRepository handles refresh token database operations
type RefreshTokenRepository struct {
	db DB
}

// NewRefreshTokenRepository creates a new refresh token repository
func NewRefreshTokenRepository(db DB) *RefreshTokenRepository {
	return &RefreshTokenRepository{
		db: db,
	}
}

// hashToken creates a SHA-256 hash of the token for storage
func hashToken(token string) string {
	hash := sha256.Sum256([]byte(token))
	return hex.EncodeToString(hash[:])
}

// Store stores a refresh token in the database
func (r *RefreshTokenRepository) Store(userID uuid.UUID, token, ipAddress, userAgent string, expiresAt time.Time) error {
	tokenHash := hashToken(token)

	query := `
		INSERT INTO refresh_tokens (
			user_id, token_hash, ip_address, user_agent, expires_at
		) VALUES ($1, $2, $3, $4, $5)
	`

	var ipVal, userAgentVal interface{}
	if ipAddress != "" {
		ipVal = ipAddress
	}
	if userAgent != "" {
		userAgentVal = userAgent
	}

	_, err := r.db.Exec(query, userID, tokenHash, ipVal, userAgentVal, expiresAt)
	if err != nil {
		return fmt.Errorf("failed to store refresh token: %w", err)
	}

	return nil
}

// Get retrieves a refresh token record by the raw token
func (r *RefreshTokenRepository) Get(token string) (*models.RefreshToken, error) {
	tokenHash := hashToken(token)

	var refreshToken models.RefreshToken

	query := `
		SELECT id, user_id, token_hash, ip_address, user_agent,
		       created_at, expires_at, last_used_at, revoked, revoked_at
		FROM refresh_tokens
		WHERE token_hash = $1
	`

	err := r.db.Get(&refreshToken, query, tokenHash)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil // Token not found
		}
		return nil, fmt.Errorf("failed to get refresh token: %w", err)
	}

	return &refreshToken, nil
}

// MarkUsed stamps the last use time of a refresh token
func (r *RefreshTokenRepository) MarkUsed(token string) error {
	query := `UPDATE refresh_tokens SET last_used_at = $1 WHERE token_hash = $2`

	_, err := r.db.Exec(query, time.Now(), hashToken(token))
	if err != nil {
		return fmt.Errorf("failed to mark refresh token used: %w", err)
	}

	return nil
}

// Revoke revokes a single refresh token
func (r *RefreshTokenRepository) Revoke(token string) error {
	query := `
		UPDATE refresh_tokens
		SET revoked = TRUE,
		    revoked_at = $1
		WHERE token_hash = $2
	`

	_, err := r.db.Exec(query, time.Now(), hashToken(token))
	if err != nil {
		return fmt.Errorf("failed to revoke refresh token: %w", err)
	}

	return nil
}

// RevokeAllForUser revokes every refresh token belonging to a user
func (r *RefreshTokenRepository) RevokeAllForUser(userID uuid.UUID) error {
	query := `
		UPDATE refresh_tokens
		SET revoked = TRUE,
		    revoked_at = $1
		WHERE user_id = $2
		  AND revoked = FALSE
	`

	_, err := r.db.Exec(query, time.Now(), userID)
	if err != nil {
		return fmt.Errorf("failed to revoke refresh tokens for user: %w", err)
	}

	return nil
}

// DeleteExpired removes refresh tokens past their expiry
func (r *RefreshTokenRepository) DeleteExpired() (int64, error) {
	result, err := r.db.Exec(`DELETE FROM refresh_tokens WHERE expires_at < $1`, time.Now())
	if err != nil {
		return 0, fmt.Errorf("failed to delete expired refresh tokens: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}

	return rowsAffected, nil
}
