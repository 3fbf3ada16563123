package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// Role values stored in users.roles
const (
	RoleCustomer      = "customer"
	RoleBusinessOwner = "business_owner"
	RoleAdmin         = "admin"
)

// ValidRoles lists the roles that can be assigned to a user
var ValidRoles = map[string]bool{
	RoleCustomer:      true,
	RoleBusinessOwner: true,
	RoleAdmin:         true,
}

// User represents an account created from an identity-provider login
type User struct {
	ID           uuid.UUID      `json:"id" db:"id"`
	Email        string         `json:"email" db:"email"`
	Name         string         `json:"name" db:"name"`
	PictureURL   NullString     `json:"picture_url,omitempty" db:"picture_url"`
	Provider     string         `json:"provider" db:"provider"`
	ProviderID   string         `json:"-" db:"provider_id"`
	Roles        pq.StringArray `json:"roles" db:"roles"`
	PasswordHash NullString     `json:"-" db:"password_hash"`
	Status       string         `json:"status" db:"status"`
	LastLoginAt  NullTime       `json:"last_login_at,omitempty" db:"last_login_at"`
	CreatedAt    time.Time      `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at" db:"updated_at"`
}

// HasRole reports whether the user carries the given role
func (u *User) HasRole(role string) bool {
	for _, r := range u.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// ProviderProfile is the verified profile handed over by the identity provider
// after a successful OAuth2 login. The OAuth2 negotiation itself happens outside
// this backend.
type ProviderProfile struct {
	Provider string `json:"provider" binding:"required"`
	Subject  string `json:"subject" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Name     string `json:"name" binding:"required"`
	Picture  string `json:"picture,omitempty"`
}

// LoginResponse is returned after a successful login or token refresh
type LoginResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int64  `json:"expires_in"`
	User         *User  `json:"user"`
}

// RefreshToken represents a stored refresh token (hash only, never the raw token)
type RefreshToken struct {
	ID         uuid.UUID  `json:"id" db:"id"`
	UserID     uuid.UUID  `json:"user_id" db:"user_id"`
	TokenHash  string     `json:"-" db:"token_hash"`
	IPAddress  NullString `json:"ip_address,omitempty" db:"ip_address"`
	UserAgent  NullString `json:"user_agent,omitempty" db:"user_agent"`
	CreatedAt  time.Time  `json:"created_at" db:"created_at"`
	ExpiresAt  time.Time  `json:"expires_at" db:"expires_at"`
	LastUsedAt NullTime   `json:"last_used_at,omitempty" db:"last_used_at"`
	Revoked    bool       `json:"revoked" db:"revoked"`
	RevokedAt  NullTime   `json:"revoked_at,omitempty" db:"revoked_at"`
}

// AuditLog represents an audit log entry
type AuditLog struct {
	ID         int64      `json:"id" db:"id"`
	UserID     NullUUID   `json:"user_id,omitempty" db:"user_id"`
	Action     string     `json:"action" db:"action"`
	EntityType NullString `json:"entity_type,omitempty" db:"entity_type"`
	EntityID   NullString `json:"entity_id,omitempty" db:"entity_id"`
	IPAddress  NullString `json:"ip_address,omitempty" db:"ip_address"`
	UserAgent  NullString `json:"user_agent,omitempty" db:"user_agent"`
	Details    NullString `json:"details,omitempty" db:"details"`
	CreatedAt  time.Time  `json:"created_at" db:"created_at"`
}
