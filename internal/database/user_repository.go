package database

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/brandbuilder/reviewgate-backend/internal/models"
)

// UserRepository handles user database operations
type UserRepository struct {
	db DB
}

// NewUserRepository creates a new user repository
func NewUserRepository(db DB) *UserRepository {
	return &UserRepository{
		db: db,
	}
}

const userColumns = `id, email, name, picture_url, provider, provider_id, roles,
       password_hash, status, last_login_at, created_at, updated_at`

// CreateFromProvider creates a new user from an identity-provider profile with
// the default customer role
func (r *UserRepository) CreateFromProvider(profile *models.ProviderProfile) (*models.User, error) {
	user := &models.User{
		ID:         uuid.New(),
		Email:      profile.Email,
		Name:       profile.Name,
		PictureURL: models.NewNullString(profile.Picture),
		Provider:   profile.Provider,
		ProviderID: profile.Subject,
		Roles:      []string{models.RoleCustomer},
		Status:     "active",
		CreatedAt:  time.Now(),
		UpdatedAt:  time.Now(),
	}

	query := `
		INSERT INTO users (
			id, email, name, picture_url, provider, provider_id,
			roles, status, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	_, err := r.db.Exec(
		query,
		user.ID,
		user.Email,
		user.Name,
		user.PictureURL,
		user.Provider,
		user.ProviderID,
		pq.Array(user.Roles),
		user.Status,
		user.CreatedAt,
		user.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return user, nil
}

// CreateBootstrapAdmin creates a password-protected admin account. Used only by
// the startup seed; regular accounts never carry a password hash.
func (r *UserRepository) CreateBootstrapAdmin(email, name, passwordHash string) (*models.User, error) {
	user := &models.User{
		ID:           uuid.New(),
		Email:        email,
		Name:         name,
		Provider:     "bootstrap",
		ProviderID:   email,
		Roles:        []string{models.RoleAdmin},
		PasswordHash: models.NewNullString(passwordHash),
		Status:       "active",
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}

	query := `
		INSERT INTO users (
			id, email, name, provider, provider_id, roles,
			password_hash, status, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	_, err := r.db.Exec(
		query,
		user.ID,
		user.Email,
		user.Name,
		user.Provider,
		user.ProviderID,
		pq.Array(user.Roles),
		user.PasswordHash,
		user.Status,
		user.CreatedAt,
		user.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create bootstrap admin: %w", err)
	}

	return user, nil
}

// GetByID retrieves a user by ID
func (r *UserRepository) GetByID(id uuid.UUID) (*models.User, error) {
	var user models.User

	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`

	err := r.db.Get(&user, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil // User not found, return nil without error
		}
		return nil, fmt.Errorf("failed to get user by ID: %w", err)
	}

	return &user, nil
}

// GetByEmail retrieves a user by email
func (r *UserRepository) GetByEmail(email string) (*models.User, error) {
	var user models.User

	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`

	err := r.db.Get(&user, query, email)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil // User not found, return nil without error
		}
		return nil, fmt.Errorf("failed to get user by email: %w", err)
	}

	return &user, nil
}

// UpdateProviderProfile refreshes name/picture from the identity provider and
// stamps the login time
func (r *UserRepository) UpdateProviderProfile(id uuid.UUID, name, picture string) error {
	query := `
		UPDATE users
		SET name = $1,
		    picture_url = $2,
		    last_login_at = $3,
		    updated_at = $3
		WHERE id = $4
	`

	_, err := r.db.Exec(query, name, models.NewNullString(picture), time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to update provider profile: %w", err)
	}

	return nil
}

// AddRole adds a role to a user if not already present
func (r *UserRepository) AddRole(id uuid.UUID, role string) error {
	if !models.ValidRoles[role] {
		return fmt.Errorf("invalid role: %s", role)
	}

	query := `
		UPDATE users
		SET roles = array_append(roles, $1),
		    updated_at = $2
		WHERE id = $3
		  AND NOT ($1 = ANY(roles))
	`

	_, err := r.db.Exec(query, role, time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to add role: %w", err)
	}

	return nil
}

// RemoveRole removes a role from a user
func (r *UserRepository) RemoveRole(id uuid.UUID, role string) error {
	query := `
		UPDATE users
		SET roles = array_remove(roles, $1),
		    updated_at = $2
		WHERE id = $3
	`

	_, err := r.db.Exec(query, role, time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to remove role: %w", err)
	}

	return nil
}

// List retrieves users with pagination
func (r *UserRepository) List(limit, offset int) ([]*models.User, error) {
	var users []*models.User

	query := `
		SELECT ` + userColumns + `
		FROM users
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2
	`

	err := r.db.Select(&users, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}

	return users, nil
}

// Count returns the total number of users
func (r *UserRepository) Count() (int, error) {
	var count int

	query := `SELECT COUNT(*) FROM users`

	err := r.db.QueryRow(query).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count users: %w", err)
	}

	return count, nil
}
