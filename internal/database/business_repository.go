package database

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/brandbuilder/reviewgate-backend/internal/models"
)

// BusinessRepository handles business profile database operations
type BusinessRepository struct {
	db DB
}

// NewBusinessRepository creates a new business repository
func NewBusinessRepository(db DB) *BusinessRepository {
	return &BusinessRepository{
		db: db,
	}
}

const businessColumns = `id, business_name, phone_number, address, description,
       facebook_url, instagram_url, twitter_url, linkedin_url, website_url,
       google_review_url, image_name, image_type, created_by,
       average_rating, total_reviews, created_at, updated_at`

// Create persists a new business profile and fills in the generated id
func (r *BusinessRepository) Create(profile *models.BusinessProfile) error {
	query := `
		INSERT INTO business_profiles (
			business_name, phone_number, address, description,
			facebook_url, instagram_url, twitter_url, linkedin_url,
			website_url, google_review_url, image_name, image_type,
			image_data, created_by, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
		RETURNING id
	`

	err := r.db.QueryRow(
		query,
		profile.BusinessName,
		profile.PhoneNumber,
		profile.Address,
		profile.Description,
		profile.FacebookURL,
		profile.InstagramURL,
		profile.TwitterURL,
		profile.LinkedinURL,
		profile.WebsiteURL,
		profile.GoogleReviewURL,
		profile.ImageName,
		profile.ImageType,
		profile.ImageData,
		profile.CreatedBy,
		profile.CreatedAt,
		profile.UpdatedAt,
	).Scan(&profile.ID)
	if err != nil {
		return fmt.Errorf("failed to create business profile: %w", err)
	}

	return nil
}

// GetByID retrieves a business profile by id (image bytes excluded)
func (r *BusinessRepository) GetByID(id int64) (*models.BusinessProfile, error) {
	var profile models.BusinessProfile

	query := `SELECT ` + businessColumns + ` FROM business_profiles WHERE id = $1`

	err := r.db.Get(&profile, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil // Business not found, return nil without error
		}
		return nil, fmt.Errorf("failed to get business profile: %w", err)
	}

	return &profile, nil
}

// GetImage retrieves the stored image for a business profile
func (r *BusinessRepository) GetImage(id int64) (name, contentType string, data []byte, err error) {
	var imageName, imageType models.NullString

	query := `SELECT image_name, image_type, image_data FROM business_profiles WHERE id = $1`

	err = r.db.QueryRow(query, id).Scan(&imageName, &imageType, &data)
	if err != nil {
		if err == sql.ErrNoRows {
			return "", "", nil, nil
		}
		return "", "", nil, fmt.Errorf("failed to get business image: %w", err)
	}

	return imageName.String, imageType.String, data, nil
}

// List retrieves all business profiles ordered by creation time
func (r *BusinessRepository) List() ([]*models.BusinessProfile, error) {
	var profiles []*models.BusinessProfile

	query := `SELECT ` + businessColumns + ` FROM business_profiles ORDER BY created_at DESC`

	err := r.db.Select(&profiles, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list business profiles: %w", err)
	}

	return profiles, nil
}

// ListByRating retrieves all business profiles ordered by average rating
func (r *BusinessRepository) ListByRating() ([]*models.BusinessProfile, error) {
	var profiles []*models.BusinessProfile

	query := `
		SELECT ` + businessColumns + `
		FROM business_profiles
		ORDER BY average_rating DESC, total_reviews DESC
	`

	err := r.db.Select(&profiles, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list business profiles by rating: %w", err)
	}

	return profiles, nil
}

// ListByOwner retrieves the business profiles created by a user
func (r *BusinessRepository) ListByOwner(userID uuid.UUID) ([]*models.BusinessProfile, error) {
	var profiles []*models.BusinessProfile

	query := `
		SELECT ` + businessColumns + `
		FROM business_profiles
		WHERE created_by = $1
		ORDER BY created_at DESC
	`

	err := r.db.Select(&profiles, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list business profiles by owner: %w", err)
	}

	return profiles, nil
}

// SearchByName retrieves business profiles whose name contains the given text
func (r *BusinessRepository) SearchByName(name string) ([]*models.BusinessProfile, error) {
	var profiles []*models.BusinessProfile

	query := `
		SELECT ` + businessColumns + `
		FROM business_profiles
		WHERE business_name ILIKE '%' || $1 || '%'
		ORDER BY business_name
	`

	err := r.db.Select(&profiles, query, name)
	if err != nil {
		return nil, fmt.Errorf("failed to search business profiles: %w", err)
	}

	return profiles, nil
}

// Update persists editable profile fields. Aggregate fields are never touched
// here; only RecomputeRating writes them.
func (r *BusinessRepository) Update(profile *models.BusinessProfile) error {
	query := `
		UPDATE business_profiles
		SET business_name = $1,
		    phone_number = $2,
		    address = $3,
		    description = $4,
		    facebook_url = $5,
		    instagram_url = $6,
		    twitter_url = $7,
		    linkedin_url = $8,
		    website_url = $9,
		    google_review_url = $10,
		    image_name = COALESCE($11, image_name),
		    image_type = COALESCE($12, image_type),
		    image_data = COALESCE($13, image_data),
		    updated_at = $14
		WHERE id = $15
	`

	var imageName, imageType interface{}
	var imageData interface{}
	if len(profile.ImageData) > 0 {
		imageName = profile.ImageName
		imageType = profile.ImageType
		imageData = profile.ImageData
	}

	result, err := r.db.Exec(
		query,
		profile.BusinessName,
		profile.PhoneNumber,
		profile.Address,
		profile.Description,
		profile.FacebookURL,
		profile.InstagramURL,
		profile.TwitterURL,
		profile.LinkedinURL,
		profile.WebsiteURL,
		profile.GoogleReviewURL,
		imageName,
		imageType,
		imageData,
		time.Now(),
		profile.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update business profile: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return fmt.Errorf("business profile not found")
	}

	return nil
}

// Delete removes a business profile. Reviews and their feedback cascade at the
// database level.
func (r *BusinessRepository) Delete(id int64) error {
	result, err := r.db.Exec(`DELETE FROM business_profiles WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete business profile: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return fmt.Errorf("business profile not found")
	}

	return nil
}

// RecomputeRating recalculates average_rating and total_reviews from the
// reviews table in a single statement. The row lock on the business profile
// serializes concurrent recomputes for the same business.
func (r *BusinessRepository) RecomputeRating(id int64) error {
	query := `
		UPDATE business_profiles
		SET average_rating = COALESCE((
		        SELECT ROUND(AVG(rating)::numeric, 1)
		        FROM reviews
		        WHERE business_profile_id = $1
		    ), 0.0),
		    total_reviews = (
		        SELECT COUNT(*)
		        FROM reviews
		        WHERE business_profile_id = $1
		    ),
		    updated_at = $2
		WHERE id = $1
	`

	result, err := r.db.Exec(query, id, time.Now())
	if err != nil {
		return fmt.Errorf("failed to recompute business rating: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return fmt.Errorf("business profile not found")
	}

	return nil
}

// ListIDs returns the ids of all business profiles, for the reconciliation sweep
func (r *BusinessRepository) ListIDs() ([]int64, error) {
	var ids []int64

	err := r.db.Select(&ids, `SELECT id FROM business_profiles ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list business profile ids: %w", err)
	}

	return ids, nil
}
