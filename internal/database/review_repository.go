package database

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/brandbuilder/reviewgate-backend/internal/models"
)

// ReviewRepository handles review database operations
type ReviewRepository struct {
	db DB
}

// NewReviewRepository creates a new review repository
func NewReviewRepository(db DB) *ReviewRepository {
	return &ReviewRepository{
		db: db,
	}
}

const reviewColumns = `id, rating, comment, business_profile_id, customer_id,
       customer_name, customer_email, customer_phone, is_anonymous,
       redirected_to_google, created_at, updated_at`

// Create persists a new review and fills in the generated id
func (r *ReviewRepository) Create(review *models.Review) error {
	query := `
		INSERT INTO reviews (
			rating, comment, business_profile_id, customer_id,
			customer_name, customer_email, customer_phone, is_anonymous,
			redirected_to_google, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id
	`

	err := r.db.QueryRow(
		query,
		review.Rating,
		review.Comment,
		review.BusinessProfileID,
		review.CustomerID,
		review.CustomerName,
		review.CustomerEmail,
		review.CustomerPhone,
		review.IsAnonymous,
		review.RedirectedToGoogle,
		review.CreatedAt,
		review.UpdatedAt,
	).Scan(&review.ID)
	if err != nil {
		return fmt.Errorf("failed to create review: %w", err)
	}

	return nil
}

// GetByID retrieves a review by id
func (r *ReviewRepository) GetByID(id int64) (*models.Review, error) {
	var review models.Review

	query := `SELECT ` + reviewColumns + ` FROM reviews WHERE id = $1`

	err := r.db.Get(&review, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil // Review not found, return nil without error
		}
		return nil, fmt.Errorf("failed to get review: %w", err)
	}

	return &review, nil
}

// ListByBusiness retrieves all reviews for a business, newest first
func (r *ReviewRepository) ListByBusiness(businessID int64) ([]*models.Review, error) {
	var reviews []*models.Review

	query := `
		SELECT ` + reviewColumns + `
		FROM reviews
		WHERE business_profile_id = $1
		ORDER BY created_at DESC
	`

	err := r.db.Select(&reviews, query, businessID)
	if err != nil {
		return nil, fmt.Errorf("failed to list reviews by business: %w", err)
	}

	return reviews, nil
}

// ListByCustomer retrieves all reviews submitted by a customer
func (r *ReviewRepository) ListByCustomer(customerID uuid.UUID) ([]*models.Review, error) {
	var reviews []*models.Review

	query := `
		SELECT ` + reviewColumns + `
		FROM reviews
		WHERE customer_id = $1
		ORDER BY created_at DESC
	`

	err := r.db.Select(&reviews, query, customerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list reviews by customer: %w", err)
	}

	return reviews, nil
}

// ListAll retrieves every review, newest first
func (r *ReviewRepository) ListAll() ([]*models.Review, error) {
	var reviews []*models.Review

	query := `SELECT ` + reviewColumns + ` FROM reviews ORDER BY created_at DESC`

	err := r.db.Select(&reviews, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list reviews: %w", err)
	}

	return reviews, nil
}

// ListLowRating retrieves reviews at or below the feedback threshold
func (r *ReviewRepository) ListLowRating(maxRating int) ([]*models.Review, error) {
	var reviews []*models.Review

	query := `
		SELECT ` + reviewColumns + `
		FROM reviews
		WHERE rating <= $1
		ORDER BY created_at DESC
	`

	err := r.db.Select(&reviews, query, maxRating)
	if err != nil {
		return nil, fmt.Errorf("failed to list low-rating reviews: %w", err)
	}

	return reviews, nil
}

// ExistsByCustomerAndBusiness reports whether the customer already reviewed the
// business. Anonymous reviews never count towards the one-per-customer rule.
func (r *ReviewRepository) ExistsByCustomerAndBusiness(customerID uuid.UUID, businessID int64) (bool, error) {
	var exists bool

	query := `
		SELECT EXISTS (
			SELECT 1 FROM reviews
			WHERE customer_id = $1 AND business_profile_id = $2
		)
	`

	err := r.db.QueryRow(query, customerID, businessID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check existing review: %w", err)
	}

	return exists, nil
}

// Update persists a new rating, comment and redirect flag for a review
func (r *ReviewRepository) Update(review *models.Review) error {
	query := `
		UPDATE reviews
		SET rating = $1,
		    comment = $2,
		    redirected_to_google = $3,
		    updated_at = $4
		WHERE id = $5
	`

	result, err := r.db.Exec(
		query,
		review.Rating,
		review.Comment,
		review.RedirectedToGoogle,
		time.Now(),
		review.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update review: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return fmt.Errorf("review not found")
	}

	return nil
}

// Delete removes a review. Its feedback cascades at the database level.
func (r *ReviewRepository) Delete(id int64) error {
	result, err := r.db.Exec(`DELETE FROM reviews WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete review: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return fmt.Errorf("review not found")
	}

	return nil
}
