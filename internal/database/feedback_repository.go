package database

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/brandbuilder/reviewgate-backend/internal/models"
)

// FeedbackRepository handles feedback database operations
type FeedbackRepository struct {
	db DB
}

// NewFeedbackRepository creates a new feedback repository
func NewFeedbackRepository(db DB) *FeedbackRepository {
	return &FeedbackRepository{
		db: db,
	}
}

const feedbackColumns = `id, review_id, feedback_text, service_quality, staff_behavior,
       cleanliness, value_for_money, overall_experience, suggestions,
       contact_email, contact_phone, wants_followup, status,
       admin_response, responded_at, created_at`

// Create persists a new feedback record and fills in the generated id
func (r *FeedbackRepository) Create(feedback *models.Feedback) error {
	query := `
		INSERT INTO feedback (
			review_id, feedback_text, service_quality, staff_behavior,
			cleanliness, value_for_money, overall_experience, suggestions,
			contact_email, contact_phone, wants_followup, status, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING id
	`

	err := r.db.QueryRow(
		query,
		feedback.ReviewID,
		feedback.FeedbackText,
		feedback.ServiceQuality,
		feedback.StaffBehavior,
		feedback.Cleanliness,
		feedback.ValueForMoney,
		feedback.OverallExperience,
		feedback.Suggestions,
		feedback.ContactEmail,
		feedback.ContactPhone,
		feedback.WantsFollowup,
		feedback.Status,
		feedback.CreatedAt,
	).Scan(&feedback.ID)
	if err != nil {
		return fmt.Errorf("failed to create feedback: %w", err)
	}

	return nil
}

// GetByID retrieves a feedback record by id
func (r *FeedbackRepository) GetByID(id int64) (*models.Feedback, error) {
	var feedback models.Feedback

	query := `SELECT ` + feedbackColumns + ` FROM feedback WHERE id = $1`

	err := r.db.Get(&feedback, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil // Feedback not found, return nil without error
		}
		return nil, fmt.Errorf("failed to get feedback: %w", err)
	}

	return &feedback, nil
}

// GetByReviewID retrieves the feedback attached to a review, if any
func (r *FeedbackRepository) GetByReviewID(reviewID int64) (*models.Feedback, error) {
	var feedback models.Feedback

	query := `SELECT ` + feedbackColumns + ` FROM feedback WHERE review_id = $1`

	err := r.db.Get(&feedback, query, reviewID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get feedback by review: %w", err)
	}

	return &feedback, nil
}

// ListAll retrieves every feedback record, newest first
func (r *FeedbackRepository) ListAll() ([]*models.Feedback, error) {
	var feedbacks []*models.Feedback

	query := `SELECT ` + feedbackColumns + ` FROM feedback ORDER BY created_at DESC`

	err := r.db.Select(&feedbacks, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list feedback: %w", err)
	}

	return feedbacks, nil
}

// ListByStatus retrieves feedback records in a given handling state
func (r *FeedbackRepository) ListByStatus(status models.FeedbackStatus) ([]*models.Feedback, error) {
	var feedbacks []*models.Feedback

	query := `
		SELECT ` + feedbackColumns + `
		FROM feedback
		WHERE status = $1
		ORDER BY created_at DESC
	`

	err := r.db.Select(&feedbacks, query, status)
	if err != nil {
		return nil, fmt.Errorf("failed to list feedback by status: %w", err)
	}

	return feedbacks, nil
}

// ListRequiringFollowup retrieves feedback where the customer asked to be contacted
func (r *FeedbackRepository) ListRequiringFollowup() ([]*models.Feedback, error) {
	var feedbacks []*models.Feedback

	query := `
		SELECT ` + feedbackColumns + `
		FROM feedback
		WHERE wants_followup = TRUE
		ORDER BY created_at DESC
	`

	err := r.db.Select(&feedbacks, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list feedback requiring followup: %w", err)
	}

	return feedbacks, nil
}

// UpdateStatus sets the handling state and, when a response is given, the admin
// response with its timestamp
func (r *FeedbackRepository) UpdateStatus(id int64, status models.FeedbackStatus, adminResponse string) error {
	var query string
	var result sql.Result
	var err error

	if adminResponse != "" {
		query = `
			UPDATE feedback
			SET status = $1,
			    admin_response = $2,
			    responded_at = $3
			WHERE id = $4
		`
		result, err = r.db.Exec(query, status, adminResponse, time.Now(), id)
	} else {
		query = `UPDATE feedback SET status = $1 WHERE id = $2`
		result, err = r.db.Exec(query, status, id)
	}
	if err != nil {
		return fmt.Errorf("failed to update feedback status: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return fmt.Errorf("feedback not found")
	}

	return nil
}

// Delete removes a feedback record
func (r *FeedbackRepository) Delete(id int64) error {
	result, err := r.db.Exec(`DELETE FROM feedback WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete feedback: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return fmt.Errorf("feedback not found")
	}

	return nil
}
