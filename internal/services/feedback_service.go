package services

import (
	"time"

	"github.com/sirupsen/logrus"

	"github.com/brandbuilder/reviewgate-backend/internal/database"
	apperrors "github.com/brandbuilder/reviewgate-backend/internal/errors"
	"github.com/brandbuilder/reviewgate-backend/internal/models"
	"github.com/brandbuilder/reviewgate-backend/internal/monitoring"
	"github.com/brandbuilder/reviewgate-backend/pkg/validator"
)

// FeedbackService handles the structured feedback attached to low-rated
// reviews. Feedback can only exist for reviews at or below the redirect
// threshold, and at most once per review.
type FeedbackService struct {
	feedbackRepo *database.FeedbackRepository
	reviewRepo   *database.ReviewRepository
	phone        *validator.PhoneValidator
	logger       *logrus.Logger
}

// NewFeedbackService creates a new feedback service
func NewFeedbackService(feedbackRepo *database.FeedbackRepository, reviewRepo *database.ReviewRepository, logger *logrus.Logger) *FeedbackService {
	return &FeedbackService{
		feedbackRepo: feedbackRepo,
		reviewRepo:   reviewRepo,
		phone:        validator.NewPhoneValidator(),
		logger:       logger,
	}
}

// Create attaches feedback to a review. The review must exist, must be rated
// at or below the redirect threshold, and must not already have feedback.
func (s *FeedbackService) Create(reviewID int64, req *models.CreateFeedbackRequest) (*models.Feedback, error) {
	review, err := s.reviewRepo.GetByID(reviewID)
	if err != nil {
		return nil, apperrors.Internal("failed to load review", err)
	}
	if review == nil {
		return nil, apperrors.NotFound("review %d not found", reviewID)
	}

	if review.Rating > models.RedirectThreshold {
		return nil, apperrors.Policy("feedback can only be submitted for reviews rated %d or below", models.RedirectThreshold)
	}

	existing, err := s.feedbackRepo.GetByReviewID(reviewID)
	if err != nil {
		return nil, apperrors.Internal("failed to check existing feedback", err)
	}
	if existing != nil {
		return nil, apperrors.Conflict("feedback already exists for review %d", reviewID)
	}

	phone := s.phone.Normalize(req.ContactPhone)
	if err := s.phone.Validate(phone); err != nil {
		return nil, apperrors.Validation("invalid contact phone: %v", err)
	}

	feedback := &models.Feedback{
		ReviewID:          reviewID,
		FeedbackText:      models.NewNullString(req.FeedbackText),
		ServiceQuality:    models.NewNullString(req.ServiceQuality),
		StaffBehavior:     models.NewNullString(req.StaffBehavior),
		Cleanliness:       models.NewNullString(req.Cleanliness),
		ValueForMoney:     models.NewNullString(req.ValueForMoney),
		OverallExperience: models.NewNullString(req.OverallExperience),
		Suggestions:       models.NewNullString(req.Suggestions),
		ContactEmail:      models.NewNullString(req.ContactEmail),
		ContactPhone:      models.NewNullString(phone),
		WantsFollowup:     req.WantsFollowup,
		Status:            models.FeedbackStatusNew,
		CreatedAt:         time.Now(),
	}

	if err := s.feedbackRepo.Create(feedback); err != nil {
		return nil, apperrors.Internal("failed to create feedback", err)
	}

	monitoring.RecordFeedbackSubmitted()

	s.logger.WithFields(logrus.Fields{
		"feedback_id":    feedback.ID,
		"review_id":      reviewID,
		"wants_followup": feedback.WantsFollowup,
	}).Info("Feedback submitted")

	return feedback, nil
}

// GetByID retrieves a feedback record
func (s *FeedbackService) GetByID(id int64) (*models.Feedback, error) {
	feedback, err := s.feedbackRepo.GetByID(id)
	if err != nil {
		return nil, apperrors.Internal("failed to load feedback", err)
	}
	if feedback == nil {
		return nil, apperrors.NotFound("feedback %d not found", id)
	}
	return feedback, nil
}

// GetByReviewID retrieves the feedback attached to a review, if any
func (s *FeedbackService) GetByReviewID(reviewID int64) (*models.Feedback, error) {
	feedback, err := s.feedbackRepo.GetByReviewID(reviewID)
	if err != nil {
		return nil, apperrors.Internal("failed to load feedback", err)
	}
	if feedback == nil {
		return nil, apperrors.NotFound("no feedback for review %d", reviewID)
	}
	return feedback, nil
}

// ListAll retrieves every feedback record for the admin panel
func (s *FeedbackService) ListAll() ([]*models.Feedback, error) {
	feedbacks, err := s.feedbackRepo.ListAll()
	if err != nil {
		return nil, apperrors.Internal("failed to list feedback", err)
	}
	return feedbacks, nil
}

// ListByStatus retrieves feedback records in a given handling state
func (s *FeedbackService) ListByStatus(status string) ([]*models.Feedback, error) {
	fs := models.FeedbackStatus(status)
	if !models.ValidFeedbackStatuses[fs] {
		return nil, apperrors.Validation("invalid feedback status: %s", status)
	}

	feedbacks, err := s.feedbackRepo.ListByStatus(fs)
	if err != nil {
		return nil, apperrors.Internal("failed to list feedback", err)
	}
	return feedbacks, nil
}

// ListRequiringFollowup retrieves feedback where the customer asked to be contacted
func (s *FeedbackService) ListRequiringFollowup() ([]*models.Feedback, error) {
	feedbacks, err := s.feedbackRepo.ListRequiringFollowup()
	if err != nil {
		return nil, apperrors.Internal("failed to list feedback", err)
	}
	return feedbacks, nil
}

// UpdateStatus moves a feedback record to a new handling state, optionally
// recording an admin response
func (s *FeedbackService) UpdateStatus(id int64, req *models.UpdateFeedbackStatusRequest) (*models.Feedback, error) {
	status := models.FeedbackStatus(req.Status)
	if !models.ValidFeedbackStatuses[status] {
		return nil, apperrors.Validation("invalid feedback status: %s", req.Status)
	}

	existing, err := s.feedbackRepo.GetByID(id)
	if err != nil {
		return nil, apperrors.Internal("failed to load feedback", err)
	}
	if existing == nil {
		return nil, apperrors.NotFound("feedback %d not found", id)
	}

	if err := s.feedbackRepo.UpdateStatus(id, status, req.AdminResponse); err != nil {
		return nil, apperrors.Internal("failed to update feedback status", err)
	}

	updated, err := s.feedbackRepo.GetByID(id)
	if err != nil {
		return nil, apperrors.Internal("failed to reload feedback", err)
	}
	return updated, nil
}

// Delete removes a feedback record
func (s *FeedbackService) Delete(id int64) error {
	existing, err := s.feedbackRepo.GetByID(id)
	if err != nil {
		return apperrors.Internal("failed to load feedback", err)
	}
	if existing == nil {
		return apperrors.NotFound("feedback %d not found", id)
	}

	if err := s.feedbackRepo.Delete(id); err != nil {
		return apperrors.Internal("failed to delete feedback", err)
	}
	return nil
}
