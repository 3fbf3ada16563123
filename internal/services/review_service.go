package services

import (
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/brandbuilder/reviewgate-backend/internal/database"
	apperrors "github.com/brandbuilder/reviewgate-backend/internal/errors"
	"github.com/brandbuilder/reviewgate-backend/internal/models"
	"github.com/brandbuilder/reviewgate-backend/internal/monitoring"
)

// ReviewService implements the review lifecycle: submission (authenticated and
// anonymous), the redirect-or-feedback decision, edits, deletion, and queries.
// Every write that changes ratings triggers an aggregate recompute after the
// review itself has been persisted.
type ReviewService struct {
	reviewRepo   *database.ReviewRepository
	businessRepo *database.BusinessRepository
	rating       *RatingService
	notifier     *NotificationService
	logger       *logrus.Logger
}

// NewReviewService creates a new review service
func NewReviewService(
	reviewRepo *database.ReviewRepository,
	businessRepo *database.BusinessRepository,
	rating *RatingService,
	notifier *NotificationService,
	logger *logrus.Logger,
) *ReviewService {
	return &ReviewService{
		reviewRepo:   reviewRepo,
		businessRepo: businessRepo,
		rating:       rating,
		notifier:     notifier,
		logger:       logger,
	}
}

// Create submits a review on behalf of an authenticated customer. A customer
// can review each business at most once.
func (s *ReviewService) Create(customerID uuid.UUID, businessID int64, req *models.CreateReviewRequest) (*models.Review, *models.ReviewDecision, error) {
	business, err := s.businessRepo.GetByID(businessID)
	if err != nil {
		return nil, nil, apperrors.Internal("failed to load business profile", err)
	}
	if business == nil {
		return nil, nil, apperrors.NotFound("business profile %d not found", businessID)
	}

	exists, err := s.reviewRepo.ExistsByCustomerAndBusiness(customerID, businessID)
	if err != nil {
		return nil, nil, apperrors.Internal("failed to check existing review", err)
	}
	if exists {
		return nil, nil, apperrors.Conflict("you have already reviewed this business")
	}

	now := time.Now()
	review := &models.Review{
		Rating:             req.Rating,
		Comment:            models.NewNullString(req.Comment),
		BusinessProfileID:  businessID,
		CustomerID:         models.NewNullUUID(customerID),
		IsAnonymous:        false,
		RedirectedToGoogle: req.Rating > models.RedirectThreshold,
		CreatedAt:          now,
		UpdatedAt:          now,
	}

	if err := s.reviewRepo.Create(review); err != nil {
		return nil, nil, apperrors.Internal("failed to create review", err)
	}

	s.afterReviewWrite(review, business)

	decision := models.DecisionForRating(review.Rating, business.GoogleReviewURL.String)
	return review, &decision, nil
}

// CreateAnonymous submits a review without an account. Contact details are
// optional; the duplicate-review rule does not apply.
func (s *ReviewService) CreateAnonymous(businessID int64, req *models.CreateAnonymousReviewRequest) (*models.Review, *models.ReviewDecision, error) {
	business, err := s.businessRepo.GetByID(businessID)
	if err != nil {
		return nil, nil, apperrors.Internal("failed to load business profile", err)
	}
	if business == nil {
		return nil, nil, apperrors.NotFound("business profile %d not found", businessID)
	}

	now := time.Now()
	review := &models.Review{
		Rating:             req.Rating,
		Comment:            models.NewNullString(req.Comment),
		BusinessProfileID:  businessID,
		CustomerName:       models.NewNullString(req.CustomerName),
		CustomerEmail:      models.NewNullString(req.CustomerEmail),
		CustomerPhone:      models.NewNullString(req.CustomerPhone),
		IsAnonymous:        req.IsAnonymous || req.CustomerName == "",
		RedirectedToGoogle: req.Rating > models.RedirectThreshold,
		CreatedAt:          now,
		UpdatedAt:          now,
	}

	if err := s.reviewRepo.Create(review); err != nil {
		return nil, nil, apperrors.Internal("failed to create review", err)
	}

	s.afterReviewWrite(review, business)

	decision := models.DecisionForRating(review.Rating, business.GoogleReviewURL.String)
	return review, &decision, nil
}

// afterReviewWrite runs the post-commit side effects: the aggregate recompute
// (errors swallowed) and the owner notification (async, errors swallowed).
// The review itself is already durable at this point.
func (s *ReviewService) afterReviewWrite(review *models.Review, business *models.BusinessProfile) {
	monitoring.RecordReviewSubmitted(review.Rating, review.IsAnonymous)
	if review.RedirectedToGoogle {
		monitoring.RecordReviewRedirect()
	}

	s.rating.RecomputeAfterWrite(business.ID)
	if s.notifier != nil {
		go s.notifier.NotifyReviewSubmitted(review, business)
	}
}

// GetByID retrieves a single review
func (s *ReviewService) GetByID(id int64) (*models.Review, error) {
	review, err := s.reviewRepo.GetByID(id)
	if err != nil {
		return nil, apperrors.Internal("failed to load review", err)
	}
	if review == nil {
		return nil, apperrors.NotFound("review %d not found", id)
	}
	return review, nil
}

// ListByBusiness retrieves the reviews for a business profile
func (s *ReviewService) ListByBusiness(businessID int64) ([]*models.Review, error) {
	business, err := s.businessRepo.GetByID(businessID)
	if err != nil {
		return nil, apperrors.Internal("failed to load business profile", err)
	}
	if business == nil {
		return nil, apperrors.NotFound("business profile %d not found", businessID)
	}

	reviews, err := s.reviewRepo.ListByBusiness(businessID)
	if err != nil {
		return nil, apperrors.Internal("failed to list reviews", err)
	}
	return reviews, nil
}

// ListByCustomer retrieves the reviews submitted by a customer
func (s *ReviewService) ListByCustomer(customerID uuid.UUID) ([]*models.Review, error) {
	reviews, err := s.reviewRepo.ListByCustomer(customerID)
	if err != nil {
		return nil, apperrors.Internal("failed to list reviews", err)
	}
	return reviews, nil
}

// ListAll retrieves every review for the admin panel
func (s *ReviewService) ListAll() ([]*models.Review, error) {
	reviews, err := s.reviewRepo.ListAll()
	if err != nil {
		return nil, apperrors.Internal("failed to list reviews", err)
	}
	return reviews, nil
}

// ListLowRating retrieves reviews at or below the feedback threshold
func (s *ReviewService) ListLowRating() ([]*models.Review, error) {
	reviews, err := s.reviewRepo.ListLowRating(models.RedirectThreshold)
	if err != nil {
		return nil, apperrors.Internal("failed to list low-rating reviews", err)
	}
	return reviews, nil
}

// HasReviewed reports whether the customer already reviewed the business
func (s *ReviewService) HasReviewed(customerID uuid.UUID, businessID int64) (bool, error) {
	exists, err := s.reviewRepo.ExistsByCustomerAndBusiness(customerID, businessID)
	if err != nil {
		return false, apperrors.Internal("failed to check existing review", err)
	}
	return exists, nil
}

// Update edits a review's rating and comment. Only the author or an admin may
// edit; the redirect flag follows the new rating and aggregates are recomputed.
func (s *ReviewService) Update(id int64, principal uuid.UUID, isAdmin bool, req *models.UpdateReviewRequest) (*models.Review, error) {
	review, err := s.reviewRepo.GetByID(id)
	if err != nil {
		return nil, apperrors.Internal("failed to load review", err)
	}
	if review == nil {
		return nil, apperrors.NotFound("review %d not found", id)
	}

	if !isAdmin {
		if !review.CustomerID.Valid || review.CustomerID.UUID != principal {
			return nil, apperrors.Forbidden("you can only edit your own reviews")
		}
	}

	review.Rating = req.Rating
	review.Comment = models.NewNullString(req.Comment)
	review.RedirectedToGoogle = req.Rating > models.RedirectThreshold

	if err := s.reviewRepo.Update(review); err != nil {
		return nil, apperrors.Internal("failed to update review", err)
	}

	s.rating.RecomputeAfterWrite(review.BusinessProfileID)

	return review, nil
}

// Delete removes a review. Only the author or an admin may delete; aggregates
// are recomputed afterwards and any feedback cascades away with the review.
func (s *ReviewService) Delete(id int64, principal uuid.UUID, isAdmin bool) error {
	review, err := s.reviewRepo.GetByID(id)
	if err != nil {
		return apperrors.Internal("failed to load review", err)
	}
	if review == nil {
		return apperrors.NotFound("review %d not found", id)
	}

	if !isAdmin {
		if !review.CustomerID.Valid || review.CustomerID.UUID != principal {
			return apperrors.Forbidden("you can only delete your own reviews")
		}
	}

	if err := s.reviewRepo.Delete(id); err != nil {
		return apperrors.Internal("failed to delete review", err)
	}

	s.rating.RecomputeAfterWrite(review.BusinessProfileID)

	return nil
}
