package services

import (
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/brandbuilder/reviewgate-backend/internal/database"
	apperrors "github.com/brandbuilder/reviewgate-backend/internal/errors"
	"github.com/brandbuilder/reviewgate-backend/internal/models"
	"github.com/brandbuilder/reviewgate-backend/pkg/validator"
)

// BusinessImage carries an uploaded profile image from the handler layer
type BusinessImage struct {
	Name        string
	ContentType string
	Data        []byte
}

// BusinessService handles business profile management. Profiles are created
// through the admin surface and owned by the creating user; only the owner or
// an admin may change or delete them.
type BusinessService struct {
	businessRepo *database.BusinessRepository
	phone        *validator.PhoneValidator
	logger       *logrus.Logger
}

// NewBusinessService creates a new business service
func NewBusinessService(businessRepo *database.BusinessRepository, logger *logrus.Logger) *BusinessService {
	return &BusinessService{
		businessRepo: businessRepo,
		phone:        validator.NewPhoneValidator(),
		logger:       logger,
	}
}

// Create creates a business profile owned by the given user
func (s *BusinessService) Create(ownerID uuid.UUID, req *models.CreateBusinessProfileRequest, image *BusinessImage) (*models.BusinessProfile, error) {
	phone := s.phone.Normalize(req.PhoneNumber)
	if err := s.phone.Validate(phone); err != nil {
		return nil, apperrors.Validation("invalid phone number: %v", err)
	}

	now := time.Now()
	profile := &models.BusinessProfile{
		BusinessName:    req.BusinessName,
		PhoneNumber:     models.NewNullString(phone),
		Address:         models.NewNullString(req.Address),
		Description:     models.NewNullString(req.Description),
		FacebookURL:     models.NewNullString(req.FacebookURL),
		InstagramURL:    models.NewNullString(req.InstagramURL),
		TwitterURL:      models.NewNullString(req.TwitterURL),
		LinkedinURL:     models.NewNullString(req.LinkedinURL),
		WebsiteURL:      models.NewNullString(req.WebsiteURL),
		GoogleReviewURL: models.NewNullString(req.GoogleReviewURL),
		CreatedBy:       ownerID,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if image != nil && len(image.Data) > 0 {
		profile.ImageName = models.NewNullString(image.Name)
		profile.ImageType = models.NewNullString(image.ContentType)
		profile.ImageData = image.Data
	}

	if err := s.businessRepo.Create(profile); err != nil {
		return nil, apperrors.Internal("failed to create business profile", err)
	}

	s.logger.WithFields(logrus.Fields{
		"business_profile_id": profile.ID,
		"business_name":       profile.BusinessName,
		"created_by":          ownerID,
	}).Info("Business profile created")

	return profile, nil
}

// GetByID retrieves a business profile
func (s *BusinessService) GetByID(id int64) (*models.BusinessProfile, error) {
	profile, err := s.businessRepo.GetByID(id)
	if err != nil {
		return nil, apperrors.Internal("failed to load business profile", err)
	}
	if profile == nil {
		return nil, apperrors.NotFound("business profile %d not found", id)
	}
	return profile, nil
}

// GetImage retrieves the stored profile image for a business
func (s *BusinessService) GetImage(id int64) (name, contentType string, data []byte, err error) {
	name, contentType, data, err = s.businessRepo.GetImage(id)
	if err != nil {
		return "", "", nil, apperrors.Internal("failed to load business image", err)
	}
	if len(data) == 0 {
		return "", "", nil, apperrors.NotFound("business profile %d has no image", id)
	}
	return name, contentType, data, nil
}

// List retrieves all business profiles
func (s *BusinessService) List() ([]*models.BusinessProfile, error) {
	profiles, err := s.businessRepo.List()
	if err != nil {
		return nil, apperrors.Internal("failed to list business profiles", err)
	}
	return profiles, nil
}

// ListByRating retrieves all business profiles ordered by average rating
func (s *BusinessService) ListByRating() ([]*models.BusinessProfile, error) {
	profiles, err := s.businessRepo.ListByRating()
	if err != nil {
		return nil, apperrors.Internal("failed to list business profiles", err)
	}
	return profiles, nil
}

// ListByOwner retrieves the profiles created by a user
func (s *BusinessService) ListByOwner(ownerID uuid.UUID) ([]*models.BusinessProfile, error) {
	profiles, err := s.businessRepo.ListByOwner(ownerID)
	if err != nil {
		return nil, apperrors.Internal("failed to list business profiles", err)
	}
	return profiles, nil
}

// SearchByName retrieves business profiles whose name contains the given text
func (s *BusinessService) SearchByName(name string) ([]*models.BusinessProfile, error) {
	if name == "" {
		return nil, apperrors.Validation("search text is required")
	}

	profiles, err := s.businessRepo.SearchByName(name)
	if err != nil {
		return nil, apperrors.Internal("failed to search business profiles", err)
	}
	return profiles, nil
}

// Update edits a business profile. Only the owner or an admin may edit.
// Aggregate rating fields are never touched here.
func (s *BusinessService) Update(id int64, principal uuid.UUID, isAdmin bool, req *models.UpdateBusinessProfileRequest, image *BusinessImage) (*models.BusinessProfile, error) {
	profile, err := s.businessRepo.GetByID(id)
	if err != nil {
		return nil, apperrors.Internal("failed to load business profile", err)
	}
	if profile == nil {
		return nil, apperrors.NotFound("business profile %d not found", id)
	}

	if !isAdmin && !profile.IsOwnedBy(principal) {
		return nil, apperrors.Forbidden("you can only edit your own business profiles")
	}

	phone := s.phone.Normalize(req.PhoneNumber)
	if err := s.phone.Validate(phone); err != nil {
		return nil, apperrors.Validation("invalid phone number: %v", err)
	}

	profile.BusinessName = req.BusinessName
	profile.PhoneNumber = models.NewNullString(phone)
	profile.Address = models.NewNullString(req.Address)
	profile.Description = models.NewNullString(req.Description)
	profile.FacebookURL = models.NewNullString(req.FacebookURL)
	profile.InstagramURL = models.NewNullString(req.InstagramURL)
	profile.TwitterURL = models.NewNullString(req.TwitterURL)
	profile.LinkedinURL = models.NewNullString(req.LinkedinURL)
	profile.WebsiteURL = models.NewNullString(req.WebsiteURL)
	profile.GoogleReviewURL = models.NewNullString(req.GoogleReviewURL)

	if image != nil && len(image.Data) > 0 {
		profile.ImageName = models.NewNullString(image.Name)
		profile.ImageType = models.NewNullString(image.ContentType)
		profile.ImageData = image.Data
	} else {
		profile.ImageData = nil // keep the stored image
	}

	if err := s.businessRepo.Update(profile); err != nil {
		return nil, apperrors.Internal("failed to update business profile", err)
	}

	return profile, nil
}

// Delete removes a business profile. Only the owner or an admin may delete.
// Reviews and feedback cascade at the database level.
func (s *BusinessService) Delete(id int64, principal uuid.UUID, isAdmin bool) error {
	profile, err := s.businessRepo.GetByID(id)
	if err != nil {
		return apperrors.Internal("failed to load business profile", err)
	}
	if profile == nil {
		return apperrors.NotFound("business profile %d not found", id)
	}

	if !isAdmin && !profile.IsOwnedBy(principal) {
		return apperrors.Forbidden("you can only delete your own business profiles")
	}

	if err := s.businessRepo.Delete(id); err != nil {
		return apperrors.Internal("failed to delete business profile", err)
	}

	s.logger.WithFields(logrus.Fields{
		"business_profile_id": id,
		"business_name":       profile.BusinessName,
	}).Info("Business profile deleted with its reviews and feedback")

	return nil
}
