package models

import (
	"time"

	"github.com/google/uuid"
)

// BusinessProfile represents a business page that collects customer reviews.
// AverageRating and TotalReviews are derived from the reviews table and are
// only ever written by the rating recompute; treat them as read-only everywhere
// else.
type BusinessProfile struct {
	ID              int64      `json:"id" db:"id"`
	BusinessName    string     `json:"business_name" db:"business_name"`
	PhoneNumber     NullString `json:"phone_number,omitempty" db:"phone_number"`
	Address         NullString `json:"address,omitempty" db:"address"`
	Description     NullString `json:"description,omitempty" db:"description"`
	FacebookURL     NullString `json:"facebook_url,omitempty" db:"facebook_url"`
	InstagramURL    NullString `json:"instagram_url,omitempty" db:"instagram_url"`
	TwitterURL      NullString `json:"twitter_url,omitempty" db:"twitter_url"`
	LinkedinURL     NullString `json:"linkedin_url,omitempty" db:"linkedin_url"`
	WebsiteURL      NullString `json:"website_url,omitempty" db:"website_url"`
	GoogleReviewURL NullString `json:"google_review_url,omitempty" db:"google_review_url"`
	ImageName       NullString `json:"image_name,omitempty" db:"image_name"`
	ImageType       NullString `json:"image_type,omitempty" db:"image_type"`
	ImageData       []byte     `json:"-" db:"image_data"`
	CreatedBy       uuid.UUID  `json:"created_by" db:"created_by"`
	AverageRating   float64    `json:"average_rating" db:"average_rating"`
	TotalReviews    int        `json:"total_reviews" db:"total_reviews"`
	CreatedAt       time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at" db:"updated_at"`
}

// IsOwnedBy reports whether the given principal created this business profile
func (b *BusinessProfile) IsOwnedBy(userID uuid.UUID) bool {
	return b.CreatedBy == userID
}

// CreateBusinessProfileRequest is the multipart form payload for creating a profile
type CreateBusinessProfileRequest struct {
	BusinessName    string `form:"business_name" binding:"required"`
	PhoneNumber     string `form:"phone_number"`
	Address         string `form:"address"`
	Description     string `form:"description"`
	FacebookURL     string `form:"facebook_url"`
	InstagramURL    string `form:"instagram_url"`
	TwitterURL      string `form:"twitter_url"`
	LinkedinURL     string `form:"linkedin_url"`
	WebsiteURL      string `form:"website_url"`
	GoogleReviewURL string `form:"google_review_url"`
}

// UpdateBusinessProfileRequest mirrors the create payload for updates
type UpdateBusinessProfileRequest = CreateBusinessProfileRequest
