package models

import (
	"time"
)

// Rating bounds for a review
const (
	MinRating = 1
	MaxRating = 5
)

// RedirectThreshold splits the rating scale: ratings above it redirect the
// customer to the external review site, ratings at or below it show the
// feedback form. 3 always shows the form, 4 and 5 always redirect.
const RedirectThreshold = 3

// Review represents a customer's star rating and comment for a business.
// CustomerID is null for reviews submitted without an account; the anonymous
// contact fields carry whatever the customer chose to leave behind.
type Review struct {
	ID                 int64      `json:"id" db:"id"`
	Rating             int        `json:"rating" db:"rating"`
	Comment            NullString `json:"comment,omitempty" db:"comment"`
	BusinessProfileID  int64      `json:"business_profile_id" db:"business_profile_id"`
	CustomerID         NullUUID   `json:"customer_id,omitempty" db:"customer_id"`
	CustomerName       NullString `json:"customer_name,omitempty" db:"customer_name"`
	CustomerEmail      NullString `json:"customer_email,omitempty" db:"customer_email"`
	CustomerPhone      NullString `json:"customer_phone,omitempty" db:"customer_phone"`
	IsAnonymous        bool       `json:"is_anonymous" db:"is_anonymous"`
	RedirectedToGoogle bool       `json:"redirected_to_google" db:"redirected_to_google"`
	CreatedAt          time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt          time.Time  `json:"updated_at" db:"updated_at"`
}

// ReviewDecision tells the frontend what to do after a submission
type ReviewDecision struct {
	RedirectToExternal bool   `json:"redirect_to_external"`
	ShowFeedbackForm   bool   `json:"show_feedback_form"`
	GoogleReviewURL    string `json:"google_review_url,omitempty"`
}

// DecisionForRating derives the post-submission decision from a rating
func DecisionForRating(rating int, googleReviewURL string) ReviewDecision {
	d := ReviewDecision{
		RedirectToExternal: rating > RedirectThreshold,
		ShowFeedbackForm:   rating <= RedirectThreshold,
	}
	if d.RedirectToExternal {
		d.GoogleReviewURL = googleReviewURL
	}
	return d
}

// CreateReviewRequest is the payload for an authenticated review submission
type CreateReviewRequest struct {
	Rating  int    `json:"rating" binding:"required,min=1,max=5"`
	Comment string `json:"comment"`
}

// CreateAnonymousReviewRequest is the payload for a review without an account
type CreateAnonymousReviewRequest struct {
	Rating        int    `json:"rating" binding:"required,min=1,max=5"`
	Comment       string `json:"comment"`
	IsAnonymous   bool   `json:"is_anonymous"`
	CustomerName  string `json:"customer_name"`
	CustomerEmail string `json:"customer_email"`
	CustomerPhone string `json:"customer_phone"`
}

// UpdateReviewRequest is the payload for editing an existing review
type UpdateReviewRequest struct {
	Rating  int    `json:"rating" binding:"required,min=1,max=5"`
	Comment string `json:"comment"`
}
