package models

import (
	"time"
)

// FeedbackStatus is the handling state of a feedback record
type FeedbackStatus string

const (
	FeedbackStatusNew        FeedbackStatus = "NEW"
	FeedbackStatusInProgress FeedbackStatus = "IN_PROGRESS"
	FeedbackStatusResolved   FeedbackStatus = "RESOLVED"
	FeedbackStatusClosed     FeedbackStatus = "CLOSED"
)

// ValidFeedbackStatuses lists the accepted handling states
var ValidFeedbackStatuses = map[FeedbackStatus]bool{
	FeedbackStatusNew:        true,
	FeedbackStatusInProgress: true,
	FeedbackStatusResolved:   true,
	FeedbackStatusClosed:     true,
}

// Feedback is the structured follow-up collected for a low-rated review.
// Exactly one feedback record can exist per review.
type Feedback struct {
	ID                int64          `json:"id" db:"id"`
	ReviewID          int64          `json:"review_id" db:"review_id"`
	FeedbackText      NullString     `json:"feedback_text,omitempty" db:"feedback_text"`
	ServiceQuality    NullString     `json:"service_quality,omitempty" db:"service_quality"`
	StaffBehavior     NullString     `json:"staff_behavior,omitempty" db:"staff_behavior"`
	Cleanliness       NullString     `json:"cleanliness,omitempty" db:"cleanliness"`
	ValueForMoney     NullString     `json:"value_for_money,omitempty" db:"value_for_money"`
	OverallExperience NullString     `json:"overall_experience,omitempty" db:"overall_experience"`
	Suggestions       NullString     `json:"suggestions,omitempty" db:"suggestions"`
	ContactEmail      NullString     `json:"contact_email,omitempty" db:"contact_email"`
	ContactPhone      NullString     `json:"contact_phone,omitempty" db:"contact_phone"`
	WantsFollowup     bool           `json:"wants_followup" db:"wants_followup"`
	Status            FeedbackStatus `json:"status" db:"status"`
	AdminResponse     NullString     `json:"admin_response,omitempty" db:"admin_response"`
	RespondedAt       NullTime       `json:"responded_at,omitempty" db:"responded_at"`
	CreatedAt         time.Time      `json:"created_at" db:"created_at"`
}

// CreateFeedbackRequest is the payload for submitting feedback on a review
type CreateFeedbackRequest struct {
	FeedbackText      string `json:"feedback_text"`
	ServiceQuality    string `json:"service_quality"`
	StaffBehavior     string `json:"staff_behavior"`
	Cleanliness       string `json:"cleanliness"`
	ValueForMoney     string `json:"value_for_money"`
	OverallExperience string `json:"overall_experience"`
	Suggestions       string `json:"suggestions"`
	ContactEmail      string `json:"contact_email"`
	ContactPhone      string `json:"contact_phone"`
	WantsFollowup     bool   `json:"wants_followup"`
}

// UpdateFeedbackStatusRequest is the admin payload for moving feedback along
type UpdateFeedbackStatusRequest struct {
	Status        string `json:"status" binding:"required"`
	AdminResponse string `json:"admin_response"`
}
