package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDecisionForRating(t *testing.T) {
	const googleURL = "https://g.page/r/example/review"

	tests := []struct {
		rating       int
		redirect     bool
		feedbackForm bool
	}{
		{1, false, true},
		{2, false, true},
		{3, false, true},
		{4, true, false},
		{5, true, false},
	}

	for _, tt := range tests {
		d := DecisionForRating(tt.rating, googleURL)

		assert.Equal(t, tt.redirect, d.RedirectToExternal, "rating %d", tt.rating)
		assert.Equal(t, tt.feedbackForm, d.ShowFeedbackForm, "rating %d", tt.rating)

		if tt.redirect {
			assert.Equal(t, googleURL, d.GoogleReviewURL, "rating %d", tt.rating)
		} else {
			assert.Empty(t, d.GoogleReviewURL, "rating %d", tt.rating)
		}
	}
}

func TestDecisionForRating_NoGoogleURL(t *testing.T) {
	// A business without a review link still gets the redirect decision; the
	// frontend falls back to a thank-you page.
	d := DecisionForRating(5, "")
	assert.True(t, d.RedirectToExternal)
	assert.Empty(t, d.GoogleReviewURL)
}
