// Package validator provides input validation helpers for the review platform.
package validator

import (
	"fmt"
	"regexp"
	"strings"
)

// PhoneValidator validates contact phone numbers.
// Accepts an optional leading + followed by 10-15 digits.
type PhoneValidator struct {
	pattern *regexp.Regexp
}

// NewPhoneValidator creates a new phone number validator
func NewPhoneValidator() *PhoneValidator {
	return &PhoneValidator{
		pattern: regexp.MustCompile(`^[+]?[0-9]{10,15}$`),
	}
}

// Validate checks if the phone number is valid.
// Empty values are allowed since the phone is optional on business profiles
// and feedback contact details.
func (v *PhoneValidator) Validate(phone string) error {
	phone = strings.TrimSpace(phone)
	if phone == "" {
		return nil
	}

	if !v.pattern.MatchString(phone) {
		return fmt.Errorf("invalid phone number format: must be 10-15 digits with optional leading +")
	}

	return nil
}

// Normalize strips spaces, dashes and parentheses from a phone number
func (v *PhoneValidator) Normalize(phone string) string {
	replacer := strings.NewReplacer(" ", "", "-", "", "(", "", ")", "")
	return replacer.Replace(strings.TrimSpace(phone))
}

// ValidateRating checks that a star rating falls within the allowed 1-5 range
func ValidateRating(rating int) error {
	if rating < 1 || rating > 5 {
		return fmt.Errorf("rating must be between 1 and 5, got %d", rating)
	}
	return nil
}
