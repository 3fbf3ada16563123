package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPhoneValidator_Validate(t *testing.T) {
	v := NewPhoneValidator()

	tests := []struct {
		name    string
		phone   string
		wantErr bool
	}{
		{"valid local number", "0771234567", false},
		{"valid international number", "+14155552671", false},
		{"empty is allowed", "", false},
		{"whitespace only is allowed", "   ", false},
		{"too short", "12345", true},
		{"too long", "1234567890123456", true},
		{"contains letters", "07712345ab", true},
		{"contains dashes", "077-123-4567", true},
		{"plus in the middle", "077+1234567", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Validate(tt.phone)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestPhoneValidator_Normalize(t *testing.T) {
	v := NewPhoneValidator()

	assert.Equal(t, "+14155552671", v.Normalize(" +1 (415) 555-2671 "))
	assert.Equal(t, "0771234567", v.Normalize("077-123-4567"))
}

func TestValidateRating(t *testing.T) {
	assert.NoError(t, ValidateRating(1))
	assert.NoError(t, ValidateRating(3))
	assert.NoError(t, ValidateRating(5))
	assert.Error(t, ValidateRating(0))
	assert.Error(t, ValidateRating(6))
	assert.Error(t, ValidateRating(-1))
}
