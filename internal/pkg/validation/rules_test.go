package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidatePassword(t *testing.T) {
	tests := []struct {
		name     string
		password string
		wantErr  bool
	}{
		{"valid with all classes", "Abc123!@", false},
		{"valid at max length", "Aa1!Aa1!Aa1!Aa1!Aa1!Aa1!Aa1!Aa", false},
		{"missing uppercase", "abc12345!", true},
		{"missing lowercase", "ABC12345!", true},
		{"missing digit", "Abcdefgh!", true},
		{"missing special", "Abc12345", true},
		{"no special at all", "abc12345", true},
		{"too short", "Ab1!", true},
		{"too long", "Aa1!Aa1!Aa1!Aa1!Aa1!Aa1!Aa1!Aa1", true},
		{"disallowed character", "Abc123!@ space", true},
		{"disallowed special", "Abc123!?", true},
		{"empty", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePassword(tt.password)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateEmail(t *testing.T) {
	assert.NoError(t, ValidateEmail("bursar@easepay.app"))
	assert.NoError(t, ValidateEmail("first.last+tag@sub.domain.org"))

	assert.Error(t, ValidateEmail(""))
	assert.Error(t, ValidateEmail("   "))
	assert.Error(t, ValidateEmail("no-at-sign"))
	assert.Error(t, ValidateEmail("missing@tld"))
}

func TestValidatePhoneNumber(t *testing.T) {
	assert.NoError(t, ValidatePhoneNumber("0801234567"))
	assert.NoError(t, ValidatePhoneNumber("234801234567890"))

	assert.Error(t, ValidatePhoneNumber("123456789"))        // 9 digits
	assert.Error(t, ValidatePhoneNumber("1234567890123456")) // 16 digits
	assert.Error(t, ValidatePhoneNumber("+2348012345678"))   // plus sign
	assert.Error(t, ValidatePhoneNumber(""))
}
