package validation

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"

	"github.com/easepay/easepay/internal/pkg/apperrors"
)

// Validation rule patterns
var (
	// Email validation pattern
	EmailPattern = `^[a-z0-9._%+\-]+@[a-z0-9.\-]+\.[a-z]{2,4}$`

	// Phone numbers are 10-15 digits
	PhonePattern = `^[0-9]{10,15}$`

	// Password length bounds
	PasswordMinLength = 8
	PasswordMaxLength = 30

	// PasswordSpecialChars are the accepted special characters
	PasswordSpecialChars = "@.!#$%^&*"
)

// CompiledPatterns caches compiled regex patterns
var CompiledPatterns = struct {
	Email *regexp.Regexp
	Phone *regexp.Regexp
}{
	Email: regexp.MustCompile(EmailPattern),
	Phone: regexp.MustCompile(PhonePattern),
}

// ValidateEmail checks basic email shape.
func ValidateEmail(email string) error {
	if strings.TrimSpace(email) == "" {
		return fmt.Errorf("%w: email cannot be empty", apperrors.ErrValidationFailed)
	}
	if !CompiledPatterns.Email.MatchString(strings.ToLower(email)) {
		return apperrors.ErrInvalidEmail
	}
	return nil
}

// ValidatePhoneNumber checks the 10-15 digit rule.
func ValidatePhoneNumber(phone string) error {
	if !CompiledPatterns.Phone.MatchString(phone) {
		return fmt.Errorf("%w: phone number must be 10-15 digits", apperrors.ErrValidationFailed)
	}
	return nil
}

// ValidatePassword enforces the password policy: 8-30 characters with at
// least one lowercase letter, one uppercase letter, one digit and one of
// @.!#$%^&*.
func ValidatePassword(password string) error {
	if password == "" {
		return fmt.Errorf("%w: password cannot be empty", apperrors.ErrInvalidPassword)
	}

	if len(password) < PasswordMinLength || len(password) > PasswordMaxLength {
		return fmt.Errorf("%w: password must be between %d and %d characters",
			apperrors.ErrInvalidPassword, PasswordMinLength, PasswordMaxLength)
	}

	var hasLower, hasUpper, hasDigit, hasSpecial bool
	for _, char := range password {
		switch {
		case unicode.IsLower(char):
			hasLower = true
		case unicode.IsUpper(char):
			hasUpper = true
		case unicode.IsDigit(char):
			hasDigit = true
		case strings.ContainsRune(PasswordSpecialChars, char):
			hasSpecial = true
		default:
			return fmt.Errorf("%w: password may only contain letters, digits and %s",
				apperrors.ErrInvalidPassword, PasswordSpecialChars)
		}
	}

	if !hasLower {
		return fmt.Errorf("%w: password must contain at least one lowercase letter", apperrors.ErrInvalidPassword)
	}
	if !hasUpper {
		return fmt.Errorf("%w: password must contain at least one uppercase letter", apperrors.ErrInvalidPassword)
	}
	if !hasDigit {
		return fmt.Errorf("%w: password must contain at least one digit", apperrors.ErrInvalidPassword)
	}
	if !hasSpecial {
		return fmt.Errorf("%w: password must contain at least one of %s", apperrors.ErrInvalidPassword, PasswordSpecialChars)
	}

	return nil
}
