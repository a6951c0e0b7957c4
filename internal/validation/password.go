// Package validation contains input validation helpers shared by the
// service and handler layers.
package validation

import (
	"fmt"
	"net/mail"
	"unicode"
)

const (
	minPasswordLen = 12
	maxPasswordLen = 128
	maxEmailLen    = 254
	maxNameLen     = 80
)

// ValidatePassword enforces the account password policy: 12 to 128
// characters with at least one uppercase letter, one lowercase letter, one
// digit and one special character.
func ValidatePassword(password string) error {
	runes := []rune(password)
	if len(runes) < minPasswordLen {
		return fmt.Errorf("password must be at least %d characters", minPasswordLen)
	}
	if len(runes) > maxPasswordLen {
		return fmt.Errorf("password must be at most %d characters", maxPasswordLen)
	}

	var hasUpper, hasLower, hasDigit, hasSpecial bool
	for _, r := range runes {
		switch {
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsDigit(r):
			hasDigit = true
		default:
			hasSpecial = true
		}
	}
	if !hasUpper {
		return fmt.Errorf("password must contain an uppercase letter")
	}
	if !hasLower {
		return fmt.Errorf("password must contain a lowercase letter")
	}
	if !hasDigit {
		return fmt.Errorf("password must contain a digit")
	}
	if !hasSpecial {
		return fmt.Errorf("password must contain a special character")
	}
	return nil
}

// ValidateEmail checks RFC 5322 address format and the 254 character limit.
func ValidateEmail(email string) error {
	if len(email) > maxEmailLen {
		return fmt.Errorf("email must be at most %d characters", maxEmailLen)
	}
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return fmt.Errorf("invalid email address")
	}
	return nil
}

// ValidateDisplayName checks the public display name used on comments.
func ValidateDisplayName(name string) error {
	if name == "" {
		return fmt.Errorf("name is required")
	}
	if len([]rune(name)) > maxNameLen {
		return fmt.Errorf("name must be at most %d characters", maxNameLen)
	}
	return nil
}
