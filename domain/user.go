package domain

import (
	"strings"
	"time"
	"unicode"
)

const (
	UsernameMinLength = 3
	UsernameMaxLength = 50
	FullNameMaxLength = 100
	PasswordMinLength = 8
	PasswordMaxLength = 100
)

// User represents an authenticated identity in the platform.
type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	FullName     string    `json:"full_name,omitempty"`
	PasswordHash string    `json:"-"`
	IsActive     bool      `json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// NormalizeUsername lowercases a username the way registration stores it.
func NormalizeUsername(username string) string {
	return strings.ToLower(strings.TrimSpace(username))
}

// ValidateUsername checks the stored form of a username. Lowercasing is the
// caller's job (NormalizeUsername), so only length and the alphanumeric rule
// are checked here.
func ValidateUsername(username string) error {
	if len(username) < UsernameMinLength || len(username) > UsernameMaxLength {
		return NewError(ErrCodeInvalid, "username must be between 3 and 50 characters")
	}
	for _, r := range username {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			return NewError(ErrCodeInvalid, "username must contain only letters and numbers")
		}
	}
	return nil
}

// ValidatePassword enforces the registration password policy.
func ValidatePassword(password string) error {
	if len(password) < PasswordMinLength || len(password) > PasswordMaxLength {
		return NewError(ErrCodeInvalid, "password must be between 8 and 100 characters")
	}
	var upper, lower, digit bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsLower(r):
			lower = true
		case unicode.IsDigit(r):
			digit = true
		}
	}
	if !upper {
		return NewError(ErrCodeInvalid, "password must contain at least one uppercase letter")
	}
	if !lower {
		return NewError(ErrCodeInvalid, "password must contain at least one lowercase letter")
	}
	if !digit {
		return NewError(ErrCodeInvalid, "password must contain at least one digit")
	}
	return nil
}
