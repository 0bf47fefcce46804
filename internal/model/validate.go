package model

import (
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"
)

// DateLayout is the format used for due dates in forms and quick add
const DateLayout = "2006-01-02"

const passwordSpecials = "@#$!%*?&"

// ValidationError is a form-level failure. It never reaches the store.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// IsValidation reports whether err is (or wraps) a ValidationError
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// ValidateTitle requires a non-blank title
func ValidateTitle(title string) error {
	if strings.TrimSpace(title) == "" {
		return &ValidationError{Field: "title", Message: "must not be empty"}
	}
	return nil
}

// ValidateEmail checks that email is a bare address (no display name)
func ValidateEmail(email string) error {
	email = strings.TrimSpace(email)
	if email == "" {
		return &ValidationError{Field: "email", Message: "please input your email"}
	}
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email || !strings.Contains(email[strings.LastIndex(email, "@"):], ".") {
		return &ValidationError{Field: "email", Message: "is not a valid email address"}
	}
	return nil
}

// ValidatePassword enforces the registration rule: 8 to 64 characters
// drawn from letters, digits and @#$!%*?&, with at least one lower-case
// letter, one upper-case letter, one digit and one special character.
func ValidatePassword(password string) error {
	if password == "" {
		return &ValidationError{Field: "password", Message: "please input your password"}
	}
	if n := len([]rune(password)); n < 8 || n > 64 {
		return &ValidationError{Field: "password", Message: "must be 8 to 64 characters"}
	}

	var lower, upper, digit, special bool
	for _, r := range password {
		switch {
		case r >= 'a' && r <= 'z':
			lower = true
		case r >= 'A' && r <= 'Z':
			upper = true
		case r >= '0' && r <= '9':
			digit = true
		case strings.ContainsRune(passwordSpecials, r):
			special = true
		default:
			return &ValidationError{Field: "password", Message: fmt.Sprintf("contains unsupported character %q", r)}
		}
	}
	if !lower || !upper || !digit || !special {
		return &ValidationError{
			Field:   "password",
			Message: "needs 1 uppercase, 1 lowercase, 1 digit and 1 special character",
		}
	}
	return nil
}

// ParseDueDate parses an optional YYYY-MM-DD date. Blank input yields nil.
func ParseDueDate(s string) (*time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	t, err := time.ParseInLocation(DateLayout, s, time.Local)
	if err != nil {
		return nil, &ValidationError{Field: "due date", Message: "use YYYY-MM-DD"}
	}
	return &t, nil
}
