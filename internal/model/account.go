package model

import "strings"

// Account is a locally registered user
type Account struct {
	Email        string `json:"email"`
	PasswordHash string `json:"password_hash,omitempty"`

	// Password is only set on records written before hashing was added
	Password string `json:"password,omitempty"`
}

// NormalizeEmail trims and lower-cases an address for storage and lookup
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
