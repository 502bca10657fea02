// Package sandbox is a local implementation of the partner portal backend.
// It serves the same contract the client consumes, so the CLI can be run
// end to end without the production API.
package sandbox

import (
	"errors"
	"strings"
	"time"

	"github.com/bizlink/partner-portal/internal/core/domain"
)

var (
	ErrAccountExists      = errors.New("User with this email already exists")
	ErrAccountNotFound    = errors.New("User not found")
	ErrInvalidCredentials = errors.New("Invalid credentials")
	ErrInvalidToken       = errors.New("Invalid or expired token")
	ErrForbidden          = errors.New("Access denied")
)

// Account is a stored sandbox user.
type Account struct {
	ID           string
	Email        string
	PasswordHash string
	UserType     domain.Role
	FirstName    string
	LastName     string
	CompanyName  string
	CreatedAt    time.Time
}

// WireUser is the user object as the backend sends it: userType and split
// first/last names, unlike the client's canonical User.
type WireUser struct {
	ID          string      `json:"id"`
	Email       string      `json:"email"`
	UserType    domain.Role `json:"userType"`
	FirstName   string      `json:"firstName"`
	LastName    string      `json:"lastName"`
	CompanyName string      `json:"companyName,omitempty"`
}

func (a Account) Wire() WireUser {
	return WireUser{
		ID:          a.ID,
		Email:       a.Email,
		UserType:    a.UserType,
		FirstName:   a.FirstName,
		LastName:    a.LastName,
		CompanyName: a.CompanyName,
	}
}

// normalizeEmail is the lookup key for accounts.
func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// splitName turns a free-form display name into first and last name. The
// first word is the first name and the rest is the last name.
func splitName(name string) (first, last string) {
	fields := strings.Fields(name)
	switch len(fields) {
	case 0:
		return "", ""
	case 1:
		return fields[0], ""
	}
	return fields[0], strings.Join(fields[1:], " ")
}
