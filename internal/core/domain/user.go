package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// Role identifies which side of the marketplace a user belongs to.
type Role string

const (
	RoleVendor      Role = "vendor"
	RoleDistributor Role = "distributor"
)

// ParseRole normalises s into a Role. Matching is case-insensitive and
// ignores surrounding whitespace.
func ParseRole(s string) (Role, bool) {
	switch Role(strings.ToLower(strings.TrimSpace(s))) {
	case RoleVendor:
		return RoleVendor, true
	case RoleDistributor:
		return RoleDistributor, true
	}
	return "", false
}

// Valid reports whether r is one of the two known roles.
func (r Role) Valid() bool {
	return r == RoleVendor || r == RoleDistributor
}

func (r Role) String() string { return string(r) }

// DashboardPath is the landing route for a freshly logged-in user of role r.
func DashboardPath(r Role) string {
	switch r {
	case RoleVendor:
		return "/vendor/dashboard"
	case RoleDistributor:
		return "/distributor/dashboard"
	}
	return "/"
}

// User is the canonical identity record. It is also the persisted
// `user_data` layout.
type User struct {
	ID          string `json:"id"`
	Email       string `json:"email"`
	Role        Role   `json:"role"`
	Name        string `json:"name,omitempty"`
	CompanyName string `json:"companyName,omitempty"`
}

// FlexibleID accepts identifiers encoded as JSON strings or numbers.
type FlexibleID string

func (f *FlexibleID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		*f = ""
		return nil
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*f = FlexibleID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("id: %w", err)
	}
	*f = FlexibleID(n.String())
	return nil
}

// RawUser is the user object as the backend sends it.
type RawUser struct {
	ID          FlexibleID `json:"id"`
	Email       string     `json:"email"`
	UserType    string     `json:"userType"`
	Role        string     `json:"role"`
	FirstName   string     `json:"firstName"`
	LastName    string     `json:"lastName"`
	Name        string     `json:"name"`
	CompanyName string     `json:"companyName"`
}

// Normalize maps the wire shape onto the canonical User. The role comes
// from userType, then role, then hint; an unknown role is a parse error.
func (r RawUser) Normalize(hint Role) (*User, error) {
	role, ok := ParseRole(r.UserType)
	if !ok {
		role, ok = ParseRole(r.Role)
	}
	if !ok && hint.Valid() {
		role, ok = hint, true
	}
	if !ok {
		return nil, NewError(KindParse, fmt.Sprintf("unrecognized user type %q", r.UserType), nil)
	}

	name := strings.TrimSpace(r.Name)
	if r.FirstName != "" || r.LastName != "" {
		name = strings.TrimSpace(strings.TrimSpace(r.FirstName) + " " + strings.TrimSpace(r.LastName))
	}

	return &User{
		ID:          string(r.ID),
		Email:       r.Email,
		Role:        role,
		Name:        name,
		CompanyName: strings.TrimSpace(r.CompanyName),
	}, nil
}

// RawAuthResponse is the body of a login or register call.
type RawAuthResponse struct {
	Message   string  `json:"message"`
	Token     string  `json:"token"`
	User      RawUser `json:"user"`
	SessionID string  `json:"sessionId"`
}

// AuthResult is a normalised login or register response.
type AuthResult struct {
	Message   string
	Token     string
	User      User
	SessionID string
}

// Credentials are the inputs of a login call.
type Credentials struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// Registration carries the fields sent to a register endpoint.
type Registration struct {
	Email       string `json:"email" validate:"required,email"`
	Password    string `json:"password" validate:"required"`
	Name        string `json:"name,omitempty"`
	CompanyName string `json:"companyName,omitempty"`
}
