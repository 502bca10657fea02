package sandbox

import (
	"context"
	"errors"

	"github.com/bizlink/partner-portal/internal/core/domain"
)

// SeedAccount describes an account created at startup.
type SeedAccount struct {
	Role        domain.Role
	Email       string
	Password    string
	FirstName   string
	LastName    string
	CompanyName string
}

// DefaultAccounts are the demo logins shown on the portal sign-in page.
var DefaultAccounts = []SeedAccount{
	{
		Role:        domain.RoleVendor,
		Email:       "vendor1@techcorp.com",
		Password:    "password123",
		FirstName:   "Victor",
		LastName:    "Vance",
		CompanyName: "TechCorp Solutions",
	},
	{
		Role:        domain.RoleDistributor,
		Email:       "distributor1@fastdist.com",
		Password:    "password123",
		FirstName:   "Diana",
		LastName:    "Reyes",
		CompanyName: "FastDist Logistics",
	},
}

// Seed creates the given accounts, skipping emails that already exist. It
// returns the number of accounts created.
func (s *Service) Seed(ctx context.Context, accounts []SeedAccount) (int, error) {
	created := 0
	for _, a := range accounts {
		_, err := s.create(ctx, a.Role, a.Email, a.Password, a.FirstName, a.LastName, a.CompanyName)
		switch {
		case err == nil:
			created++
		case errors.Is(err, ErrAccountExists):
			s.log.Debug().Str("email", a.Email).Msg("seed account already present")
		default:
			return created, err
		}
	}
	return created, nil
}
