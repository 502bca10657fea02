package ports

import (
	"context"

	"github.com/bizlink/partner-portal/internal/core/domain"
)

type AuthService interface {
	Login(ctx context.Context, email, password string, role domain.Role) (*domain.AuthResult, error)
	Register(ctx context.Context, in domain.Registration, role domain.Role) (*domain.AuthResult, error)
	Profile(ctx context.Context) (*domain.User, error)
}
