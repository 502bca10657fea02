package ports

import (
	"context"

	"github.com/bizlink/partner-portal/internal/core/domain"
)

// CredentialStore persists the session token and the cached user record.
// Reads fail soft: a missing or unreadable slot reports ok == false.
type CredentialStore interface {
	SetToken(ctx context.Context, token string) error
	Token(ctx context.Context) (string, bool)
	RemoveToken(ctx context.Context) error

	SetUser(ctx context.Context, user domain.User) error
	User(ctx context.Context) (*domain.User, bool)

	// Save writes token and user as one unit.
	Save(ctx context.Context, token string, user domain.User) error
	// Clear removes both slots as one unit.
	Clear(ctx context.Context) error
}

// TokenSource is the read side of CredentialStore used by the gateway.
type TokenSource interface {
	Token(ctx context.Context) (string, bool)
}
