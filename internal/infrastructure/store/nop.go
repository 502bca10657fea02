package store

import (
	"context"

	"github.com/bizlink/partner-portal/internal/core/domain"
)

// Nop is used when no durable storage is available: reads find nothing and
// writes are dropped.
type Nop struct{}

func (Nop) SetToken(context.Context, string) error { return nil }
func (Nop) Token(context.Context) (string, bool) { return "", false }
func (Nop) RemoveToken(context.Context) error { return nil }
func (Nop) SetUser(context.Context, domain.User) error { return nil }
func (Nop) User(context.Context) (*domain.User, bool) { return nil, false }
func (Nop) Save(context.Context, string, domain.User) error { return nil }
func (Nop) Clear(context.Context) error { return nil }
func (Nop) Close() error { return nil }
