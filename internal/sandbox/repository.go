package sandbox

import (
	"context"
	"sync"
)

// AccountRepository persists sandbox accounts. Emails are unique and are
// passed in already normalised.
type AccountRepository interface {
	Create(ctx context.Context, acc *Account) error
	FindByEmail(ctx context.Context, email string) (*Account, error)
	FindByID(ctx context.Context, id string) (*Account, error)
	List(ctx context.Context) ([]Account, error)
	Ping(ctx context.Context) error
}

// MemoryRepository keeps accounts in process memory, in insertion order.
type MemoryRepository struct {
	mu      sync.RWMutex
	order   []string
	byID    map[string]*Account
	byEmail map[string]string
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		byID:    make(map[string]*Account),
		byEmail: make(map[string]string),
	}
}

func (r *MemoryRepository) Create(_ context.Context, acc *Account) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.byEmail[acc.Email]; exists {
		return ErrAccountExists
	}
	clone := *acc
	r.byID[acc.ID] = &clone
	r.byEmail[acc.Email] = acc.ID
	r.order = append(r.order, acc.ID)
	return nil
}

func (r *MemoryRepository) FindByEmail(_ context.Context, email string) (*Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	id, ok := r.byEmail[email]
	if !ok {
		return nil, ErrAccountNotFound
	}
	clone := *r.byID[id]
	return &clone, nil
}

func (r *MemoryRepository) FindByID(_ context.Context, id string) (*Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	acc, ok := r.byID[id]
	if !ok {
		return nil, ErrAccountNotFound
	}
	clone := *acc
	return &clone, nil
}

func (r *MemoryRepository) List(_ context.Context) ([]Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Account, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, *r.byID[id])
	}
	return out, nil
}

func (r *MemoryRepository) Ping(context.Context) error { return nil }
