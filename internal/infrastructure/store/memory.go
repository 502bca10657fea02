package store

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"github.com/bizlink/partner-portal/internal/core/domain"
)

// Memory keeps credentials in process memory. The user record is stored
// encoded, like the durable backends, so reads go through the same checks.
type Memory struct {
	mu    sync.RWMutex
	slots map[string][]byte
	log   zerolog.Logger
}

func NewMemory(log zerolog.Logger) *Memory {
	return &Memory{slots: make(map[string][]byte), log: log}
}

func (m *Memory) SetToken(_ context.Context, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.slots[KeyToken] = []byte(token)
	return nil
}

func (m *Memory) Token(context.Context) (string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	b, ok := m.slots[KeyToken]
	if !ok || len(b) == 0 {
		return "", false
	}
	return string(b), true
}

func (m *Memory) RemoveToken(context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.slots, KeyToken)
	return nil
}

func (m *Memory) SetUser(_ context.Context, user domain.User) error {
	b, err := encodeUser(user)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.slots[KeyUser] = b
	return nil
}

func (m *Memory) User(context.Context) (*domain.User, bool) {
	m.mu.RLock()
	b, ok := m.slots[KeyUser]
	m.mu.RUnlock()
	if !ok {
		return nil, false
	}
	u, err := decodeUser(b)
	if err != nil {
		m.log.Warn().Err(err).Msg("discarding malformed stored user")
		return nil, false
	}
	return u, true
}

// SetRaw writes an arbitrary value into a slot.
func (m *Memory) SetRaw(key string, value []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.slots[key] = value
}

func (m *Memory) Save(_ context.Context, token string, user domain.User) error {
	b, err := encodeUser(user)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.slots[KeyToken] = []byte(token)
	m.slots[KeyUser] = b
	return nil
}

func (m *Memory) Clear(context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.slots, KeyToken)
	delete(m.slots, KeyUser)
	return nil
}

func (m *Memory) Close() error { return nil }
