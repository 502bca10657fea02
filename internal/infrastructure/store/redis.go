package store

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/bizlink/partner-portal/internal/core/domain"
)

const defaultRedisPrefix = "portal:session"

// Redis keeps credentials in redis so several processes share one session.
// Writers are not coordinated; the last write wins.
type Redis struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
	log    zerolog.Logger
}

// NewRedis wraps client. An empty prefix selects "portal:session"; a zero
// ttl keeps the keys until they are cleared.
func NewRedis(client *redis.Client, prefix string, ttl time.Duration, log zerolog.Logger) *Redis {
	if prefix == "" {
		prefix = defaultRedisPrefix
	}
	return &Redis{client: client, prefix: prefix, ttl: ttl, log: log}
}

func (r *Redis) key(slot string) string {
	return r.prefix + ":" + slot
}

func (r *Redis) read(ctx context.Context, slot string) ([]byte, bool) {
	v, err := r.client.Get(ctx, r.key(slot)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			r.log.Warn().Err(err).Str("key", r.key(slot)).Msg("redis store read failed")
		}
		return nil, false
	}
	return v, true
}

func (r *Redis) SetToken(ctx context.Context, token string) error {
	return r.client.Set(ctx, r.key(KeyToken), token, r.ttl).Err()
}

func (r *Redis) Token(ctx context.Context) (string, bool) {
	v, ok := r.read(ctx, KeyToken)
	if !ok || len(v) == 0 {
		return "", false
	}
	return string(v), true
}

func (r *Redis) RemoveToken(ctx context.Context) error {
	return r.client.Del(ctx, r.key(KeyToken)).Err()
}

func (r *Redis) SetUser(ctx context.Context, user domain.User) error {
	raw, err := encodeUser(user)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, r.key(KeyUser), raw, r.ttl).Err()
}

func (r *Redis) User(ctx context.Context) (*domain.User, bool) {
	v, ok := r.read(ctx, KeyUser)
	if !ok {
		return nil, false
	}
	u, err := decodeUser(v)
	if err != nil {
		r.log.Warn().Err(err).Msg("discarding malformed stored user")
		return nil, false
	}
	return u, true
}

func (r *Redis) Save(ctx context.Context, token string, user domain.User) error {
	raw, err := encodeUser(user)
	if err != nil {
		return err
	}
	_, err = r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, r.key(KeyToken), token, r.ttl)
		pipe.Set(ctx, r.key(KeyUser), raw, r.ttl)
		return nil
	})
	return err
}

func (r *Redis) Clear(ctx context.Context) error {
	return r.client.Del(ctx, r.key(KeyToken), r.key(KeyUser)).Err()
}

// Close releases the underlying client.
func (r *Redis) Close() error {
	return r.client.Close()
}
