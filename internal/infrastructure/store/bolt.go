package store

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/boltdb/bolt"
	"github.com/rs/zerolog"

	"github.com/bizlink/partner-portal/internal/core/domain"
)

var credentialsBucket = []byte("credentials")

// Bolt persists credentials in a single-bucket bolt file.
type Bolt struct {
	db  *bolt.DB
	log zerolog.Logger
}

// OpenBolt opens (or creates) the bolt file at path. The parent directory
// is created with user-only permissions.
func OpenBolt(path string, log zerolog.Logger) (*Bolt, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf("bolt store: create dir: %w", err)
	}
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("bolt store: open %s: %w", path, err)
	}
	if err := db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(credentialsBucket)
		return err
	}); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("bolt store: create bucket: %w", err)
	}
	return &Bolt{db: db, log: log}, nil
}

func (b *Bolt) Close() error {
	return b.db.Close()
}

func (b *Bolt) put(pairs ...[2][]byte) error {
	return b.db.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket(credentialsBucket)
		for _, kv := range pairs {
			if err := bucket.Put(kv[0], kv[1]); err != nil {
				return err
			}
		}
		return nil
	})
}

func (b *Bolt) get(key string) []byte {
	var out []byte
	if err := b.db.View(func(tx *bolt.Tx) error {
		v := tx.Bucket(credentialsBucket).Get([]byte(key))
		if v != nil {
			out = append([]byte(nil), v...)
		}
		return nil
	}); err != nil {
		b.log.Warn().Err(err).Str("key", key).Msg("bolt store read failed")
		return nil
	}
	return out
}

func (b *Bolt) remove(keys ...string) error {
	return b.db.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket(credentialsBucket)
		for _, k := range keys {
			if err := bucket.Delete([]byte(k)); err != nil {
				return err
			}
		}
		return nil
	})
}

func (b *Bolt) SetToken(_ context.Context, token string) error {
	return b.put([2][]byte{[]byte(KeyToken), []byte(token)})
}

func (b *Bolt) Token(context.Context) (string, bool) {
	v := b.get(KeyToken)
	if len(v) == 0 {
		return "", false
	}
	return string(v), true
}

func (b *Bolt) RemoveToken(context.Context) error {
	return b.remove(KeyToken)
}

func (b *Bolt) SetUser(_ context.Context, user domain.User) error {
	raw, err := encodeUser(user)
	if err != nil {
		return err
	}
	return b.put([2][]byte{[]byte(KeyUser), raw})
}

func (b *Bolt) User(context.Context) (*domain.User, bool) {
	v := b.get(KeyUser)
	if v == nil {
		return nil, false
	}
	u, err := decodeUser(v)
	if err != nil {
		b.log.Warn().Err(err).Msg("discarding malformed stored user")
		return nil, false
	}
	return u, true
}

func (b *Bolt) Save(_ context.Context, token string, user domain.User) error {
	raw, err := encodeUser(user)
	if err != nil {
		return err
	}
	return b.put(
		[2][]byte{[]byte(KeyToken), []byte(token)},
		[2][]byte{[]byte(KeyUser), raw},
	)
}

func (b *Bolt) Clear(context.Context) error {
	return b.remove(KeyToken, KeyUser)
}
