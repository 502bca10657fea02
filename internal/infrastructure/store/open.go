package store

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"

	"github.com/bizlink/partner-portal/internal/core/ports"
	dbredis "github.com/bizlink/partner-portal/internal/infrastructure/db/redis"
	"github.com/bizlink/partner-portal/internal/pkg/config"
)

// Backend names accepted by Open.
const (
	BackendFile   = "file"
	BackendRedis  = "redis"
	BackendMemory = "memory"
	BackendNone   = "none"
)

// Store is a credential store that holds resources.
type Store interface {
	ports.CredentialStore
	Close() error
}

// Open builds the configured store. Durable backends that cannot be used
// in the current environment degrade to Nop with a warning, so callers
// never need to check where they run. Only an unknown backend name is an
// error.
func Open(ctx context.Context, cfg config.StoreConfig, log zerolog.Logger) (Store, error) {
	backend := strings.ToLower(strings.TrimSpace(cfg.Backend))
	switch backend {
	case BackendFile, "":
		path, err := resolvePath(cfg.Path)
		if err != nil {
			log.Warn().Err(err).Msg("no location for credential file, credentials will not persist")
			return Nop{}, nil
		}
		s, err := OpenBolt(path, log)
		if err != nil {
			log.Warn().Err(err).Msg("credential file unavailable, credentials will not persist")
			return Nop{}, nil
		}
		log.Debug().Str("path", path).Msg("using file credential store")
		return s, nil

	case BackendRedis:
		client, err := dbredis.Connect(ctx, dbredis.Config{Addr: cfg.Redis.Addr, Password: cfg.Redis.Password, DB: cfg.Redis.DB})
		if err != nil {
			log.Warn().Err(err).Msg("redis unavailable, credentials will not persist")
			return Nop{}, nil
		}
		log.Debug().Str("addr", cfg.Redis.Addr).Msg("using redis credential store")
		return NewRedis(client, cfg.Redis.Prefix, cfg.Redis.TTL, log), nil

	case BackendMemory:
		return NewMemory(log), nil

	case BackendNone:
		return Nop{}, nil
	}
	return nil, fmt.Errorf("store: unknown backend %q", cfg.Backend)
}

func resolvePath(path string) (string, error) {
	if path != "" {
		return path, nil
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "bizlink", "credentials.db"), nil
}
