package config

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/sethvargo/go-envconfig"
)

// Client configures the portal CLI.
type Client struct {
	APIURL     string       `env:"PORTAL_API_URL,     default=http://localhost:3001"`
	APITimeout Milliseconds `env:"PORTAL_API_TIMEOUT, default=10000"`
	LogLevel   string       `env:"PORTAL_LOG_LEVEL,   default=warn"`
	LogPretty  bool         `env:"PORTAL_LOG_PRETTY,  default=true"`

	Store StoreConfig
}

// StoreConfig selects the credential store backend.
type StoreConfig struct {
	// Backend is one of file, redis, memory or none.
	Backend string `env:"PORTAL_STORE,      default=file"`
	// Path of the bolt file; empty means <user config dir>/bizlink/credentials.db.
	Path  string `env:"PORTAL_STORE_PATH"`
	Redis RedisConfig
}

type RedisConfig struct {
	Addr     string        `env:"PORTAL_REDIS_ADDR,   default=localhost:6379"`
	Password string        `env:"PORTAL_REDIS_PASSWORD"`
	DB       int           `env:"PORTAL_REDIS_DB,     default=0"`
	Prefix   string        `env:"PORTAL_REDIS_PREFIX, default=portal:session"`
	TTL      time.Duration `env:"PORTAL_REDIS_TTL,    default=0s"`
}

// Sandbox configures the local backend implementation.
type Sandbox struct {
	Port      string        `env:"SANDBOX_PORT,       default=3001"`
	Env       string        `env:"SANDBOX_ENV,        default=development"`
	JWTSecret string        `env:"SANDBOX_JWT_SECRET"`
	TokenTTL  time.Duration `env:"SANDBOX_TOKEN_TTL,  default=24h"`
	LogLevel  string        `env:"SANDBOX_LOG_LEVEL,  default=info"`
	Store     string        `env:"SANDBOX_STORE,      default=memory"`
	Seed      bool          `env:"SANDBOX_SEED,       default=true"`
	AuthRate  float64       `env:"SANDBOX_AUTH_RATE,  default=5"`
	AuthBurst int           `env:"SANDBOX_AUTH_BURST, default=20"`

	Mongo MongoConfig
}

type MongoConfig struct {
	URI      string `env:"SANDBOX_MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"SANDBOX_MONGO_DB,  default=bizlink_sandbox"`
}

// Milliseconds is a duration written either as a bare integer number of
// milliseconds ("10000") or as a Go duration ("10s").
type Milliseconds time.Duration

func (m *Milliseconds) EnvDecode(val string) error {
	val = strings.TrimSpace(val)
	if n, err := strconv.ParseInt(val, 10, 64); err == nil {
		if n < 0 {
			return fmt.Errorf("negative timeout %d", n)
		}
		*m = Milliseconds(time.Duration(n) * time.Millisecond)
		return nil
	}
	d, err := time.ParseDuration(val)
	if err != nil {
		return fmt.Errorf("invalid timeout %q: %w", val, err)
	}
	*m = Milliseconds(d)
	return nil
}

func (m Milliseconds) Duration() time.Duration { return time.Duration(m) }

// LoadDotEnv loads variables from the given files (".env" when none are
// given) without overriding the environment. Missing files are ignored.
func LoadDotEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("config: load %s: %w", f, err)
		}
	}
	return nil
}

// LoadClient reads the client configuration from the environment.
func LoadClient(ctx context.Context) (*Client, error) {
	return LoadClientFrom(ctx, envconfig.OsLookuper())
}

// LoadClientFrom reads the client configuration through l.
func LoadClientFrom(ctx context.Context, l envconfig.Lookuper) (*Client, error) {
	var cfg Client
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{Target: &cfg, Lookuper: l}); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return &cfg, nil
}

// LoadSandbox reads the sandbox configuration from the environment.
func LoadSandbox(ctx context.Context) (*Sandbox, error) {
	return LoadSandboxFrom(ctx, envconfig.OsLookuper())
}

// LoadSandboxFrom reads the sandbox configuration through l.
func LoadSandboxFrom(ctx context.Context, l envconfig.Lookuper) (*Sandbox, error) {
	var cfg Sandbox
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{Target: &cfg, Lookuper: l}); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return &cfg, nil
}
