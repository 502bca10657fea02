// Command sandbox serves a local implementation of the partner portal
// backend for development and end-to-end testing.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/bizlink/partner-portal/internal/api"
	dbmongo "github.com/bizlink/partner-portal/internal/infrastructure/db/mongo"
	"github.com/bizlink/partner-portal/internal/pkg/config"
	"github.com/bizlink/partner-portal/internal/sandbox"
	"github.com/bizlink/partner-portal/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "sandbox:", err)
		stop()
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	if err := config.LoadDotEnv(); err != nil {
		return err
	}
	cfg, err := config.LoadSandbox(ctx)
	if err != nil {
		return err
	}

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.Env == "development",
		Output:  os.Stdout,
		Service: "sandbox",
	})

	secret := cfg.JWTSecret
	if secret == "" {
		if cfg.Env != "development" {
			return errors.New("SANDBOX_JWT_SECRET is required outside development")
		}
		secret = uuid.NewString()
		log.Warn().Msg("SANDBOX_JWT_SECRET not set, using a random secret; tokens will not survive a restart")
	}

	repo, closeRepo, err := openRepository(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer closeRepo()

	svc, err := sandbox.NewService(repo, sandbox.Options{Secret: secret, TokenTTL: cfg.TokenTTL}, logger.Component("accounts"))
	if err != nil {
		return err
	}
	if cfg.Seed {
		n, err := svc.Seed(ctx, sandbox.DefaultAccounts)
		if err != nil {
			return err
		}
		log.Info().Int("created", n).Msg("seed accounts ready")
	}

	e := api.NewRouter(api.Deps{
		Service:   svc,
		Log:       logger.Component("http"),
		AuthRate:  rate.Limit(cfg.AuthRate),
		AuthBurst: cfg.AuthBurst,
	})

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("port", cfg.Port).Str("store", cfg.Store).Msg("sandbox listening")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return e.Shutdown(shutdownCtx)
}

func openRepository(ctx context.Context, cfg *config.Sandbox, log zerolog.Logger) (sandbox.AccountRepository, func(), error) {
	switch strings.ToLower(cfg.Store) {
	case "", "memory":
		return sandbox.NewMemoryRepository(), func() {}, nil
	case "mongo":
		client, db, err := dbmongo.Connect(ctx, dbmongo.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
		if err != nil {
			return nil, nil, err
		}
		repo := dbmongo.NewAccountRepository(db)
		if err := repo.EnsureIndexes(ctx); err != nil {
			_ = client.Disconnect(context.Background())
			return nil, nil, err
		}
		log.Info().Str("database", cfg.Mongo.Database).Msg("using mongo account store")
		return repo, func() {
			if err := client.Disconnect(context.Background()); err != nil {
				log.Warn().Err(err).Msg("mongo disconnect")
			}
		}, nil
	}
	return nil, nil, errors.New("unknown SANDBOX_STORE " + cfg.Store)
}
