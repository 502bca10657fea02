// Package cli is the terminal front end of the portal client. Each command
// builds a session over the configured credential store and backend.
package cli

import (
	"context"
	"io"
	"net/http"
	"os"

	"github.com/rs/zerolog"
	"github.com/sethvargo/go-envconfig"
	"github.com/urfave/cli/v2"

	"github.com/bizlink/partner-portal/internal/core/service"
	"github.com/bizlink/partner-portal/internal/infrastructure/gateway"
	"github.com/bizlink/partner-portal/internal/infrastructure/store"
	"github.com/bizlink/partner-portal/internal/pkg/config"
	"github.com/bizlink/partner-portal/pkg/logger"
)

// Env carries the process surroundings of the App. Zero fields fall back
// to the real process: os.Stdout, os.Stderr and the OS environment.
type Env struct {
	Stdout     io.Writer
	Stderr     io.Writer
	Lookuper   envconfig.Lookuper
	HTTPClient *http.Client
	// SkipDotEnv disables loading .env from the working directory.
	SkipDotEnv bool
}

// NewApp builds the command tree.
func NewApp(env Env) *cli.App {
	if env.Stdout == nil {
		env.Stdout = os.Stdout
	}
	if env.Stderr == nil {
		env.Stderr = os.Stderr
	}
	a := &app{env: env}

	return &cli.App{
		Name:      "portal",
		Usage:     "BizLink partner portal client",
		Writer:    env.Stdout,
		ErrWriter: env.Stderr,
		// main prints the error message alone.
		ExitErrHandler: func(*cli.Context, error) {},
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "api-url", Usage: "backend base URL (overrides PORTAL_API_URL)"},
			&cli.StringFlag{Name: "store", Usage: "credential store: file, redis, memory, none (overrides PORTAL_STORE)"},
			&cli.BoolFlag{Name: "ephemeral", Usage: "keep credentials in memory for this run only"},
			&cli.StringFlag{Name: "log-level", Usage: "log level (overrides PORTAL_LOG_LEVEL)"},
		},
		Commands: []*cli.Command{
			{
				Name:  "login",
				Usage: "log in to the vendor or distributor portal",
				Flags: []cli.Flag{
					roleFlag(),
					&cli.StringFlag{Name: "email", Required: true},
					&cli.StringFlag{Name: "password", Required: true},
				},
				Action: a.withSession(a.login),
			},
			{
				Name:  "register",
				Usage: "create a vendor or distributor account",
				Flags: []cli.Flag{
					roleFlag(),
					&cli.StringFlag{Name: "email", Required: true},
					&cli.StringFlag{Name: "password", Required: true},
					&cli.StringFlag{Name: "name"},
					&cli.StringFlag{Name: "company"},
				},
				Action: a.withSession(a.register),
			},
			{Name: "logout", Usage: "forget the stored session", Action: a.withSession(a.logout)},
			{Name: "whoami", Usage: "verify the stored session and print it", Action: a.withSession(a.whoami)},
			{Name: "refresh", Usage: "re-fetch the profile of the logged-in user", Action: a.withSession(a.refresh)},
			{Name: "users", Usage: "list directory users", Action: a.withSession(a.users)},
			{Name: "dashboard", Usage: "print the dashboard of the current role", Action: a.withSession(a.dashboard)},
			{Name: "health", Usage: "check that the backend is up", Action: a.withSession(a.health)},
			{Name: "probe", Usage: "exercise every backend endpoint in order", Action: a.withSession(a.probe)},
		},
	}
}

func roleFlag() cli.Flag {
	return &cli.StringFlag{Name: "role", Aliases: []string{"r"}, Usage: "vendor or distributor", Required: true}
}

type app struct {
	env Env
}

// session is the object graph a command runs against.
type session struct {
	log        zerolog.Logger
	store      store.Store
	controller *service.SessionController
	portal     *service.PortalService
}

type action func(c *cli.Context, s *session) error

// withSession wires config, logging, the credential store, the gateway and
// the services, runs fn and releases the store.
func (a *app) withSession(fn action) cli.ActionFunc {
	return func(c *cli.Context) error {
		ctx := c.Context
		if ctx == nil {
			ctx = context.Background()
		}
		s, err := a.open(ctx, c)
		if err != nil {
			return err
		}
		defer func() {
			if err := s.store.Close(); err != nil {
				s.log.Warn().Err(err).Msg("failed to close credential store")
			}
		}()
		return fn(c, s)
	}
}

func (a *app) open(ctx context.Context, c *cli.Context) (*session, error) {
	if !a.env.SkipDotEnv {
		if err := config.LoadDotEnv(); err != nil {
			return nil, err
		}
	}

	var (
		cfg *config.Client
		err error
	)
	if a.env.Lookuper != nil {
		cfg, err = config.LoadClientFrom(ctx, a.env.Lookuper)
	} else {
		cfg, err = config.LoadClient(ctx)
	}
	if err != nil {
		return nil, err
	}
	applyFlags(c, cfg)

	root := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.LogPretty,
		Output:  a.env.Stderr,
		Service: "portal",
	})

	st, err := store.Open(ctx, cfg.Store, logger.Component("store"))
	if err != nil {
		return nil, err
	}

	gw := gateway.New(gateway.Config{
		BaseURL:    cfg.APIURL,
		Timeout:    cfg.APITimeout.Duration(),
		HTTPClient: a.env.HTTPClient,
	}, st, logger.Component("gateway"))

	auth := service.NewAuthService(gw)
	return &session{
		log:        root,
		store:      st,
		controller: service.NewSessionController(auth, st, logger.Component("session")),
		portal:     service.NewPortalService(gw, st),
	}, nil
}

func applyFlags(c *cli.Context, cfg *config.Client) {
	if v := c.String("api-url"); v != "" {
		cfg.APIURL = v
	}
	if v := c.String("store"); v != "" {
		cfg.Store.Backend = v
	}
	if c.Bool("ephemeral") {
		cfg.Store.Backend = store.BackendMemory
	}
	if v := c.String("log-level"); v != "" {
		cfg.LogLevel = v
	}
}
