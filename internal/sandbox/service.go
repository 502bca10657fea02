package sandbox

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/bizlink/partner-portal/internal/core/domain"
	"github.com/bizlink/partner-portal/internal/pkg/metrics"
)

const defaultTokenTTL = 24 * time.Hour

// Options tunes a Service.
type Options struct {
	Secret   string
	TokenTTL time.Duration
	// HashCost is the bcrypt cost; zero means bcrypt.DefaultCost.
	HashCost int
}

// Service implements the sandbox authentication and directory operations.
type Service struct {
	repo     AccountRepository
	secret   []byte
	ttl      time.Duration
	hashCost int
	now      func() time.Time
	log      zerolog.Logger
}

func NewService(repo AccountRepository, opts Options, log zerolog.Logger) (*Service, error) {
	if opts.Secret == "" {
		return nil, errors.New("sandbox: token secret is required")
	}
	if opts.TokenTTL <= 0 {
		opts.TokenTTL = defaultTokenTTL
	}
	if opts.HashCost == 0 {
		opts.HashCost = bcrypt.DefaultCost
	}
	return &Service{
		repo:     repo,
		secret:   []byte(opts.Secret),
		ttl:      opts.TokenTTL,
		hashCost: opts.HashCost,
		now:      time.Now,
		log:      log,
	}, nil
}

// LoginInput is the body of a login call.
type LoginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// RegisterInput is the body of a register call.
type RegisterInput struct {
	Email       string `json:"email" validate:"required,email"`
	Password    string `json:"password" validate:"required,min=6"`
	Name        string `json:"name" validate:"max=120"`
	CompanyName string `json:"companyName" validate:"max=120"`
}

// AuthResponse is returned by both login and register.
type AuthResponse struct {
	Message   string   `json:"message"`
	Token     string   `json:"token"`
	User      WireUser `json:"user"`
	SessionID string   `json:"sessionId"`
}

// Login checks the password and that the account belongs to role. Both a
// wrong password and a wrong portal yield ErrInvalidCredentials.
func (s *Service) Login(ctx context.Context, role domain.Role, in LoginInput) (resp *AuthResponse, err error) {
	defer func() { recordAttempt("login", role, err) }()

	acc, err := s.repo.FindByEmail(ctx, normalizeEmail(in.Email))
	if err != nil {
		if errors.Is(err, ErrAccountNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if bcrypt.CompareHashAndPassword([]byte(acc.PasswordHash), []byte(in.Password)) != nil {
		return nil, ErrInvalidCredentials
	}
	if acc.UserType != role {
		s.log.Debug().Str("email", acc.Email).Str("portal", role.String()).Msg("login on the wrong portal")
		return nil, ErrInvalidCredentials
	}

	return s.respond(acc, "Login successful")
}

// Register creates an account of role and returns a session for it.
func (s *Service) Register(ctx context.Context, role domain.Role, in RegisterInput) (resp *AuthResponse, err error) {
	defer func() { recordAttempt("register", role, err) }()

	first, last := splitName(in.Name)
	acc, err := s.create(ctx, role, in.Email, in.Password, first, last, in.CompanyName)
	if err != nil {
		return nil, err
	}
	s.log.Info().Str("user_id", acc.ID).Str("user_type", role.String()).Msg("account registered")
	return s.respond(acc, "User registered successfully")
}

func (s *Service) create(ctx context.Context, role domain.Role, email, password, first, last, company string) (*Account, error) {
	if !role.Valid() {
		return nil, domain.ErrInvalidRole
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.hashCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	acc := &Account{
		ID:           uuid.NewString(),
		Email:        normalizeEmail(email),
		PasswordHash: string(hash),
		UserType:     role,
		FirstName:    strings.TrimSpace(first),
		LastName:     strings.TrimSpace(last),
		CompanyName:  strings.TrimSpace(company),
		CreatedAt:    s.now().UTC(),
	}
	if err := s.repo.Create(ctx, acc); err != nil {
		return nil, err
	}
	return acc, nil
}

func (s *Service) respond(acc *Account, msg string) (*AuthResponse, error) {
	sessionID := uuid.NewString()
	token, err := s.issueToken(acc, sessionID)
	if err != nil {
		return nil, err
	}
	return &AuthResponse{
		Message:   msg,
		Token:     token,
		User:      acc.Wire(),
		SessionID: sessionID,
	}, nil
}

// Account returns the account a token was issued for.
func (s *Service) Account(ctx context.Context, id string) (*Account, error) {
	return s.repo.FindByID(ctx, id)
}

// Accounts lists every account.
func (s *Service) Accounts(ctx context.Context) ([]Account, error) {
	return s.repo.List(ctx)
}

// Ready reports whether the account store is reachable.
func (s *Service) Ready(ctx context.Context) error {
	return s.repo.Ping(ctx)
}

func recordAttempt(action string, role domain.Role, err error) {
	result := "success"
	switch {
	case err == nil:
	case errors.Is(err, ErrInvalidCredentials):
		result = "invalid_credentials"
	case errors.Is(err, ErrAccountExists):
		result = "conflict"
	case errors.Is(err, domain.ErrValidation):
		result = "invalid"
	default:
		result = "error"
	}
	metrics.AuthAttemptsTotal.WithLabelValues(action, role.String(), result).Inc()
}
