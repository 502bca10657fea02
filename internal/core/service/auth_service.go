package service

import (
	"context"
	"net/http"

	"github.com/bizlink/partner-portal/internal/core/domain"
	"github.com/bizlink/partner-portal/internal/core/ports"
	"github.com/bizlink/partner-portal/internal/pkg/validation"
)

// AuthService implements login, registration and profile lookup against
// the backend. It is the only place that translates the backend's user
// shape into domain.User.
type AuthService struct {
	gw       ports.Gateway
	validate *validation.Validator
}

func NewAuthService(gw ports.Gateway) *AuthService {
	return &AuthService{gw: gw, validate: validation.New()}
}

func loginPath(role domain.Role) string    { return "/auth/" + string(role) + "/login" }
func registerPath(role domain.Role) string { return "/auth/" + string(role) + "/register" }

func (s *AuthService) Login(ctx context.Context, email, password string, role domain.Role) (*domain.AuthResult, error) {
	if !role.Valid() {
		return nil, domain.ErrInvalidRole
	}
	creds := domain.Credentials{Email: email, Password: password}
	if err := s.validate.Struct(creds); err != nil {
		return nil, domain.NewError(domain.KindValidation, err.Error(), err)
	}

	var raw domain.RawAuthResponse
	if err := s.gw.Do(ctx, ports.Request{Method: http.MethodPost, Path: loginPath(role), Body: creds}, &raw); err != nil {
		return nil, err
	}
	return normalizeAuth(raw, role, true)
}

// Register creates an account. The caller still has to Login afterwards.
func (s *AuthService) Register(ctx context.Context, in domain.Registration, role domain.Role) (*domain.AuthResult, error) {
	if !role.Valid() {
		return nil, domain.ErrInvalidRole
	}
	if err := s.validate.Struct(in); err != nil {
		return nil, domain.NewError(domain.KindValidation, err.Error(), err)
	}

	var raw domain.RawAuthResponse
	if err := s.gw.Do(ctx, ports.Request{Method: http.MethodPost, Path: registerPath(role), Body: in}, &raw); err != nil {
		return nil, err
	}
	return normalizeAuth(raw, role, false)
}

// Profile fetches the user owning the stored token.
func (s *AuthService) Profile(ctx context.Context) (*domain.User, error) {
	var raw domain.RawUser
	if err := s.gw.Do(ctx, ports.Request{Method: http.MethodGet, Path: "/profile"}, &raw); err != nil {
		return nil, err
	}
	return raw.Normalize("")
}

func normalizeAuth(raw domain.RawAuthResponse, role domain.Role, requireToken bool) (*domain.AuthResult, error) {
	if requireToken && raw.Token == "" {
		return nil, domain.NewError(domain.KindParse, "Invalid response from server: missing token", nil)
	}
	user, err := raw.User.Normalize(role)
	if err != nil {
		return nil, err
	}
	return &domain.AuthResult{
		Message:   raw.Message,
		Token:     raw.Token,
		User:      *user,
		SessionID: raw.SessionID,
	}, nil
}
