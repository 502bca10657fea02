package sandbox

import (
	"fmt"

	"github.com/golang-jwt/jwt/v5"

	"github.com/bizlink/partner-portal/internal/core/domain"
)

// Claims are carried by every sandbox token.
type Claims struct {
	Email     string      `json:"email"`
	UserType  domain.Role `json:"user_type"`
	SessionID string      `json:"sid"`
	jwt.RegisteredClaims
}

func (s *Service) issueToken(acc *Account, sessionID string) (string, error) {
	now := s.now()
	claims := Claims{
		Email:     acc.Email,
		UserType:  acc.UserType,
		SessionID: sessionID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   acc.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Authenticate verifies a bearer token and returns its claims.
func (s *Service) Authenticate(token string) (*Claims, error) {
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (any, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(s.now),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return nil, ErrInvalidToken
	}
	if claims.Subject == "" || !claims.UserType.Valid() {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
