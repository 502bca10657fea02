package service

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var errTokenExpired = errors.New("cached token has expired")

var unverifiedParser = jwt.NewParser()

// tokenExpired reports whether token is a JWT whose exp claim is before
// now. Opaque tokens and JWTs without exp are never considered expired;
// the backend stays the authority for those.
func tokenExpired(token string, now time.Time) bool {
	claims := jwt.MapClaims{}
	if _, _, err := unverifiedParser.ParseUnverified(token, claims); err != nil {
		return false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return false
	}
	return !now.Before(exp.Time)
}
