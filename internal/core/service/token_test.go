package service

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func TestTokenExpired(t *testing.T) {
	now := time.Now()
	noExp, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"sub": "1"}).SignedString([]byte("k"))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	cases := []struct {
		name  string
		token string
		want  bool
	}{
		{"expired", signedToken(t, now.Add(-time.Minute)), true},
		{"valid", signedToken(t, now.Add(time.Hour)), false},
		{"no exp claim", noExp, false},
		{"opaque token", "abc", false},
	}
	for _, tc := range cases {
		if got := tokenExpired(tc.token, now); got != tc.want {
			t.Fatalf("%s: tokenExpired = %v, want %v", tc.name, got, tc.want)
		}
	}
}
