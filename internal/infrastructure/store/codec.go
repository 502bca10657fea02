// Package store provides the credential store backends: a bolt file, redis,
// process memory and a no-op store.
package store

import (
	"encoding/json"
	"errors"

	"github.com/bizlink/partner-portal/internal/core/domain"
)

// Slot keys, shared by every backend.
const (
	KeyToken = "auth_token"
	KeyUser  = "user_data"
)

var errInvalidUser = errors.New("stored user record is invalid")

func encodeUser(u domain.User) ([]byte, error) {
	return json.Marshal(u)
}

// decodeUser parses a stored user record. Records that do not carry an id
// or a valid role are rejected.
func decodeUser(b []byte) (*domain.User, error) {
	var u domain.User
	if err := json.Unmarshal(b, &u); err != nil {
		return nil, err
	}
	if u.ID == "" || !u.Role.Valid() {
		return nil, errInvalidUser
	}
	return &u, nil
}
