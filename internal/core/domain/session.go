package domain

// SessionState is the lifecycle state of the session controller.
type SessionState string

const (
	StateUninitialized SessionState = "uninitialized"
	StateVerifying     SessionState = "verifying"
	StateLoggedOut     SessionState = "logged_out"
	StateLoggedIn      SessionState = "logged_in"
)

// Snapshot is the read model handed to subscribers.
type Snapshot struct {
	State   SessionState
	User    *User
	Loading bool
}

// LoggedIn reports whether the snapshot holds an authenticated user.
func (s Snapshot) LoggedIn() bool {
	return s.State == StateLoggedIn && s.User != nil
}
