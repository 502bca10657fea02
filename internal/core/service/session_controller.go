package service

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/bizlink/partner-portal/internal/core/domain"
	"github.com/bizlink/partner-portal/internal/core/ports"
)

// SessionController owns the process-wide authentication state.
//
// Start, Login, Register and Refresh are mutually exclusive: a call made
// while another one is in flight fails with domain.ErrSessionBusy. Logout
// is always accepted; results of operations that were in flight when it
// ran are discarded.
type SessionController struct {
	auth  ports.AuthService
	store ports.CredentialStore
	log   zerolog.Logger
	now   func() time.Time

	mu       sync.Mutex
	state    domain.SessionState
	user     *domain.User
	inFlight bool
	epoch    uint64

	subMu  sync.Mutex
	subs   []subscriber
	nextID int
}

func NewSessionController(auth ports.AuthService, store ports.CredentialStore, log zerolog.Logger) *SessionController {
	return &SessionController{
		auth:  auth,
		store: store,
		log:   log,
		now:   time.Now,
		state: domain.StateUninitialized,
	}
}

// Snapshot returns the current read model.
func (c *SessionController) Snapshot() domain.Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

func (c *SessionController) snapshotLocked() domain.Snapshot {
	snap := domain.Snapshot{
		State:   c.state,
		Loading: c.inFlight || c.state == domain.StateVerifying,
	}
	if c.user != nil {
		u := *c.user
		snap.User = &u
	}
	return snap
}

type subscriber struct {
	id int
	fn func(domain.Snapshot)
}

// Subscribe registers fn to receive every state change. Subscribers are
// called in registration order. The returned func removes the subscription.
func (c *SessionController) Subscribe(fn func(domain.Snapshot)) func() {
	c.subMu.Lock()
	id := c.nextID
	c.nextID++
	c.subs = append(c.subs, subscriber{id: id, fn: fn})
	c.subMu.Unlock()

	return func() {
		c.subMu.Lock()
		defer c.subMu.Unlock()
		c.subs = slices.DeleteFunc(c.subs, func(s subscriber) bool { return s.id == id })
	}
}

func (c *SessionController) publish(snap domain.Snapshot) {
	c.subMu.Lock()
	fns := make([]func(domain.Snapshot), 0, len(c.subs))
	for _, s := range c.subs {
		fns = append(fns, s.fn)
	}
	c.subMu.Unlock()

	for _, fn := range fns {
		fn(snap)
	}
}

type operation int

const (
	opVerify operation = iota
	opLogin
	opRegister
	opRefresh
)

// begin marks op in flight and returns the epoch it belongs to.
func (c *SessionController) begin(op operation) (uint64, error) {
	c.mu.Lock()
	if c.inFlight {
		c.mu.Unlock()
		return 0, domain.ErrSessionBusy
	}
	switch op {
	case opVerify:
		c.state = domain.StateVerifying
	case opRefresh:
		if c.state != domain.StateLoggedIn {
			c.mu.Unlock()
			return 0, domain.ErrNotLoggedIn
		}
	}
	c.inFlight = true
	epoch := c.epoch
	snap := c.snapshotLocked()
	c.mu.Unlock()

	c.publish(snap)
	return epoch, nil
}

// finish applies the outcome of an operation started in epoch. It reports
// false when a Logout happened in between and the outcome was dropped.
func (c *SessionController) finish(epoch uint64, state domain.SessionState, user *domain.User) bool {
	c.mu.Lock()
	c.inFlight = false
	applied := epoch == c.epoch
	if applied {
		c.state = state
		c.user = user
	}
	snap := c.snapshotLocked()
	c.mu.Unlock()

	c.publish(snap)
	return applied
}

// Start rehydrates the session from the credential store and verifies the
// cached token with the backend. It only acts on an uninitialized
// controller; later calls return the current snapshot.
func (c *SessionController) Start(ctx context.Context) domain.Snapshot {
	c.mu.Lock()
	if c.state != domain.StateUninitialized || c.inFlight {
		snap := c.snapshotLocked()
		c.mu.Unlock()
		return snap
	}
	c.mu.Unlock()

	token, hasToken := c.store.Token(ctx)
	_, hasUser := c.store.User(ctx)

	if !hasToken || !hasUser {
		if hasToken || hasUser {
			c.log.Debug().Bool("token", hasToken).Bool("user", hasUser).Msg("partial credentials, clearing")
			c.clearStore(ctx)
		}
		c.mu.Lock()
		c.state = domain.StateLoggedOut
		snap := c.snapshotLocked()
		c.mu.Unlock()
		c.publish(snap)
		return snap
	}

	epoch, err := c.begin(opVerify)
	if err != nil {
		return c.Snapshot()
	}

	user, err := c.verify(ctx, token)
	if err != nil {
		c.log.Debug().Err(err).Msg("cached session rejected")
		if c.current(epoch) {
			c.clearStore(ctx)
		}
		c.finish(epoch, domain.StateLoggedOut, nil)
		return c.Snapshot()
	}

	if c.current(epoch) {
		if err := c.store.SetUser(ctx, *user); err != nil {
			c.log.Warn().Err(err).Msg("failed to persist refreshed user")
		}
	}
	c.finish(epoch, domain.StateLoggedIn, user)
	return c.Snapshot()
}

// Login authenticates against the role-specific endpoint and persists the
// session on success.
func (c *SessionController) Login(ctx context.Context, email, password string, role domain.Role) (*domain.User, error) {
	epoch, err := c.begin(opLogin)
	if err != nil {
		return nil, err
	}

	res, err := c.auth.Login(ctx, email, password, role)
	if err != nil {
		c.finish(epoch, c.stateOrLoggedOut(), c.userSnapshot())
		return nil, err
	}

	if !c.current(epoch) {
		c.finish(epoch, domain.StateLoggedOut, nil)
		return nil, domain.ErrSessionReset
	}
	if err := c.store.Save(ctx, res.Token, res.User); err != nil {
		c.log.Warn().Err(err).Msg("failed to persist session")
	}

	user := res.User
	if !c.finish(epoch, domain.StateLoggedIn, &user) {
		c.clearStore(ctx)
		return nil, domain.ErrSessionReset
	}
	c.log.Info().Str("user_id", user.ID).Str("role", user.Role.String()).Msg("logged in")
	out := user
	return &out, nil
}

// Register creates an account without logging in.
func (c *SessionController) Register(ctx context.Context, in domain.Registration, role domain.Role) error {
	epoch, err := c.begin(opRegister)
	if err != nil {
		return err
	}

	_, err = c.auth.Register(ctx, in, role)
	c.finish(epoch, c.stateOrLoggedOut(), c.userSnapshot())
	return err
}

// Logout clears the session. It never touches the network and never fails.
func (c *SessionController) Logout(ctx context.Context) {
	c.mu.Lock()
	c.epoch++
	c.state = domain.StateLoggedOut
	c.user = nil
	c.mu.Unlock()

	c.clearStore(ctx)

	c.publish(c.Snapshot())
}

// Refresh re-fetches the profile of the logged-in user. A failed fetch
// logs the user out and is not reported as an error; only ErrNotLoggedIn
// and ErrSessionBusy are returned.
func (c *SessionController) Refresh(ctx context.Context) error {
	epoch, err := c.begin(opRefresh)
	if err != nil {
		return err
	}

	token, _ := c.store.Token(ctx)
	user, err := c.verify(ctx, token)
	if err != nil {
		c.log.Debug().Err(err).Msg("refresh failed, logging out")
		if c.current(epoch) {
			c.clearStore(ctx)
		}
		c.finish(epoch, domain.StateLoggedOut, nil)
		return nil
	}

	if c.current(epoch) {
		if err := c.store.SetUser(ctx, *user); err != nil {
			c.log.Warn().Err(err).Msg("failed to persist refreshed user")
		}
	}
	c.finish(epoch, domain.StateLoggedIn, user)
	return nil
}

// verify checks token locally for expiry, then asks the backend.
func (c *SessionController) verify(ctx context.Context, token string) (*domain.User, error) {
	if token == "" {
		return nil, domain.ErrNotLoggedIn
	}
	if tokenExpired(token, c.now()) {
		return nil, errTokenExpired
	}
	return c.auth.Profile(ctx)
}

func (c *SessionController) current(epoch uint64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.epoch == epoch
}

func (c *SessionController) userSnapshot() *domain.User {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.user
}

// stateOrLoggedOut is the state to fall back to after a failed command.
func (c *SessionController) stateOrLoggedOut() domain.SessionState {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state == domain.StateLoggedIn && c.user != nil {
		return domain.StateLoggedIn
	}
	return domain.StateLoggedOut
}

func (c *SessionController) clearStore(ctx context.Context) {
	if err := c.store.Clear(ctx); err != nil {
		c.log.Warn().Err(err).Msg("failed to clear credentials")
	}
}
