// Package session is the single source of truth for "who is logged
// in". A Manager reconciles the in-memory browser state with the
// persisted cookie pair and keeps concurrent mutations from
// interleaving through a per-browser gate.
package session

import (
	"context"
	"encoding/json"
	"time"

	"github.com/sirupsen/logrus"

	"lubritec-storefront-svc/src/internal/config"
	"lubritec-storefront-svc/src/internal/models"
	"lubritec-storefront-svc/src/internal/persistence"
)

// AuthAPI is the slice of the commerce API the manager needs.
type AuthAPI interface {
	Login(ctx context.Context, creds *models.Credentials) (*models.Session, error)
}

// CartClearer empties the remote cart on logout. Failures are logged
// and never block the logout.
type CartClearer interface {
	Clear(ctx context.Context, token string) error
}

// SessionDropper invalidates server-side caches of a validated token
// on logout, so a signed-out token stops authorizing requests before
// its cache TTL runs out.
type SessionDropper interface {
	DropSession(ctx context.Context, key string) error
}

// PersistHook receives persistence failures. Cookies are best-effort
// storage, so failures are observable here but never reach callers.
type PersistHook func(name string, err error)

// Manager binds one request's persistence store to the shared browser
// state. It is cheap to build per request.
type Manager struct {
	state       *State
	store       persistence.Store
	auth        AuthAPI
	cart        CartClearer
	cfg         *config.SessionSettings
	dropper     SessionDropper
	persistHook PersistHook
	log         *logrus.Entry
}

func NewManager(state *State, store persistence.Store, auth AuthAPI, cart CartClearer, cfg *config.SessionSettings) *Manager {
	m := &Manager{
		state: state,
		store: store,
		auth:  auth,
		cart:  cart,
		cfg:   cfg,
		log:   logrus.WithField("component", "session"),
	}
	m.persistHook = func(name string, err error) {
		m.log.WithError(err).WithField("cookie", name).Warn("Session persistence failed")
	}
	return m
}

// WithPersistHook replaces the persistence failure hook. Used by tests
// to observe failures that are otherwise only logged.
func (m *Manager) WithPersistHook(hook PersistHook) *Manager {
	if hook != nil {
		m.persistHook = hook
	}
	return m
}

// WithSessionDropper wires cache invalidation into Logout.
func (m *Manager) WithSessionDropper(dropper SessionDropper) *Manager {
	m.dropper = dropper
	return m
}

// Token returns the current bearer token, or empty when logged out.
func (m *Manager) Token() string {
	token, _ := m.state.snapshot()
	return token
}

// User returns the current profile, or nil when logged out.
func (m *Manager) User() *models.User {
	_, user := m.state.snapshot()
	return user
}

// Ready reports whether the initial cookie read has completed. Until
// then Token and User do not reflect reality.
func (m *Manager) Ready() bool {
	return m.state.isReady()
}

// Initialize bootstraps the state from the persisted cookie pair. It
// is idempotent by guard: a call that finds the gate held returns
// immediately without waiting, so callers must not assume a second
// call observes the first's result. Any read or parse failure falls
// back to a clean logged-out state; bootstrap must never fail the
// request it runs under.
func (m *Manager) Initialize() {
	if m.state.isReady() {
		return
	}

	release, ok := m.state.gate.tryAcquire()
	if !ok {
		return
	}
	defer release()

	token, user := m.readPersisted()

	m.state.mu.Lock()
	if !m.state.ready {
		m.state.token = token
		m.state.user = user
		m.state.ready = true
	}
	m.state.mu.Unlock()
}

// readPersisted loads the cookie pair. Token and user only count
// together: a token without a parsable profile (or the reverse) yields
// a logged-out session and drops the leftover cookie.
func (m *Manager) readPersisted() (string, *models.User) {
	token, hasToken := m.store.Get(m.cfg.TokenCookie)
	rawUser, hasUser := m.store.Get(m.cfg.UserCookie)

	if !hasToken || !hasUser {
		m.dropPersisted()
		return "", nil
	}

	var user models.User
	if err := json.Unmarshal([]byte(rawUser), &user); err != nil {
		m.persistHook(m.cfg.UserCookie, err)
		m.dropPersisted()
		return "", nil
	}
	user.Normalize()
	return token, &user
}

func (m *Manager) dropPersisted() {
	if err := m.store.Remove(m.cfg.TokenCookie); err != nil {
		m.persistHook(m.cfg.TokenCookie, err)
	}
	if err := m.store.Remove(m.cfg.UserCookie); err != nil {
		m.persistHook(m.cfg.UserCookie, err)
	}
}

// Login authenticates against the commerce API and, on success,
// updates the state and both cookies under the gate. When another
// session operation is in flight it fails fast with ErrAuthBusy
// unless wait-for-turn is configured; stacking duplicate logins from
// double-clicks is worse than refusing one.
func (m *Manager) Login(ctx context.Context, creds *models.Credentials) (*models.Session, error) {
	release, err := m.acquire(ctx)
	if err != nil {
		return nil, err
	}
	defer release()

	sess, err := m.auth.Login(ctx, creds)
	if err != nil {
		m.log.WithError(err).WithField("email", creds.Email).Warn("Login failed")
		return nil, err
	}
	if sess == nil || sess.Token == "" || sess.User == nil {
		return nil, models.ErrInvalidAuthResponse
	}
	sess.User.Normalize()

	m.state.mu.Lock()
	m.state.token = sess.Token
	m.state.user = sess.User
	m.state.ready = true
	m.state.mu.Unlock()

	m.persistToken(sess.Token)
	m.persistUser(sess.User)

	m.log.WithFields(logrus.Fields{
		"user_id": sess.User.ID,
		"role":    sess.User.Role,
	}).Info("User logged in")

	return sess, nil
}

func (m *Manager) acquire(ctx context.Context) (func(), error) {
	if m.cfg.WaitForTurn {
		return m.state.gate.acquire(ctx)
	}
	release, ok := m.state.gate.tryAcquire()
	if !ok {
		return nil, models.ErrAuthBusy
	}
	return release, nil
}

// Logout signs the user out. It no-ops when the gate is already held.
// A non-empty cart is cleared remotely first; if that fails the user
// is still signed out locally, because the user-visible guarantee is
// "you are signed out", not "your cart was cleared".
func (m *Manager) Logout(ctx context.Context) {
	release, ok := m.state.gate.tryAcquire()
	if !ok {
		return
	}
	defer release()

	token, user := m.state.snapshot()
	if token != "" && m.cart != nil {
		if err := m.cart.Clear(ctx, token); err != nil {
			m.log.WithError(err).Warn("Failed to clear cart on logout")
		}
	}
	if token != "" && m.dropper != nil {
		if err := m.dropper.DropSession(ctx, token); err != nil {
			m.log.WithError(err).Warn("Failed to drop cached session on logout")
		}
	}

	m.state.mu.Lock()
	m.state.token = ""
	m.state.user = nil
	m.state.ready = true
	m.state.mu.Unlock()

	m.dropPersisted()

	if user != nil {
		m.log.WithField("user_id", user.ID).Info("User logged out")
	}
}

// SetToken updates the token alone, keeping its cookie in sync: a
// non-empty value is persisted, an empty one removed. It waits for
// its turn on the gate; the auto-release timeout bounds the wait.
func (m *Manager) SetToken(token string) {
	release, err := m.state.gate.acquire(context.Background())
	if err != nil {
		return
	}
	defer release()

	m.state.mu.Lock()
	m.state.token = token
	m.state.mu.Unlock()

	if token == "" {
		if err := m.store.Remove(m.cfg.TokenCookie); err != nil {
			m.persistHook(m.cfg.TokenCookie, err)
		}
		return
	}
	m.persistToken(token)
}

// SetUser updates the profile alone, normalizing it and keeping the
// user_data cookie in sync.
func (m *Manager) SetUser(user *models.User) {
	release, err := m.state.gate.acquire(context.Background())
	if err != nil {
		return
	}
	defer release()

	if user != nil {
		user.Normalize()
	}

	m.state.mu.Lock()
	m.state.user = user
	m.state.mu.Unlock()

	if user == nil {
		if err := m.store.Remove(m.cfg.UserCookie); err != nil {
			m.persistHook(m.cfg.UserCookie, err)
		}
		return
	}
	m.persistUser(user)
}

func (m *Manager) persistToken(token string) {
	opts := m.cookieOptions()
	opts.HTTPOnly = true
	if err := m.store.Set(m.cfg.TokenCookie, token, opts); err != nil {
		m.persistHook(m.cfg.TokenCookie, err)
	}
}

func (m *Manager) persistUser(user *models.User) {
	data, err := json.Marshal(user)
	if err != nil {
		m.persistHook(m.cfg.UserCookie, err)
		return
	}
	if err := m.store.Set(m.cfg.UserCookie, string(data), m.cookieOptions()); err != nil {
		m.persistHook(m.cfg.UserCookie, err)
	}
}

func (m *Manager) cookieOptions() persistence.Options {
	days := m.cfg.CookieExpiryDays
	if days <= 0 {
		days = 7
	}
	return persistence.Options{
		Expires:  time.Now().Add(time.Duration(days) * 24 * time.Hour),
		Path:     m.cfg.CookiePath,
		Secure:   m.cfg.CookieSecure,
		HTTPOnly: false, // user_data is read by the storefront UI
	}
}
