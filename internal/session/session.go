// Package session owns the portal's authentication state: the bearer token,
// the user it belongs to, and whether that pairing has been confirmed.
package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/saajha/bloodlink/internal/models"
	"github.com/saajha/bloodlink/internal/telemetry"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Status is the session lifecycle state.
type Status int

const (
	// StatusHydrating means a persisted token is being resolved to a user.
	StatusHydrating Status = iota
	StatusAuthenticated
	StatusAnonymous
)

func (s Status) String() string {
	switch s {
	case StatusHydrating:
		return "hydrating"
	case StatusAuthenticated:
		return "authenticated"
	case StatusAnonymous:
		return "anonymous"
	default:
		return "unknown"
	}
}

// Notification texts shown to the user.
const (
	WelcomeMessage = "Welcome to NGO SAAJHA Portal!"
	LogoutMessage  = "Logged out successfully"
)

// TokenStore is the single persisted token slot.
type TokenStore interface {
	// LoadToken returns the stored token, or an error when the slot is empty
	// or unreadable.
	LoadToken() (string, error)
	SaveToken(token string) error
	ClearToken() error
}

// IdentityFetcher resolves a token to the user it was issued for.
type IdentityFetcher interface {
	FetchIdentity(ctx context.Context, token string) (*models.User, error)
}

// Notifier is the user-facing toast channel.
type Notifier interface {
	Success(msg string)
	Error(msg string)
}

// Snapshot is a read-only copy of the session.
type Snapshot struct {
	Status Status
	Token  string
	User   *models.User
}

// Authenticated is shorthand for Status == StatusAuthenticated.
func (s Snapshot) Authenticated() bool {
	return s.Status == StatusAuthenticated
}

// hydration is the outcome of resolving a persisted token. err is kept for
// diagnostics only; every failure is treated the same way.
type hydration struct {
	user *models.User
	err  error
}

// Manager is the single authority for who is logged in.
type Manager struct {
	store    TokenStore
	identity IdentityFetcher
	notifier Notifier

	mu     sync.RWMutex
	status Status
	token  string
	user   *models.User
	// epoch changes on every login and logout so a hydration that resolves
	// after either one is discarded.
	epoch uint64
}

// NewManager returns a manager in the Hydrating state. Call Initialize to
// settle it.
func NewManager(store TokenStore, identity IdentityFetcher, notifier Notifier) *Manager {
	return &Manager{
		store:    store,
		identity: identity,
		notifier: notifier,
		status:   StatusHydrating,
	}
}

// Initialize reads the persisted token and, if there is one, resolves it to a
// user. A token the server rejects, for any reason, is erased and the session
// settles as Anonymous without reporting an error.
func (m *Manager) Initialize(ctx context.Context) Snapshot {
	token, err := m.store.LoadToken()
	if err != nil || token == "" {
		log.Debug().Err(err).Msg("no persisted token")

		m.mu.Lock()
		m.setLocked(StatusAnonymous, "", nil)
		m.mu.Unlock()

		return m.Current()
	}

	m.mu.Lock()
	m.setLocked(StatusHydrating, token, nil)
	epoch := m.epoch
	m.mu.Unlock()

	result := m.hydrate(ctx, token)

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.epoch != epoch {
		log.Debug().Msg("session changed during hydration, discarding result")
		return m.snapshotLocked()
	}

	if result.err != nil {
		log.Debug().Err(result.err).Msg("stored session is no longer valid, continuing anonymously")

		if err := m.store.ClearToken(); err != nil {
			log.Error().Err(err).Msg("failed to erase stored token")
		}
		m.setLocked(StatusAnonymous, "", nil)

		return m.snapshotLocked()
	}

	m.setLocked(StatusAuthenticated, token, result.user)

	return m.snapshotLocked()
}

func (m *Manager) hydrate(ctx context.Context, token string) hydration {
	started := time.Now()
	defer func() {
		telemetry.GetMetrics().HydrationDuration.Record(ctx, float64(time.Since(started).Milliseconds()))
	}()

	user, err := m.identity.FetchIdentity(ctx, token)
	if err != nil {
		return hydration{err: err}
	}
	if user == nil {
		return hydration{err: errors.New("identity fetch returned no user")}
	}
	return hydration{user: user}
}

// Login records a token and user the caller obtained from a successful
// login or registration. It persists the token and announces the login.
// An empty token is a caller bug and leaves the session untouched.
func (m *Manager) Login(token string, user models.User) {
	if token == "" {
		log.Error().Msg("login called without a token")
		return
	}

	if err := m.store.SaveToken(token); err != nil {
		log.Error().Err(err).Msg("failed to persist token, session will not survive restart")
	}

	m.mu.Lock()
	m.epoch++
	m.setLocked(StatusAuthenticated, token, &user)
	m.mu.Unlock()

	log.Debug().Str("user", user.ID).Str("role", user.Role).Msg("logged in")

	m.notifier.Success(WelcomeMessage)
}

// Logout erases the token and forgets the user. Calling it while already
// anonymous only repeats the notification.
func (m *Manager) Logout() {
	if err := m.store.ClearToken(); err != nil {
		log.Error().Err(err).Msg("failed to erase stored token")
	}

	m.mu.Lock()
	m.epoch++
	m.setLocked(StatusAnonymous, "", nil)
	m.mu.Unlock()

	m.notifier.Success(LogoutMessage)
}

// Current returns a snapshot of the session. It never blocks on I/O.
func (m *Manager) Current() Snapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.snapshotLocked()
}

func (m *Manager) snapshotLocked() Snapshot {
	s := Snapshot{Status: m.status, Token: m.token}
	if m.user != nil {
		u := *m.user
		s.User = &u
	}
	return s
}

// setLocked applies a transition. mu must be held.
func (m *Manager) setLocked(status Status, token string, user *models.User) {
	if m.status != status {
		telemetry.GetMetrics().SessionTransitionsTotal.Add(context.Background(), 1,
			metric.WithAttributes(
				attribute.String("from", m.status.String()),
				attribute.String("to", status.String()),
			))
		log.Debug().Stringer("from", m.status).Stringer("to", status).Msg("session transition")
	}

	m.status = status
	m.token = token
	m.user = user
}
