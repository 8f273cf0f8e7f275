// ABOUTME: Session lifecycle: credential resolution, login, logout, redirects
// ABOUTME: State machine Unauthenticated -> Authenticating -> Authenticated | Denied

package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/rbr-labs/storefront/internal/api"
	"github.com/rbr-labs/storefront/internal/localstore"
	"github.com/rbr-labs/storefront/internal/token"
)

// ErrNoSession is returned when no credential is stored
var ErrNoSession = errors.New("no stored credential")

// Routes the manager signals redirects to.
const (
	RouteLogin     = "/admin-login"
	RouteDashboard = "/dashboard"
)

// State is the session lifecycle state.
type State int

const (
	StateUnauthenticated State = iota
	StateAuthenticating
	StateAuthenticated
	StateDenied
)

func (s State) String() string {
	switch s {
	case StateUnauthenticated:
		return "unauthenticated"
	case StateAuthenticating:
		return "authenticating"
	case StateAuthenticated:
		return "authenticated"
	case StateDenied:
		return "denied"
	default:
		return "invalid"
	}
}

// CredentialStore persists the bearer credential across runs.
// localstore.Store satisfies it.
type CredentialStore interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}

// Gateway is the remote surface the manager needs: credential exchange
// and best-effort logout notification.
type Gateway interface {
	Login(ctx context.Context, username, password string) (string, error)
	Logout(ctx context.Context) error
}

// Outcome is the terminal result of resolving a session for one page load:
// either Authenticated with claims, or Denied with a reason and a redirect.
type Outcome struct {
	State    State
	Claims   *token.Claims
	Redirect string
	Err      error
}

// Manager owns the single live session for this client. It is created at
// app start and passes resolved claims to the workspace resolver; it is
// never shared between two concurrent identities.
type Manager struct {
	creds   CredentialStore
	decoder *token.Decoder
	gateway Gateway
	logger  *slog.Logger

	mu     sync.Mutex
	state  State
	claims *token.Claims
}

// NewManager creates a session manager over the given credential store
// and gateway.
func NewManager(creds CredentialStore, decoder *token.Decoder, gateway Gateway, logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.Default()
	}
	return &Manager{
		creds:   creds,
		decoder: decoder,
		gateway: gateway,
		logger:  logger.With("component", "session"),
		state:   StateUnauthenticated,
	}
}

// Resolve reads the persisted credential and settles the session into a
// terminal state for this load: Authenticated(role) or Denied. A failed
// decode clears the credential; there is no automatic retry.
func (m *Manager) Resolve(ctx context.Context) Outcome {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.state = StateAuthenticating
	m.claims = nil

	raw, err := m.creds.Get(ctx, localstore.KeyToken)
	if err != nil {
		if !errors.Is(err, localstore.ErrNotFound) {
			m.logger.Warn("reading stored credential failed, treating as absent", "error", err)
		}
		m.state = StateDenied
		return Outcome{
			State:    StateDenied,
			Redirect: RouteLogin,
			Err:      ErrNoSession,
		}
	}

	claims, err := m.decoder.Decode(raw)
	if err != nil {
		m.logger.Info("stored credential failed to decode, clearing", "error", err)
		if clearErr := m.creds.Delete(ctx, localstore.KeyToken); clearErr != nil {
			m.logger.Error("clearing invalid credential failed", "error", clearErr)
		}
		m.state = StateDenied
		return Outcome{
			State:    StateDenied,
			Redirect: RouteLogin,
			Err:      err,
		}
	}

	m.state = StateAuthenticated
	m.claims = claims
	m.logger.Debug("session authenticated", "subject_id", claims.SubjectID, "role", claims.Role)
	return Outcome{State: StateAuthenticated, Claims: claims}
}

// Login exchanges credentials with the gateway. On success the returned
// token is durably stored and the caller is pointed at the dashboard; on
// failure the server-supplied message is surfaced and any previously
// resolved session is left untouched.
func (m *Manager) Login(ctx context.Context, username, password string) (string, error) {
	tok, err := m.gateway.Login(ctx, username, password)
	if err != nil {
		var remote *api.RemoteError
		if errors.As(err, &remote) && remote.Message != "" {
			return "", remote
		}
		return "", fmt.Errorf("login failed, please check your credentials: %w", err)
	}

	if err := m.creds.Set(ctx, localstore.KeyToken, tok); err != nil {
		return "", fmt.Errorf("storing credential: %w", err)
	}

	m.logger.Info("login succeeded", "username", username)
	return RouteDashboard, nil
}

// Logout tears the session down. The gateway notification is best-effort:
// a failure is logged and never blocks the local teardown. The credential
// is cleared and the login route signalled unconditionally.
func (m *Manager) Logout(ctx context.Context) string {
	if err := m.gateway.Logout(ctx); err != nil {
		m.logger.Warn("remote logout failed, proceeding with local teardown", "error", err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.creds.Delete(ctx, localstore.KeyToken); err != nil {
		m.logger.Error("clearing credential failed", "error", err)
	}
	m.state = StateUnauthenticated
	m.claims = nil

	return RouteLogin
}

// Current returns the resolved claims, if the session is authenticated.
func (m *Manager) Current() (*token.Claims, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state != StateAuthenticated || m.claims == nil {
		return nil, false
	}
	return m.claims, true
}

// State returns the current lifecycle state.
func (m *Manager) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// Token returns the raw credential of the live session, or "".
// Suitable as an api.TokenSource.
func (m *Manager) Token() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.claims == nil {
		return ""
	}
	return m.claims.Raw
}
