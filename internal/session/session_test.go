// ABOUTME: Tests for the session manager state machine
// ABOUTME: Covers resolve, decode failure, login, and unconditional logout

package session

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rbr-labs/storefront/internal/api"
	"github.com/rbr-labs/storefront/internal/localstore"
	"github.com/rbr-labs/storefront/internal/token"
)

var testSecret = []byte("session-manager-test-secret-32b!")

// fakeGateway records calls and returns scripted results.
type fakeGateway struct {
	loginToken  string
	loginErr    error
	logoutErr   error
	logoutCalls int
}

func (g *fakeGateway) Login(_ context.Context, _, _ string) (string, error) {
	return g.loginToken, g.loginErr
}

func (g *fakeGateway) Logout(_ context.Context) error {
	g.logoutCalls++
	return g.logoutErr
}

func newTestManager(t *testing.T, gw Gateway) (*Manager, *localstore.Store) {
	t.Helper()
	store, err := localstore.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return NewManager(store, token.NewDecoder(), gw, nil), store
}

func mintToken(t *testing.T, role token.Role) string {
	t.Helper()
	tok, err := token.Sign(token.Claims{SubjectID: "u1", Username: "rahul", Role: role}, testSecret, time.Hour)
	require.NoError(t, err)
	return tok
}

func TestResolve_NoCredential(t *testing.T) {
	m, _ := newTestManager(t, &fakeGateway{})

	out := m.Resolve(context.Background())

	assert.Equal(t, StateDenied, out.State)
	assert.Equal(t, RouteLogin, out.Redirect)
	assert.ErrorIs(t, out.Err, ErrNoSession)
	assert.Equal(t, StateDenied, m.State())
}

func TestResolve_ValidCredential(t *testing.T) {
	m, store := newTestManager(t, &fakeGateway{})
	ctx := context.Background()
	require.NoError(t, store.Set(ctx, localstore.KeyToken, mintToken(t, token.RoleVendor)))

	out := m.Resolve(ctx)

	require.Equal(t, StateAuthenticated, out.State)
	require.NotNil(t, out.Claims)
	assert.Equal(t, "u1", out.Claims.SubjectID)
	assert.Equal(t, "rahul", out.Claims.Username)
	assert.Equal(t, token.RoleVendor, out.Claims.Role)
	assert.Empty(t, out.Redirect)

	claims, ok := m.Current()
	require.True(t, ok)
	assert.Equal(t, claims.Raw, m.Token())
}

func TestResolve_BadCredentialClearsStore(t *testing.T) {
	m, store := newTestManager(t, &fakeGateway{})
	ctx := context.Background()
	require.NoError(t, store.Set(ctx, localstore.KeyToken, "not-a-token"))

	out := m.Resolve(ctx)

	assert.Equal(t, StateDenied, out.State)
	assert.Equal(t, RouteLogin, out.Redirect)
	assert.ErrorIs(t, out.Err, token.ErrInvalidToken)

	// Credential must be gone regardless of prior state
	_, err := store.Get(ctx, localstore.KeyToken)
	assert.ErrorIs(t, err, localstore.ErrNotFound)
}

func TestResolve_BadCredentialAfterAuthenticated(t *testing.T) {
	m, store := newTestManager(t, &fakeGateway{})
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, localstore.KeyToken, mintToken(t, token.RoleAdmin)))
	require.Equal(t, StateAuthenticated, m.Resolve(ctx).State)

	require.NoError(t, store.Set(ctx, localstore.KeyToken, "corrupted"))
	out := m.Resolve(ctx)

	assert.Equal(t, StateDenied, out.State)
	_, ok := m.Current()
	assert.False(t, ok)
}

func TestLogin_StoresCredential(t *testing.T) {
	minted := mintToken(t, token.RoleSuperadmin)
	m, store := newTestManager(t, &fakeGateway{loginToken: minted})
	ctx := context.Background()

	route, err := m.Login(ctx, "boss", "pw")
	require.NoError(t, err)
	assert.Equal(t, RouteDashboard, route)

	stored, err := store.Get(ctx, localstore.KeyToken)
	require.NoError(t, err)
	assert.Equal(t, minted, stored)
}

func TestLogin_FailureLeavesStateUntouched(t *testing.T) {
	gw := &fakeGateway{loginErr: &api.RemoteError{StatusCode: 401, Message: "Invalid credentials"}}
	m, store := newTestManager(t, gw)
	ctx := context.Background()

	// A previous session is live
	require.NoError(t, store.Set(ctx, localstore.KeyToken, mintToken(t, token.RoleVendor)))
	require.Equal(t, StateAuthenticated, m.Resolve(ctx).State)

	_, err := m.Login(ctx, "boss", "wrong")
	require.Error(t, err)
	assert.Equal(t, "Invalid credentials", err.Error())

	// Prior credential and state survive the failed login
	_, getErr := store.Get(ctx, localstore.KeyToken)
	assert.NoError(t, getErr)
	_, ok := m.Current()
	assert.True(t, ok)
}

func TestLogin_GenericFallbackMessage(t *testing.T) {
	m, _ := newTestManager(t, &fakeGateway{loginErr: errors.New("dial tcp: connection refused")})

	_, err := m.Login(context.Background(), "boss", "pw")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "login failed")
}

func TestLogout_ClearsEvenWhenRemoteFails(t *testing.T) {
	gw := &fakeGateway{logoutErr: errors.New("gateway unreachable")}
	m, store := newTestManager(t, gw)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, localstore.KeyToken, mintToken(t, token.RoleVendor)))
	require.Equal(t, StateAuthenticated, m.Resolve(ctx).State)

	route := m.Logout(ctx)

	assert.Equal(t, RouteLogin, route)
	assert.Equal(t, 1, gw.logoutCalls)
	assert.Equal(t, StateUnauthenticated, m.State())
	_, err := store.Get(ctx, localstore.KeyToken)
	assert.ErrorIs(t, err, localstore.ErrNotFound)
}
