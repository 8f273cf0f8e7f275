// ABOUTME: Integration tests driving the fixture server through the API client
// ABOUTME: Login, product CRUD, vendor approval, and order scoping end to end

package mockapi

import (
	"context"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rbr-labs/storefront/internal/api"
	"github.com/rbr-labs/storefront/internal/token"
)

var testSecret = []byte("mockapi-integration-secret-32by!")

type env struct {
	client *api.Client
	token  string
}

func newEnv(t *testing.T) *env {
	t.Helper()
	srv := httptest.NewServer(New(testSecret, nil).Handler())
	t.Cleanup(srv.Close)

	e := &env{}
	e.client = api.NewClient(srv.URL, api.WithTokenSource(func() string { return e.token }))
	return e
}

func (e *env) login(t *testing.T, username, password string) *token.Claims {
	t.Helper()
	tok, err := e.client.Login(context.Background(), username, password)
	require.NoError(t, err)
	e.token = tok

	claims, err := token.NewDecoder().Decode(tok)
	require.NoError(t, err)
	return claims
}

func TestLogin_IssuesDecodableToken(t *testing.T) {
	e := newEnv(t)

	claims := e.login(t, "superadmin", "super-secret")
	assert.Equal(t, token.RoleSuperadmin, claims.Role)
	assert.Equal(t, "superadmin", claims.Username)
}

func TestLogin_WrongPassword(t *testing.T) {
	e := newEnv(t)

	_, err := e.client.Login(context.Background(), "superadmin", "nope")
	var remote *api.RemoteError
	require.ErrorAs(t, err, &remote)
	assert.Equal(t, "Invalid credentials", remote.Message)
}

func TestCatalog_PublicReads(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	products, err := e.client.ListProducts(ctx, api.ProductFilter{})
	require.NoError(t, err)
	assert.Len(t, products, 2)

	mens, err := e.client.ListProducts(ctx, api.ProductFilter{Category: "Mens"})
	require.NoError(t, err)
	require.Len(t, mens, 1)
	assert.Equal(t, "Court Sneaker", mens[0].Name)

	p, err := e.client.GetProduct(ctx, "p-2")
	require.NoError(t, err)
	assert.Equal(t, "Summer Dress", p.Name)

	_, err = e.client.GetProduct(ctx, "missing")
	assert.ErrorIs(t, err, api.ErrNotFound)
}

func TestProducts_VendorCRUD(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	claims := e.login(t, "rahul", "vendor-secret")

	created, err := e.client.CreateProduct(ctx, api.ProductPayload{
		Name:        "Trail Runner",
		ProductType: "Shoes",
		Category:    "Mens",
		Sizes:       []string{"8", "9"},
		VendorID:    claims.SubjectID,
		VendorName:  claims.Username,
	})
	require.NoError(t, err)
	require.NotEmpty(t, created.ID)

	updated, err := e.client.UpdateProduct(ctx, created.ID, api.ProductPayload{
		Name:     "Trail Runner v2",
		VendorID: claims.SubjectID,
	})
	require.NoError(t, err)
	assert.Equal(t, "Trail Runner v2", updated.Name)

	require.NoError(t, e.client.DeleteProduct(ctx, created.ID))
	_, err = e.client.GetProduct(ctx, created.ID)
	assert.ErrorIs(t, err, api.ErrNotFound)
}

func TestProducts_VendorCannotTouchOthers(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	e.login(t, "rahul", "vendor-secret")

	_, err := e.client.CreateProduct(ctx, api.ProductPayload{Name: "Sneaky", VendorID: "someone-else"})
	var remote *api.RemoteError
	require.ErrorAs(t, err, &remote)
	assert.Equal(t, 403, remote.StatusCode)
}

func TestProducts_RequireAuth(t *testing.T) {
	e := newEnv(t)

	_, err := e.client.CreateProduct(context.Background(), api.ProductPayload{Name: "Nope"})
	var remote *api.RemoteError
	require.ErrorAs(t, err, &remote)
	assert.Equal(t, 401, remote.StatusCode)
}

func TestVendors_ApprovalLifecycle(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	e.login(t, "superadmin", "super-secret")

	vendors, err := e.client.ListVendors(ctx)
	require.NoError(t, err)
	require.Len(t, vendors, 2)

	var pending *api.Vendor
	for i := range vendors {
		if !vendors[i].IsApproved {
			pending = &vendors[i]
		}
	}
	require.NotNil(t, pending)

	require.NoError(t, e.client.ApproveVendor(ctx, pending.ID))

	vendors, err = e.client.ListVendors(ctx)
	require.NoError(t, err)
	for _, v := range vendors {
		assert.True(t, v.IsApproved, "vendor %s should be approved", v.Username)
	}

	require.NoError(t, e.client.RejectVendor(ctx, pending.ID))
	vendors, err = e.client.ListVendors(ctx)
	require.NoError(t, err)
	assert.Len(t, vendors, 1)
}

func TestVendors_SuperadminOnly(t *testing.T) {
	e := newEnv(t)
	e.login(t, "rahul", "vendor-secret")

	_, err := e.client.ListVendors(context.Background())
	var remote *api.RemoteError
	require.ErrorAs(t, err, &remote)
	assert.Equal(t, 403, remote.StatusCode)
}

func TestRegisterVendor_StartsPending(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	msg, err := e.client.RegisterVendor(ctx, api.RegisterVendorRequest{
		Name:     "New Vendor",
		Email:    "new@example.com",
		Username: "newvendor",
		Password: "pw-123456",
		Location: "Delhi",
	})
	require.NoError(t, err)
	assert.Contains(t, msg, "awaiting approval")

	e.login(t, "superadmin", "super-secret")
	vendors, err := e.client.ListVendors(ctx)
	require.NoError(t, err)

	found := false
	for _, v := range vendors {
		if v.Username == "newvendor" {
			found = true
			assert.False(t, v.IsApproved)
		}
	}
	assert.True(t, found)
}

func TestOrders_ScopedForVendors(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	e.login(t, "superadmin", "super-secret")
	all, err := e.client.ListOrders(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 2)

	e.login(t, "rahul", "vendor-secret")
	mine, err := e.client.ListOrders(ctx, "v-rahul")
	require.NoError(t, err)
	assert.Len(t, mine, 2)
	for _, o := range mine {
		assert.Equal(t, "rahul", o.VendorName)
	}
}

func TestLogout(t *testing.T) {
	e := newEnv(t)
	e.login(t, "rahul", "vendor-secret")
	require.NoError(t, e.client.Logout(context.Background()))
}
