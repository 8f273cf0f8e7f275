// ABOUTME: Tests for the API client against an httptest server
// ABOUTME: Covers auth headers, filters, error mapping, and response envelopes

package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_ListProducts_Filter(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/products", r.URL.Path)
		assert.Equal(t, "Mens", r.URL.Query().Get("category"))
		assert.Equal(t, "v1", r.URL.Query().Get("vendorId"))
		assert.NotEmpty(t, r.Header.Get("X-Request-ID"))
		json.NewEncoder(w).Encode([]Product{{ID: "p1", Name: "Runner"}})
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	products, err := c.ListProducts(context.Background(), ProductFilter{Category: "Mens", VendorID: "v1"})
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, "p1", products[0].ID)
}

func TestClient_ListProducts_Empty(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	products, err := NewClient(srv.URL).ListProducts(context.Background(), ProductFilter{})
	require.NoError(t, err)
	assert.Empty(t, products)
}

func TestClient_GetProduct_NotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"message":"Product not found"}`, http.StatusNotFound)
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL).GetProduct(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestClient_BearerToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer tok-123", r.Header.Get("Authorization"))
		json.NewEncoder(w).Encode([]Vendor{})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, WithTokenSource(func() string { return "tok-123" }))
	_, err := c.ListVendors(context.Background())
	require.NoError(t, err)
}

func TestClient_RemoteErrorMessage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		w.Write([]byte(`{"message":"vendor not approved"}`))
	}))
	defer srv.Close()

	err := NewClient(srv.URL).ApproveVendor(context.Background(), "v9")
	var remote *RemoteError
	require.ErrorAs(t, err, &remote)
	assert.Equal(t, http.StatusForbidden, remote.StatusCode)
	assert.Equal(t, "vendor not approved", remote.Message)
}

func TestClient_Login(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/admin-login", r.URL.Path)
		assert.Equal(t, http.MethodPost, r.Method)

		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		if body["password"] != "secret" {
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte(`{"message":"Invalid credentials"}`))
			return
		}
		w.Write([]byte(`{"token":"tok-abc"}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL)

	tok, err := c.Login(context.Background(), "rahul", "secret")
	require.NoError(t, err)
	assert.Equal(t, "tok-abc", tok)

	_, err = c.Login(context.Background(), "rahul", "wrong")
	var remote *RemoteError
	require.ErrorAs(t, err, &remote)
	assert.Equal(t, "Invalid credentials", remote.Message)
}

func TestClient_Login_NoToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"message":"account disabled"}`))
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL).Login(context.Background(), "u", "p")
	var remote *RemoteError
	require.ErrorAs(t, err, &remote)
	assert.Equal(t, "account disabled", remote.Message)
}

func TestClient_ListOrders_Envelope(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "v1", r.URL.Query().Get("vendorId"))
		w.Write([]byte(`{"orders":[{"_id":"o1","productName":"Runner","customerName":"Asha","status":"pending"}]}`))
	}))
	defer srv.Close()

	orders, err := NewClient(srv.URL).ListOrders(context.Background(), "v1")
	require.NoError(t, err)
	require.Len(t, orders, 1)
	assert.Equal(t, "o1", orders[0].ID)
	assert.Equal(t, OrderStatusPending, orders[0].Status)
}

func TestClient_UpdateProduct_Path(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/products/p42", r.URL.Path)
		assert.Equal(t, http.MethodPut, r.Method)

		var payload ProductPayload
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		json.NewEncoder(w).Encode(Product{ID: "p42", Name: payload.Name})
	}))
	defer srv.Close()

	p, err := NewClient(srv.URL).UpdateProduct(context.Background(), "p42", ProductPayload{Name: "Loafer"})
	require.NoError(t, err)
	assert.Equal(t, "Loafer", p.Name)
}
