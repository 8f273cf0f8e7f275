// ABOUTME: HTTP client for the remote catalog/order/vendor/session API
// ABOUTME: Bearer auth from a token source, typed errors for 404 and non-2xx

package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ErrNotFound is returned when a requested entity does not exist upstream
var ErrNotFound = errors.New("not found")

// RemoteError is any non-2xx response from the API. Message carries the
// server-supplied message when the body had one.
type RemoteError struct {
	StatusCode int
	Message    string
}

func (e *RemoteError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("server returned status %d", e.StatusCode)
}

// TokenSource supplies the current bearer credential, or "" when there is
// no live session. The client never refreshes credentials itself.
type TokenSource func() string

// Client talks to the remote API over a common base URL.
type Client struct {
	baseURL    string
	httpClient *http.Client
	tokenFn    TokenSource
	logger     *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient overrides the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithTokenSource sets the bearer credential source for authenticated calls.
func WithTokenSource(fn TokenSource) Option {
	return func(c *Client) { c.tokenFn = fn }
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) { c.logger = logger }
}

// NewClient creates a client for the API rooted at baseURL.
func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 10 * time.Second},
		tokenFn:    func() string { return "" },
		logger:     slog.Default().With("component", "api"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// do performs a request and decodes a 2xx JSON body into out (if non-nil).
// 404 maps to ErrNotFound; any other non-2xx becomes a *RemoteError with
// the server-supplied message when one is present.
func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshaling request: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token := c.tokenFn(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	requestID := uuid.New().String()
	req.Header.Set("X-Request-ID", requestID)

	c.logger.Debug("api request", "method", method, "path", path, "request_id", requestID)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("sending request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return ErrNotFound
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &RemoteError{StatusCode: resp.StatusCode, Message: readErrorMessage(resp.Body)}
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("parsing response: %w", err)
		}
	}
	return nil
}

// readErrorMessage pulls a message out of an error body. The upstream API
// uses both {"message": ...} and {"error": ...}.
func readErrorMessage(body io.Reader) string {
	var payload struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.NewDecoder(body).Decode(&payload); err != nil {
		return ""
	}
	if payload.Message != "" {
		return payload.Message
	}
	return payload.Error
}

// Login exchanges credentials for a bearer token. Public.
func (c *Client) Login(ctx context.Context, username, password string) (string, error) {
	req := map[string]string{"username": username, "password": password}
	var resp struct {
		Token   string `json:"token"`
		Message string `json:"message"`
	}
	if err := c.do(ctx, http.MethodPost, "/api/admin-login", req, &resp); err != nil {
		return "", err
	}
	if resp.Token == "" {
		msg := resp.Message
		if msg == "" {
			msg = "login failed: no token received"
		}
		return "", &RemoteError{StatusCode: http.StatusOK, Message: msg}
	}
	return resp.Token, nil
}

// Logout notifies the API that the current session is ending.
func (c *Client) Logout(ctx context.Context) error {
	return c.do(ctx, http.MethodPost, "/api/logout", struct{}{}, nil)
}

// RegisterVendor submits a public vendor self-registration.
// Returns the server's confirmation message.
func (c *Client) RegisterVendor(ctx context.Context, req RegisterVendorRequest) (string, error) {
	var resp struct {
		Message string `json:"message"`
	}
	if err := c.do(ctx, http.MethodPost, "/api/register-vendor-public", req, &resp); err != nil {
		return "", err
	}
	if resp.Message == "" {
		return "Registered successfully!", nil
	}
	return resp.Message, nil
}

// ListProducts fetches catalog products, optionally filtered. Public.
func (c *Client) ListProducts(ctx context.Context, filter ProductFilter) ([]Product, error) {
	q := url.Values{}
	if filter.Category != "" {
		q.Set("category", filter.Category)
	}
	if filter.VendorID != "" {
		q.Set("vendorId", filter.VendorID)
	}
	path := "/api/products"
	if len(q) > 0 {
		path += "?" + q.Encode()
	}

	var products []Product
	if err := c.do(ctx, http.MethodGet, path, nil, &products); err != nil {
		return nil, err
	}
	return products, nil
}

// GetProduct fetches a single product by id. Public. Returns ErrNotFound
// when the product does not exist.
func (c *Client) GetProduct(ctx context.Context, id string) (*Product, error) {
	var p Product
	if err := c.do(ctx, http.MethodGet, "/api/products/"+url.PathEscape(id), nil, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// CreateProduct creates a product for the payload's vendor.
func (c *Client) CreateProduct(ctx context.Context, payload ProductPayload) (*Product, error) {
	var p Product
	if err := c.do(ctx, http.MethodPost, "/api/products", payload, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// UpdateProduct replaces a product's fields.
func (c *Client) UpdateProduct(ctx context.Context, id string, payload ProductPayload) (*Product, error) {
	var p Product
	if err := c.do(ctx, http.MethodPut, "/api/products/"+url.PathEscape(id), payload, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// DeleteProduct removes a product.
func (c *Client) DeleteProduct(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/products/"+url.PathEscape(id), nil, nil)
}

// ListVendors fetches all vendor accounts, pending and approved.
func (c *Client) ListVendors(ctx context.Context) ([]Vendor, error) {
	var vendors []Vendor
	if err := c.do(ctx, http.MethodGet, "/api/vendors", nil, &vendors); err != nil {
		return nil, err
	}
	return vendors, nil
}

// ApproveVendor marks a pending vendor as approved.
func (c *Client) ApproveVendor(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodPut, "/api/approve-vendor/"+url.PathEscape(id), struct{}{}, nil)
}

// RejectVendor removes a vendor account.
func (c *Client) RejectVendor(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/reject-vendor/"+url.PathEscape(id), nil, nil)
}

// ListOrders fetches orders, scoped to a vendor when vendorID is non-empty.
// The upstream wraps the list in an {"orders": [...]} envelope.
func (c *Client) ListOrders(ctx context.Context, vendorID string) ([]Order, error) {
	path := "/api/orders"
	if vendorID != "" {
		path += "?vendorId=" + url.QueryEscape(vendorID)
	}

	var resp struct {
		Orders []Order `json:"orders"`
	}
	if err := c.do(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Orders, nil
}
