// ABOUTME: Local fixture server implementing the marketplace HTTP surface
// ABOUTME: Seeded in-memory data, bcrypt login, HS256 bearer tokens

package mockapi

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"golang.org/x/crypto/bcrypt"

	"github.com/rbr-labs/storefront/internal/api"
	"github.com/rbr-labs/storefront/internal/token"
)

const tokenTTL = 24 * time.Hour

// account is a login-capable user of the fixture server.
type account struct {
	ID           string
	Username     string
	PasswordHash []byte
	Role         token.Role
}

// Server is an in-memory stand-in for the remote marketplace API. It
// implements the full HTTP surface the client consumes, so the TUI and
// the integration tests can run without the real backend.
type Server struct {
	router *mux.Router
	secret []byte
	logger *slog.Logger

	mu       sync.Mutex
	accounts []account
	vendors  []api.Vendor
	products []api.Product
	orders   []api.Order
}

// New creates a fixture server signing tokens with secret, seeded with
// a superadmin, two vendors (one pending), products, and orders.
func New(secret []byte, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{
		secret: secret,
		logger: logger.With("component", "mockapi"),
	}
	s.seed()

	r := mux.NewRouter()

	// Public routes
	r.HandleFunc("/api/admin-login", s.handleLogin).Methods("POST")
	r.HandleFunc("/api/register-vendor-public", s.handleRegisterVendor).Methods("POST")
	r.HandleFunc("/api/products", s.handleListProducts).Methods("GET")
	r.HandleFunc("/api/products/{id}", s.handleGetProduct).Methods("GET")

	// Authenticated routes
	auth := r.NewRoute().Subrouter()
	auth.Use(s.authMiddleware)
	auth.HandleFunc("/api/logout", s.handleLogout).Methods("POST")
	auth.HandleFunc("/api/products", s.handleCreateProduct).Methods("POST")
	auth.HandleFunc("/api/products/{id}", s.handleUpdateProduct).Methods("PUT")
	auth.HandleFunc("/api/products/{id}", s.handleDeleteProduct).Methods("DELETE")
	auth.HandleFunc("/api/vendors", s.handleListVendors).Methods("GET")
	auth.HandleFunc("/api/approve-vendor/{id}", s.handleApproveVendor).Methods("PUT")
	auth.HandleFunc("/api/reject-vendor/{id}", s.handleRejectVendor).Methods("DELETE")
	auth.HandleFunc("/api/orders", s.handleListOrders).Methods("GET")

	s.router = r
	return s
}

// Handler returns the HTTP handler for the fixture server.
func (s *Server) Handler() http.Handler {
	return s.router
}

// seed populates the initial marketplace state. Passwords: superadmin
// "superadmin/super-secret", vendor "rahul/vendor-secret".
func (s *Server) seed() {
	superPW, _ := bcrypt.GenerateFromPassword([]byte("super-secret"), bcrypt.DefaultCost)
	vendorPW, _ := bcrypt.GenerateFromPassword([]byte("vendor-secret"), bcrypt.DefaultCost)

	s.accounts = []account{
		{ID: "acct-super", Username: "superadmin", PasswordHash: superPW, Role: token.RoleSuperadmin},
		{ID: "v-rahul", Username: "rahul", PasswordHash: vendorPW, Role: token.RoleVendor},
	}
	s.vendors = []api.Vendor{
		{ID: "v-rahul", Username: "rahul", Location: "Mumbai", IsApproved: true},
		{ID: "v-meera", Username: "meera", Location: "Pune", IsApproved: false},
	}
	s.products = []api.Product{
		{
			ID: "p-1", Name: "Court Sneaker", ProductType: "Shoes", Category: "Mens",
			ImageURL: "https://img.example/p1.jpg", OriginalPrice: 1999, DiscountedPrice: 1499,
			DiscountPercent: 25, Rating: 4.2, Reviews: 87,
			Sizes: []string{"7", "8", "9"}, Colors: []string{"red", "black"},
			VendorID: "v-rahul", VendorName: "rahul",
		},
		{
			ID: "p-2", Name: "Summer Dress", ProductType: "Dresses", Category: "Casual",
			ImageURL: "https://img.example/p2.jpg", OriginalPrice: 2500, DiscountedPrice: 1999,
			DiscountPercent: 20, Rating: 4.6, Reviews: 41,
			Sizes: []string{"S", "M", "L"}, Colors: []string{"teal"},
			VendorID: "v-rahul", VendorName: "rahul",
		},
	}
	s.orders = []api.Order{
		{ID: "o-1", VendorName: "rahul", ProductName: "Court Sneaker", CustomerName: "Asha", Status: api.OrderStatusPending},
		{ID: "o-2", VendorName: "rahul", ProductName: "Summer Dress", CustomerName: "Vikram", Status: api.OrderStatusShipped},
	}
}

// claimsKey is the context key for authenticated claims.
type contextKey string

const claimsKey contextKey = "claims"

// authMiddleware verifies the bearer token and attaches claims to the
// request context.
func (s *Server) authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if !strings.HasPrefix(authHeader, "Bearer ") {
			writeError(w, http.StatusUnauthorized, "missing authorization header")
			return
		}

		claims, err := token.Verify(strings.TrimPrefix(authHeader, "Bearer "), s.secret)
		if err != nil {
			writeError(w, http.StatusUnauthorized, "invalid token")
			return
		}

		ctx := contextWithClaims(r.Context(), claims)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, acct := range s.accounts {
		if acct.Username != req.Username {
			continue
		}
		if bcrypt.CompareHashAndPassword(acct.PasswordHash, []byte(req.Password)) != nil {
			break
		}

		tok, err := token.Sign(token.Claims{
			SubjectID: acct.ID,
			Username:  acct.Username,
			Role:      acct.Role,
		}, s.secret, tokenTTL)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "failed to issue token")
			return
		}

		s.logger.Info("login", "username", acct.Username, "role", acct.Role)
		writeJSON(w, http.StatusOK, map[string]string{"token": tok})
		return
	}

	writeError(w, http.StatusUnauthorized, "Invalid credentials")
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	// Stateless tokens: nothing to revoke here
	writeJSON(w, http.StatusOK, map[string]string{"message": "Logout successful"})
}

func (s *Server) handleRegisterVendor(w http.ResponseWriter, r *http.Request) {
	var req api.RegisterVendorRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Username == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "username and password are required")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, v := range s.vendors {
		if v.Username == req.Username {
			writeError(w, http.StatusConflict, "username already taken")
			return
		}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to register vendor")
		return
	}

	id := uuid.New().String()
	// New vendors start pending until a superadmin approves them
	s.vendors = append(s.vendors, api.Vendor{
		ID:       id,
		Username: req.Username,
		Location: req.Location,
	})
	s.accounts = append(s.accounts, account{
		ID:           id,
		Username:     req.Username,
		PasswordHash: hash,
		Role:         token.RoleVendor,
	})

	writeJSON(w, http.StatusCreated, map[string]string{"message": "Registration submitted, awaiting approval"})
}

func (s *Server) handleListProducts(w http.ResponseWriter, r *http.Request) {
	category := r.URL.Query().Get("category")
	vendorID := r.URL.Query().Get("vendorId")

	s.mu.Lock()
	defer s.mu.Unlock()

	out := []api.Product{}
	for _, p := range s.products {
		if category != "" && p.Category != category {
			continue
		}
		if vendorID != "" && p.VendorID != vendorID {
			continue
		}
		out = append(out, p)
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleGetProduct(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, p := range s.products {
		if p.ID == id {
			writeJSON(w, http.StatusOK, p)
			return
		}
	}
	writeError(w, http.StatusNotFound, "Product not found")
}

func (s *Server) handleCreateProduct(w http.ResponseWriter, r *http.Request) {
	var payload api.ProductPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	claims := claimsFromContext(r.Context())
	if claims.Role == token.RoleVendor && payload.VendorID != claims.SubjectID {
		writeError(w, http.StatusForbidden, "vendors may only create their own products")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	p := productFromPayload(uuid.New().String(), payload)
	s.products = append(s.products, p)
	writeJSON(w, http.StatusCreated, p)
}

func (s *Server) handleUpdateProduct(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	var payload api.ProductPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	claims := claimsFromContext(r.Context())

	s.mu.Lock()
	defer s.mu.Unlock()

	for i, p := range s.products {
		if p.ID != id {
			continue
		}
		if claims.Role == token.RoleVendor && p.VendorID != claims.SubjectID {
			writeError(w, http.StatusForbidden, "vendors may only edit their own products")
			return
		}
		s.products[i] = productFromPayload(id, payload)
		writeJSON(w, http.StatusOK, s.products[i])
		return
	}
	writeError(w, http.StatusNotFound, "Product not found")
}

func (s *Server) handleDeleteProduct(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	claims := claimsFromContext(r.Context())

	s.mu.Lock()
	defer s.mu.Unlock()

	for i, p := range s.products {
		if p.ID != id {
			continue
		}
		if claims.Role == token.RoleVendor && p.VendorID != claims.SubjectID {
			writeError(w, http.StatusForbidden, "vendors may only delete their own products")
			return
		}
		s.products = append(s.products[:i], s.products[i+1:]...)
		writeJSON(w, http.StatusOK, map[string]string{"message": "Product deleted"})
		return
	}
	writeError(w, http.StatusNotFound, "Product not found")
}

func (s *Server) handleListVendors(w http.ResponseWriter, r *http.Request) {
	if !requireSuperadmin(w, r) {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	writeJSON(w, http.StatusOK, s.vendors)
}

func (s *Server) handleApproveVendor(w http.ResponseWriter, r *http.Request) {
	if !requireSuperadmin(w, r) {
		return
	}
	id := mux.Vars(r)["id"]

	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.vendors {
		if s.vendors[i].ID == id {
			s.vendors[i].IsApproved = true
			writeJSON(w, http.StatusOK, map[string]string{"message": "Vendor approved"})
			return
		}
	}
	writeError(w, http.StatusNotFound, "Vendor not found")
}

func (s *Server) handleRejectVendor(w http.ResponseWriter, r *http.Request) {
	if !requireSuperadmin(w, r) {
		return
	}
	id := mux.Vars(r)["id"]

	s.mu.Lock()
	defer s.mu.Unlock()

	for i, v := range s.vendors {
		if v.ID == id {
			s.vendors = append(s.vendors[:i], s.vendors[i+1:]...)
			writeJSON(w, http.StatusOK, map[string]string{"message": "Vendor removed"})
			return
		}
	}
	writeError(w, http.StatusNotFound, "Vendor not found")
}

func (s *Server) handleListOrders(w http.ResponseWriter, r *http.Request) {
	vendorID := r.URL.Query().Get("vendorId")
	claims := claimsFromContext(r.Context())

	// Vendors only ever see their own orders
	if claims.Role == token.RoleVendor {
		vendorID = claims.SubjectID
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	vendorName := ""
	if vendorID != "" {
		for _, v := range s.vendors {
			if v.ID == vendorID {
				vendorName = v.Username
				break
			}
		}
	}

	out := []api.Order{}
	for _, o := range s.orders {
		if vendorID != "" && o.VendorName != vendorName {
			continue
		}
		out = append(out, o)
	}
	writeJSON(w, http.StatusOK, map[string][]api.Order{"orders": out})
}

func productFromPayload(id string, payload api.ProductPayload) api.Product {
	return api.Product{
		ID:              id,
		Name:            payload.Name,
		ProductType:     payload.ProductType,
		Category:        payload.Category,
		ImageURL:        payload.ImageURL,
		OriginalPrice:   payload.OriginalPrice,
		DiscountedPrice: payload.DiscountedPrice,
		DiscountPercent: payload.DiscountPercent,
		Rating:          payload.Rating,
		Reviews:         payload.Reviews,
		Sizes:           payload.Sizes,
		Colors:          payload.Colors,
		VendorID:        payload.VendorID,
		VendorName:      payload.VendorName,
	}
}
