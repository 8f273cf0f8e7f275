// ABOUTME: Request context helpers and JSON response writers for the fixture server
// ABOUTME: Claims attachment plus the superadmin gate used by admin routes

package mockapi

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/rbr-labs/storefront/internal/token"
)

// contextWithClaims attaches verified claims to a request context.
func contextWithClaims(ctx context.Context, claims *token.Claims) context.Context {
	return context.WithValue(ctx, claimsKey, claims)
}

// claimsFromContext returns the claims set by the auth middleware.
// Handlers behind the middleware can rely on a non-nil result.
func claimsFromContext(ctx context.Context) *token.Claims {
	if claims, ok := ctx.Value(claimsKey).(*token.Claims); ok {
		return claims
	}
	return &token.Claims{Role: token.RoleUnknown}
}

// requireSuperadmin writes 403 and returns false unless the request is
// authenticated as a superadmin.
func requireSuperadmin(w http.ResponseWriter, r *http.Request) bool {
	if claimsFromContext(r.Context()).Role != token.RoleSuperadmin {
		writeError(w, http.StatusForbidden, "superadmin role required")
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"message": message})
}
