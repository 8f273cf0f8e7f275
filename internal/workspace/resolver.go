// ABOUTME: Total mapping from session state to the workspace variant to render
// ABOUTME: vendor and admin share the vendor workspace; superadmin gets its own

package workspace

import (
	"fmt"

	"github.com/rbr-labs/storefront/internal/token"
)

// View is the closed set of things the dashboard can render.
type View int

const (
	ViewLoading View = iota
	ViewFailure
	ViewVendor
	ViewSuperadmin
	ViewDenied
)

func (v View) String() string {
	switch v {
	case ViewLoading:
		return "loading"
	case ViewFailure:
		return "failure"
	case ViewVendor:
		return "vendor"
	case ViewSuperadmin:
		return "superadmin"
	case ViewDenied:
		return "denied"
	default:
		return "invalid"
	}
}

// Resolution is a View plus the message to show for the non-workspace
// branches.
type Resolution struct {
	View    View
	Message string
}

// Resolve maps the current session state to exactly one workspace branch.
// It is pure and total: every (role, identity) combination lands in one
// of the five views, with no fall-through gap.
func Resolve(loading bool, failureMsg string, role token.Role, subjectID, username string) Resolution {
	if loading {
		return Resolution{View: ViewLoading, Message: "Authenticating user..."}
	}
	if failureMsg != "" {
		return Resolution{View: ViewFailure, Message: failureMsg}
	}

	hasIdentity := subjectID != "" && username != ""

	switch role {
	case token.RoleVendor, token.RoleAdmin:
		if hasIdentity {
			return Resolution{View: ViewVendor}
		}
	case token.RoleSuperadmin:
		if hasIdentity {
			return Resolution{View: ViewSuperadmin}
		}
	case token.RoleUnknown:
		// falls through to denied below
	}

	return Resolution{
		View: ViewDenied,
		Message: fmt.Sprintf(
			"Access Denied: Your role (%s) does not permit dashboard access or required user data is missing.",
			displayRole(role)),
	}
}

func displayRole(role token.Role) string {
	if role == "" || role == token.RoleUnknown {
		return "unknown"
	}
	return string(role)
}
