// Package workspace resolves a session role to the dashboard variant it
// may use, and models each variant's tab state machine.
//
// Resolve is the total mapping: vendor and admin roles land in the
// vendor workspace, superadmin in its own, and everything else (absent
// identity included) in an access-denied branch. The workspaces drive
// the remote gateway for product CRUD, vendor approval, and order
// viewing; a failed fetch surfaces as an error and leaves the
// previously shown data intact.
package workspace
