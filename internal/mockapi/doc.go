// Package mockapi is a local stand-in for the remote marketplace API.
//
// It serves the same HTTP surface the client consumes, backed by seeded
// in-memory data: bcrypt-checked logins issuing HS256 bearer tokens,
// product CRUD with vendor ownership checks, vendor approval, and the
// orders envelope. Used by cmd/storefront-mockapi for local development
// and by the integration tests.
package mockapi
