// Package api is the client for the remote marketplace API.
//
// All operations share a common base URL. Authenticated calls carry the
// session's bearer credential via a TokenSource; public calls (catalog
// reads, login, vendor registration) work without one. Errors are typed:
// ErrNotFound for absent entities, *RemoteError for any other non-2xx
// with the server-supplied message preserved.
package api
