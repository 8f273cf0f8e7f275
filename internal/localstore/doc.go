// Package localstore is the client's durable key-value storage.
//
// It plays the role browser local storage plays for a web client: a
// handful of string keys ("token", "cartItems") whose values survive
// restarts. SQLite (modernc.org/sqlite, pure Go) backs it so the TUI
// needs no cgo. Use ":memory:" in tests.
package localstore
