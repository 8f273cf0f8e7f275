// Package cart maintains the persisted shopping cart ledger.
//
// The ledger holds at most one line per (productId, size, color)
// identity key: adding a selection that already exists merges into the
// existing line's quantity. Durable storage is written before any
// mutation returns, and a corrupt persisted cart degrades to empty.
package cart
