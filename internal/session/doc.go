// Package session owns the authentication session lifecycle.
//
// A Manager resolves the persisted credential into a terminal state per
// load (Authenticated with typed claims, or Denied with a login
// redirect), performs login against the gateway, and tears down on
// logout with a best-effort remote notification. Exactly one session is
// live per Manager; no two roles can be active at once.
package session
