// Package token decodes opaque bearer credentials into typed session claims.
//
// The storefront client never verifies signatures itself (it holds no
// secret); Decode performs a structural parse with expiry checking only.
// Sign and Verify exist for the local fixture server and for tests.
package token
