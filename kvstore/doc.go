// Package kvstore defines the external TTL store contract shared by the
// rate limiter, the CSRF guard, and the verification-code flow, together
// with a Redis-backed implementation for deployments and an in-memory
// implementation for tests and single-process demos.
//
// Expiry is owned entirely by the store: the gate never polls or sweeps.
package kvstore
