// Package sessiongate is the session security gate shared by the labelgrid
// backend services. Every service front-loads it on each HTTP request to
// establish who is calling and to protect state-changing calls.
//
// The gate is built from five parts:
//
//   - token:      signs/verifies type-tagged access and refresh tokens
//   - rate:       fixed-window admission counters for login and
//     verification-code issuance
//   - csrf:       double-submit-cookie secrets, one live secret per identity
//   - middleware: the per-request pipeline (extract, verify, CSRF, forward)
//   - Gate:       the session lifecycle orchestrator (login/refresh/logout)
//
// The gate authenticates; it never authorizes. A bad or missing access
// token degrades the request to anonymous instead of rejecting it — the
// access decision belongs to per-route authorization downstream. CSRF and
// rate-limit failures, by contrast, reject immediately.
//
// All shared mutable state (CSRF secrets, rate counters, verification
// codes) lives in an external TTL store behind [kvstore.Store], so any
// number of gate instances can run against one Redis deployment. The gate
// spawns no goroutines and performs no background cleanup; expiry is the
// store's job.
package sessiongate
