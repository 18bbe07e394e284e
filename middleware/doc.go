// Package middleware provides the per-request session pipeline and the
// cookie contract helpers for net/http services.
//
// The pipeline establishes identity but never authorizes: a missing,
// expired, or invalid access token degrades the request to anonymous and
// forwards it, leaving the access decision to per-route authorization.
// The only rejection the pipeline itself produces is the CSRF 403 on
// unsafe, non-exempt, authenticated requests.
package middleware
