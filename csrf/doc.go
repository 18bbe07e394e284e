// Package csrf implements the double-submit-cookie guard.
//
// A per-identity random secret lives in the shared TTL store. The same
// value is handed to the client twice: in a JS-readable cookie and in the
// login/refresh response body. Same-origin scripts echo it back in the
// X-XSRF-TOKEN header; cross-origin attackers cannot read the cookie to
// forge the header. Validation succeeds only when header, cookie, and
// stored secret are all present and pairwise equal.
package csrf
