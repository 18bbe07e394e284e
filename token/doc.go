// Package token implements the type-tagged bearer token codec.
//
// Access and refresh tokens share one compact JWT format signed with a
// single process-wide HMAC-SHA256 key; a "typ" claim discriminates intent.
// Verification enforces the type claim explicitly so that a refresh token
// can never stand in for an access token (or vice versa), even with a
// valid signature.
package token
