package sessiongate

import (
	"context"
	"time"
)

// UserRecord is the credential material the gate reads from the host's
// identity store. The identity is an opaque string (an email in labelgrid
// deployments); the gate never parses it.
type UserRecord struct {
	Identity     string
	PasswordHash string
}

// RefreshTokenRecord is the single active refresh token kept per identity.
// It is overwritten on every login and refresh; tokens rotated out this
// way remain cryptographically valid until their own expiry but no longer
// match the record, so Refresh rejects them.
type RefreshTokenRecord struct {
	Token     string
	ExpiresAt time.Time
}

// CredentialStore is the external identity-store collaborator. The gate
// uses it to verify credentials and to hold the per-user refresh record;
// persistence of business entities stays entirely on the host's side.
//
// GetUser returns ErrUserNotFound for unknown identities.
// GetRefreshToken returns ErrUserNotFound when no record exists.
type CredentialStore interface {
	GetUser(ctx context.Context, identity string) (UserRecord, error)
	SaveRefreshToken(ctx context.Context, identity string, record RefreshTokenRecord) error
	GetRefreshToken(ctx context.Context, identity string) (RefreshTokenRecord, error)
	DeleteRefreshToken(ctx context.Context, identity string) error
}

// SessionTokens is the triple minted by Login and Refresh. The CSRF
// secret goes into both a JS-readable cookie and the response body; the
// tokens go into HttpOnly cookies (or the body for non-browser clients).
type SessionTokens struct {
	Identity     string
	AccessToken  string
	RefreshToken string
	CsrfSecret   string
}
