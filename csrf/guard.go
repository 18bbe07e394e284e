package csrf

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"time"

	"github.com/labelgrid/sessiongate/kvstore"
)

const secretBytes = 32

// Result classifies a validation outcome. The distinctions exist for
// observability only; every non-OK result maps to the same HTTP 403 so the
// response does not leak which leg of the check failed.
type Result string

const (
	// ResultOK means header, cookie, and stored secret all matched.
	ResultOK Result = "OK"
	// ResultMissingHeader means no X-XSRF-TOKEN header was presented.
	ResultMissingHeader Result = "CSRF_MISSING_HEADER"
	// ResultMissingCookie means no CSRF cookie was presented.
	ResultMissingCookie Result = "CSRF_MISSING_COOKIE"
	// ResultMismatch covers every other failure: values differ, no secret
	// is stored for the identity, or the store could not be reached.
	ResultMismatch Result = "CSRF_MISMATCH"
)

// Guard issues and validates per-identity CSRF secrets.
type Guard struct {
	store kvstore.Store
	ttl   time.Duration
}

// New creates a [Guard] storing secrets with the given ttl (default 24h).
func New(store kvstore.Store, ttl time.Duration) *Guard {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &Guard{store: store, ttl: ttl}
}

func key(identity string) string {
	return "csrf:" + identity
}

// Issue generates a fresh 256-bit secret for identity, overwriting any
// previous one (implicit rotation), and returns the encoded value for the
// cookie and response body.
func (g *Guard) Issue(ctx context.Context, identity string) (string, error) {
	if identity == "" {
		return "", errors.New("empty identity")
	}

	raw := make([]byte, secretBytes)
	if _, err := rand.Read(raw); err != nil {
		return "", err
	}
	secret := base64.RawURLEncoding.EncodeToString(raw)

	if err := g.store.SetWithTTL(ctx, key(identity), secret, g.ttl); err != nil {
		return "", err
	}
	return secret, nil
}

// Invalidate deletes the stored secret for identity. Used on logout.
func (g *Guard) Invalidate(ctx context.Context, identity string) error {
	return g.store.Delete(ctx, key(identity))
}

// Validate checks the double-submit triple for identity. It returns
// ResultOK only when header, cookie, and the stored secret are all
// non-empty and pairwise equal. A store fault or absent stored secret
// yields ResultMismatch together with the underlying error: the guard
// fails closed when it cannot read its state.
func (g *Guard) Validate(ctx context.Context, identity, header, cookie string) (Result, error) {
	if header == "" {
		return ResultMissingHeader, nil
	}
	if cookie == "" {
		return ResultMissingCookie, nil
	}

	stored, err := g.store.Get(ctx, key(identity))
	if err != nil {
		if errors.Is(err, kvstore.ErrNotFound) {
			return ResultMismatch, nil
		}
		return ResultMismatch, err
	}
	if stored == "" {
		return ResultMismatch, nil
	}

	if !equal(header, cookie) || !equal(header, stored) {
		return ResultMismatch, nil
	}
	return ResultOK, nil
}

func equal(a, b string) bool {
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}
