package token

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Kind discriminates the intent a token was issued for.
type Kind string

const (
	// Access marks short-lived tokens presented on every request.
	Access Kind = "access"
	// Refresh marks long-lived tokens presented only to the refresh endpoint.
	Refresh Kind = "refresh"
)

var (
	// ErrExpired is returned when a structurally valid token is past its
	// expiry. Callers collapse it with ErrInvalid externally; it exists so
	// logs can tell the two apart.
	ErrExpired = errors.New("token expired")
	// ErrInvalid covers bad signature, malformed input, and type confusion.
	// Deliberately one error: the caller-facing result must not act as an
	// oracle for which check failed.
	ErrInvalid = errors.New("invalid token")
)

// Config holds codec tuning parameters.
type Config struct {
	SigningKey []byte
	AccessTTL  time.Duration
	RefreshTTL time.Duration
	Issuer     string
	Now        func() time.Time
}

// Codec signs and verifies the gate's bearer tokens. It performs no I/O;
// validity is purely a function of signature, expiry, and the type claim.
// Safe for concurrent use.
type Codec struct {
	config Config
}

type sessionClaims struct {
	Type string `json:"typ"`
	jwt.RegisteredClaims
}

// NewCodec validates cfg and creates a [Codec]. The signing key must be at
// least 32 bytes; TTLs default to 24h (access) and 14 days (refresh).
func NewCodec(cfg Config) (*Codec, error) {
	if len(cfg.SigningKey) < 32 {
		return nil, errors.New("signing key must be at least 32 bytes")
	}
	if cfg.AccessTTL <= 0 {
		cfg.AccessTTL = 24 * time.Hour
	}
	if cfg.RefreshTTL <= 0 {
		cfg.RefreshTTL = 14 * 24 * time.Hour
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}

	return &Codec{config: cfg}, nil
}

// TTL returns the configured lifetime for the given token kind.
func (c *Codec) TTL(kind Kind) time.Duration {
	if kind == Refresh {
		return c.config.RefreshTTL
	}
	return c.config.AccessTTL
}

// Issue encodes and signs a token naming identity as its subject.
func (c *Codec) Issue(identity string, kind Kind) (string, error) {
	if identity == "" {
		return "", errors.New("empty identity")
	}
	if kind != Access && kind != Refresh {
		return "", errors.New("unknown token kind")
	}

	now := c.config.Now()
	claims := sessionClaims{
		Type: string(kind),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   identity,
			Issuer:    c.config.Issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(c.TTL(kind))),
		},
	}

	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.config.SigningKey)
}

// Verify decodes tokenStr, checks signature and expiry, and requires the
// type claim to equal want. It returns the subject identity, ErrExpired,
// or ErrInvalid.
func (c *Codec) Verify(tokenStr string, want Kind) (string, error) {
	options := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(c.config.Now),
	}
	if c.config.Issuer != "" {
		options = append(options, jwt.WithIssuer(c.config.Issuer))
	}

	parser := jwt.NewParser(options...)
	parsed, err := parser.ParseWithClaims(tokenStr, &sessionClaims{}, func(t *jwt.Token) (interface{}, error) {
		return c.config.SigningKey, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", ErrExpired
		}
		return "", ErrInvalid
	}

	claims, ok := parsed.Claims.(*sessionClaims)
	if !ok || !parsed.Valid {
		return "", ErrInvalid
	}

	// Type confusion must fail even with a valid signature.
	if claims.Type != string(want) {
		return "", ErrInvalid
	}
	if claims.Subject == "" {
		return "", ErrInvalid
	}

	return claims.Subject, nil
}
