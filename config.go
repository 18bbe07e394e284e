package sessiongate

import (
	"errors"
	"slices"
	"strings"
	"time"

	"github.com/labelgrid/sessiongate/rate"
)

// Config is the full gate configuration tree. Instances are validated and
// cloned at Build time and treated as immutable afterwards.
type Config struct {
	Token        TokenConfig
	Csrf         CsrfConfig
	RateLimit    RateLimitConfig
	Verification VerificationConfig
	Cookies      CookieConfig
	Metrics      MetricsConfig
}

// TokenConfig controls the bearer token codec. The signing key is loaded
// once at startup and is process-wide read-only; there is no runtime
// rotation path (an accepted operational limitation).
type TokenConfig struct {
	SigningKey []byte
	AccessTTL  time.Duration
	RefreshTTL time.Duration
	Issuer     string
}

// CsrfConfig controls the double-submit guard. ExemptPaths lists the
// anonymous-entry endpoints reachable before a session exists; requests to
// them are never CSRF-checked regardless of method.
type CsrfConfig struct {
	SecretTTL   time.Duration
	ExemptPaths []string
}

// RateLimitConfig carries the per-operation fixed-window budgets.
type RateLimitConfig struct {
	Login            rate.Limit
	VerificationCode rate.Limit
}

// VerificationConfig controls one-time verification codes.
type VerificationConfig struct {
	CodeTTL    time.Duration
	CodeDigits int
}

// CookieConfig fixes the cookie contract shared with browser clients.
// Access and refresh cookies are HttpOnly; the CSRF cookie must stay
// JS-readable so same-origin scripts can echo it in X-XSRF-TOKEN. All
// three are Secure and SameSite=Strict. The refresh cookie is scoped to
// RefreshPath so it never rides along on ordinary requests.
type CookieConfig struct {
	AccessName  string
	RefreshName string
	CsrfName    string
	RefreshPath string
	Domain      string
	Secure      bool
}

// MetricsConfig toggles the in-process counter registry.
type MetricsConfig struct {
	Enabled bool
}

// DefaultConfig returns the stock configuration: 24h access / 14d refresh
// tokens, 24h CSRF secrets, 5 logins per 15m, 3 verification codes per
// hour, 6-digit codes valid 10 minutes.
func DefaultConfig() Config {
	return Config{
		Token: TokenConfig{
			AccessTTL:  24 * time.Hour,
			RefreshTTL: 14 * 24 * time.Hour,
			Issuer:     "labelgrid",
		},
		Csrf: CsrfConfig{
			SecretTTL: 24 * time.Hour,
			ExemptPaths: []string{
				"/auth/login",
				"/auth/signup",
				"/auth/verification-code",
				"/auth/refresh",
			},
		},
		RateLimit: RateLimitConfig{
			Login:            rate.Limit{Max: 5, Window: 15 * time.Minute},
			VerificationCode: rate.Limit{Max: 3, Window: time.Hour},
		},
		Verification: VerificationConfig{
			CodeTTL:    10 * time.Minute,
			CodeDigits: 6,
		},
		Cookies: CookieConfig{
			AccessName:  "lg_access_token",
			RefreshName: "lg_refresh_token",
			CsrfName:    "XSRF-TOKEN",
			RefreshPath: "/auth/refresh",
			Secure:      true,
		},
		Metrics: MetricsConfig{Enabled: true},
	}
}

func validateConfig(cfg Config) error {
	if len(cfg.Token.SigningKey) < 32 {
		return errors.New("token signing key must be at least 32 bytes")
	}
	if cfg.Token.AccessTTL <= 0 || cfg.Token.RefreshTTL <= 0 {
		return errors.New("token TTLs must be positive")
	}
	if cfg.Token.RefreshTTL < cfg.Token.AccessTTL {
		return errors.New("refresh TTL must not be shorter than access TTL")
	}
	if cfg.Csrf.SecretTTL <= 0 {
		return errors.New("csrf secret TTL must be positive")
	}
	for _, path := range cfg.Csrf.ExemptPaths {
		if !strings.HasPrefix(path, "/") {
			return errors.New("csrf exempt paths must be absolute")
		}
	}
	if cfg.RateLimit.Login.Max <= 0 || cfg.RateLimit.Login.Window <= 0 {
		return errors.New("login rate limit must be positive")
	}
	if cfg.RateLimit.VerificationCode.Max <= 0 || cfg.RateLimit.VerificationCode.Window <= 0 {
		return errors.New("verification rate limit must be positive")
	}
	if cfg.Verification.CodeDigits < 6 || cfg.Verification.CodeDigits > 10 {
		return errors.New("verification code digits must be 6-10")
	}
	if cfg.Verification.CodeTTL <= 0 {
		return errors.New("verification code TTL must be positive")
	}
	if cfg.Cookies.AccessName == "" || cfg.Cookies.RefreshName == "" || cfg.Cookies.CsrfName == "" {
		return errors.New("cookie names must be set")
	}
	if !strings.HasPrefix(cfg.Cookies.RefreshPath, "/") {
		return errors.New("refresh cookie path must be absolute")
	}
	return nil
}

func cloneConfig(cfg Config) Config {
	cfg.Token.SigningKey = slices.Clone(cfg.Token.SigningKey)
	cfg.Csrf.ExemptPaths = slices.Clone(cfg.Csrf.ExemptPaths)
	return cfg
}
