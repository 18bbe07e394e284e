package sessiongate

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func validTestConfig() Config {
	cfg := DefaultConfig()
	cfg.Token.SigningKey = []byte("0123456789abcdef0123456789abcdef")
	return cfg
}

func TestValidateConfig(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		ok     bool
	}{
		{"defaults with key", func(*Config) {}, true},
		{"short signing key", func(c *Config) { c.Token.SigningKey = []byte("short") }, false},
		{"zero access ttl", func(c *Config) { c.Token.AccessTTL = 0 }, false},
		{"refresh shorter than access", func(c *Config) { c.Token.RefreshTTL = time.Hour }, false},
		{"zero csrf ttl", func(c *Config) { c.Csrf.SecretTTL = 0 }, false},
		{"relative exempt path", func(c *Config) { c.Csrf.ExemptPaths = []string{"auth/login"} }, false},
		{"zero login budget", func(c *Config) { c.RateLimit.Login.Max = 0 }, false},
		{"zero verification window", func(c *Config) { c.RateLimit.VerificationCode.Window = 0 }, false},
		{"code too short", func(c *Config) { c.Verification.CodeDigits = 4 }, false},
		{"code too long", func(c *Config) { c.Verification.CodeDigits = 12 }, false},
		{"missing cookie name", func(c *Config) { c.Cookies.AccessName = "" }, false},
		{"relative refresh path", func(c *Config) { c.Cookies.RefreshPath = "auth/refresh" }, false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := validTestConfig()
			tc.mutate(&cfg)

			err := validateConfig(cfg)
			if tc.ok {
				require.NoError(t, err)
			} else {
				require.Error(t, err)
			}
		})
	}
}

func TestCloneConfigIsIndependent(t *testing.T) {
	cfg := validTestConfig()
	clone := cloneConfig(cfg)

	clone.Token.SigningKey[0] = 'x'
	clone.Csrf.ExemptPaths[0] = "/other"

	require.Equal(t, byte('0'), cfg.Token.SigningKey[0])
	require.Equal(t, "/auth/login", cfg.Csrf.ExemptPaths[0])
}

func TestGateConfigReturnsCopy(t *testing.T) {
	fx := newGateFixture(t)

	cfg := fx.gate.Config()
	cfg.Csrf.ExemptPaths[0] = "/other"

	require.Equal(t, "/auth/login", fx.gate.Config().Csrf.ExemptPaths[0])
}
