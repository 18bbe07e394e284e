package sessiongate

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/labelgrid/sessiongate/csrf"
	"github.com/labelgrid/sessiongate/kvstore"
	"github.com/labelgrid/sessiongate/password"
)

// testClock is a mutable time source shared by the gate and its store.
type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func newTestClock() *testClock {
	return &testClock{now: time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)}
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

type memCredentials struct {
	mu          sync.Mutex
	users       map[string]UserRecord
	refreshs    map[string]RefreshTokenRecord
	failDeletes bool
}

func newMemCredentials() *memCredentials {
	return &memCredentials{
		users:    make(map[string]UserRecord),
		refreshs: make(map[string]RefreshTokenRecord),
	}
}

func (m *memCredentials) GetUser(_ context.Context, identity string) (UserRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[identity]
	if !ok {
		return UserRecord{}, ErrUserNotFound
	}
	return u, nil
}

func (m *memCredentials) SaveRefreshToken(_ context.Context, identity string, record RefreshTokenRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.refreshs[identity] = record
	return nil
}

func (m *memCredentials) GetRefreshToken(_ context.Context, identity string) (RefreshTokenRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	rec, ok := m.refreshs[identity]
	if !ok {
		return RefreshTokenRecord{}, ErrUserNotFound
	}
	return rec, nil
}

func (m *memCredentials) DeleteRefreshToken(_ context.Context, identity string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failDeletes {
		return errors.New("store down")
	}
	delete(m.refreshs, identity)
	return nil
}

func (m *memCredentials) setRecord(identity string, record RefreshTokenRecord) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.refreshs[identity] = record
}

// recordingSink captures audit events for assertions.
type recordingSink struct {
	mu     sync.Mutex
	events []AuditEvent
}

func (s *recordingSink) Emit(_ context.Context, event AuditEvent) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, event)
}

func (s *recordingSink) types() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.events))
	for i, e := range s.events {
		out[i] = e.EventType
	}
	return out
}

type gateFixture struct {
	gate  *Gate
	creds *memCredentials
	clock *testClock
	sink  *recordingSink
}

func newGateFixture(t *testing.T) *gateFixture {
	t.Helper()

	clock := newTestClock()
	store := kvstore.NewMemory()
	store.SetClock(clock.Now)

	hasher, err := password.NewHasher(password.Params{
		MemoryKB:    8 * 1024,
		Time:        1,
		Parallelism: 1,
		SaltLength:  16,
		KeyLength:   32,
	})
	require.NoError(t, err)

	hash, err := hasher.Hash("correct-horse")
	require.NoError(t, err)

	creds := newMemCredentials()
	creds.users["alice@example.com"] = UserRecord{
		Identity:     "alice@example.com",
		PasswordHash: hash,
	}

	cfg := DefaultConfig()
	cfg.Token.SigningKey = []byte("0123456789abcdef0123456789abcdef")

	sink := &recordingSink{}

	gate, err := New().
		WithConfig(cfg).
		WithStore(store).
		WithCredentialStore(creds).
		WithHasher(hasher).
		WithAuditSink(sink).
		WithClock(clock.Now).
		Build()
	require.NoError(t, err)

	return &gateFixture{gate: gate, creds: creds, clock: clock, sink: sink}
}

func TestLoginIssuesSessionTriple(t *testing.T) {
	ctx := context.Background()
	fx := newGateFixture(t)

	tokens, err := fx.gate.Login(ctx, "alice@example.com", "correct-horse")
	require.NoError(t, err)
	require.Equal(t, "alice@example.com", tokens.Identity)
	require.NotEmpty(t, tokens.AccessToken)
	require.NotEmpty(t, tokens.RefreshToken)
	require.NotEmpty(t, tokens.CsrfSecret)
	require.NotEqual(t, tokens.AccessToken, tokens.RefreshToken)

	identity, err := fx.gate.VerifyAccess(tokens.AccessToken)
	require.NoError(t, err)
	require.Equal(t, "alice@example.com", identity)

	require.Equal(t, []string{EventLoginSuccess}, fx.sink.types())
	require.Equal(t, uint64(1), fx.gate.MetricsSnapshot().Counters[MetricLoginSuccess])
}

func TestLoginFailuresCollapseToOneError(t *testing.T) {
	ctx := context.Background()
	fx := newGateFixture(t)

	tests := []struct {
		name     string
		identity string
		secret   string
	}{
		{"wrong password", "alice@example.com", "wrong-horse"},
		{"unknown user", "nobody@example.com", "correct-horse"},
		{"empty password", "alice@example.com", ""},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := fx.gate.Login(ctx, tc.identity, tc.secret)
			require.ErrorIs(t, err, ErrInvalidCredentials)
		})
	}
}

func TestLoginRateLimitLocksOutCorrectCredentials(t *testing.T) {
	ctx := context.Background()
	fx := newGateFixture(t)

	for i := 0; i < 5; i++ {
		_, err := fx.gate.Login(ctx, "alice@example.com", "wrong-horse")
		require.ErrorIs(t, err, ErrInvalidCredentials)
	}

	// Budget spent; even the right password is refused now.
	_, err := fx.gate.Login(ctx, "alice@example.com", "correct-horse")
	require.ErrorIs(t, err, ErrLoginRateLimited)
	require.Equal(t, uint64(1), fx.gate.MetricsSnapshot().Counters[MetricLoginRateLimited])

	fx.clock.Advance(15*time.Minute + time.Second)

	_, err = fx.gate.Login(ctx, "alice@example.com", "correct-horse")
	require.NoError(t, err)
}

func TestSuccessfulLoginClearsWindow(t *testing.T) {
	ctx := context.Background()
	fx := newGateFixture(t)

	for i := 0; i < 4; i++ {
		_, err := fx.gate.Login(ctx, "alice@example.com", "wrong-horse")
		require.ErrorIs(t, err, ErrInvalidCredentials)
	}

	_, err := fx.gate.Login(ctx, "alice@example.com", "correct-horse")
	require.NoError(t, err)

	// The window forgets old failures, so a full budget is available again.
	for i := 0; i < 5; i++ {
		_, err := fx.gate.Login(ctx, "alice@example.com", "wrong-horse")
		require.ErrorIs(t, err, ErrInvalidCredentials)
	}
	_, err = fx.gate.Login(ctx, "alice@example.com", "correct-horse")
	require.ErrorIs(t, err, ErrLoginRateLimited)
}

func TestRefreshRotatesSession(t *testing.T) {
	ctx := context.Background()
	fx := newGateFixture(t)

	first, err := fx.gate.Login(ctx, "alice@example.com", "correct-horse")
	require.NoError(t, err)

	second, err := fx.gate.Refresh(ctx, first.RefreshToken)
	require.NoError(t, err)
	require.NotEqual(t, first.CsrfSecret, second.CsrfSecret)

	// The rotated-out refresh token is still within its signed lifetime
	// but no longer matches the record.
	_, err = fx.gate.Refresh(ctx, first.RefreshToken)
	require.ErrorIs(t, err, ErrInvalidRefreshToken)

	// Rotation also replaced the CSRF secret.
	result := fx.gate.ValidateCsrf(ctx, "alice@example.com", first.CsrfSecret, first.CsrfSecret)
	require.Equal(t, csrf.ResultMismatch, result)
	result = fx.gate.ValidateCsrf(ctx, "alice@example.com", second.CsrfSecret, second.CsrfSecret)
	require.Equal(t, csrf.ResultOK, result)
}

func TestRefreshRejectsAccessToken(t *testing.T) {
	ctx := context.Background()
	fx := newGateFixture(t)

	tokens, err := fx.gate.Login(ctx, "alice@example.com", "correct-horse")
	require.NoError(t, err)

	_, err = fx.gate.Refresh(ctx, tokens.AccessToken)
	require.ErrorIs(t, err, ErrInvalidRefreshToken)
}

func TestRefreshRejectsGarbageAndMissingRecord(t *testing.T) {
	ctx := context.Background()
	fx := newGateFixture(t)

	_, err := fx.gate.Refresh(ctx, "not-a-token")
	require.ErrorIs(t, err, ErrInvalidRefreshToken)

	tokens, err := fx.gate.Login(ctx, "alice@example.com", "correct-horse")
	require.NoError(t, err)
	require.NoError(t, fx.creds.DeleteRefreshToken(ctx, "alice@example.com"))

	_, err = fx.gate.Refresh(ctx, tokens.RefreshToken)
	require.ErrorIs(t, err, ErrInvalidRefreshToken)
}

func TestRefreshRejectsExpiredRecord(t *testing.T) {
	ctx := context.Background()
	fx := newGateFixture(t)

	tokens, err := fx.gate.Login(ctx, "alice@example.com", "correct-horse")
	require.NoError(t, err)

	// Token signature is still fine; only the stored record has lapsed.
	fx.creds.setRecord("alice@example.com", RefreshTokenRecord{
		Token:     tokens.RefreshToken,
		ExpiresAt: fx.clock.Now().Add(-time.Minute),
	})

	_, err = fx.gate.Refresh(ctx, tokens.RefreshToken)
	require.ErrorIs(t, err, ErrInvalidRefreshToken)
}

func TestLogoutTearsDownSession(t *testing.T) {
	ctx := context.Background()
	fx := newGateFixture(t)

	tokens, err := fx.gate.Login(ctx, "alice@example.com", "correct-horse")
	require.NoError(t, err)

	require.NoError(t, fx.gate.Logout(ctx, "alice@example.com"))

	result := fx.gate.ValidateCsrf(ctx, "alice@example.com", tokens.CsrfSecret, tokens.CsrfSecret)
	require.Equal(t, csrf.ResultMismatch, result)

	_, err = fx.gate.Refresh(ctx, tokens.RefreshToken)
	require.ErrorIs(t, err, ErrInvalidRefreshToken)
}

func TestLogoutIsBestEffort(t *testing.T) {
	ctx := context.Background()
	fx := newGateFixture(t)

	_, err := fx.gate.Login(ctx, "alice@example.com", "correct-horse")
	require.NoError(t, err)

	fx.creds.failDeletes = true
	require.NoError(t, fx.gate.Logout(ctx, "alice@example.com"))
}

func TestValidateCsrfCountsRejections(t *testing.T) {
	ctx := context.Background()
	fx := newGateFixture(t)

	tokens, err := fx.gate.Login(ctx, "alice@example.com", "correct-horse")
	require.NoError(t, err)

	require.Equal(t, csrf.ResultMissingHeader,
		fx.gate.ValidateCsrf(ctx, "alice@example.com", "", tokens.CsrfSecret))
	require.Equal(t, csrf.ResultMissingCookie,
		fx.gate.ValidateCsrf(ctx, "alice@example.com", tokens.CsrfSecret, ""))
	require.Equal(t, csrf.ResultMismatch,
		fx.gate.ValidateCsrf(ctx, "alice@example.com", "a", "a"))

	counters := fx.gate.MetricsSnapshot().Counters
	require.Equal(t, uint64(1), counters[MetricCsrfMissingHeader])
	require.Equal(t, uint64(1), counters[MetricCsrfMissingCookie])
	require.Equal(t, uint64(1), counters[MetricCsrfMismatch])
}

func TestVerifyAccessDistinguishesExpiryInMetrics(t *testing.T) {
	ctx := context.Background()
	fx := newGateFixture(t)

	tokens, err := fx.gate.Login(ctx, "alice@example.com", "correct-horse")
	require.NoError(t, err)

	fx.clock.Advance(24*time.Hour + time.Minute)

	_, err = fx.gate.VerifyAccess(tokens.AccessToken)
	require.Error(t, err)

	_, err = fx.gate.VerifyAccess("not-a-token")
	require.Error(t, err)

	counters := fx.gate.MetricsSnapshot().Counters
	require.Equal(t, uint64(1), counters[MetricTokenExpired])
	require.Equal(t, uint64(1), counters[MetricTokenInvalid])
}

func TestBuilderIsSingleUse(t *testing.T) {
	builder := New().
		WithStore(kvstore.NewMemory()).
		WithCredentialStore(newMemCredentials())

	cfg := DefaultConfig()
	cfg.Token.SigningKey = []byte("0123456789abcdef0123456789abcdef")
	builder.WithConfig(cfg)

	_, err := builder.Build()
	require.NoError(t, err)

	_, err = builder.Build()
	require.Error(t, err)
}

func TestBuilderRequiresDependencies(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Token.SigningKey = []byte("0123456789abcdef0123456789abcdef")

	_, err := New().WithConfig(cfg).WithStore(kvstore.NewMemory()).Build()
	require.Error(t, err, "missing credential store")

	_, err = New().WithConfig(cfg).WithCredentialStore(newMemCredentials()).Build()
	require.Error(t, err, "missing store")

	_, err = New().WithStore(kvstore.NewMemory()).WithCredentialStore(newMemCredentials()).Build()
	require.Error(t, err, "missing signing key")
}
