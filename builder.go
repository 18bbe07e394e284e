package sessiongate

import (
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/labelgrid/sessiongate/csrf"
	"github.com/labelgrid/sessiongate/kvstore"
	"github.com/labelgrid/sessiongate/password"
	"github.com/labelgrid/sessiongate/rate"
	"github.com/labelgrid/sessiongate/token"
)

// Builder assembles a [Gate]. Wire dependencies with the With* methods,
// then call Build once.
type Builder struct {
	config Config

	redisClient redis.UniversalClient
	store       kvstore.Store
	creds       CredentialStore
	hasher      *password.Hasher
	audit       AuditSink
	logger      zerolog.Logger
	now         func() time.Time

	built bool
}

// New starts a builder with [DefaultConfig].
func New() *Builder {
	return &Builder{
		config: DefaultConfig(),
		logger: zerolog.Nop(),
		now:    time.Now,
	}
}

// WithConfig replaces the configuration.
func (b *Builder) WithConfig(cfg Config) *Builder {
	b.config = cloneConfig(cfg)
	return b
}

// WithRedis sets the Redis client backing the TTL store. Ignored when an
// explicit store is provided via WithStore.
func (b *Builder) WithRedis(client redis.UniversalClient) *Builder {
	b.redisClient = client
	return b
}

// WithStore sets the TTL store directly (e.g. [kvstore.Memory] in tests).
func (b *Builder) WithStore(store kvstore.Store) *Builder {
	b.store = store
	return b
}

// WithCredentialStore sets the identity-store collaborator. Required.
func (b *Builder) WithCredentialStore(creds CredentialStore) *Builder {
	b.creds = creds
	return b
}

// WithHasher replaces the credential hasher (default argon2id with
// [password.DefaultParams]).
func (b *Builder) WithHasher(hasher *password.Hasher) *Builder {
	b.hasher = hasher
	return b
}

// WithAuditSink sets the audit destination (default: none).
func (b *Builder) WithAuditSink(sink AuditSink) *Builder {
	b.audit = sink
	return b
}

// WithLogger sets the gate logger (default zerolog.Nop).
func (b *Builder) WithLogger(logger zerolog.Logger) *Builder {
	b.logger = logger
	return b
}

// WithClock replaces the time source. Test hook.
func (b *Builder) WithClock(now func() time.Time) *Builder {
	if now != nil {
		b.now = now
	}
	return b
}

// Build validates the configuration, wires the components, and returns
// the gate. The builder is single-use.
func (b *Builder) Build() (*Gate, error) {
	if b.built {
		return nil, errors.New("builder already used")
	}
	b.built = true

	if err := validateConfig(b.config); err != nil {
		return nil, err
	}
	if b.creds == nil {
		return nil, errors.New("credential store is required")
	}

	store := b.store
	if store == nil {
		if b.redisClient == nil {
			return nil, errors.New("a kvstore or redis client is required")
		}
		store = kvstore.NewRedis(b.redisClient, "sg")
	}

	codec, err := token.NewCodec(token.Config{
		SigningKey: b.config.Token.SigningKey,
		AccessTTL:  b.config.Token.AccessTTL,
		RefreshTTL: b.config.Token.RefreshTTL,
		Issuer:     b.config.Token.Issuer,
		Now:        b.now,
	})
	if err != nil {
		return nil, err
	}

	hasher := b.hasher
	if hasher == nil {
		hasher, err = password.NewHasher(password.DefaultParams())
		if err != nil {
			return nil, err
		}
	}

	audit := b.audit
	if audit == nil {
		audit = NoOpSink{}
	}

	limits := map[rate.Operation]rate.Limit{
		rate.OpLogin:            b.config.RateLimit.Login,
		rate.OpVerificationCode: b.config.RateLimit.VerificationCode,
	}

	return &Gate{
		config:  b.config,
		codec:   codec,
		limiter: rate.New(store, limits),
		guard:   csrf.New(store, b.config.Csrf.SecretTTL),
		store:   store,
		creds:   b.creds,
		hasher:  hasher,
		audit:   audit,
		metrics: NewMetrics(b.config.Metrics),
		logger:  b.logger,
		now:     b.now,
	}, nil
}
