package sessiongate

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/labelgrid/sessiongate/csrf"
	"github.com/labelgrid/sessiongate/kvstore"
	"github.com/labelgrid/sessiongate/password"
	"github.com/labelgrid/sessiongate/rate"
	"github.com/labelgrid/sessiongate/token"
)

// Gate is the assembled session security gate: the credential service
// plus the leaf components the pipeline consults per request. Construct
// one with [New] at startup and share it; all methods are safe for
// concurrent use.
type Gate struct {
	config  Config
	codec   *token.Codec
	limiter *rate.Limiter
	guard   *csrf.Guard
	store   kvstore.Store
	creds   CredentialStore
	hasher  *password.Hasher
	audit   AuditSink
	metrics *Metrics
	logger  zerolog.Logger
	now     func() time.Time
}

// Config returns a copy of the gate's effective configuration.
func (g *Gate) Config() Config {
	return cloneConfig(g.config)
}

// MetricsSnapshot copies the gate's counters for exporters.
func (g *Gate) MetricsSnapshot() MetricsSnapshot {
	if g == nil {
		return MetricsSnapshot{Counters: map[MetricID]uint64{}}
	}
	return g.metrics.Snapshot()
}

func (g *Gate) metricInc(id MetricID) {
	if g == nil {
		return
	}
	g.metrics.Inc(id)
}

// VerifyAccess verifies tokenStr as an access token and returns the
// caller identity. Expired and invalid tokens are indistinguishable to
// callers ([token.ErrInvalid] semantics apply to both for the pipeline's
// purposes); logs tell them apart at debug vs warn level.
func (g *Gate) VerifyAccess(tokenStr string) (string, error) {
	identity, err := g.codec.Verify(tokenStr, token.Access)
	if err != nil {
		if errors.Is(err, token.ErrExpired) {
			g.metricInc(MetricTokenExpired)
			g.logger.Debug().Msg("access token expired")
		} else {
			g.metricInc(MetricTokenInvalid)
			g.logger.Warn().Msg("access token rejected")
		}
		return "", err
	}
	return identity, nil
}

// ValidateCsrf runs the double-submit check for identity. Store faults
// surface as ResultMismatch with the fault attached; the pipeline rejects
// either way (a guard that cannot read its state fails closed).
func (g *Gate) ValidateCsrf(ctx context.Context, identity, header, cookie string) csrf.Result {
	result, err := g.guard.Validate(ctx, identity, header, cookie)
	if err != nil {
		g.logger.Error().Err(err).Str("identity", identity).Msg("csrf store fault, rejecting")
	}
	if result != csrf.ResultOK {
		switch result {
		case csrf.ResultMissingHeader:
			g.metricInc(MetricCsrfMissingHeader)
		case csrf.ResultMissingCookie:
			g.metricInc(MetricCsrfMissingCookie)
		default:
			g.metricInc(MetricCsrfMismatch)
		}
		g.emitAudit(ctx, EventCsrfRejected, identity, false, err, map[string]string{
			"code": string(result),
		})
	}
	return result
}
