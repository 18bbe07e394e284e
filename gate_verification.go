package sessiongate

import (
	"context"
	"crypto/subtle"
	"errors"

	"github.com/labelgrid/sessiongate/internal"
	"github.com/labelgrid/sessiongate/kvstore"
	"github.com/labelgrid/sessiongate/rate"
)

func verificationKey(identity string) string {
	return "vc:" + identity
}

// RequestVerificationCode issues a numeric one-time code for identity and
// stores it in the TTL store. Issuance is rate-gated (default 3 per hour
// per identity) since each code typically triggers an email send.
// Delivery is the host's job; the gate only mints and checks codes.
func (g *Gate) RequestVerificationCode(ctx context.Context, identity string) (string, error) {
	if g == nil || g.store == nil {
		return "", ErrGateNotReady
	}

	allowed, err := g.limiter.Allow(ctx, rate.OpVerificationCode, identity)
	if err != nil {
		g.logger.Error().Err(err).Msg("verification limiter unavailable, denying")
	}
	if !allowed {
		g.metricInc(MetricVerificationRateLimited)
		g.emitAudit(ctx, EventVerificationLimited, identity, false, ErrVerificationRateLimited, nil)
		return "", ErrVerificationRateLimited
	}
	if err := g.limiter.Record(ctx, rate.OpVerificationCode, identity); err != nil {
		g.logger.Error().Err(err).Msg("verification limiter record failed")
	}

	code, err := internal.NewOTP(g.config.Verification.CodeDigits)
	if err != nil {
		return "", err
	}
	if err := g.store.SetWithTTL(ctx, verificationKey(identity), code, g.config.Verification.CodeTTL); err != nil {
		return "", err
	}

	g.metricInc(MetricVerificationIssued)
	g.emitAudit(ctx, EventVerificationIssued, identity, true, nil, nil)
	return code, nil
}

// ConfirmVerificationCode checks code against the stored value for
// identity and consumes it on success (one-shot). Wrong, expired, and
// already-consumed codes are indistinguishable to the caller.
func (g *Gate) ConfirmVerificationCode(ctx context.Context, identity, code string) error {
	if g == nil || g.store == nil {
		return ErrGateNotReady
	}
	if code == "" {
		return g.failVerification(ctx, identity, nil)
	}

	stored, err := g.store.Get(ctx, verificationKey(identity))
	if err != nil {
		if errors.Is(err, kvstore.ErrNotFound) {
			return g.failVerification(ctx, identity, nil)
		}
		return g.failVerification(ctx, identity, err)
	}
	if subtle.ConstantTimeCompare([]byte(stored), []byte(code)) != 1 {
		return g.failVerification(ctx, identity, nil)
	}

	if err := g.store.Delete(ctx, verificationKey(identity)); err != nil {
		// Failing to consume leaves the code replayable for its TTL;
		// reject rather than accept an unconsumed code.
		return g.failVerification(ctx, identity, err)
	}

	g.metricInc(MetricVerificationConfirmed)
	return nil
}

func (g *Gate) failVerification(ctx context.Context, identity string, cause error) error {
	g.metricInc(MetricVerificationFailed)
	g.emitAudit(ctx, EventVerificationFailed, identity, false, cause, nil)
	return ErrVerificationInvalid
}
