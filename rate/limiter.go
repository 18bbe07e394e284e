package rate

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/labelgrid/sessiongate/kvstore"
)

// Operation names a guarded flow. Each operation carries its own budget.
type Operation string

const (
	// OpLogin guards credential verification attempts.
	OpLogin Operation = "login"
	// OpVerificationCode guards verification-code issuance.
	OpVerificationCode Operation = "verification_code"
)

// Limit is the per-operation budget: at most Max events per fixed Window.
type Limit struct {
	Max    int
	Window time.Duration
}

// Limiter enforces per-identity fixed-window budgets using the shared
// TTL store's atomic increment.
type Limiter struct {
	store  kvstore.Store
	limits map[Operation]Limit
}

// DefaultLimits returns the stock operation table: 5 login attempts per
// 15 minutes, 3 verification-code requests per hour.
func DefaultLimits() map[Operation]Limit {
	return map[Operation]Limit{
		OpLogin:            {Max: 5, Window: 15 * time.Minute},
		OpVerificationCode: {Max: 3, Window: time.Hour},
	}
}

// New creates a [Limiter] over the given store. Operations absent from
// limits are unbudgeted and always allowed.
func New(store kvstore.Store, limits map[Operation]Limit) *Limiter {
	if limits == nil {
		limits = DefaultLimits()
	}
	return &Limiter{store: store, limits: limits}
}

func key(op Operation, identity string) string {
	return "rl:" + string(op) + ":" + identity
}

// Allow reports whether another event for (op, identity) fits the budget.
// A missing counter counts as zero. Store faults deny: a limiter that
// cannot read its counter must not wave requests through.
func (l *Limiter) Allow(ctx context.Context, op Operation, identity string) (bool, error) {
	limit, ok := l.limits[op]
	if !ok {
		return true, nil
	}

	raw, err := l.store.Get(ctx, key(op, identity))
	if err != nil {
		if errors.Is(err, kvstore.ErrNotFound) {
			return true, nil
		}
		return false, err
	}

	count, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return false, kvstore.ErrUnavailable
	}

	return count < int64(limit.Max), nil
}

// Record counts one event for (op, identity). The first event in a window
// creates the counter and starts its TTL; later events only increment.
func (l *Limiter) Record(ctx context.Context, op Operation, identity string) error {
	limit, ok := l.limits[op]
	if !ok {
		return nil
	}

	_, err := l.store.Incr(ctx, key(op, identity), limit.Window)
	return err
}

// Clear deletes the counter, forgiving past failures. Called after a
// successful login so earlier bad attempts stop counting against the user.
func (l *Limiter) Clear(ctx context.Context, op Operation, identity string) error {
	return l.store.Delete(ctx, key(op, identity))
}
