package sessiongate

import "sync/atomic"

// MetricID indexes a gate counter.
type MetricID uint16

const (
	// MetricLoginSuccess counts successful logins.
	MetricLoginSuccess MetricID = iota
	// MetricLoginFailure counts credential failures.
	MetricLoginFailure
	// MetricLoginRateLimited counts logins denied by the limiter.
	MetricLoginRateLimited
	// MetricRefreshSuccess counts successful token rotations.
	MetricRefreshSuccess
	// MetricRefreshFailure counts rejected refresh attempts.
	MetricRefreshFailure
	// MetricLogout counts logout operations.
	MetricLogout
	// MetricTokenExpired counts access tokens rejected for expiry.
	MetricTokenExpired
	// MetricTokenInvalid counts access tokens rejected as malformed,
	// badly signed, or type-confused.
	MetricTokenInvalid
	// MetricCsrfMissingHeader counts requests without X-XSRF-TOKEN.
	MetricCsrfMissingHeader
	// MetricCsrfMissingCookie counts requests without the CSRF cookie.
	MetricCsrfMissingCookie
	// MetricCsrfMismatch counts every other CSRF rejection.
	MetricCsrfMismatch
	// MetricVerificationIssued counts issued verification codes.
	MetricVerificationIssued
	// MetricVerificationRateLimited counts issuance denied by the limiter.
	MetricVerificationRateLimited
	// MetricVerificationConfirmed counts successful code confirmations.
	MetricVerificationConfirmed
	// MetricVerificationFailed counts wrong/expired code confirmations.
	MetricVerificationFailed
	metricIDCount
)

var metricNames = [metricIDCount]string{
	MetricLoginSuccess:            "login_success",
	MetricLoginFailure:            "login_failure",
	MetricLoginRateLimited:        "login_rate_limited",
	MetricRefreshSuccess:          "refresh_success",
	MetricRefreshFailure:          "refresh_failure",
	MetricLogout:                  "logout",
	MetricTokenExpired:            "token_expired",
	MetricTokenInvalid:            "token_invalid",
	MetricCsrfMissingHeader:       "csrf_missing_header",
	MetricCsrfMissingCookie:       "csrf_missing_cookie",
	MetricCsrfMismatch:            "csrf_mismatch",
	MetricVerificationIssued:      "verification_issued",
	MetricVerificationRateLimited: "verification_rate_limited",
	MetricVerificationConfirmed:   "verification_confirmed",
	MetricVerificationFailed:      "verification_failed",
}

// String returns the stable snake_case name exporters publish under.
func (id MetricID) String() string {
	if id >= metricIDCount {
		return "unknown"
	}
	return metricNames[id]
}

const cacheLineSize = 64

type paddedCounter struct {
	value uint64
	_     [cacheLineSize - 8]byte
}

// Metrics is a fixed-size lock-free counter registry. A disabled registry
// turns every operation into a no-op.
type Metrics struct {
	enabled  bool
	counters [metricIDCount]paddedCounter
}

// MetricsSnapshot is a point-in-time copy of all counters.
type MetricsSnapshot struct {
	Counters map[MetricID]uint64
}

// NewMetrics creates a registry honoring cfg.Enabled.
func NewMetrics(cfg MetricsConfig) *Metrics {
	return &Metrics{enabled: cfg.Enabled}
}

// Enabled reports whether the registry records anything.
func (m *Metrics) Enabled() bool {
	return m != nil && m.enabled
}

// Inc adds one to the counter.
func (m *Metrics) Inc(id MetricID) {
	if m == nil || !m.enabled || id >= metricIDCount {
		return
	}
	atomic.AddUint64(&m.counters[id].value, 1)
}

// Value reads a single counter.
func (m *Metrics) Value(id MetricID) uint64 {
	if m == nil || id >= metricIDCount {
		return 0
	}
	return atomic.LoadUint64(&m.counters[id].value)
}

// Snapshot copies all counters. An empty snapshot is returned when the
// registry is nil or disabled.
func (m *Metrics) Snapshot() MetricsSnapshot {
	if m == nil || !m.enabled {
		return MetricsSnapshot{Counters: map[MetricID]uint64{}}
	}

	s := MetricsSnapshot{Counters: make(map[MetricID]uint64, int(metricIDCount))}
	for id := MetricID(0); id < metricIDCount; id++ {
		s.Counters[id] = atomic.LoadUint64(&m.counters[id].value)
	}
	return s
}
