package internaldefs

import (
	"github.com/labelgrid/sessiongate"
)

// CounterDef binds a gate counter to its exported name and help text.
type CounterDef struct {
	ID   sessiongate.MetricID
	Name string
	Help string
}

// CounterDefs lists every exported counter in publication order.
var CounterDefs = []CounterDef{
	{ID: sessiongate.MetricLoginSuccess, Name: "sessiongate_login_success_total", Help: "Successful login attempts."},
	{ID: sessiongate.MetricLoginFailure, Name: "sessiongate_login_failure_total", Help: "Failed login attempts."},
	{ID: sessiongate.MetricLoginRateLimited, Name: "sessiongate_login_rate_limited_total", Help: "Rate-limited login attempts."},
	{ID: sessiongate.MetricRefreshSuccess, Name: "sessiongate_refresh_success_total", Help: "Successful token rotations."},
	{ID: sessiongate.MetricRefreshFailure, Name: "sessiongate_refresh_failure_total", Help: "Rejected refresh attempts."},
	{ID: sessiongate.MetricLogout, Name: "sessiongate_logout_total", Help: "Logout operations."},
	{ID: sessiongate.MetricTokenExpired, Name: "sessiongate_token_expired_total", Help: "Access tokens rejected for expiry."},
	{ID: sessiongate.MetricTokenInvalid, Name: "sessiongate_token_invalid_total", Help: "Access tokens rejected as malformed or type-confused."},
	{ID: sessiongate.MetricCsrfMissingHeader, Name: "sessiongate_csrf_missing_header_total", Help: "Requests rejected for a missing CSRF header."},
	{ID: sessiongate.MetricCsrfMissingCookie, Name: "sessiongate_csrf_missing_cookie_total", Help: "Requests rejected for a missing CSRF cookie."},
	{ID: sessiongate.MetricCsrfMismatch, Name: "sessiongate_csrf_mismatch_total", Help: "Requests rejected for a CSRF token mismatch."},
	{ID: sessiongate.MetricVerificationIssued, Name: "sessiongate_verification_issued_total", Help: "Issued verification codes."},
	{ID: sessiongate.MetricVerificationRateLimited, Name: "sessiongate_verification_rate_limited_total", Help: "Rate-limited verification code requests."},
	{ID: sessiongate.MetricVerificationConfirmed, Name: "sessiongate_verification_confirmed_total", Help: "Successful verification code confirmations."},
	{ID: sessiongate.MetricVerificationFailed, Name: "sessiongate_verification_failed_total", Help: "Failed verification code confirmations."},
}
