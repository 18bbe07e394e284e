package sessiongate

import "errors"

var (
	// ErrInvalidCredentials is returned by Login for any credential
	// failure: unknown identity, wrong password, empty password. One error
	// for all causes so responses do not reveal account existence.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrLoginRateLimited is returned by Login when the fixed-window
	// budget for the identity is exhausted.
	ErrLoginRateLimited = errors.New("login rate limited")
	// ErrInvalidRefreshToken is returned by Refresh for any failure:
	// bad signature, expiry, type confusion, or a token rotated out by a
	// newer login/refresh. Clients must clear local session state and
	// re-authenticate.
	ErrInvalidRefreshToken = errors.New("invalid refresh token")
	// ErrVerificationRateLimited is returned by RequestVerificationCode
	// when the issuance budget for the identity is exhausted.
	ErrVerificationRateLimited = errors.New("verification code rate limited")
	// ErrVerificationInvalid is returned by ConfirmVerificationCode when
	// the code is wrong, expired, or already consumed.
	ErrVerificationInvalid = errors.New("verification code invalid")
	// ErrGateNotReady is returned when the gate is used before Build
	// wired its dependencies.
	ErrGateNotReady = errors.New("gate not initialized")
	// ErrUserNotFound is the sentinel credential stores return from
	// GetUser for unknown identities. Login converts it to
	// ErrInvalidCredentials before it reaches a client.
	ErrUserNotFound = errors.New("user not found")
)

// ErrorCode is the machine-readable code carried in JSON error bodies.
type ErrorCode string

const (
	// CodeInvalidCredentials maps to HTTP 401.
	CodeInvalidCredentials ErrorCode = "INVALID_CREDENTIALS"
	// CodeInvalidRefreshToken maps to HTTP 401.
	CodeInvalidRefreshToken ErrorCode = "INVALID_REFRESH_TOKEN"
	// CodeRateLimited maps to HTTP 429.
	CodeRateLimited ErrorCode = "RATE_LIMITED"
	// CodeVerificationInvalid maps to HTTP 401.
	CodeVerificationInvalid ErrorCode = "VERIFICATION_INVALID"
	// CodeInternal maps to HTTP 500.
	CodeInternal ErrorCode = "INTERNAL"
)

// CodeForError maps a gate error to its wire code and HTTP status.
// CSRF rejections never reach this path; the pipeline writes their codes
// (always status 403) directly from the guard result.
func CodeForError(err error) (ErrorCode, int) {
	switch {
	case errors.Is(err, ErrInvalidCredentials):
		return CodeInvalidCredentials, 401
	case errors.Is(err, ErrInvalidRefreshToken):
		return CodeInvalidRefreshToken, 401
	case errors.Is(err, ErrVerificationInvalid):
		return CodeVerificationInvalid, 401
	case errors.Is(err, ErrLoginRateLimited), errors.Is(err, ErrVerificationRateLimited):
		return CodeRateLimited, 429
	default:
		return CodeInternal, 500
	}
}
