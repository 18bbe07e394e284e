package middleware

import (
	"net/http"
	"strings"

	"github.com/labelgrid/sessiongate"
	"github.com/labelgrid/sessiongate/csrf"
)

// CsrfHeader is the request header same-origin scripts echo the CSRF
// cookie into.
const CsrfHeader = "X-XSRF-TOKEN"

// safeMethods never mutate state and therefore skip the CSRF check.
var safeMethods = map[string]bool{
	http.MethodGet:     true,
	http.MethodHead:    true,
	http.MethodOptions: true,
	http.MethodTrace:   true,
}

// SessionPipeline returns the per-request middleware. For every request it
// attempts to establish an identity from the access token (cookie first,
// Authorization: Bearer as fallback) and, for unsafe methods on
// non-exempt paths, enforces the double-submit CSRF check before the
// request reaches the handler.
//
// Token failures are not rejections: an expired or invalid access token
// clears the access cookie on the response and the request proceeds
// anonymously. CSRF failures are rejections: the pipeline writes a 403
// with the guard's result code and stops.
func SessionPipeline(gate *sessiongate.Gate) func(http.Handler) http.Handler {
	cfg := gate.Config()
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			tokenStr, fromCookie := extractAccessToken(r, cfg.Cookies.AccessName)
			identity := ""
			if tokenStr != "" {
				id, err := gate.VerifyAccess(tokenStr)
				if err != nil {
					// Stale session state in the browser; drop the
					// cookie so the client stops replaying it.
					if fromCookie {
						clearCookie(w, cfg.Cookies, cfg.Cookies.AccessName, "/")
					}
				} else {
					identity = id
					ctx = sessiongate.WithIdentity(ctx, identity)
				}
			}

			if identity != "" && !safeMethods[r.Method] && !isExempt(r.URL.Path, cfg.Csrf.ExemptPaths) {
				header := r.Header.Get(CsrfHeader)
				cookieVal := ""
				if c, err := r.Cookie(cfg.Cookies.CsrfName); err == nil {
					cookieVal = c.Value
				}
				if result := gate.ValidateCsrf(ctx, identity, header, cookieVal); result != csrf.ResultOK {
					WriteError(w, http.StatusForbidden, "csrf validation failed", string(result))
					return
				}
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// extractAccessToken reads the access token from the session cookie,
// falling back to a Bearer authorization header for non-browser clients.
// The second return reports whether the token came from the cookie.
func extractAccessToken(r *http.Request, cookieName string) (string, bool) {
	if c, err := r.Cookie(cookieName); err == nil && c.Value != "" {
		return c.Value, true
	}
	auth := r.Header.Get("Authorization")
	if token, ok := strings.CutPrefix(auth, "Bearer "); ok && token != "" {
		return token, false
	}
	return "", false
}

func isExempt(path string, exempt []string) bool {
	for _, p := range exempt {
		if path == p {
			return true
		}
	}
	return false
}
