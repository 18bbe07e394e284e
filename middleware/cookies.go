package middleware

import (
	"net/http"
	"time"

	"github.com/labelgrid/sessiongate"
)

// SetSessionCookies writes the three session cookies for a freshly issued
// session. The access and refresh cookies are HttpOnly; the CSRF cookie is
// deliberately not, so same-origin scripts can read it and echo it in the
// CsrfHeader. The refresh cookie is scoped to the refresh path so it is
// only ever transmitted there.
func SetSessionCookies(w http.ResponseWriter, cfg sessiongate.Config, tokens *sessiongate.SessionTokens) {
	http.SetCookie(w, sessionCookie(cfg.Cookies, cfg.Cookies.AccessName, tokens.AccessToken, "/", cfg.Token.AccessTTL, true))
	http.SetCookie(w, sessionCookie(cfg.Cookies, cfg.Cookies.RefreshName, tokens.RefreshToken, cfg.Cookies.RefreshPath, cfg.Token.RefreshTTL, true))
	http.SetCookie(w, sessionCookie(cfg.Cookies, cfg.Cookies.CsrfName, tokens.CsrfSecret, "/", cfg.Csrf.SecretTTL, false))
}

// ClearSessionCookies expires all three session cookies, mirroring the
// paths they were set on. Used on logout and by handlers that detect a
// dead session.
func ClearSessionCookies(w http.ResponseWriter, cfg sessiongate.Config) {
	clearCookie(w, cfg.Cookies, cfg.Cookies.AccessName, "/")
	clearCookie(w, cfg.Cookies, cfg.Cookies.RefreshName, cfg.Cookies.RefreshPath)
	clearCookie(w, cfg.Cookies, cfg.Cookies.CsrfName, "/")
}

func sessionCookie(cfg sessiongate.CookieConfig, name, value, path string, ttl time.Duration, httpOnly bool) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     path,
		Domain:   cfg.Domain,
		MaxAge:   int(ttl / time.Second),
		Secure:   cfg.Secure,
		HttpOnly: httpOnly,
		SameSite: http.SameSiteStrictMode,
	}
}

func clearCookie(w http.ResponseWriter, cfg sessiongate.CookieConfig, name, path string) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    "",
		Path:     path,
		Domain:   cfg.Domain,
		MaxAge:   -1,
		Secure:   cfg.Secure,
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
	})
}
