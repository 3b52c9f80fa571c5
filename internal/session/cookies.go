package session

import (
	"encoding/json"
	"net/http"
	"net/url"
	"time"

	"github.com/stayhaven/edge/pkg/config"
)

// CookieWriter manages the server-visible replica of the session: HTTP-only,
// Secure, SameSite=Lax cookies under Path=/. Clearing a cookie sets its
// expiry to the epoch, matching how the backend invalidates them.
type CookieWriter struct {
	cfg config.SessionConfig
}

func NewCookieWriter(cfg config.SessionConfig) *CookieWriter {
	return &CookieWriter{cfg: cfg}
}

func (cw *CookieWriter) newCookie(name, value string) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		MaxAge:   int(cw.cfg.CookieTTL.Seconds()),
		HttpOnly: true,
		Secure:   cw.cfg.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	}
}

func (cw *CookieWriter) expiredCookie(name string) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   cw.cfg.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	}
}

// Sync writes the cookie replica from the client-local one. This is the
// explicit reconciliation step: nothing keeps the two replicas aligned
// automatically, callers must invoke it after every token refresh.
func (cw *CookieWriter) Sync(w http.ResponseWriter, creds *Credentials) {
	access := creds.GetAccessToken()
	if access == "" {
		cw.ClearSession(w)
		return
	}
	http.SetCookie(w, cw.newCookie(cw.cfg.AccessCookie, access))
	http.SetCookie(w, cw.newCookie(cw.cfg.RefreshCookie, creds.GetRefreshToken()))
	if p := creds.GetProfile(); p != nil {
		if raw, err := json.Marshal(p); err == nil {
			http.SetCookie(w, cw.newCookie(cw.cfg.ProfileCookie, url.QueryEscape(string(raw))))
		}
	}
}

// ClearSession expires all three session cookies. Idempotent.
func (cw *CookieWriter) ClearSession(w http.ResponseWriter) {
	http.SetCookie(w, cw.expiredCookie(cw.cfg.AccessCookie))
	http.SetCookie(w, cw.expiredCookie(cw.cfg.RefreshCookie))
	http.SetCookie(w, cw.expiredCookie(cw.cfg.ProfileCookie))
}

// ReadAccessToken returns the access token from the cookie replica, or ""
// when absent. Used by route guards, which only see the request cookies.
func (cw *CookieWriter) ReadAccessToken(r *http.Request) string {
	c, err := r.Cookie(cw.cfg.AccessCookie)
	if err != nil {
		return ""
	}
	return c.Value
}

// ReadRefreshToken returns the refresh token from the cookie replica, or ""
// when absent.
func (cw *CookieWriter) ReadRefreshToken(r *http.Request) string {
	c, err := r.Cookie(cw.cfg.RefreshCookie)
	if err != nil {
		return ""
	}
	return c.Value
}

// ReadProfile decodes the profile cookie, or returns nil when absent or
// corrupt. The cookie value is URL-encoded JSON.
func (cw *CookieWriter) ReadProfile(r *http.Request) *Profile {
	c, err := r.Cookie(cw.cfg.ProfileCookie)
	if err != nil {
		return nil
	}
	raw, err := url.QueryUnescape(c.Value)
	if err != nil {
		return nil
	}
	var p Profile
	if err := json.Unmarshal([]byte(raw), &p); err != nil {
		return nil
	}
	return &p
}
