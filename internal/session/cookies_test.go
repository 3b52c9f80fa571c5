package session_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/stayhaven/edge/internal/session"
	"github.com/stayhaven/edge/pkg/config"
)

func testCookieConfig() config.SessionConfig {
	return config.SessionConfig{
		JWTSecret:     "test-secret",
		CookieTTL:     365 * 24 * time.Hour,
		CookieSecure:  true,
		AccessCookie:  "accessToken",
		RefreshCookie: "refreshToken",
		ProfileCookie: "user",
		BookingCookie: "booking",
	}
}

func cookieByName(t *testing.T, cookies []*http.Cookie, name string) *http.Cookie {
	t.Helper()
	for _, c := range cookies {
		if c.Name == name {
			return c
		}
	}
	return nil
}

func TestSyncWritesCookieReplica(t *testing.T) {
	cw := session.NewCookieWriter(testCookieConfig())
	creds := session.NewCredentials(session.NewMemoryStore())
	creds.SetSession("at1", "rt1", &session.Profile{ID: "u1", FullName: "A", Role: "user"})

	rec := httptest.NewRecorder()
	cw.Sync(rec, creds)

	cookies := rec.Result().Cookies()
	access := cookieByName(t, cookies, "accessToken")
	require.NotNil(t, access)
	require.Equal(t, "at1", access.Value)
	require.True(t, access.HttpOnly)
	require.True(t, access.Secure)
	require.Equal(t, http.SameSiteLaxMode, access.SameSite)
	require.Equal(t, "/", access.Path)
	require.Equal(t, 31536000, access.MaxAge)

	require.NotNil(t, cookieByName(t, cookies, "refreshToken"))
	require.NotNil(t, cookieByName(t, cookies, "user"))
}

func TestSyncWithoutSessionClearsCookies(t *testing.T) {
	cw := session.NewCookieWriter(testCookieConfig())
	creds := session.NewCredentials(session.NewMemoryStore())

	rec := httptest.NewRecorder()
	cw.Sync(rec, creds)

	access := cookieByName(t, rec.Result().Cookies(), "accessToken")
	require.NotNil(t, access)
	require.Empty(t, access.Value)
	require.True(t, access.Expires.Before(time.Now()))
}

func TestProfileCookieRoundTrip(t *testing.T) {
	cw := session.NewCookieWriter(testCookieConfig())
	creds := session.NewCredentials(session.NewMemoryStore())
	creds.SetSession("at1", "rt1", &session.Profile{ID: "u1", FullName: "Ánh Dương", Role: "user"})

	rec := httptest.NewRecorder()
	cw.Sync(rec, creds)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	for _, c := range rec.Result().Cookies() {
		req.AddCookie(c)
	}

	p := cw.ReadProfile(req)
	require.NotNil(t, p)
	require.Equal(t, "u1", p.ID)
	require.Equal(t, "Ánh Dương", p.FullName)
	require.Equal(t, "at1", cw.ReadAccessToken(req))
}

func TestReplicasDivergeUntilSync(t *testing.T) {
	cw := session.NewCookieWriter(testCookieConfig())
	creds := session.NewCredentials(session.NewMemoryStore())
	creds.SetSession("at1", "rt1", &session.Profile{ID: "u1", Role: "user"})

	rec := httptest.NewRecorder()
	cw.Sync(rec, creds)

	// Local replica rotates, cookie replica still holds the old token
	// until the caller syncs again.
	creds.SetSession("at2", "rt2", nil)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	for _, c := range rec.Result().Cookies() {
		req.AddCookie(c)
	}
	require.Equal(t, "at1", cw.ReadAccessToken(req))
	require.Equal(t, "at2", creds.GetAccessToken())

	rec2 := httptest.NewRecorder()
	cw.Sync(rec2, creds)
	req2 := httptest.NewRequest(http.MethodGet, "/", nil)
	for _, c := range rec2.Result().Cookies() {
		req2.AddCookie(c)
	}
	require.Equal(t, "at2", cw.ReadAccessToken(req2))
}
