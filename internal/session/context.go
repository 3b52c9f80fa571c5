package session

import (
	"context"
	"net/http"
)

type ctxKey struct{}

// WithCredentials binds a credential replica to ctx.
func WithCredentials(ctx context.Context, c *Credentials) context.Context {
	return context.WithValue(ctx, ctxKey{}, c)
}

// FromContext returns the request-scoped credentials. A context with no
// session attached answers the no-op replica, never nil.
func FromContext(ctx context.Context) *Credentials {
	if c, ok := ctx.Value(ctxKey{}).(*Credentials); ok {
		return c
	}
	return NewCredentials(nil)
}

// Attach rebuilds the client-local replica for each request from the
// cookie replica. Every request gets its own store, so one caller's
// credentials never leak into another's outgoing calls.
func Attach(cookies *CookieWriter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			creds := NewCredentials(NewMemoryStore())
			if access := cookies.ReadAccessToken(r); access != "" {
				creds.SetSession(access, cookies.ReadRefreshToken(r), cookies.ReadProfile(r))
			}
			next.ServeHTTP(w, r.WithContext(WithCredentials(r.Context(), creds)))
		})
	}
}

// ContextTokens feeds the gateway's credential interceptor from the
// request context, so the token always belongs to the caller in flight.
type ContextTokens struct{}

func (ContextTokens) AccessToken(ctx context.Context) string {
	return FromContext(ctx).GetAccessToken()
}
