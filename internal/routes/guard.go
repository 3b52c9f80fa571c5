package routes

import (
	"net/http"

	"github.com/stayhaven/edge/internal/httpx/response"
	"github.com/stayhaven/edge/internal/session"
	"github.com/stayhaven/edge/pkg/logger"
)

// Guard enforces the classifier on page routes using the cookie replica of
// the session. Presence of the access token is enough for auth-only paths;
// manager-only paths additionally need a parseable token with the manager
// role, since the role claim cannot be trusted from presence alone.
func Guard(c *Classifier, cookies *session.CookieWriter, jwtSecret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			path := r.URL.Path

			if !c.RequiresAuth(path) && !c.ManagerOnly(path) {
				next.ServeHTTP(w, r)
				return
			}

			token := cookies.ReadAccessToken(r)
			if token == "" {
				http.Redirect(w, r, "/auth/login", http.StatusSeeOther)
				return
			}

			if c.ManagerOnly(path) {
				claims, err := session.ParseToken(token, jwtSecret)
				if err != nil {
					logger.DebugContext(r.Context(), "manager guard rejected token", "error", err)
					http.Redirect(w, r, "/auth/login", http.StatusSeeOther)
					return
				}
				if claims.Role != "manager" {
					response.Forbidden(w, "manager role required")
					return
				}
			}

			next.ServeHTTP(w, r)
		})
	}
}
