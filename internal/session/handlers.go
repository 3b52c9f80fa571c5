package session

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/stayhaven/edge/internal/apierr"
	"github.com/stayhaven/edge/internal/gateway"
	"github.com/stayhaven/edge/internal/httpx/response"
	"github.com/stayhaven/edge/pkg/events"
	"github.com/stayhaven/edge/pkg/logger"
)

// Handler exposes the local session routes. Login and refresh update BOTH
// replicas (the request-scoped store, then the cookie sync) in one request;
// the backend is the only party that actually issues tokens. The handlers
// expect Attach upstream so FromContext answers the caller's replica.
type Handler struct {
	Cookies *CookieWriter
	GW      *gateway.Gateway
	Bus     events.Publisher
}

func NewHandler(cookies *CookieWriter, gw *gateway.Gateway, bus events.Publisher) *Handler {
	if bus == nil {
		bus = events.NoopPublisher{}
	}
	return &Handler{Cookies: cookies, GW: gw, Bus: bus}
}

func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.current)
	r.Post("/login", h.login)
	r.Post("/register", h.register)
	r.Post("/refresh", h.refresh)
	r.Delete("/", h.logout)
	return r
}

// tokenGrant is the backend's answer to login/register/refresh.
type tokenGrant struct {
	AccessToken  string   `json:"accessToken"`
	RefreshToken string   `json:"refreshToken"`
	User         *Profile `json:"user"`
}

func (h *Handler) current(w http.ResponseWriter, r *http.Request) {
	creds := FromContext(r.Context())
	response.WriteData(w, http.StatusOK, map[string]any{
		"authenticated": creds.IsAuthenticated(),
		"profile":       creds.GetProfile(),
	})
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	h.grant(w, r, "/auth/login", events.SessionCreated)
}

func (h *Handler) register(w http.ResponseWriter, r *http.Request) {
	h.grant(w, r, "/auth/register", events.SessionCreated)
}

func (h *Handler) grant(w http.ResponseWriter, r *http.Request, backendPath, subject string) {
	var body map[string]any
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		response.BadRequest(w, "invalid request body")
		return
	}

	var grant tokenGrant
	if err := h.GW.Post(r.Context(), backendPath, body, &grant, nil); err != nil {
		writeUpstream(w, r, err)
		return
	}

	creds := FromContext(r.Context())
	creds.SetSession(grant.AccessToken, grant.RefreshToken, grant.User)
	h.Cookies.Sync(w, creds)

	_ = h.Bus.Publish(r.Context(), subject, map[string]any{"profile": grant.User})
	response.WriteData(w, http.StatusOK, grant.User)
}

// refresh rotates the token pair and re-syncs both replicas. The profile
// projection is kept as-is unless the backend sends a fresh one.
func (h *Handler) refresh(w http.ResponseWriter, r *http.Request) {
	creds := FromContext(r.Context())
	refreshToken := creds.GetRefreshToken()
	if refreshToken == "" {
		response.Unauthorized(w, "no session to refresh")
		return
	}

	var grant tokenGrant
	err := h.GW.Post(r.Context(), "/auth/refresh", map[string]string{"refreshToken": refreshToken}, &grant, nil)
	if err != nil {
		// A definitive rejection invalidates the session everywhere.
		if _, ok := apierr.StatusOf(err); ok {
			creds.Clear()
			h.Cookies.ClearSession(w)
		}
		writeUpstream(w, r, err)
		return
	}

	profile := grant.User
	if profile == nil {
		profile = creds.GetProfile()
	}
	creds.SetSession(grant.AccessToken, grant.RefreshToken, profile)
	h.Cookies.Sync(w, creds)

	response.WriteData(w, http.StatusOK, profile)
}

func (h *Handler) logout(w http.ResponseWriter, r *http.Request) {
	FromContext(r.Context()).Clear()
	h.Cookies.ClearSession(w)
	_ = h.Bus.Publish(r.Context(), events.SessionCleared, map[string]any{})
	w.WriteHeader(http.StatusNoContent)
}

func writeUpstream(w http.ResponseWriter, r *http.Request, err error) {
	if status, ok := apierr.StatusOf(err); ok {
		response.WriteError(w, status, err.Error(), response.CodeUpstreamError)
		return
	}
	logger.ErrorContext(r.Context(), "backend call failed", "error", err)
	response.WriteError(w, http.StatusBadGateway, "backend unavailable", response.CodeUpstreamError)
}
