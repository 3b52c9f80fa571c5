package messages

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/stayhaven/edge/internal/apierr"
	"github.com/stayhaven/edge/internal/httpx/response"
	"github.com/stayhaven/edge/pkg/logger"
)

type Handler struct {
	Client *Client
}

func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Post("/", h.send)
	r.Get("/", h.list)
	r.Get("/conversations", h.conversations)
	r.Get("/conversations/{bookingID}", h.conversation)
	r.Patch("/{id}/read", h.markRead)
	r.Delete("/{id}", h.delete)
	return r
}

func (h *Handler) send(w http.ResponseWriter, r *http.Request) {
	var req SendRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid request body")
		return
	}
	if req.BookingID == "" || req.Body == "" {
		response.BadRequest(w, "bookingId and body are required")
		return
	}
	m, err := h.Client.Send(r.Context(), req)
	if err != nil {
		writeUpstream(w, r, err)
		return
	}
	response.WriteData(w, http.StatusCreated, m)
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	msgs, err := h.Client.List(r.Context())
	if err != nil {
		writeUpstream(w, r, err)
		return
	}
	response.WriteData(w, http.StatusOK, msgs)
}

func (h *Handler) conversations(w http.ResponseWriter, r *http.Request) {
	convs, err := h.Client.Conversations(r.Context())
	if err != nil {
		writeUpstream(w, r, err)
		return
	}
	response.WriteData(w, http.StatusOK, convs)
}

func (h *Handler) conversation(w http.ResponseWriter, r *http.Request) {
	msgs, err := h.Client.Conversation(r.Context(), chi.URLParam(r, "bookingID"))
	if err != nil {
		writeUpstream(w, r, err)
		return
	}
	response.WriteData(w, http.StatusOK, msgs)
}

func (h *Handler) markRead(w http.ResponseWriter, r *http.Request) {
	if err := h.Client.MarkRead(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeUpstream(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	if err := h.Client.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeUpstream(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func writeUpstream(w http.ResponseWriter, r *http.Request, err error) {
	if status, ok := apierr.StatusOf(err); ok {
		response.WriteError(w, status, err.Error(), response.CodeUpstreamError)
		return
	}
	logger.ErrorContext(r.Context(), "message call failed", "error", err)
	response.WriteError(w, http.StatusBadGateway, "backend unavailable", response.CodeUpstreamError)
}
