package booking

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/stayhaven/edge/internal/apierr"
	"github.com/stayhaven/edge/internal/httpx/response"
	"github.com/stayhaven/edge/pkg/events"
	"github.com/stayhaven/edge/pkg/logger"
)

// Handler exposes the local draft API consumed by the booking pages.
type Handler struct {
	Store *DraftStore
	Bus   events.Publisher
}

func NewHandler(store *DraftStore, bus events.Publisher) *Handler {
	if bus == nil {
		bus = events.NoopPublisher{}
	}
	return &Handler{Store: store, Bus: bus}
}

func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Post("/", h.create)
	r.Get("/", h.redeem)
	r.Delete("/", h.discard)
	return r
}

// create validates the submitted draft and writes it to the cookie slot.
// The booking pages treat an invalid draft as "no such booking", hence the
// 404 on validation failure.
func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var d Draft
	if err := json.NewDecoder(r.Body).Decode(&d); err != nil {
		response.BadRequest(w, "invalid request body")
		return
	}
	d.EnsureID()

	if err := h.Store.Write(w, &d); err != nil {
		var verr *apierr.ValidationError
		if errors.As(err, &verr) {
			response.WriteValidationError(w, http.StatusNotFound, verr)
			return
		}
		logger.ErrorContext(r.Context(), "draft write failed", "error", err)
		response.InternalError(w, "could not store booking draft")
		return
	}

	_ = h.Bus.Publish(r.Context(), events.BookingDrafted, map[string]string{"id": d.ID, "state": string(StateDrafted)})
	response.WriteJSON(w, http.StatusCreated, map[string]any{
		"data":  &d,
		"state": StateDrafted,
	})
}

// redeem matches the return-trip identifier against the stored draft.
func (h *Handler) redeem(w http.ResponseWriter, r *http.Request) {
	id := r.URL.Query().Get("id")
	if id == "" {
		response.BadRequest(w, "id is required")
		return
	}

	d, state, err := h.Store.Redeem(r, id)
	if err != nil {
		logger.InfoContext(r.Context(), "draft redemption rejected", "id", id, "error", err)
		response.WriteError(w, http.StatusNotFound, "invalid booking", response.CodeDraftMismatch)
		return
	}

	_ = h.Bus.Publish(r.Context(), events.BookingRedeemed, map[string]string{"id": d.ID, "state": string(state)})
	response.WriteJSON(w, http.StatusOK, map[string]any{
		"data":  d,
		"state": state,
	})
}

// discard clears the slot after the booking is committed or the user backs
// out.
func (h *Handler) discard(w http.ResponseWriter, r *http.Request) {
	id := r.URL.Query().Get("id")
	if id == "" {
		response.BadRequest(w, "id is required")
		return
	}

	h.Store.Clear(w)
	_ = h.Bus.Publish(r.Context(), events.BookingDiscarded, map[string]string{"id": id, "state": string(StateAbandoned)})
	w.WriteHeader(http.StatusNoContent)
}
