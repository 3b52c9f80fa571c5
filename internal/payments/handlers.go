package payments

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/stayhaven/edge/internal/httpx/response"
	"github.com/stayhaven/edge/pkg/events"
)

// Handler drives the confirmation poll for the booking success page. The
// poll is bounded by the request context: when the page goes away, so does
// the loop.
type Handler struct {
	Poller *Poller
	Bus    events.Publisher
	// OnPaid runs after a confirmed payment, e.g. to invalidate the
	// cached bookings listing.
	OnPaid func()
}

func NewHandler(poller *Poller, bus events.Publisher, onPaid func()) *Handler {
	if bus == nil {
		bus = events.NoopPublisher{}
	}
	return &Handler{Poller: poller, Bus: bus, OnPaid: onPaid}
}

func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/confirm", h.confirm)
	return r
}

func (h *Handler) confirm(w http.ResponseWriter, r *http.Request) {
	bookingID := r.URL.Query().Get("bookingId")
	orderCode := r.URL.Query().Get("orderCode")
	if bookingID == "" || orderCode == "" {
		response.BadRequest(w, "bookingId and orderCode are required")
		return
	}

	result, err := h.Poller.Wait(r.Context(), bookingID, orderCode)
	switch result {
	case ResultPaid:
		_ = h.Bus.Publish(r.Context(), events.PaymentConfirmed, map[string]string{
			"bookingId": bookingID,
			"orderCode": orderCode,
		})
		if h.OnPaid != nil {
			h.OnPaid()
		}
		response.WriteData(w, http.StatusOK, map[string]any{"status": result})
	case ResultCanceled:
		// Client went away; nothing left to answer.
	case ResultTimedOut:
		response.WriteData(w, http.StatusOK, map[string]any{"status": result})
	default:
		response.WriteJSON(w, http.StatusBadGateway, map[string]any{
			"status": result,
			"error":  err.Error(),
		})
	}
}
