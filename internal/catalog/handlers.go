package catalog

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/stayhaven/edge/internal/apierr"
	"github.com/stayhaven/edge/internal/httpx/response"
	"github.com/stayhaven/edge/internal/search"
	"github.com/stayhaven/edge/pkg/logger"
)

// Handler exposes the cached listing surfaces to the pages.
type Handler struct {
	Client *Client
}

func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/hotels", listRoute(h.Client.Hotels))
	r.Get("/rooms", listRoute(h.Client.Rooms))
	r.Get("/bookings", listRoute(h.Client.Bookings))
	r.Get("/discounts", listRoute(h.Client.Discounts))
	return r
}

func listRoute[T any](list func(context.Context, search.Params) (*Page[T], error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		params := search.FromQuery(r.URL.Query())
		page, err := list(r.Context(), params)
		if err != nil {
			if status, ok := apierr.StatusOf(err); ok {
				response.WriteError(w, status, err.Error(), response.CodeUpstreamError)
				return
			}
			logger.ErrorContext(r.Context(), "listing fetch failed", "error", err)
			response.WriteError(w, http.StatusBadGateway, "backend unavailable", response.CodeUpstreamError)
			return
		}
		response.WriteJSON(w, http.StatusOK, map[string]any{
			"data": page.Items,
			"metadata": map[string]any{
				"pagination": page.Pagination,
			},
		})
	}
}
