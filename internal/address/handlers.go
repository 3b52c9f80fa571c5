package address

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/stayhaven/edge/internal/httpx/response"
)

type Handler struct {
	Lookup *Lookup
}

func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/provinces", h.provinces)
	r.Get("/communes", h.communes)
	return r
}

func (h *Handler) provinces(w http.ResponseWriter, r *http.Request) {
	response.WriteData(w, http.StatusOK, h.Lookup.Provinces(r.Context()))
}

func (h *Handler) communes(w http.ResponseWriter, r *http.Request) {
	province := r.URL.Query().Get("province")
	if province == "" {
		response.BadRequest(w, "province is required")
		return
	}
	response.WriteData(w, http.StatusOK, h.Lookup.Communes(r.Context(), province))
}
