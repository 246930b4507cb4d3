package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"ghost-kitchen/internal/common/httpx"
	"ghost-kitchen/internal/microservices/darts/service"
)

type DartsHandler struct {
	service service.DartsServiceInterface
}

func NewDartsHandler(s service.DartsServiceInterface) *DartsHandler {
	return &DartsHandler{service: s}
}

func (h *DartsHandler) Routes(r chi.Router) {
	r.Post("/darts/play", h.Play)
}

func (h *DartsHandler) Play(w http.ResponseWriter, r *http.Request) {
	p, err := h.service.Play(r.Context(), httpx.SessionID(r.Context()))
	if err != nil {
		httpx.WriteError(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, p)
}
