package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"ghost-kitchen/internal/common/httpx"
	"ghost-kitchen/internal/microservices/reports/service"
)

type ReportsHandler struct {
	service service.ReportsServiceInterface
}

func NewReportsHandler(s service.ReportsServiceInterface) *ReportsHandler {
	return &ReportsHandler{service: s}
}

func (h *ReportsHandler) Routes(r chi.Router) {
	r.Get("/dashboard", h.Dashboard)
	r.Get("/reports/top-clients", h.TopClients)
}

func (h *ReportsHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	st, err := h.service.Stats(r.Context())
	if err != nil {
		httpx.WriteError(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, st)
}

func (h *ReportsHandler) TopClients(w http.ResponseWriter, r *http.Request) {
	top, err := h.service.TopClients(r.Context())
	if err != nil {
		httpx.WriteError(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, top)
}
