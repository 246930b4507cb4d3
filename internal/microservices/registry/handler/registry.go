package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"ghost-kitchen/internal/common/httpx"
	"ghost-kitchen/internal/microservices/registry/service"
)

type RegistryHandler struct {
	service service.RegistryServiceInterface
}

func NewRegistryHandler(s service.RegistryServiceInterface) *RegistryHandler {
	return &RegistryHandler{service: s}
}

func (h *RegistryHandler) Routes(r chi.Router) {
	r.Post("/clients", h.Register)
	r.Post("/clients/login", h.Login)
	r.Get("/clients/me", h.Me)
	r.Post("/clients/logout", h.Logout)
}

type registerRequest struct {
	Name string `json:"name" validate:"required"`
}

type loginRequest struct {
	TicketCode string `json:"ticket_code" validate:"required"`
}

func (h *RegistryHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.WriteError(w, err)
		return
	}
	c, err := h.service.Register(r.Context(), httpx.SessionID(r.Context()), req.Name)
	if err != nil {
		httpx.WriteError(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, c)
}

func (h *RegistryHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.WriteError(w, err)
		return
	}
	c, err := h.service.Login(r.Context(), httpx.SessionID(r.Context()), req.TicketCode)
	if err != nil {
		httpx.WriteError(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, c)
}

func (h *RegistryHandler) Me(w http.ResponseWriter, r *http.Request) {
	c, err := h.service.Current(r.Context(), httpx.SessionID(r.Context()))
	if err != nil {
		httpx.WriteError(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, c)
}

func (h *RegistryHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Logout(r.Context(), httpx.SessionID(r.Context())); err != nil {
		httpx.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
