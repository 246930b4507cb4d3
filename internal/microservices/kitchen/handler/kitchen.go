package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"ghost-kitchen/internal/common/httpx"
	"ghost-kitchen/internal/domain"
	"ghost-kitchen/internal/microservices/kitchen/service"
)

// TokenHeader carries the token returned by login.
const TokenHeader = "X-Kitchen-Token"

type KitchenHandler struct {
	service service.KitchenServiceInterface
}

func NewKitchenHandler(s service.KitchenServiceInterface) *KitchenHandler {
	return &KitchenHandler{service: s}
}

func (h *KitchenHandler) Routes(r chi.Router) {
	r.Post("/kitchen/login", h.Login)
	r.Post("/kitchen/logout", h.Logout)
	r.Group(func(r chi.Router) {
		r.Use(h.requireToken)
		r.Get("/kitchen/orders", h.Board)
		r.Post("/kitchen/orders/{id}/advance", h.Advance)
	})
}

type loginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

func (h *KitchenHandler) requireToken(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := h.service.Authorize(r.Header.Get(TokenHeader)); err != nil {
			httpx.WriteError(w, err)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (h *KitchenHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.WriteError(w, err)
		return
	}
	token, err := h.service.Login(req.Username, req.Password)
	if err != nil {
		httpx.WriteError(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, map[string]string{"token": token})
}

func (h *KitchenHandler) Logout(w http.ResponseWriter, r *http.Request) {
	h.service.Logout(r.Header.Get(TokenHeader))
	w.WriteHeader(http.StatusNoContent)
}

func (h *KitchenHandler) Board(w http.ResponseWriter, r *http.Request) {
	board, err := h.service.Board(r.Context())
	if err != nil {
		httpx.WriteError(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, board)
}

func (h *KitchenHandler) Advance(w http.ResponseWriter, r *http.Request) {
	o, err := h.service.Act(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		httpx.WriteError(w, err)
		return
	}
	next, _ := o.Status.Next()
	httpx.WriteJSON(w, http.StatusOK, domain.BoardEntry{Order: o, NextStatus: next})
}
