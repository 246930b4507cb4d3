package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"ghost-kitchen/internal/common/httpx"
	"ghost-kitchen/internal/microservices/cart/service"
)

type CartHandler struct {
	service service.CartServiceInterface
}

func NewCartHandler(s service.CartServiceInterface) *CartHandler {
	return &CartHandler{service: s}
}

func (h *CartHandler) Routes(r chi.Router) {
	r.Get("/cart", h.Get)
	r.Delete("/cart", h.Clear)
	r.Post("/cart/items", h.Add)
	r.Patch("/cart/items/{id}", h.Update)
	r.Delete("/cart/items/{id}", h.Remove)
}

type addRequest struct {
	ItemID string `json:"item_id" validate:"required"`
}

type updateRequest struct {
	Delta int `json:"delta" validate:"required"`
}

func (h *CartHandler) Get(w http.ResponseWriter, r *http.Request) {
	v, err := h.service.View(r.Context(), httpx.SessionID(r.Context()))
	if err != nil {
		httpx.WriteError(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, v)
}

func (h *CartHandler) Add(w http.ResponseWriter, r *http.Request) {
	var req addRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.WriteError(w, err)
		return
	}
	v, err := h.service.Add(r.Context(), httpx.SessionID(r.Context()), req.ItemID)
	if err != nil {
		httpx.WriteError(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, v)
}

// Update applies a relative quantity change, e.g. {"delta": -1}.
func (h *CartHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req updateRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.WriteError(w, err)
		return
	}
	v, err := h.service.UpdateQuantity(r.Context(), httpx.SessionID(r.Context()), chi.URLParam(r, "id"), req.Delta)
	if err != nil {
		httpx.WriteError(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, v)
}

func (h *CartHandler) Remove(w http.ResponseWriter, r *http.Request) {
	v, err := h.service.Remove(r.Context(), httpx.SessionID(r.Context()), chi.URLParam(r, "id"))
	if err != nil {
		httpx.WriteError(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, v)
}

func (h *CartHandler) Clear(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Clear(r.Context(), httpx.SessionID(r.Context())); err != nil {
		httpx.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
