package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"ghost-kitchen/internal/common/httpx"
	"ghost-kitchen/internal/domain"
	"ghost-kitchen/internal/menu"
)

type MenuHandler struct{}

func NewMenuHandler() *MenuHandler { return &MenuHandler{} }

func (h *MenuHandler) Routes(r chi.Router) {
	r.Get("/menu", h.List)
	r.Get("/menu/{id}", h.Get)
}

// List returns the catalog, optionally narrowed with ?category=.
func (h *MenuHandler) List(w http.ResponseWriter, r *http.Request) {
	c := r.URL.Query().Get("category")
	if c == "" {
		httpx.WriteJSON(w, http.StatusOK, menu.All())
		return
	}
	items, err := menu.ByCategory(domain.Category(c))
	if err != nil {
		httpx.WriteError(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, items)
}

func (h *MenuHandler) Get(w http.ResponseWriter, r *http.Request) {
	it, err := menu.Find(chi.URLParam(r, "id"))
	if err != nil {
		httpx.WriteError(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, it)
}
