package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"ghost-kitchen/internal/common/httpx"
)

type AssistantServiceInterface interface {
	Ask(ctx context.Context, question string) (string, error)
	Mascot(ctx context.Context) string
}

type AssistantHandler struct {
	service AssistantServiceInterface
}

func NewAssistantHandler(s AssistantServiceInterface) *AssistantHandler {
	return &AssistantHandler{service: s}
}

func (h *AssistantHandler) Routes(r chi.Router) {
	r.Post("/assistant/messages", h.Ask)
	r.Get("/assistant/mascot", h.Mascot)
}

type askRequest struct {
	Message string `json:"message" validate:"required"`
}

func (h *AssistantHandler) Ask(w http.ResponseWriter, r *http.Request) {
	var req askRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.WriteError(w, err)
		return
	}
	reply, err := h.service.Ask(r.Context(), req.Message)
	if err != nil {
		httpx.WriteError(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, map[string]string{"reply": reply})
}

func (h *AssistantHandler) Mascot(w http.ResponseWriter, r *http.Request) {
	httpx.WriteJSON(w, http.StatusOK, map[string]string{"image": h.service.Mascot(r.Context())})
}
