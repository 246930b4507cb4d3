package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"ghost-kitchen/internal/common/httpx"
	"ghost-kitchen/internal/domain"
	"ghost-kitchen/internal/microservices/order/service"
)

type OrderHandler struct {
	service service.OrderServiceInterface
}

func NewOrderHandler(s service.OrderServiceInterface) *OrderHandler {
	return &OrderHandler{service: s}
}

func (oh *OrderHandler) Routes(r chi.Router) {
	r.Get("/checkout/quote", oh.Quote)
	r.Post("/checkout", oh.Checkout)
}

func (oh *OrderHandler) Quote(w http.ResponseWriter, r *http.Request) {
	delivery := r.URL.Query().Get("delivery_type")
	if delivery == "" {
		delivery = string(domain.DeliveryPickup)
	}
	q, err := oh.service.Quote(r.Context(), httpx.SessionID(r.Context()), delivery)
	if err != nil {
		httpx.WriteError(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, q)
}

func (oh *OrderHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	var req domain.CheckoutRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.WriteError(w, err)
		return
	}
	res, err := oh.service.Checkout(r.Context(), httpx.SessionID(r.Context()), req.PaymentMethod, req.DeliveryType)
	if err != nil {
		httpx.WriteError(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, res)
}
