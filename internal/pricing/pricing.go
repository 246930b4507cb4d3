// Package pricing turns a client, a cart and a delivery choice into a quote.
// It keeps no state: the same inputs always yield the same quote.
package pricing

import "ghost-kitchen/internal/domain"

// DeliveryFee is charged for home delivery, never for pickup.
const DeliveryFee int64 = 7000

type Adjustment string

const (
	AdjustmentNone         Adjustment = "none"
	AdjustmentFidelity     Adjustment = "fidelity"
	AdjustmentDiscount     Adjustment = "prize_discount"
	AdjustmentFreeDelivery Adjustment = "prize_free_delivery"
)

type Quote struct {
	Subtotal    int64      `json:"subtotal"`
	Discount    int64      `json:"discount"`
	DeliveryFee int64      `json:"delivery_fee"`
	Total       int64      `json:"total"`
	Adjustment  Adjustment `json:"adjustment"`
	Message     string     `json:"message,omitempty"`
	// Locked is set for fidelity orders: cart quantities may not change.
	Locked bool `json:"locked"`
}

func Subtotal(items []domain.CartItem) int64 {
	var sum int64
	for _, it := range items {
		sum += it.LineTotal()
	}
	return sum
}

func ItemCount(items []domain.CartItem) int {
	n := 0
	for _, it := range items {
		n += it.Quantity
	}
	return n
}

// Compute prices an order. A fidelity order takes precedence over any darts
// prize; at most one adjustment applies.
func Compute(client *domain.Client, items []domain.CartItem, delivery domain.DeliveryType) Quote {
	q := Quote{Subtotal: Subtotal(items), Adjustment: AdjustmentNone}
	if delivery == domain.DeliveryHome {
		q.DeliveryFee = DeliveryFee
	}

	switch {
	case client == nil:
	case client.FidelityOrder():
		q.Discount = q.Subtotal
		q.Adjustment = AdjustmentFidelity
		q.Message = "Fidelity reward: combo on the house"
		q.Locked = true
	case client.ActivePrize != nil:
		p := client.ActivePrize
		switch {
		case p.DiscountPercent > 0:
			q.Discount = q.Subtotal * int64(p.DiscountPercent) / 100
			q.Adjustment = AdjustmentDiscount
			q.Message = "Darts prize: " + p.Label
		case p.FreeDelivery:
			q.DeliveryFee = 0
			q.Adjustment = AdjustmentFreeDelivery
			q.Message = "Darts prize: " + p.Label
		}
	}

	q.Total = max(0, q.Subtotal-q.Discount+q.DeliveryFee)
	return q
}
