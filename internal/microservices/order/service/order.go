package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"ghost-kitchen/internal/common/logger"
	"ghost-kitchen/internal/domain"
	"ghost-kitchen/internal/pricing"
	"ghost-kitchen/internal/repository"
)

const source = "order"

type CheckoutResult struct {
	Order   domain.Order   `json:"order"`
	Quote   pricing.Quote  `json:"quote"`
	Receipt domain.Receipt `json:"receipt"`
}

type OrderServiceInterface interface {
	Quote(ctx context.Context, sid, deliveryType string) (pricing.Quote, error)
	Checkout(ctx context.Context, sid, paymentMethod, deliveryType string) (CheckoutResult, error)
	// Advance writes any known status; forward-only is the kitchen's policy.
	Advance(ctx context.Context, orderID, target string) (domain.Order, error)
	// Step moves an order to its next status in one read-modify-write.
	Step(ctx context.Context, orderID string) (domain.Order, error)
}

type OrderService struct {
	state repository.StateRepositoryInterface
	carts repository.CartRepository
	now   func() time.Time
	lg    *logger.Logger
}

func NewOrderService(state repository.StateRepositoryInterface, carts repository.CartRepository, now func() time.Time) OrderServiceInterface {
	if now == nil {
		now = time.Now
	}
	return &OrderService{state: state, carts: carts, now: now, lg: logger.New(source)}
}

func (or *OrderService) Quote(ctx context.Context, sid, deliveryType string) (pricing.Quote, error) {
	delivery, err := domain.ParseDeliveryType(deliveryType)
	if err != nil {
		return pricing.Quote{}, err
	}
	client, err := or.state.ActiveClient(ctx, sid)
	if err != nil {
		return pricing.Quote{}, err
	}
	items, err := or.carts.Get(ctx, sid)
	if err != nil {
		return pricing.Quote{}, err
	}
	return pricing.Compute(client, items, delivery), nil
}

func (or *OrderService) Checkout(ctx context.Context, sid, paymentMethod, deliveryType string) (CheckoutResult, error) {
	// 1. Preconditions: a client, then a non-empty cart
	clientID, err := or.state.ActiveClientID(ctx, sid)
	if err != nil {
		return CheckoutResult{}, err
	}
	if clientID == "" {
		return CheckoutResult{}, domain.ErrNotRegistered
	}
	items, err := or.carts.Get(ctx, sid)
	if err != nil {
		return CheckoutResult{}, err
	}
	if len(items) == 0 {
		return CheckoutResult{}, domain.ErrEmptyCart
	}

	// 2. Input validation
	payment, err := domain.ParsePaymentMethod(paymentMethod)
	if err != nil {
		return CheckoutResult{}, err
	}
	delivery, err := domain.ParseDeliveryType(deliveryType)
	if err != nil {
		return CheckoutResult{}, err
	}

	// 3. Price, append the order and cycle the client's loyalty state
	var res CheckoutResult
	err = or.state.Update(ctx, source, func(snap *repository.Snapshot) error {
		client := snap.Client(clientID)
		if client == nil {
			return domain.ErrNotRegistered
		}
		res.Quote = pricing.Compute(client, items, delivery)
		res.Order = domain.Order{
			ID:            uuid.NewString(),
			TicketCode:    client.TicketCode,
			ClientName:    client.Name,
			Items:         append([]domain.CartItem(nil), items...),
			Total:         res.Quote.Total,
			PaymentMethod: payment,
			DeliveryType:  delivery,
			Status:        domain.StatusQueued,
			CreatedAt:     or.now().UTC(),
		}
		snap.Orders = append(snap.Orders, res.Order)
		client.CompletePurchase()
		snap.TouchOrders()
		snap.TouchClients()
		return nil
	})
	if err != nil {
		return CheckoutResult{}, err
	}

	// 4. The order is placed: take its lines out of the cart, keeping
	// anything added meanwhile. A failure is only logged.
	if _, err := or.carts.Update(ctx, sid, func(cur []domain.CartItem) ([]domain.CartItem, error) {
		return repository.SubtractItems(cur, items), nil
	}); err != nil {
		or.lg.ErrorCtx(ctx, "cart_clear_failed", err, map[string]any{"order_id": res.Order.ID})
	}

	res.Receipt = NewReceipt(res.Order)
	or.lg.InfoCtx(ctx, "order_created", map[string]any{
		"order_id":   res.Order.ID,
		"ticket":     res.Order.TicketCode,
		"total":      res.Order.Total,
		"adjustment": res.Quote.Adjustment,
	})
	return res, nil
}

func (or *OrderService) Advance(ctx context.Context, orderID, target string) (domain.Order, error) {
	status, err := domain.ParseOrderStatus(target)
	if err != nil {
		return domain.Order{}, err
	}

	var updated domain.Order
	var from domain.OrderStatus
	err = or.state.Update(ctx, source, func(snap *repository.Snapshot) error {
		o := snap.Order(orderID)
		if o == nil {
			return fmt.Errorf("order %s: %w", orderID, domain.ErrNotFound)
		}
		from = o.Status
		o.Status = status
		updated = *o
		snap.TouchOrders()
		return nil
	})
	if err != nil {
		return domain.Order{}, err
	}
	or.lg.InfoCtx(ctx, "order_status_changed", map[string]any{
		"order_id": orderID, "from": from, "to": status,
	})
	return updated, nil
}

func (or *OrderService) Step(ctx context.Context, orderID string) (domain.Order, error) {
	var updated domain.Order
	var from domain.OrderStatus
	err := or.state.Update(ctx, source, func(snap *repository.Snapshot) error {
		o := snap.Order(orderID)
		if o == nil {
			return fmt.Errorf("order %s: %w", orderID, domain.ErrNotFound)
		}
		next, ok := o.Status.Next()
		if !ok {
			return fmt.Errorf("order %s is %s: %w", orderID, o.Status, domain.ErrNoTransition)
		}
		from = o.Status
		o.Status = next
		updated = *o
		snap.TouchOrders()
		return nil
	})
	if err != nil {
		return domain.Order{}, err
	}
	or.lg.InfoCtx(ctx, "order_status_changed", map[string]any{
		"order_id": orderID, "from": from, "to": updated.Status,
	})
	return updated, nil
}
