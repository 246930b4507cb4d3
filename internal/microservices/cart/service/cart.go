package service

import (
	"context"

	"ghost-kitchen/internal/domain"
	"ghost-kitchen/internal/menu"
	"ghost-kitchen/internal/pricing"
	"ghost-kitchen/internal/repository"
)

// CartView is a cart with its derived totals. Totals are recomputed on every
// read.
type CartView struct {
	Items     []domain.CartItem `json:"items"`
	ItemCount int               `json:"item_count"`
	Subtotal  int64             `json:"subtotal"`
	Locked    bool              `json:"locked"`
}

type CartServiceInterface interface {
	View(ctx context.Context, sid string) (CartView, error)
	Add(ctx context.Context, sid, itemID string) (CartView, error)
	UpdateQuantity(ctx context.Context, sid, itemID string, delta int) (CartView, error)
	Remove(ctx context.Context, sid, itemID string) (CartView, error)
	Clear(ctx context.Context, sid string) error
}

type CartService struct {
	carts repository.CartRepository
	state repository.StateRepositoryInterface
}

func NewCartService(carts repository.CartRepository, state repository.StateRepositoryInterface) CartServiceInterface {
	return &CartService{carts: carts, state: state}
}

func (s *CartService) View(ctx context.Context, sid string) (CartView, error) {
	items, err := s.carts.Get(ctx, sid)
	if err != nil {
		return CartView{}, err
	}
	return s.view(ctx, sid, items)
}

func (s *CartService) Add(ctx context.Context, sid, itemID string) (CartView, error) {
	it, err := menu.Find(itemID)
	if err != nil {
		return CartView{}, err
	}
	return s.mutate(ctx, sid, func(items []domain.CartItem) []domain.CartItem {
		for i := range items {
			if items[i].ID == it.ID {
				items[i].Quantity++
				return items
			}
		}
		return append(items, domain.CartItem{MenuItem: it, Quantity: 1})
	})
}

// UpdateQuantity ignores changes that would leave the line at zero or below;
// removal is explicit. Fidelity orders may not change quantities at all.
func (s *CartService) UpdateQuantity(ctx context.Context, sid, itemID string, delta int) (CartView, error) {
	if err := s.checkUnlocked(ctx, sid); err != nil {
		return CartView{}, err
	}
	return s.mutate(ctx, sid, func(items []domain.CartItem) []domain.CartItem {
		for i := range items {
			if items[i].ID == itemID {
				if q := items[i].Quantity + delta; q > 0 {
					items[i].Quantity = q
				}
				break
			}
		}
		return items
	})
}

// Remove drops a whole line. Like quantity changes it is refused on a
// fidelity order.
func (s *CartService) Remove(ctx context.Context, sid, itemID string) (CartView, error) {
	if err := s.checkUnlocked(ctx, sid); err != nil {
		return CartView{}, err
	}
	return s.mutate(ctx, sid, func(items []domain.CartItem) []domain.CartItem {
		out := items[:0]
		for _, it := range items {
			if it.ID != itemID {
				out = append(out, it)
			}
		}
		return out
	})
}

func (s *CartService) Clear(ctx context.Context, sid string) error {
	return s.carts.Clear(ctx, sid)
}

func (s *CartService) checkUnlocked(ctx context.Context, sid string) error {
	c, err := s.state.ActiveClient(ctx, sid)
	if err != nil {
		return err
	}
	if c != nil && c.FidelityOrder() {
		return domain.ErrCartLocked
	}
	return nil
}

func (s *CartService) mutate(ctx context.Context, sid string, fn func([]domain.CartItem) []domain.CartItem) (CartView, error) {
	items, err := s.carts.Update(ctx, sid, func(cur []domain.CartItem) ([]domain.CartItem, error) {
		return fn(cur), nil
	})
	if err != nil {
		return CartView{}, err
	}
	return s.view(ctx, sid, items)
}

func (s *CartService) view(ctx context.Context, sid string, items []domain.CartItem) (CartView, error) {
	c, err := s.state.ActiveClient(ctx, sid)
	if err != nil {
		return CartView{}, err
	}
	if items == nil {
		items = []domain.CartItem{}
	}
	return CartView{
		Items:     items,
		ItemCount: pricing.ItemCount(items),
		Subtotal:  pricing.Subtotal(items),
		Locked:    c != nil && c.FidelityOrder(),
	}, nil
}
