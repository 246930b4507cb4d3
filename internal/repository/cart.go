package repository

import (
	"context"
	"sync"

	"ghost-kitchen/internal/domain"
)

// CartRepository holds one cart per browsing session. Carts never enter the
// shared store.
type CartRepository interface {
	Get(ctx context.Context, sid string) ([]domain.CartItem, error)
	Save(ctx context.Context, sid string, items []domain.CartItem) error
	Clear(ctx context.Context, sid string) error
	// Update runs fn on the current cart and saves its result atomically.
	// An error from fn leaves the cart untouched.
	Update(ctx context.Context, sid string, fn func([]domain.CartItem) ([]domain.CartItem, error)) ([]domain.CartItem, error)
}

type memoryCarts struct {
	mu    sync.RWMutex
	carts map[string][]domain.CartItem
}

func NewMemoryCarts() CartRepository {
	return &memoryCarts{carts: make(map[string][]domain.CartItem)}
}

func (m *memoryCarts) Get(_ context.Context, sid string) ([]domain.CartItem, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]domain.CartItem(nil), m.carts[sid]...), nil
}

func (m *memoryCarts) Save(_ context.Context, sid string, items []domain.CartItem) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(items) == 0 {
		delete(m.carts, sid)
		return nil
	}
	m.carts[sid] = append([]domain.CartItem(nil), items...)
	return nil
}

func (m *memoryCarts) Clear(_ context.Context, sid string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.carts, sid)
	return nil
}

func (m *memoryCarts) Update(_ context.Context, sid string, fn func([]domain.CartItem) ([]domain.CartItem, error)) ([]domain.CartItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	items, err := fn(append([]domain.CartItem(nil), m.carts[sid]...))
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		delete(m.carts, sid)
		return nil, nil
	}
	m.carts[sid] = append([]domain.CartItem(nil), items...)
	return append([]domain.CartItem(nil), items...), nil
}

// SubtractItems removes the ordered quantities from cur. Lines added after
// the order was read survive.
func SubtractItems(cur, ordered []domain.CartItem) []domain.CartItem {
	taken := make(map[string]int, len(ordered))
	for _, it := range ordered {
		taken[it.ID] += it.Quantity
	}
	out := make([]domain.CartItem, 0, len(cur))
	for _, it := range cur {
		if q := it.Quantity - taken[it.ID]; q > 0 {
			it.Quantity = q
			out = append(out, it)
		}
	}
	return out
}
