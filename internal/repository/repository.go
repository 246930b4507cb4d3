// Package repository gives typed access to the shared store. Every mutation
// runs as one read-modify-write under a process-wide lock and is followed by
// one change notification per key it wrote.
package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"ghost-kitchen/internal/common/logger"
	"ghost-kitchen/internal/domain"
	"ghost-kitchen/internal/store"
)

// Snapshot is the decoded shared state handed to an Update callback.
// Callbacks mark what they changed; only marked collections are written back.
type Snapshot struct {
	Clients []domain.Client
	Orders  []domain.Order

	clientsDirty bool
	ordersDirty  bool
}

func (s *Snapshot) TouchClients() { s.clientsDirty = true }
func (s *Snapshot) TouchOrders()  { s.ordersDirty = true }

// Client returns a pointer into Clients so callers can mutate in place.
func (s *Snapshot) Client(id string) *domain.Client {
	for i := range s.Clients {
		if s.Clients[i].ID == id {
			return &s.Clients[i]
		}
	}
	return nil
}

func (s *Snapshot) ClientByTicket(code string) *domain.Client {
	for i := range s.Clients {
		if s.Clients[i].TicketCode == code {
			return &s.Clients[i]
		}
	}
	return nil
}

func (s *Snapshot) ClientByName(name string) *domain.Client {
	for i := range s.Clients {
		if strings.EqualFold(s.Clients[i].Name, name) {
			return &s.Clients[i]
		}
	}
	return nil
}

func (s *Snapshot) Order(id string) *domain.Order {
	for i := range s.Orders {
		if s.Orders[i].ID == id {
			return &s.Orders[i]
		}
	}
	return nil
}

// StateRepositoryInterface is what the services need from the shared state.
type StateRepositoryInterface interface {
	Clients(ctx context.Context) ([]domain.Client, error)
	Orders(ctx context.Context) ([]domain.Order, error)
	Update(ctx context.Context, source string, fn func(*Snapshot) error) error
	ActiveClientID(ctx context.Context, sid string) (string, error)
	ActiveClient(ctx context.Context, sid string) (*domain.Client, error)
	SetActiveClient(ctx context.Context, sid, clientID, source string) error
	Value(ctx context.Context, key string) (string, bool, error)
	SetValue(ctx context.Context, key, value, source string) error
	Subscribe(ctx context.Context) (<-chan domain.Change, error)
}

type Repository struct {
	store    store.Store
	notifier store.Notifier
	mu       sync.Mutex
	lg       *logger.Logger
}

func New(s store.Store, n store.Notifier) *Repository {
	return &Repository{store: s, notifier: n, lg: logger.New("repository")}
}

func (r *Repository) Clients(ctx context.Context) ([]domain.Client, error) {
	return loadList[domain.Client](ctx, r, store.KeyClients)
}

func (r *Repository) Orders(ctx context.Context) ([]domain.Order, error) {
	return loadList[domain.Order](ctx, r, store.KeyOrders)
}

// Update loads clients and orders, runs fn, and persists what fn touched.
// Nothing is written when fn fails.
func (r *Repository) Update(ctx context.Context, source string, fn func(*Snapshot) error) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	clients, err := r.Clients(ctx)
	if err != nil {
		return err
	}
	orders, err := r.Orders(ctx)
	if err != nil {
		return err
	}
	snap := Snapshot{Clients: clients, Orders: orders}
	if err := fn(&snap); err != nil {
		return err
	}

	var changed []string
	if snap.clientsDirty {
		if err := r.save(ctx, store.KeyClients, snap.Clients); err != nil {
			return err
		}
		changed = append(changed, store.KeyClients)
	}
	if snap.ordersDirty {
		if err := r.save(ctx, store.KeyOrders, snap.Orders); err != nil {
			return err
		}
		changed = append(changed, store.KeyOrders)
	}
	for _, key := range changed {
		r.notify(ctx, key, source)
	}
	return nil
}

// ActiveClientID returns the client id the session points at, or "".
func (r *Repository) ActiveClientID(ctx context.Context, sid string) (string, error) {
	v, _, err := r.store.Get(ctx, store.ActiveClientKey(sid))
	if err != nil {
		return "", fmt.Errorf("read active client: %w", err)
	}
	return v, nil
}

// ActiveClient resolves the session pointer. A dangling pointer reads as no
// client.
func (r *Repository) ActiveClient(ctx context.Context, sid string) (*domain.Client, error) {
	id, err := r.ActiveClientID(ctx, sid)
	if err != nil || id == "" {
		return nil, err
	}
	clients, err := r.Clients(ctx)
	if err != nil {
		return nil, err
	}
	for i := range clients {
		if clients[i].ID == id {
			return &clients[i], nil
		}
	}
	return nil, nil
}

// SetActiveClient overwrites the session pointer; an empty id clears it.
func (r *Repository) SetActiveClient(ctx context.Context, sid, clientID, source string) error {
	key := store.ActiveClientKey(sid)
	if err := r.store.Set(ctx, key, clientID); err != nil {
		return fmt.Errorf("write active client: %w", err)
	}
	r.notify(ctx, key, source)
	return nil
}

// Value reads a raw key, used for cached blobs such as the mascot image.
func (r *Repository) Value(ctx context.Context, key string) (string, bool, error) {
	v, ok, err := r.store.Get(ctx, key)
	if err != nil {
		return "", false, fmt.Errorf("read %s: %w", key, err)
	}
	return v, ok, nil
}

func (r *Repository) SetValue(ctx context.Context, key, value, source string) error {
	if err := r.store.Set(ctx, key, value); err != nil {
		return fmt.Errorf("write %s: %w", key, err)
	}
	r.notify(ctx, key, source)
	return nil
}

func (r *Repository) Subscribe(ctx context.Context) (<-chan domain.Change, error) {
	return r.notifier.Subscribe(ctx)
}

// loadList decodes a JSON array key. Missing or unreadable data reads as an
// empty list.
func loadList[T any](ctx context.Context, r *Repository, key string) ([]T, error) {
	raw, ok, err := r.store.Get(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", key, err)
	}
	if !ok || raw == "" {
		return nil, nil
	}
	var out []T
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		r.lg.Warn("collection_corrupted", err, map[string]any{"key": key})
		return nil, nil
	}
	return out, nil
}

func (r *Repository) save(ctx context.Context, key string, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", key, err)
	}
	if err := r.store.Set(ctx, key, string(b)); err != nil {
		return fmt.Errorf("write %s: %w", key, err)
	}
	return nil
}

func (r *Repository) notify(ctx context.Context, key, source string) {
	ch := domain.Change{Key: key, Source: source, At: time.Now().UTC()}
	if err := r.notifier.Notify(ctx, ch); err != nil {
		r.lg.Warn("notify_failed", err, map[string]any{"key": key, "source": source})
	}
}
