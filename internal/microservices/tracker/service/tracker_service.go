package service

import (
	"context"
	"fmt"
	"time"

	"ghost-kitchen/internal/common/logger"
	"ghost-kitchen/internal/domain"
	"ghost-kitchen/internal/repository"
	"ghost-kitchen/internal/store"
)

type TrackerServiceInterface interface {
	Track(ctx context.Context, ticket string) (domain.OrderView, error)
	// Watch emits the current view, then every change to it, until the order
	// is delivered or ctx ends.
	Watch(ctx context.Context, ticket string) (<-chan domain.OrderView, error)
}

type TrackerService struct {
	state repository.StateRepositoryInterface
	poll  time.Duration
	lg    *logger.Logger
}

func NewTrackerService(state repository.StateRepositoryInterface, poll time.Duration) *TrackerService {
	if poll <= 0 {
		poll = 2 * time.Second
	}
	return &TrackerService{state: state, poll: poll, lg: logger.New("tracker")}
}

// Track finds the newest undelivered order for a ticket code.
func (s *TrackerService) Track(ctx context.Context, ticket string) (domain.OrderView, error) {
	code, err := domain.NormalizeTicket(ticket)
	if err != nil {
		return domain.OrderView{}, err
	}
	orders, err := s.state.Orders(ctx)
	if err != nil {
		return domain.OrderView{}, err
	}

	var found *domain.Order
	for i := range orders {
		o := &orders[i]
		if o.TicketCode != code || !o.Active() {
			continue
		}
		if found == nil || o.CreatedAt.After(found.CreatedAt) {
			found = o
		}
	}
	if found == nil {
		return domain.OrderView{}, fmt.Errorf("no active order for %s: %w", code, domain.ErrNotFound)
	}
	return domain.OrderView{Order: *found, OrdersAhead: domain.OrdersAhead(*found, orders)}, nil
}

func (s *TrackerService) Watch(ctx context.Context, ticket string) (<-chan domain.OrderView, error) {
	first, err := s.Track(ctx, ticket)
	if err != nil {
		return nil, err
	}

	wctx, cancel := context.WithCancel(ctx)
	changes, err := s.state.Subscribe(wctx)
	if err != nil {
		// polling alone still bounds staleness
		s.lg.Warn("watch_subscribe_failed", err, map[string]any{"order_id": first.Order.ID})
		changes = nil
	}

	out := make(chan domain.OrderView, 1)
	go func() {
		defer close(out)
		defer cancel()
		ticker := time.NewTicker(s.poll)
		defer ticker.Stop()

		last := first
		if !s.emit(ctx, out, last) {
			return
		}
		for !last.Order.Status.IsTerminal() {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
			case ch, ok := <-changes:
				if !ok {
					changes = nil
					continue
				}
				if ch.Key != store.KeyOrders {
					continue
				}
			}

			v, ok, err := s.reload(ctx, first.Order.ID)
			if err != nil {
				s.lg.Warn("watch_reload_failed", err, map[string]any{"order_id": first.Order.ID})
				continue
			}
			if !ok || (v.Order.Status == last.Order.Status && v.OrdersAhead == last.OrdersAhead) {
				continue
			}
			last = v
			if !s.emit(ctx, out, last) {
				return
			}
		}
	}()
	return out, nil
}

func (s *TrackerService) reload(ctx context.Context, orderID string) (domain.OrderView, bool, error) {
	orders, err := s.state.Orders(ctx)
	if err != nil {
		return domain.OrderView{}, false, err
	}
	for _, o := range orders {
		if o.ID == orderID {
			return domain.OrderView{Order: o, OrdersAhead: domain.OrdersAhead(o, orders)}, true, nil
		}
	}
	return domain.OrderView{}, false, nil
}

func (s *TrackerService) emit(ctx context.Context, out chan<- domain.OrderView, v domain.OrderView) bool {
	select {
	case out <- v:
		return true
	case <-ctx.Done():
		return false
	}
}
