package service

import (
	"context"
	"slices"

	"ghost-kitchen/internal/domain"
	"ghost-kitchen/internal/repository"
)

const topClientsLimit = 5

const (
	TierElite   = "elite"
	TierWarrior = "warrior"
	TierRecruit = "recruit"
)

type ReportsServiceInterface interface {
	Stats(ctx context.Context) (domain.Stats, error)
	TopClients(ctx context.Context) ([]domain.ClientRank, error)
}

type ReportsService struct {
	state repository.StateRepositoryInterface
}

func NewReportsService(state repository.StateRepositoryInterface) *ReportsService {
	return &ReportsService{state: state}
}

func (s *ReportsService) Stats(ctx context.Context) (domain.Stats, error) {
	orders, err := s.state.Orders(ctx)
	if err != nil {
		return domain.Stats{}, err
	}
	var st domain.Stats
	for _, o := range orders {
		switch o.Status {
		case domain.StatusQueued:
			st.Queued++
		case domain.StatusPreparing:
			st.Preparing++
		case domain.StatusReady:
			st.Ready++
		}
	}
	return st, nil
}

// TopClients ranks clients by orders placed under their ticket code. Ties
// keep registration order.
func (s *ReportsService) TopClients(ctx context.Context) ([]domain.ClientRank, error) {
	clients, err := s.state.Clients(ctx)
	if err != nil {
		return nil, err
	}
	orders, err := s.state.Orders(ctx)
	if err != nil {
		return nil, err
	}

	perTicket := make(map[string]int, len(clients))
	for _, o := range orders {
		perTicket[o.TicketCode]++
	}

	ranks := make([]domain.ClientRank, 0, len(clients))
	for _, c := range clients {
		if n := perTicket[c.TicketCode]; n > 0 {
			ranks = append(ranks, domain.ClientRank{Name: c.Name, TicketCode: c.TicketCode, OrderCount: n})
		}
	}
	slices.SortStableFunc(ranks, func(a, b domain.ClientRank) int { return b.OrderCount - a.OrderCount })
	if len(ranks) > topClientsLimit {
		ranks = ranks[:topClientsLimit]
	}
	for i := range ranks {
		ranks[i].Rank = i + 1
		ranks[i].Tier = tier(i)
	}
	return ranks, nil
}

func tier(i int) string {
	switch {
	case i == 0:
		return TierElite
	case i < 3:
		return TierWarrior
	default:
		return TierRecruit
	}
}
