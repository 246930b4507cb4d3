package service

import (
	"context"
	"math/rand/v2"

	"ghost-kitchen/internal/common/logger"
	"ghost-kitchen/internal/domain"
	"ghost-kitchen/internal/repository"
)

const source = "darts"

type DartsServiceInterface interface {
	Play(ctx context.Context, sid string) (domain.Prize, error)
}

type DartsService struct {
	state repository.StateRepositoryInterface
	// draw returns an index in [0, n)
	draw func(n int) int
	lg   *logger.Logger
}

func NewDartsService(state repository.StateRepositoryInterface, draw func(n int) int) DartsServiceInterface {
	if draw == nil {
		draw = rand.IntN
	}
	return &DartsService{state: state, draw: draw, lg: logger.New(source)}
}

// Play throws the client's single dart. The drawn prize replaces any stored
// one; "try again" leaves nothing pending.
func (s *DartsService) Play(ctx context.Context, sid string) (domain.Prize, error) {
	clientID, err := s.state.ActiveClientID(ctx, sid)
	if err != nil {
		return domain.Prize{}, err
	}
	if clientID == "" {
		return domain.Prize{}, domain.ErrNotRegistered
	}

	var won domain.Prize
	err = s.state.Update(ctx, source, func(snap *repository.Snapshot) error {
		c := snap.Client(clientID)
		if c == nil {
			return domain.ErrNotRegistered
		}
		if c.HasPlayedDarts {
			return domain.ErrAlreadyPlayed
		}
		won = domain.PrizeTable[s.draw(len(domain.PrizeTable))]
		c.HasPlayedDarts = true
		c.ActivePrize = nil
		if won.Pending() {
			p := won
			c.ActivePrize = &p
		}
		snap.TouchClients()
		return nil
	})
	if err != nil {
		return domain.Prize{}, err
	}
	s.lg.InfoCtx(ctx, "darts_played", map[string]any{"client_id": clientID, "prize": won.Kind})
	return won, nil
}
