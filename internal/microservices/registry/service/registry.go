package service

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"ghost-kitchen/internal/common/logger"
	"ghost-kitchen/internal/domain"
	"ghost-kitchen/internal/repository"
)

const (
	source        = "registry"
	maxNameLength = 60
)

type RegistryServiceInterface interface {
	Register(ctx context.Context, sid, name string) (domain.Client, error)
	Login(ctx context.Context, sid, ticket string) (domain.Client, error)
	Current(ctx context.Context, sid string) (domain.Client, error)
	Logout(ctx context.Context, sid string) error
}

type RegistryService struct {
	repo repository.StateRepositoryInterface
	now  func() time.Time
	lg   *logger.Logger
}

func NewRegistryService(repo repository.StateRepositoryInterface, now func() time.Time) RegistryServiceInterface {
	if now == nil {
		now = time.Now
	}
	return &RegistryService{repo: repo, now: now, lg: logger.New(source)}
}

// Register creates a client with the next ticket code and makes it the
// session's active client.
func (s *RegistryService) Register(ctx context.Context, sid, name string) (domain.Client, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return domain.Client{}, fmt.Errorf("%w: name is required", domain.ErrInvalidInput)
	}
	if utf8.RuneCountInString(name) > maxNameLength {
		return domain.Client{}, fmt.Errorf("%w: name longer than %d characters", domain.ErrInvalidInput, maxNameLength)
	}

	var created domain.Client
	err := s.repo.Update(ctx, source, func(snap *repository.Snapshot) error {
		if snap.ClientByName(name) != nil {
			return fmt.Errorf("%q: %w", name, domain.ErrDuplicateName)
		}
		if len(snap.Clients) >= domain.MaxClients {
			return domain.ErrCapacityExceeded
		}
		created = domain.Client{
			ID:           uuid.NewString(),
			Name:         name,
			TicketCode:   domain.FormatTicket(len(snap.Clients) + 1),
			RegisteredAt: s.now().UTC(),
		}
		snap.Clients = append(snap.Clients, created)
		snap.TouchClients()
		return nil
	})
	if err != nil {
		return domain.Client{}, err
	}

	if err := s.repo.SetActiveClient(ctx, sid, created.ID, source); err != nil {
		return domain.Client{}, err
	}
	s.lg.InfoCtx(ctx, "client_registered", map[string]any{"ticket": created.TicketCode})
	return created, nil
}

func (s *RegistryService) Login(ctx context.Context, sid, ticket string) (domain.Client, error) {
	code, err := domain.NormalizeTicket(ticket)
	if err != nil {
		return domain.Client{}, err
	}
	clients, err := s.repo.Clients(ctx)
	if err != nil {
		return domain.Client{}, err
	}
	for _, c := range clients {
		if c.TicketCode == code {
			if err := s.repo.SetActiveClient(ctx, sid, c.ID, source); err != nil {
				return domain.Client{}, err
			}
			return c, nil
		}
	}
	return domain.Client{}, fmt.Errorf("ticket %s: %w", code, domain.ErrNotFound)
}

func (s *RegistryService) Current(ctx context.Context, sid string) (domain.Client, error) {
	c, err := s.repo.ActiveClient(ctx, sid)
	if err != nil {
		return domain.Client{}, err
	}
	if c == nil {
		return domain.Client{}, domain.ErrNotRegistered
	}
	return *c, nil
}

func (s *RegistryService) Logout(ctx context.Context, sid string) error {
	return s.repo.SetActiveClient(ctx, sid, "", source)
}
