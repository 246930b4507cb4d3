package service

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
	"slices"
	"sync"

	"ghost-kitchen/internal/common/logger"
	"ghost-kitchen/internal/config"
	"ghost-kitchen/internal/domain"
	"ghost-kitchen/internal/repository"
)

// Stepper moves an order one status forward atomically. The order service
// implements it.
type Stepper interface {
	Step(ctx context.Context, orderID string) (domain.Order, error)
}

type KitchenServiceInterface interface {
	Login(username, password string) (string, error)
	Logout(token string)
	Authorize(token string) error
	Board(ctx context.Context) ([]domain.BoardEntry, error)
	Act(ctx context.Context, orderID string) (domain.Order, error)
}

// KitchenService gates the panel with one shared credential. Tokens live in
// memory only and die with the process.
type KitchenService struct {
	state    repository.StateRepositoryInterface
	orders   Stepper
	username string
	password string

	mu     sync.RWMutex
	tokens map[string]struct{}
	lg     *logger.Logger
}

func NewKitchenService(state repository.StateRepositoryInterface, orders Stepper, cred config.KitchenConfig) KitchenServiceInterface {
	return &KitchenService{
		state:    state,
		orders:   orders,
		username: cred.Username,
		password: cred.Password,
		tokens:   make(map[string]struct{}),
		lg:       logger.New("kitchen"),
	}
}

func (ks *KitchenService) Login(username, password string) (string, error) {
	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(ks.username)) == 1
	passOK := subtle.ConstantTimeCompare([]byte(password), []byte(ks.password)) == 1
	if !userOK || !passOK {
		ks.lg.Warn("kitchen_login_rejected", domain.ErrUnauthorized, map[string]any{"username": username})
		return "", domain.ErrUnauthorized
	}

	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generate token: %w", err)
	}
	token := hex.EncodeToString(b)

	ks.mu.Lock()
	ks.tokens[token] = struct{}{}
	ks.mu.Unlock()
	ks.lg.Info("kitchen_unlocked", nil)
	return token, nil
}

func (ks *KitchenService) Logout(token string) {
	ks.mu.Lock()
	delete(ks.tokens, token)
	ks.mu.Unlock()
}

func (ks *KitchenService) Authorize(token string) error {
	ks.mu.RLock()
	_, ok := ks.tokens[token]
	ks.mu.RUnlock()
	if token == "" || !ok {
		return domain.ErrUnauthorized
	}
	return nil
}

// Board lists undelivered orders oldest first, each with its one next step.
func (ks *KitchenService) Board(ctx context.Context) ([]domain.BoardEntry, error) {
	orders, err := ks.state.Orders(ctx)
	if err != nil {
		return nil, err
	}
	slices.SortStableFunc(orders, func(a, b domain.Order) int { return a.CreatedAt.Compare(b.CreatedAt) })

	board := make([]domain.BoardEntry, 0, len(orders))
	for _, o := range orders {
		next, ok := o.Status.Next()
		if !ok {
			continue
		}
		board = append(board, domain.BoardEntry{Order: o, NextStatus: next})
	}
	return board, nil
}

// Act moves an order exactly one step forward. Two panels clicking at once
// take two consecutive steps; neither can move the order backward.
func (ks *KitchenService) Act(ctx context.Context, orderID string) (domain.Order, error) {
	return ks.orders.Step(ctx, orderID)
}
