package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ghost-kitchen/internal/domain"
	"ghost-kitchen/internal/repository"
	"ghost-kitchen/internal/store"
)

var fixedNow = time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

func newService(t *testing.T) (RegistryServiceInterface, *repository.Repository) {
	t.Helper()
	mem := store.NewMemory()
	repo := repository.New(mem, mem)
	return NewRegistryService(repo, func() time.Time { return fixedNow }), repo
}

func TestRegister_AssignsSequentialTickets(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService(t)

	a, err := svc.Register(ctx, "s1", "  Ana ")
	require.NoError(t, err)
	assert.Equal(t, "Ana", a.Name)
	assert.Equal(t, "#0001", a.TicketCode)
	assert.Equal(t, 0, a.PurchaseCount)
	assert.False(t, a.HasPlayedDarts)
	assert.Equal(t, fixedNow, a.RegisteredAt)

	b, err := svc.Register(ctx, "s2", "Beto")
	require.NoError(t, err)
	assert.Equal(t, "#0002", b.TicketCode)

	cur, err := svc.Current(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, a.ID, cur.ID)
	cur, err = svc.Current(ctx, "s2")
	require.NoError(t, err)
	assert.Equal(t, b.ID, cur.ID)
}

func TestRegister_DuplicateNameIgnoresCase(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService(t)

	_, err := svc.Register(ctx, "s1", "Ana Maria")
	require.NoError(t, err)
	_, err = svc.Register(ctx, "s2", "ANA MARIA")
	assert.ErrorIs(t, err, domain.ErrDuplicateName)
}

func TestRegister_InvalidNames(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService(t)

	_, err := svc.Register(ctx, "s1", "   ")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	long := make([]rune, maxNameLength+1)
	for i := range long {
		long[i] = 'ñ'
	}
	_, err = svc.Register(ctx, "s1", string(long))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestRegister_Capacity(t *testing.T) {
	ctx := context.Background()
	svc, repo := newService(t)

	var last string
	for i := 1; i <= domain.MaxClients; i++ {
		c, err := svc.Register(ctx, "s", fmt.Sprintf("client %d", i))
		require.NoError(t, err)
		assert.Greater(t, c.TicketCode, last)
		last = c.TicketCode
	}
	assert.Equal(t, "#0099", last)

	_, err := svc.Register(ctx, "s", "one too many")
	assert.ErrorIs(t, err, domain.ErrCapacityExceeded)

	clients, err := repo.Clients(ctx)
	require.NoError(t, err)
	assert.Len(t, clients, domain.MaxClients)
}

func TestLogin(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService(t)

	for i := 0; i < 7; i++ {
		_, err := svc.Register(ctx, "owner", fmt.Sprintf("c%d", i))
		require.NoError(t, err)
	}

	for _, code := range []string{"#0007", "0007", "7", "#7"} {
		c, err := svc.Login(ctx, "browser", code)
		require.NoError(t, err, code)
		assert.Equal(t, "c6", c.Name, code)
	}

	cur, err := svc.Current(ctx, "browser")
	require.NoError(t, err)
	assert.Equal(t, "#0007", cur.TicketCode)

	_, err = svc.Login(ctx, "browser", "42")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = svc.Login(ctx, "browser", "abc")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestCurrentAndLogout(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService(t)

	_, err := svc.Current(ctx, "s1")
	assert.ErrorIs(t, err, domain.ErrNotRegistered)

	_, err = svc.Register(ctx, "s1", "Ana")
	require.NoError(t, err)
	require.NoError(t, svc.Logout(ctx, "s1"))

	_, err = svc.Current(ctx, "s1")
	assert.ErrorIs(t, err, domain.ErrNotRegistered)
}
