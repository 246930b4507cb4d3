package service

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ghost-kitchen/internal/domain"
	"ghost-kitchen/internal/repository"
	"ghost-kitchen/internal/store"
)

func newCart(t *testing.T) (CartServiceInterface, *repository.Repository) {
	t.Helper()
	mem := store.NewMemory()
	repo := repository.New(mem, mem)
	return NewCartService(repository.NewMemoryCarts(), repo), repo
}

func seedClient(t *testing.T, repo *repository.Repository, sid string, purchases int) {
	t.Helper()
	ctx := context.Background()
	require.NoError(t, repo.Update(ctx, "test", func(s *repository.Snapshot) error {
		s.Clients = append(s.Clients, domain.Client{ID: "c-" + sid, Name: sid, TicketCode: "#0001", PurchaseCount: purchases})
		s.TouchClients()
		return nil
	}))
	require.NoError(t, repo.SetActiveClient(ctx, sid, "c-"+sid, "test"))
}

func TestAdd(t *testing.T) {
	ctx := context.Background()
	svc, _ := newCart(t)

	v, err := svc.Add(ctx, "s1", "h1")
	require.NoError(t, err)
	require.Len(t, v.Items, 1)
	assert.Equal(t, 1, v.Items[0].Quantity)

	v, err = svc.Add(ctx, "s1", "h1")
	require.NoError(t, err)
	v, err = svc.Add(ctx, "s1", "b1")
	require.NoError(t, err)
	require.Len(t, v.Items, 2)
	assert.Equal(t, 2, v.Items[0].Quantity)
	assert.Equal(t, 3, v.ItemCount)
	assert.Equal(t, int64(2*12000+1500), v.Subtotal)

	_, err = svc.Add(ctx, "s1", "nope")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	other, err := svc.View(ctx, "s2")
	require.NoError(t, err)
	assert.Empty(t, other.Items)
	assert.NotNil(t, other.Items)
}

func TestUpdateQuantity(t *testing.T) {
	ctx := context.Background()
	svc, _ := newCart(t)
	_, err := svc.Add(ctx, "s1", "p1")
	require.NoError(t, err)

	v, err := svc.UpdateQuantity(ctx, "s1", "p1", 2)
	require.NoError(t, err)
	assert.Equal(t, 3, v.Items[0].Quantity)

	v, err = svc.UpdateQuantity(ctx, "s1", "p1", -3)
	require.NoError(t, err)
	require.Len(t, v.Items, 1, "non-positive result is a no-op")
	assert.Equal(t, 3, v.Items[0].Quantity)

	v, err = svc.UpdateQuantity(ctx, "s1", "p1", -2)
	require.NoError(t, err)
	assert.Equal(t, 1, v.Items[0].Quantity)

	v, err = svc.UpdateQuantity(ctx, "s1", "h2", 1)
	require.NoError(t, err)
	assert.Len(t, v.Items, 1, "absent item is a no-op")
}

func TestUpdateQuantity_LockedForFidelityOrder(t *testing.T) {
	ctx := context.Background()
	svc, repo := newCart(t)
	seedClient(t, repo, "s1", domain.FidelityThreshold)

	v, err := svc.Add(ctx, "s1", "h3")
	require.NoError(t, err)
	assert.True(t, v.Locked)

	_, err = svc.UpdateQuantity(ctx, "s1", "h3", 1)
	assert.ErrorIs(t, err, domain.ErrCartLocked)
	_, err = svc.Remove(ctx, "s1", "h3")
	assert.ErrorIs(t, err, domain.ErrCartLocked)

	v, err = svc.View(ctx, "s1")
	require.NoError(t, err)
	require.Len(t, v.Items, 1)
	assert.Equal(t, 1, v.Items[0].Quantity)

	seedClient(t, repo, "s2", 4)
	_, err = svc.Add(ctx, "s2", "h3")
	require.NoError(t, err)
	_, err = svc.UpdateQuantity(ctx, "s2", "h3", 1)
	assert.NoError(t, err)
}

func TestRemoveAndClear(t *testing.T) {
	ctx := context.Background()
	svc, _ := newCart(t)
	for _, id := range []string{"h1", "p1", "b1"} {
		_, err := svc.Add(ctx, "s1", id)
		require.NoError(t, err)
	}

	v, err := svc.Remove(ctx, "s1", "p1")
	require.NoError(t, err)
	require.Len(t, v.Items, 2)
	assert.Equal(t, "h1", v.Items[0].ID)
	assert.Equal(t, "b1", v.Items[1].ID)

	require.NoError(t, svc.Clear(ctx, "s1"))
	v, err = svc.View(ctx, "s1")
	require.NoError(t, err)
	assert.Empty(t, v.Items)
	assert.Equal(t, int64(0), v.Subtotal)
}

func TestAdd_ConcurrentIncrementsAllLand(t *testing.T) {
	ctx := context.Background()
	svc, _ := newCart(t)

	const n = 50
	var wg sync.WaitGroup
	for range n {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.Add(ctx, "s1", "h1")
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	v, err := svc.View(ctx, "s1")
	require.NoError(t, err)
	require.Len(t, v.Items, 1)
	assert.Equal(t, n, v.Items[0].Quantity)
}
