package repository

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ghost-kitchen/internal/domain"
)

var fries = domain.CartItem{MenuItem: domain.MenuItem{ID: "p1", Name: "Papas", Price: 6000}, Quantity: 2}

func exerciseCarts(t *testing.T, carts CartRepository) {
	ctx := context.Background()

	items, err := carts.Get(ctx, "s1")
	require.NoError(t, err)
	assert.Empty(t, items)

	require.NoError(t, carts.Save(ctx, "s1", []domain.CartItem{fries}))
	items, err = carts.Get(ctx, "s1")
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, fries, items[0])

	other, err := carts.Get(ctx, "s2")
	require.NoError(t, err)
	assert.Empty(t, other)

	require.NoError(t, carts.Clear(ctx, "s1"))
	items, err = carts.Get(ctx, "s1")
	require.NoError(t, err)
	assert.Empty(t, items)
}

func exerciseCartUpdate(t *testing.T, carts CartRepository) {
	ctx := context.Background()

	items, err := carts.Update(ctx, "s1", func(cur []domain.CartItem) ([]domain.CartItem, error) {
		assert.Empty(t, cur)
		return append(cur, fries), nil
	})
	require.NoError(t, err)
	assert.Equal(t, []domain.CartItem{fries}, items)

	boom := errors.New("boom")
	_, err = carts.Update(ctx, "s1", func([]domain.CartItem) ([]domain.CartItem, error) { return nil, boom })
	assert.ErrorIs(t, err, boom)
	items, err = carts.Get(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, []domain.CartItem{fries}, items, "failed update leaves the cart")

	items, err = carts.Update(ctx, "s1", func([]domain.CartItem) ([]domain.CartItem, error) { return nil, nil })
	require.NoError(t, err)
	assert.Empty(t, items)
	items, err = carts.Get(ctx, "s1")
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestMemoryCarts(t *testing.T) {
	exerciseCarts(t, NewMemoryCarts())
	exerciseCartUpdate(t, NewMemoryCarts())
}

func TestMemoryCarts_ConcurrentUpdates(t *testing.T) {
	ctx := context.Background()
	carts := NewMemoryCarts()
	require.NoError(t, carts.Save(ctx, "s1", []domain.CartItem{fries}))

	const n = 20
	var wg sync.WaitGroup
	for range n {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := carts.Update(ctx, "s1", func(cur []domain.CartItem) ([]domain.CartItem, error) {
				cur[0].Quantity++
				return cur, nil
			})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	items, err := carts.Get(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, fries.Quantity+n, items[0].Quantity)
}

func TestSubtractItems(t *testing.T) {
	burger := domain.CartItem{MenuItem: domain.MenuItem{ID: "h1"}, Quantity: 1}
	cur := []domain.CartItem{{MenuItem: fries.MenuItem, Quantity: 3}, burger}
	ordered := []domain.CartItem{fries}

	out := SubtractItems(cur, ordered)
	require.Len(t, out, 2)
	assert.Equal(t, 1, out[0].Quantity)
	assert.Equal(t, burger, out[1])

	assert.Empty(t, SubtractItems([]domain.CartItem{fries}, ordered))
}

func TestMemoryCarts_ReturnsCopies(t *testing.T) {
	ctx := context.Background()
	carts := NewMemoryCarts()
	require.NoError(t, carts.Save(ctx, "s1", []domain.CartItem{fries}))

	items, _ := carts.Get(ctx, "s1")
	items[0].Quantity = 99
	again, _ := carts.Get(ctx, "s1")
	assert.Equal(t, 2, again[0].Quantity)
}

func TestRedisCarts(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()

	exerciseCarts(t, NewRedisCarts(client, time.Hour))
	exerciseCartUpdate(t, NewRedisCarts(client, time.Hour))
}

func TestRedisCarts_UpdateRetriesAfterConflict(t *testing.T) {
	ctx := context.Background()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()
	carts := NewRedisCarts(client, time.Hour)
	require.NoError(t, carts.Save(ctx, "s1", []domain.CartItem{fries}))

	burger := domain.CartItem{MenuItem: domain.MenuItem{ID: "h1", Price: 12000}, Quantity: 1}
	calls := 0
	items, err := carts.Update(ctx, "s1", func(cur []domain.CartItem) ([]domain.CartItem, error) {
		calls++
		if calls == 1 {
			// another writer adds a burger while this update is in flight
			require.NoError(t, carts.Save(ctx, "s1", append(cur, burger)))
		}
		return SubtractItems(cur, []domain.CartItem{fries}), nil
	})
	require.NoError(t, err)
	assert.Equal(t, 2, calls)
	assert.Equal(t, []domain.CartItem{burger}, items)

	stored, err := carts.Get(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, []domain.CartItem{burger}, stored)
}

func TestRedisCarts_Expire(t *testing.T) {
	ctx := context.Background()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()
	carts := NewRedisCarts(client, time.Minute)

	require.NoError(t, carts.Save(ctx, "s1", []domain.CartItem{fries}))
	assert.Equal(t, time.Minute, mr.TTL("cart:s1"))

	mr.FastForward(2 * time.Minute)
	items, err := carts.Get(ctx, "s1")
	require.NoError(t, err)
	assert.Empty(t, items)
}
