package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"ghost-kitchen/internal/domain"
)

const cartUpdateRetries = 5

type redisCarts struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisCarts stores each cart as JSON under cart:<sid>; every save
// refreshes the TTL so abandoned carts expire.
func NewRedisCarts(client *redis.Client, ttl time.Duration) CartRepository {
	return &redisCarts{client: client, ttl: ttl}
}

func (r *redisCarts) Get(ctx context.Context, sid string) ([]domain.CartItem, error) {
	return readCart(ctx, r.client, sid)
}

type cartGetter interface {
	Get(ctx context.Context, key string) *redis.StringCmd
}

func readCart(ctx context.Context, c cartGetter, sid string) ([]domain.CartItem, error) {
	data, err := c.Get(ctx, cartKey(sid)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("redis get cart: %w", err)
	}
	var items []domain.CartItem
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("unmarshal cart: %w", err)
	}
	return items, nil
}

func (r *redisCarts) Save(ctx context.Context, sid string, items []domain.CartItem) error {
	if len(items) == 0 {
		return r.Clear(ctx, sid)
	}
	b, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("marshal cart: %w", err)
	}
	if err := r.client.Set(ctx, cartKey(sid), b, r.ttl).Err(); err != nil {
		return fmt.Errorf("redis set cart: %w", err)
	}
	return nil
}

func (r *redisCarts) Clear(ctx context.Context, sid string) error {
	if err := r.client.Del(ctx, cartKey(sid)).Err(); err != nil {
		return fmt.Errorf("redis delete cart: %w", err)
	}
	return nil
}

// Update is an optimistic transaction: WATCH the key, apply fn, MULTI/EXEC,
// and retry when another writer got in first.
func (r *redisCarts) Update(ctx context.Context, sid string, fn func([]domain.CartItem) ([]domain.CartItem, error)) ([]domain.CartItem, error) {
	key := cartKey(sid)
	var result []domain.CartItem
	txf := func(tx *redis.Tx) error {
		items, err := readCart(ctx, tx, sid)
		if err != nil {
			return err
		}
		items, err = fn(items)
		if err != nil {
			return err
		}
		var b []byte
		if len(items) > 0 {
			if b, err = json.Marshal(items); err != nil {
				return fmt.Errorf("marshal cart: %w", err)
			}
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			if len(items) == 0 {
				pipe.Del(ctx, key)
				return nil
			}
			pipe.Set(ctx, key, b, r.ttl)
			return nil
		})
		result = items
		return err
	}

	for range cartUpdateRetries {
		err := r.client.Watch(ctx, txf, key)
		if errors.Is(err, redis.TxFailedErr) {
			continue
		}
		if err != nil {
			return nil, err
		}
		if len(result) == 0 {
			return nil, nil
		}
		return result, nil
	}
	return nil, fmt.Errorf("redis cart %s: too much contention", sid)
}

func cartKey(sid string) string { return "cart:" + sid }
