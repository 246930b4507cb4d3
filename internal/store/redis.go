package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"ghost-kitchen/internal/common/logger"
	"ghost-kitchen/internal/domain"
)

const (
	redisKeyPrefix     = "gk:"
	RedisChangeChannel = "ghost-kitchen:changes"
)

type RedisStore struct {
	client *redis.Client
}

func NewRedisStore(client *redis.Client) *RedisStore { return &RedisStore{client: client} }

func (r *RedisStore) Get(ctx context.Context, key string) (string, bool, error) {
	v, err := r.client.Get(ctx, redisKeyPrefix+key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("redis get %s: %w", key, err)
	}
	return v, true, nil
}

func (r *RedisStore) Set(ctx context.Context, key, value string) error {
	if err := r.client.Set(ctx, redisKeyPrefix+key, value, 0).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", key, err)
	}
	return nil
}

// RedisNotifier broadcasts changes over a pub/sub channel.
type RedisNotifier struct {
	client *redis.Client
	lg     *logger.Logger
}

func NewRedisNotifier(client *redis.Client) *RedisNotifier {
	return &RedisNotifier{client: client, lg: logger.New("store-redis")}
}

func (r *RedisNotifier) Notify(ctx context.Context, ch domain.Change) error {
	b, err := encodeChange(ch)
	if err != nil {
		return err
	}
	if err := r.client.Publish(ctx, RedisChangeChannel, b).Err(); err != nil {
		return fmt.Errorf("redis publish: %w", err)
	}
	return nil
}

func (r *RedisNotifier) Subscribe(ctx context.Context) (<-chan domain.Change, error) {
	ps := r.client.Subscribe(ctx, RedisChangeChannel)
	// wait for the subscription ack so nothing published after return is lost
	if _, err := ps.Receive(ctx); err != nil {
		_ = ps.Close()
		return nil, fmt.Errorf("redis subscribe: %w", err)
	}

	out := make(chan domain.Change, subscriberBuffer)
	go func() {
		defer close(out)
		defer ps.Close()
		msgs := ps.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case m, ok := <-msgs:
				if !ok {
					return
				}
				ch, err := decodeChange([]byte(m.Payload))
				if err != nil {
					r.lg.Warn("change_decode_failed", err, map[string]any{"payload": m.Payload})
					continue
				}
				select {
				case out <- ch:
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return out, nil
}
