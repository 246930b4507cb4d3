// Package backends opens the store, notifier and cart storage named in the
// configuration and owns their connections.
package backends

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	goredis "github.com/redis/go-redis/v9"

	"ghost-kitchen/internal/common/logger"
	"ghost-kitchen/internal/config"
	"ghost-kitchen/internal/connections/database"
	"ghost-kitchen/internal/connections/rabbitmq"
	"ghost-kitchen/internal/connections/redis"
	"ghost-kitchen/internal/repository"
	"ghost-kitchen/internal/store"
)

type Backends struct {
	Store    store.Store
	Notifier store.Notifier
	Carts    repository.CartRepository

	mem    *store.Memory
	pool   *pgxpool.Pool
	rc     *goredis.Client
	rmq    *rabbitmq.Client
	closed bool
}

// Open connects only to what the configuration uses. Connections are shared:
// a Redis store and a Redis cart use one client.
func Open(ctx context.Context, cfg *config.Config) (_ *Backends, err error) {
	b := &Backends{}
	defer func() {
		if err != nil {
			b.Close()
		}
	}()

	switch cfg.Store.Backend {
	case "memory":
		b.Store = b.memory()
	case "redis":
		rc, err := b.redis(ctx, cfg.Redis)
		if err != nil {
			return nil, err
		}
		b.Store = store.NewRedisStore(rc)
	case "postgres":
		pool, err := b.postgres(ctx, cfg.Database)
		if err != nil {
			return nil, err
		}
		b.Store = store.NewPGStore(pool)
	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.Store.Backend)
	}

	switch cfg.Notifier.Backend {
	case "memory":
		b.Notifier = b.memory()
	case "redis":
		rc, err := b.redis(ctx, cfg.Redis)
		if err != nil {
			return nil, err
		}
		b.Notifier = store.NewRedisNotifier(rc)
	case "postgres":
		pool, err := b.postgres(ctx, cfg.Database)
		if err != nil {
			return nil, err
		}
		b.Notifier = store.NewPGNotifier(pool)
	case "rabbitmq":
		rmq, err := rabbitmq.Dial(cfg.RabbitMQ)
		if err != nil {
			return nil, err
		}
		b.rmq = rmq
		logger.New("backends").Info("rabbitmq_connected", map[string]any{"host": cfg.RabbitMQ.Host, "vhost": cfg.RabbitMQ.VHost})
		b.Notifier = store.NewAMQPNotifier(rmq)
	default:
		return nil, fmt.Errorf("unknown notifier backend %q", cfg.Notifier.Backend)
	}

	switch cfg.Cart.Backend {
	case "memory":
		b.Carts = repository.NewMemoryCarts()
	case "redis":
		rc, err := b.redis(ctx, cfg.Redis)
		if err != nil {
			return nil, err
		}
		b.Carts = repository.NewRedisCarts(rc, cfg.Cart.TTL)
	default:
		return nil, fmt.Errorf("unknown cart backend %q", cfg.Cart.Backend)
	}
	return b, nil
}

func (b *Backends) memory() *store.Memory {
	if b.mem == nil {
		b.mem = store.NewMemory()
	}
	return b.mem
}

func (b *Backends) redis(ctx context.Context, cfg config.RedisConfig) (*goredis.Client, error) {
	if b.rc != nil {
		return b.rc, nil
	}
	rc, err := redis.Connect(ctx, cfg)
	if err != nil {
		return nil, err
	}
	b.rc = rc
	return rc, nil
}

func (b *Backends) postgres(ctx context.Context, cfg config.DatabaseConfig) (*pgxpool.Pool, error) {
	if b.pool != nil {
		return b.pool, nil
	}
	if err := database.Migrate(cfg); err != nil {
		return nil, err
	}
	pool, err := database.Connect(ctx, cfg)
	if err != nil {
		return nil, err
	}
	b.pool = pool
	return pool, nil
}

func (b *Backends) Close() {
	if b.closed {
		return
	}
	b.closed = true
	if b.rmq != nil {
		b.rmq.Close()
	}
	if b.rc != nil {
		_ = b.rc.Close()
	}
	if b.pool != nil {
		b.pool.Close()
	}
}
