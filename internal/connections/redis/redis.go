package redis

import (
	"context"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"ghost-kitchen/internal/common/logger"
	"ghost-kitchen/internal/config"
)

const pingTimeout = 5 * time.Second

// Connect returns a client after a successful PING.
func Connect(ctx context.Context, cfg config.RedisConfig) (*goredis.Client, error) {
	client := goredis.NewClient(&goredis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	pctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := client.Ping(pctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping %s: %w", cfg.Addr, err)
	}
	logger.New("redis").Info("redis_connected", map[string]any{"addr": cfg.Addr, "db": cfg.DB})
	return client, nil
}
