package notificator

import (
	"context"
	"errors"
	"fmt"

	"ghost-kitchen/internal/app/backends"
	"ghost-kitchen/internal/config"
	"ghost-kitchen/internal/microservices/notificator/service"
	"ghost-kitchen/internal/store"
)

// Start blocks, logging store changes until ctx is cancelled.
func Start(ctx context.Context, n store.Notifier) error {
	return service.NewNotificatorService(n).Notify(ctx)
}

// ErrLocalNotifier rejects a standalone subscriber on the in-process bus,
// which no other process can publish to.
var ErrLocalNotifier = errors.New("notification-subscriber needs a shared notifier backend (redis, postgres or rabbitmq), not memory")

// Run opens the configured notifier and runs Start on it.
func Run(ctx context.Context, cfg *config.Config) error {
	if cfg.Notifier.Backend == "memory" {
		return ErrLocalNotifier
	}
	b, err := backends.Open(ctx, cfg)
	if err != nil {
		return fmt.Errorf("open backends: %w", err)
	}
	defer b.Close()
	return Start(ctx, b.Notifier)
}
