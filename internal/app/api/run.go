// Package api assembles the HTTP service: backends, services, router and
// server.
package api

import (
	"context"
	"fmt"
	"net/http"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"ghost-kitchen/internal/app/backends"
	"ghost-kitchen/internal/assistant"
	"ghost-kitchen/internal/common/httpx"
	"ghost-kitchen/internal/common/logger"
	"ghost-kitchen/internal/config"
	"ghost-kitchen/internal/repository"
	"ghost-kitchen/internal/store"
)

// Run serves until ctx is done.
func Run(ctx context.Context, cfg *config.Config) error {
	lg := logger.New("api")

	// 1. Backends
	b, err := backends.Open(ctx, cfg)
	if err != nil {
		return fmt.Errorf("open backends: %w", err)
	}
	defer b.Close()

	// 2. Shared state
	state := repository.New(b.Store, b.Notifier)

	// 3. Assistant; without a key every answer is the fallback
	var gen assistant.Generator
	if cfg.Assistant.APIKey != "" {
		g, err := assistant.NewGemini(ctx, cfg.Assistant)
		if err != nil {
			return fmt.Errorf("assistant: %w", err)
		}
		gen = g
	} else {
		lg.Warn("assistant_disabled", nil, map[string]any{"reason": "no api key"})
	}
	asst, err := assistant.NewService(gen, state, assistant.Options{
		Temperature: float32(cfg.Assistant.Temperature),
		Timeout:     cfg.Assistant.Timeout,
	})
	if err != nil {
		return fmt.Errorf("assistant: %w", err)
	}

	// 4. Router and server
	router := NewRouter(Deps{
		State:     state,
		Carts:     b.Carts,
		Assistant: asst,
		HTTP:      cfg.HTTP,
		Kitchen:   cfg.Kitchen,
		Tracking:  cfg.Tracking,
		Ping: func(r *http.Request) error {
			_, _, err := b.Store.Get(r.Context(), store.KeyOrders)
			return err
		},
	})
	srv := httpx.New(fmt.Sprintf(":%d", cfg.HTTP.Port), otelhttp.NewHandler(router, "ghost-kitchen"))

	lg.Info("http_listening", map[string]any{
		"port":     cfg.HTTP.Port,
		"store":    cfg.Store.Backend,
		"notifier": cfg.Notifier.Backend,
		"cart":     cfg.Cart.Backend,
	})
	return srv.Run(ctx)
}
