package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"syscall"

	"ghost-kitchen/internal/app/api"
	"ghost-kitchen/internal/common/logger"
	"ghost-kitchen/internal/config"
	"ghost-kitchen/internal/microservices/notificator"
)

func main() {
	mode := flag.String("mode", "api-server", "api-server | notification-subscriber")
	cfgPath := flag.String("config", "", "path to a YAML config file")
	port := flag.Int("port", 0, "api-server: http port, overrides config")
	maxConc := flag.Int("max-concurrent", 0, "api-server: max concurrent requests, overrides config")
	flag.Parse()

	path := *cfgPath
	if path == "" {
		p, err := config.FindConfig()
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(2)
		}
		path = p
	}
	cfg, err := config.Load(path)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	if *port > 0 {
		cfg.HTTP.Port = *port
	}
	if *maxConc > 0 {
		cfg.HTTP.MaxConcurrent = *maxConc
	}
	if err := logger.Init(cfg.LogLevel); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	lg := logger.New("bootstrap")
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	switch *mode {
	case "api-server":
		lg.Info("service_started", map[string]any{"service": "api-server", "port": cfg.HTTP.Port, "max_concurrent": cfg.HTTP.MaxConcurrent, "config": path})
		if err := api.Run(ctx, cfg); err != nil {
			lg.Error("fatal", err, nil)
			os.Exit(1)
		}
	case "notification-subscriber":
		lg.Info("service_started", map[string]any{"service": "notification-subscriber", "notifier": cfg.Notifier.Backend})
		if err := notificator.Run(ctx, cfg); err != nil {
			lg.Error("fatal", err, nil)
			os.Exit(1)
		}
	default:
		fmt.Fprintln(os.Stderr, "--mode must be api-server or notification-subscriber")
		os.Exit(2)
	}
	lg.Info("service_stopped", map[string]any{"mode": *mode})
}
