package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/noah-isme/prepx-tracker-api/internal/app"
	"github.com/noah-isme/prepx-tracker-api/internal/cli"
	"github.com/noah-isme/prepx-tracker-api/pkg/config"
	"github.com/noah-isme/prepx-tracker-api/pkg/logger"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := cli.NewRootCommand(open).ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func open(ctx context.Context) (*app.Services, func() error, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}
	logr, err := logger.New(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("init logger: %w", err)
	}
	backend, err := app.OpenBackend(ctx, cfg, logr)
	if err != nil {
		_ = logr.Sync()
		return nil, nil, err
	}
	svcs := app.NewServices(cfg, logr, backend, nil)
	return svcs, func() error {
		_ = logr.Sync()
		return backend.Close()
	}, nil
}
