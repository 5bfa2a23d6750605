package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/noah-isme/prepx-tracker-api/internal/app"
	"github.com/noah-isme/prepx-tracker-api/pkg/config"
	"github.com/noah-isme/prepx-tracker-api/pkg/logger"
)

// @title PrepX Tracker API
// @version 1.0.0
// @description Adaptive practice tracking: answer recording, diagnostics, analytics and practice sessions.
// @BasePath /api/v1
// @schemes http

const sessionSweepInterval = 5 * time.Minute

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	backend, err := app.OpenBackend(ctx, cfg, logr)
	if err != nil {
		logr.Fatal("failed to open statistics store", zap.Error(err))
	}
	defer func() {
		if err := backend.Close(); err != nil {
			logr.Warn("failed to close backend", zap.Error(err))
		}
	}()

	svcs := app.NewServices(cfg, logr, backend, nil)
	router := app.NewRouter(cfg, logr, svcs, backend.Checks())

	go sweepSessions(ctx, svcs, logr)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logr.Info("server starting", zap.String("addr", srv.Addr), zap.String("env", cfg.Env), zap.String("store", cfg.Store.Driver))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Fatal("server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logr.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Error("graceful shutdown failed", zap.Error(err))
	}
}

func sweepSessions(ctx context.Context, svcs *app.Services, logr *zap.Logger) {
	ticker := time.NewTicker(sessionSweepInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if removed := svcs.Sessions.PurgeExpired(); removed > 0 {
				logr.Info("expired sessions purged", zap.Int("count", removed))
			}
		}
	}
}
