package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/pageza/nutrilog/config"
	"github.com/pageza/nutrilog/internal/api"
	"github.com/pageza/nutrilog/internal/middleware"
	"github.com/pageza/nutrilog/internal/router"
	"github.com/pageza/nutrilog/internal/server"
	"github.com/pageza/nutrilog/internal/storage"
)

const shutdownTimeout = 10 * time.Second

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the tracker as a JSON API",
		Args:  cobra.NoArgs,
		RunE:  runServe,
	}
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	a, err := openApp(cmd, true)
	if err != nil {
		return err
	}
	defer a.Close()

	var inference []gin.HandlerFunc
	if cfg.InferenceRateLimit > 0 {
		client, err := storage.NewRedisClient(ctx, cfg, logger)
		if err != nil {
			logger.Warn("rate limiting disabled, redis unavailable", zap.Error(err))
		} else {
			defer client.Close()
			limiter := middleware.NewInferenceRateLimiter(client, cfg.InferenceRateLimit, cfg.InferenceRateWindow, cfg.RedisKeyPrefix+"ratelimit:", logger)
			inference = append(inference, limiter.Middleware())
			logger.Info("rate limiting inference routes",
				zap.Int("limit", cfg.InferenceRateLimit),
				zap.Duration("window", cfg.InferenceRateWindow))
		}
	}

	if config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	handler := api.NewTrackerHandler(a.tracker, clock, logger)
	srv := server.New(cfg.ServerAddr(), router.SetupRouter(handler, cfg.CORSOrigins, logger, inference...), logger)
	return serveUntilSignal(ctx, srv)
}

// serveUntilSignal runs srv until it fails, ctx ends or the process receives
// SIGINT or SIGTERM, then shuts it down gracefully.
func serveUntilSignal(ctx context.Context, srv *server.Server) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errChan := make(chan error, 1)
	go func() {
		errChan <- srv.Start()
	}()

	select {
	case err := <-errChan:
		return err
	case <-ctx.Done():
		logger.Info("shutting down server")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}
	if err := <-errChan; err != nil {
		return err
	}
	logger.Info("server stopped")
	return nil
}
