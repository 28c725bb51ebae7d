// cmd/engine-server/main.go
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"promoboard-engine/internal/api"
	"promoboard-engine/internal/common/config"
	"promoboard-engine/internal/common/database"
	"promoboard-engine/internal/common/logger"
	"promoboard-engine/internal/common/observability"
	"promoboard-engine/internal/engine"
	"promoboard-engine/internal/engine/outcome"
	"promoboard-engine/internal/engine/ranker"
	"promoboard-engine/internal/engine/revenue"
	"promoboard-engine/internal/engine/stats"
	"promoboard-engine/internal/engine/summary"
	"promoboard-engine/internal/promoapi"
)

// retryWithBackoff attempts to execute a function with exponential backoff
func retryWithBackoff(operation func() error, maxRetries int, initialDelay time.Duration, log *zap.Logger, operationName string) error {
	var err error
	delay := initialDelay

	for i := 0; i < maxRetries; i++ {
		err = operation()
		if err == nil {
			return nil
		}

		if i < maxRetries-1 {
			log.Warn(fmt.Sprintf("%s failed, retrying...", operationName),
				zap.Error(err),
				zap.Int("attempt", i+1),
				zap.Int("maxRetries", maxRetries),
				zap.Duration("nextRetryIn", delay),
			)
			time.Sleep(delay)
			delay *= 2
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operationName, maxRetries, err)
}

func main() {
	zapLog := logger.New("info", "console")
	defer zapLog.Sync()

	log := logger.NewZapAdapter(zapLog)

	zapLog.Info("Starting scheduling engine...")

	cfg, err := config.Load()
	if err != nil {
		zapLog.Fatal("config load failed", zap.Error(err))
	}

	obs := observability.New("engine-server")
	defer obs.Shutdown()

	ctx := context.Background()

	// --- Init Redis with retry ---
	var store *database.RedisClient
	err = retryWithBackoff(func() error {
		var err error
		store, err = database.NewRedis(cfg.Cache.Redis)
		if err != nil {
			return err
		}
		return store.Ping(ctx)
	}, 10, 2*time.Second, zapLog, "Redis connection")

	if err != nil {
		zapLog.Fatal("redis failed after retries", zap.Error(err))
	}
	defer store.Close()
	zapLog.Info("Redis connected successfully")

	// --- Wire the engine ---
	remote := promoapi.NewClient(cfg.Remote, log)
	model := revenue.NewModel(cfg.Revenue)
	ledgerModel := revenue.NewLedgerModel(cfg.Revenue)

	session := engine.NewSession(engine.Dependencies{
		Organizations: remote,
		Stats:         stats.New(remote, log, obs, cfg.Fetcher),
		Ranker:        ranker.New(model),
		Aggregator:    summary.New(model),
		Outcomes:      outcome.New(remote, store, ledgerModel, log, config.GetDuration(cfg.Cache.TTL)),
		Logger:        log,
	})

	zapLog.Info("scheduling session created", zap.String("sessionId", session.ID()))

	srv := api.NewServer(cfg.Server, session, log)

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zapLog.Fatal("api server failed", zap.Error(err))
		}
	}()

	// --- Graceful shutdown ---
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	zapLog.Info("Shutting down...")

	shutdownCtx, cancel := context.WithTimeout(ctx, config.GetDuration(cfg.Server.ShutdownTimeout))
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		zapLog.Error("api server shutdown failed", zap.Error(err))
	}

	zapLog.Info("Shutdown complete")
}
