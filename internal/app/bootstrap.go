// Package app holds the startup and shutdown wiring shared by both recommender binaries.
package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"product-recommender/internal/api"
	"product-recommender/internal/common/config"
	"product-recommender/internal/common/database"
	"product-recommender/internal/common/logger"
	"product-recommender/internal/common/observability"
)

// Runtime is the process-wide state built once at startup.
type Runtime struct {
	Config *config.Config
	Zap    *zap.Logger
	Logger logger.Logger
	Obs    *observability.Observability
	// Redis is nil when no address is configured or the server never answered.
	Redis *database.RedisClient
}

// Init loads configuration and builds logging, telemetry and the optional cache.
func Init(ctx context.Context, appName string) (*Runtime, error) {
	cfg, err := config.Load(appName)
	if err != nil {
		return nil, fmt.Errorf("config load failed: %w", err)
	}

	zapLog := logger.New(cfg.Logging.Level, cfg.Logging.Format, cfg.Logging.Output)
	log := logger.NewZapAdapter(zapLog).With(map[string]interface{}{
		"app":         cfg.App.Name,
		"environment": cfg.App.Environment,
	})

	obs := observability.New(observability.Options{
		ServiceName:    cfg.Observability.ServiceName,
		JaegerEndpoint: cfg.Observability.JaegerEndpoint,
	}, log)

	rt := &Runtime{Config: cfg, Zap: zapLog, Logger: log, Obs: obs}
	rt.Redis = connectRedis(ctx, cfg.Database.Redis, zapLog)
	return rt, nil
}

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

// connectRedis returns nil, and the services run uncached, when Redis is not reachable.
func connectRedis(ctx context.Context, cfg config.RedisConfig, log *zap.Logger) *database.RedisClient {
	if cfg.Address == "" {
		log.Info("redis address not configured, caching disabled")
		return nil
	}

	var rdb *database.RedisClient
	err := retryWithBackoff(func() error {
		var err error
		rdb, err = database.NewRedis(cfg)
		if err != nil {
			return err
		}
		pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
		defer cancel()
		if err := rdb.Ping(pingCtx); err != nil {
			_ = rdb.Close()
			return err
		}
		return nil
	}, 3, 500*time.Millisecond, log, "Redis connection")
	if err != nil {
		log.Warn("redis unavailable, caching disabled", zap.Error(err))
		return nil
	}

	log.Info("Redis connected successfully", zap.String("address", cfg.Address))
	return rdb
}

// ConnectElasticsearch builds the catalog index client and waits for the cluster to answer.
func (rt *Runtime) ConnectElasticsearch(ctx context.Context) (*database.ElasticsearchClient, error) {
	var es *database.ElasticsearchClient
	err := retryWithBackoff(func() error {
		var err error
		es, err = database.NewElasticsearch(rt.Config.Database.Elasticsearch)
		if err != nil {
			return err
		}
		return es.Ping(ctx)
	}, 5, time.Second, rt.Zap, "Elasticsearch connection")
	if err != nil {
		return nil, err
	}
	rt.Zap.Info("Elasticsearch connected successfully")
	return es, nil
}

// Readiness lists the checks reported on GET /ready.
func (rt *Runtime) Readiness(extra map[string]api.ReadinessCheck) map[string]api.ReadinessCheck {
	checks := map[string]api.ReadinessCheck{}
	if rt.Redis != nil {
		checks["redis"] = rt.Redis.Ping
	}
	for name, check := range extra {
		checks[name] = check
	}
	return checks
}

// Serve runs srv until SIGINT or SIGTERM, then drains it within the configured shutdown timeout.
func (rt *Runtime) Serve(srv *http.Server) error {
	errCh := make(chan error, 1)
	go func() {
		rt.Zap.Info("HTTP server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	select {
	case err, ok := <-errCh:
		if ok {
			return fmt.Errorf("http server failed: %w", err)
		}
		return nil
	case sig := <-sigCh:
		rt.Zap.Info("Shutdown signal received, stopping server...", zap.String("signal", sig.String()))
	}

	timeout := config.GetDuration(rt.Config.Server.ShutdownTimeout)
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	return srv.Shutdown(ctx)
}

// Close releases the cache connection and flushes telemetry and logs.
func (rt *Runtime) Close() {
	if rt.Redis != nil {
		_ = rt.Redis.Close()
	}
	rt.Obs.Shutdown(context.Background())
	_ = rt.Zap.Sync()
}
