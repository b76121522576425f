package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	awsclient "bharat-seva/internal/common/aws"
	"bharat-seva/internal/common/config"
	"bharat-seva/internal/common/database"
	httpclient "bharat-seva/internal/common/http"
	"bharat-seva/internal/common/logger"
	"bharat-seva/internal/common/messaging"
	"bharat-seva/internal/common/observability"
	"bharat-seva/internal/model"
	"bharat-seva/internal/normalize"
	"bharat-seva/internal/ratelimit"
	"bharat-seva/internal/server"
	"bharat-seva/pkg/registry"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// retryWithBackoff retries an operation with exponential backoff
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
	registryPath := flag.String("registry", os.Getenv("CAPABILITY_REGISTRY"), "capability registry JSON (defaults to the embedded copy)")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config load failed: %v\n", err)
		os.Exit(1)
	}

	zapLog := logger.New(cfg.Logging.Level, cfg.Logging.Format, cfg.Logging.Output)
	defer zapLog.Sync()

	log := logger.NewZapAdapter(zapLog)

	zapLog.Info("Starting bharat-seva server...",
		zap.String("version", cfg.App.Version),
		zap.String("environment", cfg.App.Environment),
	)

	obs := observability.New(cfg.Observability.ServiceName, cfg.Observability.JaegerEndpoint)
	defer obs.Shutdown()

	ctx := context.Background()

	// --- Capability registry ---
	reg := registry.Default()
	if *registryPath != "" {
		reg, err = registry.LoadRegistry(*registryPath)
		if err != nil {
			zapLog.Fatal("registry load failed", zap.String("path", *registryPath), zap.Error(err))
		}
	}
	if err := reg.Validate(); err != nil {
		zapLog.Fatal("registry is invalid", zap.Error(err))
	}

	norm, err := normalize.NewFromRegistry(reg)
	if err != nil {
		zapLog.Fatal("normalizer init failed", zap.Error(err))
	}

	// --- Model backends ---
	outbound := httpclient.NewClient(config.GetDuration(cfg.Model.Timeout))
	backends, err := model.NewBackendsFromConfig(ctx, cfg, outbound.Standard(), log)
	if err != nil {
		zapLog.Fatal("model backends failed", zap.Error(err))
	}
	if len(backends) == 0 {
		zapLog.Warn("no model backends configured, model capabilities will fail")
	}
	invoker := model.NewInvoker(backends, cfg.Model.Chains, config.GetDuration(cfg.Model.Timeout), log, obs)
	zapLog.Info("Model backends ready", zap.Int("count", len(backends)))

	// --- Rate windows ---
	var (
		limiter ratelimit.Limiter
		ready   func(context.Context) error
	)
	switch cfg.RateLimit.Backend {
	case "redis":
		var redis *database.RedisClient
		err = retryWithBackoff(func() error {
			var err error
			redis, err = database.ConnectRedis(ctx, cfg.Database.Redis)
			return err
		}, 10, 2*time.Second, zapLog, "Redis connection")

		if err != nil {
			zapLog.Fatal("redis failed after retries", zap.Error(err))
		}
		defer redis.Close()
		zapLog.Info("Redis connected successfully")

		limiter = ratelimit.NewRedisLimiter(redis.Client, cfg.RateLimit.RedisKeyPrefix, nil, log)
		ready = redis.Ping
	default:
		memory := ratelimit.NewMemoryLimiter(nil)
		defer memory.Close()
		limiter = memory
	}

	// --- Storage and messaging ---
	var store *awsclient.ObjectStore
	if cfg.Storage.Bucket != "" {
		awsCfg, err := awsclient.LoadConfig(ctx, cfg.AWS.Region)
		if err != nil {
			zapLog.Fatal("aws config failed", zap.Error(err))
		}
		store = awsclient.NewObjectStore(awsCfg, cfg.Storage.Bucket)
	}

	messenger, err := messaging.NewFromConfig(ctx, cfg, log)
	if err != nil {
		zapLog.Fatal("messenger init failed", zap.Error(err))
	}

	deps := server.Deps{
		Config:     cfg,
		Registry:   reg,
		Invoker:    invoker,
		Normalizer: norm,
		Messenger:  messenger,
		Limiter:    limiter,
		Logger:     log,
		Obs:        obs,
		Ready:      ready,
	}
	if store != nil {
		deps.Store = store
	}

	srv, err := server.New(deps)
	if err != nil {
		zapLog.Fatal("server init failed", zap.Error(err))
	}
	zapLog.Info("Capabilities mounted", zap.Strings("capabilities", srv.Mounted()))

	apiServer := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      srv.Handler(),
		ReadTimeout:  config.GetDuration(cfg.Server.ReadTimeout),
		WriteTimeout: config.GetDuration(cfg.Server.WriteTimeout),
	}

	metricsMux := http.NewServeMux()
	metricsMux.Handle("/metrics", promhttp.Handler())
	metricsServer := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.MetricsPort),
		Handler: metricsMux,
	}

	// --- Run until signalled ---
	runCtx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(runCtx)

	g.Go(func() error {
		zapLog.Info("API server listening", zap.String("addr", apiServer.Addr))
		if err := apiServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("api server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		zapLog.Info("Metrics server listening", zap.String("addr", metricsServer.Addr))
		if err := metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("metrics server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		zapLog.Info("Shutting down...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), config.GetDuration(cfg.Server.ShutdownTimeout))
		defer cancel()

		apiErr := apiServer.Shutdown(shutdownCtx)
		metricsErr := metricsServer.Shutdown(shutdownCtx)
		return errors.Join(apiErr, metricsErr)
	})

	if err := g.Wait(); err != nil {
		zapLog.Error("server stopped with error", zap.Error(err))
		return
	}

	zapLog.Info("Server stopped gracefully")
}
