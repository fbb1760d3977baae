package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/couchcryptid/weather-geocoder/internal/adapter/httpadapter"
	kafkaadapter "github.com/couchcryptid/weather-geocoder/internal/adapter/kafka"
	"github.com/couchcryptid/weather-geocoder/internal/adapter/opencage"
	"github.com/couchcryptid/weather-geocoder/internal/config"
	"github.com/couchcryptid/weather-geocoder/internal/domain"
	"github.com/couchcryptid/weather-geocoder/internal/observability"
	"github.com/couchcryptid/weather-geocoder/internal/pipeline"
	sharedobs "github.com/couchcryptid/storm-data-shared/observability"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger, err := observability.NewLogger(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to build logger: %v\n", err)
		os.Exit(1)
	}

	if err := run(cfg, logger); err != nil {
		logger.Error("geocoder stopped", zap.Error(err))
		_ = logger.Sync()
		os.Exit(1)
	}
	_ = logger.Sync()
}

// run wires the service and blocks until a shutdown signal arrives. Startup
// failures are returned so deferred cleanup still runs.
func run(cfg *config.Config, logger *zap.Logger) error {
	locale, err := config.LoadLocale(cfg.LocaleFile)
	if err != nil {
		return fmt.Errorf("load locale: %w", err)
	}

	metrics := observability.NewMetrics()

	var (
		provider domain.GeocodingProvider = opencage.NewClient(cfg.OpenCageAPIKey, cfg.OpenCageBaseURL, cfg.OpenCageTimeout, metrics, logger)
		shared   opencage.SharedCache
		checks   []sharedobs.ReadinessChecker
	)
	if cfg.RedisURL != "" {
		rc, err := opencage.NewRedisCache(cfg.RedisURL, cfg.RedisCacheTTL)
		if err != nil {
			return fmt.Errorf("configure redis: %w", err)
		}
		defer rc.Close()
		shared = rc
		checks = append(checks, rc)
		logger.Info("redis geocode cache enabled", zap.Duration("ttl", cfg.RedisCacheTTL))
	}
	provider = opencage.NewCachedProvider(provider, cfg.GeocodeCacheSize, cfg.GeocodeCacheTTL, shared, metrics, logger)

	selector := domain.NewSelector(locale)
	resolver := domain.NewResolver(provider, selector, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var (
		reader *kafkaadapter.Reader
		writer *kafkaadapter.Writer
	)
	pipelineDone := make(chan struct{})
	if cfg.PipelineEnabled {
		reader = kafkaadapter.NewReader(cfg, logger)
		writer = kafkaadapter.NewWriter(cfg, logger)
		p := pipeline.New(reader, pipeline.NewTransformer(resolver, metrics, logger), writer, logger, metrics, cfg.BatchSize)

		go func() {
			defer close(pipelineDone)
			if err := p.Run(ctx); err != nil {
				logger.Error("pipeline error", zap.Error(err))
			}
		}()
	} else {
		close(pipelineDone)
		logger.Info("batch pipeline disabled")
	}

	srv := httpadapter.NewServer(cfg.HTTPAddr, resolver, selector, httpadapter.AllReady(checks...), metrics, logger)

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", zap.Error(err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", zap.Error(err))
	}

	select {
	case <-pipelineDone:
	case <-shutdownCtx.Done():
		logger.Warn("pipeline did not stop before shutdown timeout")
	}
	if reader != nil {
		if err := reader.Close(); err != nil {
			logger.Error("kafka reader close error", zap.Error(err))
		}
	}
	if writer != nil {
		if err := writer.Close(); err != nil {
			logger.Error("kafka writer close error", zap.Error(err))
		}
	}

	logger.Info("shutdown complete")
	return nil
}
