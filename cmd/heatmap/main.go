package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	httpadapter "github.com/couchcryptid/temperature-heatmap-service/internal/adapter/http"
	kafkaadapter "github.com/couchcryptid/temperature-heatmap-service/internal/adapter/kafka"
	"github.com/couchcryptid/temperature-heatmap-service/internal/adapter/source"
	"github.com/couchcryptid/temperature-heatmap-service/internal/config"
	"github.com/couchcryptid/temperature-heatmap-service/internal/domain"
	"github.com/couchcryptid/temperature-heatmap-service/internal/observability"
	"github.com/couchcryptid/temperature-heatmap-service/internal/pipeline"
	"github.com/couchcryptid/temperature-heatmap-service/internal/render"
	"github.com/couchcryptid/temperature-heatmap-service/internal/view"
)

func main() {
	// A missing .env file is fine; the environment may already be set.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg.LogLevel, cfg.LogFormat)
	slog.SetDefault(logger)
	metrics := observability.NewMetrics()

	layout, err := config.LoadLayout(cfg.LayoutFile)
	if err != nil {
		logger.Error("failed to load layout", "error", err, "path", cfg.LayoutFile)
		os.Exit(1)
	}

	// Aggregate publishing is feature-flagged via KAFKA_ENABLED.
	var publisher pipeline.Publisher
	var kafkaPublisher *kafkaadapter.Publisher
	if cfg.KafkaEnabled {
		kafkaPublisher = kafkaadapter.NewPublisher(cfg, logger, metrics)
		publisher = kafkaPublisher
		logger.Info("kafka aggregate publishing enabled", "brokers", cfg.KafkaBrokers, "topic", cfg.KafkaAggregateTopic)
	} else {
		logger.Info("kafka aggregate publishing disabled")
	}

	src := source.New(cfg.DataSource, cfg.SourceTimeout, logger)
	builder := pipeline.NewBuilder(src, cfg.Level2MinYear, logger, metrics)
	p := pipeline.New(builder, publisher, logger, metrics, cfg.RefreshInterval)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := p.Load(ctx); err != nil {
		switch {
		case errors.Is(err, domain.ErrSourceUnavailable):
			logger.Error("data source unavailable", "source", cfg.DataSource, "error", err)
		case errors.Is(err, domain.ErrEmptyDataset):
			logger.Error("data source has no usable records", "source", cfg.DataSource, "error", err)
		default:
			logger.Error("initial load failed", "source", cfg.DataSource, "error", err)
		}
		os.Exit(1)
	}

	renderer := render.NewCachedRenderer(render.NewSVGRenderer(layout, logger, metrics), cfg.RenderCacheSize, metrics)
	controllers := view.NewControllers(renderer, p, logger, metrics)

	srv := httpadapter.NewServer(cfg.HTTPAddr, httpadapter.Deps{
		Ready:       p,
		Snapshots:   p,
		Controllers: controllers,
		Renderer:    renderer,
		Layout:      layout,
	}, logger)

	// Start HTTP server.
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
		}
	}()

	// Start source refresher.
	go func() {
		if err := p.Run(ctx); err != nil {
			logger.Error("refresher error", "error", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}
	if kafkaPublisher != nil {
		if err := kafkaPublisher.Close(); err != nil {
			logger.Error("kafka publisher close error", "error", err)
		}
	}

	logger.Info("shutdown complete")
}
