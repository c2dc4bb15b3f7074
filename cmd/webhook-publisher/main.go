package main

import (
	"context"
	"errors"
	"os"
	"os/signal"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/Magic-Stars-CR/magicstars-backend/pkg/config"
	"github.com/Magic-Stars-CR/magicstars-backend/pkg/db"
	"github.com/Magic-Stars-CR/magicstars-backend/pkg/logger"
	"github.com/Magic-Stars-CR/magicstars-backend/pkg/metrics"
	"github.com/Magic-Stars-CR/magicstars-backend/pkg/migrate"
	"github.com/Magic-Stars-CR/magicstars-backend/pkg/webhook"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "webhook-publisher"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	cfg.Service.Kind = "webhook-publisher"

	logg = logger.New(logger.Options{
		ServiceName: "webhook-publisher",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	service, err := NewService(ServiceParams{
		Config:     cfg,
		Logger:     logg,
		DB:         dbClient,
		Repository: webhook.NewRepository(dbClient.DB()),
		DLQ:        webhook.NewDLQRepository(dbClient.DB()),
		Sink:       newHTTPSink(cfg.Webhook),
		Metrics:    metrics.NewWebhookPublisherMetrics(prometheus.DefaultRegisterer),
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create webhook publisher", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	ctx = logg.WithFields(ctx, map[string]any{
		"env":         cfg.App.Env,
		"serviceKind": "webhook-publisher",
	})
	logg.Info(ctx, "starting webhook publisher")

	if err := service.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logg.Error(ctx, "webhook publisher stopped unexpectedly", err)
		os.Exit(1)
	}

	logg.Info(ctx, "webhook publisher shutting down gracefully")
}
