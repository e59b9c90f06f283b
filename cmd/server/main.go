package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/utafrali/catalog-widget/internal/app"
	"github.com/utafrali/catalog-widget/internal/config"
	"github.com/utafrali/catalog-widget/pkg/logger"
)

const serviceName = "catalog-widget"

func main() {
	if err := run(); err != nil {
		slog.Error("catalog widget exited", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	log := logger.New(serviceName, cfg.LogLevel)
	slog.SetDefault(log)
	log.Info("starting catalog widget",
		slog.String("environment", cfg.Environment),
		slog.Int("http_port", cfg.HTTPPort),
		slog.String("namespace", cfg.Namespace),
		slog.String("cart_store", cfg.CartStore),
		slog.Bool("kafka", cfg.KafkaEnabled()),
	)

	application, err := app.NewApp(cfg, log)
	if err != nil {
		return fmt.Errorf("initialize application: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := application.Run(ctx); err != nil {
		return err
	}
	log.Info("catalog widget stopped")
	return nil
}
