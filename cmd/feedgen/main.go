// Command feedgen writes a deterministic haircare catalog feed to disk, for
// serving through CATALOG_FILE when the sample feed is too small.
//
// Run: FEED_COUNT=10000 FEED_OUT=/tmp/products.json go run ./cmd/feedgen
package main

import (
	"encoding/json"
	"log/slog"
	"os"

	"github.com/utafrali/catalog-widget/internal/catalog"
	pkgconfig "github.com/utafrali/catalog-widget/pkg/config"
	"github.com/utafrali/catalog-widget/pkg/logger"
)

type feedConfig struct {
	Count    int    `env:"FEED_COUNT" envDefault:"1000"`
	Seed     uint64 `env:"FEED_SEED" envDefault:"42"`
	Out      string `env:"FEED_OUT" envDefault:"products.json"`
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`
}

func main() {
	var cfg feedConfig
	if err := pkgconfig.Load(&cfg); err != nil {
		slog.Error("failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	log := logger.New("catalog-feedgen", cfg.LogLevel)

	products := catalog.Generate(cfg.Count, cfg.Seed)
	data, err := json.MarshalIndent(products, "", "  ")
	if err != nil {
		log.Error("failed to encode feed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	if err := os.WriteFile(cfg.Out, data, 0o644); err != nil {
		log.Error("failed to write feed",
			slog.String("path", cfg.Out),
			slog.String("error", err.Error()),
		)
		os.Exit(1)
	}

	log.Info("catalog feed written",
		slog.String("path", cfg.Out),
		slog.Int("products", len(products)),
		slog.Uint64("seed", cfg.Seed),
	)
}
