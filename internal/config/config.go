package config

import (
	"fmt"
	"time"

	pkgconfig "github.com/utafrali/catalog-widget/pkg/config"
)

// Cart store backends.
const (
	CartStoreRedis  = "redis"
	CartStoreMemory = "memory"
)

// Config holds all configuration for the widget host.
type Config struct {
	Environment string `env:"ENVIRONMENT" envDefault:"development"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`

	// HTTP server
	HTTPPort int `env:"WIDGET_HTTP_PORT" envDefault:"8090"`

	// Namespace prefixes the persisted cart key: <namespace>_cart_items.
	Namespace string `env:"WIDGET_NAMESPACE" envDefault:"haircare"`

	// Catalog source. CATALOG_URL wins over CATALOG_FILE; with neither set the
	// embedded sample feed is served.
	CatalogURL  string `env:"CATALOG_URL"`
	CatalogFile string `env:"CATALOG_FILE"`

	// Cart storage
	CartStore string `env:"CART_STORE" envDefault:"redis"`
	RedisAddr string `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	RedisPass string `env:"REDIS_PASSWORD" envDefault:""`
	RedisDB   int    `env:"REDIS_DB" envDefault:"0"`

	// Cart TTL in hours. 0 keeps the cart until it is cleared.
	CartTTL int `env:"CART_TTL_HOURS" envDefault:"0"`

	// Grid
	ProductsPerPage    int `env:"PRODUCTS_PER_PAGE" envDefault:"8"`
	PreviewLimit       int `env:"PREVIEW_LIMIT" envDefault:"8"`
	SuggestionLimit    int `env:"SUGGESTION_LIMIT" envDefault:"5"`
	RemoveTransitionMS int `env:"REMOVE_TRANSITION_MS" envDefault:"500"`

	// Kafka notice sink, disabled when no brokers are set.
	KafkaBrokers []string `env:"KAFKA_BROKERS" envSeparator:","`
	NoticeTopic  string   `env:"NOTICE_TOPIC"`

	// CORS
	CORSAllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" envDefault:"*" envSeparator:","`

	// Tracing
	OTELEnabled    bool    `env:"OTEL_ENABLED" envDefault:"false"`
	OTELEndpoint   string  `env:"OTEL_ENDPOINT" envDefault:"localhost:4318"`
	OTELSampleRate float64 `env:"OTEL_SAMPLE_RATE" envDefault:"1.0"`
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := pkgconfig.Load(cfg); err != nil {
		return nil, fmt.Errorf("load widget config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadFrom reads configuration from vars instead of the environment.
func LoadFrom(vars map[string]string) (*Config, error) {
	cfg := &Config{}
	if err := pkgconfig.LoadFrom(cfg, vars); err != nil {
		return nil, fmt.Errorf("load widget config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// CartTTLDuration returns the cart TTL, 0 meaning no expiry.
func (c *Config) CartTTLDuration() time.Duration {
	return time.Duration(c.CartTTL) * time.Hour
}

// RemoveTransition returns the removal transition delay.
func (c *Config) RemoveTransition() time.Duration {
	return time.Duration(c.RemoveTransitionMS) * time.Millisecond
}

// KafkaEnabled reports whether notices are published to Kafka.
func (c *Config) KafkaEnabled() bool {
	return len(c.KafkaBrokers) > 0
}

// validate checks configuration invariants.
func (c *Config) validate() error {
	if c.HTTPPort < 1 || c.HTTPPort > 65535 {
		return fmt.Errorf("invalid HTTP port: %d", c.HTTPPort)
	}
	if c.Namespace == "" {
		return fmt.Errorf("WIDGET_NAMESPACE is required")
	}
	if c.CartStore != CartStoreRedis && c.CartStore != CartStoreMemory {
		return fmt.Errorf("CART_STORE must be %q or %q, got %q", CartStoreRedis, CartStoreMemory, c.CartStore)
	}
	if c.CartTTL < 0 {
		return fmt.Errorf("CART_TTL_HOURS must not be negative: %d", c.CartTTL)
	}
	if c.ProductsPerPage < 1 {
		return fmt.Errorf("PRODUCTS_PER_PAGE must be at least 1: %d", c.ProductsPerPage)
	}
	if c.PreviewLimit < 1 {
		return fmt.Errorf("PREVIEW_LIMIT must be at least 1: %d", c.PreviewLimit)
	}
	if c.SuggestionLimit < 1 {
		return fmt.Errorf("SUGGESTION_LIMIT must be at least 1: %d", c.SuggestionLimit)
	}
	if c.RemoveTransitionMS < 0 {
		return fmt.Errorf("REMOVE_TRANSITION_MS must not be negative: %d", c.RemoveTransitionMS)
	}
	if c.OTELSampleRate < 0 || c.OTELSampleRate > 1 {
		return fmt.Errorf("OTEL_SAMPLE_RATE must be between 0.0 and 1.0: %g", c.OTELSampleRate)
	}
	return nil
}
