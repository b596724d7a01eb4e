package app

import (
	"errors"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/shopspring/decimal"

	"github.com/shopdesk/shopdesk/internal/sales"
	"github.com/shopdesk/shopdesk/internal/workspace"
)

// Config holds runtime configuration for the application.
type Config struct {
	AppEnv            string        `envconfig:"APP_ENV" default:"development"`
	AppAddr           string        `envconfig:"APP_ADDR" default:":8080"`
	AppReadTimeout    time.Duration `envconfig:"APP_READ_TIMEOUT" default:"15s"`
	AppWriteTimeout   time.Duration `envconfig:"APP_WRITE_TIMEOUT" default:"30s"`
	AppRequestTimeout time.Duration `envconfig:"APP_REQUEST_TIMEOUT" default:"30s"`
	RateLimitPerMin   int           `envconfig:"APP_RATE_LIMIT" default:"120"`

	LogFormat string `envconfig:"LOG_FORMAT" default:"pretty"`
	LogLevel  string `envconfig:"LOG_LEVEL" default:"info"`

	RedisAddr     string        `envconfig:"REDIS_ADDR" default:"127.0.0.1:6379"`
	SessionSecret string        `envconfig:"SESSION_SECRET" required:"true"`
	SessionTTL    time.Duration `envconfig:"SESSION_TTL" default:"12h"`

	CSRFSecret string `envconfig:"CSRF_SECRET" required:"true"`

	WorkspaceSweepInterval time.Duration `envconfig:"WORKSPACE_SWEEP_INTERVAL" default:"5m"`

	GotenbergURL     string        `envconfig:"GOTENBERG_URL" default:"http://127.0.0.1:3000"`
	GotenbergTimeout time.Duration `envconfig:"GOTENBERG_TIMEOUT" default:"20s"`

	SalesStockPolicy     string `envconfig:"SALES_STOCK_POLICY" default:"allow"`
	InventoryUniqueNames bool   `envconfig:"INVENTORY_UNIQUE_NAMES" default:"false"`
	LowStockThreshold    int    `envconfig:"LOW_STOCK_THRESHOLD" default:"10"`
	HighValueThreshold   string `envconfig:"HIGH_VALUE_THRESHOLD" default:"1000"`
	DefaultPageSize      int    `envconfig:"DEFAULT_PAGE_SIZE" default:"10"`
	SeedDemo             bool   `envconfig:"SHOPDESK_SEED_DEMO" default:"false"`

	ChartCacheTTL        time.Duration `envconfig:"CHART_CACHE_TTL" default:"10m"`
	IdempotencyRetention time.Duration `envconfig:"IDEMPOTENCY_RETENTION" default:"24h"`
}

// LoadConfig reads configuration from environment variables.
func LoadConfig() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	if cfg.SessionSecret == "" {
		return nil, errors.New("session secret must be provided")
	}
	if cfg.CSRFSecret == "" {
		return nil, errors.New("csrf secret must be provided")
	}
	if cfg.LowStockThreshold < 0 {
		return nil, errors.New("low stock threshold must be non-negative")
	}
	if cfg.DefaultPageSize < 1 {
		return nil, errors.New("default page size must be at least 1")
	}
	if _, err := cfg.WorkspaceConfig(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// IsProduction returns true when the application runs in production.
func (c *Config) IsProduction() bool {
	return c != nil && c.AppEnv == "production"
}

// WorkspaceConfig translates the policy settings applied to new workspaces.
func (c *Config) WorkspaceConfig() (workspace.Config, error) {
	policy, err := sales.ParseStockPolicy(c.SalesStockPolicy)
	if err != nil {
		return workspace.Config{}, errors.New("SALES_STOCK_POLICY must be allow or reject")
	}
	highValue, err := decimal.NewFromString(c.HighValueThreshold)
	if err != nil || highValue.IsNegative() {
		return workspace.Config{}, errors.New("HIGH_VALUE_THRESHOLD must be a non-negative number")
	}
	return workspace.Config{
		StockPolicy:        policy,
		UniqueNames:        c.InventoryUniqueNames,
		LowStockThreshold:  c.LowStockThreshold,
		HighValueThreshold: highValue,
		SeedDemo:           c.SeedDemo,
	}, nil
}
