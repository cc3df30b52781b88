package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Callback delivery modes for the PAC Service.
const (
	DeliveryDirect = "direct"
	DeliveryOutbox = "outbox"
)

type Config struct {
	App struct {
		Name    string `envconfig:"APP_NAME" default:"Facturacion"`
		Port    int    `envconfig:"PORT" default:"8080"`
		PACPort int    `envconfig:"PAC_PORT" default:"8085"`
	}

	DB struct {
		Host     string `envconfig:"DB_HOST" default:"localhost"`
		Port     int    `envconfig:"DB_PORT" default:"5432"`
		User     string `envconfig:"DB_USER" default:"postgres"`
		Password string `envconfig:"DB_PASSWORD" default:""`
		Name     string `envconfig:"DB_NAME" default:"facturacion"`
		PACName  string `envconfig:"PAC_DB_NAME" default:"pac"`
	}

	Server struct {
		Timeout     time.Duration `envconfig:"SERVER_TIMEOUT" default:"30s"`
		CORSOrigins []string      `envconfig:"CORS_ALLOWED_ORIGINS" default:"*"`
	}

	PAC struct {
		BaseURL string        `envconfig:"PAC_BASE_URL" default:"http://localhost:8085/api/pac"`
		Timeout time.Duration `envconfig:"PAC_TIMEOUT" default:"30s"`
	}

	Backend struct {
		BaseURL         string        `envconfig:"BACKEND_BASE_URL" default:"http://localhost:8080"`
		CallbackTimeout time.Duration `envconfig:"CALLBACK_TIMEOUT" default:"10s"`
		Delivery        string        `envconfig:"CALLBACK_DELIVERY" default:"direct"`
	}

	Reconcile struct {
		Interval     time.Duration `envconfig:"RECONCILE_INTERVAL" default:"15s"`
		BatchSize    int           `envconfig:"RECONCILE_BATCH_SIZE" default:"100"`
		ApprovalRate float64       `envconfig:"RECONCILE_APPROVAL_RATE" default:"0.8"`
	}

	Outbox struct {
		PollInterval time.Duration `envconfig:"OUTBOX_POLL_INTERVAL" default:"5s"`
		MaxAttempts  int           `envconfig:"OUTBOX_MAX_ATTEMPTS" default:"5"`
	}
}

// ConnectionString points at the invoice database.
func (c *Config) ConnectionString() string {
	return c.connectionString(c.DB.Name)
}

// PACConnectionString points at the database owned by the PAC Service.
func (c *Config) PACConnectionString() string {
	return c.connectionString(c.DB.PACName)
}

func (c *Config) connectionString(name string) string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=disable",
		c.DB.User, c.DB.Password, c.DB.Host, c.DB.Port, name)
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) validate() error {
	switch c.Backend.Delivery {
	case DeliveryDirect, DeliveryOutbox:
	default:
		return fmt.Errorf("invalid CALLBACK_DELIVERY %q: want %q or %q", c.Backend.Delivery, DeliveryDirect, DeliveryOutbox)
	}

	if c.Reconcile.ApprovalRate < 0 || c.Reconcile.ApprovalRate > 1 {
		return fmt.Errorf("invalid RECONCILE_APPROVAL_RATE %v: must be within [0, 1]", c.Reconcile.ApprovalRate)
	}

	if c.Reconcile.BatchSize <= 0 {
		return fmt.Errorf("invalid RECONCILE_BATCH_SIZE %d: must be positive", c.Reconcile.BatchSize)
	}

	return nil
}
