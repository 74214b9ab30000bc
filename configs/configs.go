// Package configs handles application configuration parsed from
// environment variables, prefixed with "WILL_REGISTRY_".
package configs

import (
	"time"

	"github.com/caarlos0/env/v6"
	log "github.com/sirupsen/logrus"
)

type Config struct {
	// -- Server --

	Host                 string        `env:"HOST"`
	Port                 int           `env:"PORT" envDefault:"3000"`
	ServerRequestTimeout time.Duration `env:"SERVER_REQUEST_TIMEOUT" envDefault:"60s"`
	LogLevel             string        `env:"LOG_LEVEL" envDefault:"info"`

	// -- Database --

	DatabaseDSN  string `env:"DATABASE_DSN" envDefault:"registry.db"`
	DatabaseType string `env:"DATABASE_TYPE" envDefault:"sqlite"`

	// -- Dead man's switch monitor --

	// DisableMonitor turns off the background inactivity sweep. The trigger
	// endpoint keeps working for authorized backends.
	DisableMonitor  bool          `env:"DISABLE_MONITOR"`
	MonitorInterval time.Duration `env:"MONITOR_INTERVAL" envDefault:"60s"`

	// -- Asset ledger --

	// LedgerMaxCallRate limits custody transfer calls per second.
	LedgerMaxCallRate int `env:"LEDGER_MAX_CALL_RATE" envDefault:"10"`

	// -- Events --

	// EventWebhookURL, when set, makes the registry POST every emitted
	// audit event to the given endpoint.
	EventWebhookURL     string        `env:"EVENT_WEBHOOK_URL"`
	EventWebhookTimeout time.Duration `env:"EVENT_WEBHOOK_TIMEOUT" envDefault:"30s"`

	// -- Idempotency middleware --

	DisableIdempotencyMiddleware      bool   `env:"DISABLE_IDEMPOTENCY_MIDDLEWARE"`
	IdempotencyMiddlewareDatabaseType string `env:"IDEMPOTENCY_MIDDLEWARE_DATABASE_TYPE" envDefault:"local"`
	IdempotencyMiddlewareRedisURL     string `env:"IDEMPOTENCY_MIDDLEWARE_REDIS_URL"`
}

// Parse parses environment variables to a valid Config.
func Parse() (*Config, error) {
	opts := env.Options{Prefix: "WILL_REGISTRY_"}
	cfg := Config{}
	err := env.Parse(&cfg, opts)
	if err != nil {
		return nil, err
	}
	return &cfg, nil
}

func ConfigureLogger(level string) {
	lvl, err := log.ParseLevel(level)
	if err != nil {
		lvl = log.InfoLevel
	}
	log.SetLevel(lvl)
	log.SetFormatter(&log.JSONFormatter{})
}
