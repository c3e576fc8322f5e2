// Package config loads the process configuration from the environment so
// main stays lean. Every value has a default that works for local
// development; durable stores and the broker are opt-in via URLs.
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Server captures HTTP server level configuration.
type Server struct {
	Addr            string        `env:"TANDEM_ADDR" envDefault:":8080"`
	RequestTimeout  time.Duration `env:"TANDEM_REQUEST_TIMEOUT" envDefault:"10s"`
	ShutdownTimeout time.Duration `env:"TANDEM_SHUTDOWN_TIMEOUT" envDefault:"15s"`
	JWTSigningKey   string        `env:"TANDEM_JWT_SIGNING_KEY"`
}

// Stores selects the backing stores. Empty URLs keep everything in memory.
type Stores struct {
	PostgresURL string `env:"TANDEM_POSTGRES_URL"`
	RedisURL    string `env:"TANDEM_REDIS_URL"`
}

// Audit configures the optional Kafka audit sink.
type Audit struct {
	Brokers []string `env:"TANDEM_KAFKA_BROKERS" envSeparator:","`
	Topic   string   `env:"TANDEM_AUDIT_TOPIC" envDefault:"tandem.audit"`
	Buffer  int      `env:"TANDEM_AUDIT_BUFFER" envDefault:"256"`
}

// Founding seeds the invitation pool at startup.
type Founding struct {
	Tokens []string `env:"TANDEM_FOUNDING_TOKENS" envSeparator:","`
}

// Config is the full process configuration.
type Config struct {
	Server        Server
	Stores        Stores
	Audit         Audit
	Founding      Founding
	SweepInterval time.Duration `env:"TANDEM_SWEEP_INTERVAL" envDefault:"5s"`
	OTELEndpoint  string        `env:"TANDEM_OTEL_ENDPOINT"`
	LogLevel      string        `env:"TANDEM_LOG_LEVEL" envDefault:"info"`
}

// FromEnv parses the environment into a Config.
func FromEnv() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}
