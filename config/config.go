package config

import (
	"log/slog"
	"time"

	"github.com/caarlos0/env/v8"
	"github.com/joho/godotenv"
)

// The liveness endpoint reports these regardless of any APP_NAME override.
const (
	ServiceName = "avif-converter"
	Version     = "1.0.0"
)

type Config struct {
	AppName string `env:"APP_NAME" envDefault:"avif-converter"`
	Port    string `env:"PORT" envDefault:"8080"`

	RateLimitMaxRequests int           `env:"RATE_LIMIT_MAX_REQUESTS" envDefault:"100"`
	RateLimitDuration    time.Duration `env:"RATE_LIMIT_DURATION" envDefault:"5s"`

	// Caps both uploaded bodies and fetched remote bodies.
	BodyLimitMB int `env:"BODY_LIMIT_MB" envDefault:"32"`
}

func New() *Config {
	// A local .env is convenient in development; absence is not an error.
	_ = godotenv.Load()

	conf := &Config{}

	if err := env.Parse(conf); err != nil {
		slog.Error(err.Error())

		panic("Failed to parse config")
	}

	return conf
}

// BodyLimit is the configured body cap in bytes.
func (c *Config) BodyLimit() int64 {
	return int64(c.BodyLimitMB) << 20
}
