// Package config reads process configuration from the environment. The
// database URL and the JWT secret are sensitive values: they must never be
// logged or echoed into error messages.
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type Config struct {
	DatabaseURL string `env:"DATABASE_URL,required,notEmpty"`
	JWTSecret   string `env:"JWT_SECRET,required,notEmpty"`

	Port      string `env:"PORT" envDefault:"8080"`
	AppEnv    string `env:"APP_ENV" envDefault:"development"`
	SentryDSN string `env:"SENTRY_DSN"`

	DBMaxOpenConns    int           `env:"DB_MAX_OPEN_CONNS" envDefault:"10"`
	DBMaxIdleConns    int           `env:"DB_MAX_IDLE_CONNS" envDefault:"5"`
	DBConnMaxLifetime time.Duration `env:"DB_CONN_MAX_LIFETIME" envDefault:"30m"`
	DBConnMaxIdleTime time.Duration `env:"DB_CONN_MAX_IDLE_TIME" envDefault:"10m"`

	RunMigrations bool `env:"RUN_MIGRATIONS_ON_STARTUP" envDefault:"true"`
}

// Load parses the environment into a Config. When loadDotEnv is set a local
// .env file is read first; its absence is not an error.
func Load(loadDotEnv bool) (Config, error) {
	if loadDotEnv {
		_ = godotenv.Load()
	}

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}

	return cfg, nil
}
