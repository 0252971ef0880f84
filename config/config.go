// Package config loads service configuration from environment variables.
package config

import (
	"context"
	"fmt"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port     string `env:"PORT,     default=8080"`
	Env      string `env:"ENV,      default=development"`
	LogLevel string `env:"LOG_LEVEL, default=info"`
	// LogPretty switches zerolog to console output; keep false in production.
	LogPretty bool `env:"LOG_PRETTY, default=false"`

	// DBPath is the SQLite database file. ":memory:" runs without persistence.
	DBPath string `env:"DB_PATH, default=./data/shifts.db"`

	// CatalogPath points at a JSON shift-type catalog. Empty uses the
	// built-in five-type grid.
	CatalogPath string `env:"CATALOG_PATH"`

	// Bootstrap identity for the first head admin, applied only when the
	// user directory is empty.
	BootstrapAdmin string `env:"BOOTSTRAP_ADMIN, default=admin"`
	BootstrapName  string `env:"BOOTSTRAP_NAME,  default=Administrator"`
	BootstrapEmail string `env:"BOOTSTRAP_EMAIL, default=admin@example.com"`
}

// Load reads configuration from environment variables using go-envconfig.
func Load() *Config {
	var cfg Config
	if err := envconfig.Process(context.Background(), &cfg); err != nil {
		panic(fmt.Sprintf("config: failed to load configuration: %v", err))
	}
	return &cfg
}
