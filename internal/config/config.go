// Package config defines service configuration structures and loading hooks.
//
// Conventions:
//   - Defaults live in New; Load layers file and environment on top.
//   - All future functions must accept context.Context as the first parameter.
//   - Validation errors wrap ErrInvalidConfig.
package config

import (
	"context"
	"fmt"
	"strconv"
)

// Supported store drivers.
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFormat selects the log handler: text or json.
	LogFormat string `koanf:"log_format"`

	// Port is the HTTP listening port (PORT).
	Port int `koanf:"port"`

	// ServerURL is advertised in the generated OpenAPI document.
	ServerURL string `koanf:"server_url"`

	// DBDriver selects the store implementation: postgres or sqlite.
	DBDriver string `koanf:"db_driver"`

	// DBHost, DBPort, DBUser, DBPassword and DBName address the postgres store
	// (DB_HOST, DB_PORT, DB_USER, DB_PASSWORD, DB_DATABASE).
	DBHost     string `koanf:"db_host"`
	DBPort     int    `koanf:"db_port"`
	DBUser     string `koanf:"db_user"`
	DBPassword string `koanf:"db_password"`
	DBName     string `koanf:"db_database"`

	// DBMaxConns caps the postgres pool size.
	DBMaxConns int32 `koanf:"db_max_conns"`

	// DBPath is the sqlite file path, ":memory:" for an ephemeral store.
	DBPath string `koanf:"db_path"`

	// DBBootstrap creates the pokemons table on sqlite when missing.
	DBBootstrap bool `koanf:"db_bootstrap"`

	// Columns overrides the writable column allowlist. When empty the
	// allowlist is read from the table schema at startup.
	Columns []string `koanf:"columns"`
}

// New creates a Config populated with defaults. Context is accepted first to
// satisfy the project-wide convention and is currently unused.
func New(_ context.Context) *Config {
	return &Config{
		LogLevel:   "info",
		LogFormat:  "text",
		Port:       3000,
		ServerURL:  "http://localhost:3000",
		DBDriver:   DriverPostgres,
		DBHost:     "localhost",
		DBPort:     5432,
		DBMaxConns: 10,
		DBPath:     "pokemons.db",
	}
}

// Addr returns the HTTP listen address derived from Port.
func (c *Config) Addr() string {
	return ":" + strconv.Itoa(c.Port)
}

// Validate checks the loaded values.
func (c *Config) Validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("%w: port %d out of range", ErrInvalidConfig, c.Port)
	}
	switch c.DBDriver {
	case DriverPostgres:
		if c.DBHost == "" {
			return fmt.Errorf("%w: db_host must not be empty", ErrInvalidConfig)
		}
		if c.DBPort <= 0 || c.DBPort > 65535 {
			return fmt.Errorf("%w: db_port %d out of range", ErrInvalidConfig, c.DBPort)
		}
	case DriverSQLite:
		if c.DBPath == "" {
			return fmt.Errorf("%w: db_path must not be empty", ErrInvalidConfig)
		}
	default:
		return fmt.Errorf("%w: unknown db_driver %q", ErrInvalidConfig, c.DBDriver)
	}
	return nil
}
