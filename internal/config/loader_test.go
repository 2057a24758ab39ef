package config_test

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/okian/pokeapi/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

func TestConfigLoader(t *testing.T) {
	convey.Convey("Given a config loader", t, func() {
		ctx := context.Background()
		clearConfigEnvVars()
		defer clearConfigEnvVars()

		convey.Convey("When loading config with defaults only", func() {
			cfg, err := config.Load(ctx)

			convey.Convey("Then it should load successfully with defaults", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Port, convey.ShouldEqual, 3000)
				convey.So(cfg.DBHost, convey.ShouldEqual, "localhost")
				convey.So(cfg.Columns, convey.ShouldBeEmpty)
			})
		})

		convey.Convey("When loading config with the store environment variables", func() {
			_ = os.Setenv("DB_HOST", "db.internal")
			_ = os.Setenv("DB_PORT", "6543")
			_ = os.Setenv("DB_USER", "ash")
			_ = os.Setenv("DB_PASSWORD", "pikachu")
			_ = os.Setenv("DB_DATABASE", "pokedex")
			_ = os.Setenv("PORT", "8080")

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should override defaults", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.DBHost, convey.ShouldEqual, "db.internal")
				convey.So(cfg.DBPort, convey.ShouldEqual, 6543)
				convey.So(cfg.DBUser, convey.ShouldEqual, "ash")
				convey.So(cfg.DBPassword, convey.ShouldEqual, "pikachu")
				convey.So(cfg.DBName, convey.ShouldEqual, "pokedex")
				convey.So(cfg.Addr(), convey.ShouldEqual, ":8080")
			})
		})

		convey.Convey("When loading config with prefixed environment variables", func() {
			_ = os.Setenv("POKEAPI_DB_DRIVER", "sqlite")
			_ = os.Setenv("POKEAPI_DB_PATH", ":memory:")
			_ = os.Setenv("POKEAPI_DB_BOOTSTRAP", "true")
			_ = os.Setenv("POKEAPI_COLUMNS", "name, type ,hp")
			_ = os.Setenv("POKEAPI_LOG_LEVEL", "debug")

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should decode typed values", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.DBDriver, convey.ShouldEqual, config.DriverSQLite)
				convey.So(cfg.DBPath, convey.ShouldEqual, ":memory:")
				convey.So(cfg.DBBootstrap, convey.ShouldBeTrue)
				convey.So(cfg.Columns, convey.ShouldResemble, []string{"name", "type", "hp"})
				convey.So(cfg.LogLevel, convey.ShouldEqual, "debug")
			})
		})

		convey.Convey("When loading config with YAML file", func() {
			tmpFile := createTempConfigFile(`
port: 9090
db_driver: sqlite
db_path: /tmp/pokemons.db
columns:
  - name
  - type
`)
			defer func() { _ = os.Remove(tmpFile) }()
			_ = os.Setenv("POKEAPI_CONFIG", tmpFile)

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should load from YAML file", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Port, convey.ShouldEqual, 9090)
				convey.So(cfg.DBDriver, convey.ShouldEqual, config.DriverSQLite)
				convey.So(cfg.Columns, convey.ShouldResemble, []string{"name", "type"})
			})

			convey.Convey("And environment variables should override file values", func() {
				_ = os.Setenv("PORT", "4000")
				cfg, err := config.Load(ctx)
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Port, convey.ShouldEqual, 4000)
				convey.So(cfg.DBPath, convey.ShouldEqual, "/tmp/pokemons.db")
			})
		})

		convey.Convey("When loading config with invalid YAML file", func() {
			tmpFile := createTempConfigFile(`invalid: yaml: content: [`)
			defer func() { _ = os.Remove(tmpFile) }()
			_ = os.Setenv("POKEAPI_CONFIG", tmpFile)

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return a load error", func() {
				convey.So(errors.Is(err, config.ErrLoadConfig), convey.ShouldBeTrue)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When loading config with non-existent file", func() {
			_ = os.Setenv("POKEAPI_CONFIG", "/non/existent/file.yaml")

			cfg, err := config.Load(ctx)

			convey.So(err, convey.ShouldNotBeNil)
			convey.So(cfg, convey.ShouldBeNil)
		})

		convey.Convey("When loading config with invalid numeric environment variables", func() {
			_ = os.Setenv("PORT", "not_a_number")

			cfg, err := config.Load(ctx)

			convey.So(err, convey.ShouldNotBeNil)
			convey.So(cfg, convey.ShouldBeNil)
		})

		convey.Convey("When loading config with an unknown driver", func() {
			_ = os.Setenv("POKEAPI_DB_DRIVER", "mysql")

			cfg, err := config.Load(ctx)

			convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
			convey.So(cfg, convey.ShouldBeNil)
		})
	})
}

// Helper functions.

func clearConfigEnvVars() {
	envVars := []string{
		"POKEAPI_CONFIG",
		"POKEAPI_DB_DRIVER",
		"POKEAPI_DB_PATH",
		"POKEAPI_DB_BOOTSTRAP",
		"POKEAPI_COLUMNS",
		"POKEAPI_LOG_LEVEL",
		"DB_HOST",
		"DB_PORT",
		"DB_USER",
		"DB_PASSWORD",
		"DB_DATABASE",
		"PORT",
	}
	for _, envVar := range envVars {
		_ = os.Unsetenv(envVar)
	}
}

func createTempConfigFile(content string) string {
	tmpFile, err := os.CreateTemp("", "pokeapi-config-*.yaml")
	if err != nil {
		panic(err)
	}

	if _, err := tmpFile.WriteString(content); err != nil {
		panic(err)
	}

	if err := tmpFile.Close(); err != nil {
		panic(err)
	}

	return tmpFile.Name()
}
