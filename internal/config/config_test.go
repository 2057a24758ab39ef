package config_test

import (
	"context"
	"errors"
	"testing"

	"github.com/okian/pokeapi/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

func TestConfig_New(t *testing.T) {
	convey.Convey("Given a new config with default options", t, func() {
		cfg := config.New(context.Background())

		convey.Convey("Then it should have sensible defaults", func() {
			convey.So(cfg.Port, convey.ShouldEqual, 3000)
			convey.So(cfg.Addr(), convey.ShouldEqual, ":3000")
			convey.So(cfg.DBDriver, convey.ShouldEqual, config.DriverPostgres)
			convey.So(cfg.DBPort, convey.ShouldEqual, 5432)
			convey.So(cfg.ServerURL, convey.ShouldEqual, "http://localhost:3000")
			convey.So(cfg.Validate(), convey.ShouldBeNil)
		})
	})
}

func TestConfig_Validate(t *testing.T) {
	convey.Convey("Given a default config", t, func() {
		cfg := config.New(context.Background())

		convey.Convey("When the port is out of range", func() {
			cfg.Port = 70000
			err := cfg.Validate()
			convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
		})

		convey.Convey("When the driver is unknown", func() {
			cfg.DBDriver = "mongo"
			err := cfg.Validate()
			convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
			convey.So(err.Error(), convey.ShouldContainSubstring, "mongo")
		})

		convey.Convey("When sqlite has no path", func() {
			cfg.DBDriver = config.DriverSQLite
			cfg.DBPath = ""
			convey.So(cfg.Validate(), convey.ShouldNotBeNil)
		})

		convey.Convey("When postgres has no host", func() {
			cfg.DBHost = ""
			convey.So(cfg.Validate(), convey.ShouldNotBeNil)
		})
	})
}
