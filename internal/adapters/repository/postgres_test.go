package repository_test

import (
	"context"
	"errors"
	"os"
	"strconv"
	"testing"
	"time"

	"github.com/okian/pokeapi/internal/adapters/repository"
	"github.com/okian/pokeapi/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func TestPostgresConnString(t *testing.T) {
	Convey("Given postgres settings", t, func() {
		cfg := repository.PostgresConfig{Host: "db", Port: 5432, User: "ash", Password: "p@ss word", Database: "pokedex"}

		Convey("Then credentials are escaped into a URL", func() {
			So(cfg.ConnString(), ShouldEqual, "postgres://ash:p%40ss%20word@db:5432/pokedex")
		})

		Convey("And a user without password is kept", func() {
			cfg.Password = ""
			So(cfg.ConnString(), ShouldEqual, "postgres://ash@db:5432/pokedex")
		})

		Convey("And an IPv6 host is bracketed", func() {
			cfg.Host = "::1"
			cfg.User = ""
			So(cfg.ConnString(), ShouldEqual, "postgres://[::1]:5432/pokedex")
		})
	})
}

func TestPostgresStoreUnreachable(t *testing.T) {
	Convey("Given a pool pointed at a closed port", t, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		s, err := repository.NewPostgresStore(ctx, repository.PostgresConfig{Host: "127.0.0.1", Port: 1, Database: "none"})
		So(err, ShouldBeNil)
		defer s.Close() //nolint:errcheck // Test cleanup

		Convey("Then statements fail as store errors without panicking", func() {
			_, err := s.List(ctx)
			So(errors.Is(err, model.ErrStoreOperation), ShouldBeTrue)
			So(errors.Is(s.Ping(ctx), model.ErrStoreOperation), ShouldBeTrue)
			So(s.Driver(), ShouldEqual, "postgres")
		})
	})
}

// TestPostgresStoreIntegration runs against POKEAPI_TEST_DB_HOST when set.
func TestPostgresStoreIntegration(t *testing.T) {
	host := os.Getenv("POKEAPI_TEST_DB_HOST")
	if host == "" {
		t.Skip("POKEAPI_TEST_DB_HOST not set")
	}
	port, _ := strconv.Atoi(os.Getenv("POKEAPI_TEST_DB_PORT"))
	if port == 0 {
		port = 5432
	}
	cfg := repository.PostgresConfig{
		Host:     host,
		Port:     port,
		User:     os.Getenv("POKEAPI_TEST_DB_USER"),
		Password: os.Getenv("POKEAPI_TEST_DB_PASSWORD"),
		Database: os.Getenv("POKEAPI_TEST_DB_DATABASE"),
	}

	Convey("Given a live postgres store", t, func() {
		ctx := context.Background()
		s, err := repository.NewPostgresStore(ctx, cfg)
		So(err, ShouldBeNil)
		defer s.Close() //nolint:errcheck // Test cleanup
		So(s.Ping(ctx), ShouldBeNil)

		cols, err := s.Columns(ctx)
		So(err, ShouldBeNil)
		So(cols, ShouldContain, "id")

		Convey("When a row is created, updated and deleted", func() {
			res, err := s.Create(ctx, model.Fields{"name": "Pidgey"})
			So(err, ShouldBeNil)
			So(res.InsertID, ShouldBeGreaterThan, 0)

			rows, err := s.Get(ctx, res.InsertID)
			So(err, ShouldBeNil)
			So(rows, ShouldHaveLength, 1)

			upd, err := s.Update(ctx, res.InsertID, model.Fields{"name": "Pidgeotto"})
			So(err, ShouldBeNil)
			So(upd.AffectedRows, ShouldEqual, 1)

			del, err := s.Delete(ctx, res.InsertID)
			So(err, ShouldBeNil)
			So(del.AffectedRows, ShouldEqual, 1)

			rows, err = s.Get(ctx, res.InsertID)
			So(err, ShouldBeNil)
			So(rows, ShouldBeEmpty)
		})
	})
}
