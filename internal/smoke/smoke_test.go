package smoke_test

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/okian/pokeapi/internal/adapters/http/api"
	"github.com/okian/pokeapi/internal/adapters/http/openapi"
	"github.com/okian/pokeapi/internal/adapters/http/swagger"
	"github.com/okian/pokeapi/internal/adapters/repository"
	service "github.com/okian/pokeapi/internal/app"
	"github.com/okian/pokeapi/internal/smoke"
	"github.com/okian/pokeapi/pkg/logger"
)

func init() {
	if err := logger.Init(logger.WithOutput(io.Discard)); err != nil {
		panic(err)
	}
}

func newServer(t *testing.T) *httptest.Server {
	t.Helper()
	ctx := context.Background()
	store, err := repository.NewSQLiteStore(ctx, repository.SQLiteConfig{Path: repository.MemoryPath, Bootstrap: true})
	if err != nil {
		t.Fatalf("NewSQLiteStore() error = %v", err)
	}
	svc := service.New(service.WithStore(store))
	if err := svc.Start(ctx); err != nil {
		t.Fatalf("Start() error = %v", err)
	}

	mux := http.NewServeMux()
	srv := api.NewServer(svc)
	srv.Register(ctx, mux)
	doc := openapi.Build(openapi.Info{Title: "Pokemons API", Version: "1.0.0"}, nil, api.Routes(), svc.Columns().Names())
	if err := swagger.Register(ctx, mux, doc); err != nil {
		t.Fatalf("swagger.Register() error = %v", err)
	}

	ts := httptest.NewServer(srv.Handler(mux))
	t.Cleanup(func() {
		ts.Close()
		svc.Stop()
	})
	return ts
}

func TestRun(t *testing.T) {
	Convey("Given a running pokemons API", t, func() {
		ts := newServer(t)

		Convey("When the smoke run uses the default body", func() {
			report, err := smoke.Run(context.Background(), &smoke.Config{BaseURL: ts.URL, Timeout: 5 * time.Second})

			Convey("Then every check passes", func() {
				So(err, ShouldBeNil)
				So(report.Failed(), ShouldEqual, 0)
				So(report.Checks, ShouldHaveLength, 10)
				So(report.RunID, ShouldStartWith, "smoke-")
			})
		})

		Convey("When the body carries a boolean column", func() {
			cfg := &smoke.Config{
				BaseURL: ts.URL + "/",
				Timeout: 5 * time.Second,
				Body:    `{"name":"Mewtwo","legendary":true,"attack":110}`,
			}
			_, err := smoke.Run(context.Background(), cfg)

			Convey("Then stored 0/1 values still match", func() {
				So(err, ShouldBeNil)
			})
		})

		Convey("When the body names an unknown column", func() {
			cfg := &smoke.Config{BaseURL: ts.URL, Timeout: 5 * time.Second, Body: `{"nickname":"Sparky"}`}
			report, err := smoke.Run(context.Background(), cfg)

			Convey("Then create fails and the dependent checks are skipped", func() {
				So(errors.Is(err, smoke.ErrChecksFailed), ShouldBeTrue)
				So(report.Checks[0].Passed, ShouldBeTrue)
				So(report.Checks[1].Passed, ShouldBeFalse)
				So(report.Checks[2].Skipped, ShouldBeTrue)
				So(report.Checks[9].Passed, ShouldBeTrue)
			})
		})
	})

	Convey("Given an invalid body", t, func() {
		_, err := smoke.Run(context.Background(), &smoke.Config{BaseURL: "http://127.0.0.1:1", Body: `[1]`})
		So(errors.Is(err, smoke.ErrInvalidBody), ShouldBeTrue)

		_, err = smoke.Run(context.Background(), &smoke.Config{BaseURL: "http://127.0.0.1:1", Body: `{}`})
		So(errors.Is(err, smoke.ErrInvalidBody), ShouldBeTrue)
	})

	Convey("Given no server", t, func() {
		report, err := smoke.Run(context.Background(), &smoke.Config{BaseURL: "http://127.0.0.1:1", Timeout: time.Second})

		Convey("Then the health check fails", func() {
			So(errors.Is(err, smoke.ErrChecksFailed), ShouldBeTrue)
			So(report.Checks[0].Passed, ShouldBeFalse)
		})
	})
}
