package repository_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/okian/pokeapi/internal/adapters/repository"
	"github.com/okian/pokeapi/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func openMemoryStore(t *testing.T) *repository.SQLiteStore {
	t.Helper()
	s, err := repository.NewSQLiteStore(context.Background(), repository.SQLiteConfig{
		Path:      repository.MemoryPath,
		Bootstrap: true,
	})
	if err != nil {
		t.Fatalf("NewSQLiteStore() error = %v", err)
	}
	return s
}

func TestSQLiteStore(t *testing.T) {
	Convey("Given a bootstrapped in-memory store", t, func() {
		ctx := context.Background()
		s := openMemoryStore(t)
		defer s.Close() //nolint:errcheck // Test cleanup

		Convey("Then it reports its driver and schema", func() {
			So(s.Driver(), ShouldEqual, "sqlite")
			So(s.Ping(ctx), ShouldBeNil)

			cols, err := s.Columns(ctx)
			So(err, ShouldBeNil)
			So(cols, ShouldResemble, []string{"id", "name", "type", "hp", "attack", "defense", "speed", "legendary"})
		})

		Convey("When the table is empty", func() {
			rows, err := s.List(ctx)

			Convey("Then List returns an empty, non-nil slice", func() {
				So(err, ShouldBeNil)
				So(rows, ShouldNotBeNil)
				So(rows, ShouldBeEmpty)
			})
		})

		Convey("When a pokemon is created", func() {
			res, err := s.Create(ctx, model.Fields{"name": "Bulbasaur", "type": "grass", "hp": int64(45), "legendary": false})
			So(err, ShouldBeNil)
			So(res.AffectedRows, ShouldEqual, 1)
			So(res.InsertID, ShouldBeGreaterThan, 0)

			Convey("Then Get returns it with the assigned id", func() {
				rows, err := s.Get(ctx, res.InsertID)
				So(err, ShouldBeNil)
				So(rows, ShouldHaveLength, 1)
				So(rows[0]["id"], ShouldEqual, res.InsertID)
				So(rows[0]["name"], ShouldEqual, "Bulbasaur")
				So(rows[0]["hp"], ShouldEqual, int64(45))
				So(rows[0]["attack"], ShouldBeNil)
			})

			Convey("And List includes it", func() {
				rows, err := s.List(ctx)
				So(err, ShouldBeNil)
				So(rows, ShouldHaveLength, 1)
			})

			Convey("And Update overwrites only the given columns", func() {
				upd, err := s.Update(ctx, res.InsertID, model.Fields{"hp": int64(60), "name": "Ivysaur"})
				So(err, ShouldBeNil)
				So(upd.AffectedRows, ShouldEqual, 1)

				rows, _ := s.Get(ctx, res.InsertID)
				So(rows[0]["name"], ShouldEqual, "Ivysaur")
				So(rows[0]["hp"], ShouldEqual, int64(60))
				So(rows[0]["type"], ShouldEqual, "grass")
			})

			Convey("And Delete removes it", func() {
				del, err := s.Delete(ctx, res.InsertID)
				So(err, ShouldBeNil)
				So(del.AffectedRows, ShouldEqual, 1)

				rows, err := s.Get(ctx, res.InsertID)
				So(err, ShouldBeNil)
				So(rows, ShouldBeEmpty)
			})
		})

		Convey("When updating or deleting a missing id", func() {
			upd, err := s.Update(ctx, 999, model.Fields{"name": "Missingno"})
			So(err, ShouldBeNil)
			So(upd.AffectedRows, ShouldEqual, 0)

			del, err := s.Delete(ctx, 999)
			So(err, ShouldBeNil)
			So(del.AffectedRows, ShouldEqual, 0)
		})

		Convey("When a constraint is violated", func() {
			_, err := s.Create(ctx, model.Fields{})

			Convey("Then the failure is a store operation error", func() {
				So(errors.Is(err, model.ErrStoreOperation), ShouldBeTrue)
				var se *model.StoreError
				So(errors.As(err, &se), ShouldBeTrue)
				So(se.Op, ShouldEqual, repository.OpCreate)
			})
		})

		Convey("When updating with no fields", func() {
			_, err := s.Update(ctx, 1, model.Fields{})
			So(errors.Is(err, model.ErrEmptyBody), ShouldBeTrue)
		})

		Convey("When the store is closed", func() {
			So(s.Close(), ShouldBeNil)
			_, err := s.List(ctx)

			Convey("Then every call fails as a store error", func() {
				So(errors.Is(err, model.ErrStoreOperation), ShouldBeTrue)
			})
		})
	})
}

func TestSQLiteStoreFile(t *testing.T) {
	Convey("Given a file path in a missing directory", t, func() {
		path := filepath.Join(t.TempDir(), "nested", "pokemons.db")
		s, err := repository.NewSQLiteStore(context.Background(), repository.SQLiteConfig{Path: path, Bootstrap: true})
		So(err, ShouldBeNil)
		defer s.Close() //nolint:errcheck // Test cleanup

		Convey("Then data persists across reopen", func() {
			_, err := s.Create(context.Background(), model.Fields{"name": "Eevee"})
			So(err, ShouldBeNil)
			So(s.Close(), ShouldBeNil)

			again, err := repository.NewSQLiteStore(context.Background(), repository.SQLiteConfig{Path: path})
			So(err, ShouldBeNil)
			defer again.Close() //nolint:errcheck // Test cleanup

			rows, err := again.List(context.Background())
			So(err, ShouldBeNil)
			So(rows, ShouldHaveLength, 1)
			So(again.Stats().Total, ShouldBeLessThanOrEqualTo, 1)
		})
	})

	Convey("Given an empty path", t, func() {
		_, err := repository.NewSQLiteStore(context.Background(), repository.SQLiteConfig{})
		So(errors.Is(err, repository.ErrOpenStore), ShouldBeTrue)
	})
}
