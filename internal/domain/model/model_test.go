package model_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/okian/pokeapi/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func TestColumns(t *testing.T) {
	Convey("Given a column allowlist built from a schema", t, func() {
		cols := model.NewColumns("id", "name", " type ", "name", "", "hp")

		Convey("Then the identifier, blanks and duplicates are dropped", func() {
			So(cols.Names(), ShouldResemble, []string{"name", "type", "hp"})
			So(cols.Len(), ShouldEqual, 3)
			So(cols.Has("id"), ShouldBeFalse)
			So(cols.Has("type"), ShouldBeTrue)
			So(cols.Has("Type"), ShouldBeFalse)
		})

		Convey("And Names returns a copy", func() {
			names := cols.Names()
			names[0] = "mutated"
			So(cols.Names()[0], ShouldEqual, "name")
		})
	})
}

func TestParseID(t *testing.T) {
	Convey("Given path identifiers", t, func() {
		id, err := model.ParseID("25")
		So(err, ShouldBeNil)
		So(id, ShouldEqual, int64(25))

		for _, raw := range []string{"", "abc", "1.5", "1;DROP TABLE pokemons"} {
			_, err := model.ParseID(raw)
			So(errors.Is(err, model.ErrInvalidID), ShouldBeTrue)
		}
	})
}

func TestParseFields(t *testing.T) {
	Convey("Given an allowlist of name, type, hp, weight and legendary", t, func() {
		cols := model.NewColumns("name", "type", "hp", "weight", "legendary")
		parse := func(body string) (model.Fields, error) {
			return model.ParseFields(strings.NewReader(body), cols)
		}

		Convey("When the body holds scalar values", func() {
			fields, err := parse(`{"name":"Pikachu","hp":35,"weight":6.5,"legendary":false,"type":null}`)

			Convey("Then the values are normalized", func() {
				So(err, ShouldBeNil)
				So(fields["name"], ShouldEqual, "Pikachu")
				So(fields["hp"], ShouldEqual, int64(35))
				So(fields["weight"], ShouldEqual, 6.5)
				So(fields["legendary"], ShouldEqual, false)
				So(fields["type"], ShouldBeNil)
				So(fields.Keys(), ShouldResemble, []string{"hp", "legendary", "name", "type", "weight"})
			})
		})

		Convey("When the body is an empty object", func() {
			fields, err := parse(`{}`)
			So(err, ShouldBeNil)
			So(fields, ShouldBeEmpty)
		})

		Convey("When the body names an unknown column", func() {
			_, err := parse(`{"name":"Mew","owner":"Ash"}`)
			So(errors.Is(err, model.ErrUnknownColumn), ShouldBeTrue)
			So(err.Error(), ShouldContainSubstring, "owner")
		})

		Convey("When the body tries to set the identifier", func() {
			_, err := parse(`{"id":7}`)
			So(errors.Is(err, model.ErrImmutableColumn), ShouldBeTrue)
		})

		Convey("When a value is nested", func() {
			_, err := parse(`{"type":["electric"]}`)
			So(errors.Is(err, model.ErrInvalidValue), ShouldBeTrue)
			So(model.IsValidation(err), ShouldBeTrue)
		})

		Convey("When the body is not a JSON object", func() {
			for _, body := range []string{``, `null`, `[1]`, `"x"`, `{"name":`, `{} {}`} {
				_, err := parse(body)
				So(errors.Is(err, model.ErrInvalidBody), ShouldBeTrue)
			}
		})
	})
}

func TestStoreError(t *testing.T) {
	Convey("Given a driver failure", t, func() {
		cause := errors.New("connection refused")
		err := model.NewStoreError("list", cause)

		Convey("Then it matches the store kind and unwraps to the cause", func() {
			So(errors.Is(err, model.ErrStoreOperation), ShouldBeTrue)
			So(errors.Is(err, cause), ShouldBeTrue)
			So(err.Error(), ShouldEqual, "store list: connection refused")
			So(model.IsValidation(err), ShouldBeFalse)

			var se *model.StoreError
			So(errors.As(err, &se), ShouldBeTrue)
			So(se.Op, ShouldEqual, "list")
		})

		Convey("And a nil cause produces no error", func() {
			So(model.NewStoreError("list", nil), ShouldBeNil)
		})
	})
}
