package validation_test

import (
	"errors"
	"testing"

	"github.com/okian/courtside/internal/validation"
	. "github.com/smartystreets/goconvey/convey"
)

type sample struct {
	Limit  int    `query:"limit" validate:"min=1,max=10"`
	Driver string `koanf:"driver" validate:"oneof=postgres sqlite"`
	Host   string `validate:"required"`
}

func TestStruct(t *testing.T) {
	Convey("Given a struct with validate tags", t, func() {
		Convey("When every rule passes", func() {
			err := validation.Struct(sample{Limit: 5, Driver: "sqlite", Host: "db"})

			Convey("Then no error is returned", func() {
				So(err, ShouldBeNil)
			})
		})

		Convey("When several rules fail", func() {
			err := validation.Struct(sample{Limit: 0, Driver: "mysql"})

			Convey("Then every failure is reported under its tag name", func() {
				So(err, ShouldNotBeNil)
				So(errors.Is(err, validation.ErrValidation), ShouldBeTrue)

				var verr *validation.Error
				So(errors.As(err, &verr), ShouldBeTrue)
				So(len(verr.Fields), ShouldEqual, 3)
				So(err.Error(), ShouldContainSubstring, "limit must be at least 1")
				So(err.Error(), ShouldContainSubstring, "driver must be one of [postgres sqlite]")
				So(err.Error(), ShouldContainSubstring, "Host is required")
			})
		})
	})
}
