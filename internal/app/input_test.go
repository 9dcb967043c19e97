package service

import (
	"errors"
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/okian/courtside/internal/domain/model"
	"github.com/okian/courtside/internal/domain/query"
)

func TestInputSelection(t *testing.T) {
	limits := model.Limits{RankMin: 1, RankMax: 100, PointsMin: 0, PointsMax: 5000}
	v := func(i int) *int { return &i }

	Convey("Given raw input", t, func() {
		Convey("When every bound is missing", func() {
			sel, err := Input{}.Selection(limits)

			Convey("Then the global limits apply", func() {
				So(err, ShouldBeNil)
				So(sel, ShouldResemble, query.NewSelection(limits))
			})
		})

		Convey("When a single bound is given", func() {
			sel, err := Input{PointsMin: v(2500)}.Selection(limits)

			Convey("Then the other bound stays at its limit", func() {
				So(err, ShouldBeNil)
				So(sel.Points, ShouldResemble, query.Range{Min: 2500, Max: 5000})
			})
		})

		Convey("When an inverted range lies outside the limits", func() {
			_, err := Input{RankMin: v(500), RankMax: v(200)}.Selection(limits)

			Convey("Then it is rejected rather than clamped into a valid range", func() {
				So(errors.Is(err, query.ErrInvertedRange), ShouldBeTrue)
			})
		})

		Convey("When the range lies beyond the limits", func() {
			sel, err := Input{PointsMin: v(6000), PointsMax: v(7000)}.Selection(limits)

			Convey("Then it is kept rather than pinned to the top limit", func() {
				So(err, ShouldBeNil)
				So(sel.Points, ShouldResemble, query.Range{Min: 6000, Max: 7000})
			})
		})

		Convey("When name and country are set", func() {
			sel, err := Input{Name: "A", Country: "USA"}.Selection(limits)

			So(err, ShouldBeNil)
			So(sel.Name, ShouldEqual, "A")
			So(sel.Country, ShouldEqual, "USA")
		})
	})
}

func TestInputExplicitSelection(t *testing.T) {
	v := func(i int) *int { return &i }

	Convey("Given input resolved without limits", t, func() {
		Convey("When a bound is missing", func() {
			_, err := Input{RankMin: v(1), RankMax: v(2), PointsMin: v(0)}.ExplicitSelection()
			So(errors.Is(err, ErrLimitsUnavailable), ShouldBeTrue)
		})

		Convey("When every bound is given", func() {
			sel, err := Input{RankMin: v(-5), RankMax: v(500), PointsMin: v(0), PointsMax: v(9000), Country: "USA"}.ExplicitSelection()

			Convey("Then the bounds are used as given", func() {
				So(err, ShouldBeNil)
				So(sel.Rank, ShouldResemble, query.Range{Min: -5, Max: 500})
				So(sel.Points, ShouldResemble, query.Range{Min: 0, Max: 9000})
				So(sel.Name, ShouldEqual, model.All)
				So(sel.Country, ShouldEqual, "USA")
			})
		})

		Convey("When an explicit range is inverted", func() {
			_, err := Input{RankMin: v(9), RankMax: v(2), PointsMin: v(0), PointsMax: v(1)}.ExplicitSelection()
			So(errors.Is(err, query.ErrInvertedRange), ShouldBeTrue)
		})
	})
}
