package query

import (
	"errors"
	"strings"
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/okian/courtside/internal/domain/model"
)

func TestDialectFor(t *testing.T) {
	Convey("Given configured driver names", t, func() {
		So(DialectFor("postgres"), ShouldEqual, Dollar)
		So(DialectFor("pgx"), ShouldEqual, Dollar)
		So(DialectFor("sqlite"), ShouldEqual, Question)
		So(DialectFor("mysql"), ShouldEqual, Question)
		So(Dollar.String(), ShouldEqual, "dollar")
	})
}

func TestBuilderBuild(t *testing.T) {
	Convey("Given a builder with two clauses and a limit", t, func() {
		b := NewBuilder("SELECT x FROM t").
			Where("a BETWEEN ? AND ?", 1, 2).
			Where("b = ?", "z").
			OrderBy("a ASC").
			Limit(5)

		Convey("When rendered with the dollar dialect", func() {
			sql, args, err := b.Build(Dollar)

			Convey("Then placeholders are numbered in append order", func() {
				So(err, ShouldBeNil)
				So(sql, ShouldEqual, "SELECT x FROM t\nWHERE a BETWEEN $1 AND $2\n  AND b = $3\nORDER BY a ASC\nLIMIT $4")
				So(args, ShouldResemble, []any{1, 2, "z", 5})
			})
		})

		Convey("When rendered with the question dialect", func() {
			sql, args, err := b.Build(Question)

			Convey("Then every placeholder is a question mark", func() {
				So(err, ShouldBeNil)
				So(strings.Count(sql, "?"), ShouldEqual, 4)
				So(sql, ShouldNotContainSubstring, "$")
				So(args, ShouldResemble, []any{1, 2, "z", 5})
			})
		})

		Convey("When built twice", func() {
			first, _, _ := b.Build(Dollar)
			second, _, _ := b.Build(Dollar)

			Convey("Then the output is stable", func() {
				So(second, ShouldEqual, first)
			})
		})
	})

	Convey("Given a clause whose values do not match its placeholders", t, func() {
		_, _, err := NewBuilder("SELECT 1").Where("a = ? AND b = ?", 1).Build(Dollar)

		Convey("Then Build fails", func() {
			So(errors.Is(err, ErrPlaceholderMismatch), ShouldBeTrue)
		})
	})

	Convey("Given a builder without clauses", t, func() {
		sql, args, err := NewBuilder("  SELECT 1  ").Build(Dollar)

		Convey("Then only the base is rendered", func() {
			So(err, ShouldBeNil)
			So(sql, ShouldEqual, "SELECT 1")
			So(args, ShouldBeEmpty)
		})
	})
}

func TestFilterStatement(t *testing.T) {
	base := Selection{
		Name:    model.All,
		Country: model.All,
		Rank:    Range{Min: 1, Max: 2},
		Points:  Range{Min: 0, Max: 1000},
	}

	Convey("Given every combination of optional clauses", t, func() {
		cases := []struct {
			name     string
			country  string
			wantSQL  []string
			wantArgs []any
		}{
			{model.All, model.All, nil, []any{1, 2, 0, 1000}},
			{"A", model.All, []string{"c.name = $5"}, []any{1, 2, 0, 1000, "A"}},
			{model.All, "FRA", []string{"c.country = $5"}, []any{1, 2, 0, 1000, "FRA"}},
			{"A", "USA", []string{"c.name = $5", "c.country = $6"}, []any{1, 2, 0, 1000, "A", "USA"}},
		}

		for _, tc := range cases {
			sel := base
			sel.Name, sel.Country = tc.name, tc.country
			sql, args, err := Filter(sel).Build(Dollar)

			So(err, ShouldBeNil)
			So(sql, ShouldContainSubstring, "WHERE r.rank BETWEEN $1 AND $2")
			So(sql, ShouldContainSubstring, "AND r.points BETWEEN $3 AND $4")
			So(sql, ShouldEndWith, "ORDER BY r.rank ASC, c.name ASC")
			for _, frag := range tc.wantSQL {
				So(sql, ShouldContainSubstring, frag)
			}
			So(args, ShouldResemble, tc.wantArgs)
			So(strings.Count(sql, "$"), ShouldEqual, len(args))
		}
	})

	Convey("Given the All sentinel on both dropdowns", t, func() {
		sql, _, err := Filter(base).Build(Question)

		Convey("Then neither name nor country is constrained", func() {
			So(err, ShouldBeNil)
			So(sql, ShouldNotContainSubstring, "c.name =")
			So(sql, ShouldNotContainSubstring, "c.country =")
		})
	})
}

func TestLeaderboardStatements(t *testing.T) {
	Convey("Given the leaderboard builders", t, func() {
		Convey("Then top by rank orders ascending and binds the limit", func() {
			sql, args, err := TopByRank(10).Build(Dollar)
			So(err, ShouldBeNil)
			So(sql, ShouldContainSubstring, "ORDER BY r.rank ASC")
			So(sql, ShouldEndWith, "LIMIT $1")
			So(args, ShouldResemble, []any{10})
		})

		Convey("Then top by points orders descending", func() {
			sql, args, err := TopByPoints(3).Build(Question)
			So(err, ShouldBeNil)
			So(sql, ShouldContainSubstring, "ORDER BY r.points DESC")
			So(sql, ShouldEndWith, "LIMIT ?")
			So(args, ShouldResemble, []any{3})
		})
	})
}

func TestRebind(t *testing.T) {
	Convey("Given an insert statement", t, func() {
		stmt := "INSERT INTO t (a, b) VALUES (?, ?)"

		So(Rebind(Dollar, stmt), ShouldEqual, "INSERT INTO t (a, b) VALUES ($1, $2)")
		So(Rebind(Question, stmt), ShouldEqual, stmt)
	})
}
