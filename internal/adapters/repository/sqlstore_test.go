package repository_test

import (
	"context"
	"errors"
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/okian/courtside/internal/adapters/database"
	"github.com/okian/courtside/internal/adapters/repository"
	"github.com/okian/courtside/internal/config"
	"github.com/okian/courtside/internal/dbtest"
	"github.com/okian/courtside/internal/domain/model"
	"github.com/okian/courtside/internal/domain/query"
)

func newStore(t *testing.T, cfg config.DatabaseConfig) *repository.SQLStore {
	t.Helper()
	p, err := database.New(cfg)
	if err != nil {
		t.Fatal(err)
	}
	return repository.NewSQLStore(p)
}

func names(rows []model.Row) []string { return model.Names(rows) }

func TestWorkedExample(t *testing.T) {
	Convey("Given the three-competitor example", t, func() {
		ctx := context.Background()
		s := newStore(t, dbtest.SQLite(t, dbtest.Sample()))
		limits, err := s.Limits(ctx)
		So(err, ShouldBeNil)
		sel := query.NewSelection(limits)

		Convey("When filtering rank 1..2", func() {
			sel.Rank = query.Range{Min: 1, Max: 2}
			rows, err := s.Filter(ctx, sel)

			Convey("Then A and B are returned", func() {
				So(err, ShouldBeNil)
				So(names(rows), ShouldResemble, []string{"A", "B"})
			})
		})

		Convey("When filtering country FRA", func() {
			sel.Country = "FRA"
			rows, err := s.Filter(ctx, sel)

			Convey("Then only C is returned with its full field set", func() {
				So(err, ShouldBeNil)
				So(rows, ShouldResemble, []model.Row{{
					Name: "C", Country: "FRA", Rank: 3, Points: 1100, Movement: -1, CompetitionsPlayed: 22,
				}})
			})
		})

		Convey("When reading the points leaderboard", func() {
			top, err := s.TopByPoints(ctx, 10)

			Convey("Then it is C, A, B", func() {
				So(err, ShouldBeNil)
				So(top, ShouldResemble, []model.LeaderEntry{
					{Name: "C", Country: "FRA", Rank: 3, Points: 1100},
					{Name: "A", Country: "USA", Rank: 1, Points: 1000},
					{Name: "B", Country: "USA", Rank: 2, Points: 900},
				})
			})
		})
	})
}

func TestFilter(t *testing.T) {
	Convey("Given the extended fixture", t, func() {
		ctx := context.Background()
		s := newStore(t, dbtest.SQLite(t, dbtest.Extended()))
		limits, err := s.Limits(ctx)
		So(err, ShouldBeNil)
		all := query.NewSelection(limits)

		Convey("When every filter is at its default", func() {
			rows, err := s.Filter(ctx, all)

			Convey("Then every ranked competitor is returned in rank order", func() {
				So(err, ShouldBeNil)
				So(names(rows), ShouldResemble, []string{"A", "B", "C", "D", "E", "F", "G", "I"})
			})

			Convey("And a competitor without country has an empty country", func() {
				So(rows[4].Name, ShouldEqual, "E")
				So(rows[4].Country, ShouldEqual, "")
			})
		})

		Convey("When the rank range collapses to one value", func() {
			sel := all
			sel.Rank = query.Range{Min: 4, Max: 4}
			rows, err := s.Filter(ctx, sel)

			Convey("Then the exact match is returned", func() {
				So(err, ShouldBeNil)
				So(names(rows), ShouldResemble, []string{"D"})
			})
		})

		Convey("When filtering a points range", func() {
			sel := all
			sel.Points = query.Range{Min: 650, Max: 1000}
			rows, err := s.Filter(ctx, sel)

			Convey("Then every row lies inside both inclusive bounds", func() {
				So(err, ShouldBeNil)
				So(names(rows), ShouldResemble, []string{"A", "B", "D", "E"})
				for _, r := range rows {
					So(sel.Matches(r), ShouldBeTrue)
				}
			})
		})

		Convey("When combining name and country", func() {
			sel := all
			sel.Name, sel.Country = "F", "FRA"
			rows, err := s.Filter(ctx, sel)
			So(err, ShouldBeNil)
			So(names(rows), ShouldResemble, []string{"F"})

			sel.Country = "USA"
			rows, err = s.Filter(ctx, sel)
			So(err, ShouldBeNil)
			So(rows, ShouldBeEmpty)
		})

		Convey("When the name differs only by case", func() {
			sel := all
			sel.Name = "a"
			rows, err := s.Filter(ctx, sel)

			Convey("Then nothing matches", func() {
				So(err, ShouldBeNil)
				So(rows, ShouldBeEmpty)
			})
		})
	})
}

func TestSummaryOptionsLimits(t *testing.T) {
	Convey("Given the extended fixture", t, func() {
		ctx := context.Background()
		s := newStore(t, dbtest.SQLite(t, dbtest.Extended()))

		Convey("Then the summary counts every competitor and non-null country", func() {
			sum, err := s.Summary(ctx)
			So(err, ShouldBeNil)
			So(sum, ShouldResemble, model.Summary{TotalCompetitors: 9, Countries: 3, MaxPoints: 1100})
		})

		Convey("Then options are sorted and prefixed with All", func() {
			o, err := s.Options(ctx)
			So(err, ShouldBeNil)
			So(o.Names, ShouldResemble, []string{model.All, "A", "B", "C", "D", "E", "F", "G", "H", "I"})
			So(o.Countries, ShouldResemble, []string{model.All, "ESP", "FRA", "USA"})
		})

		Convey("Then limits span the ranking table", func() {
			l, err := s.Limits(ctx)
			So(err, ShouldBeNil)
			So(l, ShouldResemble, model.Limits{RankMin: 1, RankMax: 8, PointsMin: 300, PointsMax: 1100})
		})
	})

	Convey("Given empty tables", t, func() {
		ctx := context.Background()
		s := newStore(t, dbtest.SQLite(t, nil))

		Convey("Then counts are zero, dropdowns hold only All and views are empty", func() {
			sum, err := s.Summary(ctx)
			So(err, ShouldBeNil)
			So(sum, ShouldResemble, model.Summary{})

			o, err := s.Options(ctx)
			So(err, ShouldBeNil)
			So(o.Names, ShouldResemble, []string{model.All})
			So(o.Countries, ShouldResemble, []string{model.All})

			l, err := s.Limits(ctx)
			So(err, ShouldBeNil)
			So(l, ShouldResemble, model.Limits{})

			rows, err := s.Filter(ctx, query.NewSelection(l))
			So(err, ShouldBeNil)
			So(rows, ShouldBeEmpty)

			agg, err := s.CountryAggregates(ctx)
			So(err, ShouldBeNil)
			So(agg, ShouldBeEmpty)

			top, err := s.TopByRank(ctx, 10)
			So(err, ShouldBeNil)
			So(top, ShouldBeEmpty)
		})
	})
}

func TestCountryAggregates(t *testing.T) {
	Convey("Given the extended fixture", t, func() {
		ctx := context.Background()
		s := newStore(t, dbtest.SQLite(t, dbtest.Extended()))

		agg, err := s.CountryAggregates(ctx)

		Convey("Then countries are ordered by size with averages rounded to 2 decimals", func() {
			So(err, ShouldBeNil)
			So(agg, ShouldResemble, []model.CountryAggregate{
				{Country: "USA", TotalCompetitors: 3, AvgPoints: 800.33},
				{Country: "ESP", TotalCompetitors: 2, AvgPoints: 500},
				{Country: "FRA", TotalCompetitors: 2, AvgPoints: 1100},
			})
		})

		Convey("And totals equal per-country counts of the unfiltered rows", func() {
			l, _ := s.Limits(ctx)
			rows, err := s.Filter(ctx, query.NewSelection(l))
			So(err, ShouldBeNil)
			counts := map[string]int{}
			for _, r := range rows {
				if r.Country != "" {
					counts[r.Country]++
				}
			}
			for _, a := range agg {
				So(a.TotalCompetitors, ShouldEqual, counts[a.Country])
			}
		})
	})
}

func TestLeaderboards(t *testing.T) {
	Convey("Given the extended fixture", t, func() {
		ctx := context.Background()
		s := newStore(t, dbtest.SQLite(t, dbtest.Extended()))

		Convey("When asking for the top 3 by rank", func() {
			top, err := s.TopByRank(ctx, 3)

			Convey("Then the three best ranks come back ascending", func() {
				So(err, ShouldBeNil)
				So(len(top), ShouldEqual, 3)
				So([]int{top[0].Rank, top[1].Rank, top[2].Rank}, ShouldResemble, []int{1, 2, 3})
			})
		})

		Convey("When asking for more rows than exist", func() {
			top, err := s.TopByPoints(ctx, 50)

			Convey("Then every ranked row is returned, points descending, ties by rank", func() {
				So(err, ShouldBeNil)
				So(len(top), ShouldEqual, 8)
				So(top[0].Name, ShouldEqual, "C")
				So(top[1].Name, ShouldEqual, "F")
				for i := 1; i < len(top); i++ {
					So(top[i-1].Points, ShouldBeGreaterThanOrEqualTo, top[i].Points)
				}
			})
		})

		Convey("When the limit is not positive", func() {
			_, err := s.TopByRank(ctx, 0)

			Convey("Then ErrInvalidLimit is returned", func() {
				So(errors.Is(err, repository.ErrInvalidLimit), ShouldBeTrue)
			})
		})
	})
}

func TestConnectionAndQueryFailures(t *testing.T) {
	Convey("Given a store whose database is missing", t, func() {
		ctx := context.Background()
		s := newStore(t, dbtest.Missing(t))

		Convey("Then every call reports the connection error", func() {
			_, err := s.Summary(ctx)
			So(errors.Is(err, database.ErrConnect), ShouldBeTrue)
			So(errors.Is(err, repository.ErrQuery), ShouldBeFalse)

			_, err = s.Filter(ctx, query.Selection{Name: model.All, Country: model.All})
			So(errors.Is(err, database.ErrConnect), ShouldBeTrue)

			So(errors.Is(s.Ping(ctx), database.ErrConnect), ShouldBeTrue)
		})
	})

	Convey("Given a database without the expected tables", t, func() {
		ctx := context.Background()
		cfg := dbtest.SQLite(t, dbtest.Sample())
		p, err := database.New(cfg)
		So(err, ShouldBeNil)
		So(p.WithConn(ctx, func(c *database.Conn) error {
			rows, err := c.QueryContext(ctx, "DROP TABLE competitor_rankings")
			if err != nil {
				return err
			}
			return rows.Close()
		}), ShouldBeNil)
		s := repository.NewSQLStore(p)

		Convey("Then queries fail with ErrQuery", func() {
			_, err := s.CountryAggregates(ctx)
			So(errors.Is(err, repository.ErrQuery), ShouldBeTrue)
			So(err.Error(), ShouldContainSubstring, repository.QueryCountries)
		})
	})
}
