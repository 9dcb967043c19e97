package view

import (
	"testing"

	json "github.com/goccy/go-json"
	. "github.com/smartystreets/goconvey/convey"

	"github.com/okian/courtside/internal/domain/model"
)

var sampleRows = []model.Row{
	{Name: "A", Country: "USA", Rank: 1, Points: 1000, Movement: 0, CompetitionsPlayed: 20},
	{Name: "B", Country: "USA", Rank: 2, Points: 900, Movement: 1, CompetitionsPlayed: 18},
	{Name: "C", Country: "FRA", Rank: 3, Points: 1100, Movement: -1, CompetitionsPlayed: 22},
}

func TestTables(t *testing.T) {
	Convey("Given filtered rows", t, func() {
		tbl := FilteredTable(sampleRows)

		Convey("Then the table keeps order and formats points", func() {
			So(tbl.Columns, ShouldResemble, []string{"name", "country", "rank", "points"})
			So(tbl.Rows[0], ShouldResemble, []string{"A", "USA", "1", "1,000"})
			So(tbl.Rows[2], ShouldResemble, []string{"C", "FRA", "3", "1,100"})
			So(tbl.Empty(), ShouldBeFalse)
		})
	})

	Convey("Given country aggregates", t, func() {
		tbl := CountryTable([]model.CountryAggregate{{Country: "USA", TotalCompetitors: 1200, AvgPoints: 800.33}})

		Convey("Then averages keep two decimals", func() {
			So(tbl.Rows[0], ShouldResemble, []string{"USA", "1,200", "800.33"})
		})
	})

	Convey("Given no rows", t, func() {
		So(FilteredTable(nil).Empty(), ShouldBeTrue)
		So(LeaderTable(nil).Columns, ShouldHaveLength, 4)
	})
}

func TestDrillDown(t *testing.T) {
	Convey("Given filtered rows", t, func() {
		Convey("When the name exists", func() {
			d, ok := DrillDown(sampleRows, "C")

			Convey("Then every field is exposed in display order", func() {
				So(ok, ShouldBeTrue)
				So(d.Fields(), ShouldResemble, []Field{
					{"Name", "C"},
					{"Country", "FRA"},
					{"Rank", "3"},
					{"Movement", "-1"},
					{"Competitions Played", "22"},
					{"Points", "1,100"},
				})
			})
		})

		Convey("When two rows share a name", func() {
			rows := append([]model.Row{}, sampleRows...)
			rows = append(rows, model.Row{Name: "A", Rank: 9})
			d, ok := DrillDown(rows, "A")

			Convey("Then the first match wins", func() {
				So(ok, ShouldBeTrue)
				So(d.Rank, ShouldEqual, 1)
			})
		})

		Convey("When the name is absent or differs in case", func() {
			_, ok := DrillDown(sampleRows, "a")
			So(ok, ShouldBeFalse)
			_, ok = DrillDown(nil, "A")
			So(ok, ShouldBeFalse)
		})
	})
}

func TestBarCharts(t *testing.T) {
	Convey("Given leaderboard entries", t, func() {
		entries := []model.LeaderEntry{
			{Name: "A", Country: "USA", Rank: 1, Points: 1000},
			{Name: "C", Country: "FRA", Rank: 3, Points: 1100},
			{Name: "B", Country: "USA", Rank: 2, Points: 900},
		}
		c := PointsChart(entries, 10)

		Convey("Then bars are sorted by points descending", func() {
			So(c.Title, ShouldEqual, "Top 10 Competitors by Points")
			So([]string{c.Bars[0].Label, c.Bars[1].Label, c.Bars[2].Label}, ShouldResemble, []string{"C", "A", "B"})
			So(c.Bars[0].Tooltip["rank"], ShouldEqual, 3)
		})

		Convey("And the Vega-Lite spec carries data, sort and tooltip", func() {
			raw, err := c.VegaLite()
			So(err, ShouldBeNil)

			var spec map[string]any
			So(json.Unmarshal(raw, &spec), ShouldBeNil)
			So(spec["$schema"], ShouldEqual, vegaLiteSchema)
			So(spec["mark"], ShouldEqual, "bar")
			So(spec["width"], ShouldEqual, float64(ChartWidth))

			enc := spec["encoding"].(map[string]any)
			x := enc["x"].(map[string]any)
			So(x["field"], ShouldEqual, "name")
			So(x["sort"], ShouldEqual, "-y")
			So(enc["tooltip"], ShouldHaveLength, 3)

			values := spec["data"].(map[string]any)["values"].([]any)
			So(values, ShouldHaveLength, 3)
			So(values[0].(map[string]any)["points"], ShouldEqual, float64(1100))
		})
	})

	Convey("Given country aggregates with ties", t, func() {
		c := CountryChart([]model.CountryAggregate{
			{Country: "ESP", TotalCompetitors: 2, AvgPoints: 500},
			{Country: "USA", TotalCompetitors: 3, AvgPoints: 800.33},
			{Country: "FRA", TotalCompetitors: 2, AvgPoints: 1100},
		})

		Convey("Then ties keep their input order", func() {
			So([]string{c.Bars[0].Label, c.Bars[1].Label, c.Bars[2].Label}, ShouldResemble, []string{"USA", "ESP", "FRA"})
			So(c.Bars[0].Tooltip["avg_points"], ShouldEqual, 800.33)
		})
	})

	Convey("Given no data", t, func() {
		c := CountryChart(nil)
		raw, err := c.VegaLite()

		Convey("Then the chart is empty but still encodes", func() {
			So(c.Empty(), ShouldBeTrue)
			So(err, ShouldBeNil)
			So(string(raw), ShouldContainSubstring, `"values":[]`)
		})
	})
}
