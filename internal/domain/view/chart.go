package view

import (
	"fmt"
	"sort"

	json "github.com/goccy/go-json"

	"github.com/okian/courtside/internal/domain/model"
)

// ChartWidth is the rendered width of every bar chart in pixels.
const ChartWidth = 700

const vegaLiteSchema = "https://vega.github.io/schema/vega-lite/v5.json"

// Bar is one category with its height and the raw values shown in its tooltip.
type Bar struct {
	Label   string
	Value   float64
	Tooltip map[string]any
}

// BarChart is a categorical bar chart sorted by value descending.
type BarChart struct {
	Title         string
	CategoryField string
	ValueField    string
	TooltipFields []string
	Bars          []Bar
}

// Empty reports whether there is nothing to draw.
func (c BarChart) Empty() bool { return len(c.Bars) == 0 }

func sortBars(bars []Bar) {
	sort.SliceStable(bars, func(i, j int) bool { return bars[i].Value > bars[j].Value })
}

// CountryChart plots total competitors per country.
func CountryChart(aggs []model.CountryAggregate) BarChart {
	bars := make([]Bar, 0, len(aggs))
	for _, a := range aggs {
		bars = append(bars, Bar{
			Label: a.Country,
			Value: float64(a.TotalCompetitors),
			Tooltip: map[string]any{
				"country":           a.Country,
				"total_competitors": a.TotalCompetitors,
				"avg_points":        a.AvgPoints,
			},
		})
	}
	sortBars(bars)
	return BarChart{
		Title:         "Total Competitors by Country",
		CategoryField: "country",
		ValueField:    "total_competitors",
		TooltipFields: []string{"country", "total_competitors", "avg_points"},
		Bars:          bars,
	}
}

// PointsChart plots the points leaderboard. n is the configured board size.
func PointsChart(entries []model.LeaderEntry, n int) BarChart {
	bars := make([]Bar, 0, len(entries))
	for _, e := range entries {
		bars = append(bars, Bar{
			Label: e.Name,
			Value: float64(e.Points),
			Tooltip: map[string]any{
				"name":   e.Name,
				"points": e.Points,
				"rank":   e.Rank,
			},
		})
	}
	sortBars(bars)
	return BarChart{
		Title:         fmt.Sprintf("Top %d Competitors by Points", n),
		CategoryField: "name",
		ValueField:    "points",
		TooltipFields: []string{"name", "points", "rank"},
		Bars:          bars,
	}
}

type vegaField struct {
	Field string `json:"field"`
	Type  string `json:"type,omitempty"`
	Sort  string `json:"sort,omitempty"`
}

type vegaSpec struct {
	Schema   string         `json:"$schema"`
	Title    string         `json:"title"`
	Width    int            `json:"width"`
	Data     map[string]any `json:"data"`
	Mark     string         `json:"mark"`
	Encoding map[string]any `json:"encoding"`
}

// VegaLite renders the chart as a Vega-Lite v5 spec with tooltips.
func (c BarChart) VegaLite() ([]byte, error) {
	values := make([]map[string]any, 0, len(c.Bars))
	for _, b := range c.Bars {
		values = append(values, b.Tooltip)
	}
	tooltip := make([]vegaField, 0, len(c.TooltipFields))
	for _, f := range c.TooltipFields {
		tooltip = append(tooltip, vegaField{Field: f})
	}
	spec := vegaSpec{
		Schema: vegaLiteSchema,
		Title:  c.Title,
		Width:  ChartWidth,
		Data:   map[string]any{"values": values},
		Mark:   "bar",
		Encoding: map[string]any{
			"x":       vegaField{Field: c.CategoryField, Type: "nominal", Sort: "-y"},
			"y":       vegaField{Field: c.ValueField, Type: "quantitative"},
			"tooltip": tooltip,
		},
	}
	out, err := json.Marshal(spec)
	if err != nil {
		return nil, fmt.Errorf("encode vega-lite spec: %w", err)
	}
	return out, nil
}
