// Package view projects fetched rows into tables, drill-down details and
// bar charts. Nothing here queries the store.
package view

import (
	"strconv"

	"github.com/dustin/go-humanize"

	"github.com/okian/courtside/internal/domain/model"
)

// Column extracts one cell from a row of type T.
type Column[T any] struct {
	Header string
	Value  func(T) string
}

// Table is a header plus string cells, ready for HTML or text output.
type Table struct {
	Columns []string   `json:"columns"`
	Rows    [][]string `json:"rows"`
}

// Empty reports whether the table has no rows.
func (t Table) Empty() bool { return len(t.Rows) == 0 }

// NewTable projects rows through cols.
func NewTable[T any](cols []Column[T], rows []T) Table {
	t := Table{
		Columns: make([]string, len(cols)),
		Rows:    make([][]string, 0, len(rows)),
	}
	for i, c := range cols {
		t.Columns[i] = c.Header
	}
	for _, r := range rows {
		cells := make([]string, len(cols))
		for i, c := range cols {
			cells[i] = c.Value(r)
		}
		t.Rows = append(t.Rows, cells)
	}
	return t
}

func count(n int) string { return humanize.Comma(int64(n)) }

// FilteredTable shows name, country, rank and points.
func FilteredTable(rows []model.Row) Table {
	return NewTable([]Column[model.Row]{
		{"name", func(r model.Row) string { return r.Name }},
		{"country", func(r model.Row) string { return r.Country }},
		{"rank", func(r model.Row) string { return strconv.Itoa(r.Rank) }},
		{"points", func(r model.Row) string { return count(r.Points) }},
	}, rows)
}

// CountryTable shows every field of the country aggregates.
func CountryTable(aggs []model.CountryAggregate) Table {
	return NewTable([]Column[model.CountryAggregate]{
		{"country", func(a model.CountryAggregate) string { return a.Country }},
		{"total_competitors", func(a model.CountryAggregate) string { return count(a.TotalCompetitors) }},
		{"avg_points", func(a model.CountryAggregate) string { return humanize.CommafWithDigits(a.AvgPoints, 2) }},
	}, aggs)
}

// LeaderTable shows a leaderboard.
func LeaderTable(entries []model.LeaderEntry) Table {
	return NewTable([]Column[model.LeaderEntry]{
		{"name", func(e model.LeaderEntry) string { return e.Name }},
		{"country", func(e model.LeaderEntry) string { return e.Country }},
		{"rank", func(e model.LeaderEntry) string { return strconv.Itoa(e.Rank) }},
		{"points", func(e model.LeaderEntry) string { return count(e.Points) }},
	}, entries)
}
