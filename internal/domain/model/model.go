// Package model contains domain models passed between layers.
package model

// All is the dropdown sentinel that leaves a name or country unfiltered.
const All = "All"

// Row is one competitor joined to one of its ranking rows.
type Row struct {
	Name               string `json:"name"`
	Country            string `json:"country"` // empty when the competitor has no country
	Rank               int    `json:"rank"`
	Points             int    `json:"points"`
	Movement           int    `json:"movement"`
	CompetitionsPlayed int    `json:"competitions_played"`
}

// CountryAggregate summarises the ranking rows of one country.
type CountryAggregate struct {
	Country          string  `json:"country"`
	TotalCompetitors int     `json:"total_competitors"`
	AvgPoints        float64 `json:"avg_points"` // rounded to 2 decimals by the store
}

// LeaderEntry is the projection shown on both leaderboards.
type LeaderEntry struct {
	Name    string `json:"name"`
	Country string `json:"country"`
	Rank    int    `json:"rank"`
	Points  int    `json:"points"`
}

// Summary holds the sidebar statistics.
type Summary struct {
	TotalCompetitors int `json:"total_competitors"`
	Countries        int `json:"countries"`
	MaxPoints        int `json:"max_points"`
}

// Limits are the global bounds of rank and points. They seed the range
// inputs and the default selection. All four are zero for an empty table.
type Limits struct {
	RankMin   int `json:"rank_min"`
	RankMax   int `json:"rank_max"`
	PointsMin int `json:"points_min"`
	PointsMax int `json:"points_max"`
}

// Options lists the dropdown values. Both lists start with All.
type Options struct {
	Names     []string `json:"names"`
	Countries []string `json:"countries"`
}

// NewOptions prefixes the distinct sorted names and countries with All.
// Empty country values are dropped.
func NewOptions(names, countries []string) Options {
	o := Options{
		Names:     make([]string, 0, len(names)+1),
		Countries: make([]string, 0, len(countries)+1),
	}
	o.Names = append(o.Names, All)
	o.Names = append(o.Names, names...)
	o.Countries = append(o.Countries, All)
	for _, c := range countries {
		if c != "" {
			o.Countries = append(o.Countries, c)
		}
	}
	return o
}

// Names returns the names of rows in order. Used to seed the drill-down select.
func Names(rows []Row) []string {
	out := make([]string, len(rows))
	for i, r := range rows {
		out[i] = r.Name
	}
	return out
}
