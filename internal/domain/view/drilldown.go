package view

import (
	"strconv"

	"github.com/okian/courtside/internal/domain/model"
)

// Field is a labelled value.
type Field struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// Detail is the full field set of one filtered row.
type Detail struct {
	Name               string `json:"name"`
	Country            string `json:"country"`
	Rank               int    `json:"rank"`
	Movement           int    `json:"movement"`
	CompetitionsPlayed int    `json:"competitions_played"`
	Points             int    `json:"points"`
}

// DrillDown returns the first row whose name equals name exactly.
func DrillDown(rows []model.Row, name string) (Detail, bool) {
	for _, r := range rows {
		if r.Name == name {
			return Detail{
				Name:               r.Name,
				Country:            r.Country,
				Rank:               r.Rank,
				Movement:           r.Movement,
				CompetitionsPlayed: r.CompetitionsPlayed,
				Points:             r.Points,
			}, true
		}
	}
	return Detail{}, false
}

// Fields lists the detail in display order.
func (d Detail) Fields() []Field {
	return []Field{
		{"Name", d.Name},
		{"Country", d.Country},
		{"Rank", strconv.Itoa(d.Rank)},
		{"Movement", strconv.Itoa(d.Movement)},
		{"Competitions Played", strconv.Itoa(d.CompetitionsPlayed)},
		{"Points", count(d.Points)},
	}
}
