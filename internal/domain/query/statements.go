package query

import "github.com/okian/courtside/internal/domain/model"

const filterBase = `
SELECT c.name, c.country, r.rank, r.points, r.movement, r.competitions_played
FROM competitors c
JOIN competitor_rankings r ON c.id = r.competitor_id`

const leaderBase = `
SELECT c.name, c.country, r.rank, r.points
FROM competitors c
JOIN competitor_rankings r ON c.id = r.competitor_id`

// Filter compiles a selection. The rank and points ranges are always bound
// first, then the optional name and country literals.
func Filter(s Selection) *Builder {
	b := NewBuilder(filterBase).
		Where("r.rank BETWEEN ? AND ?", s.Rank.Min, s.Rank.Max).
		Where("r.points BETWEEN ? AND ?", s.Points.Min, s.Points.Max)
	if s.Name != model.All {
		b.Where("c.name = ?", s.Name)
	}
	if s.Country != model.All {
		b.Where("c.country = ?", s.Country)
	}
	return b.OrderBy("r.rank ASC", "c.name ASC")
}

// TopByRank lists the n best ranked rows.
func TopByRank(n int) *Builder {
	return NewBuilder(leaderBase).OrderBy("r.rank ASC", "c.name ASC").Limit(n)
}

// TopByPoints lists the n rows with the most points.
func TopByPoints(n int) *Builder {
	return NewBuilder(leaderBase).OrderBy("r.points DESC", "r.rank ASC").Limit(n)
}
