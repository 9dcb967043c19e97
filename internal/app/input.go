package service

import (
	"github.com/okian/courtside/internal/domain/model"
	"github.com/okian/courtside/internal/domain/query"
)

// Input is the raw filter state of one interaction. Nil bounds fall back to
// the global limits.
type Input struct {
	Name      string
	Country   string
	RankMin   *int
	RankMax   *int
	PointsMin *int
	PointsMax *int

	// Detail selects the drill-down row; empty picks the first filtered row.
	Detail string
}

// Selection resolves in against the global limits. Inverted ranges are
// rejected before clamping.
func (in Input) Selection(l model.Limits) (query.Selection, error) {
	sel := in.resolve(l)
	if err := sel.Validate(); err != nil {
		return sel, err
	}
	return sel.Clamp(l), nil
}

// Bounded reports whether every rank and points bound is given.
func (in Input) Bounded() bool {
	return in.RankMin != nil && in.RankMax != nil && in.PointsMin != nil && in.PointsMax != nil
}

// ExplicitSelection resolves in without global limits, using the given
// bounds as they are. It fails with ErrLimitsUnavailable unless in is Bounded.
func (in Input) ExplicitSelection() (query.Selection, error) {
	sel := in.resolve(model.Limits{})
	if !in.Bounded() {
		return sel, ErrLimitsUnavailable
	}
	return sel, sel.Validate()
}

func (in Input) resolve(l model.Limits) query.Selection {
	sel := query.NewSelection(l)
	sel.Name, sel.Country = in.Name, in.Country
	sel = sel.Normalize()

	override(&sel.Rank.Min, in.RankMin)
	override(&sel.Rank.Max, in.RankMax)
	override(&sel.Points.Min, in.PointsMin)
	override(&sel.Points.Max, in.PointsMax)
	return sel
}

func override(dst, v *int) {
	if v != nil {
		*dst = *v
	}
}
