// Package query compiles filter selections into parameterized SQL.
//
// A statement is an ordered list of (clause, bound values) pairs. Placeholders
// are numbered while rendering, in the order clauses were appended, so the
// argument slice always lines up with them.
package query

import (
	"fmt"
	"strings"

	"github.com/okian/courtside/internal/domain/model"
)

// Range is an inclusive integer interval.
type Range struct {
	Min int `json:"min"`
	Max int `json:"max"`
}

// Inverted reports whether Min exceeds Max.
func (r Range) Inverted() bool { return r.Min > r.Max }

// Contains reports whether v lies within the closed interval.
func (r Range) Contains(v int) bool { return v >= r.Min && v <= r.Max }

// Overlaps reports whether r and [lo, hi] share at least one value.
func (r Range) Overlaps(lo, hi int) bool { return r.Min <= hi && r.Max >= lo }

// clamp intersects r with [lo, hi]. A disjoint range is returned unchanged
// so the filter still matches nothing.
func (r Range) clamp(lo, hi int) Range {
	if !r.Overlaps(lo, hi) {
		return r
	}
	return Range{Min: max(r.Min, lo), Max: min(r.Max, hi)}
}

// Selection is the filter state of a single interaction. It is rebuilt from
// request parameters every time and never stored.
type Selection struct {
	Name    string `json:"name"`
	Country string `json:"country"`
	Rank    Range  `json:"rank"`
	Points  Range  `json:"points"`
}

// NewSelection returns the default selection: no name or country filter and
// the full global rank and points ranges.
func NewSelection(l model.Limits) Selection {
	return Selection{
		Name:    model.All,
		Country: model.All,
		Rank:    Range{Min: l.RankMin, Max: l.RankMax},
		Points:  Range{Min: l.PointsMin, Max: l.PointsMax},
	}
}

// Normalize maps blank name and country values to All.
func (s Selection) Normalize() Selection {
	if strings.TrimSpace(s.Name) == "" {
		s.Name = model.All
	}
	if strings.TrimSpace(s.Country) == "" {
		s.Country = model.All
	}
	return s
}

// Validate rejects inverted ranges. It must run before Clamp, which could
// otherwise collapse an inverted range into a valid one.
func (s Selection) Validate() error {
	if s.Rank.Inverted() {
		return fmt.Errorf("%w: rank %d > %d", ErrInvertedRange, s.Rank.Min, s.Rank.Max)
	}
	if s.Points.Inverted() {
		return fmt.Errorf("%w: points %d > %d", ErrInvertedRange, s.Points.Min, s.Points.Max)
	}
	return nil
}

// Clamp narrows each range to its intersection with the global limits.
// Ranges that miss the limits entirely are left as requested.
func (s Selection) Clamp(l model.Limits) Selection {
	s.Rank = s.Rank.clamp(l.RankMin, l.RankMax)
	s.Points = s.Points.clamp(l.PointsMin, l.PointsMax)
	return s
}

// Matches reports whether row satisfies every predicate of the selection.
// It mirrors the SQL filter and is used to verify query results.
func (s Selection) Matches(row model.Row) bool {
	if !s.Rank.Contains(row.Rank) || !s.Points.Contains(row.Points) {
		return false
	}
	if s.Name != model.All && row.Name != s.Name {
		return false
	}
	if s.Country != model.All && row.Country != s.Country {
		return false
	}
	return true
}
