package view

import (
	"github.com/okian/courtside/internal/domain/model"
	"github.com/okian/courtside/internal/domain/query"
)

// Notice levels.
const (
	LevelError   = "error"
	LevelWarning = "warning"
)

// Notice is a user-visible message produced while rendering. A failing
// section adds one and renders empty; the rest of the page is unaffected.
type Notice struct {
	Level   string `json:"level"`
	Section string `json:"section"`
	Message string `json:"message"`
}

// Page is everything one render pass produced.
type Page struct {
	RenderID        string                   `json:"render_id"`
	Summary         model.Summary            `json:"summary"`
	Options         model.Options            `json:"options"`
	Limits          model.Limits             `json:"limits"`
	Selection       query.Selection          `json:"selection"`
	Rows            []model.Row              `json:"rows"`
	Detail          *Detail                  `json:"detail,omitempty"`
	Countries       []model.CountryAggregate `json:"countries"`
	TopByRank       []model.LeaderEntry      `json:"top_by_rank"`
	TopByPoints     []model.LeaderEntry      `json:"top_by_points"`
	LeaderboardSize int                      `json:"leaderboard_size"`
	Notices         []Notice                 `json:"notices,omitempty"`
}

// NoticesFor returns the notices raised by section.
func (p *Page) NoticesFor(section string) []Notice {
	var out []Notice
	for _, n := range p.Notices {
		if n.Section == section {
			out = append(out, n)
		}
	}
	return out
}
