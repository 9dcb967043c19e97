package api

import (
	"fmt"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"

	"github.com/okian/courtside/internal/domain/model"
	"github.com/okian/courtside/internal/domain/query"
	"github.com/okian/courtside/internal/domain/view"
)

type optionsResponse struct {
	Names     []string     `json:"names"`
	Countries []string     `json:"countries"`
	Limits    model.Limits `json:"limits"`
}

type competitorsResponse struct {
	Selection query.Selection `json:"selection"`
	Count     int             `json:"count"`
	Rows      []model.Row     `json:"rows"`
}

type leaderboardResponse struct {
	Limit   int                 `json:"limit"`
	Entries []model.LeaderEntry `json:"entries"`
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	sum, err := s.deps.Summary(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, sum)
}

func (s *Server) handleOptions(w http.ResponseWriter, r *http.Request) {
	opts, limits, err := s.deps.Options(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, optionsResponse{
		Names:     opts.Names,
		Countries: opts.Countries,
		Limits:    limits,
	})
}

func (s *Server) handleCompetitors(w http.ResponseWriter, r *http.Request) {
	req, err := parseFilter(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	rows, sel, err := s.deps.Filter(r.Context(), req.input())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if rows == nil {
		rows = []model.Row{}
	}
	writeJSON(w, http.StatusOK, competitorsResponse{Selection: sel, Count: len(rows), Rows: rows})
}

// handleCompetitor returns the drill-down detail of one competitor within
// the current filter result.
func (s *Server) handleCompetitor(w http.ResponseWriter, r *http.Request) {
	// chi matches on RawPath when the path has encoded slashes; only then is
	// the parameter still escaped.
	name := chi.URLParam(r, "name")
	if r.URL.RawPath != "" {
		if unescaped, err := url.PathUnescape(name); err == nil {
			name = unescaped
		}
	}
	req, err := parseFilter(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	rows, _, err := s.deps.Filter(r.Context(), req.input())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	detail, ok := view.DrillDown(rows, name)
	if !ok {
		s.fail(w, r, fmt.Errorf("%w: competitor %q is not in the filtered result", ErrNotFound, name))
		return
	}
	writeJSON(w, http.StatusOK, detail)
}

func (s *Server) handleCountries(w http.ResponseWriter, r *http.Request) {
	aggs, err := s.deps.Countries(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if aggs == nil {
		aggs = []model.CountryAggregate{}
	}
	writeJSON(w, http.StatusOK, aggs)
}

func (s *Server) handleTopByRank(w http.ResponseWriter, r *http.Request) {
	entries, err := s.deps.TopByRank(r.Context())
	s.writeLeaderboard(w, r, entries, err)
}

func (s *Server) handleTopByPoints(w http.ResponseWriter, r *http.Request) {
	entries, err := s.deps.TopByPoints(r.Context())
	s.writeLeaderboard(w, r, entries, err)
}

func (s *Server) writeLeaderboard(w http.ResponseWriter, r *http.Request, entries []model.LeaderEntry, err error) {
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if entries == nil {
		entries = []model.LeaderEntry{}
	}
	writeJSON(w, http.StatusOK, leaderboardResponse{Limit: s.deps.LeaderboardSize(), Entries: entries})
}
