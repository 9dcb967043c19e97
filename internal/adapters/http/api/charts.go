package api

import (
	"bytes"
	"fmt"
	"net/http"

	"github.com/okian/courtside/internal/domain/view"
)

func (s *Server) handleCountryChart(w http.ResponseWriter, r *http.Request) {
	aggs, err := s.deps.Countries(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.writeSVG(w, r, view.CountryChart(aggs))
}

func (s *Server) handlePointsChart(w http.ResponseWriter, r *http.Request) {
	entries, err := s.deps.TopByPoints(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.writeSVG(w, r, view.PointsChart(entries, s.deps.LeaderboardSize()))
}

// writeSVG renders into a buffer first so a failed render still gets a
// proper error response.
func (s *Server) writeSVG(w http.ResponseWriter, r *http.Request, c view.BarChart) {
	var buf bytes.Buffer
	if err := s.charts.SVG(&buf, c); err != nil {
		s.fail(w, r, fmt.Errorf("chart %q: %w", c.Title, err))
		return
	}
	w.Header().Set("Content-Type", "image/svg+xml")
	w.Header().Set("Cache-Control", "no-store")
	_, _ = w.Write(buf.Bytes())
}
