package api

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"net/http"

	"github.com/dustin/go-humanize"

	"github.com/okian/courtside/internal/domain/model"
	"github.com/okian/courtside/internal/domain/view"
	"github.com/okian/courtside/pkg/logger"
)

//go:embed templates/*.html
var templateFS embed.FS

var dashboardTemplate = template.Must(template.New("dashboard.html").Funcs(template.FuncMap{
	"comma": func(n int) string { return humanize.Comma(int64(n)) },
}).ParseFS(templateFS, "templates/dashboard.html"))

// dashboardView is the template payload of one render pass.
type dashboardView struct {
	Page         *view.Page
	Filtered     view.Table
	Countries    view.Table
	ByRank       view.Table
	ByPoints     view.Table
	DetailNames  []string
	CountryChart string
	PointsChart  string
	PointsTitle  string
}

func newDashboardView(p *view.Page) (dashboardView, error) {
	countries := view.CountryChart(p.Countries)
	points := view.PointsChart(p.TopByPoints, p.LeaderboardSize)

	dv := dashboardView{
		Page:        p,
		Filtered:    view.FilteredTable(p.Rows),
		Countries:   view.CountryTable(p.Countries),
		ByRank:      view.LeaderTable(p.TopByRank),
		ByPoints:    view.LeaderTable(p.TopByPoints),
		DetailNames: model.Names(p.Rows),
		PointsTitle: points.Title,
	}
	if !countries.Empty() {
		spec, err := countries.VegaLite()
		if err != nil {
			return dv, err
		}
		dv.CountryChart = string(spec)
	}
	if !points.Empty() {
		spec, err := points.VegaLite()
		if err != nil {
			return dv, err
		}
		dv.PointsChart = string(spec)
	}
	return dv, nil
}

// handleDashboard renders the full page. Query errors never fail the
// request; they show up as notices in the affected section.
func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	req, perr := parseFilter(r)
	if perr != nil {
		req = filterRequest{}
	}
	page := s.deps.Render(r.Context(), req.input())
	if perr != nil {
		page.Notices = append([]view.Notice{{
			Level:   view.LevelWarning,
			Section: "filter",
			Message: perr.Error(),
		}}, page.Notices...)
	}

	dv, err := newDashboardView(page)
	if err != nil {
		s.fail(w, r, fmt.Errorf("%w: %w", ErrTemplate, err))
		return
	}
	var buf bytes.Buffer
	if err := dashboardTemplate.Execute(&buf, dv); err != nil {
		s.fail(w, r, fmt.Errorf("%w: %w", ErrTemplate, err))
		return
	}
	s.logger.Debug(r.Context(), "dashboard rendered",
		logger.String("render_id", page.RenderID),
		logger.Int("notices", len(page.Notices)),
	)
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(buf.Bytes())
}
