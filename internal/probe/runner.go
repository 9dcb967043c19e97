// Package probe checks the observable properties of a running dashboard
// through its JSON API.
package probe

import (
	"context"
	"errors"
	"fmt"
	"math"
	"net/url"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/okian/courtside/internal/domain/model"
	"github.com/okian/courtside/pkg/logger"
)

type runner struct {
	c      *client
	log    logger.Logger
	report Report
}

// Run executes every check sequentially. The returned error wraps
// ErrViolation and lists each violation, or wraps ErrRequest when the
// dashboard could not be queried at all.
func Run(ctx context.Context, cfg Config, log logger.Logger) (Report, error) {
	if log == nil {
		log = logger.Discard()
	}
	r := &runner{c: newClient(cfg.BaseURL, cfg.Timeout), log: log}
	start := time.Now()

	var opts optionsResponse
	if err := r.c.getJSON(ctx, "/api/options", nil, &opts); err != nil {
		return r.report, err
	}
	all, err := r.c.competitors(ctx, nil)
	if err != nil {
		return r.report, err
	}
	log.Info(ctx, "probe started",
		logger.String("url", cfg.BaseURL),
		logger.Int("rows", len(all.Rows)),
	)

	for _, check := range []func(context.Context, optionsResponse, []model.Row) error{
		r.checkFullRange,
		r.checkAllIsNoop,
		r.checkExactRange,
		r.checkNames,
		r.checkCountries,
		r.checkLeaderboards,
		r.checkAggregates,
	} {
		if err := check(ctx, opts, all.Rows); err != nil {
			return r.report, err
		}
	}

	log.Info(ctx, "probe completed",
		logger.Int("checks", r.report.Checks),
		logger.Int("violations", len(r.report.Violations)),
		logger.Duration("elapsed", time.Since(start)),
	)
	if len(r.report.Violations) > 0 {
		return r.report, fmt.Errorf("%w:\n  %s", ErrViolation, strings.Join(r.report.Violations, "\n  "))
	}
	return r.report, nil
}

// expect records one check and, when ok is false, a violation.
func (r *runner) expect(ok bool, format string, args ...any) {
	r.report.Checks++
	if !ok {
		msg := fmt.Sprintf(format, args...)
		r.report.Violations = append(r.report.Violations, msg)
		r.log.Warn(context.Background(), "violation", logger.String("detail", msg))
	}
}

func rangeParams(rankMin, rankMax, pointsMin, pointsMax int) url.Values {
	return url.Values{
		"rank_min":   {strconv.Itoa(rankMin)},
		"rank_max":   {strconv.Itoa(rankMax)},
		"points_min": {strconv.Itoa(pointsMin)},
		"points_max": {strconv.Itoa(pointsMax)},
	}
}

func (r *runner) checkFullRange(_ context.Context, opts optionsResponse, rows []model.Row) error {
	l := opts.Limits
	for i, row := range rows {
		r.expect(row.Rank >= l.RankMin && row.Rank <= l.RankMax,
			"unfiltered row %q rank %d outside [%d, %d]", row.Name, row.Rank, l.RankMin, l.RankMax)
		r.expect(row.Points >= l.PointsMin && row.Points <= l.PointsMax,
			"unfiltered row %q points %d outside [%d, %d]", row.Name, row.Points, l.PointsMin, l.PointsMax)
		if i > 0 {
			prev := rows[i-1]
			r.expect(prev.Rank < row.Rank || (prev.Rank == row.Rank && prev.Name <= row.Name),
				"rows %q and %q out of rank order", prev.Name, row.Name)
		}
	}
	return nil
}

func (r *runner) checkAllIsNoop(ctx context.Context, _ optionsResponse, rows []model.Row) error {
	got, err := r.c.competitors(ctx, url.Values{"name": {model.All}, "country": {model.All}})
	if err != nil {
		return err
	}
	r.expect(slices.Equal(model.Names(got.Rows), model.Names(rows)),
		"explicit All filters returned %d rows, unfiltered %d", len(got.Rows), len(rows))
	return nil
}

func (r *runner) checkExactRange(ctx context.Context, opts optionsResponse, rows []model.Row) error {
	if len(rows) == 0 {
		return nil
	}
	l := opts.Limits
	target := rows[len(rows)/2]

	byRank, err := r.c.competitors(ctx, rangeParams(target.Rank, target.Rank, l.PointsMin, l.PointsMax))
	if err != nil {
		return err
	}
	r.expect(containsName(byRank.Rows, target.Name), "rank %d exact range missed %q", target.Rank, target.Name)
	for _, row := range byRank.Rows {
		r.expect(row.Rank == target.Rank, "rank %d exact range returned %q with rank %d", target.Rank, row.Name, row.Rank)
	}

	byPoints, err := r.c.competitors(ctx, rangeParams(l.RankMin, l.RankMax, target.Points, target.Points))
	if err != nil {
		return err
	}
	r.expect(containsName(byPoints.Rows, target.Name), "points %d exact range missed %q", target.Points, target.Name)
	for _, row := range byPoints.Rows {
		r.expect(row.Points == target.Points,
			"points %d exact range returned %q with points %d", target.Points, row.Name, row.Points)
	}
	return nil
}

func (r *runner) checkNames(ctx context.Context, opts optionsResponse, _ []model.Row) error {
	checked := 0
	for _, name := range opts.Names {
		if name == model.All {
			continue
		}
		if checked == maxNameChecks {
			break
		}
		checked++
		got, err := r.c.competitors(ctx, url.Values{"name": {name}})
		if err != nil {
			return err
		}
		for _, row := range got.Rows {
			r.expect(row.Name == name, "name filter %q returned %q", name, row.Name)
		}
	}
	return nil
}

func (r *runner) checkCountries(ctx context.Context, opts optionsResponse, rows []model.Row) error {
	for _, country := range opts.Countries {
		if country == model.All {
			continue
		}
		got, err := r.c.competitors(ctx, url.Values{"country": {country}})
		if err != nil {
			return err
		}
		for _, row := range got.Rows {
			r.expect(row.Country == country, "country filter %q returned %q from %q", country, row.Name, row.Country)
		}
		want := countCountry(rows, country)
		r.expect(len(got.Rows) == want, "country filter %q returned %d rows, expected %d", country, len(got.Rows), want)
	}
	return nil
}

func (r *runner) checkLeaderboards(ctx context.Context, _ optionsResponse, _ []model.Row) error {
	var byRank, byPoints leaderboardResponse
	if err := r.c.getJSON(ctx, "/api/leaderboard/rank", nil, &byRank); err != nil {
		return err
	}
	if err := r.c.getJSON(ctx, "/api/leaderboard/points", nil, &byPoints); err != nil {
		return err
	}

	r.expect(len(byRank.Entries) <= byRank.Limit,
		"rank leaderboard has %d entries, limit %d", len(byRank.Entries), byRank.Limit)
	r.expect(len(byPoints.Entries) <= byPoints.Limit,
		"points leaderboard has %d entries, limit %d", len(byPoints.Entries), byPoints.Limit)
	for i := 1; i < len(byRank.Entries); i++ {
		prev, cur := byRank.Entries[i-1], byRank.Entries[i]
		r.expect(prev.Rank <= cur.Rank, "rank leaderboard: %q (%d) before %q (%d)", prev.Name, prev.Rank, cur.Name, cur.Rank)
	}
	for i := 1; i < len(byPoints.Entries); i++ {
		prev, cur := byPoints.Entries[i-1], byPoints.Entries[i]
		r.expect(prev.Points > cur.Points || (prev.Points == cur.Points && prev.Rank <= cur.Rank),
			"points leaderboard: %q (%d) before %q (%d)", prev.Name, prev.Points, cur.Name, cur.Points)
	}
	return nil
}

func (r *runner) checkAggregates(ctx context.Context, _ optionsResponse, rows []model.Row) error {
	var aggs []model.CountryAggregate
	if err := r.c.getJSON(ctx, "/api/countries", nil, &aggs); err != nil {
		return err
	}
	for _, a := range aggs {
		n, mean := countryMean(rows, a.Country)
		r.expect(a.TotalCompetitors == n, "country %q total %d, expected %d", a.Country, a.TotalCompetitors, n)
		r.expect(math.Abs(a.AvgPoints-mean) < 0.006, "country %q average %.2f, expected %.2f", a.Country, a.AvgPoints, mean)
	}
	for i := 1; i < len(aggs); i++ {
		r.expect(aggs[i-1].TotalCompetitors >= aggs[i].TotalCompetitors,
			"country %q listed before larger %q", aggs[i-1].Country, aggs[i].Country)
	}
	return nil
}

func containsName(rows []model.Row, name string) bool {
	for _, row := range rows {
		if row.Name == name {
			return true
		}
	}
	return false
}

func countCountry(rows []model.Row, country string) int {
	n, _ := countryMean(rows, country)
	return n
}

// countryMean returns the row count and the mean points rounded to 2 decimals.
func countryMean(rows []model.Row, country string) (int, float64) {
	n, sum := 0, 0
	for _, row := range rows {
		if row.Country == country {
			n++
			sum += row.Points
		}
	}
	if n == 0 {
		return 0, 0
	}
	return n, math.Round(float64(sum)/float64(n)*100) / 100
}

// IsViolation reports whether err lists property violations rather than a
// failure to reach the dashboard.
func IsViolation(err error) bool { return errors.Is(err, ErrViolation) }
