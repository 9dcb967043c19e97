package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/okian/courtside/internal/adapters/database"
	"github.com/okian/courtside/internal/domain/model"
	"github.com/okian/courtside/internal/domain/query"
	"github.com/okian/courtside/pkg/logger"
	"github.com/okian/courtside/pkg/metrics"
)

// Query names used in logs and metrics labels.
const (
	QuerySummary     = "summary"
	QueryOptions     = "options"
	QueryLimits      = "limits"
	QueryFilter      = "filter"
	QueryCountries   = "countries"
	QueryTopByRank   = "top_by_rank"
	QueryTopByPoints = "top_by_points"
)

const (
	stmtCountCompetitors = `SELECT COUNT(*) FROM competitors`
	stmtCountCountries   = `SELECT COUNT(DISTINCT country) FROM competitors`
	stmtMaxPoints        = `SELECT COALESCE(MAX(points), 0) FROM competitor_rankings`

	stmtNames     = `SELECT DISTINCT name FROM competitors ORDER BY name`
	stmtCountries = `SELECT DISTINCT country FROM competitors WHERE country IS NOT NULL ORDER BY country`

	stmtLimits = `
SELECT COALESCE(MIN(rank), 0), COALESCE(MAX(rank), 0),
       COALESCE(MIN(points), 0), COALESCE(MAX(points), 0)
FROM competitor_rankings`

	stmtCountryAggregates = `
SELECT c.country, COUNT(*) AS total_competitors, ROUND(AVG(r.points), 2) AS avg_points
FROM competitors c
JOIN competitor_rankings r ON c.id = r.competitor_id
WHERE c.country IS NOT NULL
GROUP BY c.country
ORDER BY total_competitors DESC, c.country ASC`
)

// Connector hands out scoped connections. *database.Provider implements it.
type Connector interface {
	WithConn(ctx context.Context, fn func(*database.Conn) error) error
	Dialect() query.Dialect
}

// SQLStore implements Store with one connection per method call.
type SQLStore struct {
	conns  Connector
	logger logger.Logger
}

var _ Store = (*SQLStore)(nil)

// NewSQLStore returns a store reading through conns.
func NewSQLStore(conns Connector, opts ...Option) *SQLStore {
	s := &SQLStore{conns: conns, logger: logger.Discard()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Summary implements Store.
func (s *SQLStore) Summary(ctx context.Context) (model.Summary, error) {
	var out model.Summary
	err := s.run(ctx, QuerySummary, func(c *database.Conn) (int, error) {
		for _, q := range []struct {
			stmt string
			dst  *int
		}{
			{stmtCountCompetitors, &out.TotalCompetitors},
			{stmtCountCountries, &out.Countries},
			{stmtMaxPoints, &out.MaxPoints},
		} {
			if err := c.QueryRowContext(ctx, q.stmt).Scan(q.dst); err != nil {
				return 0, err
			}
		}
		return 1, nil
	})
	if err != nil {
		return model.Summary{}, err
	}
	return out, nil
}

// Options implements Store.
func (s *SQLStore) Options(ctx context.Context) (model.Options, error) {
	var names, countries []string
	err := s.run(ctx, QueryOptions, func(c *database.Conn) (int, error) {
		var err error
		if names, err = scanStrings(ctx, c, stmtNames); err != nil {
			return 0, err
		}
		if countries, err = scanStrings(ctx, c, stmtCountries); err != nil {
			return 0, err
		}
		return len(names) + len(countries), nil
	})
	if err != nil {
		return model.NewOptions(nil, nil), err
	}
	return model.NewOptions(names, countries), nil
}

// Limits implements Store.
func (s *SQLStore) Limits(ctx context.Context) (model.Limits, error) {
	var l model.Limits
	err := s.run(ctx, QueryLimits, func(c *database.Conn) (int, error) {
		return 1, c.QueryRowContext(ctx, stmtLimits).Scan(&l.RankMin, &l.RankMax, &l.PointsMin, &l.PointsMax)
	})
	if err != nil {
		return model.Limits{}, err
	}
	return l, nil
}

// Filter implements Store.
func (s *SQLStore) Filter(ctx context.Context, sel query.Selection) ([]model.Row, error) {
	stmt, args, err := query.Filter(sel).Build(s.conns.Dialect())
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrQuery, QueryFilter, err)
	}

	var out []model.Row
	err = s.run(ctx, QueryFilter, func(c *database.Conn) (int, error) {
		rows, err := c.QueryContext(ctx, stmt, args...)
		if err != nil {
			return 0, err
		}
		defer func() { _ = rows.Close() }()

		for rows.Next() {
			var (
				r       model.Row
				country sql.NullString
			)
			if err := rows.Scan(&r.Name, &country, &r.Rank, &r.Points, &r.Movement, &r.CompetitionsPlayed); err != nil {
				return 0, err
			}
			r.Country = country.String
			out = append(out, r)
		}
		return len(out), rows.Err()
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// CountryAggregates implements Store.
func (s *SQLStore) CountryAggregates(ctx context.Context) ([]model.CountryAggregate, error) {
	var out []model.CountryAggregate
	err := s.run(ctx, QueryCountries, func(c *database.Conn) (int, error) {
		rows, err := c.QueryContext(ctx, stmtCountryAggregates)
		if err != nil {
			return 0, err
		}
		defer func() { _ = rows.Close() }()

		for rows.Next() {
			var a model.CountryAggregate
			if err := rows.Scan(&a.Country, &a.TotalCompetitors, &a.AvgPoints); err != nil {
				return 0, err
			}
			out = append(out, a)
		}
		return len(out), rows.Err()
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// TopByRank implements Store.
func (s *SQLStore) TopByRank(ctx context.Context, n int) ([]model.LeaderEntry, error) {
	return s.leaders(ctx, QueryTopByRank, n, query.TopByRank)
}

// TopByPoints implements Store.
func (s *SQLStore) TopByPoints(ctx context.Context, n int) ([]model.LeaderEntry, error) {
	return s.leaders(ctx, QueryTopByPoints, n, query.TopByPoints)
}

// Ping implements Store.
func (s *SQLStore) Ping(ctx context.Context) error {
	return s.conns.WithConn(ctx, func(*database.Conn) error { return nil })
}

func (s *SQLStore) leaders(ctx context.Context, name string, n int, build func(int) *query.Builder) ([]model.LeaderEntry, error) {
	if n < 1 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidLimit, n)
	}
	stmt, args, err := build(n).Build(s.conns.Dialect())
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrQuery, name, err)
	}

	out := make([]model.LeaderEntry, 0, n)
	err = s.run(ctx, name, func(c *database.Conn) (int, error) {
		rows, err := c.QueryContext(ctx, stmt, args...)
		if err != nil {
			return 0, err
		}
		defer func() { _ = rows.Close() }()

		for rows.Next() {
			var (
				e       model.LeaderEntry
				country sql.NullString
			)
			if err := rows.Scan(&e.Name, &country, &e.Rank, &e.Points); err != nil {
				return 0, err
			}
			e.Country = country.String
			out = append(out, e)
		}
		return len(out), rows.Err()
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// run executes fn on a scoped connection and records the outcome. fn returns
// the number of rows it produced. Connection errors are returned as-is; any
// other failure is wrapped with ErrQuery.
func (s *SQLStore) run(ctx context.Context, name string, fn func(*database.Conn) (int, error)) error {
	start := time.Now()
	var n int
	err := s.conns.WithConn(ctx, func(c *database.Conn) error {
		var err error
		n, err = fn(c)
		return err
	})
	latency := time.Since(start)
	latencyMs := float64(latency.Microseconds()) / 1000

	switch {
	case errors.Is(err, database.ErrConnect):
		metrics.RecordQuery(name, metrics.OutcomeConnect, latencyMs, 0)
		return err
	case err != nil:
		metrics.RecordQuery(name, metrics.OutcomeError, latencyMs, 0)
		s.logger.Error(ctx, "query failed", logger.String("query", name), logger.Error(err))
		return fmt.Errorf("%w: %s: %w", ErrQuery, name, err)
	case n == 0:
		metrics.RecordQuery(name, metrics.OutcomeEmpty, latencyMs, 0)
	default:
		metrics.RecordQuery(name, metrics.OutcomeOK, latencyMs, n)
	}
	s.logger.Debug(ctx, "query completed",
		logger.String("query", name),
		logger.Int("rows", n),
		logger.Duration("latency", latency),
	)
	return nil
}

func scanStrings(ctx context.Context, c *database.Conn, stmt string) ([]string, error) {
	rows, err := c.QueryContext(ctx, stmt)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var out []string
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, rows.Err()
}
