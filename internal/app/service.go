// Package service provides the dashboard service that implements the
// dependencies required by the HTTP API and the CLI.
//
// A render pass evaluates the whole page top to bottom. Steps run one after
// another and each acquires its own connection, so no two queries of a pass
// overlap. A failing step leaves its section empty and adds a notice.
package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/okian/courtside/internal/adapters/database"
	"github.com/okian/courtside/internal/adapters/repository"
	"github.com/okian/courtside/internal/domain/model"
	"github.com/okian/courtside/internal/domain/query"
	"github.com/okian/courtside/internal/domain/view"
	"github.com/okian/courtside/pkg/logger"
	"github.com/okian/courtside/pkg/metrics"
)

// Page sections, used to attach notices.
const (
	SectionSummary     = "summary"
	SectionOptions     = "options"
	SectionLimits      = "limits"
	SectionFilter      = "filter"
	SectionCountries   = "countries"
	SectionTopByRank   = "top_by_rank"
	SectionTopByPoints = "top_by_points"
)

const defaultLeaderboardSize = 10

// Service implements the API dependencies for the dashboard.
type Service struct {
	store           repository.Store
	logger          logger.Logger
	leaderboardSize int
	queryTimeout    time.Duration
}

// New constructs a Service reading from store.
func New(store repository.Store, opts ...Option) *Service {
	s := &Service{
		store:           store,
		logger:          logger.Discard(),
		leaderboardSize: defaultLeaderboardSize,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// LeaderboardSize returns the configured number of leaderboard rows.
func (s *Service) LeaderboardSize() int { return s.leaderboardSize }

// Render runs one full pass. It never fails; problems become notices.
func (s *Service) Render(ctx context.Context, in Input) *view.Page {
	start := time.Now()
	page := &view.Page{
		RenderID:        uuid.NewString(),
		Options:         model.NewOptions(nil, nil),
		LeaderboardSize: s.leaderboardSize,
	}
	log := s.logger.With(logger.String("render_id", page.RenderID))
	log.Debug(ctx, "render started")

	s.step(ctx, log, page, SectionSummary, func(ctx context.Context) (err error) {
		page.Summary, err = s.store.Summary(ctx)
		return err
	})
	s.step(ctx, log, page, SectionOptions, func(ctx context.Context) error {
		o, err := s.store.Options(ctx)
		if err == nil {
			page.Options = o
		}
		return err
	})
	limitsErr := s.step(ctx, log, page, SectionLimits, func(ctx context.Context) (err error) {
		page.Limits, err = s.store.Limits(ctx)
		return err
	})

	sel, err := resolveSelection(in, page.Limits, limitsErr)
	page.Selection = sel
	switch {
	case errors.Is(err, ErrLimitsUnavailable):
		s.notice(ctx, log, page, view.LevelError, SectionFilter, fmt.Errorf("filter skipped: %w", err))
	case err != nil:
		s.notice(ctx, log, page, view.LevelWarning, SectionFilter, err)
	default:
		s.step(ctx, log, page, SectionFilter, func(ctx context.Context) (err error) {
			page.Rows, err = s.store.Filter(ctx, sel)
			return err
		})
	}
	page.Detail = detail(page.Rows, in.Detail)

	s.step(ctx, log, page, SectionCountries, func(ctx context.Context) (err error) {
		page.Countries, err = s.store.CountryAggregates(ctx)
		return err
	})
	s.step(ctx, log, page, SectionTopByRank, func(ctx context.Context) (err error) {
		page.TopByRank, err = s.store.TopByRank(ctx, s.leaderboardSize)
		return err
	})
	s.step(ctx, log, page, SectionTopByPoints, func(ctx context.Context) (err error) {
		page.TopByPoints, err = s.store.TopByPoints(ctx, s.leaderboardSize)
		return err
	})

	elapsed := time.Since(start)
	metrics.RecordRenderDuration(float64(elapsed.Microseconds()) / 1000)
	log.Info(ctx, "render completed",
		logger.Int("rows", len(page.Rows)),
		logger.Int("notices", len(page.Notices)),
		logger.Duration("elapsed", elapsed),
	)
	return page
}

// detail picks the drill-down row: the named one if present, else the first.
func detail(rows []model.Row, name string) *view.Detail {
	if len(rows) == 0 {
		return nil
	}
	if d, ok := view.DrillDown(rows, name); ok {
		return &d
	}
	d, _ := view.DrillDown(rows, rows[0].Name)
	return &d
}

// resolveSelection resolves in against l, or against the explicit bounds alone
// when the limits could not be read.
func resolveSelection(in Input, l model.Limits, limitsErr error) (query.Selection, error) {
	if limitsErr != nil {
		return in.ExplicitSelection()
	}
	return in.Selection(l)
}

func (s *Service) step(ctx context.Context, log logger.Logger, page *view.Page, section string, fn func(context.Context) error) error {
	stepCtx, cancel := withTimeout(ctx, s.queryTimeout)
	defer cancel()

	err := fn(stepCtx)
	if err != nil {
		s.notice(ctx, log, page, view.LevelError, section, err)
	}
	return err
}

func (s *Service) notice(ctx context.Context, log logger.Logger, page *view.Page, level, section string, err error) {
	msg := err.Error()
	if level == view.LevelError {
		msg = "Error: " + msg
	}
	page.Notices = append(page.Notices, view.Notice{Level: level, Section: section, Message: msg})
	metrics.RecordRenderNotice(level)

	fields := []logger.Field{logger.String("section", section), logger.Error(err)}
	if level == view.LevelWarning {
		log.Warn(ctx, "render step skipped", fields...)
		return
	}
	log.Error(ctx, "render step failed", fields...)
}

func withTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, d)
}

// Summary returns the sidebar statistics.
func (s *Service) Summary(ctx context.Context) (model.Summary, error) {
	return bounded(ctx, s.queryTimeout, s.store.Summary)
}

// Options returns the dropdown values and the global limits.
func (s *Service) Options(ctx context.Context) (model.Options, model.Limits, error) {
	o, err := bounded(ctx, s.queryTimeout, s.store.Options)
	if err != nil {
		return o, model.Limits{}, err
	}
	l, err := bounded(ctx, s.queryTimeout, s.store.Limits)
	return o, l, err
}

// Filter resolves in against the current limits and runs the filter query.
// Inverted ranges fail with query.ErrInvertedRange before any filtering.
// When the limits cannot be read, fully bounded input still runs unclamped;
// otherwise the limits error is returned.
func (s *Service) Filter(ctx context.Context, in Input) ([]model.Row, query.Selection, error) {
	l, limitsErr := bounded(ctx, s.queryTimeout, s.store.Limits)
	sel, err := resolveSelection(in, l, limitsErr)
	if errors.Is(err, ErrLimitsUnavailable) {
		return nil, sel, limitsErr
	}
	if err != nil {
		return nil, sel, err
	}
	rows, err := bounded(ctx, s.queryTimeout, func(ctx context.Context) ([]model.Row, error) {
		return s.store.Filter(ctx, sel)
	})
	return rows, sel, err
}

// Countries returns the per-country aggregates.
func (s *Service) Countries(ctx context.Context) ([]model.CountryAggregate, error) {
	return bounded(ctx, s.queryTimeout, s.store.CountryAggregates)
}

// TopByRank returns the rank leaderboard.
func (s *Service) TopByRank(ctx context.Context) ([]model.LeaderEntry, error) {
	return bounded(ctx, s.queryTimeout, func(ctx context.Context) ([]model.LeaderEntry, error) {
		return s.store.TopByRank(ctx, s.leaderboardSize)
	})
}

// TopByPoints returns the points leaderboard.
func (s *Service) TopByPoints(ctx context.Context) ([]model.LeaderEntry, error) {
	return bounded(ctx, s.queryTimeout, func(ctx context.Context) ([]model.LeaderEntry, error) {
		return s.store.TopByPoints(ctx, s.leaderboardSize)
	})
}

// Ready reports whether a connection can be opened.
func (s *Service) Ready(ctx context.Context) error {
	ctx, cancel := withTimeout(ctx, s.queryTimeout)
	defer cancel()
	return s.store.Ping(ctx)
}

// IsUnavailable reports whether err means the store could not be reached
// in time.
func IsUnavailable(err error) bool {
	return errors.Is(err, database.ErrConnect) ||
		errors.Is(err, context.DeadlineExceeded)
}

// bounded runs one store call under the per-step timeout.
func bounded[T any](ctx context.Context, timeout time.Duration, fn func(context.Context) (T, error)) (T, error) {
	ctx, cancel := withTimeout(ctx, timeout)
	defer cancel()
	return fn(ctx)
}
