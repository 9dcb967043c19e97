// Package repository defines the rankings store interface and its SQL
// implementation.
package repository

import (
	"context"

	"github.com/okian/courtside/internal/domain/model"
	"github.com/okian/courtside/internal/domain/query"
)

// Store provides read-only access to competitors and their rankings.
// Every method acquires and releases its own connection.
type Store interface {
	// Summary returns the competitor count, distinct country count and
	// highest points. All zero for empty tables.
	Summary(ctx context.Context) (model.Summary, error)

	// Options returns the dropdown values, each list prefixed with All.
	Options(ctx context.Context) (model.Options, error)

	// Limits returns the global rank and points bounds.
	Limits(ctx context.Context) (model.Limits, error)

	// Filter returns every row matching the selection. An empty result is not an error.
	Filter(ctx context.Context, sel query.Selection) ([]model.Row, error)

	// CountryAggregates groups ranking rows by non-null country, largest first.
	CountryAggregates(ctx context.Context) ([]model.CountryAggregate, error)

	// TopByRank returns at most n rows ordered by rank ascending.
	TopByRank(ctx context.Context, n int) ([]model.LeaderEntry, error)

	// TopByPoints returns at most n rows ordered by points descending.
	TopByPoints(ctx context.Context, n int) ([]model.LeaderEntry, error)

	// Ping opens and releases one connection.
	Ping(ctx context.Context) error
}
