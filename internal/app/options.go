package service

import (
	"time"

	"github.com/okian/courtside/pkg/logger"
)

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithLeaderboardSize sets how many rows each leaderboard shows.
func WithLeaderboardSize(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.leaderboardSize = n
		}
	}
}

// WithQueryTimeout bounds each step of a render pass, connection included.
// Zero leaves queries to the request context and driver defaults.
func WithQueryTimeout(d time.Duration) Option {
	return func(s *Service) {
		if d >= 0 {
			s.queryTimeout = d
		}
	}
}
