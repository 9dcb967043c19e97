package probe

import (
	"time"

	"github.com/okian/courtside/internal/domain/model"
	"github.com/okian/courtside/internal/domain/query"
)

const (
	defaultTimeout = 10 * time.Second
	// maxNameChecks bounds the per-name filter requests of one run.
	maxNameChecks = 5
)

// Config holds the target of a probe run.
type Config struct {
	BaseURL string        // base URL of a running dashboard
	Timeout time.Duration // per-request timeout
}

// Report summarizes a probe run.
type Report struct {
	Checks     int
	Violations []string
}

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
