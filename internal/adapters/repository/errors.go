package repository

import "errors"

// Sentinel kinds for store errors.
var (
	ErrQuery        = errors.New("query failed")
	ErrInvalidLimit = errors.New("invalid leaderboard limit")
)
