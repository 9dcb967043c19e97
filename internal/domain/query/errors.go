package query

import "errors"

// Sentinel kinds for query building errors.
var (
	ErrInvertedRange       = errors.New("range minimum exceeds maximum")
	ErrPlaceholderMismatch = errors.New("placeholder count does not match bound values")
)
