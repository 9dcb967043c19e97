package probe

import "errors"

// Sentinel kinds for probe errors.
var (
	ErrRequest   = errors.New("probe request failed")
	ErrViolation = errors.New("dashboard property violated")
)
