package service

import "errors"

// ErrLimitsUnavailable means the global limits could not be read and the
// input does not give every bound, so no selection can be resolved.
var ErrLimitsUnavailable = errors.New("rank and points limits are unavailable")
