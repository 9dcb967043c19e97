package chart

import "errors"

// Sentinel kinds for chart errors.
var ErrRender = errors.New("chart render failed")
