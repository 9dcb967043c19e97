package cli

import "errors"

// Sentinel kinds for command errors.
var (
	ErrServe      = errors.New("http server failed")
	ErrRenderFail = errors.New("render completed with errors")
)
