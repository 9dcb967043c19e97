package api

import (
	"errors"
	"net/http"

	service "github.com/okian/courtside/internal/app"
	"github.com/okian/courtside/internal/domain/query"
	"github.com/okian/courtside/internal/validation"
)

// Sentinel kinds for API errors.
var (
	ErrBadRequest = errors.New("bad request")
	ErrNotFound   = errors.New("not found")
	ErrTemplate   = errors.New("template render failed")
)

// Error codes of the {code, message} envelope.
const (
	codeBadRequest  = "bad_request"
	codeNotFound    = "not_found"
	codeUnavailable = "unavailable"
	codeInternal    = "internal_error"
)

// classify maps an upstream error to a status and envelope code.
func classify(err error) (int, string) {
	switch {
	case errors.Is(err, ErrBadRequest),
		errors.Is(err, validation.ErrValidation),
		errors.Is(err, query.ErrInvertedRange):
		return http.StatusBadRequest, codeBadRequest
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound, codeNotFound
	case service.IsUnavailable(err):
		return http.StatusServiceUnavailable, codeUnavailable
	default:
		return http.StatusInternalServerError, codeInternal
	}
}
