package api

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	service "github.com/okian/courtside/internal/app"
	"github.com/okian/courtside/internal/validation"
)

// filterRequest holds the validated query parameters shared by the
// dashboard, the competitor list and the drill-down. Missing bounds stay nil
// and fall back to the global limits.
type filterRequest struct {
	Name      string `query:"name" validate:"max=200"`
	Country   string `query:"country" validate:"max=200"`
	RankMin   *int   `query:"rank_min" validate:"omitempty,min=0"`
	RankMax   *int   `query:"rank_max" validate:"omitempty,min=0"`
	PointsMin *int   `query:"points_min" validate:"omitempty,min=0"`
	PointsMax *int   `query:"points_max" validate:"omitempty,min=0"`
	Detail    string `query:"detail" validate:"max=200"`
}

func parseFilter(r *http.Request) (filterRequest, error) {
	q := r.URL.Query()
	req := filterRequest{
		Name:    q.Get("name"),
		Country: q.Get("country"),
		Detail:  q.Get("detail"),
	}
	for _, p := range []struct {
		key string
		dst **int
	}{
		{"rank_min", &req.RankMin},
		{"rank_max", &req.RankMax},
		{"points_min", &req.PointsMin},
		{"points_max", &req.PointsMax},
	} {
		raw := strings.TrimSpace(q.Get(p.key))
		if raw == "" {
			continue
		}
		v, err := strconv.Atoi(raw)
		if err != nil {
			return req, fmt.Errorf("%w: %s must be an integer", ErrBadRequest, p.key)
		}
		*p.dst = &v
	}
	if err := validation.Struct(req); err != nil {
		return req, fmt.Errorf("%w: %w", ErrBadRequest, err)
	}
	return req, nil
}

func (f filterRequest) input() service.Input {
	return service.Input{
		Name:      f.Name,
		Country:   f.Country,
		RankMin:   f.RankMin,
		RankMax:   f.RankMax,
		PointsMin: f.PointsMin,
		PointsMax: f.PointsMax,
		Detail:    f.Detail,
	}
}
