package stats

import (
	"context"
	"errors"
)

var (
	ErrInvalidUserID   = errors.New("stats: user id must be a positive integer")
	ErrInvalidActivity = errors.New("stats: activity id is required")
	ErrUpstreamCode    = errors.New("stats: upstream returned non-success code")
	ErrNoData          = errors.New("stats: upstream returned no rows")
	ErrFetch           = errors.New("stats: fetch user activities failed")
	ErrStore           = errors.New("stats: local state store failed")
)

// resultLabel maps an aggregation error to its metrics label.
func resultLabel(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, ErrInvalidUserID):
		return "invalid_user"
	case errors.Is(err, ErrUpstreamCode):
		return "upstream_code"
	case errors.Is(err, ErrNoData):
		return "no_data"
	case errors.Is(err, ErrStore):
		return "store_error"
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return "canceled"
	default:
		return "fetch_error"
	}
}
