package validators

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	pkgerrors "github.com/denimhub/denimhub-backend/pkg/errors"
	"github.com/denimhub/denimhub-backend/pkg/pagination"
)

const dateLayout = "2006-01-02"

func ParseQueryInt(r *http.Request, key string, defaultVal, min, max int) (int, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(key))
	if raw == "" {
		return defaultVal, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "query parameter must be numeric").WithDetails(map[string]any{"field": key})
	}
	if value < min || value > max {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "query parameter out of range").WithDetails(map[string]any{"field": key, "min": min, "max": max})
	}
	return value, nil
}

// ParsePagination reads page and limit, applying the package defaults.
func ParsePagination(r *http.Request) (pagination.Params, error) {
	page, err := ParseQueryInt(r, "page", 1, 1, 1_000_000)
	if err != nil {
		return pagination.Params{}, err
	}
	limit, err := ParseQueryInt(r, "limit", pagination.DefaultLimit, 1, pagination.MaxLimit)
	if err != nil {
		return pagination.Params{}, err
	}
	return pagination.Params{Page: page, Limit: limit}, nil
}

// ParseQueryID returns nil when key is absent.
func ParseQueryID(r *http.Request, key string) (*uint64, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(key))
	if raw == "" {
		return nil, nil
	}
	value, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || value == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "query parameter must be a positive id").WithDetails(map[string]any{"field": key})
	}
	return &value, nil
}

func ParseQueryBool(r *http.Request, key string) (bool, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(key))
	if raw == "" {
		return false, nil
	}
	value, err := strconv.ParseBool(raw)
	if err != nil {
		return false, pkgerrors.New(pkgerrors.CodeValidation, "query parameter must be a boolean").WithDetails(map[string]any{"field": key})
	}
	return value, nil
}

func ParseQueryDecimal(r *http.Request, key string) (decimal.Decimal, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(key))
	if raw == "" {
		return decimal.Zero, pkgerrors.New(pkgerrors.CodeValidation, "query parameter is required").WithDetails(map[string]any{"field": key})
	}
	value, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, pkgerrors.New(pkgerrors.CodeValidation, "query parameter must be a number").WithDetails(map[string]any{"field": key})
	}
	return value, nil
}

// ParseDateRange reads date_from and date_to as either YYYY-MM-DD or RFC3339.
// A plain date_to covers the whole day, so the returned upper bound is exclusive.
func ParseDateRange(r *http.Request) (*time.Time, *time.Time, error) {
	from, _, err := parseQueryTime(r, "date_from")
	if err != nil {
		return nil, nil, err
	}
	to, dateOnly, err := parseQueryTime(r, "date_to")
	if err != nil {
		return nil, nil, err
	}
	if to != nil && dateOnly {
		next := to.AddDate(0, 0, 1)
		to = &next
	}
	if from != nil && to != nil && !from.Before(*to) {
		return nil, nil, pkgerrors.New(pkgerrors.CodeValidation, "date_from must be before date_to")
	}
	return from, to, nil
}

func parseQueryTime(r *http.Request, key string) (*time.Time, bool, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(key))
	if raw == "" {
		return nil, false, nil
	}
	if t, err := time.Parse(dateLayout, raw); err == nil {
		return &t, true, nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return nil, false, pkgerrors.New(pkgerrors.CodeValidation, "invalid date, expected YYYY-MM-DD").WithDetails(map[string]any{"field": key})
	}
	t = t.UTC()
	return &t, false, nil
}

// ParseIDParam reads a positive numeric chi URL parameter.
func ParseIDParam(r *http.Request, key string) (uint64, error) {
	raw := strings.TrimSpace(chi.URLParam(r, key))
	if raw == "" {
		return 0, pkgerrors.Newf(pkgerrors.CodeValidation, "%s is required", key)
	}
	value, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || value == 0 {
		return 0, pkgerrors.Newf(pkgerrors.CodeValidation, "invalid %s", key)
	}
	return value, nil
}
