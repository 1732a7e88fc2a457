package pagination

import (
	"github.com/denimhub/denimhub-backend/pkg/types"
)

const (
	// DefaultLimit is the standard page size when a limit is not provided.
	DefaultLimit = 20
	// MaxLimit caps how many rows any list query can request.
	MaxLimit = 100
)

// Params holds offset pagination inputs from controllers or services.
type Params struct {
	Page  int
	Limit int
}

// Normalize enforces page >= 1 and the configured default and maximum limits.
func (p Params) Normalize() Params {
	return Params{Page: NormalizePage(p.Page), Limit: NormalizeLimit(p.Limit)}
}

// Offset returns the row offset for the normalized page.
func (p Params) Offset() int {
	n := p.Normalize()
	return (n.Page - 1) * n.Limit
}

// NormalizeLimit enforces the configured default and maximum limits.
func NormalizeLimit(limit int) int {
	if limit <= 0 {
		return DefaultLimit
	}
	if limit > MaxLimit {
		return MaxLimit
	}
	return limit
}

func NormalizePage(page int) int {
	if page < 1 {
		return 1
	}
	return page
}

// Result builds the response pagination block for a page of a total row count.
func Result(p Params, total int64) types.Pagination {
	n := p.Normalize()
	pages := 0
	if total > 0 {
		pages = int((total + int64(n.Limit) - 1) / int64(n.Limit))
	}
	return types.Pagination{
		Page:       n.Page,
		Limit:      n.Limit,
		Total:      total,
		TotalPages: pages,
	}
}
