// Package reports serves the read-only sales dashboard.
package reports

import (
	"context"
	"fmt"
	"time"

	"github.com/denimhub/denimhub-backend/pkg/enums"
	pkgerrors "github.com/denimhub/denimhub-backend/pkg/errors"
	"github.com/shopspring/decimal"
)

const (
	defaultRangeDays = 30
	topProductsLimit = 10
)

// SalesFilters bound the report. DateTo is exclusive; both default to the last 30 days.
// Currency defaults to IDR.
type SalesFilters struct {
	DateFrom *time.Time
	DateTo   *time.Time
	Currency string
}

type SalesSummary struct {
	TotalOrders       int64           `json:"total_orders"`
	TotalRevenue      decimal.Decimal `json:"total_revenue"`
	TotalItems        int64           `json:"total_items"`
	AverageOrderValue decimal.Decimal `json:"average_order_value"`
}

type DailySales struct {
	Date    string          `json:"date"`
	Orders  int64           `json:"orders"`
	Revenue decimal.Decimal `json:"revenue"`
}

type TopProduct struct {
	ProductName  string          `json:"product_name"`
	QuantitySold int64           `json:"quantity_sold"`
	Revenue      decimal.Decimal `json:"revenue"`
}

type SalesReport struct {
	Currency    enums.Currency `json:"currency"`
	DateFrom    time.Time      `json:"date_from"`
	DateTo      time.Time      `json:"date_to"`
	Summary     SalesSummary   `json:"summary"`
	Daily       []DailySales   `json:"daily"`
	TopProducts []TopProduct   `json:"top_products"`
}

type Service interface {
	Sales(ctx context.Context, filters SalesFilters) (*SalesReport, error)
}

type service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("reports repository required")
	}
	return &service{repo: repo, now: func() time.Time { return time.Now().UTC() }}, nil
}

func (s *service) Sales(ctx context.Context, filters SalesFilters) (*SalesReport, error) {
	to := s.now()
	if filters.DateTo != nil {
		to = filters.DateTo.UTC()
	}
	from := to.AddDate(0, 0, -defaultRangeDays)
	if filters.DateFrom != nil {
		from = filters.DateFrom.UTC()
	}
	if !from.Before(to) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "date_from must be before date_to")
	}
	currency := enums.CurrencyIDR
	if filters.Currency != "" {
		parsed, err := enums.ParseCurrency(filters.Currency)
		if err != nil {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid currency")
		}
		currency = parsed
	}
	window := Window{From: from, To: to, Currency: currency}

	summary, err := s.repo.Summary(ctx, window)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "sales summary")
	}
	items, err := s.repo.ItemsSold(ctx, window)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "items sold")
	}
	daily, err := s.repo.Daily(ctx, window)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "daily sales")
	}
	top, err := s.repo.TopProducts(ctx, window, topProductsLimit)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "top products")
	}

	revenue := summary.Revenue.Round(2)
	report := &SalesReport{
		Currency: currency,
		DateFrom: from,
		DateTo:   to,
		Summary: SalesSummary{
			TotalOrders:       summary.Orders,
			TotalRevenue:      revenue,
			TotalItems:        items,
			AverageOrderValue: decimal.Zero,
		},
		Daily:       make([]DailySales, 0, len(daily)),
		TopProducts: top,
	}
	if summary.Orders > 0 {
		report.Summary.AverageOrderValue = revenue.Div(decimal.NewFromInt(summary.Orders)).Round(2)
	}
	for _, row := range daily {
		report.Daily = append(report.Daily, DailySales{
			Date:    normalizeDay(row.Day),
			Orders:  row.Orders,
			Revenue: row.Revenue.Round(2),
		})
	}
	if report.TopProducts == nil {
		report.TopProducts = []TopProduct{}
	}
	return report, nil
}

// normalizeDay trims driver-specific DATE() renderings (MySQL and Postgres
// return a timestamp) to YYYY-MM-DD.
func normalizeDay(day string) string {
	if len(day) > 10 {
		return day[:10]
	}
	return day
}
