package controllers

import (
	"net/http"

	"github.com/denimhub/denimhub-backend/api/responses"
	"github.com/denimhub/denimhub-backend/api/validators"
	"github.com/denimhub/denimhub-backend/internal/reports"
	pkgerrors "github.com/denimhub/denimhub-backend/pkg/errors"
	"github.com/denimhub/denimhub-backend/pkg/logger"
)

// SalesReport returns totals, a daily breakdown and top products for a date range
// in one currency.
func SalesReport(svc reports.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "reports service unavailable"))
			return
		}
		from, to, err := validators.ParseDateRange(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		report, err := svc.Sales(r.Context(), reports.SalesFilters{
			DateFrom: from,
			DateTo:   to,
			Currency: r.URL.Query().Get("currency"),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, report)
	}
}
