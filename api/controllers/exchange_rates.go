package controllers

import (
	"net/http"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/denimhub/denimhub-backend/api/middleware"
	"github.com/denimhub/denimhub-backend/api/responses"
	"github.com/denimhub/denimhub-backend/api/validators"
	"github.com/denimhub/denimhub-backend/internal/exchangerates"
	pkgerrors "github.com/denimhub/denimhub-backend/pkg/errors"
	"github.com/denimhub/denimhub-backend/pkg/logger"
)

type upsertRateRequest struct {
	CurrencyFrom string          `json:"currency_from" validate:"required,len=3"`
	CurrencyTo   string          `json:"currency_to" validate:"required,len=3"`
	Rate         decimal.Decimal `json:"rate"`
	Reason       string          `json:"reason" validate:"max=255"`
}

type deleteRateRequest struct {
	Reason string `json:"reason" validate:"max=255"`
}

func ListExchangeRates(svc exchangerates.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "exchange rate service unavailable"))
			return
		}
		includeInactive, err := validators.ParseQueryBool(r, "include_inactive")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		rates, err := svc.List(r.Context(), includeInactive)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, rates)
	}
}

func UpsertExchangeRate(svc exchangerates.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "exchange rate service unavailable"))
			return
		}
		var body upsertRateRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		rate, err := svc.Upsert(r.Context(), exchangerates.UpsertInput{
			CurrencyFrom: body.CurrencyFrom,
			CurrencyTo:   body.CurrencyTo,
			Rate:         body.Rate,
			Reason:       body.Reason,
			Actor:        middleware.ActorFromRequest(r),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteMessage(w, http.StatusOK, rate, "exchange rate saved")
	}
}

// DeleteExchangeRate deactivates a rate. The body is optional and only carries a reason.
func DeleteExchangeRate(svc exchangerates.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "exchange rate service unavailable"))
			return
		}
		id, err := validators.ParseIDParam(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var body deleteRateRequest
		if r.ContentLength > 0 {
			if err := validators.DecodeJSONBody(r, &body); err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
		}

		if err := svc.Delete(r.Context(), id, body.Reason, middleware.ActorFromRequest(r)); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteMessage(w, http.StatusOK, map[string]uint64{"id": id}, "exchange rate deleted")
	}
}

func ExchangeRateLogs(svc exchangerates.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "exchange rate service unavailable"))
			return
		}
		id, err := validators.ParseIDParam(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		params, err := validators.ParsePagination(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		list, err := svc.Logs(r.Context(), id, params)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WritePage(w, list.Logs, list.Pagination)
	}
}

// ConvertCurrency is public; it converts with the active rate or its inverse.
func ConvertCurrency(svc exchangerates.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "exchange rate service unavailable"))
			return
		}
		amount, err := validators.ParseQueryDecimal(r, "amount")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		query := r.URL.Query()
		conversion, err := svc.Convert(r.Context(), strings.TrimSpace(query.Get("from")), strings.TrimSpace(query.Get("to")), amount)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, conversion)
	}
}
