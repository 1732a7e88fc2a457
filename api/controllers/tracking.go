package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/denimhub/denimhub-backend/api/responses"
	"github.com/denimhub/denimhub-backend/internal/tracking"
	pkgerrors "github.com/denimhub/denimhub-backend/pkg/errors"
	"github.com/denimhub/denimhub-backend/pkg/logger"
)

// TrackOrder serves the public order status page keyed by the order's tracking token.
func TrackOrder(svc tracking.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "tracking service unavailable"))
			return
		}

		status, err := svc.Lookup(r.Context(), chi.URLParam(r, "token"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, status)
	}
}
