package controllers

import (
	"net/http"
	"strings"

	"github.com/denimhub/denimhub-backend/api/responses"
	"github.com/denimhub/denimhub-backend/api/validators"
	"github.com/denimhub/denimhub-backend/internal/activitylog"
	pkgerrors "github.com/denimhub/denimhub-backend/pkg/errors"
	"github.com/denimhub/denimhub-backend/pkg/logger"
)

func ActivityLogs(svc activitylog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "activity log service unavailable"))
			return
		}
		params, err := validators.ParsePagination(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		userID, err := validators.ParseQueryID(r, "user_id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		query := r.URL.Query()
		list, err := svc.List(r.Context(), activitylog.ListFilters{
			UserID:     userID,
			Action:     strings.TrimSpace(query.Get("action")),
			EntityType: strings.TrimSpace(query.Get("entity_type")),
		}, params)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WritePage(w, list.Logs, list.Pagination)
	}
}
