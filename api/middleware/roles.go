package middleware

import (
	"net/http"

	"github.com/denimhub/denimhub-backend/api/responses"
	"github.com/denimhub/denimhub-backend/pkg/enums"
	pkgerrors "github.com/denimhub/denimhub-backend/pkg/errors"
	"github.com/denimhub/denimhub-backend/pkg/logger"
)

// RequireConsole admits admin and staff users.
func RequireConsole(logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !RoleFromContext(r.Context()).CanAdminister() {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeForbidden, "console access required"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func RequireRole(role enums.UserRole, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if RoleFromContext(r.Context()) != role {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Newf(pkgerrors.CodeForbidden, "%s role required", role))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
