package inventory

import (
	"net/http"
	"strings"

	"github.com/denimhub/denimhub-backend/api/middleware"
	"github.com/denimhub/denimhub-backend/api/responses"
	"github.com/denimhub/denimhub-backend/api/validators"
	internalinventory "github.com/denimhub/denimhub-backend/internal/inventory"
	"github.com/denimhub/denimhub-backend/pkg/enums"
	pkgerrors "github.com/denimhub/denimhub-backend/pkg/errors"
	"github.com/denimhub/denimhub-backend/pkg/logger"
)

type adjustmentRequest struct {
	VariantID uint64 `json:"variant_id" validate:"required"`
	Type      string `json:"type" validate:"required,oneof=in out"`
	Quantity  int    `json:"quantity" validate:"required,gt=0"`
	Notes     string `json:"notes" validate:"max=2000"`
}

// Overview returns the variant stock grid.
func Overview(svc internalinventory.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "inventory service unavailable"))
			return
		}
		params, err := validators.ParsePagination(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		warehouseID, err := validators.ParseQueryID(r, "warehouse_id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		lowStock, err := validators.ParseQueryBool(r, "low_stock")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		list, err := svc.Overview(r.Context(), internalinventory.OverviewFilters{
			WarehouseID: warehouseID,
			Search:      strings.TrimSpace(r.URL.Query().Get("search")),
			LowStock:    lowStock,
		}, params)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WritePage(w, list.Variants, list.Pagination)
	}
}

// LowStock lists variants at or below their minimum stock.
func LowStock(svc internalinventory.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "inventory service unavailable"))
			return
		}
		params, err := validators.ParsePagination(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		warehouseID, err := validators.ParseQueryID(r, "warehouse_id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		list, err := svc.LowStock(r.Context(), warehouseID, params)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WritePage(w, list.Variants, list.Pagination)
	}
}

// Movements returns the stock ledger.
func Movements(svc internalinventory.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "inventory service unavailable"))
			return
		}
		params, err := validators.ParsePagination(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		variantID, err := validators.ParseQueryID(r, "variant_id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		from, to, err := validators.ParseDateRange(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		query := r.URL.Query()
		list, err := svc.Movements(r.Context(), internalinventory.MovementFilters{
			VariantID:     variantID,
			Type:          enums.MovementType(strings.TrimSpace(query.Get("type"))),
			ReferenceType: enums.MovementReference(strings.TrimSpace(query.Get("reference_type"))),
			DateFrom:      from,
			DateTo:        to,
		}, params)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WritePage(w, list.Movements, list.Pagination)
	}
}

// CreateAdjustment applies a manual stock correction.
func CreateAdjustment(svc internalinventory.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "inventory service unavailable"))
			return
		}
		var body adjustmentRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.CreateAdjustment(r.Context(), internalinventory.AdjustmentInput{
			VariantID: body.VariantID,
			Type:      enums.MovementType(body.Type),
			Quantity:  body.Quantity,
			Notes:     body.Notes,
			Actor:     middleware.ActorFromRequest(r),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteMessage(w, http.StatusCreated, result, "stock adjusted")
	}
}
