package orders

import (
	"net/http"
	"strings"

	"github.com/denimhub/denimhub-backend/api/middleware"
	"github.com/denimhub/denimhub-backend/api/responses"
	"github.com/denimhub/denimhub-backend/api/validators"
	internalorders "github.com/denimhub/denimhub-backend/internal/orders"
	"github.com/denimhub/denimhub-backend/pkg/enums"
	pkgerrors "github.com/denimhub/denimhub-backend/pkg/errors"
	"github.com/denimhub/denimhub-backend/pkg/logger"
)

type statusRequest struct {
	Status string `json:"status" validate:"required"`
	Notes  string `json:"notes" validate:"max=2000"`
}

type paymentStatusRequest struct {
	PaymentStatus string `json:"payment_status" validate:"required"`
	Notes         string `json:"notes" validate:"max=2000"`
}

type trackingRequest struct {
	TrackingNumber string `json:"tracking_number" validate:"required,max=100"`
	ShippingNotes  string `json:"shipping_notes" validate:"max=2000"`
}

// List returns a page of orders for the admin console.
func List(svc internalorders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "orders service unavailable"))
			return
		}

		params, err := validators.ParsePagination(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		filters, err := buildListFilters(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		list, err := svc.List(r.Context(), filters, params)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WritePage(w, list.Orders, list.Pagination)
	}
}

// Detail returns the full order with items, charges, shipping, payment and history.
func Detail(svc internalorders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "orders service unavailable"))
			return
		}
		orderID, err := validators.ParseIDParam(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		detail, err := svc.Detail(r.Context(), orderID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, detail)
	}
}

// UpdateStatus moves an order through its lifecycle.
func UpdateStatus(svc internalorders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "orders service unavailable"))
			return
		}
		orderID, err := validators.ParseIDParam(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var body statusRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		ctx := r.Context()
		if logg != nil {
			ctx = logg.WithOrderID(ctx, orderID)
		}
		result, err := svc.TransitionStatus(ctx, internalorders.TransitionInput{
			OrderID: orderID,
			Status:  strings.TrimSpace(body.Status),
			Notes:   body.Notes,
			Actor:   middleware.ActorFromRequest(r),
		})
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteMessage(w, http.StatusOK, result, "order status updated")
	}
}

// UpdatePaymentStatus records an offline payment outcome.
func UpdatePaymentStatus(svc internalorders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "orders service unavailable"))
			return
		}
		orderID, err := validators.ParseIDParam(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var body paymentStatusRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.UpdatePaymentStatus(r.Context(), internalorders.PaymentStatusInput{
			OrderID:       orderID,
			PaymentStatus: strings.TrimSpace(body.PaymentStatus),
			Notes:         body.Notes,
			Actor:         middleware.ActorFromRequest(r),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteMessage(w, http.StatusOK, result, "payment status updated")
	}
}

// UpdateTracking stores the courier tracking number and marks the order shipped.
func UpdateTracking(svc internalorders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "orders service unavailable"))
			return
		}
		orderID, err := validators.ParseIDParam(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var body trackingRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.UpdateTracking(r.Context(), internalorders.TrackingInput{
			OrderID:        orderID,
			TrackingNumber: strings.TrimSpace(body.TrackingNumber),
			ShippingNotes:  body.ShippingNotes,
			Actor:          middleware.ActorFromRequest(r),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteMessage(w, http.StatusOK, result, "tracking number updated")
	}
}

// CreateManual records an offline sale entered by an admin.
func CreateManual(svc internalorders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "orders service unavailable"))
			return
		}
		var body internalorders.ManualOrderInput
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.CreateManualOrder(r.Context(), body, middleware.ActorFromRequest(r))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteMessage(w, http.StatusCreated, result, "manual order created")
	}
}

func buildListFilters(r *http.Request) (internalorders.ListFilters, error) {
	query := r.URL.Query()
	filters := internalorders.ListFilters{
		Search: strings.TrimSpace(query.Get("search")),
		Sort:   strings.TrimSpace(query.Get("sort")),
		Order:  strings.TrimSpace(query.Get("order")),
	}

	if raw := strings.TrimSpace(query.Get("status")); raw != "" {
		status, err := enums.ParseOrderStatus(raw)
		if err != nil {
			return filters, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid status filter")
		}
		filters.Status = &status
	}
	if raw := strings.TrimSpace(query.Get("payment_status")); raw != "" {
		status, err := enums.ParsePaymentStatus(raw)
		if err != nil {
			return filters, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid payment_status filter")
		}
		filters.PaymentStatus = &status
	}

	from, to, err := validators.ParseDateRange(r)
	if err != nil {
		return filters, err
	}
	filters.DateFrom = from
	filters.DateTo = to
	return filters, nil
}
