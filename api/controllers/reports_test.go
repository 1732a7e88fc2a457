package controllers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/denimhub/denimhub-backend/internal/activitylog"
	"github.com/denimhub/denimhub-backend/internal/reports"
	"github.com/denimhub/denimhub-backend/pkg/pagination"
)

type stubReportsService struct {
	filters reports.SalesFilters
}

func (s *stubReportsService) Sales(ctx context.Context, filters reports.SalesFilters) (*reports.SalesReport, error) {
	s.filters = filters
	return &reports.SalesReport{Daily: []reports.DailySales{}, TopProducts: []reports.TopProduct{}}, nil
}

type stubActivityService struct {
	filters activitylog.ListFilters
	params  pagination.Params
}

func (s *stubActivityService) List(ctx context.Context, filters activitylog.ListFilters, params pagination.Params) (*activitylog.LogList, error) {
	s.filters = filters
	s.params = params
	return &activitylog.LogList{Logs: []activitylog.LogEntry{}, Pagination: pagination.Result(params, 0)}, nil
}

func TestSalesReportDateRange(t *testing.T) {
	svc := &stubReportsService{}
	resp := httptest.NewRecorder()
	SalesReport(svc, nil).ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/api/admin/reports/sales?date_from=2026-03-01&date_to=2026-03-07", nil))

	require.Equal(t, http.StatusOK, resp.Code)
	require.NotNil(t, svc.filters.DateFrom)
	require.NotNil(t, svc.filters.DateTo)
	assert.Equal(t, time.Date(2026, 3, 8, 0, 0, 0, 0, time.UTC), *svc.filters.DateTo)
	assert.Empty(t, svc.filters.Currency)

	resp = httptest.NewRecorder()
	SalesReport(svc, nil).ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/api/admin/reports/sales?currency=USD", nil))
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, "USD", svc.filters.Currency)

	resp = httptest.NewRecorder()
	SalesReport(svc, nil).ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/api/admin/reports/sales?date_from=03/01/2026", nil))
	assert.Equal(t, http.StatusBadRequest, resp.Code)
}

func TestActivityLogsFilters(t *testing.T) {
	svc := &stubActivityService{}
	resp := httptest.NewRecorder()
	ActivityLogs(svc, nil).ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/api/admin/activity-logs?user_id=3&action=update_order_status&entity_type=order&limit=5", nil))

	require.Equal(t, http.StatusOK, resp.Code)
	require.NotNil(t, svc.filters.UserID)
	assert.Equal(t, uint64(3), *svc.filters.UserID)
	assert.Equal(t, activitylog.ActionUpdateOrderStatus, svc.filters.Action)
	assert.Equal(t, "order", svc.filters.EntityType)
	assert.Equal(t, 5, svc.params.Limit)
}
