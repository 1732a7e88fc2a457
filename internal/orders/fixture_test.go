package orders

import (
	"context"
	"testing"

	"github.com/denimhub/denimhub-backend/internal/activitylog"
	"github.com/denimhub/denimhub-backend/internal/coupons"
	"github.com/denimhub/denimhub-backend/internal/inventory"
	"github.com/denimhub/denimhub-backend/internal/users"
	"github.com/denimhub/denimhub-backend/pkg/config"
	"github.com/denimhub/denimhub-backend/pkg/db"
	"github.com/denimhub/denimhub-backend/pkg/db/dbtest"
	"github.com/denimhub/denimhub-backend/pkg/db/models"
	"github.com/denimhub/denimhub-backend/pkg/enums"
	"github.com/denimhub/denimhub-backend/pkg/logger"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

var testActor = activitylog.Actor{UserID: 1, Role: enums.UserRoleAdmin, IPAddress: "10.0.0.1", UserAgent: "test"}

type stubMetrics struct {
	transitions []string
	manual      int
}

func (m *stubMetrics) IncTransition(from, to string) {
	m.transitions = append(m.transitions, from+"->"+to)
}

func (m *stubMetrics) IncManualOrder() {
	m.manual++
}

type fixture struct {
	client  *db.Client
	conn    *gorm.DB
	svc     Service
	metrics *stubMetrics
}

type fixtureOptions struct {
	allowNegative bool
	wrapRepo      func(Repository) Repository
}

func newFixture(t *testing.T, opts fixtureOptions) *fixture {
	t.Helper()

	client := dbtest.Open(t)
	conn := client.DB()
	metrics := &stubMetrics{}

	var repo Repository = NewRepository(conn)
	if opts.wrapRepo != nil {
		repo = opts.wrapRepo(repo)
	}

	provisioner := users.NewProvisioner(config.PasswordConfig{
		ArgonMemoryKB:    8192,
		ArgonTime:        1,
		ArgonParallelism: 1,
		ArgonSaltLen:     16,
		ArgonKeyLen:      32,
	})

	svc, err := NewService(ServiceParams{
		Repo:      repo,
		Tx:        client,
		Stock:     inventory.NewStock(inventory.StockOptions{AllowNegative: opts.allowNegative}),
		Coupons:   coupons.NewTracker(),
		Customers: provisioner,
		Activity:  activitylog.NewRecorder(activitylog.NewRepository(conn), logger.Nop()),
		Metrics:   metrics,
	})
	require.NoError(t, err)

	return &fixture{client: client, conn: conn, svc: svc, metrics: metrics}
}

func manualInput(items ...ManualOrderItem) ManualOrderInput {
	return ManualOrderInput{
		CustomerName:    "Budi Santoso",
		CustomerPhone:   "0811",
		ShippingAddress: "Jl. Sudirman No. 1, Jakarta",
		Items:           items,
	}
}

func money(v int64) decimal.Decimal {
	return decimal.NewFromInt(v)
}

func price(v int64) *decimal.Decimal {
	d := money(v)
	return &d
}

func (f *fixture) createOrder(t *testing.T, input ManualOrderInput) *ManualOrderResult {
	t.Helper()
	result, err := f.svc.CreateManualOrder(context.Background(), input, testActor)
	require.NoError(t, err)
	return result
}

func (f *fixture) transition(t *testing.T, orderID uint64, status enums.OrderStatus) {
	t.Helper()
	_, err := f.svc.TransitionStatus(context.Background(), TransitionInput{
		OrderID: orderID,
		Status:  string(status),
		Actor:   testActor,
	})
	require.NoError(t, err)
}

func (f *fixture) order(t *testing.T, id uint64) models.Order {
	t.Helper()
	var order models.Order
	require.NoError(t, f.conn.First(&order, id).Error)
	return order
}

func (f *fixture) history(t *testing.T, orderID uint64) []models.OrderShippingHistory {
	t.Helper()
	var rows []models.OrderShippingHistory
	require.NoError(t, f.conn.Where("order_id = ?", orderID).Order("id ASC").Find(&rows).Error)
	return rows
}

func (f *fixture) movements(t *testing.T, variantID uint64) []models.InventoryMovement {
	t.Helper()
	var rows []models.InventoryMovement
	require.NoError(t, f.conn.Where("product_variant_id = ?", variantID).Order("id ASC").Find(&rows).Error)
	return rows
}

func (f *fixture) count(t *testing.T, model any) int64 {
	t.Helper()
	var n int64
	require.NoError(t, f.conn.Model(model).Count(&n).Error)
	return n
}
