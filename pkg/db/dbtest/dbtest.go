// Package dbtest opens throwaway in-memory databases migrated with the real models.
package dbtest

import (
	"fmt"
	"io"
	"log"
	"testing"

	"github.com/denimhub/denimhub-backend/pkg/db"
	"github.com/denimhub/denimhub-backend/pkg/db/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// Open returns a client backed by a private in-memory SQLite database.
func Open(t testing.TB) *db.Client {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:                 gormlogger.New(log.New(io.Discard, "", 0), gormlogger.Config{LogLevel: gormlogger.Silent}),
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)
	require.NoError(t, conn.AutoMigrate(models.All()...))

	client := db.NewFromGorm(conn)
	t.Cleanup(func() { _ = client.Close() })
	return client
}

// VariantSeed describes a catalog row created by SeedVariant.
type VariantSeed struct {
	ProductName string
	SizeName    string
	Warehouse   string
	SKU         string
	Price       int64
	Cost        int64
	Stock       int
	Minimum     int
}

// SeedVariant inserts a product, size, warehouse and one variant joining them.
func SeedVariant(t testing.TB, conn *gorm.DB, seed VariantSeed) models.ProductVariant {
	t.Helper()

	if seed.ProductName == "" {
		seed.ProductName = "Slim Fit Jeans"
	}
	if seed.SizeName == "" {
		seed.SizeName = "32"
	}
	if seed.Warehouse == "" {
		seed.Warehouse = "JKT"
	}
	if seed.SKU == "" {
		seed.SKU = "SLIM-" + seed.SizeName + "-" + seed.Warehouse
	}

	product := models.Product{Name: seed.ProductName, SKU: "P-" + seed.SKU, BasePrice: decimal.NewFromInt(seed.Price), IsActive: true}
	require.NoError(t, conn.Create(&product).Error)

	size := models.Size{Name: seed.SizeName}
	require.NoError(t, conn.Create(&size).Error)

	var warehouse models.Warehouse
	require.NoError(t, conn.Where(models.Warehouse{Code: seed.Warehouse}).
		Attrs(models.Warehouse{Name: "Warehouse " + seed.Warehouse, IsActive: true}).
		FirstOrCreate(&warehouse).Error)

	variant := models.ProductVariant{
		ProductID:     product.ID,
		SizeID:        size.ID,
		WarehouseID:   warehouse.ID,
		SKU:           seed.SKU,
		Price:         decimal.NewFromInt(seed.Price),
		CostPrice:     decimal.NewFromInt(seed.Cost),
		StockQuantity: seed.Stock,
		MinimumStock:  seed.Minimum,
	}
	require.NoError(t, conn.Create(&variant).Error)
	return variant
}

// SeedVariantWithID is SeedVariant with a fixed primary key.
func SeedVariantWithID(t testing.TB, conn *gorm.DB, id uint64, seed VariantSeed) models.ProductVariant {
	t.Helper()
	variant := SeedVariant(t, conn, seed)
	require.NoError(t, conn.Model(&models.ProductVariant{}).Where("id = ?", variant.ID).Update("id", id).Error)
	variant.ID = id
	return variant
}

// StockOf reads the current stock counter of a variant.
func StockOf(t testing.TB, conn *gorm.DB, variantID uint64) int {
	t.Helper()
	var variant models.ProductVariant
	require.NoError(t, conn.First(&variant, variantID).Error)
	return variant.StockQuantity
}
