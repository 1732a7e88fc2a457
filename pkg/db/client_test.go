package db

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/denimhub/denimhub-backend/pkg/config"
	"github.com/go-sql-driver/mysql"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type testModel struct {
	ID   int
	Name string `gorm:"uniqueIndex"`
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	conn, err := gorm.Open(sqlite.Open(dsn), gormConfig())
	if err != nil {
		t.Fatalf("failed to open sqlite: %v", err)
	}
	if err := conn.AutoMigrate(&testModel{}); err != nil {
		t.Fatalf("failed to migrate sqlite: %v", err)
	}
	return conn
}

func TestWithTx_CommitsAndRollbacks(t *testing.T) {
	db := newTestDB(t)
	client := NewFromGorm(db)

	ctx := context.Background()
	if err := client.WithTx(ctx, func(tx *gorm.DB) error {
		return tx.Create(&testModel{Name: "committed"}).Error
	}); err != nil {
		t.Fatalf("WithTx commit failed: %v", err)
	}

	var count int64
	if err := db.Model(&testModel{}).Count(&count).Error; err != nil {
		t.Fatalf("count failed: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected 1 record, got %d", count)
	}

	err := client.WithTx(ctx, func(tx *gorm.DB) error {
		if err := tx.Create(&testModel{Name: "rolled"}).Error; err != nil {
			return err
		}
		return errors.New("boom")
	})
	if err == nil {
		t.Fatal("expected WithTx to return an error")
	}
	if err := db.Model(&testModel{}).Count(&count).Error; err != nil {
		t.Fatalf("count failed after rollback: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected rollback to leave 1 record, got %d", count)
	}
}

func TestPing(t *testing.T) {
	client := NewFromGorm(newTestDB(t))
	if err := client.Ping(context.Background()); err != nil {
		t.Fatalf("unexpected ping error: %v", err)
	}
}

func TestIsUniqueViolation(t *testing.T) {
	db := newTestDB(t)
	if err := db.Create(&testModel{Name: "dup"}).Error; err != nil {
		t.Fatalf("insert failed: %v", err)
	}
	err := db.Create(&testModel{Name: "dup"}).Error
	if !IsUniqueViolation(err, "") {
		t.Fatalf("expected sqlite duplicate to be detected, got %v", err)
	}

	mysqlErr := fmt.Errorf("insert: %w", &mysql.MySQLError{Number: 1062, Message: "Duplicate entry 'x' for key 'users.email'"})
	if !IsUniqueViolation(mysqlErr, "users.email") {
		t.Fatal("expected mysql 1062 to be detected")
	}
	if IsUniqueViolation(&mysql.MySQLError{Number: 1452}, "") {
		t.Fatal("foreign key failure must not count as duplicate")
	}
	if !IsUniqueViolation(&pgconn.PgError{Code: "23505"}, "") {
		t.Fatal("expected postgres 23505 to be detected")
	}
	if IsUniqueViolation(nil, "") {
		t.Fatal("nil is not a violation")
	}
}

func TestDialectorForRejectsUnknownDriver(t *testing.T) {
	if _, err := dialectorFor(config.DBConfig{Driver: "oracle", DSN: "x"}); err == nil {
		t.Fatal("expected unsupported driver error")
	}
	if _, err := dialectorFor(config.DBConfig{Driver: "MySQL", DSN: "u:p@tcp(h:3306)/d"}); err != nil {
		t.Fatalf("unexpected error for mysql: %v", err)
	}
}
