package db

import (
	"errors"
	"strings"

	"github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

const (
	mysqlDuplicateEntry     = 1062
	postgresUniqueViolation = "23505"
)

// IsUniqueViolation reports whether err is a unique-constraint failure from any
// supported driver. When constraintName is provided, the error text must also
// mention it.
func IsUniqueViolation(err error, constraintName string) bool {
	if err == nil {
		return false
	}
	if !isDuplicate(err) {
		return false
	}
	if constraintName != "" {
		return strings.Contains(err.Error(), constraintName)
	}
	return true
}

func isDuplicate(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}

	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) {
		return myErr.Number == mysqlDuplicateEntry
	}

	var pgxErr *pgconn.PgError
	if errors.As(err, &pgxErr) {
		return pgxErr.Code == postgresUniqueViolation
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return string(pqErr.Code) == postgresUniqueViolation
	}

	msg := err.Error()
	return strings.Contains(msg, "duplicate key value") ||
		strings.Contains(msg, "UNIQUE constraint failed")
}
