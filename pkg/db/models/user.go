package models

import (
	"time"

	"github.com/denimhub/denimhub-backend/pkg/enums"
)

// User is an admin, staff member or customer account. Guests created from
// manual orders carry a password hash they never receive.
type User struct {
	ID           uint64         `gorm:"column:id;primaryKey;autoIncrement"`
	Name         string         `gorm:"column:name;type:varchar(255);not null"`
	Email        *string        `gorm:"column:email;type:varchar(255);uniqueIndex"`
	Phone        *string        `gorm:"column:phone;type:varchar(32)"`
	PasswordHash string         `gorm:"column:password_hash;type:varchar(255);not null"`
	Role         enums.UserRole `gorm:"column:role;type:varchar(16);not null;default:'customer'"`
	CreatedAt    time.Time      `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time      `gorm:"column:updated_at;autoUpdateTime"`
}

func (User) TableName() string { return "users" }
