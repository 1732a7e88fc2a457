package models

import "time"

type ActivityLog struct {
	ID          uint64    `gorm:"column:id;primaryKey;autoIncrement"`
	UserID      *uint64   `gorm:"column:user_id;index"`
	Action      string    `gorm:"column:action;type:varchar(64);not null;index"`
	EntityType  string    `gorm:"column:entity_type;type:varchar(64);not null"`
	EntityID    *uint64   `gorm:"column:entity_id"`
	Description string    `gorm:"column:description;type:text"`
	IPAddress   string    `gorm:"column:ip_address;type:varchar(64)"`
	UserAgent   string    `gorm:"column:user_agent;type:varchar(512)"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime;index"`
}

func (ActivityLog) TableName() string { return "activity_logs" }
