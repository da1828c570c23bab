package models

import (
	"time"

	"github.com/google/uuid"
)

// NotificationPrefs captures the per-channel notification opt-ins.
type NotificationPrefs struct {
	Email bool `gorm:"column:notify_email;not null;default:true" json:"email"`
	SMS   bool `gorm:"column:notify_sms;not null;default:false" json:"sms"`
	Push  bool `gorm:"column:notify_push;not null;default:true" json:"push"`
}

// User represents the canonical identity entity. The password hash never
// leaves this package through a projection.
type User struct {
	ID            uuid.UUID         `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	Name          string            `gorm:"type:text;not null"`
	Email         string            `gorm:"type:text;not null;uniqueIndex"`
	PasswordHash  string            `gorm:"column:password_hash;not null"`
	IsAdmin       bool              `gorm:"column:is_admin;not null;default:false"`
	Phone         *string           `gorm:"type:text"`
	Address       *string           `gorm:"type:text"`
	Bio           *string           `gorm:"type:text"`
	Notifications NotificationPrefs `gorm:"embedded"`
	CreatedAt     time.Time         `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time         `gorm:"column:updated_at;autoUpdateTime"`
}
