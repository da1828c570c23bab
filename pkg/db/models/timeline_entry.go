package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/civictrack/civictrack-backend/pkg/enums"
)

// TimelineEntry is one row of a complaint's append-only audit trail. Every
// complaint gets a creation entry; each admin status transition appends one.
type TimelineEntry struct {
	ID          uuid.UUID    `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	ComplaintID uuid.UUID    `gorm:"type:uuid;not null;index"`
	Status      enums.Status `gorm:"type:text;not null"`
	Remarks     string       `gorm:"type:text;not null"`
	CreatedAt   time.Time    `gorm:"column:created_at;autoCreateTime"`
}

// TableName pins the singular table the migrations create.
func (TimelineEntry) TableName() string {
	return "complaint_timeline"
}
