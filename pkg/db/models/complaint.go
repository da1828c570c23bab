package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/civictrack/civictrack-backend/pkg/enums"
)

// Complaint is the central record: a citizen-submitted report of a civic issue.
// The owner is fixed at creation; upvote and view counters only ever grow.
type Complaint struct {
	ID           uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	UserID       uuid.UUID       `gorm:"type:uuid;not null;index"`
	Title        string          `gorm:"type:text;not null"`
	Category     enums.Category  `gorm:"type:text;not null"`
	Description  string          `gorm:"type:text;not null"`
	Location     string          `gorm:"type:text;not null"`
	Latitude     *float64        `gorm:"type:double precision"`
	Longitude    *float64        `gorm:"type:double precision"`
	ImageURL     *string         `gorm:"type:text"`
	Priority     *enums.Priority `gorm:"type:text"`
	Status       enums.Status    `gorm:"type:text;not null;default:'Pending'"`
	AdminRemarks *string         `gorm:"column:admin_remarks;type:text"`
	Upvotes      int64           `gorm:"not null;default:0"`
	Views        int64           `gorm:"not null;default:0"`
	CreatedAt    time.Time       `gorm:"column:created_at;autoCreateTime;index:idx_complaints_created_at,sort:desc"`
	// UpdatedAt is only written by admin status updates, matching the
	// public contract that citizen-visible records carry no spurious edits.
	UpdatedAt *time.Time `gorm:"column:updated_at"`
}
