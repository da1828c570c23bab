package complaints

import (
	"time"

	"github.com/google/uuid"

	"github.com/civictrack/civictrack-backend/pkg/db/models"
	"github.com/civictrack/civictrack-backend/pkg/enums"
)

// CreateComplaintRequest carries the fields a citizen submits for a new report.
type CreateComplaintRequest struct {
	Title       string   `json:"title" validate:"required"`
	Category    string   `json:"category" validate:"required"`
	Description string   `json:"description" validate:"required"`
	Location    string   `json:"location" validate:"required"`
	Latitude    *float64 `json:"latitude,omitempty" validate:"omitempty,gte=-90,lte=90"`
	Longitude   *float64 `json:"longitude,omitempty" validate:"omitempty,gte=-180,lte=180"`
	ImageURL    *string  `json:"image_url,omitempty"`
	Priority    *string  `json:"priority,omitempty"`
}

// UpdateStatusRequest is the admin payload for moving a complaint through its
// lifecycle.
type UpdateStatusRequest struct {
	Status       string  `json:"status" validate:"required"`
	AdminRemarks *string `json:"admin_remarks,omitempty"`
}

// TimelineEntryDTO is one row of the complaint's status history.
type TimelineEntryDTO struct {
	Status    enums.Status `json:"status"`
	Remarks   string       `json:"remarks"`
	CreatedAt time.Time    `json:"created_at"`
}

// OwnerInfoDTO carries the reporter identity. Email is filled only for
// admin viewers.
type OwnerInfoDTO struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	Email string    `json:"email"`
}

// ComplaintDTO is the transport shape for a complaint. Public listings omit
// remarks, timeline, and owner; the detail view carries all three (with the
// reporter's name) for any caller, and admin views add the reporter's email.
type ComplaintDTO struct {
	ID           uuid.UUID          `json:"id"`
	Title        string             `json:"title"`
	Category     enums.Category     `json:"category"`
	Description  string             `json:"description"`
	Location     string             `json:"location"`
	Latitude     *float64           `json:"latitude,omitempty"`
	Longitude    *float64           `json:"longitude,omitempty"`
	ImageURL     *string            `json:"image_url,omitempty"`
	Priority     *enums.Priority    `json:"priority,omitempty"`
	Status       enums.Status       `json:"status"`
	Upvotes      int64              `json:"upvotes"`
	Views        int64              `json:"views"`
	CreatedAt    time.Time          `json:"created_at"`
	UpdatedAt    *time.Time         `json:"updated_at,omitempty"`
	AdminRemarks *string            `json:"admin_remarks,omitempty"`
	Timeline     []TimelineEntryDTO `json:"timeline,omitempty"`
	Owner        *OwnerInfoDTO      `json:"owner,omitempty"`
}

// ComplaintPage is a cursor-paginated slice of complaints.
type ComplaintPage struct {
	Items      []ComplaintDTO `json:"items"`
	NextCursor *string        `json:"next_cursor,omitempty"`
}

// PublicView builds the anonymized listing projection: no reporter identity,
// no admin remarks, no timeline.
func PublicView(m *models.Complaint) ComplaintDTO {
	return ComplaintDTO{
		ID:          m.ID,
		Title:       m.Title,
		Category:    m.Category,
		Description: m.Description,
		Location:    m.Location,
		Latitude:    m.Latitude,
		Longitude:   m.Longitude,
		ImageURL:    m.ImageURL,
		Priority:    m.Priority,
		Status:      m.Status,
		Upvotes:     m.Upvotes,
		Views:       m.Views,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}

// OwnerView extends the public projection with admin remarks and the timeline.
func OwnerView(m *models.Complaint, timeline []models.TimelineEntry) ComplaintDTO {
	dto := PublicView(m)
	dto.AdminRemarks = m.AdminRemarks
	dto.Timeline = timelineFromModels(m, timeline)
	return dto
}

// AdminView extends the owner projection with the reporter identity.
func AdminView(m *models.Complaint, owner *models.User, timeline []models.TimelineEntry) ComplaintDTO {
	dto := OwnerView(m, timeline)
	if owner != nil {
		dto.Owner = &OwnerInfoDTO{
			ID:    owner.ID,
			Name:  owner.Name,
			Email: owner.Email,
		}
	}
	return dto
}

// timelineFromModels maps timeline rows, synthesizing the creation entry when
// the table has no rows for a complaint written before durable timelines.
func timelineFromModels(m *models.Complaint, entries []models.TimelineEntry) []TimelineEntryDTO {
	if len(entries) == 0 {
		return []TimelineEntryDTO{{
			Status:    m.Status,
			Remarks:   "Complaint submitted",
			CreatedAt: m.CreatedAt,
		}}
	}
	out := make([]TimelineEntryDTO, 0, len(entries))
	for _, e := range entries {
		out = append(out, TimelineEntryDTO{
			Status:    e.Status,
			Remarks:   e.Remarks,
			CreatedAt: e.CreatedAt,
		})
	}
	return out
}
