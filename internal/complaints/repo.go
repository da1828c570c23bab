package complaints

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/civictrack/civictrack-backend/pkg/db/models"
	"github.com/civictrack/civictrack-backend/pkg/enums"
	"github.com/civictrack/civictrack-backend/pkg/pagination"
)

// ComplaintWithOwner joins a complaint row with its reporter's identity for
// the admin listing.
type ComplaintWithOwner struct {
	models.Complaint
	OwnerName  string
	OwnerEmail string
}

// Repository exposes complaint persistence operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a complaints repo bound to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// CreateWithTimeline persists the complaint and its creation timeline entry in
// one transaction so no complaint exists without its first history row.
func (r *Repository) CreateWithTimeline(ctx context.Context, complaint *models.Complaint, entry *models.TimelineEntry) error {
	if complaint.ID == uuid.Nil {
		complaint.ID = uuid.New()
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(complaint).Error; err != nil {
			return err
		}
		entry.ComplaintID = complaint.ID
		if entry.ID == uuid.Nil {
			entry.ID = uuid.New()
		}
		return tx.Create(entry).Error
	})
}

// FindByID loads a complaint by its UUID.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Complaint, error) {
	var complaint models.Complaint
	if err := r.db.WithContext(ctx).First(&complaint, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &complaint, nil
}

// FindOwner loads the reporter of a complaint.
func (r *Repository) FindOwner(ctx context.Context, complaint *models.Complaint) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).First(&user, "id = ?", complaint.UserID).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// ListByOwner returns all complaints reported by the given user, newest first.
func (r *Repository) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]models.Complaint, error) {
	var complaints []models.Complaint
	err := r.db.WithContext(ctx).
		Where("user_id = ?", ownerID).
		Order("created_at DESC, id DESC").
		Find(&complaints).Error
	return complaints, err
}

// ListPublic returns a page of complaints for the anonymized public feed,
// newest first. Pass limit already buffered by one to detect the next page.
func (r *Repository) ListPublic(ctx context.Context, cursor *pagination.Cursor, limit int) ([]models.Complaint, error) {
	query := r.db.WithContext(ctx).
		Order("created_at DESC, id DESC").
		Limit(limit)
	if cursor != nil {
		query = query.Where(
			"created_at < ? OR (created_at = ? AND id < ?)",
			cursor.CreatedAt, cursor.CreatedAt, cursor.ID,
		)
	}

	var complaints []models.Complaint
	err := query.Find(&complaints).Error
	return complaints, err
}

// ListAllWithOwners returns a page of complaints joined with reporter identity
// for the admin console, newest first.
func (r *Repository) ListAllWithOwners(ctx context.Context, cursor *pagination.Cursor, limit int) ([]ComplaintWithOwner, error) {
	query := r.db.WithContext(ctx).
		Table("complaints").
		Select("complaints.*, users.name AS owner_name, users.email AS owner_email").
		Joins("JOIN users ON users.id = complaints.user_id").
		Order("complaints.created_at DESC, complaints.id DESC").
		Limit(limit)
	if cursor != nil {
		query = query.Where(
			"complaints.created_at < ? OR (complaints.created_at = ? AND complaints.id < ?)",
			cursor.CreatedAt, cursor.CreatedAt, cursor.ID,
		)
	}

	var rows []ComplaintWithOwner
	err := query.Scan(&rows).Error
	return rows, err
}

// IncrementViews bumps the view counter in a single atomic UPDATE and reports
// how many rows matched.
func (r *Repository) IncrementViews(ctx context.Context, id uuid.UUID) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&models.Complaint{}).
		Where("id = ?", id).
		UpdateColumn("views", gorm.Expr("views + 1"))
	return res.RowsAffected, res.Error
}

// IncrementUpvotes bumps the upvote counter in a single atomic UPDATE and
// reports how many rows matched.
func (r *Repository) IncrementUpvotes(ctx context.Context, id uuid.UUID) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&models.Complaint{}).
		Where("id = ?", id).
		UpdateColumn("upvotes", gorm.Expr("upvotes + 1"))
	return res.RowsAffected, res.Error
}

// UpdateStatusWithTimeline applies the status change and appends the timeline
// entry in one transaction. Returns zero rows when the complaint is missing.
func (r *Repository) UpdateStatusWithTimeline(ctx context.Context, id uuid.UUID, status enums.Status, remarks *string, at time.Time) (int64, error) {
	var affected int64
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Complaint{}).
			Where("id = ?", id).
			Updates(map[string]any{
				"status":        status,
				"admin_remarks": remarks,
				"updated_at":    at,
			})
		if res.Error != nil {
			return res.Error
		}
		affected = res.RowsAffected
		if affected == 0 {
			return nil
		}

		entryRemarks := ""
		if remarks != nil {
			entryRemarks = *remarks
		}
		return tx.Create(&models.TimelineEntry{
			ID:          uuid.New(),
			ComplaintID: id,
			Status:      status,
			Remarks:     entryRemarks,
			CreatedAt:   at,
		}).Error
	})
	return affected, err
}

// ListTimeline returns a complaint's history rows, oldest first.
func (r *Repository) ListTimeline(ctx context.Context, complaintID uuid.UUID) ([]models.TimelineEntry, error) {
	var entries []models.TimelineEntry
	err := r.db.WithContext(ctx).
		Where("complaint_id = ?", complaintID).
		Order("created_at ASC, id ASC").
		Find(&entries).Error
	return entries, err
}

// ListTimelines batch-loads history rows for several complaints, oldest first,
// keyed by complaint id.
func (r *Repository) ListTimelines(ctx context.Context, complaintIDs []uuid.UUID) (map[uuid.UUID][]models.TimelineEntry, error) {
	grouped := make(map[uuid.UUID][]models.TimelineEntry, len(complaintIDs))
	if len(complaintIDs) == 0 {
		return grouped, nil
	}

	var entries []models.TimelineEntry
	err := r.db.WithContext(ctx).
		Where("complaint_id IN ?", complaintIDs).
		Order("created_at ASC, id ASC").
		Find(&entries).Error
	if err != nil {
		return nil, err
	}
	for _, e := range entries {
		grouped[e.ComplaintID] = append(grouped[e.ComplaintID], e)
	}
	return grouped, nil
}
