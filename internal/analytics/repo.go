package analytics

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/civictrack/civictrack-backend/pkg/db/models"
	"github.com/civictrack/civictrack-backend/pkg/enums"
)

const topLocationsLimit = 10

// ResolutionSample pairs a complaint's creation time with its latest
// resolution time.
type ResolutionSample struct {
	CreatedAt  time.Time
	ResolvedAt time.Time
}

// Repository exposes the aggregate queries behind the analytics report.
// Grouping beyond what SQL does portably (monthly buckets) happens in the
// service so the queries run unchanged on Postgres and the sqlite test DB.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs an analytics repo bound to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Total counts all complaints.
func (r *Repository) Total(ctx context.Context) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).Model(&models.Complaint{}).Count(&total).Error
	return total, err
}

// CountByStatus groups complaint counts by current status.
func (r *Repository) CountByStatus(ctx context.Context) ([]StatusCount, error) {
	var rows []StatusCount
	err := r.db.WithContext(ctx).
		Model(&models.Complaint{}).
		Select("status, COUNT(*) AS count").
		Group("status").
		Scan(&rows).Error
	return rows, err
}

// CountByCategory groups complaint counts by category.
func (r *Repository) CountByCategory(ctx context.Context) ([]CategoryShare, error) {
	var rows []CategoryShare
	err := r.db.WithContext(ctx).
		Model(&models.Complaint{}).
		Select("category, COUNT(*) AS count").
		Group("category").
		Scan(&rows).Error
	return rows, err
}

// TopLocations returns the most-reported location strings, busiest first.
func (r *Repository) TopLocations(ctx context.Context) ([]LocationCount, error) {
	var rows []LocationCount
	err := r.db.WithContext(ctx).
		Model(&models.Complaint{}).
		Select("location, COUNT(*) AS count").
		Group("location").
		Order("count DESC, location ASC").
		Limit(topLocationsLimit).
		Scan(&rows).Error
	return rows, err
}

// ResolutionSamples returns creation/resolution pairs for complaints whose
// latest Resolved timeline entry falls after since. The latest-per-complaint
// reduction happens here rather than with MAX() so the timestamps scan as
// time.Time on both backends.
func (r *Repository) ResolutionSamples(ctx context.Context, since time.Time) ([]ResolutionSample, error) {
	var rows []struct {
		ComplaintID uuid.UUID
		CreatedAt   time.Time
		ResolvedAt  time.Time
	}
	err := r.db.WithContext(ctx).
		Table("complaint_timeline").
		Select("complaint_timeline.complaint_id AS complaint_id, complaints.created_at AS created_at, complaint_timeline.created_at AS resolved_at").
		Joins("JOIN complaints ON complaints.id = complaint_timeline.complaint_id").
		Where("complaint_timeline.status = ? AND complaint_timeline.created_at >= ?", enums.StatusResolved, since).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	latest := make(map[uuid.UUID]ResolutionSample, len(rows))
	for _, row := range rows {
		sample, ok := latest[row.ComplaintID]
		if !ok || row.ResolvedAt.After(sample.ResolvedAt) {
			latest[row.ComplaintID] = ResolutionSample{CreatedAt: row.CreatedAt, ResolvedAt: row.ResolvedAt}
		}
	}
	samples := make([]ResolutionSample, 0, len(latest))
	for _, sample := range latest {
		samples = append(samples, sample)
	}
	return samples, nil
}

// SubmittedTimes returns the creation timestamps of complaints submitted
// after since.
func (r *Repository) SubmittedTimes(ctx context.Context, since time.Time) ([]time.Time, error) {
	var rows []time.Time
	err := r.db.WithContext(ctx).
		Model(&models.Complaint{}).
		Where("created_at >= ?", since).
		Pluck("created_at", &rows).Error
	return rows, err
}

// ResolvedTimes returns the timestamps of Resolved timeline entries after
// since.
func (r *Repository) ResolvedTimes(ctx context.Context, since time.Time) ([]time.Time, error) {
	var rows []time.Time
	err := r.db.WithContext(ctx).
		Model(&models.TimelineEntry{}).
		Where("status = ? AND created_at >= ?", enums.StatusResolved, since).
		Pluck("created_at", &rows).Error
	return rows, err
}
