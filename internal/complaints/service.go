package complaints

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/civictrack/civictrack-backend/internal/complaints/transitions"
	"github.com/civictrack/civictrack-backend/pkg/db/models"
	"github.com/civictrack/civictrack-backend/pkg/enums"
	pkgerrors "github.com/civictrack/civictrack-backend/pkg/errors"
	"github.com/civictrack/civictrack-backend/pkg/pagination"
	"github.com/civictrack/civictrack-backend/pkg/visibility"
)

const (
	creationRemarks = "Complaint submitted"

	// hotCounterTTL bounds how long a cached counter can outlive its last
	// write; the database row stays the source of truth.
	hotCounterTTL = 5 * time.Minute
)

// Service defines the behavior needed by the complaints controllers.
type Service interface {
	Create(ctx context.Context, ownerID uuid.UUID, req CreateComplaintRequest) (*ComplaintDTO, error)
	ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]ComplaintDTO, error)
	ListPublic(ctx context.Context, params pagination.Params) (*ComplaintPage, error)
	ListAll(ctx context.Context, params pagination.Params) (*ComplaintPage, error)
	GetDetail(ctx context.Context, viewer visibility.Viewer, id uuid.UUID) (*ComplaintDTO, error)
	Upvote(ctx context.Context, id uuid.UUID) (*ComplaintDTO, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, req UpdateStatusRequest) (*ComplaintDTO, error)
}

type complaintRepository interface {
	CreateWithTimeline(ctx context.Context, complaint *models.Complaint, entry *models.TimelineEntry) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Complaint, error)
	FindOwner(ctx context.Context, complaint *models.Complaint) (*models.User, error)
	ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]models.Complaint, error)
	ListPublic(ctx context.Context, cursor *pagination.Cursor, limit int) ([]models.Complaint, error)
	ListAllWithOwners(ctx context.Context, cursor *pagination.Cursor, limit int) ([]ComplaintWithOwner, error)
	IncrementViews(ctx context.Context, id uuid.UUID) (int64, error)
	IncrementUpvotes(ctx context.Context, id uuid.UUID) (int64, error)
	UpdateStatusWithTimeline(ctx context.Context, id uuid.UUID, status enums.Status, remarks *string, at time.Time) (int64, error)
	ListTimeline(ctx context.Context, complaintID uuid.UUID) ([]models.TimelineEntry, error)
	ListTimelines(ctx context.Context, complaintIDs []uuid.UUID) (map[uuid.UUID][]models.TimelineEntry, error)
}

// counterCache holds hot upvote/view counts so the public feed reflects
// increments without re-reading each row. Satisfied by *redis.Client.
type counterCache interface {
	CounterKey(name string) string
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Get(ctx context.Context, key string) (string, error)
}

type service struct {
	repo     complaintRepository
	counters counterCache
}

// NewService constructs a complaints service with the provided repository.
// counters may be nil, which disables the hot counter cache.
func NewService(repo complaintRepository, counters counterCache) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("complaint repository is required")
	}
	return &service{repo: repo, counters: counters}, nil
}

func (s *service) Create(ctx context.Context, ownerID uuid.UUID, req CreateComplaintRequest) (*ComplaintDTO, error) {
	if ownerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "authentication required")
	}

	category, err := enums.ParseCategory(strings.TrimSpace(req.Category))
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid category")
	}

	var priority *enums.Priority
	if req.Priority != nil && strings.TrimSpace(*req.Priority) != "" {
		parsed, err := enums.ParsePriority(strings.TrimSpace(*req.Priority))
		if err != nil {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid priority")
		}
		priority = &parsed
	}

	title := strings.TrimSpace(req.Title)
	description := strings.TrimSpace(req.Description)
	location := strings.TrimSpace(req.Location)
	if title == "" || description == "" || location == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "title, description, and location are required")
	}

	now := time.Now().UTC()
	complaint := &models.Complaint{
		UserID:      ownerID,
		Title:       title,
		Category:    category,
		Description: description,
		Location:    location,
		Latitude:    req.Latitude,
		Longitude:   req.Longitude,
		ImageURL:    req.ImageURL,
		Priority:    priority,
		Status:      enums.StatusPending,
		CreatedAt:   now,
	}
	entry := &models.TimelineEntry{
		Status:    enums.StatusPending,
		Remarks:   creationRemarks,
		CreatedAt: now,
	}

	if err := s.repo.CreateWithTimeline(ctx, complaint, entry); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create complaint")
	}

	dto := OwnerView(complaint, []models.TimelineEntry{*entry})
	return &dto, nil
}

func (s *service) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]ComplaintDTO, error) {
	if ownerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}

	complaints, err := s.repo.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list complaints")
	}

	ids := make([]uuid.UUID, 0, len(complaints))
	for _, c := range complaints {
		ids = append(ids, c.ID)
	}
	timelines, err := s.repo.ListTimelines(ctx, ids)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list timelines")
	}

	out := make([]ComplaintDTO, 0, len(complaints))
	for i := range complaints {
		out = append(out, OwnerView(&complaints[i], timelines[complaints[i].ID]))
	}
	return out, nil
}

func (s *service) ListPublic(ctx context.Context, params pagination.Params) (*ComplaintPage, error) {
	cursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid cursor")
	}
	limit := pagination.NormalizeLimit(params.Limit)

	complaints, err := s.repo.ListPublic(ctx, cursor, pagination.LimitWithBuffer(params.Limit))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list public complaints")
	}

	page := &ComplaintPage{Items: make([]ComplaintDTO, 0, limit)}
	for i := range complaints {
		if i == limit {
			break
		}
		s.overlayCachedCounters(ctx, &complaints[i])
		page.Items = append(page.Items, PublicView(&complaints[i]))
	}
	if pagination.HasMore(len(complaints), params.Limit) {
		last := complaints[limit-1]
		next := pagination.EncodeCursor(pagination.Cursor{CreatedAt: last.CreatedAt, ID: last.ID})
		page.NextCursor = &next
	}
	return page, nil
}

func (s *service) ListAll(ctx context.Context, params pagination.Params) (*ComplaintPage, error) {
	cursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid cursor")
	}
	limit := pagination.NormalizeLimit(params.Limit)

	rows, err := s.repo.ListAllWithOwners(ctx, cursor, pagination.LimitWithBuffer(params.Limit))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list complaints")
	}

	page := &ComplaintPage{Items: make([]ComplaintDTO, 0, limit)}
	for i := range rows {
		if i == limit {
			break
		}
		dto := PublicView(&rows[i].Complaint)
		dto.AdminRemarks = rows[i].AdminRemarks
		dto.Owner = &OwnerInfoDTO{
			ID:    rows[i].UserID,
			Name:  rows[i].OwnerName,
			Email: rows[i].OwnerEmail,
		}
		page.Items = append(page.Items, dto)
	}
	if pagination.HasMore(len(rows), params.Limit) {
		last := rows[limit-1]
		next := pagination.EncodeCursor(pagination.Cursor{CreatedAt: last.CreatedAt, ID: last.ID})
		page.NextCursor = &next
	}
	return page, nil
}

func (s *service) GetDetail(ctx context.Context, viewer visibility.Viewer, id uuid.UUID) (*ComplaintDTO, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "complaint id is required")
	}

	// Count the view before reading so the response reflects it.
	affected, err := s.repo.IncrementViews(ctx, id)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "increment views")
	}
	if affected == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "complaint not found")
	}

	complaint, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "complaint not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load complaint")
	}

	s.cacheCounters(ctx, complaint)

	timeline, err := s.repo.ListTimeline(ctx, id)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load timeline")
	}
	owner, err := s.repo.FindOwner(ctx, complaint)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load reporter")
	}

	// The detail view is rich for every caller: remarks, timeline, and the
	// reporter's name ship regardless of auth. Only the reporter's email is
	// held back to admins.
	dto := OwnerView(complaint, timeline)
	if owner != nil {
		info := &OwnerInfoDTO{ID: owner.ID, Name: owner.Name}
		if visibility.TierFor(viewer, complaint.UserID) == visibility.TierAdmin {
			info.Email = owner.Email
		}
		dto.Owner = info
	}
	return &dto, nil
}

func (s *service) Upvote(ctx context.Context, id uuid.UUID) (*ComplaintDTO, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "complaint id is required")
	}

	affected, err := s.repo.IncrementUpvotes(ctx, id)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "increment upvotes")
	}
	if affected == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "complaint not found")
	}

	complaint, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load complaint")
	}
	s.cacheCounters(ctx, complaint)
	dto := PublicView(complaint)
	return &dto, nil
}

func (s *service) UpdateStatus(ctx context.Context, id uuid.UUID, req UpdateStatusRequest) (*ComplaintDTO, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "complaint id is required")
	}
	status, err := enums.ParseStatus(strings.TrimSpace(req.Status))
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid status")
	}

	current, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "complaint not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load complaint")
	}

	// The route is already admin-gated; the guard keeps the lifecycle rule in
	// one place should non-admin transitions ever be introduced.
	if !transitions.Allowed(current.Status, status, true) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("transition %s -> %s not allowed", current.Status, status))
	}

	now := time.Now().UTC()
	affected, err := s.repo.UpdateStatusWithTimeline(ctx, id, status, req.AdminRemarks, now)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update status")
	}
	if affected == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "complaint not found")
	}

	updated, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load complaint")
	}
	timeline, err := s.repo.ListTimeline(ctx, id)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load timeline")
	}
	owner, err := s.repo.FindOwner(ctx, updated)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load reporter")
	}

	dto := AdminView(updated, owner, timeline)
	return &dto, nil
}

// cacheCounters writes the row's counters to the hot cache. Best effort: a
// cache failure never fails the request.
func (s *service) cacheCounters(ctx context.Context, c *models.Complaint) {
	if s.counters == nil {
		return
	}
	_ = s.counters.Set(ctx, s.counters.CounterKey("upvotes:"+c.ID.String()), c.Upvotes, hotCounterTTL)
	_ = s.counters.Set(ctx, s.counters.CounterKey("views:"+c.ID.String()), c.Views, hotCounterTTL)
}

// overlayCachedCounters lifts feed counters to the cached values when those
// are fresher than the row just read.
func (s *service) overlayCachedCounters(ctx context.Context, c *models.Complaint) {
	if s.counters == nil {
		return
	}
	if v, ok := s.cachedCount(ctx, "upvotes", c.ID); ok && v > c.Upvotes {
		c.Upvotes = v
	}
	if v, ok := s.cachedCount(ctx, "views", c.ID); ok && v > c.Views {
		c.Views = v
	}
}

func (s *service) cachedCount(ctx context.Context, name string, id uuid.UUID) (int64, bool) {
	raw, err := s.counters.Get(ctx, s.counters.CounterKey(name+":"+id.String()))
	if err != nil {
		return 0, false
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}
