package complaints

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/civictrack/civictrack-backend/pkg/db/models"
	"github.com/civictrack/civictrack-backend/pkg/enums"
	"github.com/civictrack/civictrack-backend/pkg/pagination"
)

func setupComplaintsTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	// A named shared-memory database: private to this test, yet shared
	// across the pool's connections.
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	users := `
CREATE TABLE IF NOT EXISTS users (
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  email TEXT NOT NULL UNIQUE,
  password_hash TEXT NOT NULL,
  is_admin INTEGER NOT NULL DEFAULT 0,
  phone TEXT,
  address TEXT,
  bio TEXT,
  notify_email INTEGER NOT NULL DEFAULT 1,
  notify_sms INTEGER NOT NULL DEFAULT 0,
  notify_push INTEGER NOT NULL DEFAULT 1,
  created_at DATETIME,
  updated_at DATETIME
);`
	complaints := `
CREATE TABLE IF NOT EXISTS complaints (
  id TEXT PRIMARY KEY,
  user_id TEXT NOT NULL,
  title TEXT NOT NULL,
  category TEXT NOT NULL,
  description TEXT NOT NULL,
  location TEXT NOT NULL,
  latitude REAL,
  longitude REAL,
  image_url TEXT,
  priority TEXT,
  status TEXT NOT NULL DEFAULT 'Pending',
  admin_remarks TEXT,
  upvotes INTEGER NOT NULL DEFAULT 0,
  views INTEGER NOT NULL DEFAULT 0,
  created_at DATETIME,
  updated_at DATETIME
);`
	timeline := `
CREATE TABLE IF NOT EXISTS complaint_timeline (
  id TEXT PRIMARY KEY,
  complaint_id TEXT NOT NULL,
  status TEXT NOT NULL,
  remarks TEXT NOT NULL,
  created_at DATETIME
);`
	require.NoError(t, db.Exec(users).Error)
	require.NoError(t, db.Exec(complaints).Error)
	require.NoError(t, db.Exec(timeline).Error)
	return db
}

func seedOwner(t *testing.T, db *gorm.DB) *models.User {
	t.Helper()

	user := &models.User{
		ID:           uuid.New(),
		Name:         "Reporter",
		Email:        fmt.Sprintf("ct_%s@example.com", uuid.NewString()),
		PasswordHash: "hash",
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func seedComplaint(t *testing.T, repo *Repository, ownerID uuid.UUID, createdAt time.Time) *models.Complaint {
	t.Helper()

	complaint := &models.Complaint{
		UserID:      ownerID,
		Title:       "Pothole on 5th",
		Category:    enums.CategoryRoad,
		Description: "Deep pothole near the crossing",
		Location:    "5th Avenue",
		Status:      enums.StatusPending,
		CreatedAt:   createdAt,
	}
	entry := &models.TimelineEntry{
		Status:    enums.StatusPending,
		Remarks:   "Complaint submitted",
		CreatedAt: createdAt,
	}
	require.NoError(t, repo.CreateWithTimeline(context.Background(), complaint, entry))
	return complaint
}

func TestCreateWithTimelineWritesBothRows(t *testing.T) {
	db := setupComplaintsTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()
	owner := seedOwner(t, db)

	complaint := seedComplaint(t, repo, owner.ID, time.Now().UTC())
	require.NotEqual(t, uuid.Nil, complaint.ID)

	entries, err := repo.ListTimeline(ctx, complaint.ID)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, enums.StatusPending, entries[0].Status)
	assert.Equal(t, "Complaint submitted", entries[0].Remarks)
	assert.Equal(t, complaint.ID, entries[0].ComplaintID)
}

func TestListByOwnerNewestFirst(t *testing.T) {
	db := setupComplaintsTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()
	owner := seedOwner(t, db)
	other := seedOwner(t, db)

	base := time.Now().UTC().Add(-time.Hour)
	oldest := seedComplaint(t, repo, owner.ID, base)
	newest := seedComplaint(t, repo, owner.ID, base.Add(30*time.Minute))
	seedComplaint(t, repo, other.ID, base.Add(10*time.Minute))

	list, err := repo.ListByOwner(ctx, owner.ID)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, newest.ID, list[0].ID)
	assert.Equal(t, oldest.ID, list[1].ID)
}

func TestListPublicCursorPagination(t *testing.T) {
	db := setupComplaintsTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()
	owner := seedOwner(t, db)

	base := time.Now().UTC().Add(-time.Hour)
	var all []*models.Complaint
	for i := 0; i < 5; i++ {
		all = append(all, seedComplaint(t, repo, owner.ID, base.Add(time.Duration(i)*time.Minute)))
	}

	first, err := repo.ListPublic(ctx, nil, 3)
	require.NoError(t, err)
	require.Len(t, first, 3)
	assert.Equal(t, all[4].ID, first[0].ID)

	cursor := &pagination.Cursor{CreatedAt: first[2].CreatedAt, ID: first[2].ID}
	second, err := repo.ListPublic(ctx, cursor, 3)
	require.NoError(t, err)
	require.Len(t, second, 2)
	assert.Equal(t, all[1].ID, second[0].ID)
	assert.Equal(t, all[0].ID, second[1].ID)
}

func TestListAllWithOwnersJoinsReporter(t *testing.T) {
	db := setupComplaintsTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()
	owner := seedOwner(t, db)
	seedComplaint(t, repo, owner.ID, time.Now().UTC())

	rows, err := repo.ListAllWithOwners(ctx, nil, 10)
	require.NoError(t, err)
	require.NotEmpty(t, rows)

	found := false
	for _, row := range rows {
		if row.UserID == owner.ID {
			found = true
			assert.Equal(t, owner.Name, row.OwnerName)
			assert.Equal(t, owner.Email, row.OwnerEmail)
		}
	}
	require.True(t, found, "expected seeded complaint in admin listing")
}

func TestIncrementCountersAreAtomic(t *testing.T) {
	db := setupComplaintsTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()
	owner := seedOwner(t, db)
	complaint := seedComplaint(t, repo, owner.ID, time.Now().UTC())

	// sqlite serializes writers, so concurrent increments can hit busy
	// errors. Retry those so every increment lands and the totals are exact.
	increment := func(fn func(context.Context, uuid.UUID) (int64, error)) error {
		var err error
		for attempt := 0; attempt < 50; attempt++ {
			if _, err = fn(ctx, complaint.ID); err == nil {
				return nil
			}
			time.Sleep(time.Millisecond)
		}
		return err
	}

	const workers = 10
	errs := make(chan error, workers*2)
	var wg sync.WaitGroup
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			errs <- increment(repo.IncrementUpvotes)
			errs <- increment(repo.IncrementViews)
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	fetched, err := repo.FindByID(ctx, complaint.ID)
	require.NoError(t, err)
	assert.EqualValues(t, workers, fetched.Upvotes)
	assert.EqualValues(t, workers, fetched.Views)
}

func TestIncrementUpvotesUnknownID(t *testing.T) {
	db := setupComplaintsTestDB(t)
	repo := NewRepository(db)

	affected, err := repo.IncrementUpvotes(context.Background(), uuid.New())
	require.NoError(t, err)
	assert.EqualValues(t, 0, affected)
}

func TestUpdateStatusWithTimelineAppendsEntry(t *testing.T) {
	db := setupComplaintsTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()
	owner := seedOwner(t, db)
	complaint := seedComplaint(t, repo, owner.ID, time.Now().UTC().Add(-time.Minute))

	remarks := "Crew dispatched"
	affected, err := repo.UpdateStatusWithTimeline(ctx, complaint.ID, enums.StatusInProgress, &remarks, time.Now().UTC())
	require.NoError(t, err)
	require.EqualValues(t, 1, affected)

	updated, err := repo.FindByID(ctx, complaint.ID)
	require.NoError(t, err)
	assert.Equal(t, enums.StatusInProgress, updated.Status)
	require.NotNil(t, updated.AdminRemarks)
	assert.Equal(t, remarks, *updated.AdminRemarks)
	require.NotNil(t, updated.UpdatedAt)

	entries, err := repo.ListTimeline(ctx, complaint.ID)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, enums.StatusPending, entries[0].Status)
	assert.Equal(t, enums.StatusInProgress, entries[1].Status)
	assert.Equal(t, remarks, entries[1].Remarks)
}

func TestUpdateStatusWithTimelineUnknownID(t *testing.T) {
	db := setupComplaintsTestDB(t)
	repo := NewRepository(db)

	affected, err := repo.UpdateStatusWithTimeline(context.Background(), uuid.New(), enums.StatusResolved, nil, time.Now().UTC())
	require.NoError(t, err)
	assert.EqualValues(t, 0, affected)
}

func TestListTimelinesGroupsByComplaint(t *testing.T) {
	db := setupComplaintsTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()
	owner := seedOwner(t, db)

	first := seedComplaint(t, repo, owner.ID, time.Now().UTC().Add(-2*time.Minute))
	second := seedComplaint(t, repo, owner.ID, time.Now().UTC().Add(-time.Minute))

	grouped, err := repo.ListTimelines(ctx, []uuid.UUID{first.ID, second.ID})
	require.NoError(t, err)
	require.Len(t, grouped[first.ID], 1)
	require.Len(t, grouped[second.ID], 1)
}
