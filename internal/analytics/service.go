package analytics

import (
	"context"
	"fmt"
	"math"
	"sort"
	"time"

	pkgerrors "github.com/civictrack/civictrack-backend/pkg/errors"
)

const defaultWindowDays = 365

// Service defines the behavior needed by the analytics controller.
type Service interface {
	Summarize(ctx context.Context, windowDays int) (*Summary, error)
}

type analyticsRepository interface {
	Total(ctx context.Context) (int64, error)
	CountByStatus(ctx context.Context) ([]StatusCount, error)
	CountByCategory(ctx context.Context) ([]CategoryShare, error)
	TopLocations(ctx context.Context) ([]LocationCount, error)
	ResolutionSamples(ctx context.Context, since time.Time) ([]ResolutionSample, error)
	SubmittedTimes(ctx context.Context, since time.Time) ([]time.Time, error)
	ResolvedTimes(ctx context.Context, since time.Time) ([]time.Time, error)
}

type service struct {
	repo analyticsRepository
	now  func() time.Time
}

// NewService constructs an analytics service over the provided repository.
func NewService(repo analyticsRepository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("analytics repository is required")
	}
	return &service{repo: repo, now: time.Now}, nil
}

func (s *service) Summarize(ctx context.Context, windowDays int) (*Summary, error) {
	if windowDays <= 0 {
		windowDays = defaultWindowDays
	}
	since := s.now().UTC().AddDate(0, 0, -windowDays)

	total, err := s.repo.Total(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "count complaints")
	}

	byStatus, err := s.repo.CountByStatus(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "count by status")
	}

	byCategory, err := s.repo.CountByCategory(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "count by category")
	}
	for i := range byCategory {
		byCategory[i].Percentage = percentage(byCategory[i].Count, total)
	}
	sort.Slice(byCategory, func(i, j int) bool {
		if byCategory[i].Count != byCategory[j].Count {
			return byCategory[i].Count > byCategory[j].Count
		}
		return byCategory[i].Category < byCategory[j].Category
	})

	topLocations, err := s.repo.TopLocations(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "top locations")
	}

	avgResolution, err := s.averageResolutionHours(ctx, since)
	if err != nil {
		return nil, err
	}

	monthly, err := s.monthlySeries(ctx, since)
	if err != nil {
		return nil, err
	}

	return &Summary{
		Total:              total,
		ByStatus:           byStatus,
		ByCategory:         byCategory,
		TopLocations:       topLocations,
		AvgResolutionHours: avgResolution,
		Monthly:            monthly,
		WindowDays:         windowDays,
	}, nil
}

// percentage follows round-half-away-from-zero so shares add up the way the
// dashboard has always displayed them; zero total yields zero for every row.
func percentage(count, total int64) int {
	if total == 0 {
		return 0
	}
	return int(math.Round(float64(count) / float64(total) * 100))
}

func (s *service) averageResolutionHours(ctx context.Context, since time.Time) (*float64, error) {
	samples, err := s.repo.ResolutionSamples(ctx, since)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "resolution samples")
	}
	if len(samples) == 0 {
		return nil, nil
	}

	var totalHours float64
	for _, sample := range samples {
		totalHours += sample.ResolvedAt.Sub(sample.CreatedAt).Hours()
	}
	avg := totalHours / float64(len(samples))
	return &avg, nil
}

func (s *service) monthlySeries(ctx context.Context, since time.Time) ([]MonthBucket, error) {
	submitted, err := s.repo.SubmittedTimes(ctx, since)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "submitted times")
	}
	resolved, err := s.repo.ResolvedTimes(ctx, since)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "resolved times")
	}

	buckets := map[string]*MonthBucket{}
	bucket := func(at time.Time) *MonthBucket {
		key := at.UTC().Format("2006-01")
		b, ok := buckets[key]
		if !ok {
			b = &MonthBucket{Month: key}
			buckets[key] = b
		}
		return b
	}
	for _, at := range submitted {
		bucket(at).Submitted++
	}
	for _, at := range resolved {
		bucket(at).Resolved++
	}

	out := make([]MonthBucket, 0, len(buckets))
	for _, b := range buckets {
		out = append(out, *b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Month < out[j].Month })
	return out, nil
}
