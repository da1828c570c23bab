package analytics

import (
	"github.com/civictrack/civictrack-backend/pkg/enums"
)

// StatusCount is the number of complaints currently in one status.
type StatusCount struct {
	Status enums.Status `json:"status"`
	Count  int64        `json:"count"`
}

// CategoryShare is the complaint count and whole-percentage share for one
// category.
type CategoryShare struct {
	Category   enums.Category `json:"category"`
	Count      int64          `json:"count"`
	Percentage int            `json:"percentage"`
}

// LocationCount is the complaint count for one reported location string.
type LocationCount struct {
	Location string `json:"location"`
	Count    int64  `json:"count"`
}

// MonthBucket is one month of the submitted/resolved trend series.
type MonthBucket struct {
	Month     string `json:"month"` // YYYY-MM
	Submitted int64  `json:"submitted"`
	Resolved  int64  `json:"resolved"`
}

// Summary is the aggregate report served to the admin dashboard.
type Summary struct {
	Total              int64           `json:"total"`
	ByStatus           []StatusCount   `json:"by_status"`
	ByCategory         []CategoryShare `json:"by_category"`
	TopLocations       []LocationCount `json:"top_locations"`
	AvgResolutionHours *float64        `json:"avg_resolution_hours"`
	Monthly            []MonthBucket   `json:"monthly"`
	WindowDays         int             `json:"window_days"`
}
