package admin

import (
	"time"

	"github.com/tendant/simple-listing/pkg/simplelisting"
)

// ContentStatistics provides aggregated statistics about content records
type ContentStatistics struct {
	TotalCount    int64            `json:"total_count"`
	ByKind        map[string]int64 `json:"by_kind,omitempty"`
	ByStatus      map[string]int64 `json:"by_status,omitempty"`
	OldestContent *time.Time       `json:"oldest_content,omitempty"`
	NewestContent *time.Time       `json:"newest_content,omitempty"`
}

// ContentFilters defines flexible filtering options for admin operations
type ContentFilters struct {
	// Kind filters
	Kinds []simplelisting.ContentKind `json:"kinds,omitempty"`

	// Status filters
	Status   *simplelisting.PublishStatus  `json:"status,omitempty"`
	Statuses []simplelisting.PublishStatus `json:"statuses,omitempty"`

	// Category term filters
	TermID  *int64  `json:"term_id,omitempty"`
	TermIDs []int64 `json:"term_ids,omitempty"`

	// Time range filters
	CreatedAfter  *time.Time `json:"created_after,omitempty"`
	CreatedBefore *time.Time `json:"created_before,omitempty"`

	// Pagination
	Limit  *int `json:"limit,omitempty"`
	Offset *int `json:"offset,omitempty"`

	// Sorting
	SortBy    *string `json:"sort_by,omitempty"`    // created_at, updated_at, date, title, status
	SortOrder *string `json:"sort_order,omitempty"` // asc, desc
}

// StatisticsOptions defines what statistics to compute
type StatisticsOptions struct {
	IncludeKindBreakdown   bool `json:"include_kind_breakdown"`
	IncludeStatusBreakdown bool `json:"include_status_breakdown"`
	IncludeTimeRange       bool `json:"include_time_range"`
}

// DefaultStatisticsOptions returns statistics options with all breakdowns enabled
func DefaultStatisticsOptions() StatisticsOptions {
	return StatisticsOptions{
		IncludeKindBreakdown:   true,
		IncludeStatusBreakdown: true,
		IncludeTimeRange:       true,
	}
}
