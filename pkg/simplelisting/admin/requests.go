package admin

import (
	"time"

	"github.com/tendant/simple-listing/pkg/simplelisting"
)

// ListContentsRequest contains parameters for admin content listing
type ListContentsRequest struct {
	Filters ContentFilters `json:"filters"`
}

// ListContentsResponse contains the paginated list of content records
type ListContentsResponse struct {
	Contents []*simplelisting.ContentRecord `json:"contents"`
	Limit    int                            `json:"limit"`
	Offset   int                            `json:"offset"`
	HasMore  bool                           `json:"has_more"`
}

// CountRequest contains parameters for counting content records
type CountRequest struct {
	Filters ContentFilters `json:"filters"`
}

// CountResponse contains the count result
type CountResponse struct {
	Count int64 `json:"count"`
}

// StatisticsRequest contains parameters for retrieving content statistics
type StatisticsRequest struct {
	Filters ContentFilters    `json:"filters"`
	Options StatisticsOptions `json:"options"`
}

// StatisticsResponse contains the statistics result
type StatisticsResponse struct {
	Statistics ContentStatistics `json:"statistics"`
	ComputedAt time.Time         `json:"computed_at"`
}

// ListContentsOption provides functional options for building filters
type ListContentsOption func(*ContentFilters)

// BuildFilters applies the given options to an empty filter set
func BuildFilters(opts ...ListContentsOption) ContentFilters {
	filters := ContentFilters{}
	for _, opt := range opts {
		opt(&filters)
	}
	return filters
}

// WithKinds filters by content kinds
func WithKinds(kinds ...simplelisting.ContentKind) ListContentsOption {
	return func(f *ContentFilters) {
		f.Kinds = kinds
	}
}

// WithStatus filters by publish status
func WithStatus(status simplelisting.PublishStatus) ListContentsOption {
	return func(f *ContentFilters) {
		f.Status = &status
	}
}

// WithStatuses filters by multiple publish statuses
func WithStatuses(statuses ...simplelisting.PublishStatus) ListContentsOption {
	return func(f *ContentFilters) {
		f.Statuses = statuses
	}
}

// WithTermID filters by a category term reference
func WithTermID(termID int64) ListContentsOption {
	return func(f *ContentFilters) {
		f.TermID = &termID
	}
}

// WithTermIDs filters by multiple category term references
func WithTermIDs(termIDs ...int64) ListContentsOption {
	return func(f *ContentFilters) {
		f.TermIDs = termIDs
	}
}

// WithCreatedAfter filters by created after time
func WithCreatedAfter(t time.Time) ListContentsOption {
	return func(f *ContentFilters) {
		f.CreatedAfter = &t
	}
}

// WithCreatedBefore filters by created before time
func WithCreatedBefore(t time.Time) ListContentsOption {
	return func(f *ContentFilters) {
		f.CreatedBefore = &t
	}
}

// WithLimit sets the pagination limit
func WithLimit(limit int) ListContentsOption {
	return func(f *ContentFilters) {
		f.Limit = &limit
	}
}

// WithOffset sets the pagination offset
func WithOffset(offset int) ListContentsOption {
	return func(f *ContentFilters) {
		f.Offset = &offset
	}
}

// WithPagination sets both limit and offset
func WithPagination(limit, offset int) ListContentsOption {
	return func(f *ContentFilters) {
		f.Limit = &limit
		f.Offset = &offset
	}
}

// WithSortBy sets the sort field
func WithSortBy(sortBy string) ListContentsOption {
	return func(f *ContentFilters) {
		f.SortBy = &sortBy
	}
}

// WithSortOrder sets the sort order
func WithSortOrder(sortOrder string) ListContentsOption {
	return func(f *ContentFilters) {
		f.SortOrder = &sortOrder
	}
}
