package simplelisting

import (
	"time"

	"github.com/google/uuid"
)

// ContentKind is the domain type for content record kinds.
type ContentKind string

// Content kind constants (typed).
const (
	KindNews   ContentKind = "news"
	KindEvents ContentKind = "events"
)

// DefaultContentKinds returns the kind set applied when a configuration
// names none.
func DefaultContentKinds() []ContentKind {
	return []ContentKind{KindNews, KindEvents}
}

// PublishStatus is the domain type for content publish states.
type PublishStatus string

// Publish status constants (typed).
const (
	StatusPublished   PublishStatus = "published"
	StatusUnpublished PublishStatus = "unpublished"
)

// CategoryVocabulary is the taxonomy vocabulary shared by news and event
// categories. The listing's cache tags are derived from it.
const CategoryVocabulary = "news_events_category"

// Sort constants for ContentQuery and admin filters.
const (
	SortByDate      = "date"
	SortByCreatedAt = "created_at"

	SortOrderAsc  = "asc"
	SortOrderDesc = "desc"
)

// RichText is a rich-text value together with its input format tag.
type RichText struct {
	Value  string `json:"value"`
	Format string `json:"format,omitempty"`
}

// BodyField is a long-form body with an optional hand-written summary
// sub-value. Format applies to both values.
type BodyField struct {
	Value   string `json:"value"`
	Summary string `json:"summary,omitempty"`
	Format  string `json:"format,omitempty"`
}

// ImageRef references a stored image file by storage key.
type ImageRef struct {
	FileKey string `json:"file_key"`
	Alt     string `json:"alt,omitempty"`
}

// ContentRecord is a raw news or event entry as stored by a Repository.
//
// Optional fields are pointers; nil means the record carries no value for
// that field. Date and EndDate hold raw values exactly as stored; the
// normalizer formats them per configuration. EndDate is meaningful only for
// the "events" kind.
type ContentRecord struct {
	ID        uuid.UUID     `json:"id"`
	Kind      ContentKind   `json:"kind"`
	Title     string        `json:"title"`
	Status    PublishStatus `json:"status"`
	Summary   *RichText     `json:"summary,omitempty"`
	Body      *BodyField    `json:"body,omitempty"`
	Image     *ImageRef     `json:"image,omitempty"`
	Date      string        `json:"date,omitempty"`
	EndDate   string        `json:"end_date,omitempty"`
	TermIDs   []int64       `json:"term_ids,omitempty"`
	URL       string        `json:"url"`
	CreatedAt time.Time     `json:"created_at"`
	UpdatedAt time.Time     `json:"updated_at"`
}

// Term is a taxonomy term a content record may reference.
type Term struct {
	ID    int64  `json:"id"`
	Label string `json:"label"`
	URL   string `json:"url"`
}

// Category is a resolved term reference carried on a ListItem.
type Category struct {
	ID    int64  `json:"id"`
	Label string `json:"label"`
	URL   string `json:"url"`
}

// ImageDescriptor describes a resolved listing image. Style names the image
// style to render with; empty means the original rendition. URI always
// points at the original file; applying the style is the renderer's job.
type ImageDescriptor struct {
	URI   string `json:"uri"`
	Alt   string `json:"alt,omitempty"`
	Title string `json:"title,omitempty"`
	Style string `json:"style,omitempty"`
}

// ListItem is one normalized listing entry. Items are created fresh per
// build and carry no persisted identity.
//
// IsDateRange is true only when both DateStart and DateEnd resolved to
// distinct non-empty values.
type ListItem struct {
	Title       string           `json:"title"`
	URL         string           `json:"url"`
	Kind        ContentKind      `json:"kind"`
	KindLabel   string           `json:"kind_label"`
	Summary     *RichText        `json:"summary,omitempty"`
	Image       *ImageDescriptor `json:"image,omitempty"`
	Date        string           `json:"date,omitempty"`
	DateStart   string           `json:"date_start,omitempty"`
	DateEnd     string           `json:"date_end,omitempty"`
	IsDateRange bool             `json:"is_date_range"`
	Categories  []Category       `json:"categories,omitempty"`
}

// ViewAllLink is the optional secondary navigation link shown alongside a
// listing.
type ViewAllLink struct {
	Text string `json:"text"`
	URL  string `json:"url"`
}

// CacheMetadata carries the invalidation tags and contexts for a listing.
type CacheMetadata struct {
	Tags     []string `json:"tags"`
	Contexts []string `json:"contexts"`
}

// Listing is the assembled payload handed to presentation. It is constructed
// once per build and not mutated afterwards.
type Listing struct {
	Title   string        `json:"title,omitempty"`
	Items   []ListItem    `json:"items"`
	ViewAll *ViewAllLink  `json:"view_all,omitempty"`
	Cache   CacheMetadata `json:"cache"`
}

// ContentListFilters defines filtering options for listing content (admin
// operations).
type ContentListFilters struct {
	Kinds         []ContentKind
	Status        *PublishStatus
	Statuses      []PublishStatus
	TermID        *int64
	TermIDs       []int64
	CreatedAfter  *time.Time
	CreatedBefore *time.Time
	Limit         *int
	Offset        *int
	SortBy        *string
	SortOrder     *string
}

// ContentCountFilters defines filtering options for counting content.
type ContentCountFilters struct {
	Kinds         []ContentKind
	Status        *PublishStatus
	Statuses      []PublishStatus
	TermID        *int64
	TermIDs       []int64
	CreatedAfter  *time.Time
	CreatedBefore *time.Time
}

// ContentStatisticsOptions defines what statistics to include.
type ContentStatisticsOptions struct {
	IncludeKindBreakdown   bool
	IncludeStatusBreakdown bool
	IncludeTimeRange       bool
}

// ContentStatisticsResult contains aggregated statistics about content.
type ContentStatisticsResult struct {
	TotalCount    int64
	ByKind        map[string]int64
	ByStatus      map[string]int64
	OldestContent *time.Time
	NewestContent *time.Time
}
