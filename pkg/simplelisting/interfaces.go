package simplelisting

import (
	"context"
	"io"
	"time"

	"github.com/google/uuid"
)

// ContentQuery describes one selection of content records.
type ContentQuery struct {
	// Kinds restricts results to the given content kinds. Callers apply
	// kind defaults before querying; an empty set matches nothing.
	Kinds []ContentKind

	// OnlyPublished restricts results to published records.
	OnlyPublished bool

	// SortBy and SortOrder name the ordering (SortByDate or SortByCreatedAt
	// with SortOrderAsc or SortOrderDesc).
	SortBy    string
	SortOrder string

	// Limit caps the number of returned records. Zero or negative selects
	// nothing.
	Limit int

	// CategoryIDs, when non-empty, restricts results to records referencing
	// at least one of the given term ids.
	CategoryIDs []int64
}

// Repository defines the interface for content and taxonomy persistence
type Repository interface {
	// QueryContent returns records matching the query, ordered by the
	// requested sort. Ordering of records with equal sort values is
	// implementation-defined; the shipped implementations break ties by
	// created_at descending, then id.
	QueryContent(ctx context.Context, query ContentQuery) ([]*ContentRecord, error)

	// GetContent returns a single record by id
	GetContent(ctx context.Context, id uuid.UUID) (*ContentRecord, error)

	// GetTerm resolves a taxonomy term. Returns ErrTermNotFound for an
	// unknown id.
	GetTerm(ctx context.Context, id int64) (*Term, error)

	// ImageStyleExists reports whether a named image style is defined
	ImageStyleExists(ctx context.Context, name string) (bool, error)

	// KindLabel returns the human-readable label for a content kind.
	// Returns ErrKindNotFound when the kind has no registered label.
	KindLabel(ctx context.Context, kind ContentKind) (string, error)

	// Admin operations
	ListContentWithFilters(ctx context.Context, filters ContentListFilters) ([]*ContentRecord, error)
	CountContentWithFilters(ctx context.Context, filters ContentCountFilters) (int64, error)
	GetContentStatistics(ctx context.Context, filters ContentCountFilters, options ContentStatisticsOptions) (*ContentStatisticsResult, error)
}

// FileStore defines the interface for file storage backends
type FileStore interface {
	// Upload stores file data under the given key
	Upload(ctx context.Context, key string, reader io.Reader) error

	// Download reads stored file data
	Download(ctx context.Context, key string) (io.ReadCloser, error)

	// Delete removes a stored file
	Delete(ctx context.Context, key string) error

	// Exists reports whether a file is stored under the key
	Exists(ctx context.Context, key string) (bool, error)

	// FileURL resolves a stored file to a servable URL. Returns an error
	// wrapping ErrFileNotFound when no file exists under the key.
	FileURL(ctx context.Context, key string) (string, error)

	// StyledFileURL resolves the URL of the derived rendition for a named
	// image style.
	StyledFileURL(ctx context.Context, key string, style string) (string, error)

	// GetFileMeta retrieves metadata for a stored file
	GetFileMeta(ctx context.Context, key string) (*FileMeta, error)
}

// EventSink defines the interface for listing lifecycle events
type EventSink interface {
	// ListingBuilt is fired after a listing is assembled
	ListingBuilt(ctx context.Context, listing *Listing) error

	// ItemNormalized is fired after a record is normalized into an item
	ItemNormalized(ctx context.Context, record *ContentRecord, item *ListItem) error

	// ItemDegraded is fired when a collaborator error is absorbed into an
	// absent field or an empty result
	ItemDegraded(ctx context.Context, recordID uuid.UUID, field string, err error) error
}

// FileMeta contains metadata about a file in storage
type FileMeta struct {
	Key         string
	Size        int64
	ContentType string
	UpdatedAt   time.Time
	ETag        string
	Metadata    map[string]string
}
