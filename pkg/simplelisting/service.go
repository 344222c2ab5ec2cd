package simplelisting

import "context"

// Service defines the main interface for the simple-listing library
type Service interface {
	// BuildListing selects, normalizes, and assembles a listing for the
	// given configuration. It never fails: collaborator errors degrade to
	// an empty or partial listing, observable through the event sink and
	// the OnDegrade hooks. The returned listing is never nil.
	BuildListing(ctx context.Context, cfg BlockConfig) *Listing

	// NormalizeRecord converts one raw record into a uniform list item
	// using the configuration's image style and date format.
	NormalizeRecord(ctx context.Context, record *ContentRecord, cfg BlockConfig) ListItem

	// CacheMetadata derives the invalidation tags and contexts for the
	// configuration without building the listing.
	CacheMetadata(cfg BlockConfig) CacheMetadata
}
