// Package urlstrategy decides how stored files resolve to public URLs.
//
// Listing items reference image files by key; the strategy in use turns a
// key into the URL a browser fetches, either routed through the application
// or pointed at a CDN. Storage backends accept a strategy at construction
// time, so the same stored bytes can be exposed differently per deployment.
package urlstrategy

import "context"

// URLStrategy defines the interface for file URL generation strategies
type URLStrategy interface {
	// FileURL returns the public URL of the original file stored under key
	FileURL(ctx context.Context, key string) (string, error)

	// StyledFileURL returns the public URL of the derived rendition of the
	// file for a named image style
	StyledFileURL(ctx context.Context, key string, style string) (string, error)
}
