package urlstrategy

import (
	"context"
	"fmt"
	"strings"
)

// StaticPrefixStrategy generates URLs under a fixed path prefix, routing
// file requests through the application server
type StaticPrefixStrategy struct {
	BaseURL string // e.g., "https://www.example.org/files" or "/files"
}

// NewStaticPrefixStrategy creates a new static-prefix URL strategy
func NewStaticPrefixStrategy(baseURL string) *StaticPrefixStrategy {
	// Ensure baseURL doesn't have trailing slash
	baseURL = strings.TrimSuffix(baseURL, "/")
	return &StaticPrefixStrategy{
		BaseURL: baseURL,
	}
}

// FileURL creates a prefix-rooted URL for the original file
func (s *StaticPrefixStrategy) FileURL(ctx context.Context, key string) (string, error) {
	if s.BaseURL == "" {
		return "", fmt.Errorf("base URL not configured")
	}
	return fmt.Sprintf("%s/%s", s.BaseURL, key), nil
}

// StyledFileURL creates a prefix-rooted URL for the styled rendition. The
// rendition lives under a per-style subtree so renditions of the same file
// never collide.
func (s *StaticPrefixStrategy) StyledFileURL(ctx context.Context, key string, style string) (string, error) {
	if s.BaseURL == "" {
		return "", fmt.Errorf("base URL not configured")
	}
	if style == "" {
		return s.FileURL(ctx, key)
	}
	return fmt.Sprintf("%s/styles/%s/%s", s.BaseURL, style, key), nil
}
