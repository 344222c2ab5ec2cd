package urlstrategy

import (
	"context"
	"fmt"
	"net/url"
	"strings"
)

// CDNStrategy generates URLs that point directly at a CDN. Styled
// renditions are requested through a transform query parameter, the way
// image CDNs expose named presets.
type CDNStrategy struct {
	CDNBaseURL string // e.g., "https://cdn.example.org"
	StyleParam string // query parameter carrying the style name
}

// NewCDNStrategy creates a new CDN URL strategy
func NewCDNStrategy(cdnBaseURL string) *CDNStrategy {
	// Ensure cdnBaseURL doesn't have trailing slash
	cdnBaseURL = strings.TrimSuffix(cdnBaseURL, "/")
	return &CDNStrategy{
		CDNBaseURL: cdnBaseURL,
		StyleParam: "style",
	}
}

// NewCDNStrategyWithStyleParam creates a CDN URL strategy with a custom
// transform parameter name
func NewCDNStrategyWithStyleParam(cdnBaseURL, styleParam string) *CDNStrategy {
	strategy := NewCDNStrategy(cdnBaseURL)
	if styleParam != "" {
		strategy.StyleParam = styleParam
	}
	return strategy
}

// FileURL creates a direct CDN URL for the original file
func (s *CDNStrategy) FileURL(ctx context.Context, key string) (string, error) {
	if s.CDNBaseURL == "" {
		return "", fmt.Errorf("CDN base URL not configured")
	}
	return fmt.Sprintf("%s/%s", s.CDNBaseURL, key), nil
}

// StyledFileURL creates a CDN URL requesting the named transform
func (s *CDNStrategy) StyledFileURL(ctx context.Context, key string, style string) (string, error) {
	baseURL, err := s.FileURL(ctx, key)
	if err != nil {
		return "", err
	}
	if style == "" {
		return baseURL, nil
	}
	return fmt.Sprintf("%s?%s=%s", baseURL, s.StyleParam, url.QueryEscape(style)), nil
}
