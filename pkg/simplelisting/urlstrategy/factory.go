package urlstrategy

import (
	"fmt"
)

// URLStrategyType represents the type of URL strategy
type URLStrategyType string

const (
	// Static-prefix strategy for application-served files
	StrategyTypeStatic URLStrategyType = "static"

	// CDN strategy for direct CDN URLs with transform parameters
	StrategyTypeCDN URLStrategyType = "cdn"
)

// Config holds configuration for URL strategy creation
type Config struct {
	Type       URLStrategyType
	BaseURL    string // For static strategy
	CDNBaseURL string // For CDN strategy
	StyleParam string // Optional transform parameter for CDN strategy
}

// NewURLStrategy creates a URL strategy based on the configuration
func NewURLStrategy(config Config) (URLStrategy, error) {
	switch config.Type {
	case StrategyTypeStatic:
		if config.BaseURL == "" {
			return nil, fmt.Errorf("base URL is required for static strategy")
		}
		return NewStaticPrefixStrategy(config.BaseURL), nil

	case StrategyTypeCDN:
		if config.CDNBaseURL == "" {
			return nil, fmt.Errorf("CDN base URL is required for CDN strategy")
		}
		if config.StyleParam != "" {
			return NewCDNStrategyWithStyleParam(config.CDNBaseURL, config.StyleParam), nil
		}
		return NewCDNStrategy(config.CDNBaseURL), nil

	default:
		return nil, fmt.Errorf("unknown URL strategy type: %s", config.Type)
	}
}

// NewDefaultStrategy creates a sensible default URL strategy
// Uses the static-prefix strategy rooted at /files for development/testing
func NewDefaultStrategy(baseURL string) URLStrategy {
	if baseURL == "" {
		baseURL = "/files"
	}
	return NewStaticPrefixStrategy(baseURL)
}

// NewRecommendedStrategy creates the recommended URL strategy based on
// environment
func NewRecommendedStrategy(environment string, cdnURL string, baseURL string) URLStrategy {
	switch environment {
	case "production":
		if cdnURL != "" {
			// Production with CDN - maximum performance
			return NewCDNStrategy(cdnURL)
		}
		fallthrough
	default:
		// Development and staging - serve through the application for
		// easier debugging
		return NewDefaultStrategy(baseURL)
	}
}
