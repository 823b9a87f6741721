package bookmarks

import (
	"context"
	"time"
)

// Link is a video URL found by a provider, not yet saved as a page
type Link struct {
	URL       string    `json:"url"`
	Title     string    `json:"title"`
	Tags      []string  `json:"tags"`
	Source    string    `json:"source"` // Which provider this came from
	Timestamp time.Time `json:"timestamp"`
}

// Provider defines the interface for link sources the importer reads
type Provider interface {
	// Name returns the unique name of this provider
	Name() string

	// GetLinks retrieves links from this provider
	GetLinks(ctx context.Context) ([]Link, error)

	// IsEnabled returns whether this provider is currently enabled
	IsEnabled() bool

	// Configure allows the provider to be configured with settings
	Configure(config map[string]interface{}) error
}

// ProviderConfig holds configuration for a provider
type ProviderConfig struct {
	Name     string                 `json:"name"`
	Enabled  bool                   `json:"enabled"`
	Settings map[string]interface{} `json:"settings"`
}
