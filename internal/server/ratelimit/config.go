package ratelimit

import (
	"net/http"
	"time"
)

// EndpointConfig allows Limit requests per Window on one route pattern, with
// Burst defaulting to Limit. Path supports exact matches, prefix matches for
// patterns ending in "/" and path.Match wildcards such as "/resumes/*/adapt".
type EndpointConfig struct {
	Path   string
	Method string
	Limit  int
	Window time.Duration
	Burst  int
}

// Config holds rate limiting configuration. Requests that match no endpoint
// fall back to DefaultLimit; a DefaultLimit of 0 leaves them unlimited.
type Config struct {
	Enabled         bool
	DefaultLimit    int
	DefaultWindow   time.Duration
	CleanupInterval time.Duration
	EndpointConfigs []EndpointConfig
}

// EnrichmentConfig limits the adapt and enhance endpoints to limit calls per
// window for each identity and leaves every other route unlimited.
func EnrichmentConfig(enabled bool, limit int, window time.Duration, burst int) *Config {
	return &Config{
		Enabled:         enabled,
		CleanupInterval: 5 * time.Minute,
		EndpointConfigs: []EndpointConfig{
			{Path: "/resumes/*/adapt", Method: http.MethodPost, Limit: limit, Window: window, Burst: burst},
			{Path: "/resumes/*/enhance", Method: http.MethodPost, Limit: limit, Window: window, Burst: burst},
		},
	}
}
