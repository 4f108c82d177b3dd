package ratelimit

import (
	"net/http"
	"path"
	"strings"
)

// MatchEndpoint returns the configuration that applies to a request, or nil.
// Exact paths win over wildcard patterns, which win over prefixes.
func MatchEndpoint(reqPath string, method string, configs []EndpointConfig) *EndpointConfig {
	if reqPath == "/health" && method == http.MethodGet {
		return &EndpointConfig{Path: reqPath}
	}

	for i := range configs {
		if configs[i].Method == method && configs[i].Path == reqPath {
			return &configs[i]
		}
	}

	for i := range configs {
		cfg := &configs[i]
		if cfg.Method != method || !strings.Contains(cfg.Path, "*") {
			continue
		}
		if ok, err := path.Match(cfg.Path, reqPath); err == nil && ok {
			return cfg
		}
	}

	for i := range configs {
		cfg := &configs[i]
		if cfg.Method == method && strings.HasSuffix(cfg.Path, "/") && strings.HasPrefix(reqPath, cfg.Path) {
			return cfg
		}
	}
	return nil
}
