package ratelimit

import (
	"strings"
)

// MatchEndpoint matches a request path and method to an endpoint
// configuration. Exact matches win over suffix matches, which win over
// prefix matches. Returns nil when nothing matches, so the caller falls back
// to the default limit.
func MatchEndpoint(path string, method string, configs []EndpointConfig) *EndpointConfig {
	// Health check endpoint is unlimited.
	if path == "/health" && method == "GET" {
		return &EndpointConfig{Limit: 0}
	}

	for i := range configs {
		config := &configs[i]
		if config.Path == path && config.Method == method {
			return config
		}
	}

	// Suffix match: "*/evaluate-fit" matches any path ending in
	// "/evaluate-fit", which is how the user-scoped AI routes are pinned
	// without enumerating every {user_id}/{id} combination.
	for i := range configs {
		config := &configs[i]
		if config.Method == method && strings.HasPrefix(config.Path, "*") {
			if strings.HasSuffix(path, strings.TrimPrefix(config.Path, "*")) {
				return config
			}
		}
	}

	// Prefix match for paths ending with "/".
	for i := range configs {
		config := &configs[i]
		if config.Method == method && strings.HasSuffix(config.Path, "/") {
			if strings.HasPrefix(path, config.Path) {
				return config
			}
		}
	}

	return nil
}
