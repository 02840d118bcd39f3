package httpmetrics

import "strings"

// UnmatchedRoute labels every path the auth API does not serve.
const UnmatchedRoute = "unmatched"

var knownRoutes = map[string]struct{}{
	"/register": {},
	"/login":    {},
	"/health":   {},
	"/metrics":  {},
}

// NormalizePath maps a raw request path onto a bounded label set: one of the
// served routes (trailing slash ignored), "/" for the root, or UnmatchedRoute.
func NormalizePath(path string) string {
	trimmed := strings.TrimRight(path, "/")
	if trimmed == "" {
		return "/"
	}
	if _, ok := knownRoutes[trimmed]; ok {
		return trimmed
	}
	return UnmatchedRoute
}
