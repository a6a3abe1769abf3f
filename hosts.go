package dune

import (
	"net"
	"strings"
)

// hostAllowed checks the request host against the configured allow
// patterns. The incoming host is lower-cased and stripped of its port;
// patterns are compared as configured, so they should be lower-case.
//
// A pattern is either an exact hostname, "*" for everything, or a
// single leading wildcard label like "*.example.com". The wildcard only
// matches hosts with a non-empty subdomain: "tenant.example.com" does,
// "example.com" itself does not.
func hostAllowed(host string, patterns []string) bool {
	if len(patterns) == 0 {
		return true
	}

	host = strings.ToLower(stripPort(host))

	for _, pattern := range patterns {
		if pattern == "*" || pattern == host {
			return true
		}
		if strings.HasPrefix(pattern, "*.") {
			suffix := pattern[1:]
			if strings.HasSuffix(host, suffix) && len(host) > len(suffix) {
				return true
			}
		}
	}
	return false
}

func stripPort(host string) string {
	if h, _, err := net.SplitHostPort(host); err == nil {
		return h
	}
	return host
}
