package crawler

import (
	"net/url"
	"strings"
)

// AllowURL reports whether a candidate URL is in scope for the crawl.
// The candidate is expected to be canonical (see CanonicalizeURL); rules are
// applied in order and the first failing rule rejects:
//
//  1. must parse to an absolute HTTP/HTTPS URL
//  2. host must equal the allowed domain (exact match, no subdomains)
//  3. a matching disallowed path prefix rejects
//  4. when allowed path prefixes are configured, one of them must match
func AllowURL(candidate string, limits Limits) bool {
	u, err := url.Parse(candidate)
	if err != nil {
		return false
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return false
	}
	if !strings.EqualFold(u.Hostname(), limits.AllowedDomain) {
		return false
	}

	path := u.Path
	if path == "" {
		path = "/"
	}

	for _, prefix := range limits.DisallowedPathPrefixes {
		if prefix != "" && pathHasPrefix(path, prefix) {
			return false
		}
	}

	if len(limits.AllowedPathPrefixes) > 0 {
		for _, prefix := range limits.AllowedPathPrefixes {
			if prefix != "" && pathHasPrefix(path, prefix) {
				return true
			}
		}
		return false
	}

	return true
}

// pathHasPrefix matches a configured path prefix against a canonical path.
// Canonical paths drop their trailing slash, so "/docs" still matches a
// configured prefix of "/docs/".
func pathHasPrefix(path, prefix string) bool {
	if strings.HasPrefix(path, prefix) {
		return true
	}
	return strings.HasPrefix(path+"/", prefix)
}
