package urlutil

import (
	"fmt"
	"net/url"
	"strings"
)

// Normalizes a URL path for canonical comparison: an empty path becomes "/",
// and exactly one trailing slash is stripped unless the path is the root.
func NormalizePath(p string) string {
	if p == "" {
		return "/"
	}
	if p != "/" && strings.HasSuffix(p, "/") {
		return strings.TrimSuffix(p, "/")
	}
	return p
}

// Resolves a possibly-relative reference against an absolute base URL and
// returns the absolute form.
func Resolve(base, ref string) (string, error) {
	baseURL, err := url.Parse(base)
	if err != nil {
		return "", fmt.Errorf("invalid base URL %v: %v", base, err)
	}
	refURL, err := url.Parse(ref)
	if err != nil {
		return "", fmt.Errorf("invalid reference %v: %v", ref, err)
	}
	return baseURL.ResolveReference(refURL).String(), nil
}

// Extracts the host component (including any port) from a URL string.
// Returns "" when the URL cannot be parsed or has no host.
func Host(raw string) string {
	parsed, err := url.Parse(raw)
	if err != nil {
		return ""
	}
	return parsed.Host
}
