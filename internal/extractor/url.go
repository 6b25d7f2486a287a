package extractor

import (
	"net/url"
	"strings"
)

// StripWWW lowercases a hostname and removes a single leading "www.".
func StripWWW(host string) string {
	return strings.TrimPrefix(strings.ToLower(host), "www.")
}

// NormalizeStart canonicalizes a user-supplied start value into an
// absolute URL. Bare hosts get an https scheme; fragments are stripped;
// the query is kept because some sites route on it.
func NormalizeStart(value string) (string, bool) {
	raw := strings.TrimSpace(value)
	if raw == "" {
		return "", false
	}
	lower := strings.ToLower(raw)
	if !strings.HasPrefix(lower, "http://") && !strings.HasPrefix(lower, "https://") {
		raw = "https://" + raw
	}
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return "", false
	}
	u.Fragment = ""
	return u.String(), true
}

// HomepageVariants yields the forms of a homepage to try in order: the
// exact input, the origin root, then the root with www toggled, with
// the scheme toggled, and with both toggled. Duplicates are removed
// preserving order.
func HomepageVariants(rawURL string) []string {
	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" {
		return []string{rawURL}
	}

	root := func(scheme, host string) string {
		return scheme + "://" + host + "/"
	}
	toggleWWW := func(host string) string {
		if strings.HasPrefix(strings.ToLower(host), "www.") {
			return host[len("www."):]
		}
		return "www." + host
	}
	toggleScheme := func(scheme string) string {
		if scheme == "https" {
			return "http"
		}
		return "https"
	}

	scheme := u.Scheme
	if scheme == "" {
		scheme = "https"
	}
	host := u.Host

	variants := []string{
		rawURL,
		root(scheme, host),
		root(scheme, toggleWWW(host)),
		root(toggleScheme(scheme), host),
		root(toggleScheme(scheme), toggleWWW(host)),
	}

	seen := make(map[string]struct{}, len(variants))
	out := make([]string, 0, len(variants))
	for _, v := range variants {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}

// SameSite reports whether rawURL's host equals rootDomain or is a
// subdomain of it, ignoring a leading "www." on either side.
func SameSite(rawURL, rootDomain string) bool {
	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" {
		return false
	}
	host := StripWWW(u.Hostname())
	root := StripWWW(rootDomain)
	if root == "" {
		return false
	}
	return host == root || strings.HasSuffix(host, "."+root)
}

func normKeyPart(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
