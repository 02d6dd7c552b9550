package imgcrawl

import (
	"net/url"
	"strings"
)

// NormalizeURL returns the normalized form of an absolute http(s) URL.
// Two URLs refer to the same resource iff their normalized forms are equal:
// the fragment is dropped, scheme and host are lowercased and an empty path
// becomes "/". The query string is preserved.
func NormalizeURL(rawURL string) (string, error) {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil {
		return "", Errorf(EINVALID, "invalid URL %q: %v", rawURL, err)
	}
	return normalize(u)
}

// ResolveURL joins a possibly relative href against base and returns the
// normalized absolute URL. It returns an EINVALID error if href is blank,
// cannot be parsed, or does not resolve to an http(s) URL.
func ResolveURL(base, href string) (string, error) {
	href = strings.TrimSpace(href)
	if href == "" {
		return "", Errorf(EINVALID, "empty link")
	}

	b, err := url.Parse(base)
	if err != nil {
		return "", Errorf(EINVALID, "invalid base URL %q: %v", base, err)
	}
	ref, err := url.Parse(href)
	if err != nil {
		return "", Errorf(EINVALID, "invalid link %q: %v", href, err)
	}

	return normalize(b.ResolveReference(ref))
}

// SameOrigin reports whether candidate belongs to the same site as base.
// A candidate without an explicit host (a relative link) is always
// same-origin. Hosts are compared case-insensitively including the port;
// the scheme is not compared.
func SameOrigin(base, candidate string) bool {
	c, err := url.Parse(strings.TrimSpace(candidate))
	if err != nil {
		return false
	}
	if c.Host == "" {
		return true
	}
	b, err := url.Parse(base)
	if err != nil {
		return false
	}
	return strings.EqualFold(c.Host, b.Host)
}

func normalize(u *url.URL) (string, error) {
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", Errorf(EINVALID, "unsupported scheme in %q", u.String())
	}
	if u.Host == "" {
		return "", Errorf(EINVALID, "missing host in %q", u.String())
	}

	n := *u
	n.Host = strings.ToLower(n.Host)
	n.Fragment = ""
	n.RawFragment = ""
	n.User = nil
	if n.Path == "" {
		n.Path = "/"
		n.RawPath = ""
	}
	return n.String(), nil
}
