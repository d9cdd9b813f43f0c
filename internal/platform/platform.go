// Package platform answers the questions the adapter asks about the runtime it
// runs in: whether it is a standard browser, what the page origin is, and which
// cookies the page can see.
package platform

import (
	"net/url"
	"regexp"
	"strings"
)

// ParseCookie extracts the value of the named cookie from a document.cookie
// style string ("a=1; b=2"). Values are URL-decoded.
func ParseCookie(cookies, name string) (string, bool) {
	if name == "" || cookies == "" {
		return "", false
	}
	re := regexp.MustCompile(`(^|;\s*)` + regexp.QuoteMeta(name) + `=([^;]*)`)
	m := re.FindStringSubmatch(cookies)
	if m == nil {
		return "", false
	}
	value, err := url.PathUnescape(m[2])
	if err != nil {
		value = m[2]
	}
	return value, true
}

// SameOrigin returns a checker reporting whether a request URL targets origin.
// Relative URLs are always same-origin. An empty origin matches only relative URLs.
func SameOrigin(origin string) func(rawURL string) bool {
	base, err := url.Parse(origin)
	if err != nil || base.Host == "" {
		base = nil
	}

	return func(rawURL string) bool {
		u, err := url.Parse(rawURL)
		if err != nil {
			return false
		}
		if u.Host == "" {
			return true
		}
		if base == nil {
			return false
		}
		return strings.EqualFold(u.Scheme, base.Scheme) && strings.EqualFold(hostPort(u), hostPort(base))
	}
}

func hostPort(u *url.URL) string {
	if u.Port() != "" {
		return u.Host
	}
	switch strings.ToLower(u.Scheme) {
	case "http":
		return u.Hostname() + ":80"
	case "https":
		return u.Hostname() + ":443"
	}
	return u.Host
}
