package resolver

import (
	"net/url"
	"strings"
)

// componentUnescaper undoes QueryEscape for the characters encodeURIComponent
// leaves alone, and writes spaces as %20 rather than +.
var componentUnescaper = strings.NewReplacer(
	"+", "%20",
	"%21", "!",
	"%27", "'",
	"%28", "(",
	"%29", ")",
	"%2A", "*",
)

// EncodeComponent percent-encodes s the way browsers' encodeURIComponent does.
func EncodeComponent(s string) string {
	return componentUnescaper.Replace(url.QueryEscape(s))
}

// SplitURL splits raw into its origin (scheme and host, port included) and the
// remaining path and query. Userinfo and fragments are dropped. A value
// without a scheme is treated as an https host.
func SplitURL(raw string) (origin, rest string) {
	scheme := "https://"
	hostAndRest := raw
	if i := strings.Index(raw, "://"); i >= 0 {
		scheme = raw[:i+3]
		hostAndRest = raw[i+3:]
	}

	j := strings.IndexAny(hostAndRest, "/?#")
	if j < 0 {
		j = len(hostAndRest)
	}

	host := hostAndRest[:j]
	if at := strings.LastIndexByte(host, '@'); at >= 0 {
		host = host[at+1:]
	}
	origin = scheme + host
	rest = hostAndRest[j:]
	if k := strings.IndexByte(rest, '#'); k >= 0 {
		rest = rest[:k]
	}
	return origin, rest
}

// FormatSearchURL substitutes the encoded search text into template and appends
// it to the origin of base. Without a template, base is returned unchanged.
func FormatSearchURL(base, template, search string) string {
	if template == "" {
		return base
	}
	origin, _ := SplitURL(base)
	return origin + strings.ReplaceAll(template, Placeholder, EncodeComponent(search))
}
