package http

import (
	"strings"
)

// Link is one entry of an RFC 8288 Link header.
type Link struct {
	URI    string
	Rel    string
	Params map[string]string
}

// ParseLinkHeader parses a Link header value such as
// `<https://example.com/a>; rel="next", <https://example.com/b>; rel="prev"`.
// Malformed entries are skipped.
func ParseLinkHeader(header string) []Link {
	var links []Link

	for _, part := range splitLinks(header) {
		part = strings.TrimSpace(part)
		if !strings.HasPrefix(part, "<") {
			continue
		}

		end := strings.Index(part, ">")
		if end < 0 {
			continue
		}

		link := Link{URI: part[1:end], Params: map[string]string{}}

		for _, param := range strings.Split(part[end+1:], ";") {
			key, value, ok := strings.Cut(strings.TrimSpace(param), "=")
			if !ok {
				continue
			}

			key = strings.ToLower(strings.TrimSpace(key))
			value = strings.Trim(strings.TrimSpace(value), `"`)
			link.Params[key] = value

			if key == "rel" {
				link.Rel = value
			}
		}

		links = append(links, link)
	}

	return links
}

// FindLink returns the URI of the first link with relation rel.
func FindLink(links []Link, rel string) (string, bool) {
	for _, link := range links {
		if link.Rel == rel {
			return link.URI, true
		}
	}

	return "", false
}

// splitLinks splits on commas outside of <...> and quoted strings.
func splitLinks(header string) []string {
	var (
		parts   []string
		start   int
		inURI   bool
		inQuote bool
	)

	for i, r := range header {
		switch {
		case r == '<' && !inQuote:
			inURI = true
		case r == '>' && !inQuote:
			inURI = false
		case r == '"' && !inURI:
			inQuote = !inQuote
		case r == ',' && !inURI && !inQuote:
			parts = append(parts, header[start:i])
			start = i + 1
		}
	}

	return append(parts, header[start:])
}
