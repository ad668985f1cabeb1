package outcome

import (
	"net/url"
	"strconv"
	"strings"
)

// Link is one entry of an RFC 5988 Link header.
type Link struct {
	URL string
	Rel string
}

// FormatLinks renders links as a single Link header value:
//
//	<https://api.example.com/games?page=2>; rel="next", <...>; rel="last"
func FormatLinks(links []Link) string {
	if len(links) == 0 {
		return ""
	}
	var b strings.Builder
	for i, l := range links {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteByte('<')
		b.WriteString(l.URL)
		b.WriteString(">; rel=\"")
		b.WriteString(l.Rel)
		b.WriteByte('"')
	}
	return b.String()
}

// ParseLinks parses a Link header value. Entries without a URL are skipped.
func ParseLinks(header string) []Link {
	var links []Link
	for _, part := range splitLinkValues(header) {
		part = strings.TrimSpace(part)
		start := strings.IndexByte(part, '<')
		end := strings.IndexByte(part, '>')
		if start != 0 || end < 0 {
			continue
		}
		l := Link{URL: part[1:end]}
		for _, param := range strings.Split(part[end+1:], ";") {
			key, val, ok := strings.Cut(strings.TrimSpace(param), "=")
			if !ok || !strings.EqualFold(strings.TrimSpace(key), "rel") {
				continue
			}
			l.Rel = strings.Trim(strings.TrimSpace(val), `"`)
		}
		links = append(links, l)
	}
	return links
}

// splitLinkValues splits on commas that are outside <...> URLs.
func splitLinkValues(s string) []string {
	var parts []string
	depth, last := 0, 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '<':
			depth++
		case '>':
			if depth > 0 {
				depth--
			}
		case ',':
			if depth == 0 {
				parts = append(parts, s[last:i])
				last = i + 1
			}
		}
	}
	if last < len(s) {
		parts = append(parts, s[last:])
	}
	return parts
}

// Pagination describes one page of a listed collection.
// Page numbers start at 1.
type Pagination struct {
	Page  int
	Size  int
	Total int
}

// HeaderField is a single header name and value.
type HeaderField struct {
	Name  string
	Value string
}

// Headers returns X-Total-Count, X-Page-Number, and X-Page-Size.
// Page fields are omitted when they are not positive.
func (p Pagination) Headers() []HeaderField {
	h := []HeaderField{{Name: "X-Total-Count", Value: strconv.Itoa(p.Total)}}
	if p.Page > 0 {
		h = append(h, HeaderField{Name: "X-Page-Number", Value: strconv.Itoa(p.Page)})
	}
	if p.Size > 0 {
		h = append(h, HeaderField{Name: "X-Page-Size", Value: strconv.Itoa(p.Size)})
	}
	return h
}

// LastPage returns the number of the last page, at least 1.
func (p Pagination) LastPage() int {
	if p.Size <= 0 || p.Total <= 0 {
		return 1
	}
	return (p.Total + p.Size - 1) / p.Size
}

// Bounds returns the slice bounds of the page within a collection of n
// items. Pages past the end yield an empty range at n, however large Page is.
func (p Pagination) Bounds(n int) (start, end int) {
	page := max(p.Page, 1)
	if n <= 0 || p.Size <= 0 || page-1 > (n-1)/p.Size {
		return n, n
	}
	start = (page - 1) * p.Size
	return start, start + min(p.Size, n-start)
}

// Links returns first, prev, next, and last links relative to base.
// The page and size query parameters of base are replaced; other query
// parameters are kept. prev and next are omitted at the edges.
func (p Pagination) Links(base *url.URL) []Link {
	if base == nil || p.Size <= 0 {
		return nil
	}
	last := p.LastPage()
	page := p.Page
	if page < 1 {
		page = 1
	}
	at := func(n int) string {
		u := *base
		q := u.Query()
		q.Set("page", strconv.Itoa(n))
		q.Set("size", strconv.Itoa(p.Size))
		u.RawQuery = q.Encode()
		return u.String()
	}
	links := []Link{{URL: at(1), Rel: "first"}}
	if page > 1 {
		links = append(links, Link{URL: at(min(page-1, last)), Rel: "prev"})
	}
	if page < last {
		links = append(links, Link{URL: at(page + 1), Rel: "next"})
	}
	links = append(links, Link{URL: at(last), Rel: "last"})
	return links
}
