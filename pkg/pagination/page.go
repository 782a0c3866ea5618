package pagination

import (
	"net/url"
	"strings"
)

// Page is one slice of a paginated set plus its navigation cursors
type Page[T any] struct {
	Rows  []T
	Links Links
}

// Links holds the navigation cursors of a page. A None cursor means the link
// would be a no-op and is omitted.
type Links struct {
	First Cursor
	Last  Cursor
	Next  Cursor
	Prev  Cursor
}

// MapRows converts the rows of p with fn, keeping the links
func MapRows[T, U any](p *Page[T], fn func(T) U) *Page[U] {
	out := &Page[U]{Rows: make([]U, len(p.Rows)), Links: p.Links}
	for i, row := range p.Rows {
		out.Rows[i] = fn(row)
	}
	return out
}

// Empty is a page with no rows and no links
func Empty[T any]() *Page[T] {
	return &Page[T]{Rows: []T{}}
}

type rel struct {
	name   string
	cursor Cursor
}

func (l Links) rels() []rel {
	return []rel{
		{"first", l.First},
		{"prev", l.Prev},
		{"next", l.Next},
		{"last", l.Last},
	}
}

// Present lists the relation names that carry a cursor, in header order
func (l Links) Present() []string {
	out := make([]string, 0, 4)
	for _, r := range l.rels() {
		if !r.cursor.IsNone() {
			out = append(out, r.name)
		}
	}
	return out
}

// URLs renders every present link against base. Filters, limit and order in
// base's query survive; only the cursor is replaced.
func (l Links) URLs(base *url.URL) map[string]string {
	out := make(map[string]string, 4)
	for _, r := range l.rels() {
		if r.cursor.IsNone() {
			continue
		}
		out[r.name] = withCursor(base, r.cursor)
	}
	return out
}

// Header renders the links as an RFC 8288 Link header value.
// Empty when no link is present.
func (l Links) Header(base *url.URL) string {
	parts := make([]string, 0, 4)
	for _, r := range l.rels() {
		if r.cursor.IsNone() {
			continue
		}
		parts = append(parts, "<"+withCursor(base, r.cursor)+`>; rel=`+r.name)
	}
	return strings.Join(parts, ",")
}

func withCursor(base *url.URL, c Cursor) string {
	u := *base
	q := u.Query()
	c.Apply(q)
	u.RawQuery = q.Encode()
	return u.String()
}
