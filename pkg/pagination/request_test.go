package pagination

import (
	"errors"
	"net/url"
	"testing"

	"github.com/Payphone-Digital/demonlist/internal/constants"
)

func ptr[T any](v T) *T { return &v }

func TestNewCursor(t *testing.T) {
	tests := []struct {
		name     string
		before   *int64
		after    *int64
		wantKind CursorKind
		wantKey  int64
		wantErr  error
	}{
		{"none", nil, nil, CursorNone, 0, nil},
		{"before", ptr[int64](7), nil, CursorBefore, 7, nil},
		{"after", nil, ptr[int64](3), CursorAfter, 3, nil},
		{"after zero", nil, ptr[int64](0), CursorAfter, 0, nil},
		{"both", ptr[int64](7), ptr[int64](3), CursorNone, 0, ErrAmbiguousCursor},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := NewCursor(tt.before, tt.after)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Expected error %v, got %v", tt.wantErr, err)
			}
			if c.Kind() != tt.wantKind {
				t.Errorf("Expected kind %s, got %s", tt.wantKind, c.Kind())
			}
			if key, _ := c.Key(); key != tt.wantKey {
				t.Errorf("Expected key %d, got %d", tt.wantKey, key)
			}
		})
	}
}

func TestCursor_Apply(t *testing.T) {
	q := url.Values{"status": {"approved"}, "before": {"4"}, "limit": {"2"}}
	After(10).Apply(q)

	if got := q.Get("after"); got != "10" {
		t.Errorf("Expected after=10, got %q", got)
	}
	if q.Has("before") {
		t.Error("Expected before to be removed")
	}
	if q.Get("status") != "approved" || q.Get("limit") != "2" {
		t.Errorf("Expected other parameters to survive, got %v", q)
	}

	None().Apply(q)
	if q.Has("after") || q.Has("before") {
		t.Errorf("Expected None to clear cursors, got %v", q)
	}
}

func TestLimits_Resolve(t *testing.T) {
	limits := Limits{Default: 50, Max: 100}

	tests := []struct {
		name    string
		raw     *int
		want    int
		wantErr bool
	}{
		{"unset uses default", nil, 50, false},
		{"lower bound", ptr(1), 1, false},
		{"upper bound", ptr(100), 100, false},
		{"zero", ptr(0), 0, true},
		{"negative", ptr(-1), 0, true},
		{"above max", ptr(101), 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := limits.Resolve(tt.raw)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidLimit) {
					t.Errorf("Expected ErrInvalidLimit, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Expected no error, got %v", err)
			}
			if got != tt.want {
				t.Errorf("Expected %d, got %d", tt.want, got)
			}
		})
	}
}

func TestRequest_Params(t *testing.T) {
	p, err := Request{After: ptr[int64](5), Limit: ptr(10), Order: "desc"}.Params(DefaultLimits())
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if p.Cursor != After(5) || p.Limit != 10 || p.Order != Descending {
		t.Errorf("Unexpected params %+v", p)
	}

	if _, err := (Request{Before: ptr[int64](1), After: ptr[int64](2)}).Params(DefaultLimits()); !errors.Is(err, ErrAmbiguousCursor) {
		t.Errorf("Expected ErrAmbiguousCursor, got %v", err)
	}
	if _, err := (Request{Order: "sideways"}).Params(DefaultLimits()); !errors.Is(err, ErrInvalidOrder) {
		t.Errorf("Expected ErrInvalidOrder, got %v", err)
	}
	if _, err := (Request{Limit: ptr(0)}).Params(DefaultLimits()); !errors.Is(err, ErrInvalidLimit) {
		t.Errorf("Expected ErrInvalidLimit, got %v", err)
	}
}

func TestLinks_Header(t *testing.T) {
	base, _ := url.Parse("https://example.com/api/v1/records/?status=approved&after=2&limit=2")
	links := Links{First: After(0), Prev: Before(5), Next: After(8), Last: Before(10)}

	want := `<https://example.com/api/v1/records/?after=0&limit=2&status=approved>; rel=first,` +
		`<https://example.com/api/v1/records/?before=5&limit=2&status=approved>; rel=prev,` +
		`<https://example.com/api/v1/records/?after=8&limit=2&status=approved>; rel=next,` +
		`<https://example.com/api/v1/records/?before=10&limit=2&status=approved>; rel=last`
	if got := links.Header(base); got != want {
		t.Errorf("Unexpected Link header\n got: %s\nwant: %s", got, want)
	}

	if got := (Links{}).Header(base); got != "" {
		t.Errorf("Expected empty header, got %q", got)
	}

	urls := (Links{Next: After(8)}).URLs(base)
	if len(urls) != 1 || urls["next"] != "https://example.com/api/v1/records/?after=8&limit=2&status=approved" {
		t.Errorf("Unexpected URLs %v", urls)
	}
}

func TestLinks_Present(t *testing.T) {
	got := (Links{Next: After(8), First: After(0)}).Present()
	if len(got) != 2 || got[0] != "first" || got[1] != "next" {
		t.Errorf("Expected [first next], got %v", got)
	}
	if got := (Links{}).Present(); len(got) != 0 {
		t.Errorf("Expected no relations, got %v", got)
	}
}

func TestMapRows(t *testing.T) {
	in := &Page[int64]{Rows: []int64{1, 2}, Links: Links{Next: After(2)}}
	out := MapRows(in, func(k int64) string { return string(rune('a' + k - 1)) })

	if len(out.Rows) != 2 || out.Rows[0] != "a" || out.Rows[1] != "b" {
		t.Errorf("Expected [a b], got %v", out.Rows)
	}
	if out.Links != in.Links {
		t.Errorf("Expected links to be kept, got %+v", out.Links)
	}

	empty := Empty[string]()
	if empty.Rows == nil || len(empty.Rows) != 0 || len(empty.Links.Present()) != 0 {
		t.Errorf("Expected an empty non-nil page, got %+v", empty)
	}
}

func TestQueryVocabulary(t *testing.T) {
	if Ascending.String() != constants.OrderAsc || Descending.String() != constants.OrderDesc {
		t.Errorf("Expected %s/%s, got %s/%s", constants.OrderAsc, constants.OrderDesc, Ascending, Descending)
	}
	if o, err := ParseOrder(constants.OrderDesc); err != nil || o != Descending {
		t.Errorf("Expected Descending, got %v (%v)", o, err)
	}

	l := DefaultLimits()
	if l.Default != constants.DefaultLimit || l.Max != constants.MaxLimit {
		t.Errorf("Expected limits %d/%d, got %d/%d", constants.DefaultLimit, constants.MaxLimit, l.Default, l.Max)
	}
	if _, err := l.Resolve(ptr(constants.MinLimit - 1)); !errors.Is(err, ErrInvalidLimit) {
		t.Errorf("Expected ErrInvalidLimit below %d, got %v", constants.MinLimit, err)
	}

	q := url.Values{}
	After(3).Apply(q)
	if q.Get(constants.QueryParamAfter) != "3" || q.Has(constants.QueryParamBefore) {
		t.Errorf("Expected %s=3 only, got %v", constants.QueryParamAfter, q)
	}
}
