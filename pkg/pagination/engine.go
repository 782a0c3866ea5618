package pagination

import (
	"context"
	"fmt"
	"slices"
)

// Paginate computes one page of src.
//
// The bound is applied exclusively and limit+1 rows are fetched scanning away
// from it; the extra row, if present, proves a further page exists in the scan
// direction and is dropped. The opposite direction is decided from the
// extremal keys. Rows are always returned in p.Order.
func Paginate[T any](ctx context.Context, src Source[T], p Params) (*Page[T], error) {
	if p.Limit < 1 {
		return nil, invalid(ErrInvalidLimit, "limit must be positive, got %d", p.Limit)
	}
	if p.Order != Ascending && p.Order != Descending {
		return nil, invalid(ErrInvalidOrder, "unknown order %d", p.Order)
	}

	desc := p.Order == Descending
	w := Window{Descending: desc, Limit: p.Limit + 1}
	if key, ok := p.Cursor.Key(); ok {
		// before walks against the presentation order, after walks with it
		below := p.Cursor.IsBefore() != desc
		w.Bound = &Bound{Key: key, Below: below}
		w.Descending = below
	}

	rows, err := src.Window(ctx, w)
	if err != nil {
		return nil, fmt.Errorf("window query: %w", err)
	}

	more := len(rows) > p.Limit
	if more {
		rows = rows[:p.Limit]
	}
	if w.Descending != desc {
		slices.Reverse(rows)
	}

	ext, err := src.Extremes(ctx)
	if err != nil {
		return nil, fmt.Errorf("extremal lookup: %w", err)
	}

	page := &Page[T]{Rows: rows}
	if page.Rows == nil {
		page.Rows = []T{}
	}
	if len(rows) == 0 {
		return page, nil
	}

	first, last := src.Key(rows[0]), src.Key(rows[len(rows)-1])
	o := orderer{desc: desc}

	var hasPrev, hasNext bool
	if p.Cursor.IsBefore() {
		hasPrev = more
		hasNext = !ext.empty() && o.ahead(last, o.tail(ext))
	} else {
		hasNext = more
		hasPrev = !ext.empty() && o.ahead(o.head(ext), first)
	}

	if hasNext {
		page.Links.Next = After(last)
	}
	if hasPrev {
		page.Links.Prev = Before(first)
	}

	if !ext.empty() {
		if head := o.head(ext); head != first {
			page.Links.First = After(o.step(head, -1))
		}
		if tail := o.tail(ext); tail != last {
			page.Links.Last = Before(o.step(tail, 1))
		}
	}

	return page, nil
}

// orderer compares keys in presentation order
type orderer struct {
	desc bool
}

// ahead reports whether a is presented before b
func (o orderer) ahead(a, b int64) bool {
	if o.desc {
		return a > b
	}
	return a < b
}

func (o orderer) head(e Extremes) int64 {
	if o.desc {
		return *e.Max
	}
	return *e.Min
}

func (o orderer) tail(e Extremes) int64 {
	if o.desc {
		return *e.Min
	}
	return *e.Max
}

// step moves key n positions along the presentation order
func (o orderer) step(key int64, n int64) int64 {
	if o.desc {
		return key - n
	}
	return key + n
}
