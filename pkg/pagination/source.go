package pagination

import "context"

// Bound is an exclusive key bound. Below selects key < Key, otherwise key > Key.
type Bound struct {
	Key   int64
	Below bool
}

// Window describes one bounded range query over the filtered set
type Window struct {
	Bound      *Bound
	Descending bool
	Limit      int
}

// Extremes is the smallest and largest key satisfying the filter.
// Both are nil when nothing matches.
type Extremes struct {
	Min *int64
	Max *int64
}

func (e Extremes) empty() bool {
	return e.Min == nil || e.Max == nil
}

// Source is a filtered, ordered table slice. The filter is bound into the
// source, so Window and Extremes always see the same logical record set.
type Source[T any] interface {
	Key(row T) int64
	Window(ctx context.Context, w Window) ([]T, error)
	Extremes(ctx context.Context) (Extremes, error)
}
