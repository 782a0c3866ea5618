package pagination

import "github.com/Payphone-Digital/demonlist/internal/constants"

// Order is the presentation order of keys on a page
type Order int

const (
	Ascending Order = iota
	Descending
)

func (o Order) String() string {
	if o == Descending {
		return constants.OrderDesc
	}
	return constants.OrderAsc
}

// ParseOrder accepts "", "asc" and "desc"
func ParseOrder(raw string) (Order, error) {
	switch raw {
	case "", constants.OrderAsc:
		return Ascending, nil
	case constants.OrderDesc:
		return Descending, nil
	default:
		return Ascending, invalid(ErrInvalidOrder, "order must be asc or desc, got %q", raw)
	}
}

// Request is the raw pagination part of a query string.
// Entity query DTOs embed it so gin binds it alongside their filters.
type Request struct {
	Before *int64 `form:"before"`
	After  *int64 `form:"after"`
	Limit  *int   `form:"limit"`
	Order  string `form:"order"`
}

// Params is a validated pagination request
type Params struct {
	Cursor Cursor
	Limit  int
	Order  Order
}

// Params validates the request against limits
func (r Request) Params(limits Limits) (Params, error) {
	cursor, err := NewCursor(r.Before, r.After)
	if err != nil {
		return Params{}, err
	}
	limit, err := limits.Resolve(r.Limit)
	if err != nil {
		return Params{}, err
	}
	order, err := ParseOrder(r.Order)
	if err != nil {
		return Params{}, err
	}
	return Params{Cursor: cursor, Limit: limit, Order: order}, nil
}
