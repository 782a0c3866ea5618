package pagination

import (
	"net/url"
	"strconv"

	"github.com/Payphone-Digital/demonlist/internal/constants"
)

// Query parameter names carrying a cursor
const (
	ParamBefore = constants.QueryParamBefore
	ParamAfter  = constants.QueryParamAfter
	ParamLimit  = constants.QueryParamLimit
	ParamOrder  = constants.QueryParamOrder
)

// CursorKind tags which bound a Cursor carries
type CursorKind int

const (
	CursorNone CursorKind = iota
	CursorBefore
	CursorAfter
)

func (k CursorKind) String() string {
	switch k {
	case CursorBefore:
		return ParamBefore
	case CursorAfter:
		return ParamAfter
	default:
		return "none"
	}
}

// Cursor is an exclusive position marker over the ordered key domain.
// The zero value is the None cursor.
type Cursor struct {
	kind CursorKind
	key  int64
}

// None returns the cursor meaning "start from the beginning of the ordered set"
func None() Cursor { return Cursor{} }

// Before returns a cursor selecting rows ordered ahead of key
func Before(key int64) Cursor { return Cursor{kind: CursorBefore, key: key} }

// After returns a cursor selecting rows ordered past key
func After(key int64) Cursor { return Cursor{kind: CursorAfter, key: key} }

// NewCursor builds a cursor from the two optional query values.
// Setting both is rejected with ErrAmbiguousCursor.
func NewCursor(before, after *int64) (Cursor, error) {
	switch {
	case before != nil && after != nil:
		return Cursor{}, invalid(ErrAmbiguousCursor, "only one of before and after may be set")
	case before != nil:
		return Before(*before), nil
	case after != nil:
		return After(*after), nil
	default:
		return None(), nil
	}
}

func (c Cursor) Kind() CursorKind { return c.kind }

// Key returns the bound key; ok is false for the None cursor
func (c Cursor) Key() (key int64, ok bool) {
	return c.key, c.kind != CursorNone
}

func (c Cursor) IsNone() bool   { return c.kind == CursorNone }
func (c Cursor) IsBefore() bool { return c.kind == CursorBefore }
func (c Cursor) IsAfter() bool  { return c.kind == CursorAfter }

// Apply writes the cursor into q, replacing any cursor already present
func (c Cursor) Apply(q url.Values) {
	q.Del(ParamBefore)
	q.Del(ParamAfter)
	if c.kind == CursorNone {
		return
	}
	q.Set(c.kind.String(), strconv.FormatInt(c.key, 10))
}

// String renders the cursor as a query fragment, e.g. "after=42"
func (c Cursor) String() string {
	if c.kind == CursorNone {
		return ""
	}
	return c.kind.String() + "=" + strconv.FormatInt(c.key, 10)
}
