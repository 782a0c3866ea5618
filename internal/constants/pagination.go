package constants

// Keyset Pagination Query Parameters
const (
	QueryParamBefore = "before"
	QueryParamAfter  = "after"
	QueryParamLimit  = "limit"
	QueryParamOrder  = "order"
)

// Page size bounds
const (
	MinLimit     = 1
	DefaultLimit = 50
	MaxLimit     = 100
)

// Sort Orders
const (
	OrderAsc  = "asc"
	OrderDesc = "desc"
)
