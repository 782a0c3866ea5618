// Package pagination implements keyset pagination over an integer key.
//
// A request carries at most one exclusive cursor (before or after), a limit
// and a presentation order. Paginate runs one over-fetched window query and
// one extremal-key lookup against a Source, and returns the rows together
// with first/prev/next/last cursors. Links that would not move the reader
// are left as None.
//
// Typical use from an HTTP handler:
//
//	params, err := req.Params(pagination.DefaultLimits())
//	if err != nil {
//		// 400
//	}
//	page, err := pagination.Paginate(ctx, source, params)
//	c.Header("Link", page.Links.Header(c.Request.URL))
package pagination
