package domain

// PageParams carries optional page/limit values from the HTTP layer to the
// repo layer. The zero value means "everything": list endpoints return the
// whole collection unless the client asks for a page.
type PageParams struct {
	// Page is the current page number, starting at 1.
	Page int
	// Limit is the maximum number of items to return. Zero disables paging.
	Limit int
}

// MaxPageLimit caps client-supplied limits.
const MaxPageLimit = 100

// NewPageParams builds PageParams from optional HTTP query params.
// With both nil the result is unpaged. A page without a limit uses 20.
func NewPageParams(page, limit *int) PageParams {
	if page == nil && limit == nil {
		return PageParams{}
	}
	p := PageParams{Page: 1, Limit: 20}
	if page != nil && *page >= 1 {
		p.Page = *page
	}
	if limit != nil && *limit >= 1 {
		p.Limit = min(*limit, MaxPageLimit)
	}
	return p
}

// Paged reports whether a LIMIT/OFFSET applies.
func (p PageParams) Paged() bool { return p.Limit > 0 }

// Offset returns the zero-based row offset for a SQL OFFSET clause.
func (p PageParams) Offset() int {
	if !p.Paged() {
		return 0
	}
	return (p.Page - 1) * p.Limit
}
