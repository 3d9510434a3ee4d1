package domain

// PaginationParams holds offset-based pagination parameters for list queries.
// A PageSize of zero or less means "no limit" and is only used internally
// (for example by the tag delete guard); request paths always carry a bounded size.
type PaginationParams struct {
	Page     int
	PageSize int
}

// Offset returns the row offset for the current page (0-based).
// Formula: (Page - 1) * PageSize.
func (p PaginationParams) Offset() int {
	if p.Page < 1 || p.PageSize <= 0 {
		return 0
	}
	return (p.Page - 1) * p.PageSize
}

// Unbounded reports whether the params request every matching row.
func (p PaginationParams) Unbounded() bool {
	return p.PageSize <= 0
}

// Pagination limits enforced by the request layer.
const (
	DefaultPage     = 1
	DefaultPageSize = 20
	MaxPageSize     = 100
)
