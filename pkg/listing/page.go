package listing

import "context"

// Gateway fetches one page of a remote list. A non-empty query selects the
// search endpoint, an empty one the default list. Pages start at 1.
type Gateway[T any] func(ctx context.Context, page int, query string) (PageResult[T], error)

// PageResult is one decoded page.
type PageResult[T any] struct {
	Items      []T
	Page       int
	TotalPages int
	HasMore    bool
}

// NewPageResult builds a PageResult with HasMore derived from the backend's
// total page count.
func NewPageResult[T any](items []T, page, totalPages int) PageResult[T] {
	return PageResult[T]{
		Items:      items,
		Page:       page,
		TotalPages: totalPages,
		HasMore:    page < totalPages,
	}
}
