package domain

import "math"

const (
	DefaultPage  = 1
	DefaultLimit = 10
)

// PageRequest selects a window of a listing. Zero values mean "use default".
type PageRequest struct {
	Page  int
	Limit int
}

// Normalize fills in defaults for unset or non-positive values.
func (p PageRequest) Normalize(defaultLimit int) PageRequest {
	if p.Page <= 0 {
		p.Page = DefaultPage
	}
	if p.Limit <= 0 {
		p.Limit = defaultLimit
	}
	return p
}

// Offset returns the number of records to skip. It saturates so that
// Offset()+Limit never overflows.
func (p PageRequest) Offset() int {
	if p.Page <= 1 || p.Limit <= 0 {
		return 0
	}
	if p.Page-1 > (math.MaxInt-p.Limit)/p.Limit {
		return math.MaxInt - p.Limit
	}
	return (p.Page - 1) * p.Limit
}

// Page is one window of a paginated listing.
type Page[T any] struct {
	Items        []T
	TotalRecords int
	TotalPages   int
	HasNextPage  bool
}

// NewPage builds a page from the items of the requested window and the total
// number of matching records. req must be normalized.
func NewPage[T any](items []T, total int, req PageRequest) Page[T] {
	if items == nil {
		items = []T{}
	}
	totalPages := 0
	if req.Limit > 0 {
		totalPages = total / req.Limit
		if total%req.Limit != 0 {
			totalPages++
		}
	}
	return Page[T]{
		Items:        items,
		TotalRecords: total,
		TotalPages:   totalPages,
		HasNextPage:  len(items) == req.Limit && req.Offset()+req.Limit < total,
	}
}

// MapPage converts the items of a page, keeping its counters.
func MapPage[T, U any](p Page[T], fn func(T) U) Page[U] {
	out := make([]U, 0, len(p.Items))
	for _, item := range p.Items {
		out = append(out, fn(item))
	}
	return Page[U]{
		Items:        out,
		TotalRecords: p.TotalRecords,
		TotalPages:   p.TotalPages,
		HasNextPage:  p.HasNextPage,
	}
}
