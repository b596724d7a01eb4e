package shared

// DefaultPerPage is used when a listing does not ask for a page size.
const DefaultPerPage = 10

// Pagination contains metadata for paginated listings.
type Pagination struct {
	Page       int `json:"page"`
	PerPage    int `json:"per_page"`
	Total      int `json:"total"`
	TotalPages int `json:"total_pages"`
}

// NewPagination computes pagination metadata. The page is clamped into
// [1, TotalPages] so callers can trust it when slicing.
func NewPagination(page, perPage, total int) Pagination {
	if perPage <= 0 {
		perPage = DefaultPerPage
	}
	if total < 0 {
		total = 0
	}
	totalPages := total / perPage
	if total%perPage != 0 {
		totalPages++
	}
	if page > totalPages {
		page = totalPages
	}
	if page <= 0 {
		page = 1
	}
	return Pagination{Page: page, PerPage: perPage, Total: total, TotalPages: totalPages}
}

// HasNext reports whether another page follows.
func (p Pagination) HasNext() bool {
	return p.Page < p.TotalPages
}

// Paginate returns the half-open window [(page-1)*size, page*size) of items
// intersected with its bounds. Page numbers are not clamped here.
func Paginate[T any](items []T, pageSize, page int) ([]T, error) {
	if pageSize < 1 {
		return nil, Invalid("page_size", "must be at least 1")
	}
	if page < 1 {
		return nil, Invalid("page", "must be at least 1")
	}
	start := (page - 1) * pageSize
	if start >= len(items) {
		return []T{}, nil
	}
	end := start + pageSize
	if end > len(items) {
		end = len(items)
	}
	out := make([]T, end-start)
	copy(out, items[start:end])
	return out, nil
}
