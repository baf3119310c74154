package projection

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// PageQuery selects a 1-based page of results.
type PageQuery struct {
	Page int
	Size int
}

// Normalize clamps the query to sane bounds.
func (q PageQuery) Normalize() PageQuery {
	if q.Page < 1 {
		q.Page = 1
	}
	if q.Size < 1 {
		q.Size = DefaultPageSize
	}
	if q.Size > MaxPageSize {
		q.Size = MaxPageSize
	}
	return q
}

// Offset returns the number of rows to skip.
func (q PageQuery) Offset() int {
	q = q.Normalize()
	return (q.Page - 1) * q.Size
}

// Page is one slice of a filtered listing plus the total match count.
type Page[T any] struct {
	Items []T
	Total int64
	Page  int
	Size  int
}

// NewPage builds a page for the normalized query.
func NewPage[T any](items []T, total int64, q PageQuery) Page[T] {
	q = q.Normalize()
	if items == nil {
		items = []T{}
	}
	return Page[T]{Items: items, Total: total, Page: q.Page, Size: q.Size}
}

// Slice pages an in-memory result set.
func Slice[T any](all []T, q PageQuery) Page[T] {
	q = q.Normalize()
	total := int64(len(all))
	start := q.Offset()
	if start >= len(all) {
		return NewPage[T](nil, total, q)
	}
	end := start + q.Size
	if end > len(all) {
		end = len(all)
	}
	return NewPage(all[start:end], total, q)
}

// Map converts the items of a page.
func Map[T, U any](p Page[T], fn func(T) U) Page[U] {
	items := make([]U, 0, len(p.Items))
	for _, item := range p.Items {
		items = append(items, fn(item))
	}
	return Page[U]{Items: items, Total: p.Total, Page: p.Page, Size: p.Size}
}
