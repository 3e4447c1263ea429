// Package pagination holds the listing window shared by every repository:
// limit/cursor/offset normalisation and the limit+1 look-ahead that decides
// whether a next cursor exists.
//
// Repositories own the query itself (eligible-set predicate, total count,
// cursor filter, ordering); they fetch Request.FetchSize() rows and hand them
// to NewPage.
package pagination

const (
	DefaultLimit = 10
	MaxLimit     = 100
)

// Request describes one page. A zero Cursor means "from the start".
type Request struct {
	Limit  int
	Cursor int64
	Offset int
}

// Normalize applies the server-side defaults and bounds.
func (r Request) Normalize() Request {
	switch {
	case r.Limit <= 0:
		r.Limit = DefaultLimit
	case r.Limit > MaxLimit:
		r.Limit = MaxLimit
	}
	if r.Cursor < 0 {
		r.Cursor = 0
	}
	if r.Offset < 0 {
		r.Offset = 0
	}
	return r
}

// HasCursor reports whether the request continues a previous page.
func (r Request) HasCursor() bool {
	return r.Cursor > 0
}

// FetchSize is the number of rows a repository must ask the store for.
func (r Request) FetchSize() int {
	return r.Limit + 1
}

// Page is one window of an ordered listing. Total counts the whole eligible
// set, independent of cursor and offset.
type Page[T any] struct {
	Total      int64
	Items      []T
	NextCursor *int64
}

// NewPage trims the look-ahead row. When rows holds more than limit entries
// the page is cut to limit and the next cursor is the id of the last row kept,
// so an exclusive "id > cursor" filter resumes right after it.
func NewPage[T any](total int64, rows []T, limit int, id func(T) int64) *Page[T] {
	page := &Page[T]{Total: total, Items: rows}
	if page.Items == nil {
		page.Items = []T{}
	}
	if limit > 0 && len(rows) > limit {
		page.Items = rows[:limit]
		next := id(rows[limit-1])
		page.NextCursor = &next
	}
	return page
}

// Map converts the items of a page, keeping total and cursor.
func Map[T, U any](p *Page[T], fn func(T) U) *Page[U] {
	out := &Page[U]{Total: p.Total, NextCursor: p.NextCursor, Items: make([]U, 0, len(p.Items))}
	for _, it := range p.Items {
		out.Items = append(out.Items, fn(it))
	}
	return out
}
