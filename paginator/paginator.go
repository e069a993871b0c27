// Package paginator pages an in-memory collection against the "page"
// query-string parameter and builds links to other pages.
package paginator

import (
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

// ParamName is the query-string parameter holding the page number.
const ParamName = "page"

// DefaultPageSize is used when Create receives a zero page size.
const DefaultPageSize = 10

var (
	ErrInvalidPage     = errors.New("paginator: page parameter is not a number")
	ErrInvalidPageSize = errors.New("paginator: page size must be positive")
)

// Paginator holds one request's view of a collection. It is not shared
// between requests.
type Paginator[T any] struct {
	pageSize    int
	totalPages  int
	currentPage int
	query       string
	items       []T
}

// Create parses the page number from query and computes the page bounds.
// A missing or blank page parameter selects page 1; a non-numeric one is an error.
func Create[T any](query string, items []T, pageSize int) (*Paginator[T], error) {
	if pageSize == 0 {
		pageSize = DefaultPageSize
	}
	if pageSize < 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidPageSize, pageSize)
	}

	query = strings.TrimPrefix(query, "?")
	page := 1
	if raw, ok := lookup(query); ok && strings.TrimSpace(raw) != "" {
		n, err := strconv.Atoi(strings.TrimSpace(raw))
		if err != nil {
			return nil, fmt.Errorf("%w: %q", ErrInvalidPage, raw)
		}
		page = n
	}

	total := len(items) / pageSize
	if len(items)%pageSize != 0 {
		total++
	}
	p := &Paginator[T]{
		pageSize:   pageSize,
		totalPages: total,
		query:      query,
		items:      items,
	}
	if page > p.totalPages {
		page = p.totalPages
	}
	// An empty collection has no pages; it still renders as page 1.
	if page < 1 {
		page = 1
	}
	p.currentPage = page
	return p, nil
}

// lookup returns the decoded value of the first segment mentioning ParamName.
// The segment does not need to be keyed exactly "page": "homepage=3" and
// "tab=pages" both match. The value is everything after the first "=".
func lookup(query string) (string, bool) {
	for _, seg := range strings.Split(query, "&") {
		if isPageSegment(seg) {
			_, value, _ := strings.Cut(seg, "=")
			return unescape(value), true
		}
	}
	return "", false
}

func isPageSegment(seg string) bool {
	return strings.Contains(unescape(seg), ParamName)
}

func unescape(raw string) string {
	if k, err := url.QueryUnescape(raw); err == nil {
		return k
	}
	return raw
}

func (p *Paginator[T]) PageSize() int    { return p.pageSize }
func (p *Paginator[T]) TotalPages() int  { return p.totalPages }
func (p *Paginator[T]) CurrentPage() int { return p.currentPage }

func (p *Paginator[T]) IsFirstPage() bool { return p.currentPage == 1 }
func (p *Paginator[T]) IsLastPage() bool  { return p.currentPage == p.totalPages }

// HasPages reports whether there is more than one page to link between.
func (p *Paginator[T]) HasPages() bool { return p.totalPages > 1 }

// TotalItemsCount is the size of the unfiltered collection.
func (p *Paginator[T]) TotalItemsCount() int { return len(p.items) }

// Any reports whether the collection has items.
func (p *Paginator[T]) Any() bool { return len(p.items) > 0 }

// Paginate returns the items of the current page.
func (p *Paginator[T]) Paginate() []T {
	return window(p.items, (p.currentPage-1)*p.pageSize, p.pageSize)
}

// PaginateWhere filters the collection with pred and returns the current
// page's window of the result. The window comes from the unfiltered page
// bounds, so a filtered page can be short or empty.
func (p *Paginator[T]) PaginateWhere(pred func(T) bool) []T {
	var filtered []T
	for _, it := range p.items {
		if pred(it) {
			filtered = append(filtered, it)
		}
	}
	return window(filtered, (p.currentPage-1)*p.pageSize, p.pageSize)
}

func window[T any](items []T, skip, take int) []T {
	if skip < 0 {
		skip = 0
	}
	if skip >= len(items) || take <= 0 {
		return []T{}
	}
	end := skip + take
	if end > len(items) {
		end = len(items)
	}
	return items[skip:end]
}

// GetPageLink returns the stored query string with the page parameter set to
// pageNumber, prefixed with "?". The first segment lookup would read is
// replaced and later ones are dropped. Other parameters keep their order and
// encoding.
func (p *Paginator[T]) GetPageLink(pageNumber int) string {
	page := ParamName + "=" + strconv.Itoa(pageNumber)
	if strings.TrimSpace(p.query) == "" {
		return "?" + page
	}

	var out []string
	set := false
	for _, seg := range strings.Split(p.query, "&") {
		if seg == "" {
			continue
		}
		if isPageSegment(seg) {
			if !set {
				out = append(out, page)
				set = true
			}
			continue
		}
		out = append(out, seg)
	}
	if !set {
		out = append(out, page)
	}
	return "?" + strings.Join(out, "&")
}

// NextPageLink links to the following page, or "" on the last page.
func (p *Paginator[T]) NextPageLink() string {
	if p.currentPage >= p.totalPages {
		return ""
	}
	return p.GetPageLink(p.currentPage + 1)
}

// PreviousPageLink links to the preceding page, or "" on the first page.
func (p *Paginator[T]) PreviousPageLink() string {
	if p.currentPage <= 1 {
		return ""
	}
	return p.GetPageLink(p.currentPage - 1)
}
