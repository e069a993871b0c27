package paginator

import (
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seq(n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = i
	}
	return out
}

func TestCreateDefaults(t *testing.T) {
	p, err := Create("", seq(25), 0)
	require.NoError(t, err)

	assert.Equal(t, DefaultPageSize, p.PageSize())
	assert.Equal(t, 3, p.TotalPages())
	assert.Equal(t, 1, p.CurrentPage())
	assert.True(t, p.IsFirstPage())
	assert.False(t, p.IsLastPage())
	assert.True(t, p.HasPages())
	assert.Equal(t, 25, p.TotalItemsCount())
	assert.True(t, p.Any())
}

func TestCreatePageParsing(t *testing.T) {
	tests := []struct {
		name  string
		query string
		want  int
	}{
		{"plain", "page=2", 2},
		{"leading question mark", "?page=3", 3},
		{"among others", "foo=bar&page=2&tag=go", 2},
		{"blank value", "page=", 1},
		{"whitespace value", "page=%20", 1},
		{"missing", "foo=bar", 1},
		{"key only", "page", 1},
		{"first segment mentioning page wins", "homepage=3&page=2", 3},
		{"key containing page", "homepage=3", 3},
		{"zero clamps to first", "page=0", 1},
		{"negative clamps to first", "page=-4", 1},
		{"beyond clamps to last", "page=99", 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := Create(tt.query, seq(25), 10)
			require.NoError(t, err)
			assert.Equal(t, tt.want, p.CurrentPage())
		})
	}
}

func TestCreateInvalidPage(t *testing.T) {
	for _, query := range []string{"page=two", "tab=pages", "foo=1&tab=pages&page=2", "page=2=9"} {
		_, err := Create(query, seq(50), 10)
		require.ErrorIs(t, err, ErrInvalidPage, "query %q", query)
	}
}

func TestCreateExtremePageSizes(t *testing.T) {
	tests := []struct {
		name     string
		count    int
		pageSize int
		pages    int
	}{
		{"max int", 5, math.MaxInt, 1},
		{"max int minus one", 5, math.MaxInt - 1, 1},
		{"max int empty", 0, math.MaxInt, 0},
		{"exact fit", 20, 10, 2},
		{"one per page", 3, 1, 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := Create("page=9", seq(tt.count), tt.pageSize)
			require.NoError(t, err)
			assert.Equal(t, tt.pages, p.TotalPages())
			assert.Equal(t, max(tt.pages, 1), p.CurrentPage())
			assert.Len(t, p.Paginate(), min(tt.count, tt.pageSize))
			if tt.count > 0 {
				assert.True(t, p.IsLastPage())
			}
		})
	}
}

func TestCreateInvalidPageSize(t *testing.T) {
	_, err := Create("", seq(5), -1)
	require.ErrorIs(t, err, ErrInvalidPageSize)
}

func TestEmptyCollectionPinsFirstPage(t *testing.T) {
	p, err := Create("page=5", []int{}, 10)
	require.NoError(t, err)

	assert.Equal(t, 0, p.TotalPages())
	assert.Equal(t, 1, p.CurrentPage())
	assert.False(t, p.HasPages())
	assert.False(t, p.Any())
	assert.Empty(t, p.Paginate())
}

func TestPaginateWindows(t *testing.T) {
	items := seq(25)

	first, err := Create("page=1", items, 10)
	require.NoError(t, err)
	assert.Equal(t, seq(10), first.Paginate())

	last, err := Create("page=3", items, 10)
	require.NoError(t, err)
	assert.Equal(t, []int{20, 21, 22, 23, 24}, last.Paginate())
	assert.True(t, last.IsLastPage())
}

func TestPaginateCoversCollection(t *testing.T) {
	for _, count := range []int{1, 9, 10, 11, 99, 100, 101} {
		items := seq(count)
		first, err := Create("", items, 10)
		require.NoError(t, err)
		assert.Equal(t, (count+9)/10, first.TotalPages())

		total := 0
		for page := 1; page <= first.TotalPages(); page++ {
			p, err := Create(first.GetPageLink(page), items, 10)
			require.NoError(t, err)
			total += len(p.Paginate())
		}
		assert.Equal(t, count, total, "count %d", count)
	}
}

func TestPaginateWhereKeepsUnfilteredWindow(t *testing.T) {
	even := func(i int) bool { return i%2 == 0 }

	p, err := Create("page=2", seq(30), 10)
	require.NoError(t, err)
	// 15 even numbers; page 2 of the unfiltered bounds skips the first 10.
	assert.Equal(t, []int{20, 22, 24, 26, 28}, p.PaginateWhere(even))

	p, err = Create("page=3", seq(30), 10)
	require.NoError(t, err)
	assert.Empty(t, p.PaginateWhere(even))
}

func TestGetPageLink(t *testing.T) {
	p, err := Create("foo=bar&page=2", seq(50), 10)
	require.NoError(t, err)

	link := p.GetPageLink(3)
	assert.Equal(t, "?foo=bar&page=3", link)
	assert.Equal(t, link, p.GetPageLink(3))
	assert.True(t, strings.Contains(link, "foo=bar"))
}

func TestGetPageLinkVariants(t *testing.T) {
	tests := []struct {
		query string
		want  string
	}{
		{"", "?page=4"},
		{"?", "?page=4"},
		{"tag=go", "?tag=go&page=4"},
		{"page=1&tag=go", "?page=4&tag=go"},
		{"page=1&tag=go&page=2", "?page=4&tag=go"},
		{"q=a%20b&page=1", "?q=a%20b&page=4"},
		{"homepage=1&tag=go", "?page=4&tag=go"},
	}
	for _, tt := range tests {
		p, err := Create(tt.query, seq(50), 10)
		require.NoError(t, err)
		assert.Equal(t, tt.want, p.GetPageLink(4), "query %q", tt.query)
	}
}

func TestNextAndPreviousLinks(t *testing.T) {
	p, err := Create("page=2", seq(30), 10)
	require.NoError(t, err)
	assert.Equal(t, "?page=3", p.NextPageLink())
	assert.Equal(t, "?page=1", p.PreviousPageLink())

	p, err = Create("page=3", seq(30), 10)
	require.NoError(t, err)
	assert.Empty(t, p.NextPageLink())

	p, err = Create("", seq(30), 10)
	require.NoError(t, err)
	assert.Empty(t, p.PreviousPageLink())
}
