package search

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewPaginationClampsToLimit(t *testing.T) {
	q := Query{"q": {"darwin"}, "page": {"40"}}
	p := NewPagination(q, "aquabrowser", PageInfo{Page: 40, PageCount: 999, FirstPage: 1, LastPage: 999}, 40, 2)

	assert.Equal(t, 40, p.Page)
	assert.Equal(t, 40, p.PageCount)
	assert.Equal(t, 40, p.LastPage)
	assert.Equal(t, 1, p.FirstPage)
	assert.Equal(t, []int{38, 39, 40}, p.Window)
	assert.Equal(t, "api=aquabrowser&q=darwin", p.URL)

	// the caller's query keeps its page and gains no api
	assert.Equal(t, "40", q.Get("page"))
	assert.False(t, q.Has("api"))
}

func TestNewPaginationWindow(t *testing.T) {
	tests := []struct {
		name   string
		info   PageInfo
		window int
		want   []int
	}{
		{name: "start", info: PageInfo{Page: 1, PageCount: 10, FirstPage: 1, LastPage: 10}, window: 2, want: []int{1, 2, 3}},
		{name: "middle", info: PageInfo{Page: 5, PageCount: 10, FirstPage: 1, LastPage: 10}, window: 2, want: []int{3, 4, 5, 6, 7}},
		{name: "single page", info: SinglePage(1), window: 3, want: []int{1}},
		{name: "no window", info: PageInfo{Page: 4, PageCount: 10, FirstPage: 1, LastPage: 10}, window: 0, want: []int{4}},
		{name: "page past last", info: PageInfo{Page: 7, PageCount: 1, FirstPage: 1, LastPage: 1}, window: 2, want: []int{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewPagination(Query{}, "summon", tt.info, 40, tt.window)
			assert.Equal(t, tt.want, p.Window)
		})
	}
}

func TestNewPaginationZeroValues(t *testing.T) {
	p := NewPagination(Query{}, "summon", PageInfo{}, 40, 1)
	assert.Equal(t, 1, p.Page)
	assert.Equal(t, 1, p.PageCount)
	assert.Equal(t, 1, p.FirstPage)
	assert.Equal(t, 1, p.LastPage)
	assert.Equal(t, "api=summon", p.URL)
}
