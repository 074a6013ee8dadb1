package search

// PageInfo is what an engine reports about paging before clamping.
type PageInfo struct {
	Page      int
	PageCount int
	FirstPage int
	LastPage  int
}

// SinglePage is the fallback used when an engine reports no pager.
func SinglePage(page int) PageInfo {
	if page < 1 {
		page = 1
	}
	return PageInfo{Page: page, PageCount: 1, FirstPage: 1, LastPage: 1}
}

// NewPagination clamps info to limit and builds the page window of size
// 2*window+1 around the current page. The URL is taken from a clone of q
// annotated with the engine that answered.
func NewPagination(q Query, engine string, info PageInfo, limit, window int) Pagination {
	page := clamp(info.Page, limit)
	pageCount := clamp(info.PageCount, limit)
	lastPage := clamp(info.LastPage, limit)

	first := info.FirstPage
	if first < 1 {
		first = 1
	}

	c := q.Clone()
	c.Del(ParamPage)
	c.Set(ParamEngine, engine)

	return Pagination{
		Page:      page,
		PageCount: pageCount,
		FirstPage: first,
		LastPage:  lastPage,
		URL:       c.Encode(),
		Window:    pageWindow(page, first, lastPage, window),
	}
}

func clamp(n, limit int) int {
	if n < 1 {
		return 1
	}
	if limit > 0 && n > limit {
		return limit
	}
	return n
}

func pageWindow(page, first, last, window int) []int {
	if window < 0 {
		window = 0
	}
	lo := max(page-window, first)
	hi := min(page+window, last)
	if hi < lo {
		return []int{}
	}

	out := make([]int, 0, hi-lo+1)
	for p := lo; p <= hi; p++ {
		out = append(out, p)
	}
	return out
}
