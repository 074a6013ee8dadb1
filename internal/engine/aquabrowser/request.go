package aquabrowser

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strings"

	"github.com/MrSnakeDoc/libgate/internal/search"
)

var fixedParams = []string{"cmd=find", "output=xml", "searchmode=assoc", "noext=false"}

// filterFields are turned into field:"value" clauses, in this order.
var filterFields = []string{
	"format", "author", "language", "mdtags", "person",
	"region", "series", "subject", "timeperiod", "uniformtitle",
}

// BuildQueryString renders the catalogue query string for q. An id lookup
// ignores every other parameter. Filters, branch and page are only sent when
// the catalogue was selected explicitly.
func BuildQueryString(q search.Query, selected bool) string {
	params := append([]string(nil), fixedParams...)
	var terms []string

	if id := q.Get(search.ParamID); id != "" {
		terms = append(terms, "id:"+id)
	} else {
		if term := q.Get(search.ParamQuery); term != "" {
			terms = append(terms, term)
		}

		if selected {
			if branch := q.Get("branch"); branch != "" {
				params = append(params, "branch="+encodeComponent(`"`+branch+`"`))
			}
			if q.Has(search.ParamPage) {
				params = append(params, fmt.Sprintf("curpage=%d", q.Page()))
			}

			for _, field := range filterFields {
				v := q.Get(field)
				if v == "" || (field == "format" && v == "all") {
					continue
				}
				terms = append(terms, field+`:"`+v+`"`)
			}
		}
	}

	params = append(params, "q="+encodeComponent(strings.Join(terms, " ")))
	sort.Strings(params)
	return strings.Join(params, "&")
}

// BuildRequest implements search.Adapter.
func (e *Engine) BuildRequest(ctx context.Context, req search.Request) (*http.Request, error) {
	rawURL := e.cfg.URL + "?" + BuildQueryString(req.Query, req.Selected)
	r, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create catalogue request: %w", err)
	}
	return r, nil
}

// encodeComponent escapes s like a browser's encodeURIComponent: space is
// %20 and the marks !'()* are left alone.
func encodeComponent(s string) string {
	return componentReplacer.Replace(url.QueryEscape(s))
}

var componentReplacer = strings.NewReplacer(
	"+", "%20",
	"%21", "!",
	"%27", "'",
	"%28", "(",
	"%29", ")",
	"%2A", "*",
)
