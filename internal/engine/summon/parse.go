package summon

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/MrSnakeDoc/libgate/internal/search"
	"github.com/MrSnakeDoc/libgate/internal/tree"
)

var errNotObject = errors.New("discovery response is not an object")

func parseDocument(body []byte) (*tree.Node, error) {
	root, err := tree.FromJSON(body)
	if err != nil {
		return nil, err
	}
	if root.Kind() != tree.KindObject {
		return nil, errNotObject
	}
	if errs := root.Get("errors"); errs.Len() > 0 {
		return nil, fmt.Errorf("discovery engine error: %s", errs.First().Get("message").String())
	}
	return root, nil
}

// ParseResponse implements search.Adapter.
func (e *Engine) ParseResponse(body []byte, req search.Request) (*search.Response, error) {
	root, err := parseDocument(body)
	if err != nil {
		return nil, err
	}

	records := root.Get("documents").Items()
	if req.Detail && len(records) > 1 {
		records = records[:1]
	}

	count, ok := root.Get("recordCount").Int()
	if !ok {
		count = len(records)
	}
	return &search.Response{
		RecordCount: count,
		NoResults:   count == 0 && len(records) == 0,
		Records:     records,
		Root:        root,
	}, nil
}

// PageInfo reads query.pageNumber and pageCount.
func (e *Engine) PageInfo(resp *search.Response, req search.Request) (search.PageInfo, error) {
	pageCount, ok := resp.Root.Get("pageCount").Int()
	if !ok {
		if resp.NoResults {
			return search.SinglePage(1), nil
		}
		return search.PageInfo{}, errors.New("discovery response has no pageCount")
	}
	page, ok := resp.Root.Path("query", "pageNumber").Int()
	if !ok {
		page = req.Query.Page()
	}
	return search.PageInfo{Page: page, PageCount: pageCount, FirstPage: 1, LastPage: pageCount}, nil
}

// Facets implements search.Adapter.
func (e *Engine) Facets(resp *search.Response, req search.Request) ([]search.FacetType, error) {
	return facetTypes(resp.Root, req.Query), nil
}

// facetTypes reads facetFields in upstream order. A category's amount is the
// sum of its value counts.
func facetTypes(root *tree.Node, q search.Query) []search.FacetType {
	out := []search.FacetType{}
	for _, field := range root.Get("facetFields").Items() {
		label := field.Get("displayName").String()
		if label == "" {
			label = field.Get("fieldName").String()
		}

		ft := search.FacetType{Label: label, Facets: []search.Facet{}}
		for _, c := range field.Get("counts").Items() {
			value := highlight.Replace(c.Get("value").String())
			if value == "" {
				continue
			}
			n, _ := c.Get("count").Int()
			ft.Amount += n
			ft.Facets = append(ft.Facets, search.Facet{
				Label:  value,
				Amount: n,
				URL:    search.FacetURL(q, Name, label, value),
			})
		}
		out = append(out, ft)
	}
	return out
}

// fieldFor resolves a portal facet name to a configured engine field.
func (e *Engine) fieldFor(name string) (string, bool) {
	name = strings.ToLower(name)
	if f, ok := filterFields[name]; ok {
		name = strings.ToLower(f)
	}
	for _, f := range e.cfg.FacetFields {
		if strings.ToLower(f) == name {
			return f, true
		}
	}
	return "", false
}

// SupportsFacet implements search.Adapter.
func (e *Engine) SupportsFacet(name string) bool {
	_, ok := e.fieldFor(name)
	return ok
}

// FacetRequest asks for one facet field of the free-text query, without
// documents.
func (e *Engine) FacetRequest(ctx context.Context, q search.Query, facet string) (*http.Request, error) {
	field, ok := e.fieldFor(facet)
	if !ok {
		return nil, fmt.Errorf("unsupported facet %q", facet)
	}
	pairs := []Pair{{"s.q", q.Get(search.ParamQuery)}, {"s.ps", "0"}}
	pairs = append(pairs, e.facetPairs([]string{field})...)
	return e.signedRequest(ctx, pairs)
}

// ParseFacets implements search.Adapter.
func (e *Engine) ParseFacets(body []byte, q search.Query) ([]search.FacetType, error) {
	root, err := parseDocument(body)
	if err != nil {
		return nil, err
	}
	return facetTypes(root, q), nil
}

// ErrNoSuggestions is returned by Suggestions: the discovery engine has no
// spelling endpoint, and Capabilities keeps the service from asking.
var ErrNoSuggestions = errors.New("discovery engine offers no suggestions")

// Suggestions implements search.Adapter.
func (e *Engine) Suggestions(context.Context, search.Request) (*search.Suggestions, error) {
	return nil, ErrNoSuggestions
}
