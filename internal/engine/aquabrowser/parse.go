package aquabrowser

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"slices"
	"strings"

	"github.com/MrSnakeDoc/libgate/internal/search"
	"github.com/MrSnakeDoc/libgate/internal/tree"
)

var (
	errNoRoot  = errors.New("catalogue response has no root element")
	errNoPager = errors.New("catalogue response has no paging feedback")
)

var matchMarkers = strings.NewReplacer(
	"<exact>", "", "</exact>", "",
	"<nonexact>", "", "</nonexact>", "",
)

// parseRoot strips the match markers and returns the root element.
func parseRoot(body []byte) (*tree.Node, error) {
	xml := matchMarkers.Replace(strings.TrimSpace(string(body)))
	doc, err := tree.FromXML([]byte(xml))
	if err != nil {
		return nil, err
	}
	root := doc.Get("root")
	if !root.Present() {
		return nil, errNoRoot
	}
	return root, nil
}

// ParseResponse implements search.Adapter.
func (e *Engine) ParseResponse(body []byte, req search.Request) (*search.Response, error) {
	root, err := parseRoot(body)
	if err != nil {
		return nil, err
	}

	resp := &search.Response{Root: root}
	feedbacks := root.Get("feedbacks")
	if feedbacks.Get("noresults").Present() {
		resp.NoResults = true
		return resp, nil
	}

	resp.Records = root.Path("results", "record").Items()
	if req.Detail && len(resp.Records) > 1 {
		resp.Records = resp.Records[:1]
	}

	count, ok := feedbacks.Path("standard", "resultcount").Int()
	if !ok {
		count = len(resp.Records)
	}
	resp.RecordCount = count
	return resp, nil
}

// PageInfo reads the pager block, or the standard block for single-page
// answers.
func (e *Engine) PageInfo(resp *search.Response, req search.Request) (search.PageInfo, error) {
	feedbacks := resp.Root.Get("feedbacks")

	if pager := feedbacks.Get("pager"); pager.Present() {
		page, ok := pager.Get("currentpage").Int()
		if !ok {
			page = req.Query.Page()
		}
		total, ok := pager.Get("totalpages").Int()
		if !ok {
			return search.PageInfo{}, errors.New("catalogue pager without totalpages")
		}
		return search.PageInfo{Page: page, PageCount: total, FirstPage: 1, LastPage: total}, nil
	}

	if standard := feedbacks.Get("standard"); standard.Present() {
		page, ok := standard.Get("currentpage").Int()
		if !ok {
			page = 1
		}
		return search.SinglePage(page), nil
	}

	if resp.NoResults {
		return search.SinglePage(1), nil
	}
	return search.PageInfo{}, errNoPager
}

// Facets implements search.Adapter.
func (e *Engine) Facets(resp *search.Response, req search.Request) ([]search.FacetType, error) {
	return facetTypes(resp.Root, req.Query), nil
}

// facetTypes reads root.refine.d. A single category or keyword is treated
// as a list of one; upstream order is kept.
func facetTypes(root *tree.Node, q search.Query) []search.FacetType {
	out := []search.FacetType{}
	for _, d := range root.Path("refine", "d").Items() {
		label := d.Get("rawlbl").String()
		amount, _ := d.Get("t").Int()

		facets := []search.Facet{}
		for _, kw := range d.Get("kw").Items() {
			value := kw.Get("lbl").String()
			if value == "" {
				value = kw.String()
			}
			count, _ := kw.Get("c").Int()
			facets = append(facets, search.Facet{
				Label:  value,
				Amount: count,
				URL:    search.FacetURL(q, Name, label, value),
			})
		}

		out = append(out, search.FacetType{Label: label, Amount: amount, Facets: facets})
	}
	return out
}

// facetDimensions maps portal facet names to the refine panel dimensions,
// which are capitalized upstream (t_dim=Format).
var facetDimensions = map[string]string{
	"format":       "Format",
	"author":       "Author",
	"language":     "Language",
	"mdtags":       "MDTags",
	"person":       "Person",
	"region":       "Region",
	"series":       "Series",
	"subject":      "Subject",
	"timeperiod":   "TimePeriod",
	"uniformtitle": "UniformTitle",
	"branch":       "Branch",
}

// SupportsFacet implements search.Adapter.
func (e *Engine) SupportsFacet(name string) bool {
	_, ok := facetDimensions[strings.ToLower(name)]
	return ok
}

// FacetRequest asks the refine panel for every value of one dimension.
func (e *Engine) FacetRequest(ctx context.Context, q search.Query, facet string) (*http.Request, error) {
	dim, ok := facetDimensions[strings.ToLower(facet)]
	if !ok {
		return nil, fmt.Errorf("unsupported facet %q", facet)
	}
	params := []string{
		"cmd=refanalyze", "output=xml", "searchmode=assoc", "noext=false", "t_method=-1",
		"t_dim=" + encodeComponent(dim),
		"q=" + encodeComponent(q.Get(search.ParamQuery)),
	}
	slices.Sort(params)

	r, err := http.NewRequestWithContext(ctx, http.MethodGet, e.cfg.FacetsURL+"?"+strings.Join(params, "&"), http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create refine panel request: %w", err)
	}
	return r, nil
}

// ParseFacets implements search.Adapter.
func (e *Engine) ParseFacets(body []byte, q search.Query) ([]search.FacetType, error) {
	root, err := parseRoot(body)
	if err != nil {
		return nil, err
	}
	return facetTypes(root, q), nil
}
