package summon

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"

	"github.com/MrSnakeDoc/libgate/internal/search"
	"github.com/MrSnakeDoc/libgate/internal/textnorm"
)

// Pair is one key=value of the engine query, value not yet escaped.
type Pair struct {
	Key   string
	Value string
}

// filterFields maps portal filters to the engine's field names.
var filterFields = map[string]string{
	"format":       "ContentType",
	"contenttype":  "ContentType",
	"subject":      "SubjectTerms",
	"subjectterms": "SubjectTerms",
	"language":     "Language",
	"author":       "Author",
}

// translate converts portal parameters into engine parameters and appends the
// configured page size, holdings flag and facet fields.
func (e *Engine) translate(q search.Query) []Pair {
	var pairs []Pair

	if id := q.Get(search.ParamID); id != "" {
		pairs = append(pairs, Pair{"s.fids", id})
	} else {
		for _, term := range q[search.ParamQuery] {
			pairs = append(pairs, Pair{"s.q", term})
		}
		if q.Has(search.ParamPage) {
			pairs = append(pairs, Pair{"s.pn", strconv.Itoa(q.Page())})
		}

		for _, key := range q.Keys() {
			field, ok := filterFields[key]
			if !ok {
				continue
			}
			for _, v := range q[key] {
				if key == "format" && v == "all" {
					continue
				}
				if mapped, ok := e.cfg.ContentTypes[v]; ok && field == "ContentType" {
					v = mapped
				}
				pairs = append(pairs, Pair{"s.fvf", field + "," + v + ",false"})
			}
		}

		pairs = append(pairs, e.facetPairs(e.cfg.FacetFields)...)
	}

	if e.cfg.PageSize > 0 {
		pairs = append(pairs, Pair{"s.ps", strconv.Itoa(e.cfg.PageSize)})
	}
	pairs = append(pairs, Pair{"s.ho", strconv.FormatBool(e.cfg.HoldingsOnly)})
	return pairs
}

func (e *Engine) facetPairs(fields []string) []Pair {
	limit := e.cfg.FacetLimit
	if limit <= 0 {
		limit = 10
	}
	out := make([]Pair, 0, len(fields))
	for _, f := range fields {
		out = append(out, Pair{"s.ff", fmt.Sprintf("%s,or,1,%d", f, limit)})
	}
	return out
}

// BuildQueryString normalizes every comma-separated segment of each value,
// sorts the pairs on their decoded form and returns both the wire query
// string and its decoded form, which is what gets signed.
func BuildQueryString(pairs []Pair) (encoded, decoded string) {
	type entry struct{ plain, wire string }

	entries := make([]entry, 0, len(pairs))
	for _, p := range pairs {
		v := textnorm.NormalizeList(p.Value)
		entries = append(entries, entry{
			plain: p.Key + "=" + v,
			wire:  p.Key + "=" + escape(v),
		})
	}
	sort.SliceStable(entries, func(i, j int) bool { return entries[i].plain < entries[j].plain })

	wire := make([]string, len(entries))
	plain := make([]string, len(entries))
	for i, en := range entries {
		wire[i], plain[i] = en.wire, en.plain
	}
	return strings.Join(wire, "&"), strings.Join(plain, "&")
}

// escape percent-encodes a value with %20 for spaces.
func escape(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}

// BuildRequest implements search.Adapter.
func (e *Engine) BuildRequest(ctx context.Context, req search.Request) (*http.Request, error) {
	return e.signedRequest(ctx, e.translate(req.Query))
}

func (e *Engine) signedRequest(ctx context.Context, pairs []Pair) (*http.Request, error) {
	encoded, decoded := BuildQueryString(pairs)
	rawURL := fmt.Sprintf("%s://%s%s?%s", e.cfg.Scheme, e.cfg.Host, e.cfg.Version, encoded)

	r, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create discovery request: %w", err)
	}
	for k, vs := range e.signer.Headers(e.cfg.Host, e.cfg.Version, decoded) {
		r.Header[k] = vs
	}
	r.Host = e.cfg.Host
	return r, nil
}
