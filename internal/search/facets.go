package search

import (
	"slices"
	"strings"
)

// overviewSkip lists parameters that are never shown as applied facets.
var overviewSkip = []string{ParamFacet, ParamID, ParamPage, ParamEngine, ParamQuery}

// FacetKey turns a facet category label into its query parameter name.
func FacetKey(facetType string) string {
	return strings.ToLower(strings.ReplaceAll(facetType, " ", ""))
}

// FacetURL returns the encoded query that toggles facetType=value: the pair is
// removed when already applied and added otherwise. The page is always reset
// and the link names engine, so the filter reaches the engine that offered it.
func FacetURL(q Query, engine, facetType, value string) string {
	c := q.Clone()
	c.Del(ParamPage)
	c.Set(ParamEngine, engine)

	key := FacetKey(facetType)
	values := c[key]
	if i := slices.Index(values, value); i >= 0 {
		values = slices.Delete(slices.Clone(values), i, i+1)
		if len(values) == 0 {
			c.Del(key)
		} else {
			c[key] = values
		}
		return c.Encode()
	}

	c.Add(key, value)
	return c.Encode()
}

// FacetOverview lists the filters applied by q, in key order. The URL of each
// entry is the query without that single pair.
func FacetOverview(q Query) []AppliedFacet {
	out := []AppliedFacet{}
	for _, key := range q.Keys() {
		if slices.Contains(overviewSkip, key) {
			continue
		}
		for _, value := range q[key] {
			out = append(out, AppliedFacet{
				Type:  key,
				Value: value,
				URL:   without(q, key, value),
			})
		}
	}
	return out
}

func without(q Query, key, value string) string {
	c := q.Clone()
	values := c[key]
	if i := slices.Index(values, value); i >= 0 {
		values = slices.Delete(values, i, i+1)
	}
	if len(values) == 0 {
		c.Del(key)
	} else {
		c[key] = values
	}
	return c.Encode()
}
