package search

import (
	"encoding/json"
	"math"
	"net/url"
	"slices"
	"sort"
	"strconv"
	"strings"
)

// Query is a sanitized set of inbound search parameters.
type Query map[string][]string

// Parameter names with a meaning to the portal itself.
const (
	ParamQuery  = "q"
	ParamID     = "id"
	ParamPage   = "page"
	ParamFacet  = "facet"
	ParamEngine = "api"
)

// DefaultAllowedParams is the allow-list used when the settings file does not
// provide one.
var DefaultAllowedParams = []string{
	"api", "q", "id", "page", "branch", "format", "contenttype", "author",
	"language", "mdtags", "person", "region", "series", "subject",
	"subjectterms", "timeperiod", "uniformtitle", "facet",
}

// Sanitize keeps the allowed, non-empty parameters of raw and normalizes page
// to an integer in [1, pageLimit]. It never fails.
func Sanitize(raw url.Values, allowed []string, pageLimit int) Query {
	q := make(Query, len(raw))
	for key, values := range raw {
		if !slices.Contains(allowed, key) {
			continue
		}
		for _, v := range values {
			if v = strings.TrimSpace(v); v != "" {
				q[key] = append(q[key], v)
			}
		}
	}

	if _, ok := raw[ParamPage]; ok && slices.Contains(allowed, ParamPage) {
		q[ParamPage] = []string{strconv.Itoa(clampPage(raw.Get(ParamPage), pageLimit))}
	}
	return q
}

// clampPage reads the leading integer of s the way a lenient form parser
// would ("3abc" is 3) and bounds it to [1, limit].
func clampPage(s string, limit int) int {
	s = strings.TrimSpace(s)
	neg := false
	if s != "" && (s[0] == '+' || s[0] == '-') {
		neg = s[0] == '-'
		s = s[1:]
	}

	end := 0
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == 0 {
		return 1
	}

	n, err := strconv.Atoi(s[:end])
	if err != nil {
		n = math.MaxInt
	}
	if neg || n < 1 {
		return 1
	}
	if limit > 0 && n > limit {
		return limit
	}
	return n
}

// Get returns the first value of key.
func (q Query) Get(key string) string {
	if vs := q[key]; len(vs) > 0 {
		return vs[0]
	}
	return ""
}

// Has reports whether key carries at least one value.
func (q Query) Has(key string) bool {
	return len(q[key]) > 0
}

// Set replaces the values of key.
func (q Query) Set(key, value string) {
	q[key] = []string{value}
}

// Add appends a value to key.
func (q Query) Add(key, value string) {
	q[key] = append(q[key], value)
}

// Del removes key.
func (q Query) Del(key string) {
	delete(q, key)
}

// Page returns the page parameter, defaulting to 1.
func (q Query) Page() int {
	if p, err := strconv.Atoi(q.Get(ParamPage)); err == nil && p > 0 {
		return p
	}
	return 1
}

// Clone returns a deep copy.
func (q Query) Clone() Query {
	c := make(Query, len(q))
	for k, vs := range q {
		c[k] = slices.Clone(vs)
	}
	return c
}

// Keys returns the parameter names in sorted order.
func (q Query) Keys() []string {
	keys := make([]string, 0, len(q))
	for k := range q {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Encode serializes q as sorted key=value pairs joined with '&'. Values are
// query-escaped, so a literal '&' becomes %26 and a space becomes '+';
// url.ParseQuery restores the original pairs.
func (q Query) Encode() string {
	pairs := make([]string, 0, len(q))
	for k, vs := range q {
		for _, v := range vs {
			pairs = append(pairs, url.QueryEscape(k)+"="+url.QueryEscape(v))
		}
	}
	sort.Strings(pairs)
	return strings.Join(pairs, "&")
}

// ParseQuery is the inverse of Encode.
func ParseQuery(s string) (Query, error) {
	values, err := url.ParseQuery(s)
	if err != nil {
		return nil, err
	}
	return Query(values), nil
}

// Decoded returns a copy whose values are percent-decoded once more. A value
// that does not decode is kept as is.
func (q Query) Decoded() Query {
	c := make(Query, len(q))
	for k, vs := range q {
		out := make([]string, len(vs))
		for i, v := range vs {
			if d, err := url.PathUnescape(v); err == nil {
				out[i] = d
			} else {
				out[i] = v
			}
		}
		c[k] = out
	}
	return c
}

// MarshalJSON renders single-valued parameters as strings and repeated ones
// as arrays.
func (q Query) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(q))
	for k, vs := range q {
		if len(vs) == 1 {
			out[k] = vs[0]
			continue
		}
		out[k] = vs
	}
	return json.Marshal(out)
}
