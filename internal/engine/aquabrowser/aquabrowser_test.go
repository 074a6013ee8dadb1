package aquabrowser

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrSnakeDoc/libgate/internal/logger"
	"github.com/MrSnakeDoc/libgate/internal/search"
	"github.com/MrSnakeDoc/libgate/internal/upstream"
)

const listingXML = `<?xml version="1.0" encoding="utf-8"?>
<root>
  <feedbacks>
    <standard><resultcount>2</resultcount><currentpage>1</currentpage></standard>
    <pager><currentpage>2</currentpage><totalpages>999</totalpages></pager>
  </feedbacks>
  <refine>
    <d><rawlbl>Format</rawlbl><t>12</t>
      <kw><lbl>Book</lbl><c>10</c></kw>
      <kw><lbl>eBook</lbl><c>2</c></kw>
    </d>
    <d><rawlbl>Language</rawlbl><t>3</t>
      <kw><lbl>English</lbl><c>3</c></kw>
    </d>
  </refine>
  <results>
    <record id="r1" src="cambrdgedb" extID="|cambrdgedb|1">
      <fields>
        <title><exact>On the origin</exact> of species</title>
        <author>Darwin, Charles</author>
        <isbn>9780000000001</isbn>
        <publisher>John Murray</publisher>
        <pubyear>1859</pubyear>
        <format>Book</format>
      </fields>
    </record>
    <record id="r2" src="cambrdgedb">
      <fields><title>The descent of man</title><title>Descent</title></fields>
    </record>
  </results>
</root>`

const noResultsXML = `<root><feedbacks><noresults/><standard><currentpage>1</currentpage></standard></feedbacks></root>`

const availabilityXML = `<root>
  <cambrdgedb>
    <availability location="University Library" sublocation="North Wing" status="Available" itemcount="2"/>
    <availability location="Darwin College" sublocation="Stacks" status="On loan" itemcount="x" notes="Due back soon"/>
  </cambrdgedb>
  <depfacade>
    <availability location="Whipple" sublocation="Store" status="Available" itemcount="1"/>
  </depfacade>
</root>`

const suggestionsXML = `<cloud>
  <concept>darwn</concept>
  <i weight="5">darwin</i>
  <i weight="2">darwen</i>
  <i></i>
</cloud>`

func newTestEngine(t *testing.T, handler http.Handler, timeout time.Duration) *Engine {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	return New(Config{
		URL:             srv.URL + "/result.ashx",
		AvailabilityURL: srv.URL + "/availability.ashx",
		SuggestionsURL:  srv.URL + "/AquaServer.ashx",
		FacetsURL:       srv.URL + "/RefinePanel.ashx",
	}, upstream.New(Name, timeout))
}

func newService(e *Engine) *search.Service {
	return search.NewService(logger.New("error", false), search.Settings{
		PageLimit:        40,
		PaginationWindow: 2,
		DefaultEngine:    Name,
	}, e)
}

func TestBuildQueryString(t *testing.T) {
	tests := []struct {
		name     string
		query    search.Query
		selected bool
		want     string
	}{
		{
			name:     "id lookup ignores everything else",
			query:    search.Query{"id": {"12345"}, "q": {"darwin"}, "author": {"x"}},
			selected: true,
			want:     "cmd=find&noext=false&output=xml&q=id%3A12345&searchmode=assoc",
		},
		{
			name:     "filters ignored when not selected",
			query:    search.Query{"q": {"darwin"}, "author": {"x"}, "page": {"2"}},
			selected: false,
			want:     "cmd=find&noext=false&output=xml&q=darwin&searchmode=assoc",
		},
		{
			name: "selected adds clauses branch and page",
			query: search.Query{
				"q":      {"darwin"},
				"format": {"book"},
				"author": {"Charles Darwin"},
				"branch": {"Main Library"},
				"page":   {"2"},
			},
			selected: true,
			want: "branch=%22Main%20Library%22&cmd=find&curpage=2&noext=false&output=xml" +
				"&q=darwin%20format%3A%22book%22%20author%3A%22Charles%20Darwin%22&searchmode=assoc",
		},
		{
			name:     "format all is ignored",
			query:    search.Query{"q": {"darwin"}, "format": {"all"}},
			selected: true,
			want:     "cmd=find&noext=false&output=xml&q=darwin&searchmode=assoc",
		},
		{
			name:     "empty query",
			query:    search.Query{},
			selected: false,
			want:     "cmd=find&noext=false&output=xml&q=&searchmode=assoc",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, BuildQueryString(tt.query, tt.selected))
		})
	}
}

func TestEncodeComponent(t *testing.T) {
	assert.Equal(t, "a%20b!'()*%26c%2B", encodeComponent("a b!'()*&c+"))
}

func TestParseResponse(t *testing.T) {
	e := New(Config{}, nil)

	resp, err := e.ParseResponse([]byte(listingXML), search.Request{Query: search.Query{}})
	require.NoError(t, err)
	assert.False(t, resp.NoResults)
	assert.Equal(t, 2, resp.RecordCount)
	require.Len(t, resp.Records, 2)
	assert.Equal(t, "r1", recordID(resp.Records[0]))

	// the match markers are stripped before parsing
	assert.Equal(t, []string{"On the origin of species"}, titles(resp.Records[0]))
}

func TestParseResponseNoResults(t *testing.T) {
	e := New(Config{}, nil)

	resp, err := e.ParseResponse([]byte(noResultsXML), search.Request{Query: search.Query{}})
	require.NoError(t, err)
	assert.True(t, resp.NoResults)
	assert.Empty(t, resp.Records)
	assert.Equal(t, 0, resp.RecordCount)
}

func TestParseResponseDetailKeepsFirstDuplicate(t *testing.T) {
	e := New(Config{}, nil)
	body := `<root><feedbacks><standard><resultcount>2</resultcount></standard></feedbacks>
<results><record id="same" src="first"/><record id="same" src="second"/></results></root>`

	resp, err := e.ParseResponse([]byte(body), search.Request{Detail: true, Query: search.Query{"id": {"same"}}})
	require.NoError(t, err)
	require.Len(t, resp.Records, 1)
	assert.Equal(t, "first", recordSource(resp.Records[0]))
}

func TestParseResponseErrors(t *testing.T) {
	e := New(Config{}, nil)
	tests := []struct {
		name string
		body string
	}{
		{name: "malformed", body: "<root><feedbacks></root>"},
		{name: "missing root", body: "<other><a>1</a></other>"},
		{name: "empty", body: ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := e.ParseResponse([]byte(tt.body), search.Request{})
			assert.Error(t, err)
		})
	}
}

func TestExtractors(t *testing.T) {
	e := New(Config{}, nil)
	resp, err := e.ParseResponse([]byte(listingXML), search.Request{})
	require.NoError(t, err)

	first, err := e.AssembleResult(context.Background(), resp.Records[0], search.Request{})
	require.NoError(t, err)
	assert.Equal(t, "cambrdgedb", first.Source)
	require.NotNil(t, first.ExternalID)
	assert.Equal(t, "|cambrdgedb|1", *first.ExternalID)
	assert.Equal(t, []search.Author{{FullName: "Darwin, Charles"}}, first.Authors)
	assert.Equal(t, []string{"9780000000001"}, first.ISBN)
	require.NotNil(t, first.Published)
	assert.Equal(t, []string{"John Murray"}, first.Published.Title)
	assert.Equal(t, "1859", first.Published.Date.Label)
	require.NotNil(t, first.ContentType)
	assert.Equal(t, "Book", *first.ContentType)
	assert.Nil(t, first.EISBN)
	assert.Nil(t, first.Branches)

	second, err := e.AssembleResult(context.Background(), resp.Records[1], search.Request{})
	require.NoError(t, err)
	assert.Equal(t, []string{"The descent of man", "Descent"}, second.Titles)
	assert.Nil(t, second.ExternalID)
	assert.Nil(t, second.Authors)
	assert.Nil(t, second.Published)
	assert.Nil(t, second.ContentType)
}

func TestAssembleResultWithoutID(t *testing.T) {
	e := New(Config{}, nil)
	resp, err := e.ParseResponse([]byte(`<root><feedbacks><standard><resultcount>1</resultcount></standard></feedbacks><results><record src="x"><fields><title>t</title></fields></record></results></root>`), search.Request{})
	require.NoError(t, err)

	_, err = e.AssembleResult(context.Background(), resp.Records[0], search.Request{})
	assert.ErrorIs(t, err, search.ErrMissingID)
}

func TestAvailability(t *testing.T) {
	var gotQuery string
	e := newTestEngine(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		_, _ = w.Write([]byte(availabilityXML))
	}), time.Second)

	extID := "|cambrdgedb|1"
	branches, err := e.Availability(context.Background(), &extID)
	require.NoError(t, err)

	assert.Equal(t, "hreciid=%7Ccambrdgedb%7C1&output=xml", gotQuery)
	require.Len(t, branches, 3)
	assert.Equal(t, "University Library", branches[0].Location)
	require.NotNil(t, branches[0].ItemCount)
	assert.Equal(t, 2, *branches[0].ItemCount)
	assert.Nil(t, branches[0].Notes)

	assert.Equal(t, "On loan", branches[1].Status)
	assert.Nil(t, branches[1].ItemCount)
	require.NotNil(t, branches[1].Notes)
	assert.Equal(t, "Due back soon", *branches[1].Notes)

	assert.Equal(t, "Whipple", branches[2].Location)
}

func TestAvailabilityWithoutExternalID(t *testing.T) {
	e := New(Config{}, nil)
	branches, err := e.Availability(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, branches)
	assert.NotNil(t, branches)
}

func TestDetailFailsWhenAvailabilityTimesOut(t *testing.T) {
	e := newTestEngine(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}), 50*time.Millisecond)

	resp, err := e.ParseResponse([]byte(listingXML), search.Request{Detail: true})
	require.NoError(t, err)

	r, err := e.AssembleResult(context.Background(), resp.Records[0], search.Request{Detail: true})
	require.Error(t, err)
	assert.Nil(t, r)
	assert.True(t, upstream.IsTimeout(err))
}

func TestPageInfo(t *testing.T) {
	e := New(Config{}, nil)

	resp, err := e.ParseResponse([]byte(listingXML), search.Request{})
	require.NoError(t, err)
	info, err := e.PageInfo(resp, search.Request{Query: search.Query{}})
	require.NoError(t, err)
	assert.Equal(t, search.PageInfo{Page: 2, PageCount: 999, FirstPage: 1, LastPage: 999}, info)

	p := search.NewPagination(search.Query{"q": {"darwin"}}, Name, info, 40, 2)
	assert.Equal(t, 40, p.PageCount)
	assert.Equal(t, 40, p.LastPage)

	resp, err = e.ParseResponse([]byte(noResultsXML), search.Request{})
	require.NoError(t, err)
	info, err = e.PageInfo(resp, search.Request{Query: search.Query{}})
	require.NoError(t, err)
	assert.Equal(t, search.SinglePage(1), info)
}

func TestFacets(t *testing.T) {
	e := New(Config{}, nil)
	resp, err := e.ParseResponse([]byte(listingXML), search.Request{})
	require.NoError(t, err)

	q := search.Query{"q": {"darwin"}, "page": {"3"}}
	facets, err := e.Facets(resp, search.Request{Query: q})
	require.NoError(t, err)

	require.Len(t, facets, 2)
	assert.Equal(t, "Format", facets[0].Label)
	assert.Equal(t, 12, facets[0].Amount)
	require.Len(t, facets[0].Facets, 2)
	assert.Equal(t, search.Facet{Label: "Book", Amount: 10, URL: "api=aquabrowser&format=Book&q=darwin"}, facets[0].Facets[0])

	// a single keyword is still a list
	require.Len(t, facets[1].Facets, 1)
	assert.Equal(t, "English", facets[1].Facets[0].Label)
}

func TestFacetRequest(t *testing.T) {
	e := New(Config{FacetsURL: "http://catalogue.test/RefinePanel.ashx"}, nil)

	assert.True(t, e.SupportsFacet("Format"))
	assert.False(t, e.SupportsFacet("colour"))

	r, err := e.FacetRequest(context.Background(), search.Query{"q": {"charles darwin"}}, "Format")
	require.NoError(t, err)
	assert.Equal(t, "cmd=refanalyze&noext=false&output=xml&q=charles%20darwin&searchmode=assoc&t_dim=Format&t_method=-1", r.URL.RawQuery)

	r, err = e.FacetRequest(context.Background(), search.Query{"q": {"darwin"}}, "timeperiod")
	require.NoError(t, err)
	assert.Equal(t, "TimePeriod", r.URL.Query().Get("t_dim"))

	_, err = e.FacetRequest(context.Background(), search.Query{"q": {"darwin"}}, "colour")
	assert.Error(t, err)
}

func TestSuggestions(t *testing.T) {
	var gotPath, gotQuery string
	e := newTestEngine(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath, gotQuery = r.URL.Path, r.URL.RawQuery
		_, _ = w.Write([]byte(suggestionsXML))
	}), time.Second)

	q := search.Query{"q": {"darwn"}, "api": {"aquabrowser"}}
	sg, err := e.Suggestions(context.Background(), search.Request{Query: q})
	require.NoError(t, err)

	assert.Equal(t, "/AquaServer.ashx", gotPath)
	assert.Equal(t, "q=darwn", gotQuery)
	assert.Equal(t, "darwn", sg.OriginalQuery)
	assert.Equal(t, []search.Suggestion{
		{Label: "darwin", URL: "api=aquabrowser&q=darwin"},
		{Label: "darwen", URL: "api=aquabrowser&q=darwen"},
	}, sg.Items)

	// the inbound query is never modified
	assert.Equal(t, "darwn", q.Get("q"))
}

func TestSuggestionsRejectsUnexpectedPayload(t *testing.T) {
	e := newTestEngine(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("<root/>"))
	}), time.Second)

	_, err := e.Suggestions(context.Background(), search.Request{Query: search.Query{"q": {"x"}}})
	assert.ErrorIs(t, err, errNoCloud)
}

func TestListingThroughService(t *testing.T) {
	e := newTestEngine(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case strings.HasSuffix(r.URL.Path, "/result.ashx"):
			_, _ = w.Write([]byte(noResultsXML))
		case strings.HasSuffix(r.URL.Path, "/AquaServer.ashx"):
			_, _ = w.Write([]byte(suggestionsXML))
		default:
			http.NotFound(w, r)
		}
	}), time.Second)

	svc := newService(e)
	listing, err := svc.Search(context.Background(), search.Query{"q": {"darwn"}, "api": {"aquabrowser"}})
	require.NoError(t, err)

	assert.Equal(t, 0, listing.Results.RecordCount)
	assert.Empty(t, listing.Results.Results)
	require.NotNil(t, listing.Results.Suggestions)
	assert.Len(t, listing.Results.Suggestions.Items, 2)
}
