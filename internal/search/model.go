package search

// Result is one bibliographic resource, normalized from either engine.
// Nil pointers and nil slices serialize as null.
type Result struct {
	ID          string           `json:"id"`
	Source      string           `json:"src"`
	ExternalID  *string          `json:"extId"`
	Titles      []string         `json:"titles"`
	ISBN        []string         `json:"isbn"`
	EISBN       []string         `json:"eisbn"`
	ISSN        []string         `json:"issn"`
	SSID        []string         `json:"ssid"`
	Authors     []Author         `json:"authors"`
	Published   *PublicationData `json:"published"`
	Subjects    []string         `json:"subjects"`
	Series      []string         `json:"series"`
	Notes       []string         `json:"notes"`
	ContentType *string          `json:"contentType"`
	Thumbnails  []string         `json:"thumbnails"`
	Links       []string         `json:"links"`
	Branches    []Branch         `json:"branches"`
}

// Author of a resource.
type Author struct {
	FullName string `json:"fullName"`
}

// PublicationData groups where and when a resource was published.
type PublicationData struct {
	Title  []string        `json:"title"`
	Date   PublicationDate `json:"date"`
	Volume []string        `json:"volume"`
	Issue  []string        `json:"issue"`
	Page   PublicationPage `json:"page"`
}

// PublicationDate keeps the parts the engine returned; Label joins the
// present parts as day-month-year.
type PublicationDate struct {
	Day   *string `json:"day"`
	Month *string `json:"month"`
	Year  *string `json:"year"`
	Label string  `json:"label"`
}

// PublicationPage is a page range; Label is "start-end" of the present parts.
type PublicationPage struct {
	Start *string `json:"start"`
	End   *string `json:"end"`
	Label string  `json:"label"`
}

// Branch is the availability of a resource at one location.
type Branch struct {
	Location               string  `json:"location"`
	Sublocation            string  `json:"sublocation"`
	Status                 string  `json:"status"`
	ItemCount              *int    `json:"itemCount"`
	ExternalDatasourceName *string `json:"externalDatasourceName"`
	NativeID               *string `json:"nativeId"`
	PlaceHoldURL           *string `json:"placeHoldUrl"`
	Notes                  *string `json:"notes"`
}

// Facet is one filter value with its count and the URL toggling it.
type Facet struct {
	Label  string `json:"label"`
	Amount int    `json:"amount"`
	URL    string `json:"url"`
}

// FacetType groups the facets of one category.
type FacetType struct {
	Label  string  `json:"label"`
	Amount int     `json:"amount"`
	Facets []Facet `json:"facets"`
}

// AppliedFacet is a filter present in the inbound query; URL removes it.
type AppliedFacet struct {
	Type  string `json:"type"`
	Value string `json:"value"`
	URL   string `json:"url"`
}

// Pagination describes the page window of a listing. URL is the encoded
// query without its page parameter.
type Pagination struct {
	Page      int    `json:"page"`
	PageCount int    `json:"pageCount"`
	FirstPage int    `json:"firstPage"`
	LastPage  int    `json:"lastPage"`
	URL       string `json:"url"`
	Window    []int  `json:"window"`
}

// Suggestion is an alternative query.
type Suggestion struct {
	Label string `json:"label"`
	URL   string `json:"url"`
}

// Suggestions is set only on zero-result catalogue searches.
type Suggestions struct {
	OriginalQuery string       `json:"originalQuery"`
	Items         []Suggestion `json:"items"`
}

// Results is the envelope of one listing.
type Results struct {
	RecordCount    int            `json:"recordCount"`
	Facets         []FacetType    `json:"facets"`
	FacetsOverview []AppliedFacet `json:"facetsOverview"`
	Results        []*Result      `json:"results"`
	Pagination     Pagination     `json:"pagination"`
	Suggestions    *Suggestions   `json:"suggestions"`
}

// Listing is what a search returns to its caller: the results and the
// decoded query that produced them.
type Listing struct {
	Results *Results `json:"results"`
	Query   Query    `json:"query"`
}
