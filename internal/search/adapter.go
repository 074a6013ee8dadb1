package search

import (
	"context"
	"net/http"

	"github.com/MrSnakeDoc/libgate/internal/tree"
	"github.com/MrSnakeDoc/libgate/internal/upstream"
)

// Request is one call to an engine.
type Request struct {
	Query Query
	// Detail is set for single-resource lookups by id.
	Detail bool
	// Selected is set when the caller named the engine explicitly with api=.
	Selected bool
}

// Response is a parsed upstream payload.
type Response struct {
	RecordCount int
	NoResults   bool
	Records     []*tree.Node
	Root        *tree.Node
}

// Capabilities describes the optional behaviour of an engine.
type Capabilities struct {
	Suggestions bool
	// FiltersRequireSelection hides applied facets unless the engine was
	// selected, because its request builder ignores filters otherwise.
	FiltersRequireSelection bool
}

// Adapter turns portal queries into upstream calls and upstream payloads into
// the canonical model. Extraction never fails; only transport and parse
// errors are returned.
type Adapter interface {
	Name() string
	Capabilities() Capabilities
	Client() *upstream.Client

	BuildRequest(ctx context.Context, req Request) (*http.Request, error)
	ParseResponse(body []byte, req Request) (*Response, error)
	AssembleResult(ctx context.Context, record *tree.Node, req Request) (*Result, error)

	Facets(resp *Response, req Request) ([]FacetType, error)
	PageInfo(resp *Response, req Request) (PageInfo, error)
	Suggestions(ctx context.Context, req Request) (*Suggestions, error)

	SupportsFacet(name string) bool
	FacetRequest(ctx context.Context, q Query, facet string) (*http.Request, error)
	ParseFacets(body []byte, q Query) ([]FacetType, error)
}
