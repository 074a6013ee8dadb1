package search

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/MrSnakeDoc/libgate/internal/logger"
	"github.com/MrSnakeDoc/libgate/internal/tree"
)

// Settings are the portal options the aggregator applies to every engine.
type Settings struct {
	PageLimit        int
	PaginationWindow int
	AllowedParams    []string
	DefaultEngine    string
}

// Service is the results aggregator. It sanitizes nothing itself: callers
// pass a Query produced by Sanitize.
type Service struct {
	log      logger.Logger
	settings Settings
	engines  map[string]Adapter
	order    []string
}

// NewService registers the given adapters by name.
func NewService(log logger.Logger, settings Settings, adapters ...Adapter) *Service {
	s := &Service{
		log:      log,
		settings: settings,
		engines:  make(map[string]Adapter, len(adapters)),
	}
	for _, a := range adapters {
		s.engines[a.Name()] = a
		s.order = append(s.order, a.Name())
	}
	return s
}

// Engines lists the registered engine names in registration order.
func (s *Service) Engines() []string {
	return s.order
}

// Settings returns the portal settings the service was built with.
func (s *Service) Settings() Settings {
	return s.settings
}

// Engine returns the adapter registered under name.
func (s *Service) Engine(name string) (Adapter, bool) {
	a, ok := s.engines[strings.ToLower(name)]
	return a, ok
}

// pick resolves the api parameter, falling back to the default engine.
func (s *Service) pick(q Query) (Adapter, bool, error) {
	if name := q.Get(ParamEngine); name != "" {
		if a, ok := s.Engine(name); ok {
			return a, true, nil
		}
	}
	a, ok := s.Engine(s.settings.DefaultEngine)
	if !ok {
		return nil, false, ErrUnknownEngine
	}
	return a, false, nil
}

// Search runs a listing against the selected engine and returns the results
// with the decoded query that produced them.
func (s *Service) Search(ctx context.Context, q Query) (*Listing, error) {
	a, selected, err := s.pick(q)
	if err != nil {
		return nil, err
	}

	req := Request{Query: q, Detail: q.Has(ParamID), Selected: selected}
	results, _, err := s.run(ctx, a, req)
	if err != nil {
		return nil, err
	}
	return &Listing{Results: results, Query: q.Decoded()}, nil
}

// Resource looks up one record by id. Availability is resolved before the
// result is returned; any failure along the way fails the lookup.
func (s *Service) Resource(ctx context.Context, engine, id string) (*Result, error) {
	a, ok := s.Engine(engine)
	if !ok {
		return nil, ErrUnknownEngine
	}
	if strings.TrimSpace(id) == "" {
		return nil, ErrNotFound
	}

	q := Query{ParamID: {id}}
	_, records, err := s.run(ctx, a, Request{Query: q, Detail: true, Selected: true})
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, ErrNotFound
	}
	return records[0], nil
}

// Facets fetches the values of one facet category for a free-text query.
func (s *Service) Facets(ctx context.Context, q Query) ([]FacetType, error) {
	facet := q.Get(ParamFacet)
	if facet == "" {
		return nil, ErrInvalidFacet
	}
	if q.Get(ParamQuery) == "" {
		return nil, ErrInvalidQuery
	}

	a, _, err := s.pick(q)
	if err != nil {
		return nil, err
	}
	if !a.SupportsFacet(facet) {
		return nil, ErrInvalidFacet
	}

	httpReq, err := a.FacetRequest(ctx, q, facet)
	if err != nil {
		s.log.Error("failed to build facet request",
			logger.Engine(a.Name()), logger.Error(err))
		return nil, ErrFacetsFailed
	}
	body, err := a.Client().Do(httpReq)
	if err != nil {
		s.log.Error("failed to fetch facets",
			logger.Engine(a.Name()), logger.String("facet", facet), logger.Error(err))
		return nil, ErrFacetsFailed
	}
	facets, err := a.ParseFacets(body, q)
	if err != nil {
		s.log.Error("failed to parse facets",
			logger.Engine(a.Name()), logger.String("facet", facet), logger.Error(err))
		return nil, ErrFacetsFailed
	}
	return facets, nil
}

// run performs the base call, assembles every record concurrently into its
// own slot and then derives the facets, pagination and suggestions.
func (s *Service) run(ctx context.Context, a Adapter, req Request) (*Results, []*Result, error) {
	fail := func(stage string, err error) error {
		s.log.Error("engine request failed",
			logger.Engine(a.Name()),
			logger.String("stage", stage),
			logger.Bool("detail", req.Detail),
			logger.Error(err))
		return &EngineError{Engine: a.Name(), Err: err}
	}

	httpReq, err := a.BuildRequest(ctx, req)
	if err != nil {
		return nil, nil, fail("build", err)
	}
	body, err := a.Client().Do(httpReq)
	if err != nil {
		return nil, nil, fail("fetch", err)
	}
	resp, err := a.ParseResponse(body, req)
	if err != nil {
		return nil, nil, fail("parse", err)
	}

	records := resp.Records
	if resp.NoResults {
		records = nil
	}
	if req.Detail && len(records) > 1 {
		records = records[:1]
	}

	assembled, err := s.assemble(ctx, a, records, req)
	if err != nil {
		return nil, nil, fail("assemble", err)
	}

	results := &Results{
		RecordCount:    resp.RecordCount,
		Facets:         []FacetType{},
		FacetsOverview: []AppliedFacet{},
		Results:        assembled,
	}
	if resp.NoResults {
		results.RecordCount = 0
	}

	if facets, err := a.Facets(resp, req); err != nil {
		s.log.Warn("facets unavailable, continuing without",
			logger.Engine(a.Name()), logger.Error(err))
	} else if facets != nil {
		results.Facets = facets
	}

	if !a.Capabilities().FiltersRequireSelection || req.Selected {
		results.FacetsOverview = FacetOverview(req.Query)
	}

	info, err := a.PageInfo(resp, req)
	if err != nil {
		s.log.Warn("pagination unavailable, using a single page",
			logger.Engine(a.Name()), logger.Error(err))
		info = SinglePage(req.Query.Page())
	}
	results.Pagination = NewPagination(req.Query, a.Name(), info, s.settings.PageLimit, s.settings.PaginationWindow)

	if results.RecordCount == 0 && a.Capabilities().Suggestions {
		results.Suggestions = s.suggestions(ctx, a, req)
	}

	return results, assembled, nil
}

// assemble builds one Result per record. Each task owns results[i], so the
// output keeps upstream order whatever order the tasks finish in. A failing
// task does not cancel its siblings; Wait returns the first error.
func (s *Service) assemble(ctx context.Context, a Adapter, records []*tree.Node, req Request) ([]*Result, error) {
	results := make([]*Result, len(records))

	var g errgroup.Group
	for i, rec := range records {
		g.Go(func() error {
			r, err := a.AssembleResult(ctx, rec, req)
			if err != nil {
				return fmt.Errorf("record %d: %w", i, err)
			}
			if r == nil {
				return fmt.Errorf("record %d: %w", i, ErrMissingID)
			}
			results[i] = r
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func (s *Service) suggestions(ctx context.Context, a Adapter, req Request) *Suggestions {
	empty := &Suggestions{OriginalQuery: req.Query.Get(ParamQuery), Items: []Suggestion{}}
	if req.Query.Get(ParamQuery) == "" {
		return empty
	}

	sg, err := a.Suggestions(ctx, req)
	if err != nil {
		s.log.Warn("suggestions unavailable, continuing without",
			logger.Engine(a.Name()), logger.Error(err))
		return empty
	}
	if sg == nil {
		return empty
	}
	if sg.Items == nil {
		sg.Items = []Suggestion{}
	}
	return sg
}

// ErrMissingID is returned by adapters for a record without an identifier.
var ErrMissingID = errors.New("invalid or no resource id returned from server")
