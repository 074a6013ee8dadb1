// Package aquabrowser adapts the library catalogue engine, which answers in
// loosely shaped XML, to the canonical search model.
package aquabrowser

import (
	"github.com/MrSnakeDoc/libgate/internal/search"
	"github.com/MrSnakeDoc/libgate/internal/upstream"
)

// Name is the engine identifier used in api= and in routes.
const Name = "aquabrowser"

// Config holds the catalogue endpoints.
type Config struct {
	URL             string
	AvailabilityURL string
	SuggestionsURL  string
	FacetsURL       string
}

// Engine implements search.Adapter for the catalogue.
type Engine struct {
	cfg    Config
	client *upstream.Client
}

var _ search.Adapter = (*Engine)(nil)

// New returns a catalogue adapter calling through client.
func New(cfg Config, client *upstream.Client) *Engine {
	return &Engine{cfg: cfg, client: client}
}

func (e *Engine) Name() string { return Name }

func (e *Engine) Client() *upstream.Client { return e.client }

// Capabilities: the catalogue offers spelling suggestions and only applies
// filters when it was picked explicitly.
func (e *Engine) Capabilities() search.Capabilities {
	return search.Capabilities{
		Suggestions:             true,
		FiltersRequireSelection: true,
	}
}
