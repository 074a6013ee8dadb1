// Package summon adapts the discovery engine, a signed JSON API, to the
// canonical search model.
package summon

import (
	"time"

	"github.com/MrSnakeDoc/libgate/internal/search"
	"github.com/MrSnakeDoc/libgate/internal/upstream"
)

// Name is the engine identifier used in api= and in routes.
const Name = "summon"

// Config holds the API location, credentials and the fixed search options
// added to every request.
type Config struct {
	Scheme  string
	Host    string
	Version string
	AuthID  string
	AuthKey string

	PageSize     int
	HoldingsOnly bool
	FacetFields  []string
	FacetLimit   int

	// ContentTypes maps portal format values to engine content types.
	ContentTypes map[string]string
}

// Engine implements search.Adapter for the discovery engine.
type Engine struct {
	cfg    Config
	client *upstream.Client
	signer *Signer
}

var _ search.Adapter = (*Engine)(nil)

// Option configures an Engine.
type Option func(*Engine)

// WithClock replaces the clock used for the x-summon-date header.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		if now != nil {
			e.signer.now = now
		}
	}
}

// New returns a discovery adapter calling through client.
func New(cfg Config, client *upstream.Client, opts ...Option) *Engine {
	if cfg.Scheme == "" {
		cfg.Scheme = "http"
	}
	e := &Engine{
		cfg:    cfg,
		client: client,
		signer: NewSigner(cfg.AuthID, cfg.AuthKey),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func (e *Engine) Name() string { return Name }

func (e *Engine) Client() *upstream.Client { return e.client }

// Capabilities: no suggestions, filters always apply.
func (e *Engine) Capabilities() search.Capabilities {
	return search.Capabilities{}
}
