package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/libgate/internal/httpserver/deps"
	"github.com/MrSnakeDoc/libgate/internal/httpserver/mw"
	"github.com/MrSnakeDoc/libgate/internal/logger"
)

type (
	Registrar func(r chi.Router, d deps.Deps)
	// Guard builds a per-group middleware once the dependencies are known.
	Guard func(d deps.Deps) func(http.Handler) http.Handler
)

type entry struct {
	name   string
	reg    Registrar
	guards []Guard
}

var registry []entry

// Register adds a named route group. Guards wrap every route of the group.
func Register(name string, reg Registrar, guards ...Guard) {
	if reg == nil {
		panic("❌ FATAL: nil registrar for route group " + name)
	}
	registry = append(registry, entry{name: name, reg: reg, guards: guards})
}

// opsOnly restricts a group to the operator CIDRs.
func opsOnly(d deps.Deps) func(http.Handler) http.Handler {
	return mw.AllowOnlyCIDRS(d.AllowedCIDRS, d.TrustProxy, d.Logger)
}

// apiHosts restricts a group to the configured portal hosts.
func apiHosts(d deps.Deps) func(http.Handler) http.Handler {
	return mw.EnforceHost(d.AllowedHosts, d.Logger)
}

// RegisterAll mounts every group on r. Called once from httpserver.New.
func RegisterAll(r chi.Router, d deps.Deps) {
	for _, e := range registry {
		sub := r
		if len(e.guards) > 0 {
			mws := make([]func(http.Handler) http.Handler, 0, len(e.guards))
			for _, g := range e.guards {
				mws = append(mws, g(d))
			}
			sub = r.With(mws...)
		}
		e.reg(sub, d)
		d.Logger.Debug("route group registered", logger.String("group", e.name), logger.Int("guards", len(e.guards)))
	}

	_ = chi.Walk(r, func(method, route string, _ http.Handler, _ ...func(http.Handler) http.Handler) error {
		d.Logger.Debug("route", logger.String("method", method), logger.String("route", route))
		return nil
	})
}
