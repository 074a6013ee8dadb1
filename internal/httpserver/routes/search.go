package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/libgate/internal/httpserver/deps"
	"github.com/MrSnakeDoc/libgate/internal/httpserver/handlers"
)

func init() { Register("api", registerSearch) }

func registerSearch(r chi.Router, d deps.Deps) {
	r.Route("/api", func(api chi.Router) {
		api.Use(apiHosts(d))
		api.Get("/search", handlers.Search(d))
		api.Get("/resources/{engine}/{id}", handlers.Resource(d))
		api.Get("/facets", handlers.Facets(d))
	})
}
