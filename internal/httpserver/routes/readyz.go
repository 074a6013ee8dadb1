package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/libgate/internal/httpserver/deps"
	"github.com/MrSnakeDoc/libgate/internal/httpserver/handlers"
)

func init() { Register("readyz", registerReadyz, opsOnly) }

func registerReadyz(r chi.Router, d deps.Deps) {
	r.Get("/readyz", handlers.Readyz(d))
}
