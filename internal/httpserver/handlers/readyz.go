package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/MrSnakeDoc/libgate/internal/httpserver/deps"
)

type readyzResponse struct {
	Ready         bool     `json:"ready"`
	Engines       []string `json:"engines"`
	DefaultEngine string   `json:"default_engine"`
}

func Readyz(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")

		engines := d.Service.Engines()
		def := d.Service.Settings().DefaultEngine
		_, ok := d.Service.Engine(def)
		ready := len(engines) > 0 && ok

		if ready {
			w.WriteHeader(http.StatusOK)
		} else {
			w.WriteHeader(http.StatusServiceUnavailable)
		}

		_ = json.NewEncoder(w).Encode(readyzResponse{
			Ready:         ready,
			Engines:       engines,
			DefaultEngine: def,
		})
	}
}
