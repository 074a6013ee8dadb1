package handlers

import (
	"net/http"
	"time"

	"github.com/MrSnakeDoc/libgate/internal/httpserver/deps"
	"github.com/MrSnakeDoc/libgate/internal/version"
)

type engineHealth struct {
	Name    string `json:"name"`
	Timeout string `json:"timeout"`
	Default bool   `json:"default,omitempty"`
}

type healthzResponse struct {
	Status        string  `json:"status"`
	UptimeSeconds float64 `json:"uptime_seconds"`
	version.Info
	Engines []engineHealth `json:"engines"`
}

// Healthz reports liveness, the build stamp and the upstream timeout of every
// registered engine. It never calls an engine.
func Healthz(d deps.Deps) http.HandlerFunc {
	start := d.StartTime
	now := d.TimeNow
	if now == nil {
		now = time.Now
	}

	return func(w http.ResponseWriter, r *http.Request) {
		def := d.Service.Settings().DefaultEngine
		names := d.Service.Engines()
		engines := make([]engineHealth, 0, len(names))
		for _, name := range names {
			eh := engineHealth{Name: name, Default: name == def}
			if a, ok := d.Service.Engine(name); ok && a.Client() != nil {
				eh.Timeout = a.Client().Timeout().String()
			}
			engines = append(engines, eh)
		}

		writeJSON(w, http.StatusOK, healthzResponse{
			Status:        "ok",
			UptimeSeconds: now().Sub(start).Seconds(),
			Info:          d.Build,
			Engines:       engines,
		})
	}
}
