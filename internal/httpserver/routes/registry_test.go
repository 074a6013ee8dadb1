package routes

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"

	"github.com/MrSnakeDoc/libgate/internal/httpserver/deps"
	"github.com/MrSnakeDoc/libgate/internal/logger"
)

func TestRegisterAllAppliesGuards(t *testing.T) {
	r := chi.NewRouter()
	RegisterAll(r, deps.Deps{
		Logger:       logger.New("error", false),
		AllowedHosts: []string{"search.lib.example.org"},
		AllowedCIDRS: []string{"10.0.0.0/8"},
	})

	for _, target := range []string{"/healthz", "/readyz"} {
		req := httptest.NewRequest(http.MethodGet, target, nil)
		req.RemoteAddr = "192.168.1.1:5555"
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusForbidden, rec.Code, target)
		assert.JSONEq(t, `{"code":403,"msg":"Forbidden"}`, rec.Body.String(), target)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/search?q=x", nil)
	req.Host = "evil.example"
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	assert.True(t, r.Match(chi.NewRouteContext(), http.MethodGet, "/api/resources/summon/FETCH-1"))
}

func TestRegisterRejectsNilRegistrar(t *testing.T) {
	assert.Panics(t, func() { Register("broken", nil) })
}
