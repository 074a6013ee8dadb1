package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/MrSnakeDoc/libgate/internal/httpserver/deps"
	"github.com/MrSnakeDoc/libgate/internal/logger"
	"github.com/MrSnakeDoc/libgate/internal/search"
)

// Search runs a listing against the engine named by api=, or the default one.
func Search(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := sanitize(r, d)

		d.Logger.Debug("search request",
			logger.String("query", q.Encode()))

		listing, err := d.Service.Search(r.Context(), q)
		if err != nil {
			writeError(w, r, d, err)
			return
		}
		writeJSON(w, http.StatusOK, listing)
	}
}

// Resource returns the full record of one id, availability included.
func Resource(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		engine := chi.URLParam(r, "engine")
		id, err := url.PathUnescape(chi.URLParam(r, "id"))
		if err != nil || id == "" {
			writeError(w, r, d, search.ErrNotFound)
			return
		}

		res, err := d.Service.Resource(r.Context(), engine, id)
		if err != nil {
			writeError(w, r, d, err)
			return
		}
		writeJSON(w, http.StatusOK, res)
	}
}

// Facets returns the complete value list of one facet type.
func Facets(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := sanitize(r, d)

		facets, err := d.Service.Facets(r.Context(), q)
		if err != nil {
			writeError(w, r, d, err)
			return
		}
		writeJSON(w, http.StatusOK, facets)
	}
}

func sanitize(r *http.Request, d deps.Deps) search.Query {
	st := d.Service.Settings()
	return search.Sanitize(r.URL.Query(), st.AllowedParams, st.PageLimit)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError maps pipeline errors to responses. Causes behind an engine
// failure are logged by the service and never reach the caller.
func writeError(w http.ResponseWriter, r *http.Request, d deps.Deps, err error) {
	var apiErr *search.Error
	if errors.As(err, &apiErr) {
		apiErr.Write(w)
		return
	}

	var engineErr *search.EngineError
	if errors.As(err, &engineErr) {
		http.Error(w, engineErr.Error(), http.StatusBadGateway)
		return
	}

	d.Logger.Error("unhandled request error",
		logger.String("path", r.URL.Path),
		logger.String("request_id", middleware.GetReqID(r.Context())),
		logger.Error(err))
	http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
}
