package search

import (
	"encoding/json"
	"fmt"
	"net/http"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Error is a caller-facing failure rendered as {"code":...,"msg":...}.
type Error struct {
	Code int    `json:"code"`
	Msg  string `json:"msg"`
}

func (e *Error) Error() string {
	return fmt.Sprintf("%d: %s", e.Code, e.Msg)
}

var (
	ErrInvalidFacet  = &Error{Code: http.StatusBadRequest, Msg: "Invalid facet"}
	ErrInvalidQuery  = &Error{Code: http.StatusBadRequest, Msg: "Invalid query"}
	ErrUnknownEngine = &Error{Code: http.StatusNotFound, Msg: "Unknown engine"}
	ErrNotFound      = &Error{Code: http.StatusNotFound, Msg: "Resource not found"}
	ErrFacetsFailed  = &Error{Code: http.StatusInternalServerError, Msg: "Error while fetching facets"}
	ErrForbidden     = &Error{Code: http.StatusForbidden, Msg: "Forbidden"}
)

// Write renders e as the JSON envelope with e.Code as the status.
func (e *Error) Write(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(e.Code)
	_ = json.NewEncoder(w).Encode(e)
}

// EngineError is any transport, status, parse or record-assembly failure of
// one engine. Its message is generic; the cause is kept for logs.
type EngineError struct {
	Engine string
	Err    error
}

func (e *EngineError) Error() string {
	return fmt.Sprintf("An error occurred while fetching %s data", cases.Title(language.English).String(e.Engine))
}

func (e *EngineError) Unwrap() error { return e.Err }
