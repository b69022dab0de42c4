// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"net/http"
	"strconv"
)

// ResultsHandler handles archive read requests.
type ResultsHandler struct {
	deps     Dependencies
	maxLimit int
}

// NewResultsHandler creates a new results handler.
func NewResultsHandler(deps Dependencies, maxLimit int) *ResultsHandler {
	return &ResultsHandler{deps: deps, maxLimit: maxLimit}
}

// HandleGetResults handles GET /results?limit=N requests.
func (h *ResultsHandler) HandleGetResults(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_results"
	limitStr := r.URL.Query().Get("limit")
	n, err := strconv.Atoi(limitStr)
	if err != nil || n < 1 {
		writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
		return
	}
	if n > h.maxLimit {
		writeError(w, http.StatusBadRequest, "limit_exceeded", NewKind(op, ErrBadRequest))
		return
	}
	records, err := h.deps.Recent(r.Context(), n)
	if err != nil {
		writeDomainError(w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, records)
}

// HandleGetStanding handles GET /records/{wrestlerID} requests.
func (h *ResultsHandler) HandleGetStanding(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_standing"
	id := r.PathValue("wrestlerID")
	if id == "" {
		writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
		return
	}
	standing, err := h.deps.StandingFor(r.Context(), id)
	if err != nil {
		writeDomainError(w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, standing)
}
