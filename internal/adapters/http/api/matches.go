// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/okian/grapple/internal/domain/model"
)

// MatchesHandler handles match lifecycle requests.
type MatchesHandler struct {
	deps Dependencies
}

// NewMatchesHandler creates a new matches handler.
func NewMatchesHandler(deps Dependencies) *MatchesHandler {
	return &MatchesHandler{deps: deps}
}

// createMatchRequest mirrors the schema for POST /matches.
type createMatchRequest struct {
	Home wrestlerPayload `json:"home"`
	Away wrestlerPayload `json:"away"`
}

type wrestlerPayload struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Team string `json:"team"`
}

func (r createMatchRequest) validate() error {
	for _, w := range []wrestlerPayload{r.Home, r.Away} {
		switch {
		case strings.TrimSpace(w.ID) == "":
			return NewKind("validate", ErrBadRequest)
		case strings.TrimSpace(w.Name) == "":
			return NewKind("validate", ErrBadRequest)
		}
	}
	if r.Home.ID == r.Away.ID {
		return NewKind("validate", ErrBadRequest)
	}
	return nil
}

func (p wrestlerPayload) wrestler() model.Wrestler {
	return model.Wrestler{ID: p.ID, Name: p.Name, Team: p.Team}
}

// HandleCreateMatch handles POST /matches requests.
func (h *MatchesHandler) HandleCreateMatch(w http.ResponseWriter, r *http.Request) {
	const op = "api.create_match"
	var req createMatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	if err := req.validate(); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}

	st, err := h.deps.CreateMatch(r.Context(), req.Home.wrestler(), req.Away.wrestler())
	if err != nil {
		writeDomainError(w, op, err)
		return
	}
	writeJSON(w, http.StatusCreated, st)
}

// HandleGetMatch handles GET /matches/{id} requests.
func (h *MatchesHandler) HandleGetMatch(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_match"
	id := r.PathValue("id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
		return
	}
	st, err := h.deps.Snapshot(r.Context(), id)
	if err != nil {
		writeDomainError(w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, st)
}
