// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"encoding/json"
	"net/http"

	"github.com/okian/grapple/internal/domain/model"
)

// ControlHandler handles position, clock and period requests.
type ControlHandler struct {
	deps Dependencies
}

// NewControlHandler creates a new control handler.
func NewControlHandler(deps Dependencies) *ControlHandler {
	return &ControlHandler{deps: deps}
}

// positionRequest mirrors the schema for POST /matches/{id}/position.
// Side names the controlling wrestler for top, the wrestler underneath for
// bottom, and is ignored for uncontrolled states.
type positionRequest struct {
	State string `json:"state"`
	Side  string `json:"side,omitempty"`
}

// HandleSetPosition handles POST /matches/{id}/position requests.
func (h *ControlHandler) HandleSetPosition(w http.ResponseWriter, r *http.Request) {
	const op = "api.set_position"
	matchID := r.PathValue("id")

	var req positionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	if !model.PositionState(req.State).Valid() {
		writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
		return
	}

	st, err := h.deps.SetPosition(r.Context(), matchID, model.PositionState(req.State), model.Side(req.Side))
	if err != nil {
		writeDomainError(w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, st)
}

// clockRequest mirrors the schema for POST /matches/{id}/clock.
type clockRequest struct {
	Running bool `json:"running"`
}

// HandleSetClock handles POST /matches/{id}/clock requests.
func (h *ControlHandler) HandleSetClock(w http.ResponseWriter, r *http.Request) {
	const op = "api.set_clock"
	matchID := r.PathValue("id")

	var req clockRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}

	st, err := h.deps.SetClock(r.Context(), matchID, req.Running)
	if err != nil {
		writeDomainError(w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, st)
}

// periodRequest mirrors the schema for POST /matches/{id}/period. Decision
// carries the judge's pick for a tied ultimate tiebreaker.
type periodRequest struct {
	Decision string `json:"decision,omitempty"`
}

// HandleAdvancePeriod handles POST /matches/{id}/period requests.
func (h *ControlHandler) HandleAdvancePeriod(w http.ResponseWriter, r *http.Request) {
	const op = "api.advance_period"
	matchID := r.PathValue("id")

	var req periodRequest
	if r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
			return
		}
	}
	if req.Decision != "" && !model.Side(req.Decision).Valid() {
		writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
		return
	}

	st, err := h.deps.AdvancePeriod(r.Context(), matchID, model.Side(req.Decision))
	if err != nil {
		writeDomainError(w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, st)
}
