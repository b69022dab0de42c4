// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/okian/grapple/internal/domain/match"
	"github.com/okian/grapple/internal/domain/model"
)

// EventsHandler handles scoring event requests.
type EventsHandler struct {
	deps Dependencies
}

// NewEventsHandler creates a new events handler.
func NewEventsHandler(deps Dependencies) *EventsHandler {
	return &EventsHandler{deps: deps}
}

// eventRequest mirrors the schema for POST /matches/{id}/events.
// EventID is the client-side idempotency key, not the ledger event id.
type eventRequest struct {
	EventID      string   `json:"event_id"`
	Side         string   `json:"side"`
	Action       string   `json:"action"`
	Position     string   `json:"position,omitempty"`
	VideoSeconds *float64 `json:"video_seconds,omitempty"`
}

func (e eventRequest) validate() error {
	switch {
	case strings.TrimSpace(e.EventID) == "":
		return NewKind("validate", ErrBadRequest)
	case !model.Side(e.Side).Valid():
		return NewKind("validate", ErrBadRequest)
	case strings.TrimSpace(e.Action) == "":
		return NewKind("validate", ErrBadRequest)
	}
	if e.VideoSeconds != nil && *e.VideoSeconds < 0 {
		return NewKind("validate", ErrBadRequest)
	}
	return nil
}

// eventResponse returns the created event plus the post-event match state so
// the UI can render score, phase, and a possible match completion in one
// round trip.
type eventResponse struct {
	Event     model.ScoringEvent `json:"event"`
	Match     match.Status       `json:"match"`
	Duplicate bool               `json:"duplicate"`
}

// HandlePostEvent handles POST /matches/{id}/events requests.
func (h *EventsHandler) HandlePostEvent(w http.ResponseWriter, r *http.Request) {
	const op = "api.post_event"
	matchID := r.PathValue("id")

	var req eventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	if err := req.validate(); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}

	// Idempotency check - mark as seen first.
	if h.deps.SeenAndRecord(r.Context(), req.EventID) {
		st, err := h.deps.Snapshot(r.Context(), matchID)
		if err != nil {
			writeDomainError(w, op, err)
			return
		}
		writeJSON(w, http.StatusOK, eventResponse{Match: st, Duplicate: true})
		return
	}

	videoSeconds := -1.0
	if req.VideoSeconds != nil {
		videoSeconds = *req.VideoSeconds
	}
	ev, st, err := h.deps.RecordEvent(r.Context(), matchID, model.Side(req.Side), model.ActionType(req.Action), req.Position, videoSeconds)
	if err != nil {
		// Roll back the seen mark so a corrected submission can reuse the id.
		h.deps.Unrecord(r.Context(), req.EventID)
		writeDomainError(w, op, err)
		return
	}
	writeJSON(w, http.StatusCreated, eventResponse{Event: ev, Match: st})
}

// HandleUndoEvent handles DELETE /matches/{id}/events/last requests.
func (h *EventsHandler) HandleUndoEvent(w http.ResponseWriter, r *http.Request) {
	const op = "api.undo_event"
	matchID := r.PathValue("id")

	ev, st, err := h.deps.UndoEvent(r.Context(), matchID)
	if err != nil {
		writeDomainError(w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, eventResponse{Event: ev, Match: st})
}
