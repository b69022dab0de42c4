// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/okian/grapple/internal/adapters/repository"
	"github.com/okian/grapple/internal/domain/dedupe"
	"github.com/okian/grapple/internal/domain/match"
	"github.com/okian/grapple/internal/domain/model"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	dedupe.Deduper

	// Live match operations.
	CreateMatch(ctx context.Context, home, away model.Wrestler) (match.Status, error)
	Snapshot(ctx context.Context, matchID string) (match.Status, error)
	RecordEvent(ctx context.Context, matchID string, side model.Side, action model.ActionType, positionLabel string, videoSeconds float64) (model.ScoringEvent, match.Status, error)
	UndoEvent(ctx context.Context, matchID string) (model.ScoringEvent, match.Status, error)
	SetPosition(ctx context.Context, matchID string, state model.PositionState, side model.Side) (match.Status, error)
	SetClock(ctx context.Context, matchID string, running bool) (match.Status, error)
	AdvancePeriod(ctx context.Context, matchID string, decision model.Side) (match.Status, error)

	// Archive reads.
	Recent(ctx context.Context, limit int) ([]model.MatchRecord, error)
	StandingFor(ctx context.Context, wrestlerID string) (repository.Standing, error)
}

// Server wires HTTP routes for the scoring API.
type Server struct {
	healthHandler  *HealthHandler
	statsHandler   *StatsHandler
	matchesHandler *MatchesHandler
	eventsHandler  *EventsHandler
	controlHandler *ControlHandler
	resultsHandler *ResultsHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider, maxResultsLimit int) *Server {
	return &Server{
		healthHandler:  NewHealthHandler(),
		statsHandler:   NewStatsHandler(statsProvider),
		matchesHandler: NewMatchesHandler(deps),
		eventsHandler:  NewEventsHandler(deps),
		controlHandler: NewControlHandler(deps),
		resultsHandler: NewResultsHandler(deps, maxResultsLimit),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(ctx context.Context, mux *http.ServeMux) {
	mux.HandleFunc("GET /healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("GET /stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))

	mux.HandleFunc("POST /matches", MetricsMiddleware(s.matchesHandler.HandleCreateMatch, "matches"))
	mux.HandleFunc("GET /matches/{id}", MetricsMiddleware(s.matchesHandler.HandleGetMatch, "match"))

	mux.HandleFunc("POST /matches/{id}/events", MetricsMiddleware(s.eventsHandler.HandlePostEvent, "events"))
	mux.HandleFunc("DELETE /matches/{id}/events/last", MetricsMiddleware(s.eventsHandler.HandleUndoEvent, "undo"))

	mux.HandleFunc("POST /matches/{id}/position", MetricsMiddleware(s.controlHandler.HandleSetPosition, "position"))
	mux.HandleFunc("POST /matches/{id}/clock", MetricsMiddleware(s.controlHandler.HandleSetClock, "clock"))
	mux.HandleFunc("POST /matches/{id}/period", MetricsMiddleware(s.controlHandler.HandleAdvancePeriod, "period"))

	mux.HandleFunc("GET /results", MetricsMiddleware(s.resultsHandler.HandleGetResults, "results"))
	mux.HandleFunc("GET /records/{wrestlerID}", MetricsMiddleware(s.resultsHandler.HandleGetStanding, "records"))
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// writeDomainError translates rule and lookup errors into status codes:
// unknown ids are 404, frozen or undecidable matches are 409 conflicts,
// everything else the operator sent is a 400.
func writeDomainError(w http.ResponseWriter, op string, err error) {
	switch {
	case isNotFound(err):
		writeError(w, http.StatusNotFound, "not_found", Wrap(op, err))
	case errors.Is(err, match.ErrMatchComplete):
		writeError(w, http.StatusConflict, "match_complete", Wrap(op, err))
	case isConflict(err):
		writeError(w, http.StatusConflict, "conflict", Wrap(op, err))
	case isBadRequest(err):
		writeError(w, http.StatusBadRequest, "bad_request", Wrap(op, err))
	default:
		writeError(w, http.StatusInternalServerError, "internal_error", Wrap(op, err))
	}
}

// isNotFound allows the API to translate upstream not-found errors to 404
// without importing every producer package.
func isNotFound(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, repository.ErrNotFound) {
		return true
	}
	return strings.Contains(strings.ToLower(err.Error()), "not found")
}
