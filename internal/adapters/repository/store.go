// Package repository defines the match archive store interface and errors.
//
// The store is the in-process stand-in for the team-management backend: it
// accepts finalized match records in exactly the shape that backend expects
// and answers the result and season-record queries the UI needs.
package repository

import (
	"context"

	"github.com/okian/grapple/internal/domain/model"
)

// Standing aggregates one wrestler's season record across archived matches.
type Standing struct {
	Wrestler    model.Wrestler        `json:"wrestler"`
	Wins        int                   `json:"wins"`
	Losses      int                   `json:"losses"`
	WinsByType  map[model.WinType]int `json:"wins_by_type"`
	MatchPoints int                   `json:"match_points"`
}

// Store provides read/write access to archived match records.
type Store interface {
	// Archive persists a finalized match record. Returns ErrAlreadyArchived
	// when the match id was archived before; the archive is append-only.
	Archive(ctx context.Context, rec model.MatchRecord) error

	// Get returns the archived record for a match id.
	// Returns ErrNotFound for unknown ids.
	Get(ctx context.Context, matchID string) (model.MatchRecord, error)

	// Recent returns up to limit records, most recently finished first.
	Recent(ctx context.Context, limit int) ([]model.MatchRecord, error)

	// StandingFor returns the season standing for a wrestler id.
	// Returns ErrNotFound for wrestlers with no archived matches.
	StandingFor(ctx context.Context, wrestlerID string) (Standing, error)

	// Count returns the number of archived matches.
	Count(ctx context.Context) int
}
