// Package scoring implements the tournament scoring and winner-ranking engine.
//
// The engine is deliberately pure: it receives plain in-memory snapshots of
// holes, participants, divisions, and scorecards, and returns plain result
// values. It holds no database handles, no globals, and performs no I/O — the
// handlers in internal/handlers load rows, convert them to the snapshot types
// below, invoke the engine, and persist whatever comes back. That split keeps
// every scoring rule unit-testable without a database.
//
// Two strategy families live here, both selected by the event's scoring type:
//
//   - Strategy (strategy.go): converts a single hole's strokes into derived
//     net score and points, validates raw input, and produces the leaderboard
//     sort key for its scoring type.
//   - WinnerStrategy (winners.go): ranks a whole event's participants into
//     overall and per-division winner results, including tie detection,
//     tie-break attribution, and System 36 Modified division reassignment.
package scoring

import (
	"errors"

	"github.com/google/uuid"

	"github.com/fairwaylabs/tourney/internal/models"
)

// ScoringType aliases the models enum so engine call sites and tests read
// naturally without importing models themselves.
type ScoringType = models.ScoringType

const (
	TypeStroke     = models.ScoringTypeStroke
	TypeNetStroke  = models.ScoringTypeNetStroke
	TypeSystem36   = models.ScoringTypeSystem36
	TypeStableford = models.ScoringTypeStableford
)

// ErrUnsupportedScoringType is returned by both factories when asked for a
// scoring type outside the known enum. This is a contract violation (the API
// layer validates the enum before anything reaches the engine), so it is a
// distinct sentinel rather than a validation result — hitting it means bad
// configuration or corrupted data, not bad user input.
var ErrUnsupportedScoringType = errors.New("scoring: unsupported scoring type")

// Hole is the engine's view of one hole: just the numbers the formulas need.
type Hole struct {
	Number        int // 1..N position on the course
	Par           int // Expected strokes
	HandicapIndex int // Difficulty rank, 1 = hardest; decides handicap stroke allocation
}

// Player is the engine's view of a participant.
type Player struct {
	ID         uuid.UUID
	Name       string
	Handicap   float64    // Declared handicap at registration
	DivisionID *uuid.UUID // Registered division; nil when unassigned
}

// Card is one scorecard row: a player's result on a single hole. Strokes is
// the raw input; the remaining fields are derived by a Strategy and must never
// be set any other way.
type Card struct {
	PlayerID       uuid.UUID
	HoleNumber     int
	Strokes        int
	NetScore       float64
	Points         int
	System36Points *int // Set only under System 36 scoring
}

// Division is the engine's view of an event division. Min/Max bound the
// handicap range; ParentID links subdivisions to their parent for System 36
// Modified reassignment.
type Division struct {
	ID          uuid.UUID
	Name        string
	HandicapMin float64
	HandicapMax float64
	ParentID    *uuid.UUID
}

// Contains reports whether a handicap value falls inside this division's range.
func (d Division) Contains(handicap float64) bool {
	return handicap >= d.HandicapMin && handicap <= d.HandicapMax
}

// Snapshot is the complete input to a calculation: everything the engine will
// ever read, materialized up front. The engine never re-reads during a
// calculation, so the result is consistent with respect to this single
// snapshot even if scores are being edited concurrently elsewhere.
type Snapshot struct {
	ScoringType      models.ScoringType
	System36Modified bool // Enables division reassignment by computed handicap
	Holes            []Hole
	Players          []Player
	Cards            []Card
	Divisions        []Division
}

// HoleByNumber returns the hole with the given number, or false when the
// snapshot has no such hole.
func (s Snapshot) HoleByNumber(number int) (Hole, bool) {
	for _, h := range s.Holes {
		if h.Number == number {
			return h, true
		}
	}
	return Hole{}, false
}

// LeaderboardEntry is one displayable leaderboard line. Entries are ephemeral:
// recomputed from current cards on every read, never persisted.
type LeaderboardEntry struct {
	ParticipantID  uuid.UUID `json:"participant_id"`
	Name           string    `json:"name"`
	GrossScore     int       `json:"gross_score"`
	NetScore       float64   `json:"net_score"`
	Handicap       float64   `json:"handicap"` // Declared, or computed for System 36
	Points         int       `json:"points"`
	HolesCompleted int       `json:"holes_completed"`
	Rank           int       `json:"rank"` // 1-based; 0 = unranked (no completed holes)
	Tied           bool      `json:"tied"`
}

// SortKey orders leaderboard entries. Ascending sort over keys yields the
// leaderboard order for every scoring type: points-based strategies negate
// their points into Primary so that more points still sorts first. Secondary
// carries the tie-break value (handicap — the less-advantaged player ranks
// first on a primary tie).
type SortKey struct {
	Primary   float64
	Secondary float64
}

// Less reports whether k orders strictly before other.
func (k SortKey) Less(other SortKey) bool {
	if k.Primary != other.Primary {
		return k.Primary < other.Primary
	}
	return k.Secondary < other.Secondary
}

// TiesWith reports whether two keys are indistinguishable — primary metric and
// tie-break value both equal. Entries with equal keys form one tie group.
func (k SortKey) TiesWith(other SortKey) bool {
	return k.Primary == other.Primary && k.Secondary == other.Secondary
}

// SamePrimary reports whether two keys share the primary metric. Used to
// detect that a tie on the ranking metric occurred and the secondary rule was
// consulted, even when that rule then resolved the tie.
func (k SortKey) SamePrimary(other SortKey) bool {
	return k.Primary == other.Primary
}
