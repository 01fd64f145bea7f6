// Package models defines the data structures (models) that map to database tables.
// GORM uses these structs to generate SQL queries and map database rows back to Go
// values. The struct field tags (the backtick strings like `gorm:"..."`) tell GORM
// how to handle each field: its column type, constraints, default values, and
// relationships.
//
// The data model represents a golf tournament scoring platform where:
//   - An Event is a tournament played on a Course under one scoring type
//   - Participants register for an Event, optionally grouped into EventDivisions
//   - Scorecards record one row per participant per hole
//   - WinnerResults are the persisted output of a winner calculation run
//
// The scoring engine (internal/scoring) never touches these GORM types directly —
// handlers load rows, convert them to plain snapshot values, and hand those to the
// engine. This keeps the engine pure and the persistence concerns here.
package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	// uuid provides universally unique identifiers for primary keys.
	// Using UUIDs instead of auto-incrementing integers makes IDs safe to generate
	// client-side and avoids leaking record counts to end users.
	"github.com/google/uuid"
)

// --- Enums ---
// Go doesn't have a built-in enum keyword, so we simulate them using a named string
// type plus constants. This gives us type safety while keeping the values
// human-readable in the database.

// UserRole represents a user's global permission level across the platform.
type UserRole string

const (
	UserRoleAdmin     UserRole = "admin"     // Full access: manage users, events, everything
	UserRoleOrganizer UserRole = "organizer" // Can create and manage events, courses, and scores
	UserRoleUser      UserRole = "user"      // Read-only API access (leaderboards, results)
)

// EventStatus tracks the lifecycle of an event.
type EventStatus string

const (
	EventStatusUpcoming  EventStatus = "upcoming"  // Event is scheduled but hasn't started
	EventStatusActive    EventStatus = "active"    // Event is currently in progress
	EventStatusCompleted EventStatus = "completed" // Event has finished
	EventStatusCancelled EventStatus = "cancelled" // Event was cancelled before completion
)

// ScoringType describes how an event is scored. Each value maps one-to-one to a
// scoring strategy and a winner-calculation strategy in internal/scoring.
type ScoringType string

const (
	ScoringTypeStroke     ScoringType = "stroke"     // Fewest total strokes wins, no handicap adjustment
	ScoringTypeNetStroke  ScoringType = "net_stroke" // Stroke play adjusted by declared handicap
	ScoringTypeSystem36   ScoringType = "system_36"  // Handicap computed from the round itself (36 minus points)
	ScoringTypeStableford ScoringType = "stableford" // Points per hole based on net score vs par
)

// Valid reports whether s is one of the known scoring types. Request validation
// uses this so the scoring factories never see an out-of-enum value.
func (s ScoringType) Valid() bool {
	switch s {
	case ScoringTypeStroke, ScoringTypeNetStroke, ScoringTypeSystem36, ScoringTypeStableford:
		return true
	}
	return false
}

// --- JSON column helpers ---
// WinnerResult stores two structured values (the tied-with list and the tie-break
// record) as JSONB columns. GORM persists any type implementing driver.Valuer and
// sql.Scanner, so these small wrappers marshal to/from JSON at the DB boundary.

// UUIDList is a JSONB-backed list of participant IDs.
type UUIDList []uuid.UUID

func (l UUIDList) Value() (driver.Value, error) {
	if l == nil {
		l = UUIDList{}
	}
	return json.Marshal(l)
}

func (l *UUIDList) Scan(value interface{}) error {
	if value == nil {
		*l = UUIDList{}
		return nil
	}
	b, ok := value.([]byte)
	if !ok {
		if s, ok := value.(string); ok {
			b = []byte(s)
		} else {
			return errors.New("models: cannot scan UUIDList from non-bytes value")
		}
	}
	return json.Unmarshal(b, l)
}

// TieBreak records which secondary rule was applied to a tied group and whether it
// separated the players. An unresolved tie is a legitimate final state — the
// calculation reports it rather than inventing an order.
type TieBreak struct {
	Rule     string `json:"rule"`     // e.g. "lower_handicap"; empty when no tie occurred
	Resolved bool   `json:"resolved"` // true when the rule produced a strict order
}

func (t TieBreak) Value() (driver.Value, error) {
	return json.Marshal(t)
}

func (t *TieBreak) Scan(value interface{}) error {
	if value == nil {
		*t = TieBreak{}
		return nil
	}
	b, ok := value.([]byte)
	if !ok {
		if s, ok := value.(string); ok {
			b = []byte(s)
		} else {
			return errors.New("models: cannot scan TieBreak from non-bytes value")
		}
	}
	return json.Unmarshal(b, t)
}

// --- Models ---
// Each struct below maps to a database table. GORM uses the struct name
// (snake_cased and pluralized) as the table name by default: User -> users,
// Event -> events, etc.

// User represents a registered person in the system. Unlike a hosted-identity
// setup, this app owns its accounts: passwords are bcrypt-hashed at registration
// and never stored or logged in plain text.
type User struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	DisplayName  string    `gorm:"not null"`
	Email        string    `gorm:"uniqueIndex;not null"`
	PasswordHash string    `gorm:"not null"` // bcrypt hash; never serialized in responses
	Role         UserRole  `gorm:"type:user_role;not null;default:'user'"`
	CreatedAt    time.Time // GORM automatically sets this on create
	UpdatedAt    time.Time // GORM automatically updates this on every save
}

// Course represents a golf course where events are played.
// Hole details live in the Holes relationship; Par is the course total and is
// kept denormalized for leaderboard display (score-to-par without a join).
type Course struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name      string    `gorm:"not null"`
	City      string    `gorm:"not null;default:''"`
	State     string    `gorm:"not null;default:''"`
	HoleCount int       `gorm:"not null;default:18"`
	Par       int       `gorm:"not null;default:72"` // Sum of hole pars; kept in sync by the course handlers
	CreatedAt time.Time
	UpdatedAt time.Time
	Holes     []Hole `gorm:"foreignKey:CourseID"` // One-to-many: per-hole details
}

// Hole stores per-hole details for a course.
// HandicapIndex is the difficulty ranking (1 = hardest hole); it decides which
// holes receive handicap strokes first under net scoring formats. Each index and
// each hole number appears exactly once per course (composite unique indexes).
type Hole struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CourseID      uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_course_hole_number;uniqueIndex:idx_course_handicap_index"`
	Course        Course    `gorm:"foreignKey:CourseID"`
	Number        int       `gorm:"not null;uniqueIndex:idx_course_hole_number"` // 1–18 (or 1–9 for a 9-hole course)
	Par           int       `gorm:"not null"`                                    // Expected strokes for this hole (typically 3, 4, or 5)
	HandicapIndex int       `gorm:"not null;uniqueIndex:idx_course_handicap_index"` // Difficulty rank: 1 = hardest, gets the first handicap stroke
	Distance      *int      // Distance in yards; optional because some courses don't publish it
}

// Event is the top-level container for a tournament. The ScoringType chosen here
// selects which scoring and winner-calculation strategies apply to every scorecard
// in the event; System36Modified additionally enables division reassignment by
// computed handicap during winner calculation.
type Event struct {
	ID               uuid.UUID   `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name             string      `gorm:"not null"`
	Description      *string     // Optional long-form description; pointer = nullable
	CourseID         uuid.UUID   `gorm:"type:uuid;not null"`
	Course           Course      `gorm:"foreignKey:CourseID"`
	ScoringType      ScoringType `gorm:"type:scoring_type;not null"`
	System36Modified bool        `gorm:"not null;default:false"` // Only meaningful when ScoringType is system_36
	Status           EventStatus `gorm:"type:event_status;not null;default:'upcoming'"`
	StartDate        *time.Time
	EndDate          *time.Time
	CreatedBy        uuid.UUID `gorm:"type:uuid;not null"`   // Foreign key: which user created this event
	Creator          User      `gorm:"foreignKey:CreatedBy"` // GORM relationship: preloads the User struct when queried
	CreatedAt        time.Time
	UpdatedAt        time.Time
	Divisions        []EventDivision `gorm:"foreignKey:EventID"`
	Participants     []Participant   `gorm:"foreignKey:EventID"`
}

// EventDivision groups participants for independent ranking (e.g. "Division A,
// handicap 0–12"). A division may have a parent: System 36 Modified events use
// child divisions as the reassignment targets when a participant's computed
// handicap lands outside their registered division's range.
type EventDivision struct {
	ID          uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	EventID     uuid.UUID      `gorm:"type:uuid;not null;uniqueIndex:idx_event_division_name"`
	Event       Event          `gorm:"foreignKey:EventID"`
	Name        string         `gorm:"not null;uniqueIndex:idx_event_division_name"`
	HandicapMin float64        `gorm:"type:decimal(4,1);not null;default:0"`
	HandicapMax float64        `gorm:"type:decimal(4,1);not null;default:54"`
	ParentID    *uuid.UUID     `gorm:"type:uuid"` // Optional parent; nil for top-level divisions
	Parent      *EventDivision `gorm:"foreignKey:ParentID"`
	CreatedAt   time.Time
}

// Participant is a player registered for an event. Participants are deliberately
// not Users: a tournament often includes walk-up players who never create an
// account, so only a display name and a declared handicap are required.
type Participant struct {
	ID               uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	EventID          uuid.UUID      `gorm:"type:uuid;not null"`
	Event            Event          `gorm:"foreignKey:EventID"`
	Name             string         `gorm:"not null"`
	DeclaredHandicap float64        `gorm:"type:decimal(4,1);not null;default:0"`
	DivisionID       *uuid.UUID     `gorm:"type:uuid"` // Optional: participant may be unassigned
	Division         *EventDivision `gorm:"foreignKey:DivisionID"`
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// Scorecard records the strokes a participant took on a single hole, plus the
// values the event's scoring strategy derived from them. Strokes is the only
// field written from user input; NetScore, Points, and System36Points are always
// recomputed by the strategy and never accepted from a request.
type Scorecard struct {
	ID             uuid.UUID   `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ParticipantID  uuid.UUID   `gorm:"type:uuid;not null;uniqueIndex:idx_participant_hole"` // Composite unique: one score per participant per hole
	Participant    Participant `gorm:"foreignKey:ParticipantID"`
	HoleID         uuid.UUID   `gorm:"type:uuid;not null;uniqueIndex:idx_participant_hole"`
	Hole           Hole        `gorm:"foreignKey:HoleID"`
	Strokes        int         `gorm:"not null"`                             // Raw strokes as entered (1–15)
	NetScore       float64     `gorm:"type:decimal(5,2);not null;default:0"` // Strategy-computed net value for this hole
	Points         int         `gorm:"not null;default:0"`                   // Strategy-computed points (0 for pure stroke formats)
	System36Points *int        // Set only for System 36 events; separate so the column stays NULL elsewhere
	EnteredBy      uuid.UUID   `gorm:"type:uuid;not null"` // Which user entered this score
	Enterer        User        `gorm:"foreignKey:EnteredBy"`
	EnteredAt      time.Time   `gorm:"autoCreateTime"`
	UpdatedAt      time.Time   `gorm:"autoUpdateTime"`
}

// WinnerResult is the persisted outcome of a winner calculation run for one
// participant. Results are replaced wholesale per event (delete-then-insert in a
// single transaction) every time winners are recalculated, so a row is never
// partially updated and readers never observe a mix of old and new runs.
type WinnerResult struct {
	ID                 uuid.UUID   `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	EventID            uuid.UUID   `gorm:"type:uuid;not null;uniqueIndex:idx_event_winner_participant"`
	Event              Event       `gorm:"foreignKey:EventID"`
	ParticipantID      uuid.UUID   `gorm:"type:uuid;not null;uniqueIndex:idx_event_winner_participant"`
	Participant        Participant `gorm:"foreignKey:ParticipantID"`
	OverallRank        *int        // Nullable: absent when the participant is only division-ranked
	DivisionRank       *int        // Nullable: absent when the participant has no division
	DivisionID         *uuid.UUID  `gorm:"type:uuid"` // The division the participant was ranked in (post-reassignment)
	GrossScore         int         `gorm:"not null"`
	NetScore           *float64    `gorm:"type:decimal(6,2)"` // Nullable: pure stroke play has no net component
	Points             int         `gorm:"not null;default:0"`
	IsTied             bool        `gorm:"not null;default:false"`
	TiedWith           UUIDList    `gorm:"type:jsonb;not null;default:'[]'"` // Participant IDs sharing this rank
	TieBreakCriteria   TieBreak    `gorm:"type:jsonb;not null;default:'{}'"` // Which rule was tried and whether it resolved
	OriginalDivisionID *uuid.UUID  `gorm:"type:uuid"` // Set only when System 36 Modified reassignment fired
	DivisionReassigned bool        `gorm:"not null;default:false"`
	CalculatedAt       time.Time   `gorm:"autoCreateTime"`
}
