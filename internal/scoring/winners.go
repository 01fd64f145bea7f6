package scoring

import (
	"fmt"
	"sort"

	"github.com/google/uuid"

	"github.com/fairwaylabs/tourney/internal/models"
)

// TieBreakRuleLowerHandicap is the one secondary rule in use: on a primary
// metric tie, the player with the lower handicap (declared, or computed for
// System 36) ranks first. When handicaps are also equal the tie stands.
const TieBreakRuleLowerHandicap = "lower_handicap"

// WinnerResult is the engine's output for one ranked participant. The
// persistence layer maps these onto models.WinnerResult rows and replaces an
// event's result set wholesale — the engine itself never writes anything.
type WinnerResult struct {
	ParticipantID      uuid.UUID
	OverallRank        *int
	DivisionRank       *int
	DivisionID         *uuid.UUID // Division ranked in, after any reassignment
	GrossScore         int
	NetScore           *float64 // nil for pure stroke play
	Points             int
	IsTied             bool
	TiedWith           []uuid.UUID
	TieBreakCriteria   models.TieBreak
	OriginalDivisionID *uuid.UUID // Set only when reassignment fired
	DivisionReassigned bool
}

// WinnerStrategy ranks a whole event. One instance exists per scoring type,
// bound to the matching Strategy for its metric and sort key.
type WinnerStrategy interface {
	// CalculateWinners ranks every eligible participant in the snapshot into
	// overall and per-division results. Participants with zero completed
	// holes are excluded entirely (a tournament with no completed rounds has
	// no winners yet, so an empty snapshot yields an empty slice, not an
	// error). The calculation is pure and deterministic: identical snapshots
	// produce identical output.
	CalculateWinners(snap Snapshot) ([]WinnerResult, error)
}

// WinnerStrategyFor maps a scoring type to its WinnerStrategy, mirroring
// StrategyFor.
func WinnerStrategyFor(scoringType ScoringType) (WinnerStrategy, error) {
	switch scoringType {
	case TypeStroke:
		return winnerCalculator{scoringType: TypeStroke, includeNet: false}, nil
	case TypeNetStroke:
		return winnerCalculator{scoringType: TypeNetStroke, includeNet: true}, nil
	case TypeSystem36:
		return winnerCalculator{scoringType: TypeSystem36, includeNet: true}, nil
	case TypeStableford:
		return winnerCalculator{scoringType: TypeStableford, includeNet: true}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedScoringType, scoringType)
	}
}

// winnerCalculator is the shared ranking machinery. The four scoring types
// differ only in their Strategy (metric + sort key), whether a net score is
// meaningful, and whether System 36 Modified reassignment can apply — all of
// which this struct parameterizes, so one implementation serves every type.
type winnerCalculator struct {
	scoringType ScoringType
	includeNet  bool
}

// standing is the per-participant working state during a calculation.
type standing struct {
	player   Player
	entry    LeaderboardEntry
	key      SortKey
	division *uuid.UUID // effective division after reassignment
	original *uuid.UUID // pre-reassignment division, set only when it changed
	result   WinnerResult
}

func (c winnerCalculator) CalculateWinners(snap Snapshot) ([]WinnerResult, error) {
	strategy, err := StrategyFor(c.scoringType)
	if err != nil {
		return nil, err
	}

	cardsByPlayer := groupCards(snap.Cards)

	// Step 1+2: compute each participant's metric and drop anyone with no
	// completed holes — they are excluded from ranking, not ranked last.
	standings := make([]*standing, 0, len(snap.Players))
	for _, p := range snap.Players {
		entry := strategy.Summarize(p, cardsByPlayer[p.ID])
		if entry.HolesCompleted == 0 {
			continue
		}
		standings = append(standings, &standing{
			player:   p,
			entry:    entry,
			key:      strategy.SortKey(entry),
			division: p.DivisionID,
		})
	}
	if len(standings) == 0 {
		return []WinnerResult{}, nil
	}

	// Step 3: System 36 Modified reassignment happens before any division
	// ranking so groups are built from the divisions players actually
	// compete in.
	if c.scoringType == TypeSystem36 && snap.System36Modified {
		for _, s := range standings {
			c.reassignDivision(s, snap.Divisions)
		}
	}

	// Step 4: overall ranking with tie detection and tie-break attribution.
	// Tie state is recorded from this pass only: overall tie groups are
	// supersets of division tie groups (equal metric and handicap is equal
	// regardless of grouping), so this is the complete record.
	sortStandings(standings)
	rankStandings(standings, func(s *standing, rank int) {
		s.result.OverallRank = intPtr(rank)
	})
	attributeTies(standings)

	// Step 5: independent per-division ranking over the same metric. A
	// participant holds an overall rank and a division rank simultaneously.
	byDivision := make(map[uuid.UUID][]*standing)
	for _, s := range standings {
		if s.division != nil {
			byDivision[*s.division] = append(byDivision[*s.division], s)
		}
	}
	for _, group := range byDivision {
		sortStandings(group)
		rankStandings(group, func(s *standing, rank int) {
			s.result.DivisionRank = intPtr(rank)
		})
	}

	// Step 6: assemble output in overall-rank order. Order and content are
	// fully determined by the snapshot, so repeat runs are identical.
	results := make([]WinnerResult, 0, len(standings))
	for _, s := range standings {
		r := s.result
		r.ParticipantID = s.player.ID
		r.DivisionID = s.division
		r.GrossScore = s.entry.GrossScore
		if c.includeNet {
			net := s.entry.NetScore
			r.NetScore = &net
		}
		r.Points = s.entry.Points
		if s.original != nil {
			r.OriginalDivisionID = s.original
			r.DivisionReassigned = true
		}
		if r.TiedWith == nil {
			r.TiedWith = []uuid.UUID{}
		}
		results = append(results, r)
	}
	return results, nil
}

// reassignDivision moves a participant whose computed handicap falls outside
// their registered division into the division whose range contains it.
// Subdivisions of the registered division are preferred as targets; failing
// that, any division in the event qualifies. A participant with no registered
// division, or whose handicap fits their registered division, stays put.
func (c winnerCalculator) reassignDivision(s *standing, divisions []Division) {
	if s.player.DivisionID == nil {
		return
	}
	registered := *s.player.DivisionID
	computed := s.entry.Handicap // Summarize set this to 36 − points

	for _, d := range divisions {
		if d.ID == registered && d.Contains(computed) {
			return // still in range, nothing to do
		}
	}

	target, ok := findDivision(divisions, computed, &registered)
	if !ok {
		target, ok = findDivision(divisions, computed, nil)
	}
	if !ok || target == registered {
		return
	}
	orig := registered
	s.original = &orig
	s.division = &target
}

// findDivision returns the lowest-range division containing the handicap.
// When parent is non-nil only subdivisions of that parent are considered.
// Candidates are scanned in (HandicapMin, Name) order so the choice is
// deterministic regardless of snapshot ordering.
func findDivision(divisions []Division, handicap float64, parent *uuid.UUID) (uuid.UUID, bool) {
	candidates := make([]Division, 0, len(divisions))
	for _, d := range divisions {
		if parent != nil && (d.ParentID == nil || *d.ParentID != *parent) {
			continue
		}
		if d.Contains(handicap) {
			candidates = append(candidates, d)
		}
	}
	if len(candidates) == 0 {
		return uuid.UUID{}, false
	}
	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].HandicapMin != candidates[j].HandicapMin {
			return candidates[i].HandicapMin < candidates[j].HandicapMin
		}
		return candidates[i].Name < candidates[j].Name
	})
	return candidates[0].ID, true
}

// sortStandings orders standings ascending by sort key with participant ID as
// the final, total tie-breaker for determinism.
func sortStandings(standings []*standing) {
	sort.Slice(standings, func(i, j int) bool {
		if standings[i].key.TiesWith(standings[j].key) {
			return standings[i].player.ID.String() < standings[j].player.ID.String()
		}
		return standings[i].key.Less(standings[j].key)
	})
}

// rankStandings assigns rank numbers over sorted standings. Entries whose
// full sort key ties share the group's lowest rank number ("tied for Nth" —
// two tied leaders are both rank 1, the next player is rank 3). The assign
// callback writes into the right field, since the same pass runs for both the
// overall and the per-division ranking.
func rankStandings(standings []*standing, assign func(*standing, int)) {
	for i := 0; i < len(standings); {
		j := i + 1
		for j < len(standings) && standings[j].key.TiesWith(standings[i].key) {
			j++
		}
		for _, s := range standings[i:j] {
			assign(s, i+1)
		}
		i = j
	}
}

// attributeTies records tie state over the overall-sorted standings. Three
// cases per participant:
//
//   - unique primary metric: no tie, no tie-break consulted;
//   - primary metric shared but handicap separates: distinct ranks, and the
//     tie-break record notes the rule resolved the tie (not reported as tied);
//   - primary metric and handicap both shared: a standing tie — every member
//     is marked tied, lists the other members in TiedWith, and the record
//     shows the rule failed to separate them.
func attributeTies(standings []*standing) {
	for i := 0; i < len(standings); {
		j := i + 1
		for j < len(standings) && standings[j].key.TiesWith(standings[i].key) {
			j++
		}

		group := standings[i:j]
		if len(group) > 1 {
			for _, s := range group {
				s.result.IsTied = true
				s.result.TieBreakCriteria = models.TieBreak{Rule: TieBreakRuleLowerHandicap, Resolved: false}
				tied := make([]uuid.UUID, 0, len(group)-1)
				for _, other := range group {
					if other != s {
						tied = append(tied, other.player.ID)
					}
				}
				s.result.TiedWith = tied
			}
		} else {
			s := group[0]
			samePrimary := (i > 0 && standings[i-1].key.SamePrimary(s.key)) ||
				(j < len(standings) && standings[j].key.SamePrimary(s.key))
			if samePrimary {
				s.result.TieBreakCriteria = models.TieBreak{Rule: TieBreakRuleLowerHandicap, Resolved: true}
			}
		}
		i = j
	}
}

func intPtr(v int) *int { return &v }
