package scoring

import (
	"fmt"
)

// Strategy is the per-scoring-type rule set for individual scorecards. One
// stateless instance exists per scoring type; StrategyFor hands out the right
// one. All methods are pure — UpdateScorecard mutates only the card it is
// given, and only its derived fields.
type Strategy interface {
	// UpdateScorecard computes and stores the card's derived fields (net
	// score, points) from its already-set Strokes. It never touches Strokes.
	// Calling it again with unchanged strokes yields the same result.
	UpdateScorecard(card *Card, player Player, hole Hole)

	// Summarize aggregates a player's cards into one leaderboard entry:
	// gross score, net score, points, effective handicap, holes completed.
	// Cards with zero strokes are treated as not-yet-played and skipped.
	Summarize(player Player, cards []Card) LeaderboardEntry

	// SortKey returns the ordering key for an aggregated entry. Ascending
	// sort over keys yields the leaderboard order for this scoring type.
	SortKey(entry LeaderboardEntry) SortKey

	// ValidateScore checks raw strokes before they are accepted. Out-of-range
	// input is a validation failure — (false, reason) — never a panic or an
	// error value; the caller decides whether to reject the write.
	ValidateScore(strokes, par int, handicap float64) (bool, string)
}

// StrategyFor maps a scoring type to its Strategy. The mapping is total over
// the enum; anything else returns ErrUnsupportedScoringType, which signals a
// configuration defect rather than bad user input (the handlers validate the
// enum long before the engine runs).
func StrategyFor(scoringType ScoringType) (Strategy, error) {
	switch scoringType {
	case TypeStroke:
		return strokeStrategy{}, nil
	case TypeNetStroke:
		return netStrokeStrategy{}, nil
	case TypeSystem36:
		return system36Strategy{}, nil
	case TypeStableford:
		return stablefordStrategy{}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedScoringType, scoringType)
	}
}

// Shared stroke bounds. A hole score below 1 is impossible; above 15 is
// treated as a data-entry mistake (most formats have you pick up long before
// that).
const (
	minStrokes = 1
	maxStrokes = 15
)

// baseStrategy carries the validation rule shared by every scoring type.
// Variants embed it and may tighten the rule; none currently do.
type baseStrategy struct{}

func (baseStrategy) ValidateScore(strokes, par int, handicap float64) (bool, string) {
	if strokes < minStrokes {
		return false, fmt.Sprintf("strokes must be at least %d", minStrokes)
	}
	if strokes > maxStrokes {
		return false, fmt.Sprintf("strokes cannot exceed %d", maxStrokes)
	}
	return true, ""
}

// summarizeCards does the aggregation common to all strategies: totals over
// played holes. Net score and effective handicap are finished off by each
// variant's Summarize.
func summarizeCards(player Player, cards []Card) LeaderboardEntry {
	entry := LeaderboardEntry{
		ParticipantID: player.ID,
		Name:          player.Name,
		Handicap:      player.Handicap,
	}
	for _, c := range cards {
		if c.Strokes <= 0 {
			continue // hole not played yet
		}
		entry.GrossScore += c.Strokes
		entry.NetScore += c.NetScore
		entry.Points += c.Points
		entry.HolesCompleted++
	}
	return entry
}

// --- Stroke play ---
// The simplest format: net equals gross, no handicap adjustment, no points.
// Fewest total strokes wins; a lower declared handicap breaks ties.

type strokeStrategy struct {
	baseStrategy
}

func (strokeStrategy) UpdateScorecard(card *Card, player Player, hole Hole) {
	card.NetScore = float64(card.Strokes)
	card.Points = 0
	card.System36Points = nil
}

func (strokeStrategy) Summarize(player Player, cards []Card) LeaderboardEntry {
	return summarizeCards(player, cards)
}

func (strokeStrategy) SortKey(entry LeaderboardEntry) SortKey {
	return SortKey{Primary: float64(entry.GrossScore), Secondary: entry.Handicap}
}

// --- Net stroke play ---
// Stroke play adjusted by the declared handicap, allocated hole by hole via
// the stroke index: per-hole net = strokes − strokes received on that hole.

type netStrokeStrategy struct {
	baseStrategy
}

func (netStrokeStrategy) UpdateScorecard(card *Card, player Player, hole Hole) {
	allowance := StrokesReceived(player.Handicap, hole.HandicapIndex)
	card.NetScore = float64(card.Strokes - allowance)
	card.Points = 0
	card.System36Points = nil
}

func (netStrokeStrategy) Summarize(player Player, cards []Card) LeaderboardEntry {
	return summarizeCards(player, cards)
}

func (netStrokeStrategy) SortKey(entry LeaderboardEntry) SortKey {
	return SortKey{Primary: entry.NetScore, Secondary: entry.Handicap}
}

// --- System 36 ---
// The handicap is not declared, it is earned during the round: each hole
// scores 2 points for birdie or better, 1 for par, 0 for bogey or worse, and
// the round handicap is 36 minus the point total. Net score derives from that
// computed handicap, so it can only be finalized over the aggregate — the
// per-hole net stays gross and the points carry the information.

type system36Strategy struct {
	baseStrategy
}

// system36HolePoints is the fixed per-hole scale: strokes relative to par
// mapped to points.
func system36HolePoints(strokes, par int) int {
	switch diff := strokes - par; {
	case diff <= -1:
		return 2 // birdie or better
	case diff == 0:
		return 1 // par
	default:
		return 0 // bogey or worse
	}
}

func (system36Strategy) UpdateScorecard(card *Card, player Player, hole Hole) {
	pts := system36HolePoints(card.Strokes, hole.Par)
	card.NetScore = float64(card.Strokes) // per-hole net is gross; the handicap applies to the aggregate
	card.Points = pts
	card.System36Points = &pts
}

func (s system36Strategy) Summarize(player Player, cards []Card) LeaderboardEntry {
	entry := summarizeCards(player, cards)
	entry.Handicap = s.ComputedHandicap(entry.Points)
	entry.NetScore = float64(entry.GrossScore) - entry.Handicap
	return entry
}

// ComputedHandicap is the System 36 round handicap: 36 minus the points
// earned. 18 straight pars earns 18 points for a handicap of 18.
func (system36Strategy) ComputedHandicap(points int) float64 {
	return 36 - float64(points)
}

func (system36Strategy) SortKey(entry LeaderboardEntry) SortKey {
	return SortKey{Primary: entry.NetScore, Secondary: entry.Handicap}
}

// --- Stableford ---
// Points-based: each hole awards points from the net score relative to par,
// better results earning more. More points is better, so the sort key negates
// the total to fit the ascending-sort convention.

type stablefordStrategy struct {
	baseStrategy
}

// stablefordHolePoints maps net-to-par on one hole to points: albatross or
// better 5, eagle 4, birdie 3, par 2, bogey 1, double bogey or worse 0.
func stablefordHolePoints(netToPar int) int {
	switch {
	case netToPar <= -3:
		return 5
	case netToPar == -2:
		return 4
	case netToPar == -1:
		return 3
	case netToPar == 0:
		return 2
	case netToPar == 1:
		return 1
	default:
		return 0
	}
}

func (stablefordStrategy) UpdateScorecard(card *Card, player Player, hole Hole) {
	allowance := StrokesReceived(player.Handicap, hole.HandicapIndex)
	net := card.Strokes - allowance
	card.NetScore = float64(net)
	card.Points = stablefordHolePoints(net - hole.Par)
	card.System36Points = nil
}

func (stablefordStrategy) Summarize(player Player, cards []Card) LeaderboardEntry {
	return summarizeCards(player, cards)
}

func (stablefordStrategy) SortKey(entry LeaderboardEntry) SortKey {
	return SortKey{Primary: -float64(entry.Points), Secondary: entry.Handicap}
}
