package scoring

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWinnerStrategyFor(t *testing.T) {
	for _, st := range []ScoringType{TypeStroke, TypeNetStroke, TypeSystem36, TypeStableford} {
		strategy, err := WinnerStrategyFor(st)
		require.NoError(t, err, "scoring type %s", st)
		require.NotNil(t, strategy)
	}

	_, err := WinnerStrategyFor(ScoringType("best_ball"))
	require.ErrorIs(t, err, ErrUnsupportedScoringType)
}

func TestCalculateWinnersEmptyField(t *testing.T) {
	strategy, err := WinnerStrategyFor(TypeStroke)
	require.NoError(t, err)

	// No participants at all: no winners, not an error.
	results, err := strategy.CalculateWinners(Snapshot{ScoringType: TypeStroke, Holes: fourPar4s()})
	require.NoError(t, err)
	assert.Empty(t, results)

	// Participants registered but nobody has completed a hole: same.
	snap := Snapshot{ScoringType: TypeStroke, Holes: fourPar4s()}
	snap.Players = append(snap.Players, namedPlayer("Registered Only", 10))
	results, err = strategy.CalculateWinners(snap)
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestCalculateWinnersExcludesNoScorePlayers(t *testing.T) {
	snap := Snapshot{ScoringType: TypeStroke, Holes: fourPar4s()}
	addRound(t, &snap, namedPlayer("Played", 10), []int{4, 4, 4, 4})
	snap.Players = append(snap.Players, namedPlayer("No Show", 10))

	strategy, err := WinnerStrategyFor(TypeStroke)
	require.NoError(t, err)
	results, err := strategy.CalculateWinners(snap)
	require.NoError(t, err)

	// Excluded from ranking entirely, not ranked last.
	require.Len(t, results, 1)
	require.NotNil(t, results[0].OverallRank)
	assert.Equal(t, 1, *results[0].OverallRank)
}

func TestCalculateWinnersHandicapBreaksTie(t *testing.T) {
	snap := Snapshot{ScoringType: TypeStroke, Holes: fourPar4s()}
	steady := namedPlayer("Steady", 9)
	lucky := namedPlayer("Lucky", 18)
	addRound(t, &snap, steady, []int{4, 4, 4, 4}) // gross 16
	addRound(t, &snap, lucky, []int{4, 4, 4, 4})  // gross 16

	strategy, err := WinnerStrategyFor(TypeStroke)
	require.NoError(t, err)
	results, err := strategy.CalculateWinners(snap)
	require.NoError(t, err)
	require.Len(t, results, 2)

	// Equal gross: the lower handicap wins outright — no tie is reported,
	// but the record shows the secondary rule is what separated them.
	byID := indexResults(results)
	steadyRes, luckyRes := byID[steady.ID], byID[lucky.ID]

	require.NotNil(t, steadyRes.OverallRank)
	require.NotNil(t, luckyRes.OverallRank)
	assert.Equal(t, 1, *steadyRes.OverallRank)
	assert.Equal(t, 2, *luckyRes.OverallRank)
	assert.False(t, steadyRes.IsTied)
	assert.False(t, luckyRes.IsTied)
	assert.Empty(t, steadyRes.TiedWith)

	assert.Equal(t, TieBreakRuleLowerHandicap, steadyRes.TieBreakCriteria.Rule)
	assert.True(t, steadyRes.TieBreakCriteria.Resolved)
	assert.Equal(t, TieBreakRuleLowerHandicap, luckyRes.TieBreakCriteria.Rule)
	assert.True(t, luckyRes.TieBreakCriteria.Resolved)
}

func TestCalculateWinnersUnresolvableTie(t *testing.T) {
	snap := Snapshot{ScoringType: TypeStroke, Holes: fourPar4s()}
	a := namedPlayer("A", 12)
	b := namedPlayer("B", 12)
	c := namedPlayer("C", 12)
	addRound(t, &snap, a, []int{4, 4, 4, 4}) // gross 16
	addRound(t, &snap, b, []int{4, 4, 4, 4}) // gross 16, same handicap
	addRound(t, &snap, c, []int{5, 5, 5, 5}) // gross 20

	strategy, err := WinnerStrategyFor(TypeStroke)
	require.NoError(t, err)
	results, err := strategy.CalculateWinners(snap)
	require.NoError(t, err)
	require.Len(t, results, 3)

	byID := indexResults(results)
	aRes, bRes, cRes := byID[a.ID], byID[b.ID], byID[c.ID]

	// Identical metric and identical handicap: the tie stands and is
	// reported, never arbitrarily broken.
	assert.True(t, aRes.IsTied)
	assert.True(t, bRes.IsTied)
	assert.Equal(t, 1, *aRes.OverallRank)
	assert.Equal(t, 1, *bRes.OverallRank)
	assert.Equal(t, []uuid.UUID{b.ID}, aRes.TiedWith)
	assert.Equal(t, []uuid.UUID{a.ID}, bRes.TiedWith)
	assert.Equal(t, TieBreakRuleLowerHandicap, aRes.TieBreakCriteria.Rule)
	assert.False(t, aRes.TieBreakCriteria.Resolved)

	// Standard tied-for-first semantics: the next player is third.
	assert.Equal(t, 3, *cRes.OverallRank)
	assert.False(t, cRes.IsTied)
	assert.Empty(t, cRes.TiedWith)
}

func TestCalculateWinnersDeterministic(t *testing.T) {
	snap := Snapshot{ScoringType: TypeStableford, Holes: fourPar4s()}
	addRound(t, &snap, namedPlayer("A", 4), []int{4, 4, 5, 3})
	addRound(t, &snap, namedPlayer("B", 16), []int{5, 6, 5, 4})
	addRound(t, &snap, namedPlayer("C", 16), []int{5, 6, 5, 4})

	strategy, err := WinnerStrategyFor(TypeStableford)
	require.NoError(t, err)

	first, err := strategy.CalculateWinners(snap)
	require.NoError(t, err)
	second, err := strategy.CalculateWinners(snap)
	require.NoError(t, err)

	// Same snapshot in, identical results out — order included.
	assert.Equal(t, first, second)
}

func TestCalculateWinnersDivisionRanking(t *testing.T) {
	divisionA := Division{ID: uuid.New(), Name: "A", HandicapMin: 0, HandicapMax: 12}
	divisionB := Division{ID: uuid.New(), Name: "B", HandicapMin: 12.1, HandicapMax: 54}

	snap := Snapshot{
		ScoringType: TypeStroke,
		Holes:       fourPar4s(),
		Divisions:   []Division{divisionA, divisionB},
	}

	inDivision := func(name string, handicap float64, d Division) Player {
		p := namedPlayer(name, handicap)
		p.DivisionID = &d.ID
		return p
	}
	a1 := inDivision("A1", 5, divisionA)
	a2 := inDivision("A2", 9, divisionA)
	b1 := inDivision("B1", 20, divisionB)
	addRound(t, &snap, a1, []int{5, 5, 5, 5}) // gross 20
	addRound(t, &snap, a2, []int{4, 4, 4, 5}) // gross 17
	addRound(t, &snap, b1, []int{4, 4, 4, 4}) // gross 16, best overall

	strategy, err := WinnerStrategyFor(TypeStroke)
	require.NoError(t, err)
	results, err := strategy.CalculateWinners(snap)
	require.NoError(t, err)
	require.Len(t, results, 3)

	byID := indexResults(results)

	// Overall: B1 first, A2 second, A1 third.
	assert.Equal(t, 1, *byID[b1.ID].OverallRank)
	assert.Equal(t, 2, *byID[a2.ID].OverallRank)
	assert.Equal(t, 3, *byID[a1.ID].OverallRank)

	// Division ranks are independent: A2 wins division A despite losing
	// overall to B1, and a player holds both ranks at once.
	assert.Equal(t, 1, *byID[a2.ID].DivisionRank)
	assert.Equal(t, 2, *byID[a1.ID].DivisionRank)
	assert.Equal(t, 1, *byID[b1.ID].DivisionRank)
	assert.Equal(t, divisionA.ID, *byID[a2.ID].DivisionID)
	assert.Equal(t, divisionB.ID, *byID[b1.ID].DivisionID)
}

func TestCalculateWinnersSystem36Reassignment(t *testing.T) {
	divisionA := Division{ID: uuid.New(), Name: "A", HandicapMin: 0, HandicapMax: 18}
	divisionB := Division{ID: uuid.New(), Name: "B", HandicapMin: 18.1, HandicapMax: 54}

	snap := Snapshot{
		ScoringType:      TypeSystem36,
		System36Modified: true,
		Holes:            fourPar4s(),
		Divisions:        []Division{divisionA, divisionB},
	}

	// Registered in A, but a rough round earns few points: computed handicap
	// 36 - 1 = 35 lands in division B.
	sandbagger := namedPlayer("Reassigned", 10)
	sandbagger.DivisionID = &divisionA.ID
	addRound(t, &snap, sandbagger, []int{6, 6, 6, 4}) // one par: 1 point

	// Registered in B with a computed handicap that stays in B: no move.
	stayer := namedPlayer("Stayer", 8)
	stayer.DivisionID = &divisionB.ID
	addRound(t, &snap, stayer, []int{3, 3, 4, 4}) // 6 points, computed handicap 30, inside B

	strategy, err := WinnerStrategyFor(TypeSystem36)
	require.NoError(t, err)
	results, err := strategy.CalculateWinners(snap)
	require.NoError(t, err)
	require.Len(t, results, 2)

	byID := indexResults(results)
	moved := byID[sandbagger.ID]
	stayed := byID[stayer.ID]

	assert.True(t, moved.DivisionReassigned)
	require.NotNil(t, moved.OriginalDivisionID)
	assert.Equal(t, divisionA.ID, *moved.OriginalDivisionID)
	require.NotNil(t, moved.DivisionID)
	assert.Equal(t, divisionB.ID, *moved.DivisionID)

	assert.False(t, stayed.DivisionReassigned)
	assert.Nil(t, stayed.OriginalDivisionID)
	assert.Equal(t, divisionB.ID, *stayed.DivisionID)

	// Ranking proceeds in the reassigned division: both now compete in B.
	require.NotNil(t, moved.DivisionRank)
	require.NotNil(t, stayed.DivisionRank)
	assert.Equal(t, 1, *stayed.DivisionRank)
	assert.Equal(t, 2, *moved.DivisionRank)
}

func TestCalculateWinnersReassignmentDisabled(t *testing.T) {
	divisionA := Division{ID: uuid.New(), Name: "A", HandicapMin: 0, HandicapMax: 18}
	divisionB := Division{ID: uuid.New(), Name: "B", HandicapMin: 18.1, HandicapMax: 54}

	// Same rough round, but plain System 36 without the Modified flag:
	// nobody moves.
	snap := Snapshot{
		ScoringType: TypeSystem36,
		Holes:       fourPar4s(),
		Divisions:   []Division{divisionA, divisionB},
	}
	p := namedPlayer("Stays Put", 10)
	p.DivisionID = &divisionA.ID
	addRound(t, &snap, p, []int{6, 6, 6, 4})

	strategy, err := WinnerStrategyFor(TypeSystem36)
	require.NoError(t, err)
	results, err := strategy.CalculateWinners(snap)
	require.NoError(t, err)
	require.Len(t, results, 1)

	assert.False(t, results[0].DivisionReassigned)
	assert.Nil(t, results[0].OriginalDivisionID)
	assert.Equal(t, divisionA.ID, *results[0].DivisionID)
}

func TestCalculateWinnersNetScorePresence(t *testing.T) {
	run := func(st ScoringType) WinnerResult {
		snap := Snapshot{ScoringType: st, Holes: fourPar4s()}
		addRound(t, &snap, namedPlayer("Solo", 10), []int{4, 5, 4, 5})
		strategy, err := WinnerStrategyFor(st)
		require.NoError(t, err)
		results, err := strategy.CalculateWinners(snap)
		require.NoError(t, err)
		require.Len(t, results, 1)
		return results[0]
	}

	// Pure stroke play has no net component; every other type reports one.
	assert.Nil(t, run(TypeStroke).NetScore)
	assert.NotNil(t, run(TypeNetStroke).NetScore)
	assert.NotNil(t, run(TypeSystem36).NetScore)
	assert.NotNil(t, run(TypeStableford).NetScore)

	res := run(TypeStroke)
	assert.Equal(t, 18, res.GrossScore)
}

func TestCalculateWinnersStablefordOrdering(t *testing.T) {
	snap := Snapshot{ScoringType: TypeStableford, Holes: fourPar4s()}
	grinder := namedPlayer("Grinder", 20)
	striker := namedPlayer("Striker", 0)
	addRound(t, &snap, grinder, []int{5, 5, 5, 5}) // net pars with strokes: 8+ points
	addRound(t, &snap, striker, []int{5, 5, 5, 5}) // gross bogeys, no strokes: 4 points

	strategy, err := WinnerStrategyFor(TypeStableford)
	require.NoError(t, err)
	results, err := strategy.CalculateWinners(snap)
	require.NoError(t, err)
	require.Len(t, results, 2)

	byID := indexResults(results)
	assert.Equal(t, 1, *byID[grinder.ID].OverallRank, "more points ranks first")
	assert.Equal(t, 2, *byID[striker.ID].OverallRank)
	assert.Greater(t, byID[grinder.ID].Points, byID[striker.ID].Points)
}

// indexResults maps results by participant ID for order-independent asserts.
func indexResults(results []WinnerResult) map[uuid.UUID]WinnerResult {
	out := make(map[uuid.UUID]WinnerResult, len(results))
	for _, r := range results {
		out[r.ParticipantID] = r
	}
	return out
}
