package scoring

import (
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// par4 is a convenient hole for single-hole strategy checks.
var par4 = Hole{Number: 1, Par: 4, HandicapIndex: 1}

func testPlayer(handicap float64) Player {
	return Player{ID: uuid.New(), Name: "Test Player", Handicap: handicap}
}

// threePar4s builds three par-4 holes with handicap indexes 1..3.
func threePar4s() []Hole {
	return []Hole{
		{Number: 1, Par: 4, HandicapIndex: 1},
		{Number: 2, Par: 4, HandicapIndex: 2},
		{Number: 3, Par: 4, HandicapIndex: 3},
	}
}

// scoreRound runs UpdateScorecard for each strokes value over the given holes
// and returns the resulting cards, mimicking what the score handler does.
func scoreRound(t *testing.T, strategy Strategy, player Player, holes []Hole, strokes []int) []Card {
	t.Helper()
	require.Len(t, strokes, len(holes))
	cards := make([]Card, len(holes))
	for i, h := range holes {
		cards[i] = Card{PlayerID: player.ID, HoleNumber: h.Number, Strokes: strokes[i]}
		strategy.UpdateScorecard(&cards[i], player, h)
	}
	return cards
}

func TestStrategyFor(t *testing.T) {
	for _, st := range []ScoringType{TypeStroke, TypeNetStroke, TypeSystem36, TypeStableford} {
		strategy, err := StrategyFor(st)
		require.NoError(t, err, "scoring type %s", st)
		require.NotNil(t, strategy)
	}

	_, err := StrategyFor(ScoringType("match_play"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnsupportedScoringType))
	assert.Contains(t, err.Error(), "match_play")
}

func TestValidateScoreBounds(t *testing.T) {
	tests := []struct {
		strokes int
		valid   bool
	}{
		{-1, false},
		{0, false},
		{1, true},
		{4, true},
		{15, true},
		{16, false},
	}

	for _, st := range []ScoringType{TypeStroke, TypeNetStroke, TypeSystem36, TypeStableford} {
		strategy, err := StrategyFor(st)
		require.NoError(t, err)
		for _, tc := range tests {
			ok, reason := strategy.ValidateScore(tc.strokes, 4, 12)
			assert.Equal(t, tc.valid, ok, "%s: strokes=%d", st, tc.strokes)
			if tc.valid {
				assert.Empty(t, reason)
			} else {
				assert.NotEmpty(t, reason, "invalid input must carry a reason")
			}
		}
	}
}

func TestStrokesReceived(t *testing.T) {
	tests := []struct {
		name     string
		handicap float64
		index    int
		want     int
	}{
		{"scratch gets nothing", 0, 1, 0},
		{"plus handicap gets nothing", -2, 1, 0},
		{"handicap 18 one stroke everywhere", 18, 1, 1},
		{"handicap 18 even on the easiest", 18, 18, 1},
		{"handicap 9 covers the 9 hardest", 9, 9, 1},
		{"handicap 9 skips the 10th", 9, 10, 0},
		{"handicap 20 doubles the two hardest", 20, 2, 2},
		{"handicap 20 single past the extras", 20, 3, 1},
		{"half strokes round", 17.6, 18, 1},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, StrokesReceived(tc.handicap, tc.index))
		})
	}
}

func TestStrokePlay(t *testing.T) {
	strategy, err := StrategyFor(TypeStroke)
	require.NoError(t, err)

	player := testPlayer(9)
	cards := scoreRound(t, strategy, player, threePar4s(), []int{4, 5, 3})

	// Net always equals strokes and points are always zero under stroke play.
	for i, c := range cards {
		assert.Equal(t, float64(c.Strokes), c.NetScore, "hole %d", i+1)
		assert.Zero(t, c.Points)
		assert.Nil(t, c.System36Points)
	}

	entry := strategy.Summarize(player, cards)
	assert.Equal(t, 12, entry.GrossScore)
	assert.Equal(t, 12.0, entry.NetScore)
	assert.Equal(t, 0, entry.Points)
	assert.Equal(t, 3, entry.HolesCompleted)
	// score to par: 12 gross over three par 4s is even.
	assert.Equal(t, 0, entry.GrossScore-12)
}

func TestNetStrokePlay(t *testing.T) {
	strategy, err := StrategyFor(TypeNetStroke)
	require.NoError(t, err)

	// Handicap 18 receives exactly one stroke on every hole.
	player := testPlayer(18)
	cards := scoreRound(t, strategy, player, threePar4s(), []int{4, 5, 3})

	assert.Equal(t, 3.0, cards[0].NetScore)
	assert.Equal(t, 4.0, cards[1].NetScore)
	assert.Equal(t, 2.0, cards[2].NetScore)

	entry := strategy.Summarize(player, cards)
	assert.Equal(t, 12, entry.GrossScore)
	assert.Equal(t, 9.0, entry.NetScore)

	// Handicap 2 receives strokes only on the two hardest holes.
	low := testPlayer(2)
	cards = scoreRound(t, strategy, low, threePar4s(), []int{4, 4, 4})
	assert.Equal(t, 3.0, cards[0].NetScore) // index 1: stroke
	assert.Equal(t, 3.0, cards[1].NetScore) // index 2: stroke
	assert.Equal(t, 4.0, cards[2].NetScore) // index 3: no stroke
}

func TestSystem36HolePoints(t *testing.T) {
	tests := []struct {
		strokes, par, want int
	}{
		{2, 4, 2}, // eagle
		{3, 4, 2}, // birdie
		{4, 4, 1}, // par
		{5, 4, 0}, // bogey
		{9, 4, 0}, // much worse
	}
	for _, tc := range tests {
		assert.Equal(t, tc.want, system36HolePoints(tc.strokes, tc.par),
			"strokes=%d par=%d", tc.strokes, tc.par)
	}
}

func TestSystem36Summarize(t *testing.T) {
	strategy, err := StrategyFor(TypeSystem36)
	require.NoError(t, err)

	// Three pars: 3 points so far, computed handicap 33, net = gross - 33.
	player := testPlayer(0) // declared handicap is irrelevant under System 36
	cards := scoreRound(t, strategy, player, threePar4s(), []int{4, 4, 4})
	for _, c := range cards {
		require.NotNil(t, c.System36Points)
		assert.Equal(t, 1, *c.System36Points)
		assert.Equal(t, 1, c.Points)
	}

	entry := strategy.Summarize(player, cards)
	assert.Equal(t, 12, entry.GrossScore)
	assert.Equal(t, 3, entry.Points)
	assert.Equal(t, 33.0, entry.Handicap)
	assert.Equal(t, float64(12-33), entry.NetScore)

	// Mixed round: birdie (2) + par (1) + double bogey (0) = 3 points.
	cards = scoreRound(t, strategy, player, threePar4s(), []int{3, 4, 6})
	entry = strategy.Summarize(player, cards)
	assert.Equal(t, 3, entry.Points)
	assert.Equal(t, 33.0, entry.Handicap)
}

func TestStablefordHolePoints(t *testing.T) {
	tests := []struct {
		netToPar, want int
	}{
		{-4, 5}, // better than albatross
		{-3, 5}, // albatross
		{-2, 4}, // eagle
		{-1, 3}, // birdie
		{0, 2},  // par
		{1, 1},  // bogey
		{2, 0},  // double bogey
		{5, 0},  // anything worse
	}
	for _, tc := range tests {
		assert.Equal(t, tc.want, stablefordHolePoints(tc.netToPar), "netToPar=%d", tc.netToPar)
	}
}

func TestStablefordScoring(t *testing.T) {
	strategy, err := StrategyFor(TypeStableford)
	require.NoError(t, err)

	// Scratch player: points come straight off gross vs par.
	scratch := testPlayer(0)
	cards := scoreRound(t, strategy, scratch, threePar4s(), []int{3, 4, 5})
	assert.Equal(t, 3, cards[0].Points) // birdie
	assert.Equal(t, 2, cards[1].Points) // par
	assert.Equal(t, 1, cards[2].Points) // bogey

	// A handicap stroke turns a gross bogey into a net par.
	player := testPlayer(18)
	cards = scoreRound(t, strategy, player, threePar4s(), []int{5, 5, 5})
	for _, c := range cards {
		assert.Equal(t, 2, c.Points)
	}

	entry := strategy.Summarize(player, cards)
	assert.Equal(t, 6, entry.Points)

	// Total points are bounded by the per-hole maximum times holes played.
	assert.GreaterOrEqual(t, entry.Points, 0)
	assert.LessOrEqual(t, entry.Points, 5*entry.HolesCompleted)
}

func TestUpdateScorecardIdempotent(t *testing.T) {
	for _, st := range []ScoringType{TypeStroke, TypeNetStroke, TypeSystem36, TypeStableford} {
		strategy, err := StrategyFor(st)
		require.NoError(t, err)

		player := testPlayer(14)
		card := Card{PlayerID: player.ID, HoleNumber: 1, Strokes: 5}
		strategy.UpdateScorecard(&card, player, par4)
		first := card

		strategy.UpdateScorecard(&card, player, par4)
		assert.Equal(t, first.NetScore, card.NetScore, "%s: net must not drift", st)
		assert.Equal(t, first.Points, card.Points, "%s: points must not drift", st)
		assert.Equal(t, first.Strokes, card.Strokes, "%s: strokes are never touched", st)
	}
}

func TestSortKeys(t *testing.T) {
	entryWith := func(gross int, net float64, points int, handicap float64) LeaderboardEntry {
		return LeaderboardEntry{GrossScore: gross, NetScore: net, Points: points, Handicap: handicap}
	}

	t.Run("stroke orders by gross then handicap", func(t *testing.T) {
		strategy, _ := StrategyFor(TypeStroke)
		better := strategy.SortKey(entryWith(70, 70, 0, 10))
		worse := strategy.SortKey(entryWith(72, 72, 0, 5))
		assert.True(t, better.Less(worse))

		// Equal gross: the lower handicap ranks first.
		lowHcp := strategy.SortKey(entryWith(72, 72, 0, 9))
		highHcp := strategy.SortKey(entryWith(72, 72, 0, 18))
		assert.True(t, lowHcp.Less(highHcp))
		assert.False(t, lowHcp.TiesWith(highHcp))
		assert.True(t, lowHcp.SamePrimary(highHcp))
	})

	t.Run("stableford inverts points into ascending order", func(t *testing.T) {
		strategy, _ := StrategyFor(TypeStableford)
		morePoints := strategy.SortKey(entryWith(80, 0, 34, 20))
		fewerPoints := strategy.SortKey(entryWith(74, 0, 30, 20))
		assert.True(t, morePoints.Less(fewerPoints),
			"more points must sort ahead despite higher gross")
	})

	t.Run("identical keys tie", func(t *testing.T) {
		strategy, _ := StrategyFor(TypeStroke)
		a := strategy.SortKey(entryWith(72, 72, 0, 9))
		b := strategy.SortKey(entryWith(72, 72, 0, 9))
		assert.True(t, a.TiesWith(b))
		assert.False(t, a.Less(b))
		assert.False(t, b.Less(a))
	})
}
