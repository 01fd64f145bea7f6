package scoring

import (
	"sort"

	"github.com/google/uuid"
)

// BuildLeaderboard recomputes the full leaderboard for an event snapshot.
// Entries are ordered by the scoring type's sort key; entries with equal keys
// form a tie group and share the lowest rank number in the group (standard
// "tied for Nth" — two tied leaders are both rank 1 and the next player is
// rank 3). Participants with no completed holes appear at the bottom with
// rank 0 so a live leaderboard still shows the whole field.
//
// The result is deterministic: equal keys fall back to participant ID order,
// so two calls over the same snapshot produce identical output.
func BuildLeaderboard(snap Snapshot) ([]LeaderboardEntry, error) {
	strategy, err := StrategyFor(snap.ScoringType)
	if err != nil {
		return nil, err
	}

	cardsByPlayer := groupCards(snap.Cards)

	ranked := make([]LeaderboardEntry, 0, len(snap.Players))
	waiting := make([]LeaderboardEntry, 0)
	for _, p := range snap.Players {
		entry := strategy.Summarize(p, cardsByPlayer[p.ID])
		if entry.HolesCompleted == 0 {
			waiting = append(waiting, entry)
			continue
		}
		ranked = append(ranked, entry)
	}

	sortEntries(ranked, strategy)
	assignRanks(ranked, strategy)

	// Players yet to tee off: stable order by name, then ID.
	sort.Slice(waiting, func(i, j int) bool {
		if waiting[i].Name != waiting[j].Name {
			return waiting[i].Name < waiting[j].Name
		}
		return waiting[i].ParticipantID.String() < waiting[j].ParticipantID.String()
	})

	return append(ranked, waiting...), nil
}

// groupCards indexes cards by player ID, preserving input order within each
// player.
func groupCards(cards []Card) map[uuid.UUID][]Card {
	out := make(map[uuid.UUID][]Card)
	for _, c := range cards {
		out[c.PlayerID] = append(out[c.PlayerID], c)
	}
	return out
}

// sortEntries orders entries ascending by sort key, falling back to
// participant ID so ordering is total and repeatable.
func sortEntries(entries []LeaderboardEntry, strategy Strategy) {
	sort.Slice(entries, func(i, j int) bool {
		ki, kj := strategy.SortKey(entries[i]), strategy.SortKey(entries[j])
		if ki.TiesWith(kj) {
			return entries[i].ParticipantID.String() < entries[j].ParticipantID.String()
		}
		return ki.Less(kj)
	})
}

// assignRanks walks sorted entries and assigns shared rank numbers to tie
// groups. Entries must already be sorted by sortEntries.
func assignRanks(entries []LeaderboardEntry, strategy Strategy) {
	for i := 0; i < len(entries); {
		key := strategy.SortKey(entries[i])
		j := i + 1
		for j < len(entries) && strategy.SortKey(entries[j]).TiesWith(key) {
			j++
		}
		for k := i; k < j; k++ {
			entries[k].Rank = i + 1
			entries[k].Tied = j-i > 1
		}
		i = j
	}
}
