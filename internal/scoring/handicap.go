package scoring

import "math"

// allocationHoles is the number of holes a full handicap is spread across.
// Stroke indexes are conventionally rated against a full 18-hole round even on
// nine-hole courses, so the allocation base is fixed rather than taken from
// the course's hole count.
const allocationHoles = 18

// StrokesReceived returns how many handicap strokes a player receives on a
// single hole. Strokes are allocated by hole difficulty: every hole gets
// floor(handicap / 18) strokes, and the remainder is handed out one stroke at
// a time starting from the hardest hole (handicap index 1).
//
// A player with handicap 18 receives exactly one stroke per hole; handicap 20
// receives two strokes on the two hardest holes and one everywhere else.
// Plus-handicaps (better than scratch) receive nothing — giving strokes back
// is not used in any of the supported formats.
func StrokesReceived(handicap float64, handicapIndex int) int {
	h := int(math.Round(handicap))
	if h <= 0 {
		return 0
	}
	base := h / allocationHoles
	if handicapIndex <= h%allocationHoles {
		return base + 1
	}
	return base
}
