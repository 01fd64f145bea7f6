// Snapshot assembly: the bridge between GORM rows and the pure scoring
// engine. Everything the engine will read is materialized here in one set of
// queries, so a calculation is consistent with respect to a single point in
// time even while other requests keep writing scores.
package handlers

import (
	"gorm.io/gorm"

	"github.com/fairwaylabs/tourney/internal/models"
	"github.com/fairwaylabs/tourney/internal/scoring"
)

// buildSnapshot loads the full engine input for an event: course holes,
// participants, divisions, and every scorecard row.
func buildSnapshot(db *gorm.DB, event *models.Event) (scoring.Snapshot, error) {
	snap := scoring.Snapshot{
		ScoringType:      event.ScoringType,
		System36Modified: event.System36Modified,
	}

	var holes []models.Hole
	if err := db.Where("course_id = ?", event.CourseID).Order("number").Find(&holes).Error; err != nil {
		return snap, err
	}
	holeNumberByID := make(map[string]int, len(holes))
	for _, h := range holes {
		snap.Holes = append(snap.Holes, scoring.Hole{
			Number:        h.Number,
			Par:           h.Par,
			HandicapIndex: h.HandicapIndex,
		})
		holeNumberByID[h.ID.String()] = h.Number
	}

	var participants []models.Participant
	if err := db.Where("event_id = ?", event.ID).Order("name").Find(&participants).Error; err != nil {
		return snap, err
	}
	for _, p := range participants {
		snap.Players = append(snap.Players, scoring.Player{
			ID:         p.ID,
			Name:       p.Name,
			Handicap:   p.DeclaredHandicap,
			DivisionID: p.DivisionID,
		})
	}

	var divisions []models.EventDivision
	if err := db.Where("event_id = ?", event.ID).Order("handicap_min, name").Find(&divisions).Error; err != nil {
		return snap, err
	}
	for _, d := range divisions {
		snap.Divisions = append(snap.Divisions, scoring.Division{
			ID:          d.ID,
			Name:        d.Name,
			HandicapMin: d.HandicapMin,
			HandicapMax: d.HandicapMax,
			ParentID:    d.ParentID,
		})
	}

	var cards []models.Scorecard
	if err := db.
		Joins("JOIN participants ON participants.id = scorecards.participant_id").
		Where("participants.event_id = ?", event.ID).
		Order("scorecards.participant_id, scorecards.entered_at").
		Find(&cards).Error; err != nil {
		return snap, err
	}
	for _, card := range cards {
		snap.Cards = append(snap.Cards, scoring.Card{
			PlayerID:       card.ParticipantID,
			HoleNumber:     holeNumberByID[card.HoleID.String()],
			Strokes:        card.Strokes,
			NetScore:       card.NetScore,
			Points:         card.Points,
			System36Points: card.System36Points,
		})
	}

	return snap, nil
}
