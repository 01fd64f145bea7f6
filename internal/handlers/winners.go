// Handlers for /api/v1/events/:id/winners — running the winner calculation
// and reading its persisted results.
//
// Recalculation replaces the event's entire result set inside one
// transaction (delete-then-insert), so readers see either the previous run
// or the new one in full, never a mix. The calculation itself is pure and
// deterministic: rerunning it over unchanged scorecards writes identical
// rows.
package handlers

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/fairwaylabs/tourney/internal/models"
	"github.com/fairwaylabs/tourney/internal/scoring"
)

// WinnerResultResponse is one persisted winner row in a response.
type WinnerResultResponse struct {
	ParticipantID      string          `json:"participant_id"`
	ParticipantName    string          `json:"participant_name"`
	OverallRank        *int            `json:"overall_rank"`
	DivisionRank       *int            `json:"division_rank"`
	DivisionID         *string         `json:"division_id"`
	GrossScore         int             `json:"gross_score"`
	NetScore           *float64        `json:"net_score"`
	Points             int             `json:"points"`
	IsTied             bool            `json:"is_tied"`
	TiedWith           []string        `json:"tied_with"`
	TieBreakCriteria   models.TieBreak `json:"tie_break_criteria"`
	OriginalDivisionID *string         `json:"original_division_id"`
	DivisionReassigned bool            `json:"division_reassigned"`
}

// CalculateWinners returns a handler for POST /api/v1/events/:id/winners.
// Requires "admin" or "organizer" role. An event where nobody has completed
// a hole yields 200 with an empty list — no winners yet is not an error.
func CalculateWinners(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		event, err := loadEvent(db, c.Params("id"))
		if err != nil {
			return respondEventError(c, err)
		}

		winnerStrategy, err := scoring.WinnerStrategyFor(event.ScoringType)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "event has an unsupported scoring type",
			})
		}

		snap, err := buildSnapshot(db, event)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "failed to load event data",
			})
		}

		results, err := winnerStrategy.CalculateWinners(snap)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "winner calculation failed",
			})
		}

		// Replace the event's results wholesale. The transaction is the
		// atomicity boundary: either the old run survives intact or the new
		// one lands complete.
		rows := make([]models.WinnerResult, 0, len(results))
		for _, r := range results {
			rows = append(rows, models.WinnerResult{
				EventID:            event.ID,
				ParticipantID:      r.ParticipantID,
				OverallRank:        r.OverallRank,
				DivisionRank:       r.DivisionRank,
				DivisionID:         r.DivisionID,
				GrossScore:         r.GrossScore,
				NetScore:           r.NetScore,
				Points:             r.Points,
				IsTied:             r.IsTied,
				TiedWith:           models.UUIDList(r.TiedWith),
				TieBreakCriteria:   r.TieBreakCriteria,
				OriginalDivisionID: r.OriginalDivisionID,
				DivisionReassigned: r.DivisionReassigned,
			})
		}
		txErr := db.Transaction(func(tx *gorm.DB) error {
			if err := tx.Where("event_id = ?", event.ID).Delete(&models.WinnerResult{}).Error; err != nil {
				return err
			}
			for i := range rows {
				if err := tx.Create(&rows[i]).Error; err != nil {
					return err
				}
			}
			return nil
		})
		if txErr != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "failed to save winner results",
			})
		}

		return c.JSON(winnerResponses(db, rows))
	}
}

// GetWinners returns a handler for GET /api/v1/events/:id/winners — the
// persisted results of the most recent calculation, best rank first.
func GetWinners(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		event, err := loadEvent(db, c.Params("id"))
		if err != nil {
			return respondEventError(c, err)
		}

		var rows []models.WinnerResult
		if err := db.Where("event_id = ?", event.ID).
			Order("overall_rank NULLS LAST, participant_id").
			Find(&rows).Error; err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "failed to fetch winner results",
			})
		}

		return c.JSON(winnerResponses(db, rows))
	}
}

// winnerResponses builds response DTOs, resolving participant names in one
// query.
func winnerResponses(db *gorm.DB, rows []models.WinnerResult) []WinnerResultResponse {
	ids := make([]interface{}, 0, len(rows))
	for _, r := range rows {
		ids = append(ids, r.ParticipantID)
	}
	names := make(map[string]string, len(rows))
	if len(ids) > 0 {
		var participants []models.Participant
		if err := db.Where("id IN ?", ids).Find(&participants).Error; err == nil {
			for _, p := range participants {
				names[p.ID.String()] = p.Name
			}
		}
	}

	response := make([]WinnerResultResponse, 0, len(rows))
	for _, r := range rows {
		resp := WinnerResultResponse{
			ParticipantID:      r.ParticipantID.String(),
			ParticipantName:    names[r.ParticipantID.String()],
			OverallRank:        r.OverallRank,
			DivisionRank:       r.DivisionRank,
			GrossScore:         r.GrossScore,
			NetScore:           r.NetScore,
			Points:             r.Points,
			IsTied:             r.IsTied,
			TiedWith:           make([]string, 0, len(r.TiedWith)),
			TieBreakCriteria:   r.TieBreakCriteria,
			DivisionReassigned: r.DivisionReassigned,
		}
		for _, id := range r.TiedWith {
			resp.TiedWith = append(resp.TiedWith, id.String())
		}
		if r.DivisionID != nil {
			s := r.DivisionID.String()
			resp.DivisionID = &s
		}
		if r.OriginalDivisionID != nil {
			s := r.OriginalDivisionID.String()
			resp.OriginalDivisionID = &s
		}
		response = append(response, resp)
	}
	return response
}
