// Handler for GET /api/v1/events/:id/leaderboard.
//
// The leaderboard is never persisted: every read rebuilds it from the current
// scorecards through the scoring engine, so it can't drift out of sync with
// the scores. Ordering comes from the event's scoring strategy sort key.
package handlers

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/fairwaylabs/tourney/internal/scoring"
)

// LeaderboardResponse wraps the entries with the event context a scoreboard
// display needs.
type LeaderboardResponse struct {
	EventID     string                     `json:"event_id"`
	EventName   string                     `json:"event_name"`
	ScoringType string                     `json:"scoring_type"`
	CoursePar   int                        `json:"course_par"`
	Entries     []scoring.LeaderboardEntry `json:"entries"`
}

// GetLeaderboard returns a handler for GET /api/v1/events/:id/leaderboard.
func GetLeaderboard(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		event, err := loadEvent(db, c.Params("id"))
		if err != nil {
			return respondEventError(c, err)
		}

		snap, err := buildSnapshot(db, event)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "failed to load event data",
			})
		}

		entries, err := scoring.BuildLeaderboard(snap)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "event has an unsupported scoring type",
			})
		}

		return c.JSON(LeaderboardResponse{
			EventID:     event.ID.String(),
			EventName:   event.Name,
			ScoringType: string(event.ScoringType),
			CoursePar:   event.Course.Par,
			Entries:     entries,
		})
	}
}
