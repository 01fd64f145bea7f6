// Handlers for scorecard entry — POST and GET under
// /api/v1/events/:id/participants/:pid/scores.
//
// Strokes is the only field taken from the request. The event's scoring
// strategy validates it, and derived values (net score, points) are always
// recomputed server-side, so a scorecard can never carry a derived score that
// disagrees with its strokes. After every accepted write the fresh
// leaderboard is pushed to everyone watching the event over WebSocket.
package handlers

import (
	"encoding/json"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/fairwaylabs/tourney/internal/models"
	"github.com/fairwaylabs/tourney/internal/scoring"
	"github.com/fairwaylabs/tourney/internal/websocket"
)

// SubmitScoreRequest is the JSON body for POST .../scores.
type SubmitScoreRequest struct {
	HoleNumber int `json:"hole_number"`
	Strokes    int `json:"strokes"`
}

// ScorecardResponse is one scorecard row in a response.
type ScorecardResponse struct {
	HoleNumber     int     `json:"hole_number"`
	Par            int     `json:"par"`
	Strokes        int     `json:"strokes"`
	NetScore       float64 `json:"net_score"`
	Points         int     `json:"points"`
	System36Points *int    `json:"system36_points,omitempty"`
}

// SubmitScore returns a handler for POST /api/v1/events/:id/participants/:pid/scores.
// Requires "admin" or "organizer" role. Re-submitting a hole overwrites the
// previous strokes (scorers correct mistakes constantly during a round).
func SubmitScore(db *gorm.DB, hub *websocket.Hub) fiber.Handler {
	return func(c *fiber.Ctx) error {
		event, err := loadEvent(db, c.Params("id"))
		if err != nil {
			return respondEventError(c, err)
		}
		if event.Status == models.EventStatusCompleted || event.Status == models.EventStatusCancelled {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{
				"error": "event is no longer accepting scores",
			})
		}

		participant, err := loadParticipant(db, event.ID, c.Params("pid"))
		if err != nil {
			return respondEventError(c, err)
		}

		var req SubmitScoreRequest
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "invalid request body",
			})
		}

		var hole models.Hole
		if err := db.First(&hole, "course_id = ? AND number = ?", event.CourseID, req.HoleNumber).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
					"error": "hole not found on this course",
				})
			}
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "database error",
			})
		}

		strategy, err := scoring.StrategyFor(event.ScoringType)
		if err != nil {
			// Unreachable with a validated event row; if it fires, the data
			// is corrupt and that's a server fault, not a client one.
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "event has an unsupported scoring type",
			})
		}

		// Validation failure is a structured rejection, not a fault: the
		// strategy says why and the scorer fixes their input.
		if ok, reason := strategy.ValidateScore(req.Strokes, hole.Par, participant.DeclaredHandicap); !ok {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": reason,
			})
		}

		userIDStr, _ := c.Locals("userID").(string)
		enteredBy, err := uuid.Parse(userIDStr)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "invalid user ID",
			})
		}

		// Compute derived fields through the engine before touching the DB.
		engineCard := scoring.Card{
			PlayerID:   participant.ID,
			HoleNumber: hole.Number,
			Strokes:    req.Strokes,
		}
		player := scoring.Player{
			ID:         participant.ID,
			Handicap:   participant.DeclaredHandicap,
			DivisionID: participant.DivisionID,
		}
		strategy.UpdateScorecard(&engineCard, player, scoring.Hole{
			Number:        hole.Number,
			Par:           hole.Par,
			HandicapIndex: hole.HandicapIndex,
		})

		// Upsert: one scorecard row per (participant, hole).
		var card models.Scorecard
		err = db.Where("participant_id = ? AND hole_id = ?", participant.ID, hole.ID).First(&card).Error
		switch {
		case err == gorm.ErrRecordNotFound:
			card = models.Scorecard{
				ParticipantID:  participant.ID,
				HoleID:         hole.ID,
				Strokes:        req.Strokes,
				NetScore:       engineCard.NetScore,
				Points:         engineCard.Points,
				System36Points: engineCard.System36Points,
				EnteredBy:      enteredBy,
			}
			if err := db.Create(&card).Error; err != nil {
				return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
					"error": "failed to save score",
				})
			}
		case err == nil:
			updates := map[string]interface{}{
				"strokes":         req.Strokes,
				"net_score":       engineCard.NetScore,
				"points":          engineCard.Points,
				"system36_points": engineCard.System36Points,
				"entered_by":      enteredBy,
			}
			if err := db.Model(&card).Updates(updates).Error; err != nil {
				return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
					"error": "failed to save score",
				})
			}
		default:
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "database error",
			})
		}

		broadcastLeaderboard(db, hub, event)

		return c.Status(fiber.StatusCreated).JSON(ScorecardResponse{
			HoleNumber:     hole.Number,
			Par:            hole.Par,
			Strokes:        req.Strokes,
			NetScore:       engineCard.NetScore,
			Points:         engineCard.Points,
			System36Points: engineCard.System36Points,
		})
	}
}

// GetScorecard returns a handler for GET /api/v1/events/:id/participants/:pid/scores —
// the participant's full card in hole order.
func GetScorecard(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		event, err := loadEvent(db, c.Params("id"))
		if err != nil {
			return respondEventError(c, err)
		}
		participant, err := loadParticipant(db, event.ID, c.Params("pid"))
		if err != nil {
			return respondEventError(c, err)
		}

		var cards []models.Scorecard
		if err := db.Preload("Hole").
			Joins("JOIN holes ON holes.id = scorecards.hole_id").
			Where("scorecards.participant_id = ?", participant.ID).
			Order("holes.number").
			Find(&cards).Error; err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "failed to fetch scorecard",
			})
		}

		response := make([]ScorecardResponse, 0, len(cards))
		for _, card := range cards {
			response = append(response, ScorecardResponse{
				HoleNumber:     card.Hole.Number,
				Par:            card.Hole.Par,
				Strokes:        card.Strokes,
				NetScore:       card.NetScore,
				Points:         card.Points,
				System36Points: card.System36Points,
			})
		}
		return c.JSON(response)
	}
}

// loadParticipant fetches a participant by path parameter, scoped to the
// event so a participant ID from another tournament 404s instead of leaking.
func loadParticipant(db *gorm.DB, eventID uuid.UUID, idParam string) (*models.Participant, error) {
	participantID, err := uuid.Parse(idParam)
	if err != nil {
		return nil, fiber.NewError(fiber.StatusBadRequest, "invalid participant ID")
	}
	var participant models.Participant
	if err := db.First(&participant, "id = ? AND event_id = ?", participantID, eventID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fiber.NewError(fiber.StatusNotFound, "participant not found")
		}
		return nil, err
	}
	return &participant, nil
}

// broadcastLeaderboard pushes the current leaderboard to the event's
// WebSocket watchers. Best effort: a failed rebuild only skips the push, the
// accepted score is already stored.
func broadcastLeaderboard(db *gorm.DB, hub *websocket.Hub, event *models.Event) {
	if hub == nil {
		return
	}
	snap, err := buildSnapshot(db, event)
	if err != nil {
		return
	}
	entries, err := scoring.BuildLeaderboard(snap)
	if err != nil {
		return
	}
	payload, err := json.Marshal(fiber.Map{
		"event_id":    event.ID.String(),
		"leaderboard": entries,
	})
	if err != nil {
		return
	}
	hub.BroadcastToEvent(event.ID.String(), payload)
}
