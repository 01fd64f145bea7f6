// Handlers for /api/v1/events/:id/participants routes — tournament
// registration. Participants are standalone records (name + declared
// handicap), not linked user accounts, because walk-up players are common.
package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/fairwaylabs/tourney/internal/models"
)

// CreateParticipantRequest is the JSON body for POST /api/v1/events/:id/participants.
type CreateParticipantRequest struct {
	Name             string  `json:"name"`
	DeclaredHandicap float64 `json:"declared_handicap"`
	DivisionID       *string `json:"division_id"` // Optional
}

// ParticipantResponse is what we send back for a participant.
type ParticipantResponse struct {
	ID               string  `json:"id"`
	Name             string  `json:"name"`
	DeclaredHandicap float64 `json:"declared_handicap"`
	DivisionID       *string `json:"division_id"`
	DivisionName     *string `json:"division_name"`
}

// CreateParticipant returns a handler for POST /api/v1/events/:id/participants.
// Requires "admin" or "organizer" role. When no division is given but the
// event has divisions, the participant is auto-assigned to the division whose
// handicap range contains their declared handicap.
func CreateParticipant(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		event, err := loadEvent(db, c.Params("id"))
		if err != nil {
			return respondEventError(c, err)
		}

		var req CreateParticipantRequest
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "invalid request body",
			})
		}
		if req.Name == "" {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "name is required",
			})
		}
		if req.DeclaredHandicap < 0 || req.DeclaredHandicap > 54 {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "declared_handicap must be between 0 and 54",
			})
		}

		participant := models.Participant{
			EventID:          event.ID,
			Name:             req.Name,
			DeclaredHandicap: req.DeclaredHandicap,
		}

		if req.DivisionID != nil && *req.DivisionID != "" {
			divisionID, err := uuid.Parse(*req.DivisionID)
			if err != nil {
				return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
					"error": "invalid division_id",
				})
			}
			var division models.EventDivision
			if err := db.First(&division, "id = ? AND event_id = ?", divisionID, event.ID).Error; err != nil {
				if err == gorm.ErrRecordNotFound {
					return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
						"error": "division not found in this event",
					})
				}
				return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
					"error": "database error",
				})
			}
			participant.DivisionID = &divisionID
		} else {
			// Auto-assign by declared handicap when the event has divisions.
			// Top-level divisions only — subdivisions are reassignment
			// targets, not registration targets.
			var divisions []models.EventDivision
			db.Where("event_id = ? AND parent_id IS NULL", event.ID).
				Order("handicap_min, name").Find(&divisions)
			for _, d := range divisions {
				if req.DeclaredHandicap >= d.HandicapMin && req.DeclaredHandicap <= d.HandicapMax {
					id := d.ID
					participant.DivisionID = &id
					break
				}
			}
		}

		if err := db.Create(&participant).Error; err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "failed to create participant",
			})
		}

		return c.Status(fiber.StatusCreated).JSON(participantResponse(db, participant))
	}
}

// GetParticipants returns a handler for GET /api/v1/events/:id/participants.
func GetParticipants(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		event, err := loadEvent(db, c.Params("id"))
		if err != nil {
			return respondEventError(c, err)
		}

		var participants []models.Participant
		if err := db.Preload("Division").Where("event_id = ?", event.ID).
			Order("name").Find(&participants).Error; err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "failed to fetch participants",
			})
		}

		response := make([]ParticipantResponse, 0, len(participants))
		for _, p := range participants {
			response = append(response, participantResponse(db, p))
		}
		return c.JSON(response)
	}
}

func participantResponse(db *gorm.DB, p models.Participant) ParticipantResponse {
	resp := ParticipantResponse{
		ID:               p.ID.String(),
		Name:             p.Name,
		DeclaredHandicap: p.DeclaredHandicap,
	}
	if p.DivisionID != nil {
		s := p.DivisionID.String()
		resp.DivisionID = &s
		if p.Division == nil {
			var division models.EventDivision
			if err := db.First(&division, "id = ?", *p.DivisionID).Error; err == nil {
				p.Division = &division
			}
		}
		if p.Division != nil {
			name := p.Division.Name
			resp.DivisionName = &name
		}
	}
	return resp
}
