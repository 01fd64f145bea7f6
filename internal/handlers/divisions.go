// Handlers for /api/v1/events/:id/divisions routes — the participant
// groupings ranked independently of the overall field. A division bounds a
// handicap range; System 36 Modified events can declare subdivisions (via
// parent_id) that participants get reassigned into by their computed handicap
// during winner calculation.
package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/fairwaylabs/tourney/internal/models"
)

// CreateDivisionRequest is the JSON body for POST /api/v1/events/:id/divisions.
type CreateDivisionRequest struct {
	Name        string  `json:"name"`
	HandicapMin float64 `json:"handicap_min"`
	HandicapMax float64 `json:"handicap_max"`
	ParentID    *string `json:"parent_id"` // Optional: makes this a subdivision
}

// DivisionResponse is what we send back for a division.
type DivisionResponse struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	HandicapMin float64 `json:"handicap_min"`
	HandicapMax float64 `json:"handicap_max"`
	ParentID    *string `json:"parent_id"`
}

// CreateDivision returns a handler for POST /api/v1/events/:id/divisions.
// Requires "admin" or "organizer" role.
func CreateDivision(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		event, err := loadEvent(db, c.Params("id"))
		if err != nil {
			return respondEventError(c, err)
		}

		var req CreateDivisionRequest
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
		if req.HandicapMin > req.HandicapMax {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "handicap_min cannot exceed handicap_max",
			})
		}

		division := models.EventDivision{
			EventID:     event.ID,
			Name:        req.Name,
			HandicapMin: req.HandicapMin,
			HandicapMax: req.HandicapMax,
		}

		// An optional parent makes this a subdivision; the parent must belong
		// to the same event or reassignment later would cross tournaments.
		if req.ParentID != nil && *req.ParentID != "" {
			parentID, err := uuid.Parse(*req.ParentID)
			if err != nil {
				return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
					"error": "invalid parent_id",
				})
			}
			var parent models.EventDivision
			if err := db.First(&parent, "id = ? AND event_id = ?", parentID, event.ID).Error; err != nil {
				if err == gorm.ErrRecordNotFound {
					return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
						"error": "parent division not found in this event",
					})
				}
				return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
					"error": "database error",
				})
			}
			division.ParentID = &parentID
		}

		if err := db.Create(&division).Error; err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "failed to create division",
			})
		}

		return c.Status(fiber.StatusCreated).JSON(divisionResponse(division))
	}
}

// GetDivisions returns a handler for GET /api/v1/events/:id/divisions.
func GetDivisions(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		event, err := loadEvent(db, c.Params("id"))
		if err != nil {
			return respondEventError(c, err)
		}

		var divisions []models.EventDivision
		if err := db.Where("event_id = ?", event.ID).Order("handicap_min, name").Find(&divisions).Error; err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "failed to fetch divisions",
			})
		}

		response := make([]DivisionResponse, 0, len(divisions))
		for _, d := range divisions {
			response = append(response, divisionResponse(d))
		}
		return c.JSON(response)
	}
}

func divisionResponse(d models.EventDivision) DivisionResponse {
	resp := DivisionResponse{
		ID:          d.ID.String(),
		Name:        d.Name,
		HandicapMin: d.HandicapMin,
		HandicapMax: d.HandicapMax,
	}
	if d.ParentID != nil {
		s := d.ParentID.String()
		resp.ParentID = &s
	}
	return resp
}
